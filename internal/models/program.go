package models

import "encoding/json"

// Training is a reusable plan. Trainings come back from the API in the
// order the author arranged them, which is also the cycle order.
type Training struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Type        string             `json:"type,omitempty"`
	Description string             `json:"description,omitempty"`
	Exercises   []ExerciseSnapshot `json:"exercises"`
}

func (t *Training) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID          flexString     `json:"id"`
		MongoID     flexString     `json:"_id"`
		Name        flexString     `json:"name"`
		Type        flexString     `json:"type"`
		Description flexString     `json:"description"`
		Exercises   []snapshotWire `json:"exercises"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	id := string(wire.ID)
	if id == "" {
		id = string(wire.MongoID)
	}

	*t = Training{
		ID:          id,
		Name:        string(wire.Name),
		Type:        string(wire.Type),
		Description: string(wire.Description),
		Exercises:   normalizeSnapshotWire(wire.Exercises),
	}
	return nil
}

// Profile is the subset of /users/me the dashboard needs.
type Profile struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	WeeklyGoalDays int    `json:"weeklyGoalDays"`
}

func (p *Profile) UnmarshalJSON(data []byte) error {
	var wire struct {
		Name           flexString `json:"name"`
		Email          flexString `json:"email"`
		WeeklyGoalDays flexNumber `json:"weeklyGoalDays"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*p = Profile{
		Name:           string(wire.Name),
		Email:          string(wire.Email),
		WeeklyGoalDays: int(wire.WeeklyGoalDays.v),
	}
	return nil
}

package models

import (
	"encoding/json"
	"time"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// Workout is one timed execution of a training plan. The snapshot is owned
// by the workout; later edits to the plan do not touch it.
type Workout struct {
	ID                 string              `json:"id"`
	TrainingID         string              `json:"trainingId,omitempty"`
	TrainingName       string              `json:"trainingName"`
	Status             Status              `json:"status,omitempty"`
	StartedAt          string              `json:"startedAt,omitempty"`
	FinishedAt         string              `json:"finishedAt,omitempty"`
	EndedAt            string              `json:"endedAt,omitempty"`
	ExercisesSnapshot  []ExerciseSnapshot  `json:"exercisesSnapshot"`
	PerformedExercises []PerformedExercise `json:"performedExercises"`
}

func (w *Workout) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID                 flexString      `json:"id"`
		MongoID            flexString      `json:"_id"`
		TrainingID         flexString      `json:"trainingId"`
		TrainingName       flexString      `json:"trainingName"`
		Status             flexString      `json:"status"`
		StartedAt          flexString      `json:"startedAt"`
		FinishedAt         flexString      `json:"finishedAt"`
		EndedAt            flexString      `json:"endedAt"`
		ExercisesSnapshot  []snapshotWire  `json:"exercisesSnapshot"`
		PerformedExercises []performedWire `json:"performedExercises"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	id := string(wire.ID)
	if id == "" {
		id = string(wire.MongoID)
	}

	*w = Workout{
		ID:                 id,
		TrainingID:         string(wire.TrainingID),
		TrainingName:       string(wire.TrainingName),
		Status:             Status(wire.Status),
		StartedAt:          string(wire.StartedAt),
		FinishedAt:         string(wire.FinishedAt),
		EndedAt:            string(wire.EndedAt),
		ExercisesSnapshot:  normalizeSnapshotWire(wire.ExercisesSnapshot),
		PerformedExercises: normalizePerformedWire(wire.PerformedExercises),
	}
	return nil
}

// IsFinished treats a workout without a status as finished, the way history
// listings from older backends arrive.
func (w Workout) IsFinished() bool {
	return w.Status == "" || w.Status == StatusFinished
}

// CompletedAt resolves the instant a workout ended: finishedAt, then
// endedAt, then startedAt.
func (w Workout) CompletedAt() (time.Time, bool) {
	for _, s := range []string{w.FinishedAt, w.EndedAt, w.StartedAt} {
		if s != "" {
			return ParseTimestamp(s)
		}
	}
	return time.Time{}, false
}

// EndTimestamp returns the raw end timestamp, finishedAt before endedAt.
func (w Workout) EndTimestamp() string {
	if w.FinishedAt != "" {
		return w.FinishedAt
	}
	return w.EndedAt
}

// PlannedSets sums the planned set count over the snapshot.
func (w Workout) PlannedSets() int {
	total := 0
	for _, ex := range w.ExercisesSnapshot {
		total += ex.Sets
	}
	return total
}

package analytics

import (
	"time"

	"github.com/misterclayt0n/corefit/internal/models"
)

// NextTrainingInCycle picks the training after the last finished one,
// wrapping to the first. With no (known) last training the first one is
// returned. ok is false only when trainings is empty.
func NextTrainingInCycle(trainings []models.Training, lastFinishedTrainingID string) (models.Training, bool) {
	if len(trainings) == 0 {
		return models.Training{}, false
	}
	if lastFinishedTrainingID == "" {
		return trainings[0], true
	}
	for i, t := range trainings {
		if t.ID == lastFinishedTrainingID {
			return trainings[(i+1)%len(trainings)], true
		}
	}
	return trainings[0], true
}

// LastFinishedTrainingID returns the training of the most recently completed
// finished workout that references one.
func LastFinishedTrainingID(sessions []models.Workout) string {
	var id string
	var at time.Time
	for _, w := range sessions {
		if !w.IsFinished() || w.TrainingID == "" {
			continue
		}
		end, ok := w.CompletedAt()
		if !ok {
			continue
		}
		if id == "" || end.After(at) {
			id, at = w.TrainingID, end
		}
	}
	return id
}

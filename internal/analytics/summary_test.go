package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/misterclayt0n/corefit/internal/models"
)

func sets(pairs ...float64) []models.PerformedSet {
	out := make([]models.PerformedSet, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, models.PerformedSet{Reps: pairs[i], Weight: pairs[i+1]})
	}
	return out
}

func TestComputeSummary(t *testing.T) {
	performed := []models.PerformedExercise{{
		ExerciseName:  "Supino",
		SetsPerformed: sets(10, 20, 0, 0, 8, 22.5),
	}}

	s := ComputeSummary(performed)
	require.True(t, s.Executed)
	assert.Equal(t, 2, *s.SetsTotal)
	assert.Equal(t, 18.0, *s.RepsTotal)
	assert.Equal(t, 380, *s.VolumeTotal)
}

func TestComputeSummary_NothingExecuted(t *testing.T) {
	s := ComputeSummary([]models.PerformedExercise{{SetsPerformed: sets(0, 0, 0, 0)}})
	assert.False(t, s.Executed)
	assert.Nil(t, s.SetsTotal)
	assert.Nil(t, s.RepsTotal)
	assert.Nil(t, s.VolumeTotal)

	assert.Equal(t, 0, Volume(nil))
}

func TestComputeSummary_LoadWithoutReps(t *testing.T) {
	s := ComputeSummary([]models.PerformedExercise{{SetsPerformed: sets(0, 40)}})
	require.True(t, s.Executed)
	assert.Equal(t, 1, *s.SetsTotal)
	assert.Equal(t, 0, *s.VolumeTotal)
}

func TestComputeSummary_RoundsHalfUp(t *testing.T) {
	s := ComputeSummary([]models.PerformedExercise{{SetsPerformed: sets(1, 10.5)}})
	assert.Equal(t, 11, *s.VolumeTotal)
}

func TestComputeDuration(t *testing.T) {
	d := ComputeDuration("2026-10-14T10:00:00Z", "2026-10-14T10:47:30Z")
	require.NotNil(t, d)
	assert.Equal(t, 48, *d)

	d = ComputeDuration("2026-10-14T10:00:00Z", "2026-10-14T10:47:29Z")
	require.NotNil(t, d)
	assert.Equal(t, 47, *d)

	assert.Nil(t, ComputeDuration("2026-10-14T10:00:00Z", "2026-10-14T10:00:00Z"))
	assert.Nil(t, ComputeDuration("2026-10-14T11:00:00Z", "2026-10-14T10:00:00Z"))
	assert.Nil(t, ComputeDuration("", "2026-10-14T10:00:00Z"))
	assert.Nil(t, ComputeDuration("2026-10-14T10:00:00Z", "garbage"))
}

func TestWorkoutDuration_FallsBackToEndedAt(t *testing.T) {
	w := models.Workout{StartedAt: "2026-10-14T10:00:00Z", EndedAt: "2026-10-14T11:00:00Z"}
	d := WorkoutDuration(w)
	require.NotNil(t, d)
	assert.Equal(t, 60, *d)
}

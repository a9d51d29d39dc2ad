package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkoutUnmarshal_Normalizes(t *testing.T) {
	raw := `{
		"_id": "w1",
		"trainingId": "t1",
		"trainingName": "Push",
		"status": "active",
		"startedAt": "2024-01-01T10:00:00Z",
		"exercisesSnapshot": [
			{"name": "Dips", "sets": 3, "reps": "8-10", "targetWeight": "12.5"},
			{"name": "Bench", "sets": "4", "reps": "6", "order": 0, "targetWeight": null},
			{"name": "Fly", "sets": 2, "reps": "12", "order": 5, "targetWeight": "heavy"}
		],
		"performedExercises": [
			{"exerciseName": "Fly", "order": "5", "setsPerformed": [{"reps": 12, "weight": "10"}]}
		]
	}`

	var w Workout
	require.NoError(t, json.Unmarshal([]byte(raw), &w))

	assert.Equal(t, "w1", w.ID)
	assert.Equal(t, StatusActive, w.Status)
	require.Len(t, w.ExercisesSnapshot, 3)

	// Dips has no order and falls back to its index (0); Bench declares 0.
	// The stable sort keeps Dips first.
	assert.Equal(t, "Dips", w.ExercisesSnapshot[0].Name)
	assert.Equal(t, 12.5, w.ExercisesSnapshot[0].TargetWeight)
	assert.Equal(t, "Bench", w.ExercisesSnapshot[1].Name)
	assert.Equal(t, 4, w.ExercisesSnapshot[1].Sets)
	assert.Equal(t, 0.0, w.ExercisesSnapshot[1].TargetWeight)
	assert.Equal(t, 0.0, w.ExercisesSnapshot[2].TargetWeight)

	require.Len(t, w.PerformedExercises, 1)
	assert.Equal(t, 5, w.PerformedExercises[0].Order)
	assert.Equal(t, PerformedSet{Reps: 12, Weight: 10}, w.PerformedExercises[0].SetsPerformed[0])
}

func TestWorkoutUnmarshal_PrefersID(t *testing.T) {
	var w Workout
	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","_id":"b"}`), &w))
	assert.Equal(t, "a", w.ID)
	assert.True(t, w.IsFinished())
}

func TestWorkoutRoundTrip(t *testing.T) {
	in := Workout{
		ID:           "w1",
		TrainingName: "Legs",
		Status:       StatusFinished,
		FinishedAt:   "2024-01-03T12:00:00Z",
		ExercisesSnapshot: []ExerciseSnapshot{
			{Name: "Squat", Sets: 2, Reps: "5", Order: 1, TargetWeight: 100},
		},
		PerformedExercises: []PerformedExercise{
			{ExerciseName: "Squat", Order: 1, TargetWeight: 100, SetsPerformed: []PerformedSet{{Reps: 5, Weight: 100}, {}}},
		},
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Workout
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestCompletedAt(t *testing.T) {
	w := Workout{StartedAt: "2024-01-01T10:00:00Z", EndedAt: "2024-01-01T11:00:00Z"}
	got, ok := w.CompletedAt()
	require.True(t, ok)
	assert.Equal(t, 11, got.Hour())

	w.FinishedAt = "not a date"
	_, ok = w.CompletedAt()
	assert.False(t, ok)

	_, ok = Workout{}.CompletedAt()
	assert.False(t, ok)
}

func TestAlignPerformed(t *testing.T) {
	snap := []ExerciseSnapshot{
		{Name: "Bench", Sets: 3, Order: 0, TargetWeight: 80},
		{Name: "Row", Sets: 2, Order: 1},
	}
	existing := []PerformedExercise{
		{ExerciseName: "renamed", Order: 1, SetsPerformed: []PerformedSet{{Reps: 10, Weight: 50}, {}}},
	}

	got := AlignPerformed(snap, existing)
	require.Len(t, got, 2)

	assert.Equal(t, "Bench", got[0].ExerciseName)
	assert.Equal(t, 80.0, got[0].TargetWeight)
	assert.Len(t, got[0].SetsPerformed, 3)
	for _, s := range got[0].SetsPerformed {
		assert.False(t, s.Done())
	}

	assert.Equal(t, "Row", got[1].ExerciseName)
	assert.Equal(t, PerformedSet{Reps: 10, Weight: 50}, got[1].SetsPerformed[0])

	// The result must not alias the input.
	got[1].SetsPerformed[0].Reps = 1
	assert.Equal(t, 10.0, existing[0].SetsPerformed[0].Reps)
}

func TestPerformedSetDone(t *testing.T) {
	assert.False(t, PerformedSet{}.Done())
	assert.True(t, PerformedSet{Reps: 1}.Done())
	assert.True(t, PerformedSet{Weight: 20}.Done())
}

func TestTrainingUnmarshal(t *testing.T) {
	var trainings []Training
	raw := `[{"_id":"t1","name":"A","exercises":[{"name":"x","sets":3,"reps":"10","order":2},{"name":"y","sets":3,"reps":"10","order":1}]}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &trainings))
	require.Len(t, trainings, 1)
	assert.Equal(t, "t1", trainings[0].ID)
	assert.Equal(t, "y", trainings[0].Exercises[0].Name)
}

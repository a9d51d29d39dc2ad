package storage

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/misterclayt0n/corefit/internal/models"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()
	log, _ := logtest.NewNullLogger()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "cache", "corefit.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestDriverFor(t *testing.T) {
	tests := []struct {
		conn   string
		driver string
	}{
		{"libsql://corefit-ana.turso.io?authToken=x", driverLibSQL},
		{"https://corefit-ana.turso.io", driverLibSQL},
		{"ws://127.0.0.1:8080", driverLibSQL},
		{"file:./local.db?cache=shared&mode=rwc", driverSQLite},
		{"/home/ana/.local/share/corefit/cache.db", driverSQLite},
	}
	for _, tt := range tests {
		driver, dsn := driverFor(tt.conn)
		assert.Equal(t, tt.driver, driver, tt.conn)
		assert.Equal(t, tt.conn, dsn)
	}

	assert.Equal(t, "./local.db", localPath("file:./local.db?cache=shared&mode=rwc"))
	assert.Equal(t, "", localPath(":memory:"))
}

func TestOpen_EmptyConnection(t *testing.T) {
	_, err := Open(context.Background(), "", nil)
	assert.Error(t, err)
}

func sampleWorkouts() []models.Workout {
	return []models.Workout{
		{
			ID:           "w1",
			TrainingID:   "A",
			TrainingName: "Treino A",
			Status:       models.StatusFinished,
			StartedAt:    "2026-10-12T10:00:00Z",
			FinishedAt:   "2026-10-12T11:00:00Z",
			ExercisesSnapshot: []models.ExerciseSnapshot{
				{Name: "Supino", Sets: 2, Reps: "8", Order: 0, TargetWeight: 60},
			},
			PerformedExercises: []models.PerformedExercise{
				{ExerciseName: "Supino", Order: 0, TargetWeight: 60, SetsPerformed: []models.PerformedSet{{Reps: 8, Weight: 60}, {}}},
			},
		},
		{
			ID:           "w2",
			TrainingID:   "B",
			TrainingName: "Treino B",
			Status:       models.StatusFinished,
			StartedAt:    "2026-10-14T10:00:00Z",
			EndedAt:      "2026-10-14T10:50:00Z",
		},
	}
}

func TestWorkoutsRoundTrip(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()

	_, synced, err := s.LastSync(ctx)
	require.NoError(t, err)
	assert.False(t, synced)

	require.NoError(t, s.ReplaceWorkouts(ctx, sampleWorkouts()))

	got, err := s.ListWorkouts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "w2", got[0].ID)
	assert.Equal(t, sampleWorkouts()[0], got[1])

	one, err := s.GetWorkout(ctx, "w1")
	require.NoError(t, err)
	require.NotNil(t, one)
	assert.Equal(t, "Treino A", one.TrainingName)

	missing, err := s.GetWorkout(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, synced, err = s.LastSync(ctx)
	require.NoError(t, err)
	assert.True(t, synced)
}

func TestReplaceWorkouts_Replaces(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceWorkouts(ctx, sampleWorkouts()))
	require.NoError(t, s.ReplaceWorkouts(ctx, sampleWorkouts()[:1]))

	got, err := s.ListWorkouts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "w1", got[0].ID)
}

func TestSaveWorkout_AssignsLocalID(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveWorkout(ctx, models.Workout{TrainingName: "Sem id", StartedAt: "2026-10-10T10:00:00Z"}))

	got, err := s.ListWorkouts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, strings.HasPrefix(got[0].ID, "local-"))
}

func TestTrainingsKeepOrder(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()

	trainings := []models.Training{
		{ID: "C", Name: "Treino C"},
		{ID: "A", Name: "Treino A", Exercises: []models.ExerciseSnapshot{{Name: "Agachamento", Sets: 4, Reps: "6", Order: 0}}},
		{ID: "B", Name: "Treino B"},
	}
	require.NoError(t, s.ReplaceTrainings(ctx, trainings))

	got, err := s.ListTrainings(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"C", "A", "B"}, []string{got[0].ID, got[1].ID, got[2].ID})

	a, err := s.GetTraining(ctx, "A")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, trainings[1].Exercises, a.Exercises)
}

func TestWriteTOML(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()
	require.NoError(t, s.ReplaceWorkouts(ctx, sampleWorkouts()))

	var buf bytes.Buffer
	require.NoError(t, s.WriteTOML(ctx, &buf))

	var decoded map[string][]map[string]any
	_, err := toml.Decode(buf.String(), &decoded)
	require.NoError(t, err)
	require.Len(t, decoded["workouts"], 2)
	assert.Empty(t, decoded["trainings"])
	assert.Len(t, decoded["sync_state"], 1)

	path, err := s.ExportTOML(ctx, filepath.Join(t.TempDir(), "out", "dump.toml"))
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))
}

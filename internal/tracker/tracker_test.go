package tracker

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/misterclayt0n/corefit/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type call struct {
	op        string // save or finish
	workoutID string
	performed []models.PerformedExercise
}

type fakeBackend struct {
	mu        sync.Mutex
	calls     []call
	active    *models.Workout
	saveErr   error
	finishErr []error // consumed one per finish call

	// When set, the first save blocks until release is closed.
	saveStarted chan struct{}
	release     chan struct{}
}

func (f *fakeBackend) ActiveWorkout(context.Context) (*models.Workout, error) {
	return f.active, nil
}

func (f *fakeBackend) SavePerformance(_ context.Context, id string, performed []models.PerformedExercise) error {
	f.mu.Lock()
	f.calls = append(f.calls, call{op: "save", workoutID: id, performed: performed})
	started, release := f.saveStarted, f.release
	f.saveStarted = nil
	err := f.saveErr
	f.mu.Unlock()

	if started != nil {
		close(started)
		<-release
	}
	return err
}

func (f *fakeBackend) FinishWorkout(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{op: "finish", workoutID: id})
	if len(f.finishErr) > 0 {
		err := f.finishErr[0]
		f.finishErr = f.finishErr[1:]
		return err
	}
	return nil
}

func (f *fakeBackend) snapshot() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func ops(calls []call) []string {
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.op
	}
	return out
}

func testWorkout() models.Workout {
	return models.Workout{
		ID:           "w1",
		TrainingName: "Treino A",
		Status:       models.StatusActive,
		StartedAt:    "2026-10-15T10:00:00Z",
		ExercisesSnapshot: []models.ExerciseSnapshot{
			{Name: "Remada", Sets: 2, Reps: "10", Order: 1},
			{Name: "Supino", Sets: 3, Reps: "8-10", Order: 0, TargetWeight: 60},
		},
	}
}

func quietLogger() logrus.FieldLogger {
	log, _ := logtest.NewNullLogger()
	return log
}

func newTestTracker(b *fakeBackend, debounce time.Duration) *Tracker {
	return New(testWorkout(), b, WithDebounce(debounce), WithLogger(quietLogger()))
}

func TestNew_AlignsPerformedWithSnapshot(t *testing.T) {
	tr := newTestTracker(&fakeBackend{}, time.Hour)
	defer tr.Close()

	performed := tr.Performed()
	require.Len(t, performed, 2)
	assert.Equal(t, "Supino", performed[0].ExerciseName)
	assert.Len(t, performed[0].SetsPerformed, 3)
	assert.Equal(t, 60.0, performed[0].TargetWeight)
	assert.Equal(t, "Remada", performed[1].ExerciseName)
	assert.Len(t, performed[1].SetsPerformed, 2)
}

func TestUpdateSet(t *testing.T) {
	tr := newTestTracker(&fakeBackend{}, time.Hour)
	defer tr.Close()

	require.NoError(t, tr.UpdateSet(0, 1, FieldReps, 9))
	require.NoError(t, tr.UpdateSet(0, 1, FieldWeight, 62.5))
	require.NoError(t, tr.UpdateSet(1, 0, FieldWeight, math.Inf(1)))

	p := tr.Performed()
	assert.Equal(t, models.PerformedSet{Reps: 9, Weight: 62.5}, p[0].SetsPerformed[1])
	assert.Equal(t, 0.0, p[1].SetsPerformed[0].Weight)
	assert.True(t, tr.Dirty())
}

func TestUpdateSet_Bounds(t *testing.T) {
	tr := newTestTracker(&fakeBackend{}, time.Hour)
	defer tr.Close()

	assert.ErrorIs(t, tr.UpdateSet(7, 0, FieldReps, 1), ErrUnknownExercise)
	assert.ErrorIs(t, tr.UpdateSet(0, 3, FieldReps, 1), ErrSetOutOfRange)
	assert.ErrorIs(t, tr.UpdateSet(0, -1, FieldReps, 1), ErrSetOutOfRange)
}

func TestBump_WeightDoesNotDrift(t *testing.T) {
	tr := newTestTracker(&fakeBackend{}, time.Hour)
	defer tr.Close()

	for i := 0; i < 3; i++ {
		require.NoError(t, tr.Bump(0, 0, FieldWeight, 0.5))
	}
	assert.Equal(t, 1.5, tr.Performed()[0].SetsPerformed[0].Weight)

	for i := 0; i < 3; i++ {
		require.NoError(t, tr.Bump(0, 0, FieldWeight, 0.1))
	}
	assert.Equal(t, 1.8, tr.Performed()[0].SetsPerformed[0].Weight)
}

func TestBump_ClampsAtZero(t *testing.T) {
	tr := newTestTracker(&fakeBackend{}, time.Hour)
	defer tr.Close()

	require.NoError(t, tr.Bump(0, 0, FieldReps, 2))
	require.NoError(t, tr.Bump(0, 0, FieldReps, -5))
	require.NoError(t, tr.Bump(0, 0, FieldWeight, -2.5))

	assert.Equal(t, models.PerformedSet{}, tr.Performed()[0].SetsPerformed[0])
}

func TestToggleDone(t *testing.T) {
	tr := newTestTracker(&fakeBackend{}, time.Hour)
	defer tr.Close()

	require.NoError(t, tr.ToggleDone(0, 0))
	assert.Equal(t, models.PerformedSet{Reps: 1}, tr.Performed()[0].SetsPerformed[0])

	require.NoError(t, tr.ToggleDone(0, 0))
	assert.Equal(t, models.PerformedSet{}, tr.Performed()[0].SetsPerformed[0])

	// Load without reps is already done, so toggling clears it.
	require.NoError(t, tr.UpdateSet(0, 1, FieldWeight, 40))
	require.NoError(t, tr.ToggleDone(0, 1))
	assert.Equal(t, models.PerformedSet{}, tr.Performed()[0].SetsPerformed[1])
}

func TestToggleDone_ClearsRecordedSet(t *testing.T) {
	w := testWorkout()
	w.PerformedExercises = []models.PerformedExercise{{Order: 0, SetsPerformed: []models.PerformedSet{{Reps: 8, Weight: 60}, {}, {}}}}
	tr := New(w, &fakeBackend{}, WithDebounce(time.Hour), WithLogger(quietLogger()))
	defer tr.Close()

	require.NoError(t, tr.ToggleDone(0, 0))
	require.NoError(t, tr.ToggleDone(0, 0))
	assert.Equal(t, models.PerformedSet{Reps: 1}, tr.Performed()[0].SetsPerformed[0])
}

func TestDebouncedEditsCoalesce(t *testing.T) {
	b := &fakeBackend{}
	tr := newTestTracker(b, 50*time.Millisecond)
	defer tr.Close()

	require.NoError(t, tr.UpdateSet(0, 0, FieldReps, 8))
	require.NoError(t, tr.UpdateSet(0, 0, FieldWeight, 60))
	require.NoError(t, tr.Bump(0, 0, FieldWeight, 2.5))

	require.Eventually(t, func() bool { return len(b.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	calls := b.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, "save", calls[0].op)
	assert.Equal(t, "w1", calls[0].workoutID)
	assert.Equal(t, models.PerformedSet{Reps: 8, Weight: 62.5}, calls[0].performed[0].SetsPerformed[0])
	assert.False(t, tr.Dirty())
}

func TestAutosaveFailureIsLoggedAndSwallowed(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	b := &fakeBackend{saveErr: errors.New("boom")}
	tr := New(testWorkout(), b, WithDebounce(5*time.Millisecond), WithLogger(log))
	defer tr.Close()

	require.NoError(t, tr.ToggleDone(0, 0))
	require.Eventually(t, func() bool { return len(hook.AllEntries()) > 0 }, time.Second, 5*time.Millisecond)

	entry := hook.LastEntry()
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "w1", entry.Data["workout"])

	// Still editable after a failed save.
	assert.NoError(t, tr.ToggleDone(0, 1))
}

func TestFinish_SavesThenFinishes(t *testing.T) {
	b := &fakeBackend{}
	tr := newTestTracker(b, time.Hour)

	require.NoError(t, tr.UpdateSet(1, 1, FieldReps, 12))
	require.NoError(t, tr.Finish(context.Background()))

	calls := b.snapshot()
	assert.Equal(t, []string{"save", "finish"}, ops(calls))
	assert.Equal(t, 12.0, calls[0].performed[1].SetsPerformed[1].Reps)

	assert.ErrorIs(t, tr.UpdateSet(0, 0, FieldReps, 1), ErrFinished)
	assert.ErrorIs(t, tr.Finish(context.Background()), ErrFinished)
	assert.Equal(t, models.StatusFinished, tr.Workout().Status)
}

func TestFinish_FailureCanBeRetried(t *testing.T) {
	b := &fakeBackend{finishErr: []error{errors.New("HTTP 500")}}
	tr := newTestTracker(b, time.Hour)

	require.Error(t, tr.Finish(context.Background()))
	require.NoError(t, tr.ToggleDone(0, 0))
	require.NoError(t, tr.Finish(context.Background()))

	assert.Equal(t, []string{"save", "finish", "save", "finish"}, ops(b.snapshot()))
}

func TestFinish_WaitsForInFlightAutosave(t *testing.T) {
	b := &fakeBackend{saveStarted: make(chan struct{}), release: make(chan struct{})}
	started := b.saveStarted
	tr := newTestTracker(b, time.Millisecond)

	require.NoError(t, tr.UpdateSet(0, 0, FieldReps, 5))
	<-started
	assert.True(t, tr.Saving())

	done := make(chan error, 1)
	go func() { done <- tr.Finish(context.Background()) }()

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, []string{"save"}, ops(b.snapshot()))

	close(b.release)
	require.NoError(t, <-done)
	assert.Equal(t, []string{"save", "save", "finish"}, ops(b.snapshot()))
}

func TestFlush(t *testing.T) {
	b := &fakeBackend{}
	tr := newTestTracker(b, time.Hour)
	defer tr.Close()

	require.NoError(t, tr.UpdateSet(0, 2, FieldWeight, 70))
	require.NoError(t, tr.Flush(context.Background()))
	assert.False(t, tr.Dirty())

	calls := b.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, 70.0, calls[0].performed[0].SetsPerformed[2].Weight)
}

func TestClose_DropsPendingSave(t *testing.T) {
	b := &fakeBackend{}
	tr := newTestTracker(b, 20*time.Millisecond)

	require.NoError(t, tr.ToggleDone(0, 0))
	tr.Close()
	time.Sleep(50 * time.Millisecond)

	assert.Empty(t, b.snapshot())
	assert.ErrorIs(t, tr.ToggleDone(0, 0), ErrClosed)
}

func TestProgress(t *testing.T) {
	tr := newTestTracker(&fakeBackend{}, time.Hour)
	defer tr.Close()

	assert.Equal(t, Progress{Planned: 5}, tr.Progress())

	require.NoError(t, tr.ToggleDone(0, 0))
	require.NoError(t, tr.ToggleDone(1, 1))
	assert.Equal(t, Progress{Done: 2, Planned: 5, Percent: 40}, tr.Progress())
}

func TestElapsed(t *testing.T) {
	tr := newTestTracker(&fakeBackend{}, time.Hour)
	defer tr.Close()

	now := time.Date(2026, 10, 15, 10, 47, 5, 0, time.UTC)
	assert.Equal(t, 47*time.Minute+5*time.Second, tr.Elapsed(now))
	assert.Equal(t, "47:05", FormatElapsed(tr.Elapsed(now)))
	assert.Equal(t, time.Duration(0), tr.Elapsed(now.Add(-2*time.Hour)))
	assert.Equal(t, "75:00", FormatElapsed(75*time.Minute))
}

func TestResume(t *testing.T) {
	_, err := Resume(context.Background(), &fakeBackend{})
	assert.ErrorIs(t, err, ErrNoActiveWorkout)

	w := testWorkout()
	tr, err := Resume(context.Background(), &fakeBackend{active: &w}, WithLogger(quietLogger()))
	require.NoError(t, err)
	defer tr.Close()
	assert.Equal(t, "w1", tr.ID())
}

func TestParseField(t *testing.T) {
	f, err := ParseField("KG")
	require.NoError(t, err)
	assert.Equal(t, FieldWeight, f)

	f, err = ParseField("reps")
	require.NoError(t, err)
	assert.Equal(t, FieldReps, f)

	_, err = ParseField("tempo")
	assert.Error(t, err)
}

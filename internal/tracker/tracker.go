// Package tracker keeps the editable state of the active workout and
// mirrors it to the backend: edits are saved after a short quiet period and
// finishing performs one authoritative save before closing the session.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/misterclayt0n/corefit/internal/models"
)

const DefaultDebounce = 600 * time.Millisecond

var (
	ErrNoActiveWorkout  = errors.New("no active workout")
	ErrUnknownExercise  = errors.New("no exercise with that order")
	ErrSetOutOfRange    = errors.New("set index out of range")
	ErrFinished         = errors.New("workout already finished")
	ErrFinishInProgress = errors.New("workout is being finished")
	ErrClosed           = errors.New("tracker closed")
)

// Backend is the slice of the REST client the tracker needs.
type Backend interface {
	ActiveWorkout(ctx context.Context) (*models.Workout, error)
	SavePerformance(ctx context.Context, workoutID string, performed []models.PerformedExercise) error
	FinishWorkout(ctx context.Context, workoutID string) error
}

type Field int

const (
	FieldReps Field = iota
	FieldWeight
)

func (f Field) String() string {
	if f == FieldWeight {
		return "weight"
	}
	return "reps"
}

func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "reps", "r":
		return FieldReps, nil
	case "weight", "kg", "w":
		return FieldWeight, nil
	}
	return 0, fmt.Errorf("unknown field %q (want reps or weight)", s)
}

type Option func(*Tracker)

// WithDebounce sets the quiet period before an edit is saved.
func WithDebounce(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.debounce = d
		}
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(t *Tracker) { t.log = log }
}

type Tracker struct {
	backend  Backend
	log      logrus.FieldLogger
	debounce time.Duration
	pending  *pendingSave

	mu        sync.Mutex
	workout   models.Workout // PerformedExercises is not used; see performed
	performed []models.PerformedExercise
	finishing bool
	finished  bool
	closed    bool

	saveMu sync.Mutex
	saving atomic.Bool
}

// New builds a tracker over w. The performed state is aligned with the
// snapshot so every planned exercise has an entry.
func New(w models.Workout, backend Backend, opts ...Option) *Tracker {
	t := &Tracker{
		backend:  backend,
		log:      logrus.StandardLogger(),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(t)
	}

	w.ExercisesSnapshot = models.SortSnapshot(append([]models.ExerciseSnapshot(nil), w.ExercisesSnapshot...))
	t.performed = models.AlignPerformed(w.ExercisesSnapshot, w.PerformedExercises)
	w.PerformedExercises = nil
	t.workout = w
	t.finished = w.Status == models.StatusFinished

	t.log = t.log.WithField("workout", w.ID)
	t.pending = newPendingSave(t.debounce, t.autosave)
	return t
}

// Resume loads the active workout and returns a tracker for it.
func Resume(ctx context.Context, backend Backend, opts ...Option) (*Tracker, error) {
	w, err := backend.ActiveWorkout(ctx)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrNoActiveWorkout
	}
	return New(*w, backend, opts...), nil
}

func (t *Tracker) ID() string { return t.workout.ID }

// Workout returns a copy of the tracked workout with the current performed
// state.
func (t *Tracker) Workout() models.Workout {
	t.mu.Lock()
	defer t.mu.Unlock()

	w := t.workout
	w.ExercisesSnapshot = append([]models.ExerciseSnapshot(nil), w.ExercisesSnapshot...)
	w.PerformedExercises = models.ClonePerformed(t.performed)
	return w
}

func (t *Tracker) Performed() []models.PerformedExercise {
	t.mu.Lock()
	defer t.mu.Unlock()
	return models.ClonePerformed(t.performed)
}

// UpdateSet overwrites one field of a set. Non-finite values become 0.
func (t *Tracker) UpdateSet(order, setIndex int, field Field, value float64) error {
	value = models.SafeNumber(value)
	return t.edit(order, setIndex, func(s *models.PerformedSet) {
		if field == FieldWeight {
			s.Weight = value
		} else {
			s.Reps = value
		}
	})
}

// Bump adds delta to one field, never going below 0. Weights are kept at
// one decimal so repeated 0.5 steps do not drift.
func (t *Tracker) Bump(order, setIndex int, field Field, delta float64) error {
	delta = models.SafeNumber(delta)
	return t.edit(order, setIndex, func(s *models.PerformedSet) {
		if field == FieldWeight {
			s.Weight = math.Max(0, round1(models.SafeNumber(s.Weight)+delta))
		} else {
			s.Reps = math.Max(0, models.SafeNumber(s.Reps)+delta)
		}
	})
}

// ToggleDone clears a done set, or marks an empty one with at least one rep.
func (t *Tracker) ToggleDone(order, setIndex int) error {
	return t.edit(order, setIndex, func(s *models.PerformedSet) {
		if s.Done() {
			*s = models.PerformedSet{}
			return
		}
		s.Reps = math.Max(1, models.SafeNumber(s.Reps))
	})
}

func (t *Tracker) edit(order, setIndex int, apply func(*models.PerformedSet)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.writableLocked(); err != nil {
		return err
	}

	idx := -1
	for i, pe := range t.performed {
		if pe.Order == order {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %d", ErrUnknownExercise, order)
	}
	sets := t.performed[idx].SetsPerformed
	if setIndex < 0 || setIndex >= len(sets) {
		return fmt.Errorf("%w: set %d of %d", ErrSetOutOfRange, setIndex+1, len(sets))
	}

	apply(&sets[setIndex])
	t.pending.schedule(models.ClonePerformed(t.performed))
	return nil
}

func (t *Tracker) writableLocked() error {
	switch {
	case t.finished:
		return ErrFinished
	case t.finishing:
		return ErrFinishInProgress
	case t.closed:
		return ErrClosed
	}
	return nil
}

func (t *Tracker) autosave(performed []models.PerformedExercise) {
	t.mu.Lock()
	skip := t.finishing || t.finished
	t.mu.Unlock()
	if skip {
		return
	}

	if err := t.save(context.Background(), performed); err != nil {
		t.log.WithError(err).Warn("Autosave failed")
		return
	}
	t.log.Debug("Autosaved performance")
}

func (t *Tracker) save(ctx context.Context, performed []models.PerformedExercise) error {
	t.saveMu.Lock()
	defer t.saveMu.Unlock()

	t.saving.Store(true)
	defer t.saving.Store(false)
	return t.backend.SavePerformance(ctx, t.workout.ID, performed)
}

// Saving reports whether a save is in flight.
func (t *Tracker) Saving() bool { return t.saving.Load() }

// Dirty reports whether edits are waiting for the debounce to elapse.
func (t *Tracker) Dirty() bool { return t.pending.pending() }

// Flush saves the current state now, replacing any scheduled save.
func (t *Tracker) Flush(ctx context.Context) error {
	t.mu.Lock()
	if err := t.writableLocked(); err != nil && !errors.Is(err, ErrClosed) {
		t.mu.Unlock()
		return err
	}
	payload := models.ClonePerformed(t.performed)
	t.mu.Unlock()

	t.pending.cancel()
	t.pending.wait()
	return t.save(ctx, payload)
}

// Close drops any scheduled save and waits for one already running.
// Further edits fail with ErrClosed.
func (t *Tracker) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()

	t.pending.cancel()
	t.pending.wait()
}

// Finish saves the final state and closes the workout on the backend. A
// failure leaves the tracker editable so the call can be retried.
func (t *Tracker) Finish(ctx context.Context) error {
	t.mu.Lock()
	if t.finished {
		t.mu.Unlock()
		return ErrFinished
	}
	if t.finishing {
		t.mu.Unlock()
		return ErrFinishInProgress
	}
	t.finishing = true
	payload := models.ClonePerformed(t.performed)
	t.mu.Unlock()

	t.pending.cancel()
	t.pending.wait()

	err := t.save(ctx, payload)
	if err == nil {
		err = t.backend.FinishWorkout(ctx, t.workout.ID)
	}

	t.mu.Lock()
	t.finishing = false
	if err == nil {
		t.finished = true
		t.workout.Status = models.StatusFinished
	}
	t.mu.Unlock()

	if err != nil {
		t.log.WithError(err).Error("Finish failed")
		return err
	}
	t.log.Info("Workout finished")
	return nil
}

type Progress struct {
	Done    int
	Planned int
	Percent int
}

// Progress counts done sets against the planned set total.
func (t *Tracker) Progress() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := Progress{Planned: t.workout.PlannedSets()}
	for _, pe := range t.performed {
		for _, s := range pe.SetsPerformed {
			if s.Done() {
				p.Done++
			}
		}
	}
	if p.Planned > 0 {
		pct := int(math.Floor(float64(p.Done)/float64(p.Planned)*100 + 0.5))
		p.Percent = min(100, max(0, pct))
	}
	return p
}

// Elapsed is the time since the workout started, 0 when unknown.
func (t *Tracker) Elapsed(now time.Time) time.Duration {
	start, ok := models.ParseTimestamp(t.workout.StartedAt)
	if !ok || now.Before(start) {
		return 0
	}
	return now.Sub(start)
}

// FormatElapsed renders d as MM:SS; minutes keep growing past an hour.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

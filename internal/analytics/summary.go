// Package analytics derives progress metrics from workouts. Everything here
// is pure: no I/O, no clocks other than the reference times passed in.
package analytics

import (
	"math"

	"github.com/misterclayt0n/corefit/internal/models"
)

// Summary totals the executed sets of a workout. The pointer fields are nil
// when nothing was executed, so "0 kg" and "nothing recorded" stay distinct.
type Summary struct {
	Executed    bool
	SetsTotal   *int
	RepsTotal   *float64
	VolumeTotal *int
}

func ComputeSummary(performed []models.PerformedExercise) Summary {
	var sets int
	var reps, volume float64

	for _, ex := range performed {
		for _, s := range ex.SetsPerformed {
			if !s.Done() {
				continue
			}
			r := models.SafeNumber(s.Reps)
			w := models.SafeNumber(s.Weight)
			sets++
			reps += r
			volume += r * w
		}
	}

	if sets == 0 {
		return Summary{}
	}

	vol := roundHalfUp(volume)
	return Summary{
		Executed:    true,
		SetsTotal:   &sets,
		RepsTotal:   &reps,
		VolumeTotal: &vol,
	}
}

// Volume is the rounded volume of a workout, 0 when nothing was executed.
func Volume(performed []models.PerformedExercise) int {
	if s := ComputeSummary(performed); s.VolumeTotal != nil {
		return *s.VolumeTotal
	}
	return 0
}

// ComputeDuration returns the whole minutes between two timestamps, or nil
// unless both parse and end is after start.
func ComputeDuration(startedAt, endedAt string) *int {
	start, ok := models.ParseTimestamp(startedAt)
	if !ok {
		return nil
	}
	end, ok := models.ParseTimestamp(endedAt)
	if !ok || !end.After(start) {
		return nil
	}

	mins := roundHalfUp(float64(end.Sub(start).Milliseconds()) / 60000)
	return &mins
}

// WorkoutDuration is ComputeDuration over a workout's own timestamps.
func WorkoutDuration(w models.Workout) *int {
	return ComputeDuration(w.StartedAt, w.EndTimestamp())
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

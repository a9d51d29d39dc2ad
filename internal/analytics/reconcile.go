package analytics

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/misterclayt0n/corefit/internal/models"
	"github.com/misterclayt0n/corefit/internal/utils"
)

type SetReport struct {
	Index  int // 0-based position in setsPerformed
	Reps   float64
	Weight float64
	Done   bool
	Status string // hit, above, below or none
}

// ExerciseReport compares one planned exercise with what was recorded.
type ExerciseReport struct {
	Order        int
	Name         string
	Technique    string
	PlannedSets  int
	PlannedReps  string
	TargetWeight float64
	ExecutedSets int
	Target       TargetStatus
	Sets         []SetReport
}

// Reconcile joins snapshot and performed data on order and reports, per
// exercise, how the executed sets compare to the plan. Exercises with no
// performed entry report their planned sets as not done.
func Reconcile(snapshot []models.ExerciseSnapshot, performed []models.PerformedExercise) []ExerciseReport {
	byOrder := make(map[int]models.PerformedExercise, len(performed))
	for _, pe := range performed {
		if _, ok := byOrder[pe.Order]; !ok {
			byOrder[pe.Order] = pe
		}
	}

	reports := make([]ExerciseReport, 0, len(snapshot))
	for _, ex := range snapshot {
		sets := byOrder[ex.Order].SetsPerformed
		if len(sets) == 0 {
			sets = make([]models.PerformedSet, ex.Sets)
		}

		r := ExerciseReport{
			Order:        ex.Order,
			Name:         ex.Name,
			Technique:    ex.Technique,
			PlannedSets:  ex.Sets,
			PlannedReps:  ex.Reps,
			TargetWeight: ex.TargetWeight,
			Target:       ComputeTargetStatus(ex.TargetWeight, sets),
			Sets:         make([]SetReport, len(sets)),
		}
		for i, s := range sets {
			done := s.Done()
			if done {
				r.ExecutedSets++
			}
			r.Sets[i] = SetReport{
				Index:  i,
				Reps:   s.Reps,
				Weight: s.Weight,
				Done:   done,
				Status: setStatus(ex.TargetWeight, s),
			}
		}
		reports = append(reports, r)
	}
	return reports
}

func setStatus(target float64, s models.PerformedSet) string {
	if target <= 0 || !s.Done() {
		return LabelNone
	}
	return compareToTarget(models.SafeNumber(s.Weight)-target, TargetToleranceKg)
}

// Highlight is one row of the last-workout card.
type Highlight struct {
	Name           string
	TargetKg       *float64
	DoneKg         float64 // heaviest set
	Status         string  // hit, above, below or none
	EstimatedOneRM float64
}

const highlightEpsilon = 0.0001

// Highlights lists, in order, the exercises that moved any weight, with the
// heaviest set against the target. At most limit rows (limit <= 0 means all).
func Highlights(performed []models.PerformedExercise, limit int) []Highlight {
	sorted := append([]models.PerformedExercise(nil), performed...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	var out []Highlight
	for i, pe := range sorted {
		var maxKg, best1RM float64
		for _, s := range pe.SetsPerformed {
			w := models.SafeNumber(s.Weight)
			if w > maxKg {
				maxKg = w
			}
			if e := utils.CalculateEpley1RM(w, models.SafeNumber(s.Reps)); e > best1RM {
				best1RM = e
			}
		}
		if maxKg <= 0 {
			continue
		}

		name := strings.TrimSpace(pe.ExerciseName)
		if name == "" {
			name = "Exercise " + strconv.Itoa(i+1)
		}

		h := Highlight{Name: name, DoneKg: maxKg, Status: LabelNone, EstimatedOneRM: best1RM}
		if pe.TargetWeight > 0 {
			target := pe.TargetWeight
			h.TargetKg = &target
			switch {
			case maxKg > target+highlightEpsilon:
				h.Status = LabelAbove
			case math.Abs(maxKg-target) <= highlightEpsilon:
				h.Status = LabelHit
			default:
				h.Status = LabelBelow
			}
		}
		out = append(out, h)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// ExerciseEntry is one workout's worth of a single exercise.
type ExerciseEntry struct {
	WorkoutID      string
	TrainingName   string
	CompletedAt    time.Time
	Sets           []models.PerformedSet // executed sets only
	BestSet        models.PerformedSet   // highest estimated 1RM
	EstimatedOneRM float64
	Volume         int
}

// ExerciseHistory collects the executed sets of one exercise (matched by
// name, case-insensitively) across finished workouts, most recent first.
func ExerciseHistory(sessions []models.Workout, name string) []ExerciseEntry {
	name = strings.TrimSpace(name)
	var entries []ExerciseEntry
	for _, w := range sessions {
		if !w.IsFinished() {
			continue
		}
		at, ok := w.CompletedAt()
		if !ok {
			continue
		}
		for _, pe := range w.PerformedExercises {
			if !strings.EqualFold(strings.TrimSpace(pe.ExerciseName), name) {
				continue
			}
			e := ExerciseEntry{WorkoutID: w.ID, TrainingName: w.TrainingName, CompletedAt: at}
			var volume float64
			for _, s := range pe.SetsPerformed {
				if !s.Done() {
					continue
				}
				e.Sets = append(e.Sets, s)
				volume += s.Reps * s.Weight
				if rm := utils.CalculateEpley1RM(s.Weight, s.Reps); rm > e.EstimatedOneRM {
					e.EstimatedOneRM = rm
					e.BestSet = s
				}
			}
			if len(e.Sets) == 0 {
				continue
			}
			e.Volume = roundHalfUp(volume)
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].CompletedAt.After(entries[j].CompletedAt) })
	return entries
}

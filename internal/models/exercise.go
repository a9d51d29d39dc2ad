package models

import (
	"encoding/json"
	"sort"
)

const (
	TechniqueSuperset = "superset"
	TechniqueMyoreps  = "myoreps"
	TechniqueDrop     = "drop"
)

// ExerciseSnapshot is one exercise of a plan as frozen when the session started.
type ExerciseSnapshot struct {
	Name         string  `json:"name"`
	Sets         int     `json:"sets"`
	Reps         string  `json:"reps"`
	Order        int     `json:"order"`
	Technique    string  `json:"technique,omitempty"`
	TargetWeight float64 `json:"targetWeight"` // 0 means no goal.
}

type PerformedSet struct {
	Reps   float64 `json:"reps"`
	Weight float64 `json:"weight"`
}

// Done reports whether the set was executed. A set with load but no reps
// still counts.
func (s PerformedSet) Done() bool {
	return SafeNumber(s.Reps) > 0 || SafeNumber(s.Weight) > 0
}

func (s *PerformedSet) UnmarshalJSON(data []byte) error {
	var wire struct {
		Reps   flexNumber `json:"reps"`
		Weight flexNumber `json:"weight"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	s.Reps = wire.Reps.v
	s.Weight = wire.Weight.v
	return nil
}

type PerformedExercise struct {
	ExerciseName  string         `json:"exerciseName"`
	Order         int            `json:"order"`
	TargetWeight  float64        `json:"targetWeight"`
	SetsPerformed []PerformedSet `json:"setsPerformed"`
}

// Clone returns a deep copy, safe to hand to another goroutine.
func (p PerformedExercise) Clone() PerformedExercise {
	p.SetsPerformed = append([]PerformedSet(nil), p.SetsPerformed...)
	return p
}

// ClonePerformed deep-copies a performed list.
func ClonePerformed(in []PerformedExercise) []PerformedExercise {
	if in == nil {
		return nil
	}
	out := make([]PerformedExercise, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

//
// Wire shapes. The backend is loose about numbers and ordering, so the
// snapshot and performed lists are normalized here and nowhere else.
//

type snapshotWire struct {
	Name         flexString `json:"name"`
	Sets         flexNumber `json:"sets"`
	Reps         flexString `json:"reps"`
	Order        flexNumber `json:"order"`
	Technique    flexString `json:"technique"`
	TargetWeight flexNumber `json:"targetWeight"`
}

type performedWire struct {
	ExerciseName  flexString     `json:"exerciseName"`
	Order         flexNumber     `json:"order"`
	TargetWeight  flexNumber     `json:"targetWeight"`
	SetsPerformed []PerformedSet `json:"setsPerformed"`
}

func normalizeSnapshotWire(in []snapshotWire) []ExerciseSnapshot {
	out := make([]ExerciseSnapshot, 0, len(in))
	for i, ex := range in {
		order := i
		if ex.Order.ok {
			order = int(ex.Order.v)
		}
		sets := int(ex.Sets.v)
		if sets < 0 {
			sets = 0
		}
		out = append(out, ExerciseSnapshot{
			Name:         string(ex.Name),
			Sets:         sets,
			Reps:         string(ex.Reps),
			Order:        order,
			Technique:    string(ex.Technique),
			TargetWeight: ex.TargetWeight.v,
		})
	}
	return SortSnapshot(out)
}

func normalizePerformedWire(in []performedWire) []PerformedExercise {
	out := make([]PerformedExercise, 0, len(in))
	for i, pe := range in {
		order := i
		if pe.Order.ok {
			order = int(pe.Order.v)
		}
		sets := pe.SetsPerformed
		if sets == nil {
			sets = []PerformedSet{}
		}
		out = append(out, PerformedExercise{
			ExerciseName:  string(pe.ExerciseName),
			Order:         order,
			TargetWeight:  pe.TargetWeight.v,
			SetsPerformed: sets,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// SortSnapshot stably sorts a snapshot by order, in place, and returns it.
func SortSnapshot(snap []ExerciseSnapshot) []ExerciseSnapshot {
	sort.SliceStable(snap, func(i, j int) bool { return snap[i].Order < snap[j].Order })
	return snap
}

// AlignPerformed builds the editable performed state for a snapshot.
// Every snapshot exercise gets exactly one entry, in snapshot order. Sets
// already recorded for the same order are kept; otherwise the entry starts
// with Sets zeroed sets.
func AlignPerformed(snapshot []ExerciseSnapshot, existing []PerformedExercise) []PerformedExercise {
	byOrder := make(map[int]PerformedExercise, len(existing))
	for _, pe := range existing {
		if _, ok := byOrder[pe.Order]; !ok {
			byOrder[pe.Order] = pe
		}
	}

	out := make([]PerformedExercise, 0, len(snapshot))
	for _, ex := range snapshot {
		var sets []PerformedSet
		if found, ok := byOrder[ex.Order]; ok && len(found.SetsPerformed) > 0 {
			sets = make([]PerformedSet, len(found.SetsPerformed))
			for i, s := range found.SetsPerformed {
				sets[i] = PerformedSet{Reps: SafeNumber(s.Reps), Weight: SafeNumber(s.Weight)}
			}
		} else {
			sets = make([]PerformedSet, ex.Sets)
		}

		out = append(out, PerformedExercise{
			ExerciseName:  ex.Name,
			Order:         ex.Order,
			TargetWeight:  SafeNumber(ex.TargetWeight),
			SetsPerformed: sets,
		})
	}
	return out
}

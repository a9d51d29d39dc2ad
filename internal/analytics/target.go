package analytics

import (
	"math"

	"github.com/misterclayt0n/corefit/internal/models"
)

const (
	LabelNoTarget    = "no target"
	LabelNoExecution = "no execution"
	LabelHit         = "hit"
	LabelAbove       = "above"
	LabelBelow       = "below"
	LabelNone        = "none"
)

// TargetToleranceKg is the band around a target weight that counts as a hit.
const TargetToleranceKg = 0.5

type TargetStatus struct {
	Label     string
	DiffKg    float64
	AvgWeight float64
}

// AverageWeight averages the weight of executed sets only.
func AverageWeight(sets []models.PerformedSet) float64 {
	var sum float64
	var n int
	for _, s := range sets {
		if !s.Done() {
			continue
		}
		sum += models.SafeNumber(s.Weight)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func ComputeTargetStatus(targetWeight float64, sets []models.PerformedSet) TargetStatus {
	targetWeight = models.SafeNumber(targetWeight)
	if targetWeight <= 0 {
		return TargetStatus{Label: LabelNoTarget}
	}

	avg := AverageWeight(sets)
	if avg <= 0 {
		return TargetStatus{Label: LabelNoExecution}
	}

	diff := avg - targetWeight
	return TargetStatus{Label: compareToTarget(diff, TargetToleranceKg), DiffKg: diff, AvgWeight: avg}
}

func compareToTarget(diff, tolerance float64) string {
	switch {
	case math.Abs(diff) <= tolerance:
		return LabelHit
	case diff > 0:
		return LabelAbove
	default:
		return LabelBelow
	}
}

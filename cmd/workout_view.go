package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/misterclayt0n/corefit/internal/analytics"
	"github.com/misterclayt0n/corefit/internal/models"
)

const (
	tableIndent    = "   "
	setColWidth    = 5
	targetColWidth = 14
	doneColWidth   = 18
	statusColWidth = 10
)

func border(left, mid, right string) string {
	return tableIndent + left +
		strings.Repeat("─", setColWidth) + mid +
		strings.Repeat("─", targetColWidth) + mid +
		strings.Repeat("─", doneColWidth) + mid +
		strings.Repeat("─", statusColWidth) + right
}

// printReconciliation prints one box table per planned exercise, comparing
// each set with the plan.
func printReconciliation(w io.Writer, snapshot []models.ExerciseSnapshot, performed []models.PerformedExercise) {
	horizontalBorder := border("┌", "┬", "┐")
	midBorder := border("├", "┼", "┤")
	bottomBorder := border("└", "┴", "┘")
	headerLine := fmt.Sprintf(tableIndent+"│%-*s│%-*s│%-*s│%-*s│",
		setColWidth, "Set",
		targetColWidth, "Target",
		doneColWidth, "Done",
		statusColWidth, "Status",
	)

	for i, r := range analytics.Reconcile(snapshot, performed) {
		var technique string
		if r.Technique != "" {
			technique = yellow("(" + r.Technique + ")")
		}
		fmt.Fprintf(w, "%d - %s %s\n", i+1, cyan(r.Name), technique)

		target := r.PlannedReps
		if r.TargetWeight > 0 {
			target = fmt.Sprintf("%s @ %s", r.PlannedReps, formatKg(r.TargetWeight))
		}
		fmt.Fprintf(w, "   %s %d/%d sets", cyan("Executed:"), r.ExecutedSets, r.PlannedSets)
		switch r.Target.Label {
		case analytics.LabelNoTarget, analytics.LabelNoExecution:
			fmt.Fprintf(w, "  %s\n", faint(r.Target.Label))
		default:
			fmt.Fprintf(w, "  avg %s (%+.1fkg) %s\n", formatKg(round1(r.Target.AvgWeight)), r.Target.DiffKg, statusLabel(r.Target.Label))
		}

		fmt.Fprintln(w, horizontalBorder)
		fmt.Fprintln(w, headerLine)
		fmt.Fprintln(w, midBorder)
		for _, s := range r.Sets {
			done := formatSet(models.PerformedSet{Reps: s.Reps, Weight: s.Weight})
			// Pad before coloring; escape codes would throw the widths off.
			fmt.Fprintf(w, tableIndent+"│%-*d│%-*s│%-*s│%s│\n",
				setColWidth, s.Index+1,
				targetColWidth, target,
				doneColWidth, done,
				statusLabel(s.Status)+strings.Repeat(" ", max(0, statusColWidth-statusWidth(s.Status))),
			)
		}
		fmt.Fprintln(w, bottomBorder)
		fmt.Fprintln(w)
	}
}

// statusWidth is the printed width of statusLabel's output.
func statusWidth(label string) int {
	switch label {
	case analytics.LabelHit, analytics.LabelAbove, analytics.LabelBelow:
		return len(label) + 2
	default:
		return 1
	}
}

func printSummary(w io.Writer, workout models.Workout) {
	s := analytics.ComputeSummary(workout.PerformedExercises)
	if !s.Executed {
		printMetric(w, "Summary", faint("no sets recorded"))
		return
	}
	printMetric(w, "Sets", *s.SetsTotal)
	printMetric(w, "Reps", formatReps(*s.RepsTotal))
	printMetric(w, "Volume", formatOptionalInt(s.VolumeTotal, " kg"))
	printMetric(w, "Duration", formatMinutes(analytics.WorkoutDuration(workout)))
}

func round1(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}

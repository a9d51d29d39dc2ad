package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/misterclayt0n/corefit/internal/tracker"
)

var activeCmd = &cobra.Command{
	Use:     "active",
	Aliases: []string{"show-session"},
	Short:   "Show the active workout with progress and every set against its target",
	RunE: func(cmd *cobra.Command, args []string) error {
		tr, err := rt.resumeTracker(cmd.Context())
		if err != nil {
			return err
		}
		defer tr.Close()

		printActive(cmd.OutOrStdout(), tr, rt.now())
		return nil
	},
}

func printActive(w io.Writer, tr *tracker.Tracker, now time.Time) {
	workout := tr.Workout()
	p := tr.Progress()

	fmt.Fprintf(w, "%s\n", boldGreen(workout.TrainingName))
	fmt.Fprintf(w, "%s %s\n", red("Workout:"), workout.ID)
	fmt.Fprintf(w, "%s %s\n", red("Elapsed:"), tracker.FormatElapsed(tr.Elapsed(now)))
	fmt.Fprintf(w, "%s %s %d/%d sets (%d%%)\n\n", red("Progress:"),
		progressBar(p.Done, p.Planned, 20), p.Done, p.Planned, p.Percent)

	printReconciliation(w, workout.ExercisesSnapshot, workout.PerformedExercises)
}

func init() {
	rootCmd.AddCommand(activeCmd)
}

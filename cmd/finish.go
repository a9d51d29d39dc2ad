package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/misterclayt0n/corefit/internal/tracker"
)

var finishCmd = &cobra.Command{
	Use:     "finish",
	Aliases: []string{"end-session"},
	Short:   "Save the last edits and finish the active workout",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		tr, err := rt.resumeTracker(ctx)
		if err != nil {
			return err
		}
		defer tr.Close()

		return finishWorkout(ctx, tr, cmd.OutOrStdout())
	},
}

func finishWorkout(ctx context.Context, tr *tracker.Tracker, out io.Writer) error {
	if err := tr.Finish(ctx); err != nil {
		if errors.Is(err, tracker.ErrFinished) {
			return fmt.Errorf("Workout already finished")
		}
		return fmt.Errorf("Failed to finish workout, try again: %w", err)
	}

	workout := tr.Workout()
	workout.FinishedAt = rt.now().UTC().Format("2006-01-02T15:04:05.000Z")

	fmt.Fprintf(out, "✅ %s finished\n\n", boldGreen(workout.TrainingName))
	printSummary(out, workout)

	// Keep the offline history current without waiting for the next sync.
	if rt.cache != nil {
		if err := rt.cache.SaveWorkout(ctx, workout); err != nil {
			rt.log.WithError(err).Warn("Failed to cache finished workout")
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(finishCmd)
}

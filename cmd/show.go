package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/misterclayt0n/corefit/internal/analytics"
	"github.com/misterclayt0n/corefit/internal/history"
)

var showCmd = &cobra.Command{
	Use:     "show <workout-id>",
	Aliases: []string{"look-session"},
	Short:   "Show one past workout, set by set against the plan",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		workout, origin := rt.loader.Workout(cmd.Context(), args[0])
		if workout == nil && rt.cache != nil {
			// Workouts finished here are cached before the next history refresh.
			cached, err := rt.cache.GetWorkout(cmd.Context(), args[0])
			if err != nil {
				rt.log.WithError(err).Warn("Failed to read cached workout")
			}
			if cached != nil {
				workout, origin = cached, history.OriginCache
			}
		}
		printOrigin(out, origin)
		if workout == nil {
			return fmt.Errorf("Workout %s not found", args[0])
		}

		fmt.Fprintf(out, "%s\n", boldGreen(workout.TrainingName))
		fmt.Fprintf(out, "%s %s\n", red("Workout:"), workout.ID)
		if at, ok := workout.CompletedAt(); ok {
			fmt.Fprintf(out, "%s %s (%s)\n", red("Date:"), at.In(rt.loc).Format("Mon, 02 Jan 2006 15:04"),
				analytics.RelativeDayLabel(at.Format("2006-01-02T15:04:05Z07:00"), rt.now()))
		}
		printSummary(out, *workout)
		fmt.Fprintln(out)

		printReconciliation(out, workout.ExercisesSnapshot, workout.PerformedExercises)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/misterclayt0n/corefit/internal/analytics"
	"github.com/misterclayt0n/corefit/internal/api"
	"github.com/misterclayt0n/corefit/internal/models"
)

var startCmd = &cobra.Command{
	Use:   "start [training-id]",
	Short: "Start a workout; without an id the next training in your cycle is used",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		var training models.Training
		if len(args) == 1 {
			t, origin := rt.loader.Training(ctx, args[0])
			if t == nil {
				printOrigin(out, origin)
				training = models.Training{ID: args[0]}
			} else {
				training = *t
			}
		} else {
			trainings, origin := rt.loader.Trainings(ctx)
			printOrigin(out, origin)
			workouts, _ := rt.loader.Workouts(ctx)

			next, ok := analytics.NextTrainingInCycle(trainings, analytics.LastFinishedTrainingID(workouts))
			if !ok {
				return fmt.Errorf("No trainings found. Create one in the CoreFit app first")
			}
			training = next
		}

		return startTraining(ctx, out, training)
	},
}

// startTraining starts a workout for training. An active workout blocks
// the start and is shown instead; the conflict check on the start call
// covers the race where one begins in between.
func startTraining(ctx context.Context, out io.Writer, training models.Training) error {
	active, err := rt.client.ActiveWorkout(ctx)
	if err != nil {
		rt.log.WithError(err).Warn("Failed to check for an active workout")
	}
	if active != nil {
		return showActiveInstead(ctx, out)
	}

	workout, err := rt.client.StartWorkout(ctx, training.ID)
	if api.IsActiveWorkoutConflict(err) {
		return showActiveInstead(ctx, out)
	}
	if err != nil {
		return fmt.Errorf("Failed to start workout: %w", err)
	}

	name := training.Name
	if workout != nil && workout.TrainingName != "" {
		name = workout.TrainingName
	}
	if name == "" {
		name = training.ID
	}
	fmt.Fprintf(out, "✅ Started %s\n", boldGreen(name))
	if workout != nil {
		fmt.Fprintf(out, "%s %s\n", cyan("Workout:"), workout.ID)
		fmt.Fprintf(out, "%s %d exercises, %d sets planned\n", cyan("Plan:"), len(workout.ExercisesSnapshot), workout.PlannedSets())
	}
	fmt.Fprintln(out, faint("Log sets with 'corefit track' or 'corefit set'."))
	return nil
}

func showActiveInstead(ctx context.Context, out io.Writer) error {
	fmt.Fprintln(out, yellow("You already have a workout in progress:"))
	fmt.Fprintln(out)
	tr, err := rt.resumeTracker(ctx)
	if err != nil {
		return err
	}
	defer tr.Close()
	printActive(out, tr, rt.now())
	return nil
}

func init() {
	rootCmd.AddCommand(startCmd)
}

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/misterclayt0n/corefit/internal/analytics"
)

var trainingsCmd = &cobra.Command{
	Use:     "trainings",
	Aliases: []string{"programs"},
	Short:   "List your trainings in cycle order and mark the one due next",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		trainings, origin := rt.loader.Trainings(ctx)
		printOrigin(out, origin)
		if len(trainings) == 0 {
			fmt.Fprintln(out, magenta("No trainings found. Create one in the CoreFit app first."))
			return nil
		}

		workouts, _ := rt.loader.Workouts(ctx)
		next, _ := analytics.NextTrainingInCycle(trainings, analytics.LastFinishedTrainingID(workouts))

		table := newTable(out, "#", "Name", "Type", "Exercises", "Sets", "ID")
		for i, t := range trainings {
			sets := 0
			for _, ex := range t.Exercises {
				sets += ex.Sets
			}
			name := t.Name
			if t.ID == next.ID {
				name = boldGreen(name + " ← next")
			}
			_ = table.Append([]string{
				strconv.Itoa(i + 1),
				name,
				t.Type,
				strconv.Itoa(len(t.Exercises)),
				strconv.Itoa(sets),
				t.ID,
			})
		}
		_ = table.Render()
		return nil
	},
}

var showTrainingCmd = &cobra.Command{
	Use:     "show-training <training-id>",
	Aliases: []string{"show-program"},
	Short:   "Show the exercises of one training",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		t, origin := rt.loader.Training(cmd.Context(), args[0])
		printOrigin(out, origin)
		if t == nil {
			return fmt.Errorf("Training %s not found", args[0])
		}

		printBoxedHeader(out, t.Name)
		if t.Description != "" {
			fmt.Fprintln(out, faint(t.Description))
		}
		table := newTable(out, "#", "Exercise", "Sets", "Reps", "Target", "Technique")
		for i, ex := range t.Exercises {
			target := "-"
			if ex.TargetWeight > 0 {
				target = formatKg(ex.TargetWeight)
			}
			technique := ex.Technique
			if technique == "" {
				technique = "-"
			}
			_ = table.Append([]string{
				strconv.Itoa(i + 1),
				ex.Name,
				strconv.Itoa(ex.Sets),
				ex.Reps,
				target,
				technique,
			})
		}
		_ = table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trainingsCmd)
	rootCmd.AddCommand(showTrainingCmd)
}

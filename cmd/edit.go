package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/misterclayt0n/corefit/internal/tracker"
)

var (
	setReps    float64
	setWeight  float64
	bumpReps   float64
	bumpWeight float64
)

// resolveSet maps the 1-based exercise and set numbers shown by 'active'
// onto the exercise order and 0-based set index the tracker uses.
func resolveSet(tr *tracker.Tracker, exArg, setArg string) (order, setIdx int, err error) {
	exNum, err := strconv.Atoi(exArg)
	if err != nil || exNum < 1 {
		return 0, 0, fmt.Errorf("Invalid exercise number %q. Must be a positive integer", exArg)
	}
	setNum, err := strconv.Atoi(setArg)
	if err != nil || setNum < 1 {
		return 0, 0, fmt.Errorf("Invalid set number %q. Must be a positive integer", setArg)
	}

	performed := tr.Performed()
	if exNum > len(performed) {
		return 0, 0, fmt.Errorf("Exercise %d out of range (workout has %d)", exNum, len(performed))
	}
	return performed[exNum-1].Order, setNum - 1, nil
}

// editAndFlush applies one edit to the active workout and saves it right away.
func editAndFlush(cmd *cobra.Command, args []string, apply func(tr *tracker.Tracker, order, setIdx int) error) error {
	ctx := cmd.Context()
	tr, err := rt.resumeTracker(ctx)
	if err != nil {
		return err
	}
	defer tr.Close()

	order, setIdx, err := resolveSet(tr, args[0], args[1])
	if err != nil {
		return err
	}
	if err := apply(tr, order, setIdx); err != nil {
		return err
	}
	if err := tr.Flush(ctx); err != nil {
		return fmt.Errorf("Failed to save set: %w", err)
	}

	for _, pe := range tr.Performed() {
		if pe.Order == order {
			fmt.Fprintf(cmd.OutOrStdout(), "✅ %s set %d: %s\n", cyan(pe.ExerciseName), setIdx+1, formatSet(pe.SetsPerformed[setIdx]))
		}
	}
	return nil
}

var setCmd = &cobra.Command{
	Use:   "set <exercise> <set>",
	Short: "Record reps and/or weight for a set of the active workout",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		repsSet := cmd.Flags().Changed("reps")
		weightSet := cmd.Flags().Changed("weight")
		if !repsSet && !weightSet {
			return fmt.Errorf("Nothing to record: pass --reps and/or --weight")
		}
		return editAndFlush(cmd, args, func(tr *tracker.Tracker, order, setIdx int) error {
			if repsSet {
				if err := tr.UpdateSet(order, setIdx, tracker.FieldReps, setReps); err != nil {
					return err
				}
			}
			if weightSet {
				return tr.UpdateSet(order, setIdx, tracker.FieldWeight, setWeight)
			}
			return nil
		})
	},
}

var bumpCmd = &cobra.Command{
	Use:   "bump <exercise> <set>",
	Short: "Adjust reps and/or weight of a set by a delta (never below zero)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if bumpReps == 0 && bumpWeight == 0 {
			return fmt.Errorf("Nothing to change: pass --reps and/or --weight")
		}
		return editAndFlush(cmd, args, func(tr *tracker.Tracker, order, setIdx int) error {
			if bumpReps != 0 {
				if err := tr.Bump(order, setIdx, tracker.FieldReps, bumpReps); err != nil {
					return err
				}
			}
			if bumpWeight != 0 {
				return tr.Bump(order, setIdx, tracker.FieldWeight, bumpWeight)
			}
			return nil
		})
	},
}

var doneCmd = &cobra.Command{
	Use:   "done <exercise> <set>",
	Short: "Toggle a set between done and not done",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editAndFlush(cmd, args, func(tr *tracker.Tracker, order, setIdx int) error {
			return tr.ToggleDone(order, setIdx)
		})
	},
}

func init() {
	setCmd.Flags().Float64VarP(&setReps, "reps", "r", 0, "Reps performed")
	setCmd.Flags().Float64VarP(&setWeight, "weight", "w", 0, "Weight used (kg)")
	bumpCmd.Flags().Float64VarP(&bumpReps, "reps", "r", 0, "Reps delta, e.g. 1 or -1")
	bumpCmd.Flags().Float64VarP(&bumpWeight, "weight", "w", 0, "Weight delta in kg, e.g. 2.5 or -0.5")
	rootCmd.AddCommand(setCmd, bumpCmd, doneCmd)
}

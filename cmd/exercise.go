package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/misterclayt0n/corefit/internal/analytics"
)

var exerciseLimit int

var exerciseCmd = &cobra.Command{
	Use:     "exercise <name>",
	Aliases: []string{"show-ex"},
	Short:   "Show every recorded set of an exercise across workouts, with the best estimated 1RM",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		name := strings.Join(args, " ")

		workouts, origin := rt.loader.Workouts(cmd.Context())
		printOrigin(out, origin)

		entries := analytics.ExerciseHistory(workouts, name)
		if len(entries) == 0 {
			fmt.Fprintf(out, "%s %q\n", magenta("No recorded sets for"), name)
			return nil
		}

		best := entries[0]
		for _, e := range entries[1:] {
			if e.EstimatedOneRM > best.EstimatedOneRM {
				best = e
			}
		}
		printBoxedHeader(out, strings.ToUpper(name))
		printMetric(out, "Best e1RM", fmt.Sprintf("%skg (%s on %s)",
			strconv.FormatFloat(round1(best.EstimatedOneRM), 'f', -1, 64),
			formatSet(best.BestSet),
			best.CompletedAt.In(rt.loc).Format("02 Jan 2006")))
		printMetric(out, "Workouts", len(entries))
		fmt.Fprintln(out)

		if exerciseLimit > 0 && len(entries) > exerciseLimit {
			entries = entries[:exerciseLimit]
		}
		table := newTable(out, "Date", "Training", "Sets", "Best", "e1RM", "Volume")
		for _, e := range entries {
			sets := make([]string, len(e.Sets))
			for i, s := range e.Sets {
				sets[i] = formatSet(s)
			}
			_ = table.Append([]string{
				e.CompletedAt.In(rt.loc).Format("02 Jan 2006"),
				e.TrainingName,
				strings.Join(sets, ", "),
				formatSet(e.BestSet),
				strconv.FormatFloat(round1(e.EstimatedOneRM), 'f', -1, 64) + "kg",
				strconv.Itoa(e.Volume) + " kg",
			})
		}
		_ = table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exerciseCmd)
	exerciseCmd.Flags().IntVarP(&exerciseLimit, "limit", "n", 10, "Show at most N workouts (0 for all)")
}

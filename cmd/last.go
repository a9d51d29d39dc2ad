package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/misterclayt0n/corefit/internal/analytics"
)

const highlightLimit = 6

var lastCmd = &cobra.Command{
	Use:   "last",
	Short: "Summarize the most recently finished workout and its heaviest sets",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		workouts, origin := rt.loader.Workouts(cmd.Context())
		printOrigin(out, origin)

		last, ok := analytics.LastFinished(workouts)
		if !ok {
			fmt.Fprintln(out, magenta("No finished workouts yet."))
			return nil
		}

		fmt.Fprintf(out, "%s %s\n", boldGreen(last.TrainingName), faint("("+analytics.RelativeDayLabel(last.FinishedAt, rt.now())+")"))
		printSummary(out, last)

		highlights := analytics.Highlights(last.PerformedExercises, highlightLimit)
		if len(highlights) == 0 {
			return nil
		}
		fmt.Fprintln(out)
		table := newTable(out, "Exercise", "Target", "Done", "Status", "e1RM")
		for _, h := range highlights {
			target := "-"
			if h.TargetKg != nil {
				target = formatKg(*h.TargetKg)
			}
			_ = table.Append([]string{
				h.Name,
				target,
				formatKg(h.DoneKg),
				statusLabel(h.Status),
				strconv.FormatFloat(round1(h.EstimatedOneRM), 'f', -1, 64) + "kg",
			})
		}
		_ = table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lastCmd)
}

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/misterclayt0n/corefit/internal/analytics"
)

var weekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show this week's volume, training streak, weekly goal and month comparison",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		now := rt.now()

		workouts, origin := rt.loader.Workouts(ctx)
		printOrigin(out, origin)

		agg := analytics.ComputeWeeklyAggregate(workouts, now)
		streak := analytics.ComputeStreak(analytics.DistinctDayKeys(workouts, rt.loc), now)
		progress := analytics.ComputeWeekProgress(workouts, now, rt.weeklyGoal(ctx))
		months := analytics.ComputeMonthComparison(workouts, now)

		printBoxedHeader(out, "STATUS")
		printMetric(out, "Volume this week", fmt.Sprintf("%d kg", agg.TotalVolume))
		printMetric(out, "Workouts this week", agg.TotalWorkouts)
		printMetric(out, "Training streak", pluralDays(streak))
		printMetric(out, "Weekly goal", fmt.Sprintf("%d/%d days (%d%%)", progress.DaysDone, progress.GoalDays, progress.ScorePct))
		printMetric(out, "This month", fmt.Sprintf("%d workouts (%s vs last month)", months.Current, formatDelta(months.Delta)))
		fmt.Fprintln(out)

		printWeekBars(out, agg)
		fmt.Fprintln(out)
		printWeekDots(out, progress)
		return nil
	},
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func formatDelta(d int) string {
	switch {
	case d > 0:
		return green(fmt.Sprintf("+%d", d))
	case d < 0:
		return red(fmt.Sprintf("%d", d))
	}
	return "±0"
}

// printWeekBars draws one bar per weekday scaled to the busiest day.
func printWeekBars(w io.Writer, agg analytics.WeeklyAggregate) {
	fmt.Fprintln(w, color.New(color.FgGreen, color.Bold).Sprint("Volume per day:"))
	for i, d := range agg.Days {
		label := weekdayLabels[i]
		bar := progressBar(d.Volume, agg.MaxVolume, 24)
		if d.IsToday {
			label = cyan(label)
			bar = cyan(bar)
		}
		fmt.Fprintf(w, "  %s %s %s\n", label, bar, faint(fmt.Sprintf("%d kg", d.Volume)))
	}
}

func printWeekDots(w io.Writer, p analytics.WeekProgress) {
	var b strings.Builder
	for i, active := range p.ActiveDays {
		if active {
			b.WriteString(green("●"))
		} else {
			b.WriteString(faint("○"))
		}
		if i < len(p.ActiveDays)-1 {
			b.WriteString(" ")
		}
	}
	fmt.Fprintf(w, "  %s  %s\n", b.String(), faint("M T W T F S S"))
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/misterclayt0n/corefit/internal/analytics"
	"github.com/misterclayt0n/corefit/internal/models"
)

var (
	filterTraining string
	filterDay      string
	historyLimit   int
	historyAll     bool
)

// parseDay accepts 2006-01-02 or DD/MM/YY.
func parseDay(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "02/01/06"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse day %q, use 2006-01-02 or DD/MM/YY", s)
}

// filterWorkouts applies the history filters and sorts newest first.
func filterWorkouts(workouts []models.Workout, training, day string, includeActive bool, loc *time.Location) ([]models.Workout, error) {
	var dayKey time.Time
	if day != "" {
		d, err := parseDay(day, loc)
		if err != nil {
			return nil, err
		}
		dayKey = d
	}

	var out []models.Workout
	for _, w := range workouts {
		if !includeActive && !w.IsFinished() {
			continue
		}
		// Case insensitive filtering by training name.
		if training != "" && !strings.Contains(strings.ToLower(w.TrainingName), strings.ToLower(training)) {
			continue
		}
		if !dayKey.IsZero() {
			at, ok := w.CompletedAt()
			if !ok || !analytics.DayKey(at, loc).Equal(dayKey) {
				continue
			}
		}
		out = append(out, w)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, _ := out[i].CompletedAt()
		b, _ := out[j].CompletedAt()
		return a.After(b)
	})
	return out, nil
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past workouts with totals and duration, optionally filtered by training or day",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		workouts, origin := rt.loader.Workouts(cmd.Context())
		printOrigin(out, origin)

		workouts, err := filterWorkouts(workouts, filterTraining, filterDay, historyAll, rt.loc)
		if err != nil {
			return err
		}
		if len(workouts) == 0 {
			fmt.Fprintln(out, magenta("No workouts found."))
			return nil
		}
		if historyLimit > 0 && len(workouts) > historyLimit {
			workouts = workouts[:historyLimit]
		}

		table := newTable(out, "Date", "Training", "Duration", "Sets", "Reps", "Volume", "ID")
		for _, w := range workouts {
			date := "-"
			if at, ok := w.CompletedAt(); ok {
				date = at.In(rt.loc).Format("Mon 02 Jan 2006 15:04")
			}
			if !w.IsFinished() {
				date += " (active)"
			}

			s := analytics.ComputeSummary(w.PerformedExercises)
			sets, reps := "-", "-"
			if s.Executed {
				sets = strconv.Itoa(*s.SetsTotal)
				reps = formatReps(*s.RepsTotal)
			}
			_ = table.Append([]string{
				date,
				w.TrainingName,
				formatMinutes(analytics.WorkoutDuration(w)),
				sets,
				reps,
				formatOptionalInt(s.VolumeTotal, " kg"),
				w.ID,
			})
		}
		_ = table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVarP(&filterTraining, "training", "t", "", "Filter by training name (case insensitive, partial)")
	historyCmd.Flags().StringVarP(&filterDay, "day", "d", "", "Filter by day (e.g. 2026-10-14 or 14/10/26)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Show at most N workouts")
	historyCmd.Flags().BoolVarP(&historyAll, "all", "a", false, "Include workouts still in progress")
}

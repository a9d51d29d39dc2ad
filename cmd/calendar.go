package cmd

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/misterclayt0n/corefit/internal/models"
	"github.com/misterclayt0n/corefit/internal/utils"
)

// details is a flag to print every workout of the month below the grid.
var details bool

var calendarPalette = []color.Attribute{
	color.FgRed, color.FgGreen, color.FgYellow,
	color.FgBlue, color.FgMagenta, color.FgCyan,
}

// monthWorkouts groups the finished workouts of a month by day of month.
func monthWorkouts(workouts []models.Workout, year int, month time.Month, loc *time.Location) map[int][]models.Workout {
	byDay := make(map[int][]models.Workout)
	for _, w := range workouts {
		if !w.IsFinished() {
			continue
		}
		at, ok := w.CompletedAt()
		if !ok {
			continue
		}
		at = at.In(loc)
		if at.Year() != year || at.Month() != month {
			continue
		}
		byDay[at.Day()] = append(byDay[at.Day()], w)
	}
	return byDay
}

func trainingLabel(w models.Workout) string {
	if name := strings.TrimSpace(w.TrainingName); name != "" {
		return name
	}
	return "Default"
}

// calendarCmd prints the month grid. Days with a finished workout are
// colored by training name and a legend follows.
var calendarCmd = &cobra.Command{
	Use:   "calendar [month] [year]",
	Short: "Display a calendar of training days with a legend mapping colors to trainings",
	Args:  cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		now := rt.now()
		month := now.Month()
		year := now.Year()
		if len(args) >= 1 {
			m, err := strconv.Atoi(args[0])
			if err != nil || m < 1 || m > 12 {
				return fmt.Errorf("invalid month: %s", args[0])
			}
			month = time.Month(m)
		}
		if len(args) == 2 {
			y, err := strconv.Atoi(args[1])
			if err != nil || y < 1 {
				return fmt.Errorf("invalid year: %s", args[1])
			}
			year = y
		}

		workouts, origin := rt.loader.Workouts(cmd.Context())
		printOrigin(out, origin)

		byDay := monthWorkouts(workouts, year, month, rt.loc)
		printCalendar(out, year, month, byDay, rt.loc)
		return nil
	},
}

func printCalendar(out io.Writer, year int, month time.Month, byDay map[int][]models.Workout, loc *time.Location) {
	// Assign colors in a stable order so reruns look the same.
	var names []string
	seen := make(map[string]bool)
	for _, ws := range byDay {
		for _, w := range ws {
			if name := trainingLabel(w); !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	colors := make(map[string]func(a ...interface{}) string, len(names))
	for i, name := range names {
		colors[name] = color.New(calendarPalette[i%len(calendarPalette)]).SprintFunc()
	}

	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	lastOfMonth := firstOfMonth.AddDate(0, 1, -1)

	fmt.Fprintln(out, centerText(fmt.Sprintf("%s %d", month.String(), year), 20))
	fmt.Fprintln(out, "Mo Tu We Th Fr Sa Su")

	// Monday is column 0.
	weekday := (int(firstOfMonth.Weekday()) + 6) % 7
	fmt.Fprint(out, strings.Repeat("   ", weekday))

	for day := 1; day <= lastOfMonth.Day(); day++ {
		dayStr := fmt.Sprintf("%2d", day)
		if ws, ok := byDay[day]; ok {
			dayStr = colors[trainingLabel(ws[0])](dayStr)
		}
		fmt.Fprintf(out, "%s ", dayStr)
		weekday++
		if weekday%7 == 0 {
			fmt.Fprintln(out)
		}
	}
	if weekday%7 != 0 {
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out)

	if len(names) == 0 {
		fmt.Fprintln(out, faint("No workouts this month."))
		return
	}

	fmt.Fprintln(out, "Legend:")
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %s\n", colors[name]("██"), name)
	}

	if !details {
		return
	}
	fmt.Fprintln(out, "\nWorkouts:")
	var days []int
	for d := range byDay {
		days = append(days, d)
	}
	sort.Ints(days)
	for _, day := range days {
		for _, w := range byDay[day] {
			at, _ := w.CompletedAt()
			fmt.Fprintf(out, "  %s  %s %s\n", utils.FormatLocal(at, loc), colors[trainingLabel(w)](trainingLabel(w)), faint(w.ID))
		}
	}
}

func init() {
	rootCmd.AddCommand(calendarCmd)
	calendarCmd.Flags().BoolVarP(&details, "details", "d", false, "List the month's workouts below the calendar")
}

package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/misterclayt0n/corefit/internal/analytics"
	"github.com/misterclayt0n/corefit/internal/history"
	"github.com/misterclayt0n/corefit/internal/models"
)

var (
	cyan       = color.New(color.FgCyan).SprintFunc()
	yellow     = color.New(color.FgYellow).SprintFunc()
	red        = color.New(color.FgRed).SprintFunc()
	green      = color.New(color.FgGreen).SprintFunc()
	magenta    = color.New(color.FgMagenta).SprintFunc()
	faint      = color.New(color.Faint).SprintFunc()
	boldGreen  = color.New(color.FgGreen, color.Bold).SprintFunc()
	yellowBold = color.New(color.FgYellow, color.Bold).SprintFunc()
)

// printBoxedHeader prints the title in a Unicode box with a fixed width.
func printBoxedHeader(w io.Writer, title string) {
	width := 40
	cyanBold := color.New(color.FgCyan, color.Bold).SprintFunc()
	border := strings.Repeat("═", width)
	fmt.Fprintln(w, cyanBold("╔"+border+"╗"))
	fmt.Fprintln(w, cyanBold("║"+padCenter(title, width)+"║"))
	fmt.Fprintln(w, cyanBold("╚"+border+"╝"))
}

func padCenter(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	padding := (width - n) / 2
	return strings.Repeat(" ", padding) + s + strings.Repeat(" ", width-n-padding)
}

// centerText centers the given string in a field of the specified width.
func centerText(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return strings.Repeat(" ", (width-n)/2) + s
}

// printMetric prints a label and value using bold yellow for the label.
func printMetric(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "  %s: %v\n", yellowBold(label), value)
}

func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
	)
	table.Header(headers)
	return table
}

// formatKg prints whole kilos without a decimal.
func formatKg(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "kg"
}

func formatReps(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatSet(s models.PerformedSet) string {
	if !s.Done() {
		return "-"
	}
	return fmt.Sprintf("%s × %s", formatKg(s.Weight), formatReps(s.Reps))
}

func formatMinutes(m *int) string {
	if m == nil {
		return "-"
	}
	if *m >= 60 {
		return fmt.Sprintf("%dh%02dm", *m/60, *m%60)
	}
	return fmt.Sprintf("%d min", *m)
}

func formatOptionalInt(v *int, suffix string) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v) + suffix
}

// statusLabel colors a target label.
func statusLabel(label string) string {
	switch label {
	case analytics.LabelHit:
		return green("✔ " + label)
	case analytics.LabelAbove:
		return cyan("▲ " + label)
	case analytics.LabelBelow:
		return red("▼ " + label)
	case analytics.LabelNone, "":
		return faint("-")
	default:
		return faint(label)
	}
}

// printOrigin warns when data did not come from the API.
func printOrigin(w io.Writer, origin history.Origin) {
	switch origin {
	case history.OriginCache:
		if at, ok := rt.lastSync(); ok {
			fmt.Fprintln(w, yellow("(offline: showing data cached "+at.In(rt.loc).Format("02 Jan 15:04")+")"))
			return
		}
		fmt.Fprintln(w, yellow("(offline: showing cached data)"))
	case history.OriginNone:
		fmt.Fprintln(w, yellow("(could not reach the API and no cache is available)"))
	}
}

// progressBar draws a fixed-width bar for v out of total.
func progressBar(v, total, width int) string {
	if total <= 0 {
		total = 1
	}
	filled := v * width / total
	if v > 0 && filled == 0 {
		filled = 1
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/misterclayt0n/corefit/internal/tracker"
)

type trackAction int

const (
	actionSet trackAction = iota
	actionBump
	actionDone
	actionShow
	actionHelp
	actionFinish
	actionQuit
)

const defaultWeightStep = 2.5

// trackCommand is one parsed line of the interactive tracker. Exercise and
// Set are 1-based, as printed.
type trackCommand struct {
	Action   trackAction
	Exercise string
	Set      string
	Reps     *float64 // actionSet
	Weight   *float64 // actionSet
	Delta    float64  // actionBump, in kg
}

const trackHelp = `Commands (exercise and set numbers as shown):
  s <ex> <set> <reps> [kg]   record a set
  r <ex> <set> <reps>        set reps only
  w <ex> <set> <kg>          set weight only
  + <ex> <set> [kg]          add weight (default 2.5)
  - <ex> <set> [kg]          remove weight (default 2.5)
  d <ex> <set>               toggle done
  p                          print the workout
  f                          finish the workout
  q                          save and quit`

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

func parseTrackLine(line string) (trackCommand, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return trackCommand{Action: actionShow}, nil
	}

	verb := strings.ToLower(fields[0])
	switch verb {
	case "p", "show":
		return trackCommand{Action: actionShow}, nil
	case "h", "help", "?":
		return trackCommand{Action: actionHelp}, nil
	case "f", "finish":
		return trackCommand{Action: actionFinish}, nil
	case "q", "quit", "exit":
		return trackCommand{Action: actionQuit}, nil
	}

	var minArgs int
	switch verb {
	case "d", "done", "+", "-":
		minArgs = 2
	case "s", "set", "r", "reps", "w", "weight":
		minArgs = 3
	default:
		return trackCommand{}, fmt.Errorf("unknown command %q (h for help)", fields[0])
	}
	if len(fields)-1 < minArgs {
		return trackCommand{}, fmt.Errorf("%q needs %d arguments", fields[0], minArgs)
	}

	cmd := trackCommand{Exercise: fields[1], Set: fields[2]}
	switch verb {
	case "d", "done":
		cmd.Action = actionDone

	case "s", "set":
		cmd.Action = actionSet
		reps, err := parseNumber(fields[3])
		if err != nil {
			return trackCommand{}, err
		}
		cmd.Reps = &reps
		if len(fields) >= 5 {
			kg, err := parseNumber(fields[4])
			if err != nil {
				return trackCommand{}, err
			}
			cmd.Weight = &kg
		}

	case "r", "reps":
		cmd.Action = actionSet
		reps, err := parseNumber(fields[3])
		if err != nil {
			return trackCommand{}, err
		}
		cmd.Reps = &reps

	case "w", "weight":
		cmd.Action = actionSet
		kg, err := parseNumber(fields[3])
		if err != nil {
			return trackCommand{}, err
		}
		cmd.Weight = &kg

	case "+", "-":
		cmd.Action = actionBump
		cmd.Delta = defaultWeightStep
		if len(fields) >= 4 {
			v, err := parseNumber(fields[3])
			if err != nil {
				return trackCommand{}, err
			}
			cmd.Delta = v
		}
		if verb == "-" {
			cmd.Delta = -cmd.Delta
		}
	}
	return cmd, nil
}

// applyTrackCommand runs an edit against the tracker. The save happens on
// the tracker's debounce.
func applyTrackCommand(tr *tracker.Tracker, c trackCommand) error {
	order, setIdx, err := resolveSet(tr, c.Exercise, c.Set)
	if err != nil {
		return err
	}

	switch c.Action {
	case actionDone:
		return tr.ToggleDone(order, setIdx)
	case actionBump:
		return tr.Bump(order, setIdx, tracker.FieldWeight, c.Delta)
	case actionSet:
		if c.Reps != nil {
			if err := tr.UpdateSet(order, setIdx, tracker.FieldReps, *c.Reps); err != nil {
				return err
			}
		}
		if c.Weight != nil {
			return tr.UpdateSet(order, setIdx, tracker.FieldWeight, *c.Weight)
		}
	}
	return nil
}

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Log the active workout interactively; edits are saved in the background",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		tr, err := rt.resumeTracker(ctx)
		if err != nil {
			return err
		}
		defer tr.Close()

		return runTracker(ctx, tr, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

// readLines feeds r line by line until EOF or until ctx is done. A Scan
// blocked on an open terminal only ends with the process.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

func runTracker(ctx context.Context, tr *tracker.Tracker, in io.Reader, out io.Writer) error {
	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()

	printActive(out, tr, rt.now())
	fmt.Fprintln(out, faint("h for help"))

	lines := readLines(readCtx, in)
	for {
		marker := ""
		switch {
		case tr.Saving():
			marker = faint(" saving...")
		case tr.Dirty():
			marker = faint(" *")
		}
		fmt.Fprintf(out, "%s%s> ", tracker.FormatElapsed(tr.Elapsed(rt.now())), marker)

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return saveAndLeave(tr, out)
		case line, ok = <-lines:
			if !ok {
				fmt.Fprintln(out)
				return saveAndLeave(tr, out)
			}
		}

		c, err := parseTrackLine(line)
		if err != nil {
			fmt.Fprintln(out, red(err.Error()))
			continue
		}

		switch c.Action {
		case actionShow:
			printActive(out, tr, rt.now())
		case actionHelp:
			fmt.Fprintln(out, trackHelp)
		case actionQuit:
			return saveAndLeave(tr, out)
		case actionFinish:
			if err := finishWorkout(ctx, tr, out); err != nil {
				fmt.Fprintln(out, red(err.Error()))
				continue
			}
			return nil
		default:
			if err := applyTrackCommand(tr, c); err != nil {
				fmt.Fprintln(out, red(err.Error()))
			}
		}
	}
}

// saveAndLeave flushes pending edits. It uses a fresh context so an
// interrupt still gets the last edits out.
func saveAndLeave(tr *tracker.Tracker, out io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), rt.cfg.Timeout())
	defer cancel()

	if err := tr.Flush(ctx); err != nil && !errors.Is(err, tracker.ErrFinished) {
		return fmt.Errorf("Failed to save workout: %w", err)
	}
	fmt.Fprintln(out, "💾 Saved. Resume any time with 'corefit track'.")
	return nil
}

func init() {
	rootCmd.AddCommand(trackCmd)
}

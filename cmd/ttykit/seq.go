package main

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/spf13/cobra"
	"github.com/vito/ttykit/pkg/ioctx"
	"github.com/vito/ttykit/pkg/seq"
)

// action is an encoder call reachable from the command line.
type action struct {
	args []string
	fn   func(n []int) string
}

func noArgs(fn func() string) action {
	return action{fn: func([]int) string { return fn() }}
}

func oneArg(name string, fn func(int) string) action {
	return action{args: []string{name}, fn: func(n []int) string { return fn(n[0]) }}
}

func twoArgs(a, b string, fn func(int, int) string) action {
	return action{args: []string{a, b}, fn: func(n []int) string { return fn(n[0], n[1]) }}
}

var actions = map[string]action{
	"move-to":                 twoArgs("row", "col", seq.MoveTo),
	"home":                    noArgs(seq.Home),
	"up":                      oneArg("n", seq.Up),
	"down":                    oneArg("n", seq.Down),
	"right":                   oneArg("n", seq.Right),
	"left":                    oneArg("n", seq.Left),
	"column":                  oneArg("col", seq.Column),
	"clear-line":              noArgs(seq.ClearLine),
	"clear-line-right":        noArgs(seq.ClearLineRight),
	"clear-screen":            noArgs(seq.ClearScreen),
	"clear-below":             noArgs(seq.ClearBelow),
	"clear-above":             noArgs(seq.ClearAbove),
	"clear-region":            oneArg("n", seq.ClearRegion),
	"enter-alt-screen":        noArgs(seq.EnterAltScreen),
	"exit-alt-screen":         noArgs(seq.ExitAltScreen),
	"show-cursor":             noArgs(seq.ShowCursor),
	"hide-cursor":             noArgs(seq.HideCursor),
	"set-scroll-region":       twoArgs("top", "bottom", seq.SetScrollRegion),
	"reset-scroll-region":     noArgs(seq.ResetScrollRegion),
	"scroll-up":               oneArg("n", seq.ScrollUp),
	"scroll-down":             oneArg("n", seq.ScrollDown),
	"save-cursor":             noArgs(seq.SaveCursor),
	"restore-cursor":          noArgs(seq.RestoreCursor),
	"erase-chars":             oneArg("n", seq.EraseChars),
	"insert-lines":            oneArg("n", seq.InsertLines),
	"delete-lines":            oneArg("n", seq.DeleteLines),
	"request-cursor-position": noArgs(seq.RequestCursorPosition),
	"begin-sync":              noArgs(seq.BeginSync),
	"end-sync":                noArgs(seq.EndSync),
	"enable-bracketed-paste":  noArgs(seq.EnableBracketedPaste),
	"disable-bracketed-paste": noArgs(seq.DisableBracketedPaste),
	"enable-auto-wrap":        noArgs(seq.EnableAutoWrap),
	"disable-auto-wrap":       noArgs(seq.DisableAutoWrap),
	"disable-mouse":           noArgs(seq.DisableMouse),
	"enable-mouse": oneArg("mode", func(m int) string {
		return seq.EnableMouse(seq.MouseMode(m))
	}),
	"set-cursor-shape": oneArg("shape", func(s int) string {
		return seq.SetCursorShape(seq.CursorShape(s))
	}),
}

func seqCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seq [action] [args...]",
		Short: "Print the escape sequence for an encoder action",
		Long: `Prints the bytes an encoder action produces, quoted, without sending
them to the terminal. Without arguments, lists the actions. Action names
may be written in any case style, e.g. move-to, moveTo or MOVE_TO.`,
		Example: `  ttykit seq move-to 3 7
  ttykit seq clearRegion 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := ioctx.FromContext(cmd.Context()).Out
			if len(args) == 0 {
				for _, name := range slices.Sorted(maps.Keys(actions)) {
					fmt.Fprintln(out, usage(name, actions[name]))
				}
				return nil
			}

			name := strcase.ToKebab(args[0])
			act, ok := actions[name]
			if !ok {
				return fmt.Errorf("unknown action %q", args[0])
			}
			if len(args)-1 != len(act.args) {
				return fmt.Errorf("usage: %s", usage(name, act))
			}
			nums := make([]int, len(act.args))
			for i, arg := range args[1:] {
				n, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("%s: %s must be an integer: %w", name, act.args[i], err)
				}
				nums[i] = n
			}
			fmt.Fprintf(out, "%q\n", act.fn(nums))
			return nil
		},
	}
}

func usage(name string, act action) string {
	if len(act.args) == 0 {
		return name
	}
	return name + " <" + strings.Join(act.args, "> <") + ">"
}

package builtins

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pborman/getopt/v2"

	"rykeshell/core"
	"rykeshell/parser"
)

func jobsBuiltin(cmd parser.Command, ctx *core.Context) int {
	opts := getopt.New()
	verbose := opts.BoolLong("long", 'l', "show pgid and process stats")
	if err := opts.Getopt(cmd.Args, nil); err != nil {
		return errorf("jobs: %v", err)
	}

	ctx.Exec.ReapBackground()
	ctx.Jobs.List(os.Stdout, *verbose)
	return 0
}

// jobID parses the optional job argument of fg and bg, accepting both N and
// %N. Zero means "most recent".
func jobID(args []string) (int, error) {
	if len(args) < 2 {
		return 0, nil
	}
	text := strings.TrimPrefix(args[1], "%")
	id, err := strconv.Atoi(text)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid job id: %s", args[1])
	}
	return id, nil
}

func fgBuiltin(cmd parser.Command, ctx *core.Context) int {
	id, err := jobID(cmd.Args)
	if err != nil {
		return errorf("fg: %v", err)
	}
	if !ctx.Exec.ForegroundJob(id) {
		return errorf("fg: no such job")
	}
	return 0
}

func bgBuiltin(cmd parser.Command, ctx *core.Context) int {
	id, err := jobID(cmd.Args)
	if err != nil {
		return errorf("bg: %v", err)
	}
	if !ctx.Exec.BackgroundJob(id) {
		return errorf("bg: no such job")
	}
	return 0
}

func historyBuiltin(cmd parser.Command, ctx *core.Context) int {
	opts := getopt.New()
	clear := opts.BoolLong("clear", 'c', "clear the history")
	last := opts.IntLong("last", 'n', 0, "show only the last N entries")
	if err := opts.Getopt(cmd.Args, nil); err != nil {
		return errorf("history: %v", err)
	}

	if *clear {
		ctx.History.Clear()
		return 0
	}

	entries := ctx.History.Entries()
	start := 0
	if *last > 0 && *last < len(entries) {
		start = len(entries) - *last
	}
	for i := start; i < len(entries); i++ {
		fmt.Printf("%d: %s\n", i+1, entries[i].Command)
	}
	return 0
}

// Package builtins implements the commands handled inside the shell
// process. The core dispatches here only when a line parses to exactly one
// pipeline of exactly one stage whose first word is a registered name.
package builtins

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"rykeshell/colors"
	"rykeshell/core"
	"rykeshell/options"
	"rykeshell/parser"
)

// Func is one builtin. It receives the parsed stage and the shell context
// and returns an exit status.
type Func func(cmd parser.Command, ctx *core.Context) int

var errPrint = color.New(color.FgRed)

var registry = map[string]Func{
	"cd":      cdBuiltin,
	"exit":    exitBuiltin,
	"jobs":    jobsBuiltin,
	"fg":      fgBuiltin,
	"bg":      bgBuiltin,
	"alias":   aliasBuiltin,
	"unalias": unaliasBuiltin,
	"export":  exportBuiltin,
	"unset":   unsetBuiltin,
	"history": historyBuiltin,
	"set":     setBuiltin,
	"theme":   themeBuiltin,
}

// Lookup finds a registered builtin by name.
func Lookup(name string) (Func, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Names returns the registered builtin names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func errorf(format string, a ...interface{}) int {
	errPrint.Fprintf(os.Stderr, format+"\n", a...)
	return 1
}

func cdBuiltin(cmd parser.Command, ctx *core.Context) int {
	target := ""
	if len(cmd.Args) > 1 {
		target = cmd.Args[1]
	} else {
		target = os.Getenv("HOME")
		if target == "" {
			return errorf("cd: HOME not set")
		}
	}
	if target == "-" {
		target = os.Getenv("OLDPWD")
		if target == "" {
			return errorf("cd: OLDPWD not set")
		}
		fmt.Println(target)
	}

	oldpwd, _ := os.Getwd()
	if err := os.Chdir(target); err != nil {
		return errorf("cd: %v", err)
	}
	os.Setenv("OLDPWD", oldpwd)
	if pwd, err := os.Getwd(); err == nil {
		os.Setenv("PWD", pwd)
	}
	return 0
}

func exitBuiltin(cmd parser.Command, ctx *core.Context) int {
	status := 0
	if len(cmd.Args) > 1 {
		if n, err := strconv.Atoi(cmd.Args[1]); err == nil {
			status = n
		}
	}
	ctx.RequestExit(status)
	return status
}

func aliasBuiltin(cmd parser.Command, ctx *core.Context) int {
	if len(cmd.Args) == 1 {
		for _, name := range ctx.Aliases.Names() {
			value, _ := ctx.Aliases.Resolve(name)
			fmt.Printf("alias %s='%s'\n", name, value)
		}
		return 0
	}

	status := 0
	for _, arg := range cmd.Args[1:] {
		name, value, ok := strings.Cut(arg, "=")
		if ok {
			ctx.Aliases.Set(name, value)
			continue
		}
		if value, found := ctx.Aliases.Resolve(arg); found {
			fmt.Printf("alias %s='%s'\n", arg, value)
		} else {
			status = errorf("alias: %s: not found", arg)
		}
	}
	return status
}

func unaliasBuiltin(cmd parser.Command, ctx *core.Context) int {
	if len(cmd.Args) < 2 {
		return errorf("Usage: unalias NAME")
	}
	status := 0
	for _, name := range cmd.Args[1:] {
		if !ctx.Aliases.Unset(name) {
			status = errorf("unalias: %s: not found", name)
		}
	}
	return status
}

func exportBuiltin(cmd parser.Command, ctx *core.Context) int {
	if len(cmd.Args) < 2 {
		return errorf("Usage: export VAR=value")
	}
	status := 0
	for _, arg := range cmd.Args[1:] {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			status = errorf("export: invalid assignment: %s", arg)
			continue
		}
		if err := os.Setenv(name, value); err != nil {
			status = errorf("export: %v", err)
		}
	}
	return status
}

func unsetBuiltin(cmd parser.Command, ctx *core.Context) int {
	if len(cmd.Args) < 2 {
		return errorf("Usage: unset VAR")
	}
	for _, name := range cmd.Args[1:] {
		os.Unsetenv(name)
	}
	return 0
}

func setBuiltin(cmd parser.Command, ctx *core.Context) int {
	args := cmd.Args[1:]
	if len(args) == 0 || (len(args) == 1 && args[0] == "-o") {
		for _, name := range options.Names() {
			enabled, _ := ctx.Options.Get(name)
			state := "off"
			if enabled {
				state = "on"
			}
			fmt.Printf("%-22s %s\n", name, state)
		}
		return 0
	}
	if len(args) != 2 || (args[0] != "-o" && args[0] != "+o") {
		return errorf("Usage: set [-o|+o] [option]")
	}

	enable := args[0] == "-o"
	if !ctx.Options.Apply(args[1], enable) {
		return errorf("set: unknown option: %s", args[1])
	}
	return 0
}

func themeBuiltin(cmd parser.Command, ctx *core.Context) int {
	if len(cmd.Args) < 2 {
		fmt.Printf("Current theme: %s\n", ctx.Theme.ColorName())
		fmt.Printf("Available: %s\n", strings.Join(colors.PromptColorNames(), " "))
		return 0
	}
	if !ctx.Theme.Apply(cmd.Args[1]) {
		return errorf("theme: unknown color: %s", cmd.Args[1])
	}
	return 0
}

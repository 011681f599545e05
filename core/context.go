// Package core ties the shell's long-lived state together. The context is
// passed explicitly wherever the teacher kept process-wide globals.
package core

import (
	"rykeshell/alias"
	"rykeshell/exec"
	"rykeshell/expand"
	"rykeshell/history"
	"rykeshell/jobs"
	"rykeshell/logging"
	"rykeshell/options"
	"rykeshell/prompt"
	"rykeshell/state"
)

// Context is the mutable shell-wide state shared by the main loop, the
// executor and the builtins. All access happens on the main goroutine.
type Context struct {
	Options  *options.Set
	History  *history.History
	Aliases  *alias.Store
	Jobs     *jobs.Table
	Exec     *exec.Executor
	Expander *expand.Expander
	Theme    *prompt.Theme
	State    *state.Files
	Log      *logging.Logger

	PromptTemplate string

	running    bool
	exitStatus int
}

// NewContext wires a context from its parts and marks the shell running.
func NewContext() *Context {
	return &Context{
		Options:        options.Defaults(),
		History:        history.New(history.DefaultLimit),
		Aliases:        alias.NewStore(),
		Jobs:           jobs.NewTable(),
		Theme:          prompt.NewTheme(prompt.DefaultColorName),
		PromptTemplate: prompt.DefaultTemplate,
		running:        true,
	}
}

// Running reports whether the main loop should continue.
func (c *Context) Running() bool {
	return c.running
}

// RequestExit stops the main loop after the current line finishes.
func (c *Context) RequestExit(status int) {
	c.running = false
	c.exitStatus = status
}

// ExitStatus returns the status the shell should exit with.
func (c *Context) ExitStatus() int {
	return c.exitStatus
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"golang.org/x/sys/unix"

	"rykeshell/builtins"
	"rykeshell/core"
	"rykeshell/exec"
	"rykeshell/expand"
	"rykeshell/input"
	"rykeshell/logging"
	"rykeshell/parser"
	"rykeshell/prompt"
	"rykeshell/signals"
	"rykeshell/state"
	"rykeshell/terminal"
)

var errColor = color.New(color.FgRed)

// heredocFn collects the body of one here-document up to its delimiter.
// The interactive loop reads continuation lines; script mode consumes the
// following lines of the file.
type heredocFn func(delimiter string, stripTabs bool) string

// Shell glues the expander, parser and executor together around the shared
// context and the line editor.
type Shell struct {
	ctx    *core.Context
	bridge *signals.Bridge
	reader *input.Reader
}

// NewShell builds the context, loads persisted state and installs the
// signal bridge.
func NewShell(loadRC bool) *Shell {
	ctx := core.NewContext()

	files := state.New(nil, state.DefaultDir())
	ctx.State = files
	ctx.Log = logging.New(files.Fs(), files.LogPath)

	files.LoadHistory(ctx.History)
	files.LoadAliases(ctx.Aliases)
	cfg := files.LoadConfig(ctx.Options)
	if cfg.PromptColor != "" {
		ctx.Theme.Apply(cfg.PromptColor)
	}
	if cfg.PromptTemplate != "" {
		ctx.PromptTemplate = cfg.PromptTemplate
	}

	ctx.Expander = expand.New(ctx.Options)

	shellPgid := unix.Getpgrp()
	executor := exec.New(shellPgid, terminal.Fd(), ctx.Options, ctx.Jobs, ctx.Expander)
	executor.Notify = func(message string) {
		fmt.Println(message)
		ctx.Log.Alert(message)
	}
	ctx.Exec = executor

	sh := &Shell{
		ctx:    ctx,
		bridge: signals.Install(executor.StopForeground),
	}

	if terminal.IsTerminal(terminal.Fd()) {
		terminal.Snapshot(terminal.Fd())
	}

	if loadRC {
		if _, err := os.Stat(files.RCPath); err == nil {
			sh.RunScript(files.RCPath)
		}
	}
	return sh
}

// Run drives the interactive loop until exit or EOF and returns the shell's
// exit status.
func (s *Shell) Run(banner bool) int {
	if banner && terminal.IsTerminal(terminal.Fd()) {
		printBanner()
	}

	reader, err := input.NewReader(func() string {
		return prompt.Render(s.ctx.PromptTemplate, s.ctx.Theme)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start line editor: %v\n", err)
		return 1
	}
	s.reader = reader
	defer reader.Close()

	for s.ctx.Running() {
		if s.bridge.ReapNeeded() {
			s.ctx.Exec.ReapBackground()
		}

		raw, eof := reader.ReadLine()
		if eof {
			break
		}
		if strings.TrimSpace(raw) == "" {
			continue
		}
		reader.HistoryAppend(strings.TrimSpace(raw))

		s.ProcessLine(raw, s.interactiveHeredoc)
	}

	s.shutdown()
	return s.ctx.ExitStatus()
}

// ProcessLine takes one raw input line through history, expansion, alias
// resolution, parsing, heredoc collection and execution. It returns the
// line's exit status.
func (s *Shell) ProcessLine(raw string, collect heredocFn) int {
	ctx := s.ctx

	ctx.History.IgnoreDups = ctx.Options.IgnoreDups
	ctx.History.IgnoreSpace = ctx.Options.IgnoreSpace
	ctx.History.Add(raw)

	line := strings.TrimSpace(raw)

	expanded, err := ctx.Expander.Expand(line)
	if err != nil {
		errColor.Fprintln(os.Stderr, err)
		ctx.Log.Error(err)
		return 1
	}
	expanded = s.resolveAlias(expanded)

	pipelines := parser.Parse(expanded)
	if len(pipelines) == 0 {
		return 0
	}

	collectHeredocs(pipelines, collect)

	if status, handled := s.tryBuiltin(pipelines); handled {
		ctx.Log.Command(line, status)
		if ctx.Options.Errexit && status != 0 {
			ctx.RequestExit(status)
		}
		return status
	}

	status := ctx.Exec.Execute(pipelines, line)
	ctx.Log.Command(line, status)
	if ctx.Options.Errexit && status != 0 {
		ctx.RequestExit(status)
	}
	return status
}

// resolveAlias substitutes the alias for the first word of the expanded
// line. Resolution happens once and is not recursive.
func (s *Shell) resolveAlias(expanded string) string {
	fields := strings.Fields(expanded)
	if len(fields) == 0 {
		return expanded
	}
	first := fields[0]
	expansion, ok := s.ctx.Aliases.Resolve(first)
	if !ok {
		return expanded
	}
	idx := strings.Index(expanded, first)
	return expansion + expanded[idx+len(first):]
}

// tryBuiltin dispatches a single-stage, single-pipeline line to a
// registered builtin.
func (s *Shell) tryBuiltin(pipelines []parser.Pipeline) (status int, handled bool) {
	if len(pipelines) != 1 || len(pipelines[0].Stages) != 1 || pipelines[0].Background {
		return 0, false
	}
	stage := pipelines[0].Stages[0]
	if len(stage.Args) == 0 {
		return 0, false
	}
	fn, ok := builtins.Lookup(stage.Args[0])
	if !ok {
		return 0, false
	}
	return fn(stage, s.ctx), true
}

// collectHeredocs fills in every uncollected here-document body.
func collectHeredocs(pipelines []parser.Pipeline, collect heredocFn) {
	if collect == nil {
		return
	}
	for pi := range pipelines {
		for si := range pipelines[pi].Stages {
			redirs := pipelines[pi].Stages[si].Redirs
			for ri := range redirs {
				r := &redirs[ri]
				if r.Kind == parser.RedirHereDoc && r.Body == nil {
					body := collect(r.Delimiter, r.StripTabs)
					r.Body = &body
				}
			}
		}
	}
}

// interactiveHeredoc reads body lines under the "> " continuation prompt
// until the delimiter stands alone on a line.
func (s *Shell) interactiveHeredoc(delimiter string, stripTabs bool) string {
	var body strings.Builder
	for {
		line, eof := s.reader.ReadContinuation("> ")
		if eof {
			break
		}
		if stripTabs {
			line = strings.TrimLeft(line, "\t")
		}
		if line == delimiter {
			break
		}
		body.WriteString(line)
		body.WriteByte('\n')
	}
	return body.String()
}

// shutdown persists history, aliases and config and restores the terminal.
func (s *Shell) shutdown() {
	files := s.ctx.State
	files.SaveHistory(s.ctx.History)
	files.SaveAliases(s.ctx.Aliases)
	files.SaveConfig(s.ctx.Options, state.Config{
		PromptColor:    s.ctx.Theme.ColorName(),
		PromptTemplate: s.ctx.PromptTemplate,
	})
	terminal.Restore()
}

// reapIfNeeded lets script mode keep the job table current between lines.
func (s *Shell) reapIfNeeded() {
	if s.bridge != nil && s.bridge.ReapNeeded() {
		s.ctx.Exec.ReapBackground()
	}
}

// Context exposes the shell context, used by the CLI entry points.
func (s *Shell) Context() *core.Context {
	return s.ctx
}

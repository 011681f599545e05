// Package exec runs parsed pipelines: it spawns the stages of each pipeline
// into a shared process group, wires pipes and redirections, hands the
// terminal to foreground pipelines and collects exit statuses into the job
// table.
package exec

import (
	"fmt"
	"os"
	"sync/atomic"
	"syscall"

	"golang.org/x/sys/unix"

	"rykeshell/expand"
	"rykeshell/jobs"
	"rykeshell/options"
	"rykeshell/parser"
	"rykeshell/terminal"
)

// Executor owns pipeline execution for one shell process.
type Executor struct {
	ShellPgid  int
	TerminalFd int
	Options    *options.Set
	Jobs       *jobs.Table
	Expander   *expand.Expander

	// Notify receives background-completion messages under the notify
	// option.
	Notify func(message string)

	// interactive gates terminal handoff: without a controlling terminal
	// there is nothing to hand off.
	interactive bool

	// fgPgid is the process group currently in the foreground. It is read
	// by the SIGTSTP forwarding goroutine, hence atomic.
	fgPgid atomic.Int64
}

// New returns an executor for the shell owning shellPgid and terminalFd.
func New(shellPgid, terminalFd int, opts *options.Set, table *jobs.Table, expander *expand.Expander) *Executor {
	return &Executor{
		ShellPgid:   shellPgid,
		TerminalFd:  terminalFd,
		Options:     opts,
		Jobs:        table,
		Expander:    expander,
		interactive: terminal.IsTerminal(terminalFd),
	}
}

// Execute runs the pipelines of one input line left to right, honoring the
// chaining conditions, and returns the exit status of the last pipeline
// that actually ran.
func (e *Executor) Execute(pipelines []parser.Pipeline, commandLine string) int {
	if e.Options.Xtrace {
		fmt.Fprintf(os.Stderr, "+ %s\n", commandLine)
	}

	lastStatus := 0
	ranAny := false
	for _, pipeline := range pipelines {
		if pipeline.Chain == parser.ChainAnd && ranAny && lastStatus != 0 {
			continue
		}
		if pipeline.Chain == parser.ChainOr && ranAny && lastStatus == 0 {
			continue
		}
		lastStatus = e.executePipeline(pipeline)
		ranAny = true
	}
	return lastStatus
}

func (e *Executor) executePipeline(pipeline parser.Pipeline) int {
	if len(pipeline.Stages) == 0 {
		return 0
	}

	results := make([]stageResult, 0, len(pipeline.Stages))
	var prevRead *os.File
	pgid := 0

	for index, stage := range pipeline.Stages {
		var nextRead, pipeWrite *os.File
		if index+1 < len(pipeline.Stages) {
			var err error
			nextRead, pipeWrite, err = os.Pipe()
			if err != nil {
				fmt.Fprintf(os.Stderr, "pipe: %v\n", err)
				if prevRead != nil {
					prevRead.Close()
				}
				return 1
			}
		}

		result := e.spawnStage(stage, prevRead, pipeWrite, &pgid)
		results = append(results, result)

		if prevRead != nil {
			prevRead.Close()
		}
		if pipeWrite != nil {
			pipeWrite.Close()
		}
		prevRead = nextRead
	}
	if prevRead != nil {
		prevRead.Close()
	}

	if pipeline.Background || !e.Options.Monitor {
		id := e.Jobs.Add(pgid, pipeline.Text, jobs.Running)
		if pipeline.Background {
			fmt.Printf("[%d] %d\n", id, pgid)
			return 0
		}
	}

	return e.waitForPipeline(results, pgid, pipeline.Text)
}

// waitForPipeline waits on every spawned stage with WUNTRACED. The final
// stage's status becomes the pipeline status; a stopped child registers a
// Stopped job under the pipeline's own text and returns immediately. The
// terminal is reclaimed unconditionally afterwards.
func (e *Executor) waitForPipeline(results []stageResult, pgid int, pipelineText string) int {
	monitor := e.Options.Monitor
	if monitor {
		e.adoptTerminal(pgid)
	}

	status := 0
	for _, result := range results {
		if result.pid == 0 {
			status = result.status
			continue
		}

		var ws unix.WaitStatus
		if _, err := unix.Wait4(result.pid, &ws, unix.WUNTRACED, nil); err != nil {
			status = 1
			continue
		}
		if ws.Stopped() {
			e.Jobs.Add(pgid, pipelineText, jobs.Stopped)
			e.restoreTerminal()
			return 128 + int(ws.StopSignal())
		}
		status = exitCode(ws)
	}

	e.restoreTerminal()
	if !monitor {
		e.Jobs.Update(pgid, jobs.Done, status)
		e.Jobs.PruneDone()
	}
	return status
}

// exitCode converts a wait status: exited maps to the exit code, signaled
// and stopped map to 128 plus the signal number.
func exitCode(ws unix.WaitStatus) int {
	switch {
	case ws.Exited():
		return ws.ExitStatus()
	case ws.Signaled():
		return 128 + int(ws.Signal())
	case ws.Stopped():
		return 128 + int(ws.StopSignal())
	}
	return int(ws)
}

// ReapBackground collects every child status available without blocking and
// applies the transitions to the job table. The main loop checks the
// SIGCHLD flag before each prompt and calls it when the flag is set; the
// jobs builtin calls it before listing.
func (e *Executor) ReapBackground() {
	for {
		var ws unix.WaitStatus
		pid, err := unix.Wait4(-1, &ws, unix.WNOHANG|unix.WUNTRACED|unix.WCONTINUED, nil)
		if err != nil || pid <= 0 {
			return
		}

		pgid, perr := unix.Getpgid(pid)
		if perr != nil {
			// The group leader is already reaped; its pid was the pgid.
			pgid = pid
		}
		job := e.Jobs.FindByPgid(pgid)
		if job == nil {
			continue
		}

		switch {
		case ws.Exited():
			e.Jobs.Update(pgid, jobs.Done, ws.ExitStatus())
		case ws.Signaled():
			e.Jobs.Update(pgid, jobs.Done, 128+int(ws.Signal()))
		case ws.Stopped():
			e.Jobs.Update(pgid, jobs.Stopped, 0)
		case ws.Continued():
			e.Jobs.Update(pgid, jobs.Running, 0)
		}

		if job.Status == jobs.Done && e.Options.Notify && e.Notify != nil {
			e.Notify(fmt.Sprintf("job [%d] done", job.ID))
		}
	}
}

// ForegroundJob brings a job to the foreground: terminal handoff, SIGCONT
// if stopped, then a blocking wait until the group finishes or stops. A
// zero id selects the most recent job. Returns false when job control is
// off or the job does not exist.
func (e *Executor) ForegroundJob(id int) bool {
	if !e.Options.Monitor {
		return false
	}
	job := e.selectJob(id)
	if job == nil {
		return false
	}

	e.adoptTerminal(job.Pgid)
	if job.Status == jobs.Stopped {
		unix.Kill(-job.Pgid, unix.SIGCONT)
		e.Jobs.Update(job.Pgid, jobs.Running, 0)
	}

	stopped := false
	status := 0
	for {
		var ws unix.WaitStatus
		pid, err := unix.Wait4(-job.Pgid, &ws, unix.WUNTRACED, nil)
		if err != nil || pid <= 0 {
			break
		}
		if ws.Stopped() {
			stopped = true
			break
		}
		status = exitCode(ws)
	}
	e.restoreTerminal()

	if stopped {
		e.Jobs.Update(job.Pgid, jobs.Stopped, 0)
	} else {
		e.Jobs.Update(job.Pgid, jobs.Done, status)
		e.Jobs.PruneDone()
	}
	return true
}

// BackgroundJob resumes a stopped job without giving it the terminal. A
// zero id selects the most recent job.
func (e *Executor) BackgroundJob(id int) bool {
	if !e.Options.Monitor {
		return false
	}
	job := e.selectJob(id)
	if job == nil {
		return false
	}
	if job.Status == jobs.Stopped {
		unix.Kill(-job.Pgid, unix.SIGCONT)
		e.Jobs.Update(job.Pgid, jobs.Running, 0)
	}
	return true
}

// StopForeground forwards SIGTSTP to the current foreground process group.
// Called from the signal bridge goroutine.
func (e *Executor) StopForeground() {
	if pgid := e.fgPgid.Load(); pgid > 0 {
		unix.Kill(-int(pgid), syscall.SIGTSTP)
	}
}

func (e *Executor) selectJob(id int) *jobs.Job {
	if id <= 0 {
		return e.Jobs.Last()
	}
	return e.Jobs.FindByID(id)
}

func (e *Executor) adoptTerminal(pgid int) {
	e.fgPgid.Store(int64(pgid))
	if e.interactive {
		terminal.SetForeground(e.TerminalFd, pgid)
	}
}

func (e *Executor) restoreTerminal() {
	if e.interactive {
		terminal.SetForeground(e.TerminalFd, e.ShellPgid)
	}
	e.fgPgid.Store(0)
}

package exec

import (
	"fmt"
	"os"
	osexec "os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"golang.org/x/sys/unix"

	"rykeshell/parser"
)

var notFound = color.New(color.FgRed, color.Bold)

// stageResult is one spawned (or failed) pipeline stage. A zero pid means
// the stage never started and status carries its synthetic exit code.
type stageResult struct {
	pid    int
	status int
}

// spawnStage wires one stage's descriptors and starts it inside the
// pipeline's process group. The redirection list is applied in textual
// order onto a simulated descriptor table, so `>f 2>&1` merges stderr into
// the file while `2>&1 >f` leaves stderr on the original stdout. The first
// spawned stage elects the group; *pgid is updated for the rest.
func (e *Executor) spawnStage(stage parser.Command, prevRead, pipeWrite *os.File, pgid *int) stageResult {
	files := map[int]*os.File{0: os.Stdin, 1: os.Stdout, 2: os.Stderr}
	if prevRead != nil {
		files[0] = prevRead
	}
	if pipeWrite != nil {
		files[1] = pipeWrite
	}

	var opened []*os.File
	closeOpened := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	var hereBody string
	var hereWrite *os.File

	for _, redir := range stage.Redirs {
		switch redir.Kind {
		case parser.RedirIn:
			f, err := os.Open(redir.Path)
			if err != nil {
				fmt.Fprintf(files[2], "open: %v\n", err)
				closeOpened()
				return stageResult{status: 1}
			}
			opened = append(opened, f)
			files[0] = f

		case parser.RedirOut:
			flags := os.O_WRONLY | os.O_CREATE
			if redir.Append {
				flags |= os.O_APPEND
			} else if e.Options.Noclobber {
				flags |= os.O_EXCL
			} else {
				flags |= os.O_TRUNC
			}
			f, err := os.OpenFile(redir.Path, flags, 0644)
			if err != nil {
				fmt.Fprintf(files[2], "open: %v\n", err)
				closeOpened()
				return stageResult{status: 1}
			}
			opened = append(opened, f)
			files[redir.Fd] = f

		case parser.RedirDup:
			files[redir.SrcFd] = files[redir.DstFd]

		case parser.RedirHereDoc, parser.RedirHereString:
			r, w, err := os.Pipe()
			if err != nil {
				fmt.Fprintf(os.Stderr, "pipe: %v\n", err)
				closeOpened()
				return stageResult{status: 1}
			}
			opened = append(opened, r)
			files[0] = r
			if hereWrite != nil {
				hereWrite.Close()
			}
			hereWrite = w
			hereBody = e.hereBody(redir)
		}
	}

	args := e.expandArgs(stage.Args)
	if len(args) == 0 {
		closeOpened()
		if hereWrite != nil {
			hereWrite.Close()
		}
		return stageResult{status: 1}
	}

	path, err := osexec.LookPath(args[0])
	if err != nil {
		notFound.Fprintf(files[2], "Command not found: %s\n", args[0])
		closeOpened()
		if hereWrite != nil {
			hereWrite.Close()
		}
		return stageResult{status: 1}
	}

	cmd := &osexec.Cmd{
		Path:   path,
		Args:   args,
		Stdin:  files[0],
		Stdout: files[1],
		Stderr: files[2],
		SysProcAttr: &syscall.SysProcAttr{
			Setpgid: true,
			Pgid:    *pgid,
		},
		ExtraFiles: extraFiles(files),
	}

	if err := cmd.Start(); err != nil {
		fmt.Fprintf(files[2], "fork: %v\n", err)
		closeOpened()
		if hereWrite != nil {
			hereWrite.Close()
		}
		return stageResult{status: 1}
	}

	pid := cmd.Process.Pid
	if *pgid == 0 {
		*pgid = pid
	}
	// The child sets its own group before exec; mirroring it here closes
	// the race for the stages that follow.
	unix.Setpgid(pid, *pgid)

	closeOpened()
	if hereWrite != nil {
		w := hereWrite
		body := hereBody
		go func() {
			w.WriteString(body)
			w.Close()
		}()
	}

	return stageResult{pid: pid}
}

// hereBody produces the bytes fed to a here-doc or here-string pipe,
// applying tab stripping and, for an unquoted delimiter, a variable
// expansion pass. Expansion failures leave the body as collected.
func (e *Executor) hereBody(redir parser.Redirection) string {
	if redir.Kind == parser.RedirHereString {
		return redir.Text
	}

	body := ""
	if redir.Body != nil {
		body = *redir.Body
	}
	if redir.StripTabs {
		lines := strings.Split(body, "\n")
		for i, line := range lines {
			lines[i] = strings.TrimLeft(line, "\t")
		}
		body = strings.Join(lines, "\n")
	}
	if redir.ExpandVars && e.Expander != nil {
		if expanded, err := e.Expander.Expand(body); err == nil {
			body = expanded
		}
	}
	return body
}

// expandArgs applies pathname expansion to each argument unless noglob is
// set. Patterns with no match stay literal.
func (e *Executor) expandArgs(args []string) []string {
	if e.Options.Noglob {
		return args
	}
	var out []string
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil || len(matches) == 0 {
			out = append(out, arg)
			continue
		}
		out = append(out, matches...)
	}
	return out
}

// extraFiles maps descriptors above stderr into the child, filling gaps
// with the null device so an explicit 4> lands on fd 4.
func extraFiles(files map[int]*os.File) []*os.File {
	maxFd := 2
	for fd := range files {
		if fd > maxFd {
			maxFd = fd
		}
	}
	if maxFd == 2 {
		return nil
	}

	extra := make([]*os.File, 0, maxFd-2)
	for fd := 3; fd <= maxFd; fd++ {
		f := files[fd]
		if f == nil {
			if null, err := os.OpenFile(os.DevNull, os.O_RDWR, 0); err == nil {
				f = null
			}
		}
		extra = append(extra, f)
	}
	return extra
}

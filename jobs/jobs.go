// Package jobs maintains the table of running, stopped and done jobs keyed
// by job id and process-group id. All mutation happens on the shell's main
// goroutine between reads of the input line.
package jobs

import (
	"fmt"
	"io"
	"time"
)

// Status is a job's lifecycle state.
type Status int

const (
	Running Status = iota
	Stopped
	Done
)

func (s Status) String() string {
	switch s {
	case Running:
		return "Running"
	case Stopped:
		return "Stopped"
	case Done:
		return "Done"
	}
	return "Unknown"
}

// Job is one background or stopped pipeline. Every live child of the shell
// belongs to exactly one job, and all stages of a pipeline share Pgid.
type Job struct {
	ID       int
	Pgid     int
	Command  string
	Status   Status
	ExitCode int
	Started  time.Time
}

// Table owns the job list. Ids increase monotonically for the lifetime of
// the shell and are never reused while the job is still listed.
type Table struct {
	jobs   []*Job
	nextID int
}

// NewTable returns an empty job table.
func NewTable() *Table {
	return &Table{nextID: 1}
}

// Add registers a new job and returns its id.
func (t *Table) Add(pgid int, command string, status Status) int {
	job := &Job{
		ID:      t.nextID,
		Pgid:    pgid,
		Command: command,
		Status:  status,
		Started: time.Now(),
	}
	t.nextID++
	t.jobs = append(t.jobs, job)
	return job.ID
}

// FindByID returns the job with the given id, or nil.
func (t *Table) FindByID(id int) *Job {
	for _, job := range t.jobs {
		if job.ID == id {
			return job
		}
	}
	return nil
}

// FindByPgid returns the job owning the given process group, or nil.
func (t *Table) FindByPgid(pgid int) *Job {
	for _, job := range t.jobs {
		if job.Pgid == pgid {
			return job
		}
	}
	return nil
}

// Last prunes done jobs and returns the newest remaining one, or nil. fg
// and bg use it when no explicit job id is given.
func (t *Table) Last() *Job {
	t.PruneDone()
	if len(t.jobs) == 0 {
		return nil
	}
	return t.jobs[len(t.jobs)-1]
}

// Update applies a status transition to the job owning pgid. It is
// idempotent on an equal status. Exit codes only accompany Done.
func (t *Table) Update(pgid int, status Status, exitCode int) {
	job := t.FindByPgid(pgid)
	if job == nil || job.Status == status {
		return
	}
	job.Status = status
	if status == Done {
		job.ExitCode = exitCode
	}
}

// PruneDone drops every Done entry from the table.
func (t *Table) PruneDone() {
	kept := t.jobs[:0]
	for _, job := range t.jobs {
		if job.Status != Done {
			kept = append(kept, job)
		}
	}
	t.jobs = kept
}

// Jobs returns the live entries in insertion order.
func (t *Table) Jobs() []*Job {
	return t.jobs
}

// Len reports the number of listed jobs.
func (t *Table) Len() int {
	return len(t.jobs)
}

// List renders the table, one job per line. The verbose form adds the pgid
// and, when available, process stats sampled from the process group leader.
func (t *Table) List(w io.Writer, verbose bool) {
	t.PruneDone()

	if !verbose {
		for _, job := range t.jobs {
			fmt.Fprintf(w, "[%d] %s %s\n", job.ID, job.Status, job.Command)
		}
		return
	}

	maxCmd := 0
	for _, job := range t.jobs {
		if w := displayWidth(job.Command); w > maxCmd {
			maxCmd = w
		}
	}
	for _, job := range t.jobs {
		fmt.Fprintf(w, "[%d] %d %s %s%s\n",
			job.ID, job.Pgid,
			pad(job.Status.String(), 7),
			pad(job.Command, maxCmd),
			leaderStats(job.Pgid))
	}
}

// Package terminal owns the controlling-terminal state: the attribute
// snapshot taken at shell startup and the foreground process-group ioctls
// used for terminal handoff.
package terminal

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

var (
	// originalState is the snapshot taken once at startup. Restore applies
	// this state, never a later one; the shell calls Restore at shutdown,
	// not when the line editor leaves raw mode.
	originalState *term.State
	snapshotFd    int
)

// Snapshot records the terminal attributes of fd. Call once at startup;
// later calls are ignored so the startup snapshot is what Restore applies.
func Snapshot(fd int) error {
	if originalState != nil {
		return nil
	}
	state, err := term.GetState(fd)
	if err != nil {
		return fmt.Errorf("failed to read terminal state: %w", err)
	}
	originalState = state
	snapshotFd = fd
	return nil
}

// Restore reapplies the startup snapshot, if one was taken.
func Restore() {
	if originalState != nil {
		term.Restore(snapshotFd, originalState)
	}
}

// IsTerminal checks if the given file descriptor is a terminal.
func IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

// Fd returns the descriptor used for terminal control.
func Fd() int {
	return int(os.Stdin.Fd())
}

// SetForeground hands the terminal to the given process group. ENOTTY is
// expected when the shell has no controlling terminal and is ignored.
func SetForeground(fd, pgid int) error {
	err := unix.IoctlSetPointerInt(fd, unix.TIOCSPGRP, pgid)
	if err == unix.ENOTTY || err == unix.EBADF {
		return nil
	}
	return err
}

// Foreground returns the process group currently owning the terminal.
func Foreground(fd int) (int, error) {
	return unix.IoctlGetInt(fd, unix.TIOCGPGRP)
}

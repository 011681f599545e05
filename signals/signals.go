// Package signals bridges asynchronous signal delivery into the shell's
// single-threaded main loop. The handlers do the bare minimum: write a
// newline, flip an atomic flag, or forward a stop to the foreground group.
// They never touch the job table; reaping happens on the main loop.
package signals

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// Bridge is the installed signal state. ReapNeeded is the only data shared
// with the handler goroutine.
type Bridge struct {
	reapNeeded     atomic.Bool
	stopForeground func()
}

// Install registers the shell's signal handling and returns the bridge.
// stopForeground forwards SIGTSTP to the current foreground process group;
// it must be safe to call from a goroutine other than the main loop.
//
//   - SIGINT prints a newline and keeps the shell alive. A foreground
//     pipeline receives SIGINT directly from the terminal driver because it
//     owns the terminal.
//   - SIGTSTP prints a newline and forwards the stop to the foreground
//     process group, if any.
//   - SIGCHLD only sets the reap flag; the main loop collects statuses.
//
// SIGTTOU and SIGTTIN are ignored so reclaiming the terminal from a finished
// pipeline cannot stop the shell itself.
func Install(stopForeground func()) *Bridge {
	b := &Bridge{stopForeground: stopForeground}

	signal.Ignore(syscall.SIGTTOU, syscall.SIGTTIN)

	ch := make(chan os.Signal, 16)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTSTP, syscall.SIGCHLD)
	go func() {
		for sig := range ch {
			switch sig {
			case syscall.SIGINT:
				os.Stdout.Write([]byte{'\n'})
			case syscall.SIGTSTP:
				os.Stdout.Write([]byte{'\n'})
				if b.stopForeground != nil {
					b.stopForeground()
				}
			case syscall.SIGCHLD:
				b.reapNeeded.Store(true)
			}
		}
	}()

	return b
}

// ReapNeeded reports and clears the pending-reap flag. The main loop polls
// it once per iteration before printing the prompt.
func (b *Bridge) ReapNeeded() bool {
	return b.reapNeeded.Swap(false)
}

// MarkReapNeeded requests a reap pass on the next loop iteration.
func (b *Bridge) MarkReapNeeded() {
	b.reapNeeded.Store(true)
}

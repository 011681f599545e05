// Package logging appends line-oriented entries about executed commands and
// shell errors to the log file under the config directory.
package logging

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"
)

const appendFlags = os.O_APPEND | os.O_CREATE | os.O_WRONLY

// Logger writes timestamped entries to a single append-only file.
type Logger struct {
	fs   afero.Fs
	path string
}

// New returns a logger writing to path on fs. A nil fs uses the real
// filesystem.
func New(fs afero.Fs, path string) *Logger {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Logger{fs: fs, path: path}
}

// Command records an executed line and its exit status. A nil logger
// discards entries.
func (l *Logger) Command(line string, exitCode int) error {
	if l == nil {
		return nil
	}
	return l.append(fmt.Sprintf("COMMAND: %s (exit: %d)", line, exitCode))
}

// Error records a shell-side failure.
func (l *Logger) Error(err error) error {
	if l == nil || err == nil {
		return nil
	}
	return l.append(fmt.Sprintf("ERROR: %s", err))
}

// Alert records a notable event, such as a background job finishing.
func (l *Logger) Alert(message string) error {
	if l == nil || message == "" {
		return nil
	}
	return l.append(fmt.Sprintf("ALERT: %s", message))
}

func (l *Logger) append(message string) error {
	f, err := l.fs.OpenFile(l.path, appendFlags, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] %s\n", time.Now().Format(time.RFC3339), message)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to write log entry: %w", err)
	}
	return nil
}

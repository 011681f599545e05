// Package input wraps the line editor. The shell core only consumes the
// final accepted line; editing, completion and history navigation stay
// inside the editor.
package input

import (
	"io"

	"github.com/abiosoft/readline"
)

// Reader produces accepted input lines using a prompt callback rendered
// fresh for every read.
type Reader struct {
	rl     *readline.Instance
	prompt func() string
}

// NewReader builds the line editor. prompt is invoked before each read.
func NewReader(prompt func() string) (*Reader, error) {
	rl, err := readline.NewEx(&readline.Config{
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}
	return &Reader{rl: rl, prompt: prompt}, nil
}

// ReadLine returns the next accepted line. eof is reported on end of input
// (ctrl-d on an empty line); an interrupted line comes back empty.
func (r *Reader) ReadLine() (line string, eof bool) {
	r.rl.SetPrompt(r.prompt())
	line, err := r.rl.Readline()
	switch err {
	case nil:
		return line, false
	case readline.ErrInterrupt:
		return "", false
	case io.EOF:
		return "", true
	default:
		return "", true
	}
}

// ReadContinuation reads one body line under a continuation prompt, used
// while collecting here-document bodies interactively.
func (r *Reader) ReadContinuation(prompt string) (line string, eof bool) {
	r.rl.SetPrompt(prompt)
	line, err := r.rl.Readline()
	if err != nil {
		return "", true
	}
	return line, false
}

// HistoryAppend feeds an accepted line to the editor's own history so the
// arrow keys see it.
func (r *Reader) HistoryAppend(line string) {
	r.rl.SaveHistory(line)
}

// Close releases the terminal.
func (r *Reader) Close() error {
	return r.rl.Close()
}

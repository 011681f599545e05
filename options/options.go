// Package options holds the shell-wide option flags toggled by `set`.
package options

import "sort"

// Set is the mutable collection of shell options. It lives for the shell's
// lifetime and is never captured by background jobs.
type Set struct {
	Monitor     bool // job control active
	Noclobber   bool // refuse to overwrite existing files on >
	Errexit     bool // exit on first non-zero pipeline
	Nounset     bool // unset variable expansion fails
	Xtrace      bool // print each command before running
	Notify      bool // print background completion
	Noglob      bool // skip pathname expansion
	IgnoreDups  bool // history: drop if equal to last entry
	IgnoreSpace bool // history: drop if leading whitespace
}

// Defaults returns the option set a fresh interactive shell starts with.
func Defaults() *Set {
	return &Set{Monitor: true}
}

// Names lists every recognized option name, sorted.
func Names() []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var fields = map[string]func(*Set) *bool{
	"monitor":              func(s *Set) *bool { return &s.Monitor },
	"noclobber":            func(s *Set) *bool { return &s.Noclobber },
	"errexit":              func(s *Set) *bool { return &s.Errexit },
	"nounset":              func(s *Set) *bool { return &s.Nounset },
	"xtrace":               func(s *Set) *bool { return &s.Xtrace },
	"notify":               func(s *Set) *bool { return &s.Notify },
	"noglob":               func(s *Set) *bool { return &s.Noglob },
	"history-ignore-dups":  func(s *Set) *bool { return &s.IgnoreDups },
	"history-ignore-space": func(s *Set) *bool { return &s.IgnoreSpace },
}

// Apply sets the named option. Unknown names are reported with ok=false.
func (s *Set) Apply(name string, enabled bool) (ok bool) {
	f, ok := fields[name]
	if !ok {
		return false
	}
	*f(s) = enabled
	return true
}

// Get reports the current value of the named option.
func (s *Set) Get(name string) (enabled, ok bool) {
	f, ok := fields[name]
	if !ok {
		return false, false
	}
	return *f(s), true
}

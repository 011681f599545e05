// Package history keeps the bounded command history for the shell's
// lifetime. Persistence to disk is handled by the state package.
package history

import (
	"strings"
	"time"
)

// DefaultLimit bounds the history when no limit is configured.
const DefaultLimit = 1000

// Entry is one recorded command line.
type Entry struct {
	Command string
	When    time.Time
}

// History is a bounded deque of entries: insertion at the tail, oldest
// evicted first.
type History struct {
	entries     []Entry
	limit       int
	IgnoreDups  bool // drop an entry equal to the previous one
	IgnoreSpace bool // drop an entry with leading whitespace
}

// New returns a history bounded to limit entries. A non-positive limit
// falls back to DefaultLimit.
func New(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{limit: limit}
}

// Add records a command line, honoring the ignore policies. The raw line is
// inspected for leading whitespace before any trimming, so " cmd" stays out
// of the history even though the trimmed form runs.
func (h *History) Add(raw string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return
	}
	if h.IgnoreSpace && (strings.HasPrefix(raw, " ") || strings.HasPrefix(raw, "\t")) {
		return
	}
	if h.IgnoreDups && len(h.entries) > 0 && h.entries[len(h.entries)-1].Command == trimmed {
		return
	}

	h.entries = append(h.entries, Entry{Command: trimmed, When: time.Now()})
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
}

// Entries returns the recorded lines, oldest first.
func (h *History) Entries() []Entry {
	return h.entries
}

// Commands returns just the command texts, oldest first.
func (h *History) Commands() []string {
	cmds := make([]string, len(h.entries))
	for i, e := range h.entries {
		cmds[i] = e.Command
	}
	return cmds
}

// Len reports the number of recorded entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Clear drops every entry.
func (h *History) Clear() {
	h.entries = nil
}

// Search returns the entries containing query, case-insensitively.
func (h *History) Search(query string) []Entry {
	query = strings.ToLower(query)
	var found []Entry
	for _, e := range h.entries {
		if strings.Contains(strings.ToLower(e.Command), query) {
			found = append(found, e)
		}
	}
	return found
}

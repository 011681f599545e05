// Package state persists the shell's history, aliases and configuration as
// line-oriented text files under the config directory. It is the only place
// that knows the on-disk layout; the in-memory types live elsewhere.
package state

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"rykeshell/alias"
	"rykeshell/history"
	"rykeshell/options"
)

// Files binds the persisted state to a directory on a filesystem. Tests use
// an afero memory filesystem.
type Files struct {
	fs  afero.Fs
	dir string

	HistoryPath string
	AliasPath   string
	ConfigPath  string
	LogPath     string
	RCPath      string
}

// DefaultDir returns ~/.rykeshell, falling back to the working directory
// when the home directory cannot be determined.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rykeshell"
	}
	return filepath.Join(home, ".rykeshell")
}

// New returns the state files rooted at dir. A nil fs uses the real
// filesystem.
func New(fs afero.Fs, dir string) *Files {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Files{
		fs:          fs,
		dir:         dir,
		HistoryPath: filepath.Join(dir, "history"),
		AliasPath:   filepath.Join(dir, "aliases"),
		ConfigPath:  filepath.Join(dir, "config"),
		LogPath:     filepath.Join(dir, "rykeshell.log"),
		RCPath:      filepath.Join(filepath.Dir(dir), ".rykeshellrc"),
	}
}

// Fs exposes the underlying filesystem for collaborators such as logging.
func (f *Files) Fs() afero.Fs {
	return f.fs
}

// EnsureDir creates the config directory if missing.
func (f *Files) EnsureDir() error {
	return f.fs.MkdirAll(f.dir, 0755)
}

// warnWorldWritable prints a warning when a state file is writable by
// anyone, mirroring the permission check done on every load.
func (f *Files) warnWorldWritable(path string) {
	info, err := f.fs.Stat(path)
	if err != nil {
		return
	}
	if info.Mode().Perm()&0002 != 0 {
		fmt.Fprintf(os.Stderr, "Warning: state file is world-writable: %s\n", path)
	}
}

func (f *Files) readLines(path string) []string {
	file, err := f.fs.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

func (f *Files) writeLines(path string, lines []string) error {
	if err := f.EnsureDir(); err != nil {
		return err
	}
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return afero.WriteFile(f.fs, path, []byte(b.String()), 0644)
}

// LoadHistory replays the history file, oldest first.
func (f *Files) LoadHistory(h *history.History) {
	f.warnWorldWritable(f.HistoryPath)
	for _, line := range f.readLines(f.HistoryPath) {
		h.Add(line)
	}
}

// SaveHistory writes one command per line, oldest first.
func (f *Files) SaveHistory(h *history.History) error {
	return f.writeLines(f.HistoryPath, h.Commands())
}

// LoadAliases reads name=value lines into the store.
func (f *Files) LoadAliases(s *alias.Store) {
	f.warnWorldWritable(f.AliasPath)
	for _, line := range f.readLines(f.AliasPath) {
		name, value, ok := strings.Cut(line, "=")
		if !ok || name == "" {
			continue
		}
		s.Set(name, value)
	}
}

// SaveAliases writes name=value lines, sorted by name.
func (f *Files) SaveAliases(s *alias.Store) error {
	var lines []string
	for _, name := range s.Names() {
		value, _ := s.Resolve(name)
		lines = append(lines, name+"="+value)
	}
	return f.writeLines(f.AliasPath, lines)
}

// Config is the persisted shell configuration outside the option set.
type Config struct {
	PromptColor    string
	PromptTemplate string
}

// LoadConfig reads the key=value config file, applying option lines to opts
// and returning the prompt settings. Unknown keys and options are skipped.
func (f *Files) LoadConfig(opts *options.Set) Config {
	f.warnWorldWritable(f.ConfigPath)
	var cfg Config
	for _, line := range f.readLines(f.ConfigPath) {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch key {
		case "prompt_color":
			cfg.PromptColor = value
		case "prompt_template":
			cfg.PromptTemplate = value
		case "option":
			name, flag, ok := strings.Cut(value, ":")
			if !ok {
				continue
			}
			opts.Apply(name, flag == "1")
		}
	}
	return cfg
}

// SaveConfig writes the prompt settings and every option flag.
func (f *Files) SaveConfig(opts *options.Set, cfg Config) error {
	lines := []string{
		"prompt_color=" + cfg.PromptColor,
		"prompt_template=" + cfg.PromptTemplate,
	}
	for _, name := range options.Names() {
		enabled, _ := opts.Get(name)
		flag := "0"
		if enabled {
			flag = "1"
		}
		lines = append(lines, fmt.Sprintf("option=%s:%s", name, flag))
	}
	return f.writeLines(f.ConfigPath, lines)
}

// Package prompt renders the interactive prompt from a template.
package prompt

import (
	"os"
	"os/user"
	"strings"

	"rykeshell/colors"
)

// DefaultTemplate is the prompt used when no template is configured.
const DefaultTemplate = "{color}{user}@{host}{reset} {cwdcolor}{cwd}{reset}> "

// DefaultColorName is the theme color a fresh shell starts with.
const DefaultColorName = "cyan"

// Theme carries the named prompt color.
type Theme struct {
	colorName string
	colorCode string
}

// NewTheme returns a theme using the named color, falling back to the
// default when the name is unknown.
func NewTheme(name string) *Theme {
	t := &Theme{}
	if !t.Apply(name) {
		t.Apply(DefaultColorName)
	}
	return t
}

// Apply switches to the named color, reporting whether the name is known.
func (t *Theme) Apply(name string) bool {
	code, ok := colors.PromptColor(name)
	if !ok {
		return false
	}
	t.colorName = name
	t.colorCode = code
	return true
}

// ColorName returns the active color name, used when persisting config.
func (t *Theme) ColorName() string {
	return t.colorName
}

// Render fills the template placeholders: {user}, {host}, {cwd}, {color},
// {reset} and {cwdcolor}.
func Render(template string, theme *Theme) string {
	host, err := os.Hostname()
	if err != nil {
		host = "?"
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "?"
	} else if home, herr := os.UserHomeDir(); herr == nil && home != "" {
		if cwd == home {
			cwd = "~"
		} else if strings.HasPrefix(cwd, home+"/") {
			cwd = "~" + cwd[len(home):]
		}
	}

	name := os.Getenv("USER")
	if name == "" {
		if u, uerr := user.Current(); uerr == nil {
			name = u.Username
		} else {
			name = "user"
		}
	}

	r := strings.NewReplacer(
		"{user}", name,
		"{host}", host,
		"{cwd}", cwd,
		"{color}", theme.colorCode,
		"{reset}", colors.Reset,
		"{cwdcolor}", colors.BoldBlue,
	)
	return r.Replace(template)
}

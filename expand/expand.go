// Package expand performs the textual pre-processing of an input line:
// backslash escapes, tilde, parameter, command and arithmetic substitution.
// Expansion runs once per line, before tokenization, and preserves quote
// characters so the tokenizer can apply its own quote rules afterwards.
package expand

import (
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"strconv"
	"strings"

	"rykeshell/options"
)

// UnsetVariableError is returned when a parameter expansion references an
// unset variable while the nounset option is enabled.
type UnsetVariableError struct {
	Name string
}

func (e *UnsetVariableError) Error() string {
	return fmt.Sprintf("unset variable: %s", e.Name)
}

// Expander rewrites a raw input line according to the expansion rules.
type Expander struct {
	Options *options.Set

	// RunCommand captures the stdout of a command substitution body. The
	// default delegates to the system shell, mirroring a popen capture;
	// tests replace it to avoid spawning processes.
	RunCommand func(command string) string
}

// New returns an Expander bound to the given option set.
func New(opts *options.Set) *Expander {
	return &Expander{
		Options:    opts,
		RunCommand: runViaSystemShell,
	}
}

func runViaSystemShell(command string) string {
	out, err := exec.Command("sh", "-c", command).Output()
	if err != nil && len(out) == 0 {
		return ""
	}
	return string(out)
}

// Expand performs a single expansion pass over input. Inside single quotes
// nothing expands; inside double quotes parameter, command and arithmetic
// substitution still apply but tilde does not. Malformed syntax (such as an
// unterminated ${) is passed through verbatim. The only error condition is
// an unset variable under nounset.
func (e *Expander) Expand(input string) (string, error) {
	var out strings.Builder
	inSingle := false
	inDouble := false

	for i := 0; i < len(input); {
		c := input[i]

		if c == '\\' && !inSingle {
			if i+1 < len(input) {
				out.WriteByte(input[i+1])
				i += 2
				continue
			}
		}

		if c == '\'' && !inDouble {
			inSingle = !inSingle
			out.WriteByte(c)
			i++
			continue
		}
		if c == '"' && !inSingle {
			inDouble = !inDouble
			out.WriteByte(c)
			i++
			continue
		}

		atWordStart := i == 0 || isSpace(input[i-1])
		if c == '~' && !inSingle && !inDouble && atWordStart {
			end := i + 1
			for end < len(input) && !isSpace(input[end]) {
				end++
			}
			out.WriteString(expandTilde(input[i:end]))
			i = end
			continue
		}

		if c == '$' && !inSingle {
			if strings.HasPrefix(input[i:], "$((") {
				if body, next, ok := scanParens(input, i+2); ok {
					out.WriteString(strconv.FormatInt(foldArithmetic(body), 10))
					i = next
					if i < len(input) && input[i] == ')' {
						i++
					}
					continue
				}
			}
			if strings.HasPrefix(input[i:], "$(") {
				body, next, ok := scanParens(input, i+1)
				if ok {
					out.WriteString(e.commandOutput(body))
					i = next
					continue
				}
			}
			if strings.HasPrefix(input[i:], "${") {
				if end := strings.IndexByte(input[i+2:], '}'); end >= 0 {
					value, err := e.expandBraced(input[i+2 : i+2+end])
					if err != nil {
						return "", err
					}
					out.WriteString(value)
					i += 2 + end + 1
					continue
				}
			} else if name := scanName(input[i+1:]); name != "" {
				value, ok := os.LookupEnv(name)
				if !ok && e.Options != nil && e.Options.Nounset {
					return "", &UnsetVariableError{Name: name}
				}
				out.WriteString(value)
				i += 1 + len(name)
				continue
			}
		}

		out.WriteByte(c)
		i++
	}

	return out.String(), nil
}

// expandBraced handles the ${NAME} and ${NAME:-default} forms. The default
// applies whenever NAME is unset, even under nounset; a bare ${NAME} that is
// unset fails under nounset like $NAME does.
func (e *Expander) expandBraced(expr string) (string, error) {
	name := expr
	def := ""
	hasDefault := false
	if idx := strings.Index(expr, ":-"); idx >= 0 {
		name = expr[:idx]
		def = expr[idx+2:]
		hasDefault = true
	}

	if value, ok := os.LookupEnv(name); ok {
		return value, nil
	}
	if hasDefault {
		return def, nil
	}
	if e.Options != nil && e.Options.Nounset {
		return "", &UnsetVariableError{Name: name}
	}
	return "", nil
}

func (e *Expander) commandOutput(command string) string {
	if strings.TrimSpace(command) == "" {
		return ""
	}
	run := e.RunCommand
	if run == nil {
		run = runViaSystemShell
	}
	result := run(command)
	return strings.TrimRight(result, "\r\n")
}

// scanParens consumes a parenthesized body starting at the opening paren,
// tracking nesting depth. It returns the inner text and the index just past
// the closing paren. An unterminated body reports ok=false.
func scanParens(input string, start int) (body string, next int, ok bool) {
	depth := 0
	var b strings.Builder
	for j := start; j < len(input); j++ {
		switch input[j] {
		case '(':
			depth++
			if depth == 1 {
				continue
			}
		case ')':
			depth--
			if depth == 0 {
				return b.String(), j + 1, true
			}
		}
		if depth >= 1 {
			b.WriteByte(input[j])
		}
	}
	return "", len(input), false
}

// scanName returns the longest [A-Za-z_][A-Za-z0-9_]* prefix of s.
func scanName(s string) string {
	if s == "" || !isNameStart(s[0]) {
		return ""
	}
	end := 1
	for end < len(s) && isNameByte(s[end]) {
		end++
	}
	return s[:end]
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isNameByte(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// expandTilde resolves a leading ~ or ~user in word. Unknown users and a
// missing home directory leave the word untouched.
func expandTilde(word string) string {
	if word == "" || word[0] != '~' {
		return word
	}

	rest := ""
	userPart := word[1:]
	if slash := strings.IndexByte(word, '/'); slash >= 0 {
		userPart = word[1:slash]
		rest = word[slash:]
	}

	var home string
	if userPart == "" {
		home = os.Getenv("HOME")
		if home == "" {
			if u, err := user.Current(); err == nil {
				home = u.HomeDir
			}
		}
	} else {
		if u, err := user.Lookup(userPart); err == nil {
			home = u.HomeDir
		}
	}

	if home == "" {
		return word
	}
	return home + rest
}

// foldArithmetic evaluates expr as a left-to-right fold over + - * / with
// integer semantics. Division by zero preserves the accumulator.
func foldArithmetic(expr string) int64 {
	var total int64
	op := byte('+')
	i := 0
	for i < len(expr) {
		for i < len(expr) && isSpace(expr[i]) {
			i++
		}
		negative := false
		if i < len(expr) && (expr[i] == '+' || expr[i] == '-') {
			negative = expr[i] == '-'
			i++
		}
		var val int64
		for i < len(expr) && expr[i] >= '0' && expr[i] <= '9' {
			val = val*10 + int64(expr[i]-'0')
			i++
		}
		if negative {
			val = -val
		}

		switch op {
		case '+':
			total += val
		case '-':
			total -= val
		case '*':
			total *= val
		case '/':
			if val != 0 {
				total /= val
			}
		}

		for i < len(expr) && isSpace(expr[i]) {
			i++
		}
		if i < len(expr) {
			op = expr[i]
			i++
		}
	}
	return total
}

package parser

import (
	"os"
	"strings"
)

// RedirKind discriminates the Redirection variants.
type RedirKind int

const (
	// RedirIn reads stdin from Path.
	RedirIn RedirKind = iota
	// RedirOut writes fd Fd to Path, truncating or appending.
	RedirOut
	// RedirDup makes SrcFd a duplicate of DstFd in the child.
	RedirDup
	// RedirHereDoc feeds stdin from an inline body read up to Delimiter.
	RedirHereDoc
	// RedirHereString feeds stdin from the literal Text.
	RedirHereString
)

// Redirection is one redirection record of a command stage. Records are
// applied in list order at execution time.
type Redirection struct {
	Kind RedirKind

	Path   string // RedirIn, RedirOut
	Fd     int    // RedirOut target descriptor
	Append bool   // RedirOut mode

	SrcFd int // RedirDup
	DstFd int

	Delimiter  string  // RedirHereDoc
	ExpandVars bool    // expand variables in the body
	StripTabs  bool    // strip leading tabs from body lines
	Body       *string // collected body; nil until collection

	Text string // RedirHereString
}

// MergeErrToOut is the 2>&1 shorthand attached by the |& operator.
func MergeErrToOut() Redirection {
	return Redirection{Kind: RedirDup, SrcFd: 2, DstFd: 1}
}

// Command is a single pipeline stage: its argument words after expansion and
// field splitting, plus its ordered redirections.
type Command struct {
	Args   []string
	Redirs []Redirection
}

func (c *Command) empty() bool {
	return len(c.Args) == 0 && len(c.Redirs) == 0
}

// Chain relates a pipeline to the PRECEDING pipeline on the same line.
type Chain int

const (
	// ChainNone always runs.
	ChainNone Chain = iota
	// ChainAnd runs only if the previous pipeline exited 0.
	ChainAnd
	// ChainOr runs only if the previous pipeline exited non-zero.
	ChainOr
)

// Pipeline is an ordered list of command stages connected by pipes. Text is
// the pipeline's own portion of the input line, without the chaining and
// background terminators; the job table records it as the command text, so
// the other pipelines of a chained line do not leak into a job's name.
type Pipeline struct {
	Stages     []Command
	Chain      Chain
	Background bool
	Text       string
}

// DefaultIFS is the field separator set used when $IFS is unset.
const DefaultIFS = " \t\n"

// Parse consumes the token stream of one line and builds its pipelines. The
// parser never fails: malformed sequences produce a best-effort result and
// empty pipelines are discarded.
func Parse(input string) []Pipeline {
	tokens := ExpandBraces(Tokenize(input))

	var pipelines []Pipeline
	var pipeline Pipeline
	var command Command
	var words []string
	pending := ChainNone

	note := func(text string) {
		words = append(words, text)
	}

	flushCommand := func() {
		if !command.empty() {
			pipeline.Stages = append(pipeline.Stages, command)
		}
		command = Command{}
	}
	flushPipeline := func() {
		flushCommand()
		if len(pipeline.Stages) > 0 {
			pipeline.Chain = pending
			pipeline.Text = strings.Join(words, " ")
			pipelines = append(pipelines, pipeline)
		}
		pipeline = Pipeline{}
		words = nil
		pending = ChainNone
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		text := tok.Text
		if tok.Quoted {
			note(displayWord(tok))
			command.Args = append(command.Args, text)
			continue
		}

		next := func() (string, bool) {
			if i+1 < len(tokens) {
				i++
				return tokens[i].Text, true
			}
			return "", false
		}

		switch text {
		case "|":
			note("|")
			flushCommand()
		case "|&":
			note("|&")
			command.Redirs = append(command.Redirs, MergeErrToOut())
			flushCommand()
		case "&&":
			flushPipeline()
			pending = ChainAnd
		case "||":
			flushPipeline()
			pending = ChainOr
		case "&":
			pipeline.Background = true
			flushPipeline()
		case "<":
			if path, ok := next(); ok {
				note("< " + displayWord(tokens[i]))
				command.Redirs = append(command.Redirs, Redirection{Kind: RedirIn, Path: path})
			}
		case ">", ">>":
			if dst, ok := dupTarget(tokens, i); ok {
				note(text + "&" + tokens[i+2].Text)
				command.Redirs = append(command.Redirs, Redirection{Kind: RedirDup, SrcFd: 1, DstFd: dst})
				i += 2
				continue
			}
			if path, ok := next(); ok {
				note(text + " " + displayWord(tokens[i]))
				command.Redirs = append(command.Redirs, Redirection{
					Kind: RedirOut, Fd: 1, Path: path, Append: text == ">>",
				})
			}
		case "&>":
			if path, ok := next(); ok {
				note("&> " + displayWord(tokens[i]))
				command.Redirs = append(command.Redirs,
					Redirection{Kind: RedirOut, Fd: 1, Path: path},
					Redirection{Kind: RedirDup, SrcFd: 2, DstFd: 1})
			}
		case "<<", "<<-":
			if delim, ok := next(); ok {
				note(text + " " + displayWord(tokens[i]))
				command.Redirs = append(command.Redirs, Redirection{
					Kind:       RedirHereDoc,
					Delimiter:  delim,
					ExpandVars: !tokens[i].Quoted,
					StripTabs:  text == "<<-",
				})
			}
		case "<<<":
			if word, ok := next(); ok {
				note("<<< " + displayWord(tokens[i]))
				command.Redirs = append(command.Redirs, Redirection{Kind: RedirHereString, Text: word})
			}
		default:
			if fd, isAppend, isFdOp := fdOperator(text); isFdOp {
				if !isAppend {
					if dst, ok := dupTarget(tokens, i); ok {
						note(text + "&" + tokens[i+2].Text)
						command.Redirs = append(command.Redirs, Redirection{Kind: RedirDup, SrcFd: fd, DstFd: dst})
						i += 2
						continue
					}
				}
				if path, ok := next(); ok {
					note(text + " " + displayWord(tokens[i]))
					command.Redirs = append(command.Redirs, Redirection{
						Kind: RedirOut, Fd: fd, Path: path, Append: isAppend,
					})
				}
				continue
			}

			note(text)
			for _, field := range splitFields(text, ifs()) {
				if field != "" {
					command.Args = append(command.Args, field)
				}
			}
		}
	}

	flushPipeline()
	return pipelines
}

// displayWord renders a token for a pipeline's Text. Quoted tokens that
// carry whitespace get their quotes back so the job listing stays readable.
func displayWord(tok Token) string {
	if tok.Quoted && (tok.Text == "" || strings.ContainsAny(tok.Text, " \t\n")) {
		return `"` + tok.Text + `"`
	}
	return tok.Text
}

// fdOperator recognizes the N> and N>> tokens emitted by the tokenizer.
func fdOperator(text string) (fd int, appendMode, ok bool) {
	if len(text) >= 2 && text[0] >= '0' && text[0] <= '9' {
		if text[1:] == ">" {
			return int(text[0] - '0'), false, true
		}
		if text[1:] == ">>" {
			return int(text[0] - '0'), true, true
		}
	}
	return 0, false, false
}

// dupTarget matches the three-token sequence <fd-op> & <digit> forming a
// descriptor duplication such as 2>&1.
func dupTarget(tokens []Token, i int) (dst int, ok bool) {
	if i+2 >= len(tokens) {
		return 0, false
	}
	if tokens[i+1].Quoted || tokens[i+1].Text != "&" {
		return 0, false
	}
	t := tokens[i+2]
	if t.Quoted || len(t.Text) != 1 || t.Text[0] < '0' || t.Text[0] > '9' {
		return 0, false
	}
	return int(t.Text[0] - '0'), true
}

func ifs() string {
	if v, ok := os.LookupEnv("IFS"); ok {
		return v
	}
	return DefaultIFS
}

func splitFields(token, ifs string) []string {
	if ifs == "" {
		return []string{token}
	}
	return strings.FieldsFunc(token, func(r rune) bool {
		return strings.ContainsRune(ifs, r)
	})
}

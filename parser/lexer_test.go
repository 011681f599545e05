package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func texts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}

func TestTokenizeWords(t *testing.T) {
	assert.Equal(t, []string{"echo", "hello", "world"}, texts(Tokenize("echo   hello\tworld")))
}

func TestTokenizeQuotesStripped(t *testing.T) {
	tokens := Tokenize(`echo "hello world" 'single'`)
	assert.Equal(t, []string{"echo", "hello world", "single"}, texts(tokens))
	assert.False(t, tokens[0].Quoted)
	assert.True(t, tokens[1].Quoted)
	assert.True(t, tokens[2].Quoted)
}

func TestTokenizePartialQuoteMarksToken(t *testing.T) {
	tokens := Tokenize(`pre"fix"post`)
	assert.Equal(t, []string{"prefixpost"}, texts(tokens))
	assert.True(t, tokens[0].Quoted)
}

func TestTokenizeOperators(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a | b", []string{"a", "|", "b"}},
		{"a|b", []string{"a", "|", "b"}},
		{"a || b && c", []string{"a", "||", "b", "&&", "c"}},
		{"a |& b", []string{"a", "|&", "b"}},
		{"a > f", []string{"a", ">", "f"}},
		{"a >> f", []string{"a", ">>", "f"}},
		{"a < f", []string{"a", "<", "f"}},
		{"a &> f", []string{"a", "&>", "f"}},
		{"a 2> f", []string{"a", "2>", "f"}},
		{"a 2>> f", []string{"a", "2>>", "f"}},
		{"a 3>> f", []string{"a", "3>>", "f"}},
		{"a << EOF", []string{"a", "<<", "EOF"}},
		{"a <<- EOF", []string{"a", "<<-", "EOF"}},
		{"a <<< word", []string{"a", "<<<", "word"}},
		{"a &", []string{"a", "&"}},
		{"a 2>&1", []string{"a", "2>", "&", "1"}},
		{"a >&2", []string{"a", ">", "&", "2"}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, texts(Tokenize(tc.in)), tc.in)
	}
}

func TestTokenizeLongestMatchFirst(t *testing.T) {
	// && must win over & and 2>> over 2>.
	assert.Equal(t, []string{"a", "&&", "b"}, texts(Tokenize("a&&b")))
	assert.Equal(t, []string{"a", "2>>", "f"}, texts(Tokenize("a 2>>f")))
}

func TestTokenizeOperatorsInsideQuotesAreLiteral(t *testing.T) {
	tokens := Tokenize(`echo "a | b && c"`)
	assert.Equal(t, []string{"echo", "a | b && c"}, texts(tokens))
}

func TestTokenizeEscapedSpace(t *testing.T) {
	assert.Equal(t, []string{"a b"}, texts(Tokenize(`a\ b`)))
}

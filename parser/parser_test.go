package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleCommand(t *testing.T) {
	pipelines := Parse("echo hello world")
	require.Len(t, pipelines, 1)
	require.Len(t, pipelines[0].Stages, 1)
	assert.Equal(t, []string{"echo", "hello", "world"}, pipelines[0].Stages[0].Args)
	assert.False(t, pipelines[0].Background)
	assert.Equal(t, ChainNone, pipelines[0].Chain)
}

func TestParseTrimEquivalence(t *testing.T) {
	assert.Equal(t, Parse("a"), Parse("  a  "))
}

func TestParseEmptyInput(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("   "))
}

func TestParsePipelineStages(t *testing.T) {
	pipelines := Parse("cat f | grep x | wc -l")
	require.Len(t, pipelines, 1)
	require.Len(t, pipelines[0].Stages, 3)
	assert.Equal(t, []string{"cat", "f"}, pipelines[0].Stages[0].Args)
	assert.Equal(t, []string{"wc", "-l"}, pipelines[0].Stages[2].Args)
}

func TestParseChaining(t *testing.T) {
	pipelines := Parse("a && b || c")
	require.Len(t, pipelines, 3)
	assert.Equal(t, ChainNone, pipelines[0].Chain)
	assert.Equal(t, ChainAnd, pipelines[1].Chain)
	assert.Equal(t, ChainOr, pipelines[2].Chain)
	assert.Equal(t, "a", pipelines[0].Text)
	assert.Equal(t, "b", pipelines[1].Text)
	assert.Equal(t, "c", pipelines[2].Text)
}

func TestParseBackground(t *testing.T) {
	pipelines := Parse("sleep 1 &")
	require.Len(t, pipelines, 1)
	assert.True(t, pipelines[0].Background)
	assert.Equal(t, "sleep 1", pipelines[0].Text, "the & terminator is not part of the pipeline text")
}

func TestParseBackgroundThenCommand(t *testing.T) {
	// `cmd & x` is a background cmd followed by pipeline x; the words
	// must not merge.
	pipelines := Parse("sleep 1 & echo done")
	require.Len(t, pipelines, 2)
	assert.True(t, pipelines[0].Background)
	assert.Equal(t, []string{"sleep", "1"}, pipelines[0].Stages[0].Args)
	assert.Equal(t, "sleep 1", pipelines[0].Text, "the trailing pipeline must not leak into the job text")
	assert.False(t, pipelines[1].Background)
	assert.Equal(t, []string{"echo", "done"}, pipelines[1].Stages[0].Args)
	assert.Equal(t, "echo done", pipelines[1].Text)
}

func TestParseFileRedirections(t *testing.T) {
	pipelines := Parse("cmd < in > out 2>> err")
	require.Len(t, pipelines, 1)
	redirs := pipelines[0].Stages[0].Redirs
	require.Len(t, redirs, 3)

	assert.Equal(t, RedirIn, redirs[0].Kind)
	assert.Equal(t, "in", redirs[0].Path)

	assert.Equal(t, RedirOut, redirs[1].Kind)
	assert.Equal(t, 1, redirs[1].Fd)
	assert.Equal(t, "out", redirs[1].Path)
	assert.False(t, redirs[1].Append)

	assert.Equal(t, RedirOut, redirs[2].Kind)
	assert.Equal(t, 2, redirs[2].Fd)
	assert.Equal(t, "err", redirs[2].Path)
	assert.True(t, redirs[2].Append)
}

func TestParseAppend(t *testing.T) {
	redirs := Parse("cmd >> out")[0].Stages[0].Redirs
	require.Len(t, redirs, 1)
	assert.True(t, redirs[0].Append)
}

func TestParseDupFromTriple(t *testing.T) {
	redirs := Parse("cmd > f 2>&1")[0].Stages[0].Redirs
	require.Len(t, redirs, 2)
	assert.Equal(t, RedirOut, redirs[0].Kind)
	assert.Equal(t, RedirDup, redirs[1].Kind)
	assert.Equal(t, 2, redirs[1].SrcFd)
	assert.Equal(t, 1, redirs[1].DstFd)
}

func TestParseDupPreservesTextualOrder(t *testing.T) {
	redirs := Parse("cmd 2>&1 > f")[0].Stages[0].Redirs
	require.Len(t, redirs, 2)
	assert.Equal(t, RedirDup, redirs[0].Kind)
	assert.Equal(t, RedirOut, redirs[1].Kind)
}

func TestParseStdoutDup(t *testing.T) {
	redirs := Parse("cmd >&2")[0].Stages[0].Redirs
	require.Len(t, redirs, 1)
	assert.Equal(t, RedirDup, redirs[0].Kind)
	assert.Equal(t, 1, redirs[0].SrcFd)
	assert.Equal(t, 2, redirs[0].DstFd)
}

func TestParseBothStreams(t *testing.T) {
	redirs := Parse("cmd &> all")[0].Stages[0].Redirs
	require.Len(t, redirs, 2)
	assert.Equal(t, RedirOut, redirs[0].Kind)
	assert.Equal(t, "all", redirs[0].Path)
	assert.Equal(t, RedirDup, redirs[1].Kind)
	assert.Equal(t, 2, redirs[1].SrcFd)
	assert.Equal(t, 1, redirs[1].DstFd)
}

func TestParseMergePipe(t *testing.T) {
	pipelines := Parse("cmd |& next")
	require.Len(t, pipelines, 1)
	require.Len(t, pipelines[0].Stages, 2)
	redirs := pipelines[0].Stages[0].Redirs
	require.Len(t, redirs, 1)
	assert.Equal(t, RedirDup, redirs[0].Kind)
	assert.Equal(t, 2, redirs[0].SrcFd)
	assert.Equal(t, 1, redirs[0].DstFd)
}

func TestParseHereDoc(t *testing.T) {
	redirs := Parse("cat << EOF")[0].Stages[0].Redirs
	require.Len(t, redirs, 1)
	assert.Equal(t, RedirHereDoc, redirs[0].Kind)
	assert.Equal(t, "EOF", redirs[0].Delimiter)
	assert.True(t, redirs[0].ExpandVars)
	assert.False(t, redirs[0].StripTabs)
	assert.Nil(t, redirs[0].Body)
}

func TestParseHereDocQuotedDelimiterDisablesExpansion(t *testing.T) {
	redirs := Parse("cat << 'EOF'")[0].Stages[0].Redirs
	require.Len(t, redirs, 1)
	assert.False(t, redirs[0].ExpandVars)
}

func TestParseHereDocStripTabs(t *testing.T) {
	redirs := Parse("cat <<- EOF")[0].Stages[0].Redirs
	require.Len(t, redirs, 1)
	assert.True(t, redirs[0].StripTabs)
}

func TestParseHereString(t *testing.T) {
	redirs := Parse("cat <<< hello")[0].Stages[0].Redirs
	require.Len(t, redirs, 1)
	assert.Equal(t, RedirHereString, redirs[0].Kind)
	assert.Equal(t, "hello", redirs[0].Text)
}

func TestParseExplicitFd(t *testing.T) {
	redirs := Parse("cmd 3> out")[0].Stages[0].Redirs
	require.Len(t, redirs, 1)
	assert.Equal(t, RedirOut, redirs[0].Kind)
	assert.Equal(t, 3, redirs[0].Fd)
}

func TestParseQuotedWordNotFieldSplit(t *testing.T) {
	t.Setenv("IFS", " \t\n")
	args := Parse(`echo "a b c"`)[0].Stages[0].Args
	assert.Equal(t, []string{"echo", "a b c"}, args)
}

func TestParseDeterministic(t *testing.T) {
	line := "a | b > f && c 2>&1 || d &"
	assert.Equal(t, Parse(line), Parse(line))
}

func TestParseEmptyPipelinesDiscarded(t *testing.T) {
	assert.Empty(t, Parse("&&"))
	assert.Empty(t, Parse("| |"))
}

func TestParsePipelineText(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"cmd > f 2>&1", []string{"cmd > f 2>&1"}},
		{"cat f | tr a-z A-Z >> out", []string{"cat f | tr a-z A-Z >> out"}},
		{`sh -c "exit 0" &`, []string{`sh -c "exit 0"`}},
		{"make && sleep 5 &", []string{"make", "sleep 5"}},
		{"cat << EOF", []string{"cat << EOF"}},
		{"cat <<< hi", []string{"cat <<< hi"}},
	}
	for _, tc := range cases {
		pipelines := Parse(tc.in)
		require.Len(t, pipelines, len(tc.want), tc.in)
		for i, want := range tc.want {
			assert.Equal(t, want, pipelines[i].Text, tc.in)
		}
	}
}

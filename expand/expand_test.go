package expand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rykeshell/options"
)

func newTestExpander() *Expander {
	e := New(options.Defaults())
	e.RunCommand = func(string) string { return "" }
	return e
}

func TestExpandPlainTextUnchanged(t *testing.T) {
	e := newTestExpander()
	out, err := e.Expand("echo hello world")
	require.NoError(t, err)
	assert.Equal(t, "echo hello world", out)
}

func TestExpandSingleQuotesPreserved(t *testing.T) {
	// Quote fidelity: single-quoted text passes through verbatim,
	// quotes included.
	e := newTestExpander()
	t.Setenv("RYKE_QUOTED", "nope")
	out, err := e.Expand("'$RYKE_QUOTED and ~ stay put'")
	require.NoError(t, err)
	assert.Equal(t, "'$RYKE_QUOTED and ~ stay put'", out)
}

func TestExpandVariable(t *testing.T) {
	e := newTestExpander()
	t.Setenv("RYKE_VAR", "hi")
	out, err := e.Expand("echo $RYKE_VAR")
	require.NoError(t, err)
	assert.Equal(t, "echo hi", out)
}

func TestExpandVariableInsideDoubleQuotes(t *testing.T) {
	e := newTestExpander()
	t.Setenv("RYKE_VAR", "hi there")
	out, err := e.Expand(`echo "$RYKE_VAR"`)
	require.NoError(t, err)
	assert.Equal(t, `echo "hi there"`, out)
}

func TestExpandUnsetVariableEmpty(t *testing.T) {
	e := newTestExpander()
	out, err := e.Expand("echo $RYKE_DEFINITELY_UNSET-x")
	require.NoError(t, err)
	assert.Equal(t, "echo -x", out)
}

func TestExpandNounsetFails(t *testing.T) {
	e := newTestExpander()
	e.Options.Nounset = true
	_, err := e.Expand("echo $RYKE_DEFINITELY_UNSET")
	require.Error(t, err)
	var unset *UnsetVariableError
	require.ErrorAs(t, err, &unset)
	assert.Equal(t, "RYKE_DEFINITELY_UNSET", unset.Name)
}

func TestExpandBracedDefault(t *testing.T) {
	e := newTestExpander()
	out, err := e.Expand("echo ${RYKE_DEFINITELY_UNSET:-fallback}")
	require.NoError(t, err)
	assert.Equal(t, "echo fallback", out)
}

func TestExpandBracedDefaultUnderNounset(t *testing.T) {
	e := newTestExpander()
	e.Options.Nounset = true
	out, err := e.Expand("echo ${RYKE_DEFINITELY_UNSET:-fallback}")
	require.NoError(t, err)
	assert.Equal(t, "echo fallback", out)
}

func TestExpandBracedSetWinsOverDefault(t *testing.T) {
	e := newTestExpander()
	t.Setenv("RYKE_VAR", "set")
	out, err := e.Expand("echo ${RYKE_VAR:-fallback}")
	require.NoError(t, err)
	assert.Equal(t, "echo set", out)
}

func TestExpandUnterminatedBraceLeftIntact(t *testing.T) {
	e := newTestExpander()
	out, err := e.Expand("echo ${RYKE_VAR")
	require.NoError(t, err)
	assert.Equal(t, "echo ${RYKE_VAR", out)
}

func TestExpandTildeAtWordStart(t *testing.T) {
	e := newTestExpander()
	t.Setenv("HOME", "/home/ryke")
	out, err := e.Expand("ls ~/docs")
	require.NoError(t, err)
	assert.Equal(t, "ls /home/ryke/docs", out)
}

func TestExpandTildeMidWordUntouched(t *testing.T) {
	e := newTestExpander()
	t.Setenv("HOME", "/home/ryke")
	out, err := e.Expand("echo a~b")
	require.NoError(t, err)
	assert.Equal(t, "echo a~b", out)
}

func TestExpandTildeInsideQuotesUntouched(t *testing.T) {
	e := newTestExpander()
	t.Setenv("HOME", "/home/ryke")
	out, err := e.Expand(`echo "~"`)
	require.NoError(t, err)
	assert.Equal(t, `echo "~"`, out)
}

func TestExpandBackslashConsumesEscape(t *testing.T) {
	e := newTestExpander()
	t.Setenv("RYKE_VAR", "nope")
	out, err := e.Expand(`echo \$RYKE_VAR`)
	require.NoError(t, err)
	assert.Equal(t, "echo $RYKE_VAR", out)
}

func TestExpandCommandSubstitution(t *testing.T) {
	e := newTestExpander()
	var got string
	e.RunCommand = func(cmd string) string {
		got = cmd
		return "output\n\n"
	}
	out, err := e.Expand("echo $(date +%s)")
	require.NoError(t, err)
	assert.Equal(t, "date +%s", got)
	assert.Equal(t, "echo output", out, "trailing newlines are stripped")
}

func TestExpandCommandSubstitutionNested(t *testing.T) {
	e := newTestExpander()
	var got string
	e.RunCommand = func(cmd string) string {
		got = cmd
		return "x"
	}
	_, err := e.Expand("echo $(echo (nested))")
	require.NoError(t, err)
	assert.Equal(t, "echo (nested)", got)
}

func TestExpandArithmetic(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"echo $((1+2))", "echo 3"},
		{"echo $((2*3+4))", "echo 10"},
		{"echo $((10-4))", "echo 6"},
		{"echo $((9/3))", "echo 3"},
		{"echo $(( 5 + 5 ))", "echo 10"},
		// Division by zero preserves the accumulator.
		{"echo $((7/0))", "echo 7"},
		{"echo $((-3+10))", "echo 7"},
	}
	e := newTestExpander()
	for _, tc := range cases {
		out, err := e.Expand(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, out, tc.in)
	}
}

func TestExpandDeterministic(t *testing.T) {
	e := newTestExpander()
	t.Setenv("RYKE_VAR", "v")
	first, err := e.Expand("echo $RYKE_VAR ${X:-y} $((1+1))")
	require.NoError(t, err)
	second, err := e.Expand("echo $RYKE_VAR ${X:-y} $((1+1))")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExpandDollarWithoutName(t *testing.T) {
	e := newTestExpander()
	out, err := e.Expand("echo $ 5$")
	require.NoError(t, err)
	assert.Equal(t, "echo $ 5$", out)
}

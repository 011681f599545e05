package alias

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAndResolve(t *testing.T) {
	s := NewStore()
	s.Set("ll", "ls -la")

	got, ok := s.Resolve("ll")
	assert.True(t, ok)
	assert.Equal(t, "ls -la", got)

	_, ok = s.Resolve("missing")
	assert.False(t, ok)
}

func TestSetReplaces(t *testing.T) {
	s := NewStore()
	s.Set("g", "git")
	s.Set("g", "grep")
	got, _ := s.Resolve("g")
	assert.Equal(t, "grep", got)
	assert.Equal(t, 1, s.Len())
}

func TestUnset(t *testing.T) {
	s := NewStore()
	s.Set("g", "git")
	assert.True(t, s.Unset("g"))
	assert.False(t, s.Unset("g"))
	_, ok := s.Resolve("g")
	assert.False(t, ok)
}

func TestNamesSorted(t *testing.T) {
	s := NewStore()
	s.Set("zz", "1")
	s.Set("aa", "2")
	assert.Equal(t, []string{"aa", "zz"}, s.Names())
}

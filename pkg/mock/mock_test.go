package mock

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockValue_Primitives(t *testing.T) {
	p := New(42)

	s, ok := p.MockValue("string")
	require.True(t, ok)
	assert.Regexp(t, regexp.MustCompile(`^'[^']+'$`), s)

	n, ok := p.MockValue("number")
	require.True(t, ok)
	assert.Regexp(t, regexp.MustCompile(`^\{\d+\}$`), n)

	b, ok := p.MockValue("boolean")
	require.True(t, ok)
	assert.Contains(t, []string{"{true}", "{false}"}, b)
}

func TestMockValue_OtherTypes(t *testing.T) {
	p := New(1)
	for _, typ := range []string{"String", "string[]", "'a' | 'b'", "any", "", "() => void"} {
		v, ok := p.MockValue(typ)
		assert.False(t, ok, typ)
		assert.Empty(t, v, typ)
	}
}

func TestMockValue_SeedIsReproducible(t *testing.T) {
	a, b := New(7), New(7)
	for _, typ := range []string{"string", "number", "boolean", "string"} {
		va, _ := a.MockValue(typ)
		vb, _ := b.MockValue(typ)
		assert.Equal(t, va, vb, typ)
	}
}

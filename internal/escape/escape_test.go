package escape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringEscapesControlCharacters(t *testing.T) {
	assert.Equal(t, `a\\b`, String(`a\b`))
	assert.Equal(t, `a\"b`, String(`a"b`))
	assert.Equal(t, `a\'b`, String(`a'b`))
	assert.Equal(t, `a\nb`, String("a\nb"))
	assert.Equal(t, `a\rb`, String("a\rb"))
	assert.Equal(t, `a\tb`, String("a\tb"))
	assert.Equal(t, `a\bb`, String("a\bb"))
	assert.Equal(t, `a\fb`, String("a\fb"))
	assert.Equal(t, "a\\u2028b", String("a b"))
	assert.Equal(t, "a\\u2029b", String("a b"))
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{
		"plain text",
		"a\\b\"c'd\ne\rf\tg\bh\fi j k",
		"",
		"unicode: héllo wörld 日本語",
	} {
		assert.Equal(t, s, Unstring(String(s)))
	}
}

func TestEscapeInjective(t *testing.T) {
	a := String("a\nb")
	b := String("a\\nb")
	assert.NotEqual(t, a, b)
}

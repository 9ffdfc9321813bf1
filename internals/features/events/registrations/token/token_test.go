package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHasFixedHexShape(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		tok, err := New()
		require.NoError(t, err)
		assert.Len(t, tok, Length)
		assert.True(t, Valid(tok), tok)
		_, dup := seen[tok]
		assert.False(t, dup, "duplicate token %s", tok)
		seen[tok] = struct{}{}
	}
}

func TestValid(t *testing.T) {
	cases := map[string]bool{
		"0123456789abcdef":  true,
		"0123456789ABCDEF":  false,
		"0123456789abcde":   false,
		"0123456789abcdef0": false,
		"0123456789abcdeg":  false,
		"":                  false,
	}
	for in, want := range cases {
		assert.Equal(t, want, Valid(in), in)
	}
	assert.True(t, Valid(Normalize("  0123456789ABCDEF ")))
}

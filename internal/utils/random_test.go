package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomTokenLength(t *testing.T) {
	require.Len(t, RandomToken(64), 64)
	require.Len(t, RandomToken(7), 7)
}

func TestRandomTokenIsUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tok := RandomToken(64)
		require.False(t, seen[tok])
		seen[tok] = true
	}
}

func TestHashTokenIsStable(t *testing.T) {
	tok := RandomToken(64)
	require.Equal(t, HashToken(tok), HashToken(tok))
	require.NotEqual(t, tok, HashToken(tok))
	require.Len(t, HashToken(tok), 64) // hex SHA-256
}

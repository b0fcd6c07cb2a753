package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAPIKey(t *testing.T) {
	realKey, keyHash, err := GenerateAPIKey()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(realKey, KeyPrefix))
	assert.Len(t, keyHash, 64)
	assert.NotContains(t, keyHash, realKey, "hash must not leak the key")

	assert.True(t, ValidateKey(realKey, keyHash))
	assert.False(t, ValidateKey(realKey+"x", keyHash))
}

func TestGenerateAPIKeyIsUnique(t *testing.T) {
	a, _, err := GenerateAPIKey()
	require.NoError(t, err)
	b, _, err := GenerateAPIKey()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashKeyIsDeterministic(t *testing.T) {
	assert.Equal(t, HashKey("wl_live_abc"), HashKey("wl_live_abc"))
	assert.NotEqual(t, HashKey("wl_live_abc"), HashKey("wl_live_abd"))
}

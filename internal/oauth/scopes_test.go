package oauth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeRegistryResolve(t *testing.T) {
	db := setupTestDB(t)
	createTestScopes(t, db, "account:read", "account:write", "playlists:read")
	registry := NewScopeRegistry(db)

	t.Run("resolves known scopes", func(t *testing.T) {
		scopes, err := registry.Resolve("account:write,account:read")
		require.NoError(t, err)
		assert.Equal(t, []string{"account:read", "account:write"}, scopes)
	})

	t.Run("deduplicates and trims", func(t *testing.T) {
		scopes, err := registry.Resolve("account:read, account:read,account:read")
		require.NoError(t, err)
		assert.Equal(t, []string{"account:read"}, scopes)
	})

	t.Run("empty string resolves to no scopes", func(t *testing.T) {
		scopes, err := registry.Resolve("")
		require.NoError(t, err)
		assert.Empty(t, scopes)
	})

	t.Run("lists every unknown scope in one error", func(t *testing.T) {
		_, err := registry.Resolve("account:read,bogus,alsobogus")
		var unknownErr *UnknownScopeError
		require.ErrorAs(t, err, &unknownErr)
		assert.ElementsMatch(t, []string{"bogus", "alsobogus"}, unknownErr.Missing)
	})
}

func TestSplitScopes(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitScopes("b,a"))
	assert.Equal(t, []string{"a"}, SplitScopes("a,,a, "))
	assert.Empty(t, SplitScopes(""))
	assert.Empty(t, SplitScopes(" , ,"))
}

func TestJoinScopes(t *testing.T) {
	assert.Equal(t, "a,b", JoinScopes([]string{"a", "b"}))
	assert.Equal(t, "", JoinScopes(nil))
}

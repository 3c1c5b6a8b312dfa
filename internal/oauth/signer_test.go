package oauth

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignerRoundTrip(t *testing.T) {
	signer := newTestSigner(t)

	token, err := signer.Sign("account-1", "client-1", []string{"account:read", "account:write"}, 15*time.Minute)
	require.NoError(t, err)

	claims, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "account-1", claims.Subject)
	assert.Equal(t, "client-1", claims.ClientID)
	assert.Equal(t, []string{"account:read", "account:write"}, claims.Scopes)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt, 5*time.Second)
}

func TestSignerEmptySubject(t *testing.T) {
	signer := newTestSigner(t)

	// Client credentials tokens have no account behind them
	token, err := signer.Sign("", "client-1", []string{"account:read"}, 15*time.Minute)
	require.NoError(t, err)

	claims, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Empty(t, claims.Subject)
	assert.Equal(t, "client-1", claims.ClientID)
}

func TestSignerRejectsExpiredToken(t *testing.T) {
	signer := newTestSigner(t)

	token, err := signer.Sign("account-1", "client-1", []string{"account:read"}, -time.Minute)
	require.NoError(t, err)

	_, err = signer.Verify(token)
	var authErr *AuthenticationError
	assert.ErrorAs(t, err, &authErr)
}

func TestSignerRejectsForeignKey(t *testing.T) {
	signer := newTestSigner(t)
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	other := NewAccessTokenSignerFromKey(otherKey)

	token, err := other.Sign("account-1", "client-1", []string{"account:read"}, 15*time.Minute)
	require.NoError(t, err)

	_, err = signer.Verify(token)
	var authErr *AuthenticationError
	assert.ErrorAs(t, err, &authErr)
}

func TestSignerRejectsGarbage(t *testing.T) {
	signer := newTestSigner(t)

	_, err := signer.Verify("not-a-jwt")
	var authErr *AuthenticationError
	assert.ErrorAs(t, err, &authErr)
}

package oauth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAuthorizationCodeRequest(t *testing.T) {
	t.Run("should accept confidential client without PKCE", func(t *testing.T) {
		err := ValidateAuthorizationCodeRequest(&TokenRequest{
			GrantType:    GrantTypeAuthorizationCode,
			ClientID:     "client-1",
			ClientSecret: "secret",
			Code:         "some-code",
			RedirectURI:  "http://localhost:8080/callback",
		})
		assert.NoError(t, err)
	})

	t.Run("should accept public client with PKCE", func(t *testing.T) {
		err := ValidateAuthorizationCodeRequest(&TokenRequest{
			GrantType:    GrantTypeAuthorizationCode,
			ClientID:     "client-1",
			Code:         "some-code",
			RedirectURI:  "http://localhost:8080/callback",
			CodeVerifier: "0123456789012345678901234567890123456789012",
		})
		assert.NoError(t, err)
	})

	t.Run("should reject missing code", func(t *testing.T) {
		err := ValidateAuthorizationCodeRequest(&TokenRequest{
			GrantType:    GrantTypeAuthorizationCode,
			ClientID:     "client-1",
			ClientSecret: "secret",
			RedirectURI:  "http://localhost:8080/callback",
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "code", verr.Field)
	})

	t.Run("should reject missing redirect_uri", func(t *testing.T) {
		err := ValidateAuthorizationCodeRequest(&TokenRequest{
			GrantType:    GrantTypeAuthorizationCode,
			ClientID:     "client-1",
			ClientSecret: "secret",
			Code:         "some-code",
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "redirect_uri", verr.Field)
	})

	t.Run("should require code_verifier when client_secret is absent", func(t *testing.T) {
		err := ValidateAuthorizationCodeRequest(&TokenRequest{
			GrantType:   GrantTypeAuthorizationCode,
			ClientID:    "client-1",
			Code:        "some-code",
			RedirectURI: "http://localhost:8080/callback",
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "code_verifier", verr.Field)
		assert.Contains(t, verr.Error(), "code_verifier")
	})
}

func TestValidateClientCredentialsRequest(t *testing.T) {
	t.Run("should accept identified client", func(t *testing.T) {
		err := ValidateClientCredentialsRequest(&TokenRequest{
			GrantType:    GrantTypeClientCredentials,
			ClientID:     "client-1",
			ClientSecret: "secret",
		})
		assert.NoError(t, err)
	})

	t.Run("should reject missing client_id", func(t *testing.T) {
		err := ValidateClientCredentialsRequest(&TokenRequest{
			GrantType:    GrantTypeClientCredentials,
			ClientSecret: "secret",
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "client_id", verr.Field)
	})

	t.Run("should reject missing client_secret", func(t *testing.T) {
		err := ValidateClientCredentialsRequest(&TokenRequest{
			GrantType: GrantTypeClientCredentials,
			ClientID:  "client-1",
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "client_secret", verr.Field)
	})
}

func TestValidateRefreshTokenRequest(t *testing.T) {
	t.Run("should accept request with refresh_token", func(t *testing.T) {
		err := ValidateRefreshTokenRequest(&TokenRequest{
			GrantType:    GrantTypeRefreshToken,
			RefreshToken: "some-token",
		})
		assert.NoError(t, err)
	})

	t.Run("should reject missing refresh_token", func(t *testing.T) {
		err := ValidateRefreshTokenRequest(&TokenRequest{GrantType: GrantTypeRefreshToken})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "refresh_token", verr.Field)
	})
}

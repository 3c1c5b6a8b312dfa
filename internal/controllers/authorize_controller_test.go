package controllers

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/franciscosanchezn/gin-identity-provider/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizeEndpointValidation(t *testing.T) {
	server := setupTestServer(t)
	server.accountUID = "account-1"

	t.Run("should reject unknown client", func(t *testing.T) {
		recorder := server.getAuthorize(url.Values{
			"response_type": {"code"},
			"client_id":     {"ghost"},
			"redirect_uri":  {server.redirectURI},
			"scope":         {"account:read"},
		})

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		response := decodeOAuth2Error(t, recorder)
		assert.Equal(t, models.ErrInvalidClient, response.Error)
	})

	t.Run("should reject unregistered redirect_uri", func(t *testing.T) {
		recorder := server.getAuthorize(url.Values{
			"response_type": {"code"},
			"client_id":     {server.clientID},
			"redirect_uri":  {"http://evil.example/callback"},
			"scope":         {"account:read"},
		})

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		response := decodeOAuth2Error(t, recorder)
		assert.Equal(t, models.ErrInvalidRequest, response.Error)
	})

	t.Run("should reject unsupported response_type", func(t *testing.T) {
		recorder := server.getAuthorize(url.Values{
			"response_type": {"id_token"},
			"client_id":     {server.clientID},
			"redirect_uri":  {server.redirectURI},
			"scope":         {"account:read"},
		})

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		response := decodeOAuth2Error(t, recorder)
		assert.Equal(t, models.ErrUnsupportedResponseType, response.Error)
	})
}

func TestAuthorizeEndpointAnonymousRedirectsToLogin(t *testing.T) {
	server := setupTestServer(t)

	recorder := server.getAuthorize(url.Values{
		"response_type": {"code"},
		"client_id":     {server.clientID},
		"redirect_uri":  {server.redirectURI},
		"scope":         {"account:read"},
	})

	assert.Equal(t, http.StatusFound, recorder.Code)
	location := recorder.Header().Get("Location")
	assert.True(t, strings.HasPrefix(location, "/login?redirect="))
}

func TestAuthorizeEndpointCodeResponse(t *testing.T) {
	server := setupTestServer(t)
	server.accountUID = "account-1"

	recorder := server.getAuthorize(url.Values{
		"response_type": {"code"},
		"client_id":     {server.clientID},
		"redirect_uri":  {server.redirectURI},
		"scope":         {"account:read"},
		"state":         {"xyz"},
	})

	require.Equal(t, http.StatusFound, recorder.Code)
	target, err := url.Parse(recorder.Header().Get("Location"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(target.String(), server.redirectURI))
	assert.Equal(t, "xyz", target.Query().Get("state"))

	// The code in the redirect is redeemable for tokens
	code := target.Query().Get("code")
	require.NotEmpty(t, code)
	tokenResponse := server.postToken(url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {server.clientID},
		"client_secret": {server.clientSecret},
		"code":          {code},
		"redirect_uri":  {server.redirectURI},
	})
	assert.Equal(t, http.StatusOK, tokenResponse.Code)
}

func TestAuthorizeEndpointImplicitResponse(t *testing.T) {
	server := setupTestServer(t)
	server.accountUID = "account-1"

	recorder := server.getAuthorize(url.Values{
		"response_type": {"token"},
		"client_id":     {server.clientID},
		"redirect_uri":  {server.redirectURI},
		"scope":         {"account:read"},
	})

	require.Equal(t, http.StatusFound, recorder.Code)
	location := recorder.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, server.redirectURI+"#"))

	// Implicit flow puts the token in the fragment, never the query string
	fragment := location[strings.Index(location, "#")+1:]
	values, err := url.ParseQuery(fragment)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", values.Get("token_type"))

	claims, err := server.tokenService.VerifyAccessToken(values.Get("access_token"))
	require.NoError(t, err)
	assert.Equal(t, "account-1", claims.Subject)
}

func TestAuthorizeEndpointUnknownScope(t *testing.T) {
	server := setupTestServer(t)
	server.accountUID = "account-1"

	recorder := server.getAuthorize(url.Values{
		"response_type": {"code"},
		"client_id":     {server.clientID},
		"redirect_uri":  {server.redirectURI},
		"scope":         {"bogus"},
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	response := decodeOAuth2Error(t, recorder)
	assert.Equal(t, models.ErrInvalidScope, response.Error)
}

package controllers

import (
	"errors"
	"net/http"

	"github.com/franciscosanchezn/gin-identity-provider/internal/models"
	"github.com/franciscosanchezn/gin-identity-provider/internal/oauth"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type TokenController struct {
	tokenService *oauth.TokenService
}

func NewTokenController(tokenService *oauth.TokenService) *TokenController {
	return &TokenController{tokenService: tokenService}
}

// HandleToken godoc
// @Summary Token Endpoint
// @Description Exchange an authorization code, refresh token or client credentials for an access token
// @Tags OAuth2
// @Accept application/x-www-form-urlencoded
// @Produce json
// @Param grant_type formData string true "Grant type: authorization_code, client_credentials or refresh_token"
// @Param client_id formData string false "Client ID"
// @Param client_secret formData string false "Client secret (confidential clients)"
// @Param code formData string false "Authorization code (authorization_code flow)"
// @Param redirect_uri formData string false "Redirect URI used at authorization (authorization_code flow)"
// @Param code_verifier formData string false "PKCE code verifier (public clients)"
// @Param refresh_token formData string false "Refresh token (refresh_token flow)"
// @Param scope formData string false "Comma-separated scopes, subset of the granted set"
// @Success 200 {object} oauth.TokenGrant
// @Failure 400 {object} models.OAuth2Error
// @Failure 401 {object} models.OAuth2Error
// @Router /oauth/token [post]
func (tc *TokenController) HandleToken(c *gin.Context) {
	request := &oauth.TokenRequest{
		GrantType:    c.PostForm("grant_type"),
		ClientID:     c.PostForm("client_id"),
		ClientSecret: c.PostForm("client_secret"),
		Scope:        c.PostForm("scope"),
		Code:         c.PostForm("code"),
		RedirectURI:  c.PostForm("redirect_uri"),
		CodeVerifier: c.PostForm("code_verifier"),
		RefreshToken: c.PostForm("refresh_token"),
	}

	var grant *oauth.TokenGrant
	var err error
	switch request.GrantType {
	case oauth.GrantTypeAuthorizationCode:
		grant, err = tc.tokenService.ExchangeAuthorizationCode(request)
	case oauth.GrantTypeClientCredentials:
		grant, err = tc.tokenService.ExchangeClientCredentials(request)
	case oauth.GrantTypeRefreshToken:
		grant, err = tc.tokenService.ExchangeRefreshToken(request)
	default:
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrUnsupportedGrantType,
			"supported values: authorization_code, client_credentials, refresh_token"))
		return
	}

	if err != nil {
		writeOAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, grant)
}

// writeOAuthError maps engine errors onto RFC 6749 error responses. Validation
// and scope errors carry details; authentication failures stay uniform.
func writeOAuthError(c *gin.Context, err error) {
	var validationErr *oauth.ValidationError
	var unknownScopeErr *oauth.UnknownScopeError
	var authErr *oauth.AuthenticationError
	var scopesErr *oauth.ScopesNotGrantedError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrInvalidRequest, validationErr.Error()))
	case errors.As(err, &unknownScopeErr):
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrInvalidScope, unknownScopeErr.Error()))
	case errors.As(err, &scopesErr):
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrInvalidScope, scopesErr.Error()))
	case errors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, models.NewOAuth2Error(models.ErrInvalidGrant, authErr.Error()))
	default:
		log.WithError(err).Error("Token request failed")
		c.JSON(http.StatusInternalServerError, models.NewOAuth2Error("server_error", "internal error"))
	}
}

package controllers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/franciscosanchezn/gin-identity-provider/internal/models"
	"github.com/franciscosanchezn/gin-identity-provider/internal/oauth"
	"github.com/franciscosanchezn/gin-identity-provider/internal/services"
	"github.com/gin-gonic/gin"
)

// AuthorizeController implements the authorization endpoint. The account
// identity comes from the external session layer, which is expected to place
// the account UID in the request context before this handler runs.
type AuthorizeController struct {
	tokenService       *oauth.TokenService
	applicationService services.ApplicationService
}

func NewAuthorizeController(tokenService *oauth.TokenService, applicationService services.ApplicationService) *AuthorizeController {
	return &AuthorizeController{
		tokenService:       tokenService,
		applicationService: applicationService,
	}
}

// HandleAuthorize godoc
// @Summary Authorization Endpoint
// @Description Issue an authorization code (response_type=code) or an access token (response_type=token) for an authenticated account
// @Tags OAuth2
// @Produce json
// @Param response_type query string true "code or token"
// @Param client_id query string true "Client ID"
// @Param redirect_uri query string true "Registered callback URI"
// @Param scope query string true "Comma-separated scope codes"
// @Param state query string false "Opaque client state, echoed back"
// @Param code_challenge query string false "PKCE code challenge"
// @Param code_challenge_method query string false "PKCE challenge method"
// @Success 302 "Redirect to redirect_uri with code or token"
// @Failure 400 {object} models.OAuth2Error
// @Router /oauth/authorize [post]
func (ac *AuthorizeController) HandleAuthorize(c *gin.Context) {
	clientID := c.Query("client_id")
	responseType := c.Query("response_type")
	redirectURI := c.Query("redirect_uri")
	scope := c.Query("scope")
	state := c.Query("state")
	codeChallenge := c.Query("code_challenge")
	codeChallengeMethod := c.Query("code_challenge_method")

	// Validate client and redirect target before anything is issued. Redirects
	// only ever go to registered URIs.
	if _, err := ac.applicationService.GetApplicationByClientID(clientID); err != nil {
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrInvalidClient, "unknown client_id"))
		return
	}
	authorized, err := ac.applicationService.IsRedirectURIAuthorized(clientID, redirectURI)
	if err != nil || !authorized {
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrInvalidRequest, "redirect_uri is not registered for this client"))
		return
	}

	// The session middleware authenticates the account; an anonymous request
	// goes back through login first.
	accountUID := c.GetString("accountUID")
	if accountUID == "" {
		loginURL := "/login?redirect=" + url.QueryEscape(c.Request.URL.String())
		c.Redirect(http.StatusFound, loginURL)
		return
	}

	switch responseType {
	case "code":
		code, err := ac.tokenService.IssueAuthorizationCode(accountUID, clientID, scope, codeChallenge, codeChallengeMethod)
		if err != nil {
			writeOAuthError(c, err)
			return
		}
		target := redirectURI + "?code=" + url.QueryEscape(code)
		if state != "" {
			target += "&state=" + url.QueryEscape(state)
		}
		c.Redirect(http.StatusFound, target)

	case "token":
		grant, err := ac.tokenService.IssueImplicitGrant(accountUID, clientID, scope)
		if err != nil {
			writeOAuthError(c, err)
			return
		}
		// Implicit flow returns the token in the URI fragment.
		fragment := fmt.Sprintf("access_token=%s&token_type=Bearer&expires_in=%d",
			url.QueryEscape(grant.AccessToken), grant.ExpiresIn)
		if state != "" {
			fragment += "&state=" + url.QueryEscape(state)
		}
		c.Redirect(http.StatusFound, redirectURI+"#"+fragment)

	default:
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrUnsupportedResponseType,
			"supported values: code, token"))
	}
}

// HandleConsentCheck godoc
// @Summary Consent check
// @Description Report whether every requested scope is already granted, letting the consent prompt be skipped
// @Tags OAuth2
// @Produce json
// @Param client_id query string true "Client ID"
// @Param scope query string true "Comma-separated scope codes"
// @Success 200 {object} map[string]bool
// @Failure 401 {object} models.OAuth2Error
// @Router /api/v1/oauth/consent [get]
func (ac *AuthorizeController) HandleConsentCheck(c *gin.Context) {
	accountUID := c.GetString("accountUID")
	if accountUID == "" {
		c.JSON(http.StatusUnauthorized, models.NewOAuth2Error(models.ErrInvalidRequest, "authentication required"))
		return
	}
	requested := oauth.SplitScopes(c.Query("scope"))
	granted, err := ac.tokenService.Grants().IsSubsetGranted(accountUID, c.Query("client_id"), requested)
	if err != nil {
		writeOAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"granted": granted})
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/franciscosanchezn/gin-identity-provider/internal/oauth"
	"github.com/gin-gonic/gin"
)

// OAuth2Auth validates engine-issued bearer tokens and exposes their claims in
// the gin context. Verification is pure computation against the signer's
// public key; no store lookup happens here (RFC 6750 bearer usage).
func OAuth2Auth(signer *oauth.AccessTokenSigner) gin.HandlerFunc {
	return func(c *gin.Context) {
		// RFC 6750: Extract Bearer token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respondWithOAuth2Error(c, http.StatusUnauthorized, "authorization_required",
				"Missing Authorization header. A valid Bearer token is required.")
			return
		}

		// Validate Bearer scheme format
		if !strings.HasPrefix(authHeader, "Bearer ") {
			respondWithOAuth2Error(c, http.StatusUnauthorized, "invalid_request",
				"Authorization header must use Bearer scheme. Format: 'Bearer <token>'")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			respondWithOAuth2Error(c, http.StatusUnauthorized, "invalid_token",
				"Bearer token is empty")
			return
		}

		claims, err := signer.Verify(tokenString)
		if err != nil {
			respondWithOAuth2Error(c, http.StatusUnauthorized, "invalid_token", err.Error())
			return
		}

		c.Set("accountUID", claims.Subject)
		c.Set("clientID", claims.ClientID)
		c.Set("scopes", claims.Scopes)

		c.Next()
	}
}

// RequireScope rejects requests whose token does not carry the given scope.
// Must run after OAuth2Auth.
func RequireScope(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		scopes, _ := c.Get("scopes")
		tokenScopes, ok := scopes.([]string)
		if !ok {
			respondWithOAuth2Error(c, http.StatusForbidden, "insufficient_scope",
				"Token carries no scopes")
			return
		}
		for _, code := range tokenScopes {
			if code == scope {
				c.Next()
				return
			}
		}
		respondWithOAuth2Error(c, http.StatusForbidden, "insufficient_scope",
			"Token is missing required scope: "+scope)
	}
}

// respondWithOAuth2Error responds with RFC 6750 compliant error format
func respondWithOAuth2Error(c *gin.Context, status int, errorCode, description string) {
	c.JSON(status, gin.H{
		"error":             errorCode,
		"error_description": description,
	})
	c.Abort()
}

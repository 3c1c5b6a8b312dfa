package controllers

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-identity-provider/internal/models"
	"github.com/franciscosanchezn/gin-identity-provider/internal/oauth"
	"github.com/franciscosanchezn/gin-identity-provider/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testServer wires the controllers over an in-memory database the same way
// cmd/main.go does, with a stub session middleware in front of the authorize
// endpoint standing in for the external login layer.
type testServer struct {
	router       *gin.Engine
	db           *gorm.DB
	tokenService *oauth.TokenService
	clientID     string
	clientSecret string
	redirectURI  string
	accountUID   string
}

func setupTestServer(t *testing.T) *testServer {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	err = db.AutoMigrate(
		&models.Application{},
		&models.RedirectURI{},
		&models.Scope{},
		&models.Grant{},
		&models.AuthorizationCode{},
		&models.RefreshToken{},
	)
	require.NoError(t, err)

	for _, scope := range []models.Scope{
		{Code: "account:read", Description: "Read account profile"},
		{Code: "account:write", Description: "Edit account profile"},
	} {
		require.NoError(t, db.Create(&scope).Error)
	}

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tokenService := oauth.NewTokenService(
		db,
		oauth.NewScopeRegistry(db),
		oauth.NewGrantLedger(db),
		oauth.NewAuthorizationCodeStore(db, 60*time.Second),
		oauth.NewRefreshTokenStore(db, 240*time.Hour),
		oauth.NewAccessTokenSignerFromKey(key),
		15*time.Minute,
		nil,
	)

	applicationService := services.NewApplicationService(db)
	application, credentials, err := applicationService.CreateApplication("Test App", "controller tests", "")
	require.NoError(t, err)
	redirectURI := "http://localhost:3000/callback"
	_, err = applicationService.AddRedirectURI(application.UID, redirectURI)
	require.NoError(t, err)

	server := &testServer{
		db:           db,
		tokenService: tokenService,
		clientID:     credentials.ClientID,
		clientSecret: credentials.ClientSecret,
		redirectURI:  redirectURI,
	}

	tokenController := NewTokenController(tokenService)
	authorizeController := NewAuthorizeController(tokenService, applicationService)

	router := gin.New()
	router.POST("/oauth/token", tokenController.HandleToken)
	router.GET("/oauth/authorize", func(c *gin.Context) {
		if server.accountUID != "" {
			c.Set("accountUID", server.accountUID)
		}
		authorizeController.HandleAuthorize(c)
	})
	server.router = router

	return server
}

func (s *testServer) postToken(form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/oauth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, req)
	return recorder
}

func (s *testServer) getAuthorize(query url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/oauth/authorize?"+query.Encode(), nil)
	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, req)
	return recorder
}

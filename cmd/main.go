package main

import (
	"fmt"
	"net/http"
	"time"

	_ "github.com/franciscosanchezn/gin-identity-provider/docs" // Import generated docs
	"github.com/franciscosanchezn/gin-identity-provider/internal/config"
	"github.com/franciscosanchezn/gin-identity-provider/internal/controllers"
	"github.com/franciscosanchezn/gin-identity-provider/internal/database"
	"github.com/franciscosanchezn/gin-identity-provider/internal/middleware"
	"github.com/franciscosanchezn/gin-identity-provider/internal/oauth"
	"github.com/franciscosanchezn/gin-identity-provider/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/swaggo/files"
	"github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

var (
	db                    *gorm.DB
	configuration         *config.Config
	signer                *oauth.AccessTokenSigner
	tokenService          *oauth.TokenService
	tokenController       *controllers.TokenController
	authorizeController   *controllers.AuthorizeController
	applicationController *controllers.ApplicationController
	scopeController       *controllers.ScopeController
)

// @title Identity Provider API
// @version 1.0
// @description OAuth2 identity provider: client application registry, scope grants and token issuance
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration = loadConfig()

	// Initialize database connection
	setupDatabase(configuration)

	// Initialize the token engine and its collaborators
	setupTokenEngine(configuration)

	// Initialize Gin router
	var router *gin.Engine = setupRouter()

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port))
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupDatabase initializes the database connection and migrates the schema
func setupDatabase(conf *config.Config) {
	var err error
	db, err = database.InitDatabase(conf.DatabaseDriver, conf.DatabaseURL)
	checkPanicErr(err)
	checkPanicErr(database.Migrate(db))
}

// setupTokenEngine wires the stores and the token service. Every dependency is
// passed explicitly; there is no global registry.
func setupTokenEngine(conf *config.Config) {
	privatePEM, publicPEM, err := conf.LoadSigningKeys()
	checkPanicErr(err)
	signer, err = oauth.NewAccessTokenSigner(privatePEM, publicPEM)
	checkPanicErr(err)

	tokenService = oauth.NewTokenService(
		db,
		oauth.NewScopeRegistry(db),
		oauth.NewGrantLedger(db),
		oauth.NewAuthorizationCodeStore(db, conf.AuthorizationCodeTTL),
		oauth.NewRefreshTokenStore(db, conf.RefreshTokenTTL),
		signer,
		conf.AccessTokenTTL,
		logTokenIssued,
	)

	applicationService := services.NewApplicationService(db)
	scopeService := services.NewScopeService(db)

	tokenController = controllers.NewTokenController(tokenService)
	authorizeController = controllers.NewAuthorizeController(tokenService, applicationService)
	applicationController = controllers.NewApplicationController(applicationService)
	scopeController = controllers.NewScopeController(scopeService)
}

// logTokenIssued is the issuance notification hook. Kept as a structured log
// line; deployments can swap in their own callback.
func logTokenIssued(event oauth.TokenIssuedEvent) {
	log.WithFields(log.Fields{
		"grant_type": event.GrantType,
		"client_id":  event.ClientID,
		"scopes":     event.Scopes,
	}).Info("Access token issued")
}

// setupRouter initializes the Gin router and sets up the routes
// It returns the configured router
func setupRouter() *gin.Engine {
	// Initialize Gin router
	router := gin.Default()

	// Define routes
	setupRoutes(router)

	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", healthCheckHandler)

	// OAuth2 endpoints. The session layer in front of /oauth/authorize is an
	// external collaborator; it places the account UID in the request context.
	router.POST("/oauth/token", tokenController.HandleToken)
	router.GET("/oauth/authorize", authorizeController.HandleAuthorize)
	router.POST("/oauth/authorize", authorizeController.HandleAuthorize)

	v1 := router.Group("/api/v1")
	{
		// Public scope listing so clients can render consent screens
		v1.GET("/scopes", scopeController.ListScopes)

		// Protected registration surface (requires a bearer token)
		protectedApi := v1.Group("")
		protectedApi.Use(middleware.OAuth2Auth(signer))
		{
			protectedApi.GET("/oauth/consent", authorizeController.HandleConsentCheck)

			adminApi := protectedApi.Group("")
			adminApi.Use(middleware.RequireScope("admin"))
			{
				adminApi.POST("/scopes", scopeController.CreateScope)

				adminApi.POST("/applications", applicationController.CreateApplication)
				adminApi.GET("/applications", applicationController.ListApplications)
				adminApi.GET("/applications/:uid", applicationController.GetApplication)
				adminApi.PUT("/applications/:uid", applicationController.UpdateApplication)
				adminApi.DELETE("/applications/:uid", applicationController.DeleteApplication)

				adminApi.GET("/applications/:uid/redirect-uris", applicationController.ListRedirectURIs)
				adminApi.POST("/applications/:uid/redirect-uris", applicationController.AddRedirectURI)
				adminApi.PUT("/applications/:uid/redirect-uris/:redirect_uid", applicationController.UpdateRedirectURI)
				adminApi.DELETE("/applications/:uid/redirect-uris/:redirect_uid", applicationController.RemoveRedirectURI)
			}
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "gin-identity-provider",
	})
}

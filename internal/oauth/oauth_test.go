package oauth

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-identity-provider/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
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

	return db
}

func newTestSigner(t *testing.T) *AccessTokenSigner {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return NewAccessTokenSignerFromKey(key)
}

// newTestService builds a TokenService over an in-memory database with short
// but comfortable TTLs.
func newTestService(t *testing.T, db *gorm.DB) *TokenService {
	return NewTokenService(
		db,
		NewScopeRegistry(db),
		NewGrantLedger(db),
		NewAuthorizationCodeStore(db, 60*time.Second),
		NewRefreshTokenStore(db, 240*time.Hour),
		newTestSigner(t),
		15*time.Minute,
		nil,
	)
}

func createTestScopes(t *testing.T, db *gorm.DB, codes ...string) {
	for _, code := range codes {
		err := db.Create(&models.Scope{Code: code, Description: "test scope " + code}).Error
		require.NoError(t, err)
	}
}

func createTestApplication(t *testing.T, db *gorm.DB, clientID, secret string) *models.Application {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	require.NoError(t, err)

	application := &models.Application{
		UID:         uuid.NewString(),
		Name:        "Test App " + clientID,
		Description: "test application",
		ClientID:    clientID,
		SecretHash:  string(hash),
	}
	err = db.Create(application).Error
	require.NoError(t, err)
	return application
}

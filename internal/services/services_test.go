package services

import (
	"testing"

	"github.com/franciscosanchezn/gin-identity-provider/internal/models"
	"github.com/stretchr/testify/require"
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
	)
	require.NoError(t, err)

	return db
}

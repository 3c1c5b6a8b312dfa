package oauth

import (
	"errors"
	"time"

	"github.com/franciscosanchezn/gin-identity-provider/internal/models"
	"gorm.io/gorm"
)

// RefreshTokenStore persists long-lived refresh tokens. Tokens are rotated on
// use: Rotate deletes the presented token and mints a replacement in a single
// transaction, so stale tokens never accumulate.
type RefreshTokenStore struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewRefreshTokenStore(db *gorm.DB, ttl time.Duration) *RefreshTokenStore {
	return &RefreshTokenStore{db: db, ttl: ttl}
}

// Issue mints an opaque refresh token bound to the account, client and scopes.
func (s *RefreshTokenStore) Issue(accountUID, clientID string, scopes []string) (string, error) {
	record := models.RefreshToken{
		Token:      newOpaqueToken(),
		AccountUID: accountUID,
		ClientID:   clientID,
		Scopes:     JoinScopes(scopes),
		ExpiresAt:  time.Now().Add(s.ttl),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return "", err
	}
	return record.Token, nil
}

// Find returns the stored token, or ErrNotFound if it is absent or expired.
// Expired rows are deleted on sight.
func (s *RefreshTokenStore) Find(token string) (*models.RefreshToken, error) {
	var record models.RefreshToken
	if err := s.db.Where("token = ?", token).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if record.Expired() {
		s.db.Delete(&record)
		return nil, ErrNotFound
	}
	return &record, nil
}

// Rotate revokes the presented token and issues a replacement carrying the same
// subject, client and scopes. Both steps commit in one transaction.
func (s *RefreshTokenStore) Rotate(old *models.RefreshToken) (string, error) {
	replacement := models.RefreshToken{
		Token:      newOpaqueToken(),
		AccountUID: old.AccountUID,
		ClientID:   old.ClientID,
		Scopes:     old.Scopes,
		ExpiresAt:  time.Now().Add(s.ttl),
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("token = ?", old.Token).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Create(&replacement).Error
	})
	if err != nil {
		return "", err
	}
	return replacement.Token, nil
}

// Revoke deletes a refresh token. Revoking an unknown token is a no-op.
func (s *RefreshTokenStore) Revoke(token string) error {
	return s.db.Where("token = ?", token).Delete(&models.RefreshToken{}).Error
}

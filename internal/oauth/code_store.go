package oauth

import (
	"strings"
	"time"

	"github.com/franciscosanchezn/gin-identity-provider/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AuthorizationCodeStore persists short-lived, single-use authorization codes.
type AuthorizationCodeStore struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewAuthorizationCodeStore(db *gorm.DB, ttl time.Duration) *AuthorizationCodeStore {
	return &AuthorizationCodeStore{db: db, ttl: ttl}
}

// Issue generates an unguessable code bound to the account, client and granted
// scopes, persists it with the store's TTL and returns it. The caller must have
// resolved the scopes and recorded consent beforehand.
func (s *AuthorizationCodeStore) Issue(accountUID, clientID string, scopes []string, codeChallenge, codeChallengeMethod string) (string, error) {
	record := models.AuthorizationCode{
		Code:                newOpaqueToken(),
		AccountUID:          accountUID,
		ClientID:            clientID,
		Scopes:              JoinScopes(scopes),
		CodeChallenge:       codeChallenge,
		CodeChallengeMethod: codeChallengeMethod,
		ExpiresAt:           time.Now().Add(s.ttl),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return "", err
	}
	return record.Code, nil
}

// Redeem atomically fetches and deletes the code. Expired codes are swept first
// so a lingering row can never be redeemed. Two concurrent redemptions of the
// same code race safely: the delete-returning statement guarantees exactly one
// caller gets the record, the other gets ErrNotFound. Absent, expired and
// already-redeemed codes are indistinguishable to the caller.
func (s *AuthorizationCodeStore) Redeem(code string) (*models.AuthorizationCode, error) {
	if err := s.SweepExpired(); err != nil {
		return nil, err
	}

	var record models.AuthorizationCode
	result := s.db.Clauses(clause.Returning{}).Where("code = ?", code).Delete(&record)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &record, nil
}

// SweepExpired removes every code past its TTL. Safe to run inline on any
// request; idempotent, no coordination needed.
func (s *AuthorizationCodeStore) SweepExpired() error {
	return s.db.Where("expires_at <= ?", time.Now()).Delete(&models.AuthorizationCode{}).Error
}

// newOpaqueToken builds a 64-char unguessable token from two random UUIDs.
func newOpaqueToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ReplaceAll(uuid.NewString(), "-", "")
}

package oauth

import (
	"github.com/franciscosanchezn/gin-identity-provider/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GrantLedger records which scopes an account has approved for a client.
// Grants never expire; they are (account, client, scope) triples removed only
// by explicit revocation.
type GrantLedger struct {
	db *gorm.DB
}

func NewGrantLedger(db *gorm.DB) *GrantLedger {
	return &GrantLedger{db: db}
}

// ListGranted returns every scope code the account has approved for the client.
func (l *GrantLedger) ListGranted(accountUID, clientID string) ([]string, error) {
	var grants []models.Grant
	err := l.db.Where("account_uid = ? AND client_id = ?", accountUID, clientID).Find(&grants).Error
	if err != nil {
		return nil, err
	}
	scopes := make([]string, 0, len(grants))
	for _, grant := range grants {
		scopes = append(scopes, grant.ScopeCode)
	}
	return scopes, nil
}

// EnsureGranted creates a Grant row for every scope not already approved.
// Idempotent: a concurrent duplicate insert hits the composite unique index
// and is treated as a successful no-op.
func (l *GrantLedger) EnsureGranted(accountUID, clientID string, scopes []string) error {
	if len(scopes) == 0 {
		return nil
	}
	grants := make([]models.Grant, 0, len(scopes))
	for _, code := range scopes {
		grants = append(grants, models.Grant{
			AccountUID: accountUID,
			ClientID:   clientID,
			ScopeCode:  code,
		})
	}
	return l.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&grants).Error
}

// IsSubsetGranted reports whether every requested scope is already approved,
// which lets the authorize endpoint skip the consent prompt.
func (l *GrantLedger) IsSubsetGranted(accountUID, clientID string, requested []string) (bool, error) {
	granted, err := l.ListGranted(accountUID, clientID)
	if err != nil {
		return false, err
	}
	return len(scopeDifference(requested, granted)) == 0, nil
}

// scopeDifference returns the scopes in requested that are absent from granted.
func scopeDifference(requested, granted []string) []string {
	grantedSet := make(map[string]bool, len(granted))
	for _, code := range granted {
		grantedSet[code] = true
	}
	var missing []string
	for _, code := range requested {
		if !grantedSet[code] {
			missing = append(missing, code)
		}
	}
	return missing
}

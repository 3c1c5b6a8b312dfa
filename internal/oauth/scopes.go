package oauth

import (
	"sort"
	"strings"

	"github.com/franciscosanchezn/gin-identity-provider/internal/models"
	"gorm.io/gorm"
)

// ScopeRegistry resolves comma-separated scope strings against the registered
// scopes. It only reads the scopes table; scope creation belongs to the CRUD
// services.
type ScopeRegistry struct {
	db *gorm.DB
}

func NewScopeRegistry(db *gorm.DB) *ScopeRegistry {
	return &ScopeRegistry{db: db}
}

// Resolve splits a scope string like "account:read,account:write" and checks
// every code against the registry. It fails with UnknownScopeError listing all
// missing codes, not just the first one. An empty string resolves to no scopes.
func (r *ScopeRegistry) Resolve(scopeCsv string) ([]string, error) {
	codes := SplitScopes(scopeCsv)
	if len(codes) == 0 {
		return nil, nil
	}

	var scopes []models.Scope
	if err := r.db.Where("code IN ?", codes).Find(&scopes).Error; err != nil {
		return nil, err
	}

	if len(scopes) != len(codes) {
		existing := make(map[string]bool, len(scopes))
		for _, scope := range scopes {
			existing[scope.Code] = true
		}
		var missing []string
		for _, code := range codes {
			if !existing[code] {
				missing = append(missing, code)
			}
		}
		return nil, &UnknownScopeError{Missing: missing}
	}

	return codes, nil
}

// SplitScopes parses the comma-separated wire format into a deduplicated,
// sorted slice of scope codes. Parsing happens once at the boundary; business
// logic only ever sees slices.
func SplitScopes(scopeCsv string) []string {
	seen := make(map[string]bool)
	var codes []string
	for _, code := range strings.Split(scopeCsv, ",") {
		code = strings.TrimSpace(code)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// JoinScopes renders a scope slice back into the comma-separated wire format.
func JoinScopes(scopes []string) string {
	return strings.Join(scopes, ",")
}

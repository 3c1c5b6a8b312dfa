package oauth

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by the stores when a code or refresh token is absent,
// expired or already consumed. Callers must not distinguish these cases.
var ErrNotFound = errors.New("record not found")

// ValidationError is a malformed request: a missing or contradictory field.
// It is always safe to surface to the caller.
type ValidationError struct {
	GrantType string
	Field     string
	Message   string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("missing mandatory body param for flow '%s': '%s'", e.GrantType, e.Field)
}

// UnknownScopeError lists every requested scope code that does not exist in the
// registry. The check is batched so the caller sees all missing codes at once.
type UnknownScopeError struct {
	Missing []string
}

func (e *UnknownScopeError) Error() string {
	return fmt.Sprintf("the following scopes do not exist: %s", strings.Join(e.Missing, ", "))
}

// AuthenticationError covers invalid, expired or reused credentials: codes,
// refresh tokens, client secrets, PKCE verifiers. The message never reveals
// whether a credential was absent, expired or already consumed.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// ScopesNotGrantedError is raised when a token request asks for scopes beyond
// those granted at authorization time. Listing the missing scopes is safe, they
// come from the caller's own request.
type ScopesNotGrantedError struct {
	Missing []string
}

func (e *ScopesNotGrantedError) Error() string {
	return fmt.Sprintf("the following scopes were not granted: %s", strings.Join(e.Missing, ", "))
}

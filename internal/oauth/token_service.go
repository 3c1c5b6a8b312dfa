package oauth

import (
	"errors"
	"time"

	"github.com/franciscosanchezn/gin-identity-provider/internal/models"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TokenGrant is the token endpoint response body (RFC 6749 §5.1).
type TokenGrant struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	Scopes       []string `json:"scopes"`
	ExpiresIn    int64    `json:"expires_in"`
	TokenType    string   `json:"token_type"`
}

// TokenIssuedEvent describes a successful token issuance. AccountUID is empty
// for client-credentials tokens.
type TokenIssuedEvent struct {
	GrantType  string
	AccountUID string
	ClientID   string
	Scopes     []string
}

// TokenIssuedFunc is an optional notification hook invoked after each
// successful issuance. Passed explicitly at construction; nil disables it.
type TokenIssuedFunc func(TokenIssuedEvent)

// TokenService composes the scope registry, grant ledger, code store, refresh
// token store and signer into the OAuth2 token-exchange flows. It owns the
// grant, code and refresh token records; applications and scopes are only read.
type TokenService struct {
	db             *gorm.DB
	scopes         *ScopeRegistry
	grants         *GrantLedger
	codes          *AuthorizationCodeStore
	refreshTokens  *RefreshTokenStore
	signer         *AccessTokenSigner
	accessTokenTTL time.Duration
	onTokenIssued  TokenIssuedFunc
}

func NewTokenService(
	db *gorm.DB,
	scopes *ScopeRegistry,
	grants *GrantLedger,
	codes *AuthorizationCodeStore,
	refreshTokens *RefreshTokenStore,
	signer *AccessTokenSigner,
	accessTokenTTL time.Duration,
	onTokenIssued TokenIssuedFunc,
) *TokenService {
	return &TokenService{
		db:             db,
		scopes:         scopes,
		grants:         grants,
		codes:          codes,
		refreshTokens:  refreshTokens,
		signer:         signer,
		accessTokenTTL: accessTokenTTL,
		onTokenIssued:  onTokenIssued,
	}
}

// IssueAuthorizationCode records consent for the requested scopes and mints a
// single-use authorization code for the authenticated account. The account
// identity is asserted by the external session layer, not re-verified here.
func (s *TokenService) IssueAuthorizationCode(accountUID, clientID, scopeCsv, codeChallenge, codeChallengeMethod string) (string, error) {
	scopes, err := s.scopes.Resolve(scopeCsv)
	if err != nil {
		return "", err
	}
	if len(scopes) == 0 {
		return "", &ValidationError{
			Field:   "scope",
			Message: "scope param is mandatory to generate an authorization code",
		}
	}

	if err := s.grants.EnsureGranted(accountUID, clientID, scopes); err != nil {
		return "", err
	}

	// PKCE params come in pairs; exactly one of the two set is a client bug.
	if (codeChallenge == "") != (codeChallengeMethod == "") {
		return "", &ValidationError{
			Field:   "code_challenge",
			Message: "in order to use PKCE, you must provide both 'code_challenge' and 'code_challenge_method' parameters",
		}
	}

	code, err := s.codes.Issue(accountUID, clientID, scopes, codeChallenge, codeChallengeMethod)
	if err != nil {
		return "", err
	}

	log.WithFields(log.Fields{
		"client_id": clientID,
		"scopes":    scopes,
		"pkce":      codeChallenge != "",
	}).Debug("Authorization code issued")

	return code, nil
}

// ExchangeAuthorizationCode redeems an authorization code for an access token
// and a refresh token.
//
// The code is burned before client secret and PKCE verification: a client that
// fails verification has still consumed the code, which closes every re-entry
// window for replay. Retrying an already-redeemed code simply fails.
func (s *TokenService) ExchangeAuthorizationCode(req *TokenRequest) (*TokenGrant, error) {
	if err := ValidateAuthorizationCodeRequest(req); err != nil {
		return nil, err
	}

	code, err := s.codes.Redeem(req.Code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &AuthenticationError{Message: "invalid or expired authorization code"}
		}
		return nil, err
	}

	// The sweep in Redeem normally removes expired codes before they get here.
	if code.Expired() {
		return nil, &AuthenticationError{Message: "authorization code has expired"}
	}

	application, err := s.findApplication(code.ClientID)
	if err != nil {
		return nil, err
	}
	if req.ClientSecret != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(application.SecretHash), []byte(req.ClientSecret)); err != nil {
			return nil, &AuthenticationError{Message: "invalid client secret"}
		}
	}

	if code.CodeChallenge != "" {
		if req.CodeVerifier == "" {
			return nil, &AuthenticationError{Message: "code_verifier is mandatory to redeem this authorization code"}
		}
		if !VerifyCodeChallenge(req.CodeVerifier, code.CodeChallenge) {
			return nil, &AuthenticationError{Message: "code verifier does not match code challenge"}
		}
	}

	// Requested scopes must be a subset of what the code granted; anything
	// more is scope escalation at redemption time.
	grantedScopes := SplitScopes(code.Scopes)
	requiredScopes := grantedScopes
	if req.Scope != "" {
		requiredScopes = SplitScopes(req.Scope)
	}
	if missing := scopeDifference(requiredScopes, grantedScopes); len(missing) > 0 {
		return nil, &ScopesNotGrantedError{Missing: missing}
	}

	accessToken, err := s.signer.Sign(code.AccountUID, code.ClientID, requiredScopes, s.accessTokenTTL)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.refreshTokens.Issue(code.AccountUID, code.ClientID, requiredScopes)
	if err != nil {
		return nil, err
	}

	s.notify(TokenIssuedEvent{
		GrantType:  GrantTypeAuthorizationCode,
		AccountUID: code.AccountUID,
		ClientID:   code.ClientID,
		Scopes:     requiredScopes,
	})

	return &TokenGrant{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Scopes:       requiredScopes,
		ExpiresIn:    int64(s.accessTokenTTL.Seconds()),
		TokenType:    "Bearer",
	}, nil
}

// ExchangeRefreshToken issues a new access token from a refresh token. The
// presented token is rotated: it is revoked and replaced in one transaction.
func (s *TokenService) ExchangeRefreshToken(req *TokenRequest) (*TokenGrant, error) {
	if err := ValidateRefreshTokenRequest(req); err != nil {
		return nil, err
	}

	refreshToken, err := s.refreshTokens.Find(req.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &AuthenticationError{Message: "invalid refresh token"}
		}
		return nil, err
	}

	scopes := SplitScopes(refreshToken.Scopes)
	accessToken, err := s.signer.Sign(refreshToken.AccountUID, refreshToken.ClientID, scopes, s.accessTokenTTL)
	if err != nil {
		return nil, err
	}
	replacement, err := s.refreshTokens.Rotate(refreshToken)
	if err != nil {
		return nil, err
	}

	s.notify(TokenIssuedEvent{
		GrantType:  GrantTypeRefreshToken,
		AccountUID: refreshToken.AccountUID,
		ClientID:   refreshToken.ClientID,
		Scopes:     scopes,
	})

	return &TokenGrant{
		AccessToken:  accessToken,
		RefreshToken: replacement,
		Scopes:       scopes,
		ExpiresIn:    int64(s.accessTokenTTL.Seconds()),
		TokenType:    "Bearer",
	}, nil
}

// ExchangeClientCredentials authenticates the client and mints an access token
// with no subject. No refresh token is issued for this flow.
func (s *TokenService) ExchangeClientCredentials(req *TokenRequest) (*TokenGrant, error) {
	if err := ValidateClientCredentialsRequest(req); err != nil {
		return nil, err
	}

	application, err := s.findApplication(req.ClientID)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(application.SecretHash), []byte(req.ClientSecret)); err != nil {
		return nil, &AuthenticationError{Message: "invalid client secret"}
	}

	scopes, err := s.scopes.Resolve(req.Scope)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.signer.Sign("", req.ClientID, scopes, s.accessTokenTTL)
	if err != nil {
		return nil, err
	}

	s.notify(TokenIssuedEvent{
		GrantType: GrantTypeClientCredentials,
		ClientID:  req.ClientID,
		Scopes:    scopes,
	})

	return &TokenGrant{
		AccessToken: accessToken,
		Scopes:      scopes,
		ExpiresIn:   int64(s.accessTokenTTL.Seconds()),
		TokenType:   "Bearer",
	}, nil
}

// IssueImplicitGrant mints an access token directly for an already
// authenticated account (authorization endpoint, response_type=token).
// No code, no refresh token.
func (s *TokenService) IssueImplicitGrant(accountUID, clientID, scopeCsv string) (*TokenGrant, error) {
	scopes, err := s.scopes.Resolve(scopeCsv)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.signer.Sign(accountUID, clientID, scopes, s.accessTokenTTL)
	if err != nil {
		return nil, err
	}

	s.notify(TokenIssuedEvent{
		GrantType:  "implicit",
		AccountUID: accountUID,
		ClientID:   clientID,
		Scopes:     scopes,
	})

	return &TokenGrant{
		AccessToken: accessToken,
		Scopes:      scopes,
		ExpiresIn:   int64(s.accessTokenTTL.Seconds()),
		TokenType:   "Bearer",
	}, nil
}

// VerifyAccessToken validates a bearer token. Pure computation, no store
// lookup, safe for concurrent use.
func (s *TokenService) VerifyAccessToken(token string) (*Claims, error) {
	return s.signer.Verify(token)
}

// Grants exposes the ledger so the authorize endpoint can decide whether to
// skip the consent prompt.
func (s *TokenService) Grants() *GrantLedger {
	return s.grants
}

// findApplication loads the client application. Unknown clients fail with the
// same error as a wrong secret so the endpoint is not a client-id oracle.
func (s *TokenService) findApplication(clientID string) (*models.Application, error) {
	var application models.Application
	if err := s.db.Where("client_id = ?", clientID).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &AuthenticationError{Message: "invalid client secret"}
		}
		return nil, err
	}
	return &application, nil
}

func (s *TokenService) notify(event TokenIssuedEvent) {
	if s.onTokenIssued != nil {
		s.onTokenIssued(event)
	}
}

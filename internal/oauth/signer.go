package oauth

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the verified content of an access token.
type Claims struct {
	Subject   string
	ClientID  string
	Scopes    []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AccessTokenSigner produces and verifies stateless RS256 bearer tokens.
// Signature and expiry are the only trust anchors; no store lookup is involved.
type AccessTokenSigner struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
}

// NewAccessTokenSigner parses a PEM-encoded RSA keypair.
func NewAccessTokenSigner(privatePEM, publicPEM []byte) (*AccessTokenSigner, error) {
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse access token private key: %w", err)
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse access token public key: %w", err)
	}
	return &AccessTokenSigner{privateKey: privateKey, publicKey: publicKey}, nil
}

// NewAccessTokenSignerFromKey builds a signer from an in-memory key. Used by
// tests and by deployments that load keys from a secret manager.
func NewAccessTokenSignerFromKey(key *rsa.PrivateKey) *AccessTokenSigner {
	return &AccessTokenSigner{privateKey: key, publicKey: &key.PublicKey}
}

// Sign mints an access token. Subject is empty for client-credentials-only
// tokens; clientID is empty for personal tokens without a client audience.
func (s *AccessTokenSigner) Sign(subject, clientID string, scopes []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
		"scope": JoinScopes(scopes),
	}
	if subject != "" {
		claims["sub"] = subject
	}
	if clientID != "" {
		claims["aud"] = clientID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(s.privateKey)
}

// Verify checks signature and time bounds and returns the token claims.
// Any failure surfaces as an AuthenticationError.
func (s *AccessTokenSigner) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Reject anything but RSA to prevent algorithm confusion attacks.
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.publicKey, nil
	})
	if err != nil || !token.Valid {
		return nil, &AuthenticationError{Message: "invalid access token"}
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, &AuthenticationError{Message: "invalid access token"}
	}

	claims := &Claims{}
	if sub, ok := mapClaims["sub"].(string); ok {
		claims.Subject = sub
	}
	if aud, ok := mapClaims["aud"].(string); ok {
		claims.ClientID = aud
	}
	if scope, ok := mapClaims["scope"].(string); ok {
		claims.Scopes = SplitScopes(scope)
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	exp, err := mapClaims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, &AuthenticationError{Message: "invalid access token"}
	}
	claims.ExpiresAt = exp.Time

	return claims, nil
}

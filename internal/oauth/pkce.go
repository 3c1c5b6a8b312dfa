package oauth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
)

// CodeVerifierToChallenge returns the code challenge for a given PKCE verifier.
// The challenge is the base64 encoding of the sha256 hex digest string, not of
// the raw digest bytes; existing clients depend on this exact transformation.
// The verifier length must verify 43 <= len(verifier) <= 128 (RFC 7636).
func CodeVerifierToChallenge(verifier string) (string, error) {
	if len(verifier) < 43 || len(verifier) > 128 {
		return "", &ValidationError{
			Field:   "code_verifier",
			Message: "parameter 'code_verifier' must verify 43 <= len(code_verifier) <= 128",
		}
	}
	sum := sha256.Sum256([]byte(verifier))
	digest := hex.EncodeToString(sum[:])
	return base64.StdEncoding.EncodeToString([]byte(digest)), nil
}

// VerifyCodeChallenge reports whether verifier maps to the stored challenge.
// The comparison is constant-time.
func VerifyCodeChallenge(verifier, challenge string) bool {
	computed, err := CodeVerifierToChallenge(verifier)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(challenge)) == 1
}

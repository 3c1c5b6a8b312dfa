package oauth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeVerifierToChallenge(t *testing.T) {
	verifier := strings.Repeat("a", 43)

	challenge, err := CodeVerifierToChallenge(verifier)
	require.NoError(t, err)
	assert.NotEmpty(t, challenge)

	// Deterministic: same verifier, same challenge
	again, err := CodeVerifierToChallenge(verifier)
	require.NoError(t, err)
	assert.Equal(t, challenge, again)

	// The challenge encodes the 64-char hex digest, so its base64 length is fixed
	assert.Len(t, challenge, 88)
}

func TestCodeVerifierToChallengeKnownValue(t *testing.T) {
	// sha256("a"*43) hexdigest, base64-encoded. Pinned so the wire format
	// never changes under refactoring.
	challenge, err := CodeVerifierToChallenge(strings.Repeat("a", 43))
	require.NoError(t, err)
	assert.Equal(t, "NjZkMzRmYmE3MWY4ZjQ1MGY3ZTQ1NTk4ODUzZTUzYmZjMjNiYmQxMjkwMjdjYmIxMzFhMmY0ZmZkNzg3OGNkMA==", challenge)
}

func TestCodeVerifierLengthBounds(t *testing.T) {
	testCases := []struct {
		name     string
		verifier string
		valid    bool
	}{
		{name: "too short", verifier: strings.Repeat("x", 42), valid: false},
		{name: "minimum length", verifier: strings.Repeat("x", 43), valid: true},
		{name: "maximum length", verifier: strings.Repeat("x", 128), valid: true},
		{name: "too long", verifier: strings.Repeat("x", 129), valid: false},
		{name: "empty", verifier: "", valid: false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CodeVerifierToChallenge(tt.verifier)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				var validationErr *ValidationError
				assert.ErrorAs(t, err, &validationErr)
			}
		})
	}
}

func TestVerifyCodeChallenge(t *testing.T) {
	verifier := strings.Repeat("v", 50)
	challenge, err := CodeVerifierToChallenge(verifier)
	require.NoError(t, err)

	assert.True(t, VerifyCodeChallenge(verifier, challenge))
	assert.False(t, VerifyCodeChallenge(strings.Repeat("w", 50), challenge))
	assert.False(t, VerifyCodeChallenge("short", challenge))
}

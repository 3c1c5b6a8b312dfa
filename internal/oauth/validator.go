package oauth

// Supported grant types for the token endpoint.
const (
	GrantTypeAuthorizationCode = "authorization_code"
	GrantTypeClientCredentials = "client_credentials"
	GrantTypeRefreshToken      = "refresh_token"
)

// TokenRequest carries the form parameters of a token endpoint call. Fields not
// relevant to the selected grant type stay empty.
type TokenRequest struct {
	GrantType    string
	ClientID     string
	ClientSecret string
	Scope        string
	Code         string
	RedirectURI  string
	CodeVerifier string
	RefreshToken string
}

// ValidateAuthorizationCodeRequest checks that a request carries every field
// the authorization_code flow requires. For public clients, without a client
// secret, PKCE is the only path, so code_verifier becomes mandatory.
// Structural only: the stores are never touched.
func ValidateAuthorizationCodeRequest(req *TokenRequest) error {
	if req.Code == "" {
		return &ValidationError{GrantType: GrantTypeAuthorizationCode, Field: "code"}
	}
	if req.RedirectURI == "" {
		return &ValidationError{GrantType: GrantTypeAuthorizationCode, Field: "redirect_uri"}
	}
	if req.ClientSecret == "" && req.CodeVerifier == "" {
		return &ValidationError{
			GrantType: GrantTypeAuthorizationCode,
			Field:     "code_verifier",
			Message:   "missing PKCE body param for flow 'authorization_code' without 'client_secret': 'code_verifier'",
		}
	}
	return nil
}

// ValidateClientCredentialsRequest checks the client_credentials flow. The
// client must identify itself; everything else is optional.
func ValidateClientCredentialsRequest(req *TokenRequest) error {
	if req.ClientID == "" {
		return &ValidationError{GrantType: GrantTypeClientCredentials, Field: "client_id"}
	}
	if req.ClientSecret == "" {
		return &ValidationError{GrantType: GrantTypeClientCredentials, Field: "client_secret"}
	}
	return nil
}

// ValidateRefreshTokenRequest checks the refresh_token flow.
func ValidateRefreshTokenRequest(req *TokenRequest) error {
	if req.RefreshToken == "" {
		return &ValidationError{GrantType: GrantTypeRefreshToken, Field: "refresh_token"}
	}
	return nil
}

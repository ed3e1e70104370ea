package auth

// TokenVerifier validates bearer tokens presented by the browser.
type TokenVerifier interface {
	// VerifyToken checks the token signature and claims and returns the
	// token subject. Returns domain.ErrUnauthorized on any failure.
	VerifyToken(tokenString string) (string, error)

	// Close releases verifier resources.
	Close() error
}

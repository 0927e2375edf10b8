// Package auth resolves the caller's identity from an access-proxy token.
//
// The token is a compact JWT forwarded in a trusted header. The hosting
// environment guarantees header authenticity before this service runs: the
// proxy verifies the signature, and network policy prevents reaching the
// service without going through the proxy. The resolver therefore only
// decodes the payload and never verifies the signature itself.
package auth

import (
	"github.com/golang-jwt/jwt/v4"
)

// Claims carried in the access-proxy token payload
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Identity extracts the email claim from a compact JWT. The second return
// value is false when the token is empty, is not a three-part compact JWT,
// its payload does not decode to JSON, or the email claim is absent.
func Identity(token string) (string, bool) {
	if token == "" {
		return "", false
	}

	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return "", false
	}
	if claims.Email == "" {
		return "", false
	}

	return claims.Email, true
}

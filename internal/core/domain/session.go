package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the client-held evidence of authentication. An empty Token
// means the visitor is a guest; Role and UserID are set if and only if
// Token is set, which is enforced by the single write path (the login
// service).
type Session struct {
	Token  string
	Role   Role
	UserID string
}

// Authenticated reports whether a token is present.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// HasRole reports whether the session is authenticated and its role is one
// of the candidates.
func (s Session) HasRole(candidates ...Role) bool {
	if !s.Authenticated() {
		return false
	}
	for _, r := range candidates {
		if s.Role == r {
			return true
		}
	}
	return false
}

// Expired reports whether the stored token carries an exp claim in the past.
// The signature is deliberately not checked: token verification belongs to
// the backend. This is only a local peek that lets the portal stop sending a
// token it already knows is dead. Tokens without a readable exp claim are
// treated as live.
func (s Session) Expired(now time.Time) bool {
	if s.Token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(s.Token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Time.Before(now)
}

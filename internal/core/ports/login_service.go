package ports

import "context"

// LoginService establishes and destroys visitor sessions.
type LoginService interface {
	// Login authenticates against the backend, persists the session, and
	// returns the role-specific landing path. On any failure the session
	// store is left untouched.
	Login(ctx context.Context, sid, email, password string) (landing string, err error)

	// Logout clears the stored session.
	Logout(ctx context.Context, sid string) error
}

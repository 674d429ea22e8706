package ports

import (
	"context"

	"github.com/workshophub/portal/internal/core/domain"
)

// SessionStore is the single choke point for the visitor's durable session
// state. AccessGate reads through it; only the login and logout paths write.
type SessionStore interface {
	// Get returns the stored session for the given session id. An absent
	// session resolves to a guest session with a nil error.
	Get(ctx context.Context, sid string) (domain.Session, error)

	// Set persists token, role and user id in one write, so a concurrent
	// reader never observes a partially updated session.
	Set(ctx context.Context, sid string, session domain.Session) error

	// Clear removes all session fields.
	Clear(ctx context.Context, sid string) error
}

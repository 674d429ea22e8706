package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/workshophub/portal/internal/core/domain"
	"github.com/workshophub/portal/internal/core/ports"
)

// LoginService implements session establishment and teardown. It is the
// only writer of the session store.
type LoginService struct {
	backend ports.VerificationBackend
	store   ports.SessionStore
	audit   ports.AuditRecorder
	log     zerolog.Logger
}

func NewLoginService(
	backend ports.VerificationBackend,
	store ports.SessionStore,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *LoginService {
	return &LoginService{backend: backend, store: store, audit: audit, log: log}
}

// Login exchanges credentials for a token, resolves the user behind it, and
// persists the complete session in one write. The landing path is computed
// once, from the freshly fetched role. No partial session is ever persisted:
// every failure before the final Set leaves the store untouched.
func (s *LoginService) Login(ctx context.Context, sid, email, password string) (string, error) {
	if email == "" {
		return "", domain.NewFieldError("email", "email is required")
	}
	if password == "" {
		return "", domain.NewFieldError("password", "password is required")
	}

	token, err := s.backend.Login(ctx, email, password)
	if err != nil {
		s.record(sid, "login", "failure", email)
		return "", err
	}

	user, err := s.backend.FetchCurrentUser(ctx, token)
	if err != nil {
		s.record(sid, "login", "failure", email)
		return "", err
	}

	role, err := domain.ParseRole(user.Role)
	if err != nil {
		s.record(sid, "login", "failure", email)
		return "", err
	}

	session := domain.Session{Token: token, Role: role, UserID: user.ID}
	if err := s.store.Set(ctx, sid, session); err != nil {
		return "", fmt.Errorf("persist session: %w", err)
	}

	s.record(sid, "login", "success", string(role))
	s.log.Info().
		Str("user_id", user.ID).
		Str("role", string(role)).
		Msg("session established")

	return role.LandingPath(), nil
}

// Logout clears the stored session.
func (s *LoginService) Logout(ctx context.Context, sid string) error {
	if err := s.store.Clear(ctx, sid); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.record(sid, "logout", "success", "")
	return nil
}

func (s *LoginService) record(sid, action, outcome, detail string) {
	s.audit.Record(ports.AuthEvent{
		SubjectID: sid,
		Action:    action,
		Outcome:   outcome,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	})
}

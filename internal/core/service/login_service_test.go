package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/workshophub/portal/internal/core/domain"
	"github.com/workshophub/portal/internal/core/ports"
)

func newLoginService(backend *stubBackend, store *stubSessionStore) *LoginService {
	return NewLoginService(backend, store, &recordingAudit{}, zerolog.Nop())
}

func TestLoginService_Success(t *testing.T) {
	backend := &stubBackend{
		loginFn: func(_ context.Context, email, password string) (string, error) {
			if email != "carol@example.com" || password != "s3cret11" {
				t.Fatalf("unexpected credentials: %s %s", email, password)
			}
			return "tok-1", nil
		},
		fetchCurrentUserFn: func(_ context.Context, token string) (ports.BackendUser, error) {
			if token != "tok-1" {
				t.Fatalf("expected the fresh token, got %q", token)
			}
			return ports.BackendUser{ID: "u42", Role: "admin", Email: "carol@example.com"}, nil
		},
	}
	store := newStubSessionStore()
	svc := newLoginService(backend, store)

	landing, err := svc.Login(context.Background(), "sid-1", "carol@example.com", "s3cret11")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if landing != "/admindashboard" {
		t.Fatalf("expected admin landing, got %q", landing)
	}

	session := store.sessions["sid-1"]
	if session.Token != "tok-1" || session.Role != domain.RoleAdmin || session.UserID != "u42" {
		t.Fatalf("unexpected session: %+v", session)
	}
	if store.setCalls != 1 {
		t.Fatalf("expected exactly one session write, got %d", store.setCalls)
	}
}

func TestLoginService_LandingPerRole(t *testing.T) {
	cases := map[string]string{
		"user":      "/",
		"organizer": "/organizerdashboard",
		"admin":     "/admindashboard",
	}
	for role, want := range cases {
		backend := &stubBackend{
			loginFn: func(_ context.Context, _, _ string) (string, error) { return "tok", nil },
			fetchCurrentUserFn: func(_ context.Context, _ string) (ports.BackendUser, error) {
				return ports.BackendUser{ID: "u1", Role: role}, nil
			},
		}
		svc := newLoginService(backend, newStubSessionStore())

		landing, err := svc.Login(context.Background(), "sid", "a@b.com", "password1")
		if err != nil {
			t.Fatalf("%s: login failed: %v", role, err)
		}
		if landing != want {
			t.Fatalf("%s: expected landing %q, got %q", role, want, landing)
		}
	}
}

func TestLoginService_BadCredentials(t *testing.T) {
	backend := &stubBackend{
		loginFn: func(_ context.Context, _, _ string) (string, error) {
			return "", domain.ErrAuth
		},
	}
	store := newStubSessionStore()
	svc := newLoginService(backend, store)

	if _, err := svc.Login(context.Background(), "sid", "a@b.com", "wrong"); !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
	if len(store.sessions) != 0 || store.setCalls != 0 {
		t.Fatalf("failed login must not touch the store")
	}
}

func TestLoginService_FetchUserFails(t *testing.T) {
	backend := &stubBackend{
		loginFn: func(_ context.Context, _, _ string) (string, error) { return "tok", nil },
		fetchCurrentUserFn: func(_ context.Context, _ string) (ports.BackendUser, error) {
			return ports.BackendUser{}, domain.ErrNetwork
		},
	}
	store := newStubSessionStore()
	svc := newLoginService(backend, store)

	if _, err := svc.Login(context.Background(), "sid", "a@b.com", "password1"); !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	if store.setCalls != 0 {
		t.Fatalf("no partial session may be persisted")
	}
}

func TestLoginService_UnknownRole(t *testing.T) {
	backend := &stubBackend{
		loginFn: func(_ context.Context, _, _ string) (string, error) { return "tok", nil },
		fetchCurrentUserFn: func(_ context.Context, _ string) (ports.BackendUser, error) {
			return ports.BackendUser{ID: "u1", Role: "superuser"}, nil
		},
	}
	store := newStubSessionStore()
	svc := newLoginService(backend, store)

	if _, err := svc.Login(context.Background(), "sid", "a@b.com", "password1"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if store.setCalls != 0 {
		t.Fatalf("unknown role must not persist a session")
	}
}

func TestLoginService_EmptyFields(t *testing.T) {
	svc := newLoginService(&stubBackend{}, newStubSessionStore())

	if _, err := svc.Login(context.Background(), "sid", "", "password1"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty email, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "sid", "a@b.com", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty password, got %v", err)
	}
}

func TestLoginService_Logout(t *testing.T) {
	store := newStubSessionStore()
	store.sessions["sid"] = domain.Session{Token: "tok", Role: domain.RoleUser, UserID: "u1"}
	svc := newLoginService(&stubBackend{}, store)

	if err := svc.Logout(context.Background(), "sid"); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, ok := store.sessions["sid"]; ok {
		t.Fatalf("session not cleared")
	}
}

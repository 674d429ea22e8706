package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/workshophub/portal/internal/core/domain"
)

type stubLoginService struct {
	loginFn  func(ctx context.Context, sid, email, password string) (string, error)
	logoutFn func(ctx context.Context, sid string) error
}

func (s *stubLoginService) Login(ctx context.Context, sid, email, password string) (string, error) {
	return s.loginFn(ctx, sid, email, password)
}

func (s *stubLoginService) Logout(ctx context.Context, sid string) error {
	return s.logoutFn(ctx, sid)
}

func newAuthContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("session_id", "sid-1")
	return c, rec
}

func TestAuthHandler_Login(t *testing.T) {
	svc := &stubLoginService{
		loginFn: func(_ context.Context, sid, email, password string) (string, error) {
			if sid != "sid-1" || email != "a@b.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s %s", sid, email, password)
			}
			return "/organizerdashboard", nil
		},
	}
	c, rec := newAuthContext(http.MethodPost, "/api/login", `{"email":"a@b.com","password":"secret"}`)

	if err := NewAuthHandler(svc).Login(c); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var out loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Landing != "/organizerdashboard" {
		t.Fatalf("unexpected landing %q", out.Landing)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	called := false
	svc := &stubLoginService{
		loginFn: func(context.Context, string, string, string) (string, error) {
			called = true
			return "", nil
		},
	}
	c, _ := newAuthContext(http.MethodPost, "/api/login", `{"email":"not-an-email","password":"secret"}`)

	err := NewAuthHandler(svc).Login(c)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if called {
		t.Fatalf("invalid payload must not reach the service")
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	svc := &stubLoginService{
		loginFn: func(context.Context, string, string, string) (string, error) {
			return "", domain.ErrAuth
		},
	}
	c, _ := newAuthContext(http.MethodPost, "/api/login", `{"email":"a@b.com","password":"wrong"}`)

	if err := NewAuthHandler(svc).Login(c); err != domain.ErrAuth {
		t.Fatalf("expected ErrAuth to propagate, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	var cleared string
	svc := &stubLoginService{
		logoutFn: func(_ context.Context, sid string) error {
			cleared = sid
			return nil
		},
	}
	c, rec := newAuthContext(http.MethodPost, "/api/logout", "")

	if err := NewAuthHandler(svc).Logout(c); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if cleared != "sid-1" {
		t.Fatalf("expected session sid-1 to be cleared, got %q", cleared)
	}
}

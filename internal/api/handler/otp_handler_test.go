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
	"github.com/workshophub/portal/internal/core/ports"
)

type stubFlowService struct {
	beginFn        func(ctx context.Context, kind domain.FlowKind, identifier string) (*domain.Flow, error)
	enterDigitFn   func(ctx context.Context, flowID string, slot int, digit rune) (ports.CodeEntryResult, error)
	eraseDigitFn   func(ctx context.Context, flowID string, slot int) (ports.CodeEntryResult, error)
	submitCodeFn   func(ctx context.Context, flowID string) (*domain.Flow, error)
	resendFn       func(ctx context.Context, flowID string) error
	submitSecretFn func(ctx context.Context, flowID, secret, confirm string) (string, error)
}

func (s *stubFlowService) Begin(ctx context.Context, kind domain.FlowKind, identifier string) (*domain.Flow, error) {
	return s.beginFn(ctx, kind, identifier)
}

func (s *stubFlowService) EnterDigit(ctx context.Context, flowID string, slot int, digit rune) (ports.CodeEntryResult, error) {
	return s.enterDigitFn(ctx, flowID, slot, digit)
}

func (s *stubFlowService) EraseDigit(ctx context.Context, flowID string, slot int) (ports.CodeEntryResult, error) {
	return s.eraseDigitFn(ctx, flowID, slot)
}

func (s *stubFlowService) SubmitCode(ctx context.Context, flowID string) (*domain.Flow, error) {
	return s.submitCodeFn(ctx, flowID)
}

func (s *stubFlowService) Resend(ctx context.Context, flowID string) error {
	return s.resendFn(ctx, flowID)
}

func (s *stubFlowService) SubmitSecret(ctx context.Context, flowID, secret, confirm string) (string, error) {
	return s.submitSecretFn(ctx, flowID, secret, confirm)
}

func newFlowContext(body string, flowID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if flowID != "" {
		c.SetParamNames("flow")
		c.SetParamValues(flowID)
	}
	return c, rec
}

func TestOtpHandler_Begin(t *testing.T) {
	svc := &stubFlowService{
		beginFn: func(_ context.Context, kind domain.FlowKind, identifier string) (*domain.Flow, error) {
			if kind != domain.FlowReset || identifier != "a@b.com" {
				t.Fatalf("unexpected args: %s %s", kind, identifier)
			}
			return &domain.Flow{ID: "f1", Kind: kind, Stage: domain.StageVerifyCode}, nil
		},
	}
	c, rec := newFlowContext(`{"email":"a@b.com"}`, "")

	if err := NewResetHandler(svc).Begin(c); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var out flowResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.FlowID != "f1" || out.Stage != "verify_code" {
		t.Fatalf("unexpected response %+v", out)
	}
}

func TestOtpHandler_Begin_KindFollowsConstructor(t *testing.T) {
	var got domain.FlowKind
	svc := &stubFlowService{
		beginFn: func(_ context.Context, kind domain.FlowKind, _ string) (*domain.Flow, error) {
			got = kind
			return &domain.Flow{ID: "f1", Kind: kind, Stage: domain.StageVerifyCode}, nil
		},
	}
	c, _ := newFlowContext(`{"email":"a@b.com"}`, "")

	if err := NewVerifyEmailHandler(svc).Begin(c); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if got != domain.FlowVerifyEmail {
		t.Fatalf("expected verify_email kind, got %s", got)
	}
}

func TestOtpHandler_EditCode_Digit(t *testing.T) {
	svc := &stubFlowService{
		enterDigitFn: func(_ context.Context, flowID string, slot int, digit rune) (ports.CodeEntryResult, error) {
			if flowID != "f1" || slot != 2 || digit != '7' {
				t.Fatalf("unexpected args: %s %d %c", flowID, slot, digit)
			}
			return ports.CodeEntryResult{Code: domain.Code{"", "", "7"}, Focus: 3}, nil
		},
	}
	c, rec := newFlowContext(`{"slot":2,"digit":"7"}`, "f1")

	if err := NewResetHandler(svc).EditCode(c); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	var out codeStateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Focus != 3 || out.Code[2] != "7" {
		t.Fatalf("unexpected response %+v", out)
	}
}

func TestOtpHandler_EditCode_EmptyDigitIsBackspace(t *testing.T) {
	erased := false
	svc := &stubFlowService{
		eraseDigitFn: func(_ context.Context, flowID string, slot int) (ports.CodeEntryResult, error) {
			erased = true
			if slot != 4 {
				t.Fatalf("unexpected slot %d", slot)
			}
			return ports.CodeEntryResult{Focus: 3}, nil
		},
	}
	c, _ := newFlowContext(`{"slot":4,"digit":""}`, "f1")

	if err := NewResetHandler(svc).EditCode(c); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if !erased {
		t.Fatalf("empty digit must erase the slot")
	}
}

func TestOtpHandler_EditCode_RejectsNonDigit(t *testing.T) {
	svc := &stubFlowService{
		enterDigitFn: func(context.Context, string, int, rune) (ports.CodeEntryResult, error) {
			t.Fatalf("invalid keystroke must not reach the service")
			return ports.CodeEntryResult{}, nil
		},
	}
	c, _ := newFlowContext(`{"slot":0,"digit":"x"}`, "f1")

	if err := NewResetHandler(svc).EditCode(c); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestOtpHandler_SubmitSecret(t *testing.T) {
	svc := &stubFlowService{
		submitSecretFn: func(_ context.Context, flowID, secret, confirm string) (string, error) {
			if flowID != "f1" || secret != "longenough1" || confirm != "longenough1" {
				t.Fatalf("unexpected args: %s %s %s", flowID, secret, confirm)
			}
			return "password updated", nil
		},
	}
	c, rec := newFlowContext(`{"password":"longenough1","password_confirm":"longenough1"}`, "f1")

	if err := NewResetHandler(svc).SubmitSecret(c); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	var out messageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Message != "password updated" || out.Redirect != "/login" {
		t.Fatalf("unexpected response %+v", out)
	}
}

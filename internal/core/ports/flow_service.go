package ports

import (
	"context"

	"github.com/workshophub/portal/internal/core/domain"
)

// CodeEntryResult reports the code state after a digit edit, including which
// slot the caller should focus next.
type CodeEntryResult struct {
	Code  domain.Code
	Focus int
}

// FlowService drives the multi-stage code-verification machine shared by the
// password-reset and email-verification flows.
type FlowService interface {
	// Begin validates the identifier, asks the backend to send a code, and
	// creates a flow at the verify-code stage.
	Begin(ctx context.Context, kind domain.FlowKind, identifier string) (*domain.Flow, error)

	// EnterDigit writes one digit into a code slot.
	EnterDigit(ctx context.Context, flowID string, slot int, digit rune) (CodeEntryResult, error)

	// EraseDigit handles Backspace on a code slot.
	EraseDigit(ctx context.Context, flowID string, slot int) (CodeEntryResult, error)

	// SubmitCode advances the flow once all six digits are entered. Reset
	// flows advance locally to the secret stage; email-verification flows
	// confirm the code with the backend and complete.
	SubmitCode(ctx context.Context, flowID string) (*domain.Flow, error)

	// Resend requests another code without changing the stage or the
	// entered digits.
	Resend(ctx context.Context, flowID string) error

	// SubmitSecret finalizes a password reset.
	SubmitSecret(ctx context.Context, flowID, secret, confirm string) (message string, err error)
}

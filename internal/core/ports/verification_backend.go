package ports

import "context"

// BackendUser is the identity the remote API reports for a valid token.
type BackendUser struct {
	ID    string
	Role  string
	Email string
}

// VerificationBackend is the remote marketplace API the portal consumes.
// Implementations map transport failures onto the domain error taxonomy:
// domain.ErrAuth, domain.ErrNotFound, domain.ErrValidation, domain.ErrNetwork.
type VerificationBackend interface {
	// Login exchanges credentials for a token.
	Login(ctx context.Context, email, password string) (token string, err error)

	// FetchCurrentUser resolves the identity behind a token.
	FetchCurrentUser(ctx context.Context, token string) (BackendUser, error)

	// RequestCode asks the backend to email a one-time code.
	RequestCode(ctx context.Context, email string) error

	// VerifyEmailCode confirms an email-verification code.
	VerifyEmailCode(ctx context.Context, email, code string) error

	// FinalizeReset sets a new password proven by the one-time code.
	FinalizeReset(ctx context.Context, code, secret string) (message string, err error)
}

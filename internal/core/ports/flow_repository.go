package ports

import (
	"context"

	"github.com/workshophub/portal/internal/core/domain"
)

// FlowRepository persists in-progress verification flows between requests.
// Abandoned flows expire server-side; a Find after expiry reports
// domain.ErrFlowNotFound, which is how a late action on a dead flow is
// discarded instead of mutating anything.
type FlowRepository interface {
	Create(ctx context.Context, flow *domain.Flow) error
	Find(ctx context.Context, id string) (*domain.Flow, error)
	Update(ctx context.Context, flow *domain.Flow) error
	Delete(ctx context.Context, id string) error
}

// FlowLimiter serializes and throttles flow actions.
type FlowLimiter interface {
	// AcquireSubmit takes the per-flow submit lock. It returns false while a
	// previous submit on the same flow is still in flight.
	AcquireSubmit(ctx context.Context, flowID string) (bool, error)

	// ReleaseSubmit releases the submit lock once the response has been
	// processed.
	ReleaseSubmit(ctx context.Context, flowID string) error

	// AllowResend reports whether another code may be requested for this
	// flow, and marks the attempt when it is allowed.
	AllowResend(ctx context.Context, flowID string) (bool, error)
}

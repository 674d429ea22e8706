package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	submitLockTTL  = 30 * time.Second
	resendInterval = 60 * time.Second
)

// FlowLimiter serializes submits and throttles resends with short-lived
// Redis keys.
// Key formats: flowlock:<flow_id>, resend:<flow_id>
type FlowLimiter struct {
	client *redis.Client
}

// NewFlowLimiter creates a FlowLimiter wrapping the given Redis client.
func NewFlowLimiter(client *redis.Client) *FlowLimiter {
	return &FlowLimiter{client: client}
}

// AcquireSubmit takes the per-flow submit lock. The TTL bounds how long a
// crashed request can keep a flow locked.
func (l *FlowLimiter) AcquireSubmit(ctx context.Context, flowID string) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.lockKey(flowID), "1", submitLockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("submit lock: %w", err)
	}
	return ok, nil
}

// ReleaseSubmit drops the submit lock.
func (l *FlowLimiter) ReleaseSubmit(ctx context.Context, flowID string) error {
	if err := l.client.Del(ctx, l.lockKey(flowID)).Err(); err != nil {
		return fmt.Errorf("submit unlock: %w", err)
	}
	return nil
}

// AllowResend reports whether another code may be requested for this flow.
// The first call within the interval wins and marks the attempt; later
// calls are throttled until the key expires.
func (l *FlowLimiter) AllowResend(ctx context.Context, flowID string) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.resendKey(flowID), "1", resendInterval).Result()
	if err != nil {
		return false, fmt.Errorf("resend throttle: %w", err)
	}
	return ok, nil
}

func (l *FlowLimiter) lockKey(flowID string) string {
	return "flowlock:" + flowID
}

func (l *FlowLimiter) resendKey(flowID string) string {
	return "resend:" + flowID
}

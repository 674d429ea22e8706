package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/workshophub/portal/internal/core/domain"
)

const defaultSessionTTL = 30 * 24 * time.Hour

const (
	fieldToken = "token"
	fieldRole  = "userRole"
	fieldUser  = "userId"
)

// SessionStore persists visitor sessions as one Redis hash per session id.
// Key format: session:<sid>
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

// Get reads the stored session. A missing hash resolves to a guest session.
func (s *SessionStore) Get(ctx context.Context, sid string) (domain.Session, error) {
	vals, err := s.client.HGetAll(ctx, s.key(sid)).Result()
	if err != nil {
		return domain.Session{}, fmt.Errorf("session read: %w", err)
	}
	if len(vals) == 0 {
		return domain.Session{}, nil
	}
	return domain.Session{
		Token:  vals[fieldToken],
		Role:   domain.Role(vals[fieldRole]),
		UserID: vals[fieldUser],
	}, nil
}

// Set writes all three fields with a single HSET so a concurrent Get never
// observes a partially updated session.
func (s *SessionStore) Set(ctx context.Context, sid string, session domain.Session) error {
	key := s.key(sid)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key,
		fieldToken, session.Token,
		fieldRole, string(session.Role),
		fieldUser, session.UserID,
	)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session write: %w", err)
	}
	return nil
}

// Clear removes the whole session hash.
func (s *SessionStore) Clear(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, s.key(sid)).Err(); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}

func (s *SessionStore) key(sid string) string {
	return "session:" + sid
}

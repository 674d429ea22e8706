package ports

import (
	"context"
	"time"
)

// AuthEvent is one entry in the portal's authentication audit trail.
type AuthEvent struct {
	// SubjectID is the session or flow id the event belongs to. Events for
	// the same subject are recorded in order.
	SubjectID string
	Action    string
	Outcome   string
	Detail    string
	Timestamp time.Time
}

// AuditRecorder ingests auth events, typically asynchronously. Recording is
// best effort and never blocks or fails the action being audited.
type AuditRecorder interface {
	Record(event AuthEvent)
}

// AuditRepository persists auth events.
type AuditRepository interface {
	Insert(ctx context.Context, event *AuthEvent) error
}

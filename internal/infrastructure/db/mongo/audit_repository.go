package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/workshophub/portal/internal/core/ports"
)

const auditCollection = "auth_events"

// MongoAuditRepository appends auth events to the audit trail.
type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuthEvent struct {
	SubjectID string    `bson:"subject_id"`
	Action    string    `bson:"action"`
	Outcome   string    `bson:"outcome"`
	Detail    string    `bson:"detail,omitempty"`
	Timestamp time.Time `bson:"timestamp"`
}

func (r *MongoAuditRepository) Insert(ctx context.Context, event *ports.AuthEvent) error {
	doc := mongoAuthEvent{
		SubjectID: event.SubjectID,
		Action:    event.Action,
		Outcome:   event.Outcome,
		Detail:    event.Detail,
		Timestamp: event.Timestamp,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}

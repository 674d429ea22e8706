package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/workshophub/portal/internal/core/domain"
)

const flowCollection = "verification_flows"

// MongoFlowRepository persists verification flows. Abandoned flows are
// reaped by a TTL index on updated_at.
type MongoFlowRepository struct {
	coll *mongo.Collection
}

func NewFlowRepository(db *mongo.Database) *MongoFlowRepository {
	return &MongoFlowRepository{coll: db.Collection(flowCollection)}
}

type mongoFlow struct {
	ID         string    `bson:"_id"`
	Kind       string    `bson:"kind"`
	Stage      string    `bson:"stage"`
	Identifier string    `bson:"identifier"`
	Code       []string  `bson:"code"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

// EnsureIndexes creates the TTL index that expires abandoned flows.
func (r *MongoFlowRepository) EnsureIndexes(ctx context.Context, expiry time.Duration) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(expiry.Seconds())),
	})
	if err != nil {
		return fmt.Errorf("create flow ttl index: %w", err)
	}
	return nil
}

func (r *MongoFlowRepository) Create(ctx context.Context, flow *domain.Flow) error {
	if _, err := r.coll.InsertOne(ctx, toMongoFlow(flow)); err != nil {
		return fmt.Errorf("insert flow: %w", err)
	}
	return nil
}

func (r *MongoFlowRepository) Find(ctx context.Context, id string) (*domain.Flow, error) {
	var mf mongoFlow
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mf); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrFlowNotFound
		}
		return nil, fmt.Errorf("find flow: %w", err)
	}
	return fromMongoFlow(&mf), nil
}

func (r *MongoFlowRepository) Update(ctx context.Context, flow *domain.Flow) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": flow.ID}, toMongoFlow(flow))
	if err != nil {
		return fmt.Errorf("update flow: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrFlowNotFound
	}
	return nil
}

func (r *MongoFlowRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete flow: %w", err)
	}
	return nil
}

func toMongoFlow(flow *domain.Flow) *mongoFlow {
	code := make([]string, domain.CodeSlots)
	copy(code, flow.Code[:])
	return &mongoFlow{
		ID:         flow.ID,
		Kind:       string(flow.Kind),
		Stage:      string(flow.Stage),
		Identifier: flow.Identifier,
		Code:       code,
		CreatedAt:  flow.CreatedAt,
		UpdatedAt:  flow.UpdatedAt,
	}
}

func fromMongoFlow(mf *mongoFlow) *domain.Flow {
	flow := &domain.Flow{
		ID:         mf.ID,
		Kind:       domain.FlowKind(mf.Kind),
		Stage:      domain.Stage(mf.Stage),
		Identifier: mf.Identifier,
		CreatedAt:  mf.CreatedAt.UTC(),
		UpdatedAt:  mf.UpdatedAt.UTC(),
	}
	for i := 0; i < len(mf.Code) && i < domain.CodeSlots; i++ {
		flow.Code[i] = mf.Code[i]
	}
	return flow
}

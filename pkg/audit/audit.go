// Package audit writes a best-effort trail of business events to MongoDB.
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Entry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Service   string             `bson:"service"`
	Action    string             `bson:"action"`
	EntityID  string             `bson:"entity_id"`
	Data      bson.M             `bson:"data"`
	CreatedAt time.Time          `bson:"created_at"`
}

// Trail records entries. Writes are best-effort: callers run them off the
// request path and only log failures.
type Trail struct {
	coll *mongo.Collection
}

func NewTrail(coll *mongo.Collection) *Trail {
	return &Trail{coll: coll}
}

func (t *Trail) Record(ctx context.Context, entry *Entry) error {
	entry.CreatedAt = time.Now().UTC()
	_, err := t.coll.InsertOne(ctx, entry)
	return err
}

func (t *Trail) ByEntity(ctx context.Context, entityID string, limit int64) ([]*Entry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cursor, err := t.coll.Find(ctx, bson.M{"entity_id": entityID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*Entry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

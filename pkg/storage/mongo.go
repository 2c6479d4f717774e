package storage

import (
	"context"
	"time"

	"github.com/example/salesmate/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo is an explicitly constructed MongoDB handle. It is created once at
// process start and injected into the components that need a collection,
// instead of living as a package-level global.
type Mongo struct {
	client   *mongo.Client
	database *mongo.Database
	config   *config.MongoDBConfig
}

func NewMongo(cfg *config.MongoDBConfig) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	return &Mongo{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
	}, nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Collection returns a handle within the configured database.
func (m *Mongo) Collection(name string) *mongo.Collection {
	return m.database.Collection(name)
}

// InventoryCollection is where catalog products live.
func (m *Mongo) InventoryCollection() *mongo.Collection {
	return m.database.Collection(m.config.InventoryCollection)
}

// AuditCollection holds the best-effort audit trail.
func (m *Mongo) AuditCollection() *mongo.Collection {
	return m.database.Collection(m.config.AuditCollection)
}

package catalog

import (
	"context"
	"fmt"
	"regexp"

	"github.com/example/salesmate/pkg/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore reads products from a MongoDB collection. Prices are stored as
// Decimal128 so range filters compare numerically without float drift.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// productDoc is the persisted shape; the price is converted to a decimal at
// the boundary so callers never see Decimal128.
type productDoc struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Name        string               `bson:"name"`
	Category    string               `bson:"category"`
	Subcategory string               `bson:"subcategory"`
	Price       primitive.Decimal128 `bson:"price"`
	Stock       int                  `bson:"stock"`
	Description string               `bson:"description"`
	Sizes       []string             `bson:"sizes,omitempty"`
	ImageURL    string               `bson:"image_url,omitempty"`
}

func (s *MongoStore) Find(ctx context.Context, f Filter, limit int64) ([]models.Product, error) {
	query := bson.M{}

	if f.Query != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Query), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
			bson.M{"subcategory": re},
		}
	}
	if f.Category != "" {
		query["category"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Category), Options: "i"}
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			d, err := primitive.ParseDecimal128(f.MinPrice.String())
			if err != nil {
				return nil, fmt.Errorf("invalid min price: %w", err)
			}
			price["$gte"] = d
		}
		if f.MaxPrice != nil {
			d, err := primitive.ParseDecimal128(f.MaxPrice.String())
			if err != nil {
				return nil, fmt.Errorf("invalid max price: %w", err)
			}
			price["$lte"] = d
		}
		query["price"] = price
	}

	if limit <= 0 {
		limit = DefaultLimit
	}

	cursor, err := s.coll.Find(ctx, query, options.Find().SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("catalog query: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("catalog decode: %w", err)
	}

	products := make([]models.Product, 0, len(docs))
	for _, doc := range docs {
		price, err := decimal.NewFromString(doc.Price.String())
		if err != nil {
			return nil, fmt.Errorf("catalog price for %q: %w", doc.Name, err)
		}
		products = append(products, models.Product{
			ID:          doc.ID.Hex(),
			Name:        doc.Name,
			Category:    doc.Category,
			Subcategory: doc.Subcategory,
			Price:       price,
			Stock:       doc.Stock,
			Description: doc.Description,
			Sizes:       doc.Sizes,
			ImageURL:    doc.ImageURL,
		})
	}
	return products, nil
}

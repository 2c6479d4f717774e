package main

import (
	"context"
	"fmt"
	"time"

	"github.com/example/salesmate/pkg/config"
	"github.com/example/salesmate/pkg/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type seedItem struct {
	Name        string
	Category    string
	Subcategory string
	Price       string
	Stock       int
	Description string
	Sizes       []string
}

var items = []seedItem{
	{"Classic White T-Shirt", "Men", "T-Shirts", "25.00", 100,
		"Premium cotton classic fit white t-shirt.", []string{"S", "M", "L", "XL"}},
	{"Slim Fit Denim Jeans", "Men", "Jeans", "65.00", 50,
		"Dark wash slim fit denim jeans.", []string{"30", "32", "34", "36"}},
	{"Leather Jacket", "Men", "Jackets", "150.00", 20,
		"Genuine leather biker jacket.", []string{"M", "L", "XL"}},
	{"Floral Summer Dress", "Women", "Dresses", "45.00", 80,
		"Lightweight floral print summer dress.", []string{"XS", "S", "M", "L"}},
	{"High-Waist Trousers", "Women", "Pants", "55.00", 60,
		"Elegant high-waist trousers for work or casual wear.", []string{"S", "M", "L"}},
	{"Unisex Canvas Sneaker", "Accessories", "Shoes", "75.00", 40,
		"Comfortable everyday canvas sneaker.", []string{"7", "8", "9", "10", "11"}},
	{"Leather Belt", "Accessories", "Belts", "30.00", 70,
		"Full-grain leather belt with brushed buckle.", []string{"S", "M", "L"}},
}

func main() {
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	mongo, err := storage.NewMongo(&cfg.MongoDB)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	defer mongo.Close(ctx)

	coll := mongo.InventoryCollection()

	// Reseed from scratch so repeated runs stay deterministic.
	if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
		logger.Fatal("Failed to clear inventory", zap.Error(err))
	}

	docs := make([]interface{}, 0, len(items))
	for _, item := range items {
		price, err := primitive.ParseDecimal128(item.Price)
		if err != nil {
			logger.Fatal("Invalid seed price",
				zap.String("name", item.Name),
				zap.String("price", item.Price),
				zap.Error(err))
		}
		docs = append(docs, bson.M{
			"name":        item.Name,
			"category":    item.Category,
			"subcategory": item.Subcategory,
			"price":       price,
			"stock":       item.Stock,
			"description": item.Description,
			"sizes":       item.Sizes,
			"created_at":  time.Now().UTC(),
		})
	}

	if _, err := coll.InsertMany(ctx, docs); err != nil {
		logger.Fatal("Failed to seed inventory", zap.Error(err))
	}

	logger.Info("Inventory seeded", zap.Int("count", len(docs)))
}

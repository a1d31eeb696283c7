package mongo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bagbanter-api/src/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	OrdersCollection   = "orders"
	ProductsCollection = "products"
)

var (
	clientInstance *mongo.Client
	clientErr      error
	clientOnce     sync.Once
)

func GetMongoClient(cfg *config.Config) (*mongo.Client, error) {
	clientOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		clientInstance, clientErr = mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDBConnectionString))
	})
	return clientInstance, clientErr
}

// EnsureIndexes creates the lookup indexes the repositories rely on.
// Both collections are keyed by the application "id" field, not _id.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	if _, err := db.Collection(OrdersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("create order indexes: %w", err)
	}

	if _, err := db.Collection(ProductsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("create product indexes: %w", err)
	}
	return nil
}

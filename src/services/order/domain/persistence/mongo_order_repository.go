package persistence

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OrderRepository struct {
	collection *mongo.Collection
}

// OrderDocument is the storage model for MongoDB
type OrderDocument struct {
	ID            string           `bson:"id"`
	Customer      CustomerDocument `bson:"customer"`
	Items         []ItemDocument   `bson:"items"`
	Total         float64          `bson:"total"`
	Status        string           `bson:"status"`
	StockAdjusted []int            `bson:"stockAdjusted"`
	StockFailed   []int            `bson:"stockFailed,omitempty"`
	CreatedAt     time.Time        `bson:"createdAt"`
	DeliveredAt   *time.Time       `bson:"deliveredAt,omitempty"`
}

type CustomerDocument struct {
	Name         string     `bson:"name"`
	Phone        string     `bson:"phone"`
	Location     string     `bson:"location,omitempty"`
	DeliveryDate *time.Time `bson:"deliveryDate,omitempty"`
}

type ItemDocument struct {
	ProductID string  `bson:"productId"`
	Name      string  `bson:"name"`
	Color     string  `bson:"color,omitempty"`
	Price     float64 `bson:"price"`
	Quantity  int     `bson:"quantity"`
	Image     string  `bson:"image,omitempty"`
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		collection: db.Collection("orders"),
	}
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order *OrderDocument) error {
	doc := *order
	if doc.StockAdjusted == nil {
		// $addToSet on this field fails if it is stored as null
		doc.StockAdjusted = []int{}
	}
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

func (r *OrderRepository) GetOrderByID(ctx context.Context, id string) (*OrderDocument, error) {
	var doc OrderDocument
	err := r.collection.FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

// ListOrders returns every order, newest first.
func (r *OrderRepository) ListOrders(ctx context.Context) ([]OrderDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{}, opts)
}

// ListDeliveredOrders returns delivered orders created at or after since.
func (r *OrderRepository) ListDeliveredOrders(ctx context.Context, since time.Time) ([]OrderDocument, error) {
	filter := bson.M{"status": "delivered"}
	if !since.IsZero() {
		filter["createdAt"] = bson.M{"$gte": since}
	}
	return r.find(ctx, filter)
}

// CompareAndSetStatus moves the order from one status to another only if
// it is still in the from status. The boolean reports whether the write
// took effect.
func (r *OrderRepository) CompareAndSetStatus(ctx context.Context, id, from, to string, at time.Time) (bool, error) {
	set := bson.M{"status": to}
	if to == "delivered" {
		set["deliveredAt"] = at
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"id": id, "status": from}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// ClaimItem records that the stock adjustment for item index has been
// taken. Exactly one caller gets true per order item.
func (r *OrderRepository) ClaimItem(ctx context.Context, id string, index int) (bool, error) {
	filter := bson.M{"id": id, "stockAdjusted": bson.M{"$ne": index}}
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$addToSet": bson.M{"stockAdjusted": index}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// ReleaseItem gives back a claim whose stock adjustment did not happen.
func (r *OrderRepository) ReleaseItem(ctx context.Context, id string, index int) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$pull": bson.M{"stockAdjusted": index}})
	return err
}

// MarkItemFailed flags a claimed item whose sale was not recorded and whose
// claim could not be given back.
func (r *OrderRepository) MarkItemFailed(ctx context.Context, id string, index int) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$addToSet": bson.M{"stockFailed": index}})
	return err
}

// ResolveFailedItem clears the failed flag of item index. Exactly one caller
// gets true per flag, and that caller owns the retry.
func (r *OrderRepository) ResolveFailedItem(ctx context.Context, id string, index int) (bool, error) {
	res, err := r.collection.UpdateOne(ctx, bson.M{"id": id, "stockFailed": index}, bson.M{"$pull": bson.M{"stockFailed": index}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (r *OrderRepository) DeleteOrder(ctx context.Context, id string) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *OrderRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]OrderDocument, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []OrderDocument{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event status values for the order_events collection
const (
	EventStatusFailed    = "failed"
	EventStatusCompleted = "completed"
	EventStatusReplaying = "replaying"
)

// OrderEvent is an event that could not be published and waits for replay.
type OrderEvent struct {
	ID         string     `bson:"_id,omitempty"`
	OrderID    string     `bson:"orderId"`
	Topic      string     `bson:"topic"`
	EventData  []byte     `bson:"eventData"`
	CreatedAt  time.Time  `bson:"createdAt"`
	Replayed   bool       `bson:"replayed"`
	ReplayedAt *time.Time `bson:"replayedAt,omitempty"`
	Status     string     `bson:"status"`
}

func (r *OrderRepository) StoreEventForReplay(ctx context.Context, orderID, topic string, eventData []byte) error {
	if !json.Valid(eventData) {
		return errors.New("invalid JSON event data")
	}

	eventDoc := OrderEvent{
		ID:        primitive.NewObjectID().Hex(),
		OrderID:   orderID,
		Topic:     topic,
		EventData: eventData,
		CreatedAt: time.Now(),
		Status:    EventStatusFailed,
	}

	_, err := r.events().InsertOne(ctx, eventDoc)
	return err
}

// GetUnreplayedEvents fetches events that have not been replayed yet,
// oldest first.
func (r *OrderRepository) GetUnreplayedEvents(ctx context.Context, limit int64) ([]OrderEvent, error) {
	filter := bson.M{
		"replayed": bson.M{"$ne": true},
		"status":   EventStatusFailed,
	}
	opts := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.events().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []OrderEvent{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// MarkEventAsReplaying claims a failed event for replay. It reports false
// when another replay already took it.
func (r *OrderRepository) MarkEventAsReplaying(ctx context.Context, eventID string) (bool, error) {
	res, err := r.events().UpdateOne(ctx,
		bson.M{"_id": eventID, "status": EventStatusFailed},
		bson.M{"$set": bson.M{"status": EventStatusReplaying}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (r *OrderRepository) MarkEventAsCompleted(ctx context.Context, eventID string) error {
	now := time.Now()
	_, err := r.events().UpdateOne(ctx, bson.M{"_id": eventID}, bson.M{"$set": bson.M{
		"status":     EventStatusCompleted,
		"replayed":   true,
		"replayedAt": now,
	}})
	return err
}

func (r *OrderRepository) MarkEventAsFailed(ctx context.Context, eventID string) error {
	_, err := r.events().UpdateOne(ctx, bson.M{"_id": eventID}, bson.M{"$set": bson.M{
		"status": EventStatusFailed,
	}})
	return err
}

func (r *OrderRepository) events() *mongo.Collection {
	return r.collection.Database().Collection("order_events")
}

package events

import (
	"errors"
	"time"
)

const (
	// Event types, also used as routing keys and queue names
	OrderCreated       = "order.created"
	OrderStatusUpdated = "order.status.updated"
	OrderDeleted       = "order.deleted"

	EventVersion = 1
)

// Topics lists every routing key the broker declares queues for.
var Topics = []string{OrderCreated, OrderStatusUpdated, OrderDeleted}

type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type OrderCreatedEvent struct {
	OrderID   string    `json:"orderId"`
	Customer  Customer  `json:"customer"`
	Total     float64   `json:"total"`
	ItemCount int       `json:"itemCount"`
	Version   int       `json:"version"`
	TimeStamp time.Time `json:"timestamp"`
}

func (e *OrderCreatedEvent) Validate() error {
	if e.OrderID == "" || e.Customer.Phone == "" || e.ItemCount <= 0 {
		return errors.New("missing required fields in OrderCreatedEvent")
	}
	return nil
}

type OrderStatusUpdatedEvent struct {
	OrderID        string    `json:"orderId"`
	Customer       Customer  `json:"customer"`
	PreviousStatus string    `json:"previousStatus"`
	Status         string    `json:"status"`
	StockAdjusted  bool      `json:"stockAdjusted"`
	Version        int       `json:"version"`
	TimeStamp      time.Time `json:"timestamp"`
}

func (e *OrderStatusUpdatedEvent) Validate() error {
	if e.OrderID == "" || e.Status == "" || e.PreviousStatus == "" {
		return errors.New("missing required fields in OrderStatusUpdatedEvent")
	}
	return nil
}

type OrderDeletedEvent struct {
	OrderID   string    `json:"orderId"`
	Status    string    `json:"status"`
	Version   int       `json:"version"`
	TimeStamp time.Time `json:"timestamp"`
}

func (e *OrderDeletedEvent) Validate() error {
	if e.OrderID == "" {
		return errors.New("missing required fields in OrderDeletedEvent")
	}
	return nil
}

// Publisher sends an encoded event under a routing key.
type Publisher interface {
	Publish(topic string, body []byte) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(string, []byte) error { return nil }

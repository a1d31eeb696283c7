package domain

import (
	"fmt"
	"strings"
	"time"

	"bagbanter-api/src/apperrors"
	"bagbanter-api/src/services/order/domain/persistence"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// validNext lists the moves out of each status. Delivered and cancelled
// are terminal.
var validNext = map[Status]map[Status]bool{
	StatusPending:    {StatusInProgress: true, StatusDelivered: true, StatusCancelled: true},
	StatusInProgress: {StatusPending: true, StatusDelivered: true, StatusCancelled: true},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// ParseStatus accepts exactly the four known status values.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if _, ok := validNext[status]; !ok {
		return "", fmt.Errorf("%w: %q is not one of pending, in-progress, delivered, cancelled", apperrors.ErrInvalidStatus, s)
	}
	return status, nil
}

// CanTransition reports whether an order may move from one status to
// another. Staying in place is always allowed.
func CanTransition(from, to Status) bool {
	return from == to || validNext[from][to]
}

type Customer struct {
	Name         string     `json:"name"`
	Phone        string     `json:"phone"`
	Location     string     `json:"location,omitempty"`
	DeliveryDate *time.Time `json:"deliveryDate,omitempty"`
}

type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Color     string  `json:"color,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
}

type Order struct {
	ID                  string     `json:"id"`
	Customer            Customer   `json:"customer"`
	Items               []Item     `json:"items"`
	Total               float64    `json:"total"`
	Status              Status     `json:"status"`
	CreatedAt           time.Time  `json:"createdAt"`
	DeliveredAt         *time.Time `json:"deliveredAt,omitempty"`
	StockAdjusted       []int      `json:"stockAdjusted"`
	StockFailed         []int      `json:"stockFailed,omitempty"`
	FulfillmentComplete bool       `json:"fulfillmentComplete"`
}

// NewOrder is the checkout payload.
type NewOrder struct {
	Customer Customer
	Items    []Item
	Total    float64
	// Date overrides the creation time when the client supplies one.
	Date *time.Time
}

func (o *NewOrder) Validate() error {
	if strings.TrimSpace(o.Customer.Name) == "" {
		return apperrors.Validation("customer name is required")
	}
	if strings.TrimSpace(o.Customer.Phone) == "" {
		return apperrors.Validation("customer phone is required")
	}
	if len(o.Items) == 0 {
		return apperrors.Validation("order must contain at least one item")
	}
	for i, item := range o.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return apperrors.Validation("item %d: product id is required", i)
		}
		if item.Quantity <= 0 {
			return apperrors.Validation("item %d: quantity must be greater than 0", i)
		}
		if item.Price < 0 {
			return apperrors.Validation("item %d: price cannot be negative", i)
		}
	}
	if o.Total < 0 {
		return apperrors.Validation("order total cannot be negative")
	}
	return nil
}

func toDocument(o *Order) *persistence.OrderDocument {
	doc := &persistence.OrderDocument{
		ID: o.ID,
		Customer: persistence.CustomerDocument{
			Name:         o.Customer.Name,
			Phone:        o.Customer.Phone,
			Location:     o.Customer.Location,
			DeliveryDate: o.Customer.DeliveryDate,
		},
		Items:         make([]persistence.ItemDocument, 0, len(o.Items)),
		Total:         o.Total,
		Status:        string(o.Status),
		StockAdjusted: append([]int{}, o.StockAdjusted...),
		StockFailed:   append([]int(nil), o.StockFailed...),
		CreatedAt:     o.CreatedAt,
		DeliveredAt:   o.DeliveredAt,
	}
	for _, item := range o.Items {
		doc.Items = append(doc.Items, persistence.ItemDocument(item))
	}
	return doc
}

func fromDocument(doc *persistence.OrderDocument) *Order {
	o := &Order{
		ID: doc.ID,
		Customer: Customer{
			Name:         doc.Customer.Name,
			Phone:        doc.Customer.Phone,
			Location:     doc.Customer.Location,
			DeliveryDate: doc.Customer.DeliveryDate,
		},
		Items:         make([]Item, 0, len(doc.Items)),
		Total:         doc.Total,
		Status:        Status(doc.Status),
		CreatedAt:     doc.CreatedAt,
		DeliveredAt:   doc.DeliveredAt,
		StockAdjusted: append([]int{}, doc.StockAdjusted...),
		StockFailed:   append([]int(nil), doc.StockFailed...),
	}
	for _, item := range doc.Items {
		o.Items = append(o.Items, Item(item))
	}
	o.FulfillmentComplete = o.Status == StatusDelivered && len(o.StockAdjusted) >= len(o.Items) && len(o.StockFailed) == 0
	return o
}

package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bagbanter-api/src/apperrors"
	"bagbanter-api/src/infrastructure/log"
	"bagbanter-api/src/services/events"
	"bagbanter-api/src/services/order/domain/persistence"

	"github.com/google/uuid"
)

const (
	// maxTransitionAttempts bounds how often a status change re-reads the
	// order after losing a compare-and-set race.
	maxTransitionAttempts = 5
	replayBatchSize       = 100
)

type OrderService interface {
	CreateOrder(ctx context.Context, order NewOrder) (*Order, error)
	GetOrder(ctx context.Context, orderID string) (*Order, error)
	ListOrders(ctx context.Context) ([]Order, error)
	TransitionStatus(ctx context.Context, orderID, status string) (*Order, error)
	ReconcileFulfillment(ctx context.Context, orderID string) (*Order, error)
	DeleteOrder(ctx context.Context, orderID string) error
	ReplayFailedEvents(ctx context.Context) (ReplayReport, error)
}

// OrderStore is the order persistence the service needs.
// *persistence.OrderRepository satisfies it.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *persistence.OrderDocument) error
	GetOrderByID(ctx context.Context, id string) (*persistence.OrderDocument, error)
	ListOrders(ctx context.Context) ([]persistence.OrderDocument, error)
	CompareAndSetStatus(ctx context.Context, id, from, to string, at time.Time) (bool, error)
	ClaimItem(ctx context.Context, id string, index int) (bool, error)
	ReleaseItem(ctx context.Context, id string, index int) error
	MarkItemFailed(ctx context.Context, id string, index int) error
	ResolveFailedItem(ctx context.Context, id string, index int) (bool, error)
	DeleteOrder(ctx context.Context, id string) (bool, error)

	StoreEventForReplay(ctx context.Context, orderID, topic string, eventData []byte) error
	GetUnreplayedEvents(ctx context.Context, limit int64) ([]persistence.OrderEvent, error)
	MarkEventAsReplaying(ctx context.Context, eventID string) (bool, error)
	MarkEventAsCompleted(ctx context.Context, eventID string) error
	MarkEventAsFailed(ctx context.Context, eventID string) error
}

// Inventory adjusts product stock for a fulfilled order item.
type Inventory interface {
	RecordSale(ctx context.Context, productID, color string, quantity int) (bool, error)
}

type ReplayReport struct {
	Replayed int `json:"replayed"`
	Failed   int `json:"failed"`
}

type orderService struct {
	logger     log.Logger
	orderStore OrderStore
	inventory  Inventory
	publisher  events.Publisher
	now        func() time.Time
}

func NewOrderService(
	logger log.Logger,
	orderStore OrderStore,
	inventory Inventory,
	publisher events.Publisher,
) OrderService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &orderService{
		logger:     logger,
		orderStore: orderStore,
		inventory:  inventory,
		publisher:  publisher,
		now:        time.Now,
	}
}

// CreateOrder stores a checkout as a pending order. The total is taken
// as given.
func (s *orderService) CreateOrder(ctx context.Context, input NewOrder) (*Order, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	createdAt := s.now()
	if input.Date != nil && !input.Date.IsZero() {
		createdAt = *input.Date
	}

	order := &Order{
		ID:            uuid.NewString(),
		Customer:      input.Customer,
		Items:         input.Items,
		Total:         input.Total,
		Status:        StatusPending,
		CreatedAt:     createdAt,
		StockAdjusted: []int{},
	}

	if err := s.orderStore.CreateOrder(ctx, toDocument(order)); err != nil {
		s.logger.Exception(ctx, "Failed to create order", err)
		return nil, apperrors.Unavailable("create order", err)
	}
	s.logger.InfoWithExtra(ctx, "Order created", map[string]any{"OrderId": order.ID, "Items": len(order.Items)})

	s.publish(ctx, events.OrderCreated, order.ID, &events.OrderCreatedEvent{
		OrderID:   order.ID,
		Customer:  events.Customer{Name: order.Customer.Name, Phone: order.Customer.Phone},
		Total:     order.Total,
		ItemCount: len(order.Items),
		Version:   events.EventVersion,
		TimeStamp: s.now(),
	})
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	doc, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return fromDocument(doc), nil
}

func (s *orderService) ListOrders(ctx context.Context) ([]Order, error) {
	docs, err := s.orderStore.ListOrders(ctx)
	if err != nil {
		return nil, apperrors.Unavailable("list orders", err)
	}
	orders := make([]Order, 0, len(docs))
	for i := range docs {
		orders = append(orders, *fromDocument(&docs[i]))
	}
	return orders, nil
}

// TransitionStatus moves an order to the requested status. Entering
// delivered adjusts inventory for each item; the status write is a
// compare-and-set, so of several concurrent requests only the one that
// actually moved the order out of its previous status runs the adjustment.
// Requesting the status the order already has changes nothing. The
// returned order is read back after the adjustment.
func (s *orderService) TransitionStatus(ctx context.Context, orderID, requested string) (*Order, error) {
	for attempt := 1; attempt <= maxTransitionAttempts; attempt++ {
		doc, err := s.findOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}

		target, err := ParseStatus(requested)
		if err != nil {
			return nil, err
		}

		current := Status(doc.Status)
		if current == target {
			return fromDocument(doc), nil
		}
		if !CanTransition(current, target) {
			return nil, fmt.Errorf("%w: cannot move order from %s to %s", apperrors.ErrInvalidTransition, current, target)
		}

		at := s.now()
		swapped, err := s.orderStore.CompareAndSetStatus(ctx, orderID, string(current), string(target), at)
		if err != nil {
			s.logger.Exception(ctx, "Failed to update order status for order: "+orderID, err)
			return nil, apperrors.Unavailable("update order status", err)
		}
		if !swapped {
			s.logger.Warn(ctx, fmt.Sprintf("Order %s changed while moving to %s, attempt %d/%d",
				orderID, target, attempt, maxTransitionAttempts))
			continue
		}

		doc.Status = string(target)
		if target == StatusDelivered {
			doc.DeliveredAt = &at
			s.adjustStock(ctx, doc)
		}

		s.logger.InfoWithExtra(ctx, "Order status updated", map[string]any{
			"OrderId": orderID, "From": string(current), "To": string(target),
		})

		s.publish(ctx, events.OrderStatusUpdated, orderID, &events.OrderStatusUpdatedEvent{
			OrderID:        orderID,
			Customer:       events.Customer{Name: doc.Customer.Name, Phone: doc.Customer.Phone},
			PreviousStatus: string(current),
			Status:         string(target),
			StockAdjusted:  target == StatusDelivered,
			Version:        events.EventVersion,
			TimeStamp:      at,
		})
		return s.reload(ctx, doc), nil
	}

	return nil, fmt.Errorf("%w: order %s kept changing, try again", apperrors.ErrConflict, orderID)
}

// ReconcileFulfillment finishes the stock adjustment of a delivered order
// whose earlier adjustment was cut short by a storage failure. Items that
// were already adjusted are not touched again; items flagged as failed are
// retried once each.
func (s *orderService) ReconcileFulfillment(ctx context.Context, orderID string) (*Order, error) {
	doc, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if Status(doc.Status) != StatusDelivered {
		return nil, fmt.Errorf("%w: only delivered orders can be reconciled, order is %s", apperrors.ErrInvalidTransition, doc.Status)
	}

	s.adjustStock(ctx, doc)
	return s.reload(ctx, doc), nil
}

// reload returns the order as stored, or doc when it cannot be read back.
func (s *orderService) reload(ctx context.Context, doc *persistence.OrderDocument) *Order {
	fresh, err := s.orderStore.GetOrderByID(ctx, doc.ID)
	if err != nil {
		s.logger.Exception(ctx, "Failed to reload order: "+doc.ID, err)
	}
	if err != nil || fresh == nil {
		return fromDocument(doc)
	}
	return fromDocument(fresh)
}

// adjustStock records the sale of every item not yet claimed, after
// retrying items flagged as failed. Each item is claimed on the order before
// the product is touched, which makes the adjustment at-most-once per item.
// Unknown products are skipped; a failed product write gives the claim back
// so a later reconcile can retry it.
func (s *orderService) adjustStock(ctx context.Context, doc *persistence.OrderDocument) {
	for _, i := range append([]int(nil), doc.StockFailed...) {
		s.retryFailedItem(ctx, doc, i)
	}

	done := make(map[int]bool, len(doc.StockAdjusted))
	for _, i := range doc.StockAdjusted {
		done[i] = true
	}

	for i := range doc.Items {
		if done[i] {
			continue
		}

		claimed, err := s.orderStore.ClaimItem(ctx, doc.ID, i)
		if err != nil {
			s.logger.Exception(ctx, fmt.Sprintf("Failed to claim item %d of order %s", i, doc.ID), err)
			continue
		}
		doc.StockAdjusted = append(doc.StockAdjusted, i)
		if !claimed {
			// someone else holds it
			continue
		}
		s.recordSale(ctx, doc, i, false)
	}

	if len(doc.StockAdjusted) < len(doc.Items) || len(doc.StockFailed) > 0 {
		s.logger.WarnWithExtra(ctx, "Order fulfillment incomplete", map[string]any{
			"OrderId": doc.ID, "Adjusted": len(doc.StockAdjusted), "Failed": len(doc.StockFailed), "Items": len(doc.Items),
		})
	}
}

// retryFailedItem takes over a failed flag and records the sale it stands for.
func (s *orderService) retryFailedItem(ctx context.Context, doc *persistence.OrderDocument, i int) {
	doc.StockFailed = without(doc.StockFailed, i)
	if i < 0 || i >= len(doc.Items) {
		return
	}

	owned, err := s.orderStore.ResolveFailedItem(ctx, doc.ID, i)
	if err != nil {
		s.logger.Exception(ctx, fmt.Sprintf("Failed to resolve item %d of order %s", i, doc.ID), err)
		doc.StockFailed = append(doc.StockFailed, i)
		return
	}
	if owned {
		s.recordSale(ctx, doc, i, true)
	}
}

// recordSale applies the sale of claimed item i. When the product write
// fails the claim is given back; if even that fails, or the item was
// already flagged, the item is flagged failed so the gap stays visible.
func (s *orderService) recordSale(ctx context.Context, doc *persistence.OrderDocument, i int, flagged bool) {
	item := doc.Items[i]
	found, err := s.inventory.RecordSale(ctx, item.ProductID, item.Color, item.Quantity)
	if err == nil {
		if !found {
			s.logger.WarnWithExtra(ctx, "Product not found, skipping stock adjustment", map[string]any{
				"OrderId": doc.ID, "ProductId": item.ProductID, "Color": item.Color,
			})
		}
		return
	}

	s.logger.Exception(ctx, fmt.Sprintf("Failed to adjust stock for product %s of order %s", item.ProductID, doc.ID), err)
	if !flagged {
		releaseErr := s.orderStore.ReleaseItem(ctx, doc.ID, i)
		if releaseErr == nil {
			doc.StockAdjusted = without(doc.StockAdjusted, i)
			return
		}
		s.logger.Exception(ctx, fmt.Sprintf("Failed to release item %d of order %s", i, doc.ID), releaseErr)
	}

	if markErr := s.orderStore.MarkItemFailed(ctx, doc.ID, i); markErr != nil {
		s.logger.Exception(ctx, fmt.Sprintf("Item %d of order %s is claimed without a recorded sale", i, doc.ID), markErr)
		return
	}
	doc.StockFailed = append(doc.StockFailed, i)
}

func without(indexes []int, index int) []int {
	kept := make([]int, 0, len(indexes))
	for _, i := range indexes {
		if i != index {
			kept = append(kept, i)
		}
	}
	return kept
}

func (s *orderService) DeleteOrder(ctx context.Context, orderID string) error {
	found, err := s.orderStore.DeleteOrder(ctx, orderID)
	if err != nil {
		return apperrors.Unavailable("delete order", err)
	}
	if !found {
		return apperrors.NotFound("order", orderID)
	}
	s.logger.Info(ctx, "Order removed: "+orderID)

	s.publish(ctx, events.OrderDeleted, orderID, &events.OrderDeletedEvent{
		OrderID:   orderID,
		Version:   events.EventVersion,
		TimeStamp: s.now(),
	})
	return nil
}

// ReplayFailedEvents republishes events whose first publish failed.
func (s *orderService) ReplayFailedEvents(ctx context.Context) (ReplayReport, error) {
	var report ReplayReport

	pending, err := s.orderStore.GetUnreplayedEvents(ctx, replayBatchSize)
	if err != nil {
		s.logger.Exception(ctx, "failed to fetch unreplayed events", err)
		return report, apperrors.Unavailable("fetch unreplayed events", err)
	}
	if len(pending) == 0 {
		s.logger.Info(ctx, "No events to replay")
		return report, nil
	}

	for _, evt := range pending {
		claimed, err := s.orderStore.MarkEventAsReplaying(ctx, evt.ID)
		if err != nil {
			s.logger.Warn(ctx, fmt.Sprintf("Failed to mark event %s as replaying: %v", evt.ID, err))
			continue
		}
		if !claimed {
			continue
		}

		if err := s.publisher.Publish(evt.Topic, evt.EventData); err != nil {
			s.logger.Exception(ctx, fmt.Sprintf("Replay failed for event %s", evt.ID), err)
			if err := s.orderStore.MarkEventAsFailed(ctx, evt.ID); err != nil {
				s.logger.Warn(ctx, fmt.Sprintf("Failed to mark event %s as failed: %v", evt.ID, err))
			}
			report.Failed++
			continue
		}

		if err := s.orderStore.MarkEventAsCompleted(ctx, evt.ID); err != nil {
			s.logger.Warn(ctx, fmt.Sprintf("Failed to mark event %s as completed: %v", evt.ID, err))
		}
		report.Replayed++
	}

	s.logger.Info(ctx, fmt.Sprintf("Replay completed: %d successful, %d failed", report.Replayed, report.Failed))
	return report, nil
}

func (s *orderService) findOrder(ctx context.Context, orderID string) (*persistence.OrderDocument, error) {
	doc, err := s.orderStore.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, apperrors.Unavailable("find order", err)
	}
	if doc == nil {
		return nil, apperrors.NotFound("order", orderID)
	}
	return doc, nil
}

// publish sends an event after the state change it describes is stored.
// A failed publish is kept in the outbox for ReplayFailedEvents rather
// than failing the caller.
func (s *orderService) publish(ctx context.Context, topic, orderID string, event interface{ Validate() error }) {
	if err := event.Validate(); err != nil {
		s.logger.Exception(ctx, "Event validation failed for topic "+topic, err)
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		s.logger.Exception(ctx, "Failed to marshal event for topic "+topic, err)
		return
	}

	if err := s.publisher.Publish(topic, body); err != nil {
		s.logger.Warn(ctx, fmt.Sprintf("Publish %s failed for order %s: %v", topic, orderID, err))
		if err := s.orderStore.StoreEventForReplay(ctx, orderID, topic, body); err != nil {
			s.logger.Exception(ctx, "Failed to store event for replay", err)
		}
	}
}

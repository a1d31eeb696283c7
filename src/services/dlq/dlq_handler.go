package dlq

import (
	"context"
	"encoding/json"

	"bagbanter-api/src/infrastructure/log"
)

// EventStore keeps dead-lettered events for a later replay.
type EventStore interface {
	StoreEventForReplay(ctx context.Context, orderID, topic string, eventData []byte) error
}

// DLQHandler drains the dead-letter queue of one topic into the failed
// events outbox, where ReplayFailedEvents can pick them up again.
type DLQHandler struct {
	store  EventStore
	topic  string
	logger log.Logger
}

func NewDLQHandler(store EventStore, topic string, logger log.Logger) *DLQHandler {
	return &DLQHandler{
		store:  store,
		topic:  topic,
		logger: logger,
	}
}

func (h *DLQHandler) Handle(ctx context.Context, msgBody []byte) error {
	h.logger.Info(ctx, "Processing "+h.topic+" DLQ event")

	var envelope struct {
		OrderID string `json:"orderId"`
	}
	if err := json.Unmarshal(msgBody, &envelope); err != nil {
		// Unparseable bodies cannot be replayed; acknowledge and drop them.
		h.logger.Exception(ctx, "Dropping undecodable "+h.topic+" DLQ event", err)
		return nil
	}
	orderID := envelope.OrderID
	if orderID == "" {
		orderID = "unknown"
	}

	if err := h.store.StoreEventForReplay(ctx, orderID, h.topic, msgBody); err != nil {
		h.logger.Exception(ctx, "Failed to store "+h.topic+" DLQ event for replay", err)
		return err
	}
	h.logger.Info(ctx, h.topic+" DLQ event stored for replay, orderID: "+orderID)
	return nil
}

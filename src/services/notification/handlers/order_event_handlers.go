package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"bagbanter-api/src/infrastructure/log"
	"bagbanter-api/src/services/events"
	"bagbanter-api/src/services/notification"
)

type OrderCreatedEventHandler struct {
	notificationService notification.NotificationService
	logger              log.Logger
}

func NewOrderCreatedEventHandler(
	notificationService notification.NotificationService,
	logger log.Logger,
) *OrderCreatedEventHandler {
	return &OrderCreatedEventHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// Handle confirms receipt of a new order to the customer.
func (h *OrderCreatedEventHandler) Handle(ctx context.Context, msgBody []byte) error {
	var event events.OrderCreatedEvent
	if err := json.Unmarshal(msgBody, &event); err != nil {
		return fmt.Errorf("unmarshal OrderCreatedEvent: %w", err)
	}
	if err := event.Validate(); err != nil {
		return err
	}

	return h.notificationService.SendNotification(ctx, notification.NotificationRequest{
		OrderID: event.OrderID,
		Message: fmt.Sprintf("Hi %s, we have received your BagBanter order %s (%d item(s), GH₵%.2f). We will call you to arrange delivery.",
			event.Customer.Name, shortID(event.OrderID), event.ItemCount, event.Total),
		Channel:     notification.ChannelSMS,
		Recipient:   event.Customer.Phone,
		MessageType: "received",
	})
}

type OrderStatusUpdatedEventHandler struct {
	notificationService notification.NotificationService
	logger              log.Logger
}

func NewOrderStatusUpdatedEventHandler(
	notificationService notification.NotificationService,
	logger log.Logger,
) *OrderStatusUpdatedEventHandler {
	return &OrderStatusUpdatedEventHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// Handle tells the customer their order moved forward. Moves back to
// pending are not announced.
func (h *OrderStatusUpdatedEventHandler) Handle(ctx context.Context, msgBody []byte) error {
	var event events.OrderStatusUpdatedEvent
	if err := json.Unmarshal(msgBody, &event); err != nil {
		return fmt.Errorf("unmarshal OrderStatusUpdatedEvent: %w", err)
	}
	if err := event.Validate(); err != nil {
		return err
	}

	message := statusMessage(event.Customer.Name, shortID(event.OrderID), event.Status)
	if message == "" {
		h.logger.Info(ctx, "No customer notification for status "+event.Status+" of order "+event.OrderID)
		return nil
	}
	if event.Customer.Phone == "" {
		h.logger.Warn(ctx, "Order "+event.OrderID+" has no phone number, skipping notification")
		return nil
	}

	return h.notificationService.SendNotification(ctx, notification.NotificationRequest{
		OrderID:     event.OrderID,
		Message:     message,
		Channel:     notification.ChannelSMS,
		Recipient:   event.Customer.Phone,
		MessageType: event.Status,
	})
}

func statusMessage(name, orderRef, status string) string {
	switch status {
	case "in-progress":
		return fmt.Sprintf("Hi %s, your order %s is being prepared for delivery.", name, orderRef)
	case "delivered":
		return fmt.Sprintf("Hi %s, your order %s has been delivered. Thank you for shopping with BagBanter!", name, orderRef)
	case "cancelled":
		return fmt.Sprintf("Hi %s, your order %s has been cancelled. Reply to this message if this is unexpected.", name, orderRef)
	default:
		return ""
	}
}

func shortID(orderID string) string {
	if len(orderID) > 8 {
		return orderID[:8]
	}
	return orderID
}

type OrderDeletedEventHandler struct {
	notificationService notification.NotificationService
	logger              log.Logger
}

func NewOrderDeletedEventHandler(
	notificationService notification.NotificationService,
	logger log.Logger,
) *OrderDeletedEventHandler {
	return &OrderDeletedEventHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// Handle records the removal on the log channel. The customer is not told;
// deletes are an admin clean-up.
func (h *OrderDeletedEventHandler) Handle(ctx context.Context, msgBody []byte) error {
	var event events.OrderDeletedEvent
	if err := json.Unmarshal(msgBody, &event); err != nil {
		return fmt.Errorf("unmarshal OrderDeletedEvent: %w", err)
	}
	if err := event.Validate(); err != nil {
		return err
	}

	message := fmt.Sprintf("Order %s was deleted", event.OrderID)
	if event.Status != "" {
		message += " while " + event.Status
	}
	return h.notificationService.SendNotification(ctx, notification.NotificationRequest{
		OrderID:     event.OrderID,
		Message:     message,
		Channel:     notification.ChannelLog,
		MessageType: "deleted",
	})
}

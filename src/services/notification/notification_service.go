package notification

import (
	"context"
	"fmt"
	"strings"

	"bagbanter-api/src/infrastructure/log"
)

// NotificationChannel represents different notification delivery methods
type NotificationChannel string

const (
	ChannelSMS NotificationChannel = "sms"
	ChannelLog NotificationChannel = "log"
)

// NotificationRequest represents a notification to be sent
type NotificationRequest struct {
	OrderID     string              `json:"orderId"`
	Message     string              `json:"message"`
	Channel     NotificationChannel `json:"channel"`
	Recipient   string              `json:"recipient"`   // phone number for sms
	MessageType string              `json:"messageType"` // "received", "delivered", etc.
}

type NotificationService interface {
	SendNotification(ctx context.Context, request NotificationRequest) error
}

// NotificationServiceImpl writes every notification to the log. No SMS
// gateway is wired; the sms channel only checks it has a recipient.
type NotificationServiceImpl struct {
	logger log.Logger
}

func NewNotificationService(logger log.Logger) NotificationService {
	return &NotificationServiceImpl{
		logger: logger,
	}
}

func (n *NotificationServiceImpl) SendNotification(ctx context.Context, request NotificationRequest) error {
	if strings.TrimSpace(request.Message) == "" {
		return fmt.Errorf("notification for order %s has no message", request.OrderID)
	}

	switch request.Channel {
	case ChannelSMS:
		return n.sendSMSNotification(ctx, request)
	case ChannelLog:
		n.logNotification(ctx, request)
		return nil
	default:
		n.logger.Warn(ctx, "Unknown notification channel: "+string(request.Channel))
		return nil
	}
}

func (n *NotificationServiceImpl) sendSMSNotification(ctx context.Context, request NotificationRequest) error {
	if strings.TrimSpace(request.Recipient) == "" {
		return fmt.Errorf("sms notification for order %s has no recipient", request.OrderID)
	}
	n.logNotification(ctx, request)
	return nil
}

func (n *NotificationServiceImpl) logNotification(ctx context.Context, request NotificationRequest) {
	n.logger.InfoWithExtra(ctx, "Notification sent", map[string]any{
		"OrderId":     request.OrderID,
		"Channel":     string(request.Channel),
		"Recipient":   maskPhone(request.Recipient),
		"MessageType": request.MessageType,
		"Body":        request.Message,
	})
}

// maskPhone keeps the last three digits of a phone number.
func maskPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if len(phone) <= 3 {
		return phone
	}
	return strings.Repeat("*", len(phone)-3) + phone[len(phone)-3:]
}

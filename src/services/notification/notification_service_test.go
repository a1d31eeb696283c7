package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bagbanter-api/src/infrastructure/log"
)

func TestSendNotification_SMS(t *testing.T) {
	var buf bytes.Buffer
	svc := NewNotificationService(log.NewLoggerWithWriter("info", &buf))

	err := svc.SendNotification(context.Background(), NotificationRequest{
		OrderID:     "o-1",
		Message:     "Your order is on the way",
		Channel:     ChannelSMS,
		Recipient:   "0240001234",
		MessageType: "in-progress",
	})
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "Notification sent", line["Message"])
	assert.Equal(t, "o-1", line["OrderId"])
	assert.Equal(t, "*******234", line["Recipient"])
}

func TestSendNotification_Errors(t *testing.T) {
	var buf bytes.Buffer
	svc := NewNotificationService(log.NewLoggerWithWriter("info", &buf))
	ctx := context.Background()

	assert.Error(t, svc.SendNotification(ctx, NotificationRequest{OrderID: "o-1", Channel: ChannelSMS, Recipient: "024"}))
	assert.Error(t, svc.SendNotification(ctx, NotificationRequest{OrderID: "o-1", Channel: ChannelSMS, Message: "hi"}))
	assert.NoError(t, svc.SendNotification(ctx, NotificationRequest{OrderID: "o-1", Channel: "pigeon", Message: "hi"}))
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "***", maskPhone("***"))
	assert.Equal(t, "12", maskPhone("12"))
	assert.Equal(t, "**345", maskPhone(" 12345 "))
}

package dlq

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bagbanter-api/src/infrastructure/log"
)

type storedEvent struct {
	orderID, topic string
	data           []byte
}

type fakeStore struct {
	stored []storedEvent
	err    error
}

func (f *fakeStore) StoreEventForReplay(_ context.Context, orderID, topic string, eventData []byte) error {
	if f.err != nil {
		return f.err
	}
	f.stored = append(f.stored, storedEvent{orderID: orderID, topic: topic, data: eventData})
	return nil
}

func TestDLQHandler(t *testing.T) {
	store := &fakeStore{}
	h := NewDLQHandler(store, "order.created", log.NewLoggerWithWriter("panic", io.Discard))
	ctx := context.Background()

	require.NoError(t, h.Handle(ctx, []byte(`{"orderId":"o-1","total":10}`)))
	require.NoError(t, h.Handle(ctx, []byte(`{"total":10}`)))
	require.NoError(t, h.Handle(ctx, []byte(`garbage`)))

	require.Len(t, store.stored, 2)
	assert.Equal(t, storedEvent{orderID: "o-1", topic: "order.created", data: []byte(`{"orderId":"o-1","total":10}`)}, store.stored[0])
	assert.Equal(t, "unknown", store.stored[1].orderID)
}

func TestDLQHandler_StoreFailureIsReturned(t *testing.T) {
	store := &fakeStore{err: errors.New("no reachable servers")}
	h := NewDLQHandler(store, "order.deleted", log.NewLoggerWithWriter("panic", io.Discard))

	assert.Error(t, h.Handle(context.Background(), []byte(`{"orderId":"o-1"}`)))
}

package infrastructure

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"bagbanter-api/src/infrastructure/log"
)

// Consumer hands out deliveries for a queue. *rabbitmq.RabbitMQService
// satisfies it.
type Consumer interface {
	Consume(queueName string) (<-chan amqp.Delivery, error)
}

type EventListener struct {
	consumer   Consumer
	logger     log.Logger
	handlers   map[string]EventHandler
	maxRetries int
	retryDelay time.Duration
}

// EventHandler processes one message body. Returning an error rejects the
// message to its dead-letter queue.
type EventHandler interface {
	Handle(ctx context.Context, msgBody []byte) error
}

func NewEventListener(consumer Consumer, logger log.Logger) *EventListener {
	return &EventListener{
		consumer:   consumer,
		logger:     logger,
		handlers:   make(map[string]EventHandler),
		maxRetries: 5,
		retryDelay: 2 * time.Second,
	}
}

// RegisterHandler registers an event handler for a queue
func (el *EventListener) RegisterHandler(queue string, handler EventHandler) {
	el.handlers[queue] = handler
}

// StartListening consumes every registered queue until ctx is cancelled.
func (el *EventListener) StartListening(ctx context.Context) error {
	var wg sync.WaitGroup

	for queue, handler := range el.handlers {
		wg.Add(1)
		go func(queue string, h EventHandler) {
			defer wg.Done()
			el.listenToQueue(ctx, queue, h)
		}(queue, handler)
	}

	wg.Wait()
	return nil
}

// listenToQueue consumes one queue, reconnecting with exponential backoff
// when consuming fails or the delivery channel closes.
func (el *EventListener) listenToQueue(ctx context.Context, queueName string, handler EventHandler) {
	retryDelay := el.retryDelay

	el.logger.Info(ctx, "Starting to listen for events on queue: "+queueName)

	for attempt := 1; attempt <= el.maxRetries; attempt++ {
		msgs, err := el.consumer.Consume(queueName)
		if err != nil {
			el.logger.Exception(ctx, fmt.Sprintf("Failed to start consuming queue: %s (attempt %d/%d)", queueName, attempt, el.maxRetries), err)
			if attempt == el.maxRetries {
				el.logger.Exception(ctx, "Max retries reached for queue: "+queueName+", giving up", err)
				return
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(retryDelay):
			}
			retryDelay *= 2
			continue
		}

		el.logger.Info(ctx, "Successfully started consuming queue: "+queueName)
		attempt = 0
		retryDelay = el.retryDelay

		if done := el.drain(ctx, queueName, msgs, handler); done {
			return
		}
		el.logger.Warn(ctx, "Message channel closed for queue: "+queueName+", attempting to reconnect...")
	}
}

// drain processes deliveries until ctx ends (true) or msgs closes (false).
func (el *EventListener) drain(ctx context.Context, queueName string, msgs <-chan amqp.Delivery, handler EventHandler) bool {
	for {
		select {
		case <-ctx.Done():
			el.logger.Info(ctx, "Stopping event listener for queue: "+queueName)
			return true
		case msg, ok := <-msgs:
			if !ok {
				return false
			}
			el.process(ctx, queueName, msg, handler)
		}
	}
}

func (el *EventListener) process(ctx context.Context, queueName string, msg amqp.Delivery, handler EventHandler) {
	msgCtx := ctx
	if msg.MessageId != "" {
		msgCtx = el.logger.WithCorrelationID(ctx, msg.MessageId)
	}

	if err := handler.Handle(msgCtx, msg.Body); err != nil {
		el.logger.Exception(msgCtx, "Handler failed for queue: "+queueName+", dead-lettering message", err)
		if err := msg.Nack(false, false); err != nil {
			el.logger.Exception(msgCtx, "Failed to nack message on queue: "+queueName, err)
		}
		return
	}
	if err := msg.Ack(false); err != nil {
		el.logger.Exception(msgCtx, "Failed to ack message on queue: "+queueName, err)
	}
}

package rabbitmq

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// RabbitMQService publishes order events to a topic exchange and hands out
// deliveries from the per-topic queues.
type RabbitMQService struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	mu       sync.Mutex
}

// DeadLetterQueue names the queue that collects rejected messages of queue.
func DeadLetterQueue(queue string) string {
	return queue + ".dlq"
}

// NewRabbitMQService connects and declares the topology: the topic
// exchange, a direct dead-letter exchange, and for every topic a queue
// bound by its own name plus that queue's DLQ.
func NewRabbitMQService(host, exchange string, topics []string) (*RabbitMQService, error) {
	conn, err := amqp.Dial(host)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	if err := declareTopology(ch, exchange, topics); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &RabbitMQService{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
	}, nil
}

func declareTopology(ch *amqp.Channel, exchange string, topics []string) error {
	err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare an exchange: %w", err)
	}

	dlxName := exchange + ".dlx"
	err = ch.ExchangeDeclare(
		dlxName,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare a dead-letter exchange: %w", err)
	}

	for _, topic := range topics {
		dlqName := DeadLetterQueue(topic)
		_, err = ch.QueueDeclare(
			dlqName,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			return fmt.Errorf("failed to declare DLQ %s: %w", dlqName, err)
		}
		err = ch.QueueBind(
			dlqName, // queue name
			dlqName, // routing key
			dlxName, // exchange
			false,
			nil,
		)
		if err != nil {
			return fmt.Errorf("failed to bind DLQ %s: %w", dlqName, err)
		}

		// Rejected messages keep flowing to the queue's own DLQ.
		args := amqp.Table{
			"x-dead-letter-exchange":    dlxName,
			"x-dead-letter-routing-key": dlqName,
		}
		_, err = ch.QueueDeclare(
			topic,
			true,
			false,
			false,
			false,
			args,
		)
		if err != nil {
			return fmt.Errorf("failed to declare event queue %s: %w", topic, err)
		}
		err = ch.QueueBind(
			topic,    // queue name
			topic,    // routing key
			exchange, // exchange
			false,
			nil,
		)
		if err != nil {
			return fmt.Errorf("failed to bind event queue %s: %w", topic, err)
		}
	}
	return nil
}

// Publish sends a persistent JSON message to topic on the exchange.
func (s *RabbitMQService) Publish(topic string, body []byte) error {
	if topic == "" {
		return fmt.Errorf("topic cannot be empty")
	}
	if body == nil {
		return fmt.Errorf("message body cannot be nil")
	}
	if s.conn.IsClosed() {
		return fmt.Errorf("connection to RabbitMQ is closed")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.channel.Publish(
		s.exchange, // exchange
		topic,      // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message to topic '%s': %w", topic, err)
	}
	return nil
}

func (s *RabbitMQService) Close() {
	s.channel.Close()
	s.conn.Close()
}

// Consume starts consuming a queue with manual acknowledgement.
func (s *RabbitMQService) Consume(queueName string) (<-chan amqp.Delivery, error) {
	if s.conn.IsClosed() {
		return nil, fmt.Errorf("connection is closed")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	msgs, err := s.channel.Consume(
		queueName, // queue
		"",        // consumer
		false,     // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming queue: %w", err)
	}
	return msgs, nil
}

func (s *RabbitMQService) IsHealthy() bool {
	return !s.conn.IsClosed() && s.channel != nil
}

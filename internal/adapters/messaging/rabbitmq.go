package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/creche-admin/console-service/internal/config"
)

// channel is the part of *amqp.Channel the broker publishes through.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQBroker implements ports.OutboxPublisher using RabbitMQ. Each event
// type goes to its own queue through the default exchange.
type RabbitMQBroker struct {
	conn            *amqp.Connection
	ch              channel
	enrollmentQueue string
	broadcastQueue  string
	cb              *gobreaker.CircuitBreaker
}

func NewRabbitMQBroker(amqpURL, enrollmentQueue, broadcastQueue string) (*RabbitMQBroker, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	// Declare the queues (idempotent)
	for _, queue := range []string{enrollmentQueue, broadcastQueue} {
		_, err = ch.QueueDeclare(
			queue,
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,   // args
		)
		if err != nil {
			ch.Close()
			conn.Close()
			return nil, err
		}
	}

	return newBroker(conn, ch, enrollmentQueue, broadcastQueue), nil
}

func newBroker(conn *amqp.Connection, ch channel, enrollmentQueue, broadcastQueue string) *RabbitMQBroker {
	return &RabbitMQBroker{
		conn:            conn,
		ch:              ch,
		enrollmentQueue: enrollmentQueue,
		broadcastQueue:  broadcastQueue,
		cb:              config.NewCircuitBreaker(config.BreakerPublisher),
	}
}

// publish sends one persistent JSON message to queue through the breaker.
func (rmq *RabbitMQBroker) publish(ctx context.Context, queue, eventType string, evt any) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	// Respect context deadline
	if deadline, ok := ctx.Deadline(); ok {
		if time.Until(deadline) <= 0 {
			return ctx.Err()
		}
	}

	_, err = rmq.cb.Execute(func() (interface{}, error) {
		err := rmq.ch.PublishWithContext(
			ctx,
			"",    // exchange (default)
			queue, // routing key == queue name
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Type:         eventType,
				MessageId:    uuid.NewString(),
				Timestamp:    time.Now().UTC(),
				Body:         body,
			},
		)
		return nil, err
	})
	return err
}

// IsConnected reports whether the broker connection is still open.
func (rmq *RabbitMQBroker) IsConnected() bool {
	return rmq.conn != nil && !rmq.conn.IsClosed()
}

func (rmq *RabbitMQBroker) Close() error {
	if rmq.ch != nil {
		if err := rmq.ch.Close(); err != nil {
			return err
		}
	}
	if rmq.conn != nil {
		return rmq.conn.Close()
	}
	return nil
}

// Package messaging publishes attempt records to an AMQP queue for
// downstream consumers. Publishing is optional and strictly
// best-effort; the authentication path never waits on it.
package messaging

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/spec-kit/identity-service/internal/config"
	"github.com/spec-kit/identity-service/internal/domain"
)

// AttemptPublisher fans attempt records out to an external consumer.
type AttemptPublisher interface {
	PublishAttempt(ctx context.Context, attempt domain.AttemptRecord) error
}

// AMQPPublisher implements AttemptPublisher over RabbitMQ.
type AMQPPublisher struct {
	conn      *amqp.Connection
	ch        *amqp.Channel
	queueName string
	cb        *gobreaker.CircuitBreaker
}

// NewAMQPPublisher dials the broker and declares the durable queue.
func NewAMQPPublisher(amqpURL, queueName string, logger *zap.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	// Queue declaration is idempotent.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &AMQPPublisher{
		conn:      conn,
		ch:        ch,
		queueName: queueName,
		cb:        config.NewCircuitBreaker("audit-amqp", logger),
	}, nil
}

// PublishAttempt serializes the record and publishes it behind the
// circuit breaker.
func (p *AMQPPublisher) PublishAttempt(ctx context.Context, attempt domain.AttemptRecord) error {
	body, err := json.Marshal(attempt)
	if err != nil {
		return err
	}

	_, err = p.cb.Execute(func() (interface{}, error) {
		return nil, p.ch.PublishWithContext(
			ctx,
			"",          // default exchange
			p.queueName, // routing key == queue name
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Body:         body,
			},
		)
	})
	return err
}

// Close releases channel and connection resources.
func (p *AMQPPublisher) Close() error {
	if p.ch != nil {
		if err := p.ch.Close(); err != nil {
			return err
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rabbitmq/amqp091-go"

	"github.com/automation-hub/project-requests/internal/core/domain"
)

const DefaultExchange = "project-events"

// RabbitPublisher publishes project events to a durable topic exchange, one message
// per event, routed by event type.
type RabbitPublisher struct {
	exchange string
	conn     *amqp091.Connection

	mu      sync.Mutex // amqp channels are not safe for concurrent publishing
	channel *amqp091.Channel
}

// NewRabbitPublisher dials url, opens a channel and declares the exchange.
func NewRabbitPublisher(url, exchange string) (*RabbitPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareExchange(ch, exchange); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &RabbitPublisher{exchange: exchange, conn: conn, channel: ch}, nil
}

func declareExchange(ch *amqp091.Channel, name string) error {
	return ch.ExchangeDeclare(
		name,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}

// Publish sends event as a persistent JSON message with the event type as routing key.
func (p *RabbitPublisher) Publish(ctx context.Context, event domain.ProjectEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		string(event.Type),
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			MessageId:    event.ID,
			Timestamp:    event.OccurredAt,
			Type:         string(event.Type),
			Body:         body,
			DeliveryMode: amqp091.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

// IsConnected reports whether the broker connection is still open.
func (p *RabbitPublisher) IsConnected() bool {
	return p.conn != nil && !p.conn.IsClosed()
}

// Ping fails when the broker connection was lost. Used by the readiness probe.
func (p *RabbitPublisher) Ping(context.Context) error {
	if !p.IsConnected() {
		return fmt.Errorf("amqp connection closed")
	}
	return nil
}

func (p *RabbitPublisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

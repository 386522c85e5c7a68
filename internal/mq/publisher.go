package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// StoredReadingEvent is published after a reading has been durably stored.
// Nil measurement fields marshal as JSON null, preserving the unknown state.
type StoredReadingEvent struct {
	ReadingID    int64     `json:"reading_id"`
	DeviceID     string    `json:"device_id"`
	WaterLevelMM *int32    `json:"water_level_mm"`
	BucketTips   *int32    `json:"bucket_tips"`
	ReceivedAt   time.Time `json:"received_at"`
}

// Publisher announces stored readings on a durable topic exchange. A
// Publisher built from a nil connection is disabled and publishes nothing;
// that is the default when no AMQP URL is configured.
type Publisher struct {
	channel    *amqp.Channel
	exchange   string
	routingKey string
	logger     *zap.Logger
}

// NewPublisher creates a new stored-reading publisher. Passing a nil
// connection yields a disabled publisher.
func NewPublisher(conn *Connection, exchange, routingKey string, logger *zap.Logger) (*Publisher, error) {
	if conn == nil {
		return &Publisher{logger: logger}, nil
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{
		channel:    ch,
		exchange:   exchange,
		routingKey: routingKey,
		logger:     logger,
	}, nil
}

// PublishStoredReading publishes one stored-reading event. Disabled
// publishers return nil immediately.
func (p *Publisher) PublishStoredReading(ctx context.Context, event StoredReadingEvent) error {
	if p.channel == nil {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		p.routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("published stored reading event",
		zap.String("routing_key", p.routingKey),
		zap.Int64("reading_id", event.ReadingID),
		zap.String("device_id", event.DeviceID),
	)

	return nil
}

// Close closes the publisher channel
func (p *Publisher) Close() error {
	if p.channel != nil {
		return p.channel.Close()
	}
	return nil
}

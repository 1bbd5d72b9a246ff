package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrPublishNacked = errors.New("publish NACK from broker")

// Envelope is the message body sent for every event.
type Envelope struct {
	EventType  string `json:"event_type"`
	UserID     string `json:"user_id"`
	OccurredAt int64  `json:"occurred_at"`
	Payload    any    `json:"payload"`
}

// channel is the part of *amqp.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends events to a topic exchange, routed by event type, and waits for the
// broker to confirm each message.
type Publisher struct {
	conn     *amqp.Connection
	ch       channel
	acks     <-chan amqp.Confirmation
	exchange string
	now      func() time.Time
	mu       sync.Mutex
}

var _ ports.EventPublisher = (*Publisher)(nil)

// Dial connects, declares the exchange and switches the channel to confirm mode.
func Dial(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err = ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	if err = ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	p := newPublisher(ch, acks, exchange)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, acks <-chan amqp.Confirmation, exchange string) *Publisher {
	return &Publisher{ch: ch, acks: acks, exchange: exchange, now: time.Now}
}

// Publish serialises publishes on the channel since confirms arrive in order.
func (p *Publisher) Publish(ctx context.Context, userID kernel.UUID, eventType string, payload any) error {
	body, err := json.Marshal(Envelope{
		EventType:  eventType,
		UserID:     userID.String(),
		OccurredAt: p.now().UTC().UnixMilli(),
		Payload:    payload,
	})
	if err != nil {
		return fmt.Errorf("encode %s: %w", eventType, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err = p.ch.PublishWithContext(ctx, p.exchange, eventType, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    p.now().UTC(),
		Headers:      amqp.Table{"user_id": userID.String()},
		Body:         body,
	}); err != nil {
		return err
	}

	select {
	case conf := <-p.acks:
		if conf.Ack {
			return nil
		}
		return ErrPublishNacked
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ping reports whether the connection is still open.
func (p *Publisher) Ping() error {
	if p.conn == nil || p.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

func (p *Publisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		err = errors.Join(err, p.conn.Close())
	}
	return err
}

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mesh-intelligence/realdesk/pkg/types"
)

// DefaultExchange is the topic exchange activities are published to.
const DefaultExchange = "realdesk.activities"

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQ publishes activities to a durable topic exchange. The routing key
// is the activity type, e.g. "lead-created".
type RabbitMQ struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
}

// DialRabbitMQ connects to url and declares the exchange.
func DialRabbitMQ(url, exchange string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}

	p, err := newRabbitMQ(ch, exchange)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func newRabbitMQ(ch channel, exchange string) (*RabbitMQ, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declaring exchange %s: %w", exchange, err)
	}
	return &RabbitMQ{ch: ch, exchange: exchange}, nil
}

// Publish sends a as a persistent JSON message.
func (r *RabbitMQ) Publish(ctx context.Context, a types.Activity) error {
	body, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encoding activity: %w", err)
	}

	err = r.ch.PublishWithContext(ctx, r.exchange, a.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    strconv.FormatInt(a.ID, 10),
		Timestamp:    a.CreatedAt,
		Type:         a.Type,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publishing activity %d: %w", a.ID, err)
	}
	return nil
}

// Connected reports whether the broker connection is open.
func (r *RabbitMQ) Connected() bool {
	return r.conn == nil || !r.conn.IsClosed()
}

// Close closes the channel and the connection.
func (r *RabbitMQ) Close() error {
	err := r.ch.Close()
	if r.conn != nil {
		if cerr := r.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

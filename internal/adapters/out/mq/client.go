// Package mq wraps the RabbitMQ connection used for payment event intake and
// real-time notification fan-out. Topology is declared idempotently on
// startup, so any process can start first.
package mq

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// PaymentsExchange carries payment lifecycle events published by the
	// billing side. Routing keys follow "payment.<event>".
	PaymentsExchange = "payments_topic"

	// NotificationsExchange fans persisted notification events out to every
	// connected real-time consumer.
	NotificationsExchange = "notifications_fanout"

	// DeadLetterExchange receives payment messages that could not be
	// processed, for operator inspection and replay.
	DeadLetterExchange = "dlx"

	// PaymentsQueue is the durable queue the payment consumer reads from.
	PaymentsQueue = "payments.q"

	// NotificationsQueue buffers pushed notification payloads.
	NotificationsQueue = "notifications.q"

	// DeadLetterQueue stores rejected payment messages.
	DeadLetterQueue = "dlq"

	// PaymentConfirmedKey is the routing key of payment confirmation events.
	PaymentConfirmedKey = "payment.confirmed"
)

// Client is a thin wrapper over one AMQP connection and channel.
type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Dial connects to the broker at the given AMQP URL and opens a channel.
func Dial(url string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	return &Client{conn: conn, ch: ch}, nil
}

// Close releases the channel and connection. Safe on a nil client.
func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// DeclareAll declares the exchanges, queues and bindings this service uses.
// All declarations are idempotent.
func (c *Client) DeclareAll() error {
	if c == nil || c.ch == nil {
		return fmt.Errorf("nil channel")
	}

	if err := c.ch.ExchangeDeclare(PaymentsExchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	if err := c.ch.ExchangeDeclare(NotificationsExchange, "fanout", true, false, false, false, nil); err != nil {
		return err
	}
	if err := c.ch.ExchangeDeclare(DeadLetterExchange, "direct", true, false, false, false, nil); err != nil {
		return err
	}

	_, err := c.ch.QueueDeclare(PaymentsQueue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    DeadLetterExchange,
		"x-dead-letter-routing-key": DeadLetterQueue,
	})
	if err != nil {
		return err
	}
	if _, err = c.ch.QueueDeclare(NotificationsQueue, true, false, false, false, nil); err != nil {
		return err
	}
	if _, err = c.ch.QueueDeclare(DeadLetterQueue, true, false, false, false, nil); err != nil {
		return err
	}

	if err := c.ch.QueueBind(PaymentsQueue, "payment.*", PaymentsExchange, false, nil); err != nil {
		return err
	}
	if err := c.ch.QueueBind(NotificationsQueue, "", NotificationsExchange, false, nil); err != nil {
		return err
	}
	if err := c.ch.QueueBind(DeadLetterQueue, DeadLetterQueue, DeadLetterExchange, false, nil); err != nil {
		return err
	}
	return nil
}

// PublishPersistent publishes a durable JSON message to an exchange.
func (c *Client) PublishPersistent(ctx context.Context, exchange, key string, body []byte) error {
	return c.ch.PublishWithContext(ctx, exchange, key, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		ContentType:  "application/json",
		Body:         body,
	})
}

// Consume opens a manual-ack delivery stream on a queue with the given
// prefetch window.
func (c *Client) Consume(queue, consumer string, prefetch int) (<-chan amqp.Delivery, error) {
	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}
	return c.ch.Consume(queue, consumer, false, false, false, false, nil)
}

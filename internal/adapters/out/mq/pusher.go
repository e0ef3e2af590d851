package mq

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"

	"dispatch/internal/core/domain/model/kernel"
)

// Pusher publishes notification payloads to the fan-out exchange. It is the
// best-effort leg of the notifier: the durable record is already committed
// when Push runs, so a broker failure here loses nothing.
type Pusher struct {
	client *Client
}

// NewPusher creates a Pusher over an established broker client.
func NewPusher(client *Client) *Pusher {
	return &Pusher{client: client}
}

// Push publishes one notification payload. The recipient travels in a message
// header so consumers can route without parsing the body.
func (p *Pusher) Push(ctx context.Context, recipientID kernel.UUID, payload []byte) error {
	return p.client.ch.PublishWithContext(ctx, NotificationsExchange, "", false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Headers:      amqp.Table{"recipient_id": recipientID.String()},
		Body:         payload,
	})
}

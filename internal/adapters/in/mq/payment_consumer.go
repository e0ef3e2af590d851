// Package mq contains the inbound message adapters: broker-delivered events
// translated into application commands.
package mq

import (
	"context"
	"encoding/json"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	outmq "dispatch/internal/adapters/out/mq"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
)

// paymentConfirmedEvent is the wire shape of a payment confirmation.
type paymentConfirmedEvent struct {
	OrderID string `json:"order_id"`
}

// PaymentConsumer reads payment confirmation events and drives the order
// through payment confirmation and the first assignment round.
//
// Delivery semantics are at-least-once: the confirmation command is
// idempotent and the assignment trigger is guarded by the status
// compare-and-swap, so a redelivered message settles as a no-op.
type PaymentConsumer struct {
	client                *outmq.Client
	confirmPaymentHandler commands.ConfirmPaymentCommandHandler
	processOrderHandler   commands.ProcessOrderCommandHandler
	logger                *slog.Logger
}

// NewPaymentConsumer creates a consumer over an established broker client.
func NewPaymentConsumer(
	client *outmq.Client,
	confirmPaymentHandler commands.ConfirmPaymentCommandHandler,
	processOrderHandler commands.ProcessOrderCommandHandler,
	logger *slog.Logger,
) *PaymentConsumer {
	return &PaymentConsumer{
		client:                client,
		confirmPaymentHandler: confirmPaymentHandler,
		processOrderHandler:   processOrderHandler,
		logger:                logger.With("component", "payment_consumer"),
	}
}

// Run consumes the payments queue until the context is cancelled.
func (c *PaymentConsumer) Run(ctx context.Context) error {
	deliveries, err := c.client.Consume(outmq.PaymentsQueue, "dispatch-payment-consumer", 8)
	if err != nil {
		return err
	}

	c.logger.InfoContext(ctx, "payment consumer started", "queue", outmq.PaymentsQueue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				c.logger.WarnContext(ctx, "delivery channel closed")
				return nil
			}
			c.handleDelivery(ctx, delivery)
		}
	}
}

func (c *PaymentConsumer) handleDelivery(ctx context.Context, delivery amqp.Delivery) {
	orderID, err := parsePaymentEvent(delivery.Body)
	if err != nil {
		// Malformed messages never become processable; dead-letter them.
		c.logger.ErrorContext(ctx, "rejecting malformed payment event", "error", err)
		_ = delivery.Nack(false, false)
		return
	}

	if err := c.process(ctx, orderID); err != nil {
		if delivery.Redelivered {
			c.logger.ErrorContext(ctx, "payment event failed twice, dead-lettering",
				"order_id", orderID, "error", err)
			_ = delivery.Nack(false, false)
			return
		}
		c.logger.WarnContext(ctx, "payment event failed, requeueing",
			"order_id", orderID, "error", err)
		_ = delivery.Nack(false, true)
		return
	}

	_ = delivery.Ack(false)
}

func (c *PaymentConsumer) process(ctx context.Context, orderID kernel.UUID) error {
	confirmCommand, err := commands.NewConfirmPaymentCommand(orderID)
	if err != nil {
		return err
	}
	if err := c.confirmPaymentHandler.Handle(ctx, confirmCommand); err != nil {
		return err
	}

	processCommand, err := commands.NewProcessOrderCommand(orderID)
	if err != nil {
		return err
	}

	result, err := c.processOrderHandler.Handle(ctx, processCommand)
	if err != nil {
		return err
	}

	if !result.Success {
		// Terminal business outcome, already audited by the coordinator.
		c.logger.InfoContext(ctx, "order not assigned",
			"order_id", orderID, "status", result.Status.String(), "message", result.Message)
		return nil
	}

	c.logger.InfoContext(ctx, "order dispatched",
		"order_id", orderID, "offers", result.AssignedCount)
	return nil
}

func parsePaymentEvent(body []byte) (kernel.UUID, error) {
	var event paymentConfirmedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return kernel.UUID{}, err
	}
	return kernel.UUIDFromString(event.OrderID)
}

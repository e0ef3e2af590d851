package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/order"
)

// ConfirmPaymentCommandHandler moves an order's payment status to confirmed.
// A redelivered confirmation for an already confirmed order is a no-op, which
// keeps the at-least-once message bus safe.
type ConfirmPaymentCommandHandler struct {
	uowFactory OrderUoWFactory
	logger     *slog.Logger
}

// NewConfirmPaymentCommandHandler creates the confirmation handler.
func NewConfirmPaymentCommandHandler(uowFactory OrderUoWFactory, logger *slog.Logger) ConfirmPaymentCommandHandler {
	return ConfirmPaymentCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "confirm_payment_handler"),
	}
}

// Handle confirms one payment.
func (h ConfirmPaymentCommandHandler) Handle(ctx context.Context, command ConfirmPaymentCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ord, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	if ord.Status() == order.StatusConfirmed {
		h.logger.DebugContext(ctx, "Payment already confirmed, skipping", "order_id", ord.ID().String())
		return nil
	}

	if err = ord.ConfirmPayment(); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, ord); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"dispatch/internal/core/domain/model/activity"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// CancelOrderCommandHandler cancels an order and withdraws its outstanding
// offers. Open offer rows are left untouched in storage: once the order is
// cancelled the response handler refuses to act on them, and closing them
// would race with in-flight responses for no benefit. An already accepted
// offer hands the worker's claimed capacity slot back, and its worker is
// notified like the open-offer holders.
type CancelOrderCommandHandler struct {
	uowFactory  DispatchUoWFactory
	notifier    ports.Notifier
	activityLog ports.ActivityLog
	logger      *slog.Logger
}

// NewCancelOrderCommandHandler creates the cancellation handler.
func NewCancelOrderCommandHandler(
	uowFactory DispatchUoWFactory,
	notifier ports.Notifier,
	activityLog ports.ActivityLog,
	logger *slog.Logger,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory:  uowFactory,
		notifier:    notifier,
		activityLog: activityLog,
		logger:      logger.With("component", "cancel_order_handler"),
	}
}

// Handle cancels one order. Cancelling an already cancelled or completed order
// returns the domain transition error unchanged.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, command CancelOrderCommand) error {
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

	// Snapshot the offer rows before the cancel: open offers so their holders
	// can be told after commit, and the accepted one (if the order got that
	// far) whose worker must get the claimed slot back.
	offers, err := uow.AssignmentRepository().GetAllForOrder(ctx, ord.ID())
	if err != nil {
		return err
	}

	var affected []*assignment.Assignment
	var accepted *assignment.Assignment
	for _, offer := range offers {
		switch {
		case offer.IsOpen():
			affected = append(affected, offer)
		case offer.Status() == assignment.StatusAccepted:
			accepted = offer
			affected = append(affected, offer)
		}
	}

	if err = ord.Cancel(); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, ord); err != nil {
		return err
	}

	// The acceptance claimed a capacity slot; cancellation hands it back
	// without crediting a completed job.
	if accepted != nil {
		if err = uow.WorkerRepository().ReleaseClaim(ctx, accepted.WorkerID()); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.recordActivity(ctx, activity.ActionOrderCancelled,
		fmt.Sprintf("order %s cancelled with %d offers outstanding", ord.ID(), len(affected)),
		map[string]any{
			"order_id":     ord.ID().String(),
			"offers":       len(affected),
			"was_accepted": accepted != nil,
		})
	h.notifyCancelled(ctx, ord, affected)

	return nil
}

func (h CancelOrderCommandHandler) notifyCancelled(ctx context.Context, ord *order.Order, offers []*assignment.Assignment) {
	title := "Order cancelled"
	message := fmt.Sprintf("The %s job offer in region %s was cancelled by the customer", ord.ServiceType(), ord.Region())

	for _, offer := range offers {
		if err := h.notifier.Notify(ctx, offer.WorkerID(), title, message, notification.KindOrderCancelled, ord.ID()); err != nil {
			h.logger.WarnContext(ctx, "Failed to notify worker of cancellation",
				"worker_id", offer.WorkerID().String(),
				"order_id", ord.ID().String(),
				"error", err)
		}
	}
}

func (h CancelOrderCommandHandler) recordActivity(ctx context.Context, action, description string, metadata map[string]any) {
	if err := h.activityLog.Record(ctx, action, description, metadata); err != nil {
		h.logger.WarnContext(ctx, "Failed to record activity log entry", "action", action, "error", err)
	}
}

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"dispatch/internal/core/domain/model/activity"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// CompleteOrderCommandHandler closes out a delivered order: both lifecycles
// move to completed and the assigned worker gets their capacity slot back
// plus one credited job.
type CompleteOrderCommandHandler struct {
	uowFactory  DispatchUoWFactory
	activityLog ports.ActivityLog
	logger      *slog.Logger
}

// NewCompleteOrderCommandHandler creates the completion handler.
func NewCompleteOrderCommandHandler(
	uowFactory DispatchUoWFactory,
	activityLog ports.ActivityLog,
	logger *slog.Logger,
) CompleteOrderCommandHandler {
	return CompleteOrderCommandHandler{
		uowFactory:  uowFactory,
		activityLog: activityLog,
		logger:      logger.With("component", "complete_order_handler"),
	}
}

// Handle completes one order. Valid only while an acceptance is outstanding;
// otherwise the domain transition error propagates.
func (h CompleteOrderCommandHandler) Handle(ctx context.Context, command CompleteOrderCommand) error {
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

	accepted, err := h.acceptedOffer(ctx, uow, command)
	if err != nil {
		return err
	}

	if err = ord.Complete(); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, ord); err != nil {
		return err
	}
	if err = uow.WorkerRepository().ReleaseCapacity(ctx, accepted.WorkerID()); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.recordActivity(ctx, activity.ActionOrderCompleted,
		fmt.Sprintf("order %s completed by worker %s", ord.ID(), accepted.WorkerID()),
		map[string]any{
			"order_id":  ord.ID().String(),
			"worker_id": accepted.WorkerID().String(),
		})

	return nil
}

// acceptedOffer finds the offer row that won the order.
func (h CompleteOrderCommandHandler) acceptedOffer(ctx context.Context, uow DispatchUoW, command CompleteOrderCommand) (*assignment.Assignment, error) {
	offers, err := uow.AssignmentRepository().GetAllForOrder(ctx, command.OrderID())
	if err != nil {
		return nil, err
	}
	for _, offer := range offers {
		if offer.Status() == assignment.StatusAccepted {
			return offer, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("accepted assignment for order", command.OrderID())
}

func (h CompleteOrderCommandHandler) recordActivity(ctx context.Context, action, description string, metadata map[string]any) {
	if err := h.activityLog.Record(ctx, action, description, metadata); err != nil {
		h.logger.WarnContext(ctx, "Failed to record activity log entry", "action", action, "error", err)
	}
}

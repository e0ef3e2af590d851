package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/activity"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/worker"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// ProcessOrderCommandHandler is the per-order assignment coordinator.
// It loads the order, asks the candidate selector for a ranked pool, writes the
// offer rows and the status transition in one transaction, and fans out
// notifications after commit.
//
// Idempotence: the assignment status acts as the processing guard. The status
// transition is a compare-and-swap at the storage layer, so of two concurrent
// triggers observing the same status exactly one proceeds; the other returns
// the existing status as a no-op.
//
// Failure isolation: notifier and activity log failures are logged and
// swallowed; they degrade observability, never the state machine.
type ProcessOrderCommandHandler struct {
	uowFactory  DispatchUoWFactory
	selector    services.CandidateSelector
	notifier    ports.Notifier
	activityLog ports.ActivityLog
	settings    DispatchSettings
	logger      *slog.Logger
}

// NewProcessOrderCommandHandler creates the coordinator handler.
func NewProcessOrderCommandHandler(
	uowFactory DispatchUoWFactory,
	notifier ports.Notifier,
	activityLog ports.ActivityLog,
	settings DispatchSettings,
	logger *slog.Logger,
) ProcessOrderCommandHandler {
	return ProcessOrderCommandHandler{
		uowFactory:  uowFactory,
		selector:    services.NewCandidateSelector(settings.CandidatePoolSize, settings.DefaultWorkerCapacity),
		notifier:    notifier,
		activityLog: activityLog,
		settings:    settings,
		logger:      logger.With("component", "process_order_handler"),
	}
}

// Handle processes one trigger for one order.
//
// Returns a fatal error for an unknown order id or a storage failure; both
// leave the assignment status untouched, so the trigger is safe to retry.
// Terminal business outcomes (no workers, overbooked, manual review) are not
// errors: they come back in the result envelope.
func (h ProcessOrderCommandHandler) Handle(ctx context.Context, command ProcessOrderCommand) (ProcessOrderResult, error) {
	if err := command.Validate(); err != nil {
		return ProcessOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ProcessOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()
	ord, err := orders.Get(ctx, command.OrderID())
	if err != nil {
		return ProcessOrderResult{}, err
	}

	if !ord.IsDispatchable() {
		return ProcessOrderResult{
			Success: false,
			Status:  ord.AssignmentStatus(),
			Message: fmt.Sprintf("order is not dispatchable in payment status %s", ord.Status()),
		}, nil
	}

	current := ord.AssignmentStatus()
	if !current.CanProcess() && !current.CanReassign() {
		return existingStatusResult(current), nil
	}

	assignments := uow.AssignmentRepository()
	exclusions := make(map[kernel.UUID]struct{})
	round := 1

	if current.CanReassign() {
		previous, prevErr := assignments.GetAllForOrder(ctx, ord.ID())
		if prevErr != nil {
			return ProcessOrderResult{}, prevErr
		}
		for _, offer := range previous {
			exclusions[offer.WorkerID()] = struct{}{}
			if offer.Round() >= round {
				round = offer.Round() + 1
			}
		}

		if round > 1+h.settings.MaxExtraRounds {
			return h.finishWithFailure(ctx, uow, ord, current, order.AssignmentManualReview,
				fmt.Sprintf("reassignment round limit of %d additional rounds reached", h.settings.MaxExtraRounds))
		}
	}

	pool, err := uow.WorkerRepository().GetByRegion(ctx, ord.Region())
	if err != nil {
		return ProcessOrderResult{}, err
	}

	candidates, selErr := h.selector.Select(ord.Region(), ord.ServiceType(), exclusions, pool)
	switch {
	case errors.Is(selErr, services.ErrNoWorkersAvailable):
		return h.finishWithFailure(ctx, uow, ord, current, order.AssignmentNoWorkersAvailable,
			fmt.Sprintf("no eligible workers in region %s", ord.Region()))
	case errors.Is(selErr, services.ErrWorkersOverbooked):
		return h.finishWithFailure(ctx, uow, ord, current, order.AssignmentWorkersOverbooked,
			fmt.Sprintf("all eligible workers in region %s are at capacity", ord.Region()))
	case errors.Is(selErr, services.ErrCandidatePoolExhausted):
		return h.finishWithFailure(ctx, uow, ord, current, order.AssignmentManualReview,
			fmt.Sprintf("every eligible worker in region %s has already been offered this order", ord.Region()))
	case selErr != nil:
		return ProcessOrderResult{}, selErr
	}

	swapped, err := orders.UpdateAssignmentStatusIf(ctx, ord.ID(), current, order.AssignmentAssigned)
	if err != nil {
		return ProcessOrderResult{}, err
	}
	if !swapped {
		return existingStatusResult(current), nil
	}

	offeredAt := time.Now().UTC()
	for _, candidate := range candidates {
		offer, offerErr := assignment.NewAssignment(kernel.NewUUID(), ord.ID(), candidate.ID(), round, offeredAt)
		if offerErr != nil {
			return ProcessOrderResult{}, offerErr
		}
		if addErr := assignments.Add(ctx, offer); addErr != nil {
			return ProcessOrderResult{}, addErr
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return ProcessOrderResult{}, err
	}

	h.notifyCandidates(ctx, ord, candidates)
	h.recordActivity(ctx, activity.ActionRoundStarted,
		fmt.Sprintf("assignment round %d started for order %s with %d offers", round, ord.ID(), len(candidates)),
		map[string]any{
			"order_id": ord.ID().String(),
			"round":    round,
			"offers":   len(candidates),
		})

	return ProcessOrderResult{
		Success:       true,
		AssignedCount: len(candidates),
		Status:        order.AssignmentAssigned,
		Message:       fmt.Sprintf("round %d: %d workers offered", round, len(candidates)),
	}, nil
}

// finishWithFailure moves the order to a terminal failure outcome with the
// same compare-and-swap guard as the happy path, then commits and audits.
func (h ProcessOrderCommandHandler) finishWithFailure(
	ctx context.Context,
	uow DispatchUoW,
	ord *order.Order,
	from, outcome order.AssignmentStatus,
	message string,
) (ProcessOrderResult, error) {
	swapped, err := uow.OrderRepository().UpdateAssignmentStatusIf(ctx, ord.ID(), from, outcome)
	if err != nil {
		return ProcessOrderResult{}, err
	}
	if !swapped {
		return existingStatusResult(from), nil
	}
	if err = uow.Commit(ctx); err != nil {
		return ProcessOrderResult{}, err
	}

	action := activity.ActionDispatchFailed
	if outcome == order.AssignmentManualReview {
		action = activity.ActionManualReview
	}
	h.recordActivity(ctx, action, message, map[string]any{
		"order_id": ord.ID().String(),
		"outcome":  outcome.String(),
	})

	return ProcessOrderResult{
		Success: false,
		Status:  outcome,
		Message: message,
	}, nil
}

// notifyCandidates fans out one offer notification per candidate.
// One recipient's failure never aborts notification of the others.
func (h ProcessOrderCommandHandler) notifyCandidates(ctx context.Context, ord *order.Order, candidates []*worker.Worker) {
	title := "New job offer"
	message := fmt.Sprintf("You have a new %s job offer in region %s", ord.ServiceType(), ord.Region())

	for _, candidate := range candidates {
		if err := h.notifier.Notify(ctx, candidate.ID(), title, message, notification.KindJobOffer, ord.ID()); err != nil {
			h.logger.WarnContext(ctx, "Failed to notify candidate",
				"worker_id", candidate.ID().String(),
				"order_id", ord.ID().String(),
				"error", err)
		}
	}
}

func (h ProcessOrderCommandHandler) recordActivity(ctx context.Context, action, description string, metadata map[string]any) {
	if err := h.activityLog.Record(ctx, action, description, metadata); err != nil {
		h.logger.WarnContext(ctx, "Failed to record activity log entry", "action", action, "error", err)
	}
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dispatch/internal/core/domain/model/activity"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// OrderProcessor is the reassignment entry point the response handler calls
// when a decline exhausts the current round.
type OrderProcessor interface {
	Handle(ctx context.Context, command ProcessOrderCommand) (ProcessOrderResult, error)
}

// RespondToOfferCommandHandler records worker responses to open offers.
//
// Acceptance is the race-sensitive path: the worker's capacity claim and the
// order's status compare-and-swap both live in the same transaction as the
// offer row update, so losing the race rolls everything back, including the
// capacity claim.
type RespondToOfferCommandHandler struct {
	uowFactory     DispatchUoWFactory
	orderProcessor OrderProcessor
	notifier       ports.Notifier
	activityLog    ports.ActivityLog
	settings       DispatchSettings
	logger         *slog.Logger
}

// NewRespondToOfferCommandHandler creates the response handler.
func NewRespondToOfferCommandHandler(
	uowFactory DispatchUoWFactory,
	orderProcessor OrderProcessor,
	notifier ports.Notifier,
	activityLog ports.ActivityLog,
	settings DispatchSettings,
	logger *slog.Logger,
) RespondToOfferCommandHandler {
	return RespondToOfferCommandHandler{
		uowFactory:     uowFactory,
		orderProcessor: orderProcessor,
		notifier:       notifier,
		activityLog:    activityLog,
		settings:       settings,
		logger:         logger.With("component", "respond_to_offer_handler"),
	}
}

// Handle records one worker's response.
//
// Returns ErrOfferConflict when the offer was already resolved or another
// acceptance won the race, ErrOrderClosed when the order left the pipeline,
// and ErrWorkerAtCapacity when an acceptance would exceed the worker's
// concurrency limit. errs.ObjectNotFoundError propagates for unknown ids.
func (h RespondToOfferCommandHandler) Handle(ctx context.Context, command RespondToOfferCommand) (RespondToOfferResult, error) {
	if err := command.Validate(); err != nil {
		return RespondToOfferResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return RespondToOfferResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ord, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return RespondToOfferResult{}, err
	}

	offer, err := uow.AssignmentRepository().GetForOrderAndWorker(ctx, command.OrderID(), command.WorkerID())
	if err != nil {
		return RespondToOfferResult{}, err
	}

	// Responses to an order that already left the pipeline are ignored:
	// the outstanding offer rows of a cancelled order are dead letters.
	if ord.AssignmentStatus().IsTerminal() {
		return RespondToOfferResult{}, ErrOrderClosed
	}

	if !offer.IsOpen() {
		return RespondToOfferResult{}, ErrOfferConflict
	}

	switch command.Decision() {
	case DecisionAccept:
		return h.accept(ctx, uow, ord, offer)
	case DecisionDecline:
		return h.decline(ctx, uow, ord, offer)
	default:
		return RespondToOfferResult{}, errors.New("unreachable: command decision was validated")
	}
}

// accept claims worker capacity, wins (or loses) the order, closes the offer
// and supersedes the siblings, all in one transaction.
func (h RespondToOfferCommandHandler) accept(
	ctx context.Context,
	uow DispatchUoW,
	ord *order.Order,
	offer *assignment.Assignment,
) (RespondToOfferResult, error) {
	claimed, err := uow.WorkerRepository().ClaimCapacity(ctx, offer.WorkerID(), h.settings.DefaultWorkerCapacity)
	if err != nil {
		return RespondToOfferResult{}, err
	}
	if !claimed {
		return RespondToOfferResult{}, ErrWorkerAtCapacity
	}

	// First acceptance wins. Losing the swap rolls the transaction back,
	// which also releases the capacity claim above.
	swapped, err := uow.OrderRepository().UpdateAssignmentStatusIf(ctx, ord.ID(),
		order.AssignmentAssigned, order.AssignmentAccepted)
	if err != nil {
		return RespondToOfferResult{}, err
	}
	if !swapped {
		return RespondToOfferResult{}, ErrOfferConflict
	}

	if err = offer.Accept(); err != nil {
		return RespondToOfferResult{}, ErrOfferConflict
	}
	if err = uow.AssignmentRepository().Update(ctx, offer); err != nil {
		return RespondToOfferResult{}, err
	}

	superseded, err := h.supersedeSiblings(ctx, uow, offer)
	if err != nil {
		return RespondToOfferResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return RespondToOfferResult{}, err
	}

	h.recordActivity(ctx, activity.ActionOfferAccepted,
		fmt.Sprintf("worker %s accepted order %s in round %d", offer.WorkerID(), ord.ID(), offer.Round()),
		map[string]any{
			"order_id":  ord.ID().String(),
			"worker_id": offer.WorkerID().String(),
			"round":     offer.Round(),
		})
	h.notifyWithdrawn(ctx, ord, superseded)

	return RespondToOfferResult{
		OrderStatus: order.AssignmentAccepted,
		OfferStatus: assignment.StatusAccepted,
	}, nil
}

// decline closes the offer and, when it was the round's last open one, moves
// the order to expired_all and triggers the next reassignment round.
func (h RespondToOfferCommandHandler) decline(
	ctx context.Context,
	uow DispatchUoW,
	ord *order.Order,
	offer *assignment.Assignment,
) (RespondToOfferResult, error) {
	if err := offer.Decline(); err != nil {
		return RespondToOfferResult{}, ErrOfferConflict
	}
	if err := uow.AssignmentRepository().Update(ctx, offer); err != nil {
		return RespondToOfferResult{}, err
	}

	// The exhaustion check is a single conditional statement at the storage
	// layer: reading the open offers here and deciding in Go would let two
	// concurrent declines each see the sibling's row still open and both skip
	// the transition. This statement sees the decline above within the same
	// transaction, so the round's last decline closes it; if two last
	// declines race and both miss, the sweep's catch-all closes the order on
	// its next pass.
	roundExhausted, err := uow.OrderRepository().CloseRoundIfExhausted(ctx, ord.ID())
	if err != nil {
		return RespondToOfferResult{}, err
	}

	orderStatus := ord.AssignmentStatus()
	if roundExhausted {
		orderStatus = order.AssignmentExpiredAll
	}

	if err = uow.Commit(ctx); err != nil {
		return RespondToOfferResult{}, err
	}

	h.recordActivity(ctx, activity.ActionOfferDeclined,
		fmt.Sprintf("worker %s declined order %s in round %d", offer.WorkerID(), ord.ID(), offer.Round()),
		map[string]any{
			"order_id":  ord.ID().String(),
			"worker_id": offer.WorkerID().String(),
			"round":     offer.Round(),
		})

	if !roundExhausted {
		return RespondToOfferResult{
			OrderStatus: orderStatus,
			OfferStatus: assignment.StatusDeclined,
		}, nil
	}

	// The last decline of the round immediately starts the next one.
	// Reassignment failures are logged, not surfaced: the worker's decline
	// has been recorded either way, and the retry job will pick the order up.
	status := h.reprocess(ctx, ord.ID(), orderStatus)

	return RespondToOfferResult{
		OrderStatus:           status,
		OfferStatus:           assignment.StatusDeclined,
		ReassignmentTriggered: true,
	}, nil
}

// supersedeSiblings closes every other open offer of the order and returns the
// worker ids whose offers were withdrawn.
func (h RespondToOfferCommandHandler) supersedeSiblings(
	ctx context.Context,
	uow DispatchUoW,
	accepted *assignment.Assignment,
) ([]kernel.UUID, error) {
	open, err := uow.AssignmentRepository().GetOpenForOrder(ctx, accepted.OrderID())
	if err != nil {
		return nil, err
	}

	var withdrawn []kernel.UUID
	for _, sibling := range open {
		if sibling.ID().IsEqual(accepted.ID()) {
			continue
		}
		if err = sibling.Supersede(); err != nil {
			return nil, err
		}
		if err = uow.AssignmentRepository().Update(ctx, sibling); err != nil {
			return nil, err
		}
		withdrawn = append(withdrawn, sibling.WorkerID())
	}
	return withdrawn, nil
}

func (h RespondToOfferCommandHandler) reprocess(ctx context.Context, orderID kernel.UUID, fallback order.AssignmentStatus) order.AssignmentStatus {
	cmd, err := NewProcessOrderCommand(orderID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to build reassignment trigger", "order_id", orderID.String(), "error", err)
		return fallback
	}
	result, err := h.orderProcessor.Handle(ctx, cmd)
	if err != nil {
		h.logger.WarnContext(ctx, "Reassignment after exhausted round failed",
			"order_id", orderID.String(), "error", err)
		return fallback
	}
	return result.Status
}

// notifyWithdrawn tells every superseded worker their offer is gone.
func (h RespondToOfferCommandHandler) notifyWithdrawn(ctx context.Context, ord *order.Order, workerIDs []kernel.UUID) {
	title := "Offer withdrawn"
	message := fmt.Sprintf("The %s job offer in region %s was taken by another worker", ord.ServiceType(), ord.Region())

	for _, workerID := range workerIDs {
		if err := h.notifier.Notify(ctx, workerID, title, message, notification.KindOfferWithdrawn, ord.ID()); err != nil {
			h.logger.WarnContext(ctx, "Failed to notify superseded worker",
				"worker_id", workerID.String(),
				"order_id", ord.ID().String(),
				"error", err)
		}
	}
}

func (h RespondToOfferCommandHandler) recordActivity(ctx context.Context, action, description string, metadata map[string]any) {
	if err := h.activityLog.Record(ctx, action, description, metadata); err != nil {
		h.logger.WarnContext(ctx, "Failed to record activity log entry", "action", action, "error", err)
	}
}

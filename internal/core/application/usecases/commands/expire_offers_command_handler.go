package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/activity"
	"dispatch/internal/core/ports"
)

// ExpireOffersCommandHandler closes open offers older than the response
// window. Orders whose round is now fully exhausted move to expired_all; the
// reassignment itself is left to the retry job so that one slow reassignment
// cannot stall the sweep.
type ExpireOffersCommandHandler struct {
	uowFactory  DispatchUoWFactory
	activityLog ports.ActivityLog
	settings    DispatchSettings
	logger      *slog.Logger
}

// NewExpireOffersCommandHandler creates the sweep handler.
func NewExpireOffersCommandHandler(
	uowFactory DispatchUoWFactory,
	activityLog ports.ActivityLog,
	settings DispatchSettings,
	logger *slog.Logger,
) ExpireOffersCommandHandler {
	return ExpireOffersCommandHandler{
		uowFactory:  uowFactory,
		activityLog: activityLog,
		settings:    settings,
		logger:      logger.With("component", "expire_offers_handler"),
	}
}

// Handle runs one sweep. The expiry and the resulting order transitions share
// one transaction, so a crashed sweep leaves nothing half-expired.
func (h ExpireOffersCommandHandler) Handle(ctx context.Context, command ExpireOffersCommand) (ExpireOffersResult, error) {
	if err := command.Validate(); err != nil {
		return ExpireOffersResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ExpireOffersResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	cutoff := time.Now().UTC().Add(-h.settings.OfferTTL)
	affected, err := uow.AssignmentRepository().ExpireOpenOffersBefore(ctx, cutoff)
	if err != nil {
		return ExpireOffersResult{}, err
	}

	// Catch-all for every Assigned order with nothing open anymore: rounds
	// just emptied by the expiry above, and rounds stranded earlier when two
	// racing declines both missed the exhaustion transition. The guard and
	// the transition are one conditional statement, so the sweep cannot lose
	// against a concurrent acceptance or cancellation either.
	exhausted, err := uow.OrderRepository().CloseExhaustedRounds(ctx)
	if err != nil {
		return ExpireOffersResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ExpireOffersResult{}, err
	}

	for _, orderID := range exhausted {
		h.recordActivity(ctx, activity.ActionOffersExpired,
			fmt.Sprintf("no open offers remain for order %s, round closed", orderID),
			map[string]any{"order_id": orderID.String()})
	}

	if len(affected) > 0 || len(exhausted) > 0 {
		h.logger.InfoContext(ctx, "Offer expiry sweep finished",
			"affected_orders", len(affected),
			"exhausted_orders", len(exhausted))
	}

	return ExpireOffersResult{
		AffectedOrders:  len(affected),
		ExhaustedOrders: len(exhausted),
	}, nil
}

func (h ExpireOffersCommandHandler) recordActivity(ctx context.Context, action, description string, metadata map[string]any) {
	if err := h.activityLog.Record(ctx, action, description, metadata); err != nil {
		h.logger.WarnContext(ctx, "Failed to record activity log entry", "action", action, "error", err)
	}
}

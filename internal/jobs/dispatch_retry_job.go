package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/order"

	"github.com/robfig/cron/v3"
)

// DispatchRetryJob picks up orders whose last assignment round expired without
// an acceptance and starts the next round. Runs every 30 seconds.
//
// The expiry sweep deliberately leaves reassignment to this job, so a slow
// round cannot stall the sweep. The coordinator's status compare-and-swap
// makes overlap with an inline reassignment harmless.
type DispatchRetryJob struct {
	uowFactory commands.OrderUoWFactory
	handler    commands.ProcessOrderCommandHandler
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewDispatchRetryJob creates a new job for retrying expired assignment rounds.
func NewDispatchRetryJob(
	uowFactory commands.OrderUoWFactory,
	handler commands.ProcessOrderCommandHandler,
	logger *slog.Logger,
) *DispatchRetryJob {
	return &DispatchRetryJob{
		uowFactory: uowFactory,
		handler:    handler,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "dispatch_retry_job"),
	}
}

// Start begins the retry job, running every 30 seconds.
func (j *DispatchRetryJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		j.runOnce(context.Background())
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Dispatch retry job started (running every 30 seconds)")
	return nil
}

// Stop stops the retry job.
func (j *DispatchRetryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Dispatch retry job stopped")
}

func (j *DispatchRetryJob) runOnce(ctx context.Context) {
	reassignable, err := j.collectReassignable(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "failed to load reassignable orders", "error", err)
		return
	}

	for _, ord := range reassignable {
		cmd, cmdErr := commands.NewProcessOrderCommand(ord.ID())
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "failed to build reassignment command",
				"order_id", ord.ID(), "error", cmdErr)
			continue
		}

		result, handleErr := j.handler.Handle(ctx, cmd)
		if handleErr != nil {
			// One failed order must not block the rest of the batch.
			j.logger.ErrorContext(ctx, "reassignment attempt failed",
				"order_id", ord.ID(), "error", handleErr)
			continue
		}

		j.logger.InfoContext(ctx, "reassignment attempted",
			"order_id", ord.ID(), "status", result.Status.String(), "offers", result.AssignedCount)
	}
}

func (j *DispatchRetryJob) collectReassignable(ctx context.Context) ([]*order.Order, error) {
	uow := j.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.OrderRepository().GetAllInAssignmentStatus(ctx, order.AssignmentExpiredAll)
}

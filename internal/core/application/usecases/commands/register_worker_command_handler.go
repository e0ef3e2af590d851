package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/worker"
)

// RegisterWorkerCommandHandler adds workers to the directory.
type RegisterWorkerCommandHandler struct {
	uowFactory WorkerUoWFactory
	logger     *slog.Logger
}

// NewRegisterWorkerCommandHandler creates the registration handler.
func NewRegisterWorkerCommandHandler(uowFactory WorkerUoWFactory, logger *slog.Logger) RegisterWorkerCommandHandler {
	return RegisterWorkerCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "register_worker_handler"),
	}
}

// Handle registers one worker.
func (h RegisterWorkerCommandHandler) Handle(ctx context.Context, command RegisterWorkerCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	wrk, err := worker.NewWorker(command.WorkerID(), command.Name(), command.MaxConcurrentJobs(), command.ServiceAreas())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.WorkerRepository().Add(ctx, wrk); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

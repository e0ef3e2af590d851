package commands

import (
	"context"
	"log/slog"
)

// MarkNotificationReadCommandHandler flags notification events as read.
type MarkNotificationReadCommandHandler struct {
	uowFactory NotificationUoWFactory
	logger     *slog.Logger
}

// NewMarkNotificationReadCommandHandler creates the handler.
func NewMarkNotificationReadCommandHandler(uowFactory NotificationUoWFactory, logger *slog.Logger) MarkNotificationReadCommandHandler {
	return MarkNotificationReadCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "mark_notification_read_handler"),
	}
}

// Handle marks one event as read. Marking an already read event is a no-op.
func (h MarkNotificationReadCommandHandler) Handle(ctx context.Context, command MarkNotificationReadCommand) error {
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

	if err := uow.NotificationRepository().MarkRead(ctx, command.NotificationID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// Package notifier delivers worker notifications: every event is written to
// durable storage first, then pushed over the real-time transport on a best
// effort basis. The stored event is the source of truth; a lost push only
// delays the worker until their next feed poll.
package notifier

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/ports"
)

// pushPayload is the wire form sent over the real-time transport.
type pushPayload struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Kind      string    `json:"kind"`
	RelatedID string    `json:"related_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier implements ports.Notifier on top of the notification store and a
// real-time pusher.
type Notifier struct {
	uowFactory commands.NotificationUoWFactory
	pusher     ports.RealtimePusher
	logger     *slog.Logger
}

// New creates a Notifier. The pusher may be nil, in which case events are only
// persisted.
func New(uowFactory commands.NotificationUoWFactory, pusher ports.RealtimePusher, logger *slog.Logger) *Notifier {
	return &Notifier{
		uowFactory: uowFactory,
		pusher:     pusher,
		logger:     logger.With("component", "notifier"),
	}
}

// Notify persists one event and attempts the real-time push. A returned error
// means the durable write failed; push failures are logged and absorbed.
func (n *Notifier) Notify(ctx context.Context, recipientID kernel.UUID, title, message, kind string, relatedID kernel.UUID) error {
	event, err := notification.NewEvent(kernel.NewUUID(), recipientID, title, message, kind, relatedID)
	if err != nil {
		return err
	}

	uow := n.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.NotificationRepository().Add(ctx, event); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	n.push(ctx, event)
	return nil
}

func (n *Notifier) push(ctx context.Context, event *notification.Event) {
	if n.pusher == nil {
		return
	}

	payload, err := json.Marshal(pushPayload{
		ID:        event.ID().String(),
		Title:     event.Title(),
		Message:   event.Message(),
		Kind:      event.Kind(),
		RelatedID: event.RelatedID().String(),
		CreatedAt: event.CreatedAt(),
	})
	if err != nil {
		n.logger.ErrorContext(ctx, "Failed to marshal push payload",
			"notification_id", event.ID().String(), "error", err)
		return
	}

	if err = n.pusher.Push(ctx, event.RecipientID(), payload); err != nil {
		n.logger.WarnContext(ctx, "Real-time push failed, worker will see the stored event",
			"notification_id", event.ID().String(),
			"recipient_id", event.RecipientID().String(),
			"error", err)
	}
}

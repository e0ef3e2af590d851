package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// Notifier delivers a notification to one recipient: the event record is
// persisted first, then a best-effort real-time push is attempted. A returned
// error means the durable record could not be written; push failures are
// absorbed by the implementation.
type Notifier interface {
	Notify(ctx context.Context, recipientID kernel.UUID, title, message, kind string, relatedID kernel.UUID) error
}

// RealtimePusher is the best-effort transport behind the Notifier. A failed
// push loses nothing: the persisted event remains the source of truth.
type RealtimePusher interface {
	Push(ctx context.Context, recipientID kernel.UUID, payload []byte) error
}

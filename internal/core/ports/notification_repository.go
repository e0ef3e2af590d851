package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
)

// NotificationRepository defines the persistence contract for notification events.
type NotificationRepository interface {
	// Add persists a notification event. Adding an event with an id that is
	// already stored is a no-op, so delivering the same event twice is
	// observably equivalent to delivering it once.
	Add(ctx context.Context, event *notification.Event) error

	// Get retrieves a notification event by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*notification.Event, error)

	// GetForRecipient retrieves a recipient's events, newest first.
	// With unreadOnly set, read events are filtered out.
	GetForRecipient(ctx context.Context, recipientID kernel.UUID, unreadOnly bool) ([]*notification.Event, error)

	// MarkRead sets the read flag on a stored event.
	MarkRead(ctx context.Context, id kernel.UUID) error
}

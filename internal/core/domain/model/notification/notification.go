// Package notification contains the NotificationEvent entity: a persisted
// message to a recipient, immutable once created except for the read flag.
package notification

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Kinds of notifications produced by the dispatch pipeline.
const (
	KindJobOffer       = "job_offer"
	KindOfferWithdrawn = "offer_withdrawn"
	KindOrderCancelled = "order_cancelled"
)

var (
	// ErrEventIsNotConstructed is returned when using an improperly initialized Event.
	ErrEventIsNotConstructed = errors.New("Event must be created via NewEvent or RestoreEvent constructor")

	// ErrTitleIsRequired is returned when creating an event with an empty title.
	ErrTitleIsRequired = errs.NewValueIsRequiredError("title")
)

// Event is one persisted notification. Durability precedes timeliness: the
// event row is written before any real-time delivery is attempted, so a push
// failure can never lose the record.
type Event struct {
	id          kernel.UUID
	recipientID kernel.UUID
	title       string
	message     string
	kind        string
	relatedID   kernel.UUID
	read        bool
	createdAt   time.Time
	guard       guard.ConstructorGuard
}

// NewEvent creates an unread notification event.
func NewEvent(id, recipientID kernel.UUID, title, message, kind string, relatedID kernel.UUID) (*Event, error) {
	return RestoreEvent(id, recipientID, title, message, kind, relatedID, false, time.Now().UTC())
}

// RestoreEvent reconstructs an Event from persistence.
func RestoreEvent(
	id, recipientID kernel.UUID,
	title, message, kind string,
	relatedID kernel.UUID,
	read bool,
	createdAt time.Time,
) (*Event, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := recipientID.Validate(); err != nil {
		return nil, err
	}
	if title == "" {
		return nil, ErrTitleIsRequired
	}
	if kind == "" {
		return nil, errs.NewValueIsRequiredError("kind")
	}
	if err := relatedID.Validate(); err != nil {
		return nil, err
	}

	return &Event{
		id:          id,
		recipientID: recipientID,
		title:       title,
		message:     message,
		kind:        kind,
		relatedID:   relatedID,
		read:        read,
		createdAt:   createdAt,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Event was created through a constructor.
func (e *Event) Validate() error {
	if e == nil {
		return ErrEventIsNotConstructed
	}
	return e.guard.Validate(ErrEventIsNotConstructed)
}

// ID returns the event's unique identifier.
func (e *Event) ID() kernel.UUID {
	return e.id
}

// RecipientID returns who the notification is addressed to.
func (e *Event) RecipientID() kernel.UUID {
	return e.recipientID
}

// Title returns the short headline of the notification.
func (e *Event) Title() string {
	return e.title
}

// Message returns the notification body.
func (e *Event) Message() string {
	return e.message
}

// Kind returns the notification category, one of the Kind constants.
func (e *Event) Kind() string {
	return e.kind
}

// RelatedID returns the order the notification refers to.
func (e *Event) RelatedID() kernel.UUID {
	return e.relatedID
}

// IsRead reports whether the recipient has seen the notification.
func (e *Event) IsRead() bool {
	return e.read
}

// CreatedAt returns the creation timestamp.
func (e *Event) CreatedAt() time.Time {
	return e.createdAt
}

// MarkRead flips the read flag. The only mutation an Event permits.
func (e *Event) MarkRead() {
	e.read = true
}

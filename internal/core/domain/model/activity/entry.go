// Package activity contains the append-only audit entry recorded for every
// coordinator decision. Entries are never mutated or deleted.
package activity

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// Actions recorded by the dispatch pipeline.
const (
	ActionRoundStarted   = "assignment_round_started"
	ActionOfferAccepted  = "offer_accepted"
	ActionOfferDeclined  = "offer_declined"
	ActionOffersExpired  = "offers_expired"
	ActionDispatchFailed = "dispatch_failed"
	ActionOrderCancelled = "order_cancelled"
	ActionOrderCompleted = "order_completed"
	ActionManualReview   = "manual_review_required"
)

// Entry is one audit record of a coordinator decision.
type Entry struct {
	id          kernel.UUID
	action      string
	description string
	metadata    map[string]any
	createdAt   time.Time
}

// NewEntry creates an audit entry timestamped now.
func NewEntry(action, description string, metadata map[string]any) (*Entry, error) {
	if action == "" {
		return nil, errs.NewValueIsRequiredError("action")
	}
	return &Entry{
		id:          kernel.NewUUID(),
		action:      action,
		description: description,
		metadata:    metadata,
		createdAt:   time.Now().UTC(),
	}, nil
}

// ID returns the entry's unique identifier.
func (e *Entry) ID() kernel.UUID {
	return e.id
}

// Action returns the recorded action name.
func (e *Entry) Action() string {
	return e.action
}

// Description returns the human-readable summary.
func (e *Entry) Description() string {
	return e.description
}

// Metadata returns the structured context attached to the entry.
func (e *Entry) Metadata() map[string]any {
	return e.metadata
}

// CreatedAt returns the entry timestamp.
func (e *Entry) CreatedAt() time.Time {
	return e.createdAt
}

// Package queries contains read-only operations that bypass the domain model.
// Query handlers read directly from the database with raw SQL, returning
// plain response structs shaped for their consumers.
package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetWorkerNotificationsQueryIsNotConstructed = errors.New(
	"GetWorkerNotificationsQuery must be created via NewGetWorkerNotificationsQuery constructor",
)

// GetWorkerNotificationsQuery retrieves a worker's notification feed,
// newest first.
//
// Example:
//
//	query, err := NewGetWorkerNotificationsQuery(workerID, true)
//	if err != nil {
//	    return err
//	}
//	events, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get notifications: %w", err)
//	}
//	fmt.Printf("%d unread notifications\n", len(events))
type GetWorkerNotificationsQuery struct {
	workerID   kernel.UUID
	unreadOnly bool
	guard      guard.ConstructorGuard
}

// NewGetWorkerNotificationsQuery creates a feed query for one worker.
// With unreadOnly set, events already marked read are filtered out.
func NewGetWorkerNotificationsQuery(workerID kernel.UUID, unreadOnly bool) (GetWorkerNotificationsQuery, error) {
	if err := workerID.Validate(); err != nil {
		return GetWorkerNotificationsQuery{}, err
	}
	return GetWorkerNotificationsQuery{
		workerID:   workerID,
		unreadOnly: unreadOnly,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// WorkerID returns the feed's owner.
func (q GetWorkerNotificationsQuery) WorkerID() kernel.UUID {
	return q.workerID
}

// UnreadOnly reports whether read events are filtered out.
func (q GetWorkerNotificationsQuery) UnreadOnly() bool {
	return q.unreadOnly
}

// Validate ensures the query was created through the constructor.
func (q GetWorkerNotificationsQuery) Validate() error {
	return q.guard.Validate(ErrGetWorkerNotificationsQueryIsNotConstructed)
}

// GetWorkerNotificationsQueryResponse is one notification event in the feed.
type GetWorkerNotificationsQueryResponse struct {
	ID        kernel.UUID
	Title     string
	Message   string
	Kind      string
	RelatedID kernel.UUID
	Read      bool
	CreatedAt time.Time
}

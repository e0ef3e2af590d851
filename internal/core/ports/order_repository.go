// Package ports defines the contracts between the application core and
// infrastructure adapters: repositories for the durable stores and interfaces
// for the notification collaborators.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns errs.ObjectNotFoundError when no such order exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// UpdateAssignmentStatusIf performs a compare-and-swap on the stored
	// assignment status: the update applies only if the current stored value
	// equals expected. Returns false when another writer got there first.
	// This conditional single-writer update is the concurrency guard that
	// makes duplicate triggers for the same order safe.
	UpdateAssignmentStatusIf(ctx context.Context, id kernel.UUID, expected, next order.AssignmentStatus) (bool, error)

	// GetAllInAssignmentStatus retrieves orders currently in the given
	// assignment status. Used by the retry job to pick up reassignable orders.
	GetAllInAssignmentStatus(ctx context.Context, status order.AssignmentStatus) ([]*order.Order, error)

	// CloseRoundIfExhausted moves an Assigned order to ExpiredAll when no open
	// offer rows remain for it. Guard and transition are one conditional
	// statement at the storage layer: a plain read-then-decide would let two
	// concurrent declines each observe the sibling's row still open and both
	// skip the transition. Returns false when the order is not Assigned or an
	// open offer remains.
	CloseRoundIfExhausted(ctx context.Context, id kernel.UUID) (bool, error)

	// CloseExhaustedRounds applies CloseRoundIfExhausted across the whole
	// table and returns the ids of the orders it moved. The sweep runs this as
	// a catch-all: an order stranded by racing declines is picked up here on
	// the next sweep.
	CloseExhaustedRounds(ctx context.Context) ([]kernel.UUID, error)
}

package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
)

// AssignmentRepository defines the persistence contract for offer rows.
type AssignmentRepository interface {
	// Add persists a new offer row.
	Add(ctx context.Context, aggregate *assignment.Assignment) error

	// Update persists changes to an existing offer row.
	Update(ctx context.Context, aggregate *assignment.Assignment) error

	// GetForOrderAndWorker retrieves the most recent offer row for the given
	// order and worker pair. Returns errs.ObjectNotFoundError when the worker
	// was never offered the order.
	GetForOrderAndWorker(ctx context.Context, orderID, workerID kernel.UUID) (*assignment.Assignment, error)

	// GetAllForOrder retrieves every offer row of every round for an order.
	GetAllForOrder(ctx context.Context, orderID kernel.UUID) ([]*assignment.Assignment, error)

	// GetOpenForOrder retrieves the offer rows still in Offered state.
	GetOpenForOrder(ctx context.Context, orderID kernel.UUID) ([]*assignment.Assignment, error)

	// ExpireOpenOffersBefore closes every Offered row created before the cutoff
	// as Expired and returns the distinct order ids that were affected, so the
	// caller can check whether any round is now exhausted.
	ExpireOpenOffersBefore(ctx context.Context, cutoff time.Time) ([]kernel.UUID, error)
}

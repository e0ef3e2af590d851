package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetOrderAssignmentsQueryIsNotConstructed = errors.New(
	"GetOrderAssignmentsQuery must be created via NewGetOrderAssignmentsQuery constructor",
)

// GetOrderAssignmentsQuery retrieves the offer history of one order across
// all assignment rounds, for support tooling and the manual review screen.
type GetOrderAssignmentsQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

// NewGetOrderAssignmentsQuery creates a history query for one order.
func NewGetOrderAssignmentsQuery(orderID kernel.UUID) (GetOrderAssignmentsQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderAssignmentsQuery{}, err
	}
	return GetOrderAssignmentsQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the order whose history is requested.
func (q GetOrderAssignmentsQuery) OrderID() kernel.UUID {
	return q.orderID
}

// Validate ensures the query was created through the constructor.
func (q GetOrderAssignmentsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderAssignmentsQueryIsNotConstructed)
}

// GetOrderAssignmentsQueryResponse is one offer row in the order's history.
type GetOrderAssignmentsQueryResponse struct {
	ID          kernel.UUID
	WorkerID    kernel.UUID
	Round       int
	Status      string
	OfferedAt   time.Time
	RespondedAt *time.Time
}

package commands

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrRespondToOfferCommandIsNotConstructed = errors.New(
		"RespondToOfferCommand must be created via NewRespondToOfferCommand constructor",
	)

	// ErrOfferConflict is returned when the response lost a race: the offer was
	// already resolved, or another worker's acceptance was recorded first.
	// First acceptance wins; everything after it receives this conflict.
	ErrOfferConflict = errors.New("offer was already resolved")

	// ErrOrderClosed is returned when responding to an order that left the
	// pipeline, for example through cancellation. Outstanding offers of a
	// cancelled order are ignored, never acted upon.
	ErrOrderClosed = errors.New("order is no longer accepting responses")

	// ErrWorkerAtCapacity is returned when an acceptance would exceed the
	// worker's concurrency limit. The capacity check happens atomically at
	// acceptance time, which makes the selector's soft limit a hard one.
	ErrWorkerAtCapacity = errors.New("worker is at capacity")
)

// Decision is a worker's answer to an offer.
type Decision int

const (
	// DecisionUnknown represents an invalid or undefined decision.
	DecisionUnknown Decision = iota

	// DecisionAccept takes the job.
	DecisionAccept

	// DecisionDecline turns the offer down.
	DecisionDecline
)

// DecisionFromString parses the wire form of a decision.
func DecisionFromString(s string) (Decision, error) {
	switch s {
	case "accept":
		return DecisionAccept, nil
	case "decline":
		return DecisionDecline, nil
	default:
		return DecisionUnknown, errs.NewValueIsInvalidErrorWithCause("decision",
			fmt.Errorf("%q is not a valid decision", s))
	}
}

// String returns the wire form of the decision.
func (d Decision) String() string {
	switch d {
	case DecisionAccept:
		return "accept"
	case DecisionDecline:
		return "decline"
	default:
		return "unknown"
	}
}

// Validate checks that the decision is one of the defined values.
func (d Decision) Validate() error {
	if d != DecisionAccept && d != DecisionDecline {
		return errs.NewValueIsInvalidErrorWithCause("decision",
			fmt.Errorf("%d is not a valid decision", d))
	}
	return nil
}

// RespondToOfferCommand records a worker's answer to their own open offer.
type RespondToOfferCommand struct {
	orderID  kernel.UUID
	workerID kernel.UUID
	decision Decision
	guard    guard.ConstructorGuard
}

// NewRespondToOfferCommand creates a response for the given order/worker pair.
func NewRespondToOfferCommand(orderID, workerID kernel.UUID, decision Decision) (RespondToOfferCommand, error) {
	if err := orderID.Validate(); err != nil {
		return RespondToOfferCommand{}, err
	}
	if err := workerID.Validate(); err != nil {
		return RespondToOfferCommand{}, err
	}
	if err := decision.Validate(); err != nil {
		return RespondToOfferCommand{}, err
	}
	return RespondToOfferCommand{
		orderID:  orderID,
		workerID: workerID,
		decision: decision,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the order being responded to.
func (c RespondToOfferCommand) OrderID() kernel.UUID {
	return c.orderID
}

// WorkerID returns the responding worker.
func (c RespondToOfferCommand) WorkerID() kernel.UUID {
	return c.workerID
}

// Decision returns the worker's answer.
func (c RespondToOfferCommand) Decision() Decision {
	return c.decision
}

// Validate ensures the command was created through the constructor.
func (c RespondToOfferCommand) Validate() error {
	return c.guard.Validate(ErrRespondToOfferCommandIsNotConstructed)
}

// RespondToOfferResult reports the state after a response was recorded.
type RespondToOfferResult struct {
	// OrderStatus is the order's assignment status after the response.
	OrderStatus order.AssignmentStatus

	// OfferStatus is the responding worker's offer status after the response.
	OfferStatus assignment.Status

	// ReassignmentTriggered is set when this decline exhausted the round and
	// a reassignment attempt was started.
	ReassignmentTriggered bool
}

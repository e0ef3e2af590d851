// Package assignment contains the Assignment aggregate: one row per candidate
// per assignment round, recording a single worker's offer for a single order
// and how that offer ended.
package assignment

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	// ErrAssignmentIsNotConstructed is returned when using an improperly initialized Assignment.
	ErrAssignmentIsNotConstructed = errors.New("Assignment must be created via NewAssignment or RestoreAssignment constructor")

	// ErrAlreadyResponded is returned when transitioning an offer that already
	// reached a terminal state. The first response wins; everything after it
	// is a conflict.
	ErrAlreadyResponded = errors.New("offer has already been responded to or closed")
)

// Assignment is one worker's offer for one order within one assignment round.
// Created in Offered state by the coordinator; moved to exactly one terminal
// state by a worker response, the expiry sweep, or a sibling's acceptance.
type Assignment struct {
	id          kernel.UUID
	orderID     kernel.UUID
	workerID    kernel.UUID
	round       int
	status      Status
	offeredAt   time.Time
	respondedAt *time.Time
	guard       guard.ConstructorGuard
}

// NewAssignment creates a fresh offer in the given round.
// Rounds are numbered from 1.
func NewAssignment(id, orderID, workerID kernel.UUID, round int, offeredAt time.Time) (*Assignment, error) {
	if round < 1 {
		return nil, errs.NewValueIsInvalidErrorWithCause("round",
			fmt.Errorf("%d is not a valid round number", round))
	}
	return RestoreAssignment(id, orderID, workerID, round, StatusOffered, offeredAt, nil)
}

// RestoreAssignment reconstructs an Assignment from persistence.
func RestoreAssignment(
	id, orderID, workerID kernel.UUID,
	round int,
	status Status,
	offeredAt time.Time,
	respondedAt *time.Time,
) (*Assignment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if err := workerID.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if round < 1 {
		return nil, errs.NewValueIsInvalidErrorWithCause("round",
			fmt.Errorf("%d is not a valid round number", round))
	}

	return &Assignment{
		id:          id,
		orderID:     orderID,
		workerID:    workerID,
		round:       round,
		status:      status,
		offeredAt:   offeredAt,
		respondedAt: respondedAt,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Assignment was created through a constructor.
func (a *Assignment) Validate() error {
	if a == nil {
		return ErrAssignmentIsNotConstructed
	}
	return a.guard.Validate(ErrAssignmentIsNotConstructed)
}

// ID returns the assignment's unique identifier.
func (a *Assignment) ID() kernel.UUID {
	return a.id
}

// OrderID returns the order this offer belongs to.
func (a *Assignment) OrderID() kernel.UUID {
	return a.orderID
}

// WorkerID returns the invited worker.
func (a *Assignment) WorkerID() kernel.UUID {
	return a.workerID
}

// Round returns the assignment round this offer was created in, starting at 1.
func (a *Assignment) Round() int {
	return a.round
}

// Status returns the offer's current state.
func (a *Assignment) Status() Status {
	return a.status
}

// OfferedAt returns when the offer was created.
func (a *Assignment) OfferedAt() time.Time {
	return a.offeredAt
}

// RespondedAt returns when the offer reached a terminal state, or nil while open.
func (a *Assignment) RespondedAt() *time.Time {
	return a.respondedAt
}

// IsOpen reports whether the worker may still respond.
func (a *Assignment) IsOpen() bool {
	return a.status == StatusOffered
}

// Accept closes the offer as taken by the worker.
func (a *Assignment) Accept() error {
	return a.close(StatusAccepted)
}

// Decline closes the offer as turned down by the worker.
func (a *Assignment) Decline() error {
	return a.close(StatusDeclined)
}

// Expire closes the offer after the response window elapsed.
func (a *Assignment) Expire() error {
	return a.close(StatusExpired)
}

// Supersede closes the offer because a sibling was accepted first.
func (a *Assignment) Supersede() error {
	return a.close(StatusSuperseded)
}

func (a *Assignment) close(terminal Status) error {
	if a.status != StatusOffered {
		return ErrAlreadyResponded
	}
	now := time.Now().UTC()
	a.status = terminal
	a.respondedAt = &now
	return nil
}

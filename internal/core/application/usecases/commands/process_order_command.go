package commands

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrProcessOrderCommandIsNotConstructed = errors.New(
	"ProcessOrderCommand must be created via NewProcessOrderCommand constructor",
)

// ProcessOrderCommand triggers the assignment pipeline for one order.
// The same command serves both entry points: the payment-confirmation event
// and a manual retry. Processing is idempotent, so firing it twice for the
// same order is safe.
//
// Example:
//
//	cmd, err := NewProcessOrderCommand(orderID)
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    // Fatal: unknown order or storage failure
//	    return err
//	}
//	if !result.Success {
//	    log.Printf("terminal outcome: %s", result.Message)
//	}
type ProcessOrderCommand struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

// NewProcessOrderCommand creates a trigger for the given order.
func NewProcessOrderCommand(orderID kernel.UUID) (ProcessOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ProcessOrderCommand{}, err
	}
	return ProcessOrderCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the order to process.
func (c ProcessOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Validate ensures the command was created through the constructor.
func (c ProcessOrderCommand) Validate() error {
	return c.guard.Validate(ErrProcessOrderCommandIsNotConstructed)
}

// ProcessOrderResult is the envelope every trigger caller receives: a success
// envelope with the number of offers created, a structured terminal-state
// message, or (as the handler's returned error) a fatal failure. There is no
// silent no-op.
type ProcessOrderResult struct {
	// Success is false exactly for the terminal business failure outcomes.
	Success bool

	// AssignedCount is the number of offers created by this trigger.
	AssignedCount int

	// Status is the order's assignment status after the trigger.
	Status order.AssignmentStatus

	// Message describes the outcome for terminal failures and no-ops.
	Message string
}

// existingStatusResult is the idempotent no-op envelope: the trigger found the
// order already past the guard and reports the existing status unchanged.
func existingStatusResult(status order.AssignmentStatus) ProcessOrderResult {
	return ProcessOrderResult{
		Success: !status.IsFailure(),
		Status:  status,
		Message: fmt.Sprintf("order already in assignment status %s", status),
	}
}

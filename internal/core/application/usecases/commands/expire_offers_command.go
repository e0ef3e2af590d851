package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrExpireOffersCommandIsNotConstructed = errors.New(
	"ExpireOffersCommand must be created via NewExpireOffersCommand constructor",
)

// ExpireOffersCommand sweeps open offers whose response window elapsed.
// Carries no payload: the cutoff is derived from the configured offer TTL at
// handling time.
type ExpireOffersCommand struct {
	guard guard.ConstructorGuard
}

// NewExpireOffersCommand creates a sweep trigger.
func NewExpireOffersCommand() (ExpireOffersCommand, error) {
	return ExpireOffersCommand{guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c ExpireOffersCommand) Validate() error {
	return c.guard.Validate(ErrExpireOffersCommandIsNotConstructed)
}

// ExpireOffersResult reports one sweep's effects.
type ExpireOffersResult struct {
	// AffectedOrders is the number of orders that had at least one offer expire.
	AffectedOrders int

	// ExhaustedOrders is the number of orders whose round was fully exhausted
	// by this sweep and moved to expired_all for reassignment.
	ExhaustedOrders int
}

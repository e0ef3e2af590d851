package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand registers a new service order. The order enters the
// pipeline with payment pending; it becomes dispatchable only after the
// payment confirmation arrives.
type CreateOrderCommand struct {
	orderID     kernel.UUID
	region      kernel.RegionCode
	serviceType string
	guard       guard.ConstructorGuard
}

// NewCreateOrderCommand creates an order registration.
func NewCreateOrderCommand(orderID kernel.UUID, region kernel.RegionCode, serviceType string) (CreateOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return CreateOrderCommand{}, err
	}
	if err := region.Validate(); err != nil {
		return CreateOrderCommand{}, err
	}
	if serviceType == "" {
		return CreateOrderCommand{}, errs.NewValueIsRequiredError("service type")
	}
	return CreateOrderCommand{
		orderID:     orderID,
		region:      region,
		serviceType: serviceType,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the new order's identifier.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Region returns the region the order must be served in.
func (c CreateOrderCommand) Region() kernel.RegionCode {
	return c.region
}

// ServiceType returns the requested service type.
func (c CreateOrderCommand) ServiceType() string {
	return c.serviceType
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

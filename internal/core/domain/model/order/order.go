package order

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrServiceTypeIsRequired is returned when creating an order without a service type.
	ErrServiceTypeIsRequired = errs.NewValueIsRequiredError("service type")
)

// Order is the aggregate root of the dispatch pipeline. It carries two
// independent lifecycles: the payment Status, owned by the payment collaborator,
// and the AssignmentStatus, owned exclusively by the dispatch coordinator.
//
// Invariants:
//   - Must have a valid unique identifier and region
//   - Service type must be non-empty
//   - Both statuses only transition along their defined graphs
//   - A cancelled order never re-enters the assignment pipeline
type Order struct {
	id               kernel.UUID
	status           Status
	assignmentStatus AssignmentStatus
	region           kernel.RegionCode
	serviceType      string
	createdAt        time.Time
	isConstructed    bool
}

// NewOrder creates a new Order with payment status Pending and assignment
// status Pending. All parameters are validated.
func NewOrder(id kernel.UUID, region kernel.RegionCode, serviceType string) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := region.Validate(); err != nil {
		return nil, err
	}
	if serviceType == "" {
		return nil, ErrServiceTypeIsRequired
	}

	return &Order{
		id:               id,
		status:           StatusPending,
		assignmentStatus: AssignmentPending,
		region:           region,
		serviceType:      serviceType,
		createdAt:        time.Now().UTC(),
		isConstructed:    true,
	}, nil
}

// RestoreOrder reconstructs an Order from persistence.
// Both statuses are validated but no transition rules are applied,
// since the persisted state already passed them when it was written.
func RestoreOrder(
	id kernel.UUID,
	status Status,
	assignmentStatus AssignmentStatus,
	region kernel.RegionCode,
	serviceType string,
	createdAt time.Time,
) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if err := assignmentStatus.Validate(); err != nil {
		return nil, err
	}
	if err := region.Validate(); err != nil {
		return nil, err
	}
	if serviceType == "" {
		return nil, ErrServiceTypeIsRequired
	}

	return &Order{
		id:               id,
		status:           status,
		assignmentStatus: assignmentStatus,
		region:           region,
		serviceType:      serviceType,
		createdAt:        createdAt,
		isConstructed:    true,
	}, nil
}

// Validate ensures the Order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Status returns the payment lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// AssignmentStatus returns the position in the assignment pipeline.
func (o *Order) AssignmentStatus() AssignmentStatus {
	return o.assignmentStatus
}

// Region returns the region the order must be served in.
func (o *Order) Region() kernel.RegionCode {
	return o.region
}

// ServiceType returns the requested service type.
func (o *Order) ServiceType() string {
	return o.serviceType
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// IsDispatchable reports whether the payment lifecycle permits assignment
// processing. Only confirmed orders flow through the pipeline; a cancelled
// order never resumes, even with offers still outstanding.
func (o *Order) IsDispatchable() bool {
	return o.status == StatusConfirmed
}

// ConfirmPayment records payment capture. Valid only from payment status Pending.
func (o *Order) ConfirmPayment() error {
	newStatus, err := o.status.Confirm()
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

// BeginAssignmentRound transitions the assignment status to Assigned,
// starting the first round (from Pending) or a reassignment round (from ExpiredAll).
func (o *Order) BeginAssignmentRound() error {
	newStatus, err := o.assignmentStatus.TransitionTo(AssignmentAssigned)
	if err != nil {
		return err
	}
	o.assignmentStatus = newStatus
	return nil
}

// AcceptAssignment records that a worker accepted an offer.
// Valid only while a round is outstanding (Assigned).
func (o *Order) AcceptAssignment() error {
	newStatus, err := o.assignmentStatus.TransitionTo(AssignmentAccepted)
	if err != nil {
		return err
	}
	o.assignmentStatus = newStatus
	return nil
}

// ExhaustAssignmentRound records that every offer in the current round was
// declined or expired, making the order eligible for reassignment.
func (o *Order) ExhaustAssignmentRound() error {
	newStatus, err := o.assignmentStatus.TransitionTo(AssignmentExpiredAll)
	if err != nil {
		return err
	}
	o.assignmentStatus = newStatus
	return nil
}

// FailAssignment moves the order to one of the terminal failure outcomes:
// NoWorkersAvailable, WorkersOverbooked or ManualReview.
func (o *Order) FailAssignment(outcome AssignmentStatus) error {
	if !outcome.IsFailure() {
		return errs.NewValueIsInvalidError("assignment failure outcome")
	}
	newStatus, err := o.assignmentStatus.TransitionTo(outcome)
	if err != nil {
		return err
	}
	o.assignmentStatus = newStatus
	return nil
}

// Cancel takes the order out of the pipeline. The payment status moves to
// Cancelled, and the assignment status follows unless it already reached a
// terminal state. Outstanding offers are left in place; further processing
// ignores them because the order is no longer dispatchable.
func (o *Order) Cancel() error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}
	o.status = newStatus

	if !o.assignmentStatus.IsTerminal() {
		cancelled, transitionErr := o.assignmentStatus.TransitionTo(AssignmentCancelled)
		if transitionErr != nil {
			return transitionErr
		}
		o.assignmentStatus = cancelled
	}
	return nil
}

// Complete marks the accepted job as delivered: payment status Completed,
// assignment status Completed. Valid only from Confirmed/Accepted.
func (o *Order) Complete() error {
	newAssignment, err := o.assignmentStatus.TransitionTo(AssignmentCompleted)
	if err != nil {
		return err
	}

	newStatus, err := o.status.Complete()
	if err != nil {
		return err
	}

	o.assignmentStatus = newAssignment
	o.status = newStatus
	return nil
}

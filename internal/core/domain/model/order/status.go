package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the payment lifecycle of an order.
// It is mutated by the payment collaborator (confirmation) and by the
// cancellation and completion commands; the dispatch pipeline only reads it.
//
// State transitions:
//
//	Pending ──> Confirmed ──┬──> Completed
//	    │           │
//	    └───────────┴──> Cancelled
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusPending is the initial status while payment is outstanding.
	StatusPending

	// StatusConfirmed indicates payment has been captured.
	// Only confirmed orders enter the assignment pipeline.
	StatusConfirmed

	// StatusCancelled indicates the order was cancelled. Final.
	StatusCancelled

	// StatusCompleted indicates the service was delivered. Final.
	StatusCompleted
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:   "Unknown",
		StatusPending:   "Pending",
		StatusConfirmed: "Confirmed",
		StatusCancelled: "Cancelled",
		StatusCompleted: "Completed",
	}
}

// Validate checks if the Status value is one of the defined statuses.
// StatusUnknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements fmt.Stringer and is safe on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// StatusFromString parses the stored name of a status.
func StatusFromString(name string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == name && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
		fmt.Errorf("%q is not a valid status", name))
}

// IsFinal reports whether the payment lifecycle has ended.
func (s Status) IsFinal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Confirm transitions the status to Confirmed.
// Valid only from Pending.
func (s Status) Confirm() (Status, error) {
	if s != StatusPending {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to confirm", s))
	}
	return StatusConfirmed, nil
}

// Cancel transitions the status to Cancelled.
// Valid from Pending and Confirmed; final statuses cannot be cancelled.
func (s Status) Cancel() (Status, error) {
	if s != StatusPending && s != StatusConfirmed {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to cancel", s))
	}
	return StatusCancelled, nil
}

// Complete transitions the status to Completed.
// Valid only from Confirmed.
func (s Status) Complete() (Status, error) {
	if s != StatusConfirmed {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to complete", s))
	}
	return StatusCompleted, nil
}

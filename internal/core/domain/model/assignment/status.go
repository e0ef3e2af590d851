package assignment

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle of a single offer.
// Offered is the only non-terminal state; each terminal transition records how
// the offer ended.
//
// State transitions:
//
//	Offered ──> Accepted | Declined | Expired | Superseded
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusOffered means the worker has been invited and has not responded.
	StatusOffered

	// StatusAccepted means the worker took the job. At most one offer per
	// order ends in this state.
	StatusAccepted

	// StatusDeclined means the worker turned the offer down.
	StatusDeclined

	// StatusExpired means the offer window elapsed without a response.
	StatusExpired

	// StatusSuperseded means a sibling offer was accepted first; this offer is
	// excluded from any further processing.
	StatusSuperseded
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:    "Unknown",
		StatusOffered:    "Offered",
		StatusAccepted:   "Accepted",
		StatusDeclined:   "Declined",
		StatusExpired:    "Expired",
		StatusSuperseded: "Superseded",
	}
}

// Validate checks if the Status value is one of the defined statuses.
func (s Status) Validate() error {
	if s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("offer status is invalid",
			fmt.Errorf("%d is not a valid offer status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("offer status is invalid",
			fmt.Errorf("%d is not a valid offer status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// StatusFromString parses the stored name of an offer status.
func StatusFromString(name string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == name && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("offer status is invalid",
		fmt.Errorf("%q is not a valid offer status", name))
}

// IsTerminal reports whether the offer has ended.
func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusDeclined || s == StatusExpired || s == StatusSuperseded
}

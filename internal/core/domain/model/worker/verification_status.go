package worker

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// VerificationStatus represents the outcome of a worker's vetting process.
// Only approved workers are eligible to receive offers.
type VerificationStatus int

const (
	// VerificationUnknown represents an invalid or undefined verification status.
	VerificationUnknown VerificationStatus = iota

	// VerificationPending means vetting has not finished yet.
	VerificationPending

	// VerificationApproved means the worker passed vetting.
	VerificationApproved

	// VerificationRejected means the worker failed vetting.
	VerificationRejected
)

func getVerificationStatusStrings() map[VerificationStatus]string {
	return map[VerificationStatus]string{
		VerificationUnknown:  "Unknown",
		VerificationPending:  "Pending",
		VerificationApproved: "Approved",
		VerificationRejected: "Rejected",
	}
}

// Validate checks if the VerificationStatus value is one of the defined statuses.
func (s VerificationStatus) Validate() error {
	if s == VerificationUnknown {
		return errs.NewValueIsInvalidErrorWithCause("verification status is invalid",
			fmt.Errorf("%d is not a valid verification status", s))
	}
	if _, ok := getVerificationStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("verification status is invalid",
			fmt.Errorf("%d is not a valid verification status", s))
	}
	return nil
}

// String returns the human-readable name of the verification status.
func (s VerificationStatus) String() string {
	if str, ok := getVerificationStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// VerificationStatusFromString parses the stored name of a verification status.
func VerificationStatusFromString(name string) (VerificationStatus, error) {
	for status, str := range getVerificationStatusStrings() {
		if str == name && status != VerificationUnknown {
			return status, nil
		}
	}
	return VerificationUnknown, errs.NewValueIsInvalidErrorWithCause("verification status is invalid",
		fmt.Errorf("%q is not a valid verification status", name))
}

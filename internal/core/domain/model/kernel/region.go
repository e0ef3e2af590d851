package kernel

import (
	"strings"

	"dispatch/internal/pkg/errs"
)

// ErrRegionCodeIsRequired indicates that a region code was empty or blank.
var ErrRegionCodeIsRequired = errs.NewValueIsRequiredError("region code")

// RegionCode is a value object identifying a service region, such as a postal
// prefix ("10001") or a city district code. Orders carry the region they must
// be served in, and workers carry the set of regions they cover.
//
// The zero value is invalid; construct through NewRegionCode.
type RegionCode struct {
	code string
}

// NewRegionCode creates a RegionCode from its string form.
// Leading and trailing whitespace is trimmed; a blank code is rejected.
func NewRegionCode(code string) (RegionCode, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return RegionCode{}, ErrRegionCodeIsRequired
	}
	return RegionCode{code: trimmed}, nil
}

// String returns the string form of the region code.
func (r RegionCode) String() string {
	return r.code
}

// IsEqual compares two region codes by value.
func (r RegionCode) IsEqual(other RegionCode) bool {
	return r.code == other.code
}

// Validate checks that the region code was created through NewRegionCode.
func (r RegionCode) Validate() error {
	if r.code == "" {
		return ErrRegionCodeIsRequired
	}
	return nil
}

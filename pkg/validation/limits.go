package validation

import (
	"fmt"

	dErrors "consentsync/pkg/domain-errors"
)

// MaxBodySize caps JSON request bodies (16 KB). Consent writes carry a single status.
const MaxBodySize = 16 * 1024

const (
	// MaxPermissionIDLength bounds platform permission identifiers such as
	// "NSLocationAlwaysAndWhenInUseUsageDescription".
	MaxPermissionIDLength = 128

	// MaxLocationCodeLength bounds the banner location code (ISO region or subdivision).
	MaxLocationCodeLength = 8

	MaxSubjectIDLength = 256
)

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}

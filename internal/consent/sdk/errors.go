package sdk

import (
	"fmt"

	dErrors "consentsync/pkg/domain-errors"
)

// ErrNotReady is returned by calls issued before the SDK signalled readiness.
var ErrNotReady = dErrors.New(dErrors.CodeNotReady, "consent sdk is not ready")

// Unavailable wraps an SDK-side failure for op. Domain codes already present in
// err are preserved.
func Unavailable(op string, err error) error {
	return dErrors.Wrap(err, dErrors.CodeSDKUnavailable, fmt.Sprintf("consent sdk %s failed", op))
}

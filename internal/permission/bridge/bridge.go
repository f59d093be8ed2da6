// Package bridge exposes OS-level permission operations to the coordinator.
//
// Implementations never return errors. Failures degrade to
// models.PermissionNotAvailable or false so callers can always render a result.
package bridge

//go:generate mockgen -source=bridge.go -destination=mocks/mocks.go -package=mocks Bridge

import (
	"context"

	"consentsync/internal/consent/models"
)

// Bridge is the capability interface over the native permission module.
type Bridge interface {
	// Check reports the current OS status for a permission id.
	Check(ctx context.Context, permissionID string) models.PermissionStatus
	// Request triggers the OS prompt when the status is undetermined.
	Request(ctx context.Context, permissionID string) models.PermissionResult
	// OpenSettings opens the app's page in the system settings.
	OpenSettings(ctx context.Context) bool
	// Name identifies the implementation selected at startup.
	Name() string
}

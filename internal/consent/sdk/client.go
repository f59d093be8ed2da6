// Package sdk defines the contract of the external consent-management SDK.
//
// The SDK is an opaque collaborator: consent-set calls only report whether the
// change was accepted, and the SDK applies it asynchronously without a completion
// signal. Callers must re-fetch before trusting any status.
//
// Implementations:
//   - remote.Client: talks to the consent platform over HTTP
//   - simulator.Simulator: in-process SDK for testing mode and tests
package sdk

//go:generate mockgen -source=client.go -destination=mocks/mocks.go -package=mocks Client

import (
	"context"

	"consentsync/internal/consent/models"
)

// BannerOptions narrows the banner configuration lookup.
type BannerOptions struct {
	LocationCode string `json:"location_code,omitempty"`
}

// Client is the function-call surface of the consent SDK.
type Client interface {
	// Initialize configures the SDK. Readiness is reported later via IsReady/OnReady.
	Initialize(ctx context.Context, opts Options) error
	IsReady() bool
	// OnReady registers a callback fired once the SDK finishes initializing.
	// If the SDK is already ready the callback fires immediately.
	OnReady(callback func(ready bool))

	PresentConsentBanner(ctx context.Context) error
	PresentPreferenceCenter(ctx context.Context) error
	ResetConsents(ctx context.Context) error

	GetPurposes(ctx context.Context) ([]*models.Purpose, error)
	GetPermissions(ctx context.Context) ([]*models.AppPermission, error)
	GetSDKsInPurpose(ctx context.Context, purposeID int64) ([]models.SDK, error)
	GetConsentByPurposeID(ctx context.Context, purposeID int64) (models.ConsentStatus, error)
	GetConsentByPermissionID(ctx context.Context, permissionID string) (models.ConsentStatus, error)

	// SetPurposeConsent and SetPermissionConsent return the SDK's acceptance flag,
	// not confirmation that the status was applied.
	SetPurposeConsent(ctx context.Context, purpose models.Purpose, status models.ConsentStatus) (bool, error)
	SetPermissionConsent(ctx context.Context, permission models.AppPermission, status models.ConsentStatus) (bool, error)

	GetBannerConfig(ctx context.Context, opts *BannerOptions) (models.BannerConfig, error)
	GetSettingsPrompt(ctx context.Context) (models.SettingsPrompt, error)
	Options() Options
}

package bridge

import (
	"context"
	"log/slog"

	"consentsync/internal/consent/models"
)

const (
	noteNativeUnavailable = "Native module not available"
	noteAndroidSettings   = "Android always goes to settings"
)

// Fallback is used when no native module is reachable. Status checks report
// not_available and prompts degrade to opening settings.
type Fallback struct {
	platform models.Platform
	logger   *slog.Logger
}

// NewFallback creates the degraded bridge for platform.
func NewFallback(platform models.Platform, logger *slog.Logger) *Fallback {
	return &Fallback{platform: platform, logger: logger}
}

func (f *Fallback) Name() string { return "fallback" }

func (f *Fallback) Check(ctx context.Context, permissionID string) models.PermissionStatus {
	f.warn(ctx, "native permission check unavailable", "permission_id", permissionID)
	return models.PermissionNotAvailable
}

func (f *Fallback) Request(ctx context.Context, permissionID string) models.PermissionResult {
	f.warn(ctx, "native permission request unavailable, opening settings", "permission_id", permissionID)
	f.OpenSettings(ctx)

	note := noteNativeUnavailable
	if f.platform == models.PlatformAndroid {
		note = noteAndroidSettings
	}
	return models.PermissionResult{
		Status: models.PermissionNotAvailable,
		Note:   note,
	}
}

func (f *Fallback) OpenSettings(ctx context.Context) bool {
	f.warn(ctx, "cannot open system settings without native module")
	return false
}

func (f *Fallback) warn(ctx context.Context, msg string, args ...any) {
	if f.logger == nil {
		return
	}
	f.logger.WarnContext(ctx, msg, append(args, "bridge", f.Name(), "platform", string(f.platform))...)
}

var _ Bridge = (*Fallback)(nil)

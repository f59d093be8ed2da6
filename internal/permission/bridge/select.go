package bridge

import (
	"log/slog"
	"time"

	"consentsync/internal/consent/models"
)

// SelectConfig decides which bridge backs the coordinator.
type SelectConfig struct {
	Platform        models.Platform
	NativeModuleURL string
	Timeout         time.Duration
	Logger          *slog.Logger
}

// Select picks the bridge once at startup. A configured native module URL
// selects NativeModule; otherwise the Fallback is used for the whole run.
func Select(cfg SelectConfig) Bridge {
	if cfg.NativeModuleURL != "" {
		if cfg.Logger != nil {
			cfg.Logger.Info("native permission module configured", "url", cfg.NativeModuleURL)
		}
		return NewNativeModule(NativeConfig{
			BaseURL: cfg.NativeModuleURL,
			Timeout: cfg.Timeout,
			Logger:  cfg.Logger,
		})
	}
	if cfg.Logger != nil {
		cfg.Logger.Warn("native permission module not available, using fallback bridge",
			"platform", string(cfg.Platform),
		)
	}
	return NewFallback(cfg.Platform, cfg.Logger)
}

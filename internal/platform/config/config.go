package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"consentsync/internal/consent/models"
	"consentsync/internal/consent/sdk"
	dErrors "consentsync/pkg/domain-errors"
)

// SDK backends selectable at startup.
const (
	SDKModeSimulator = "simulator"
	SDKModeRemote    = "remote"
)

const (
	defaultAddr        = ":8080"
	defaultSettleDelay = 500 * time.Millisecond
	defaultAuditBuffer = 256
)

// Server captures process level configuration.
type Server struct {
	Addr              string
	Environment       string
	Platform          models.Platform
	SettleDelay       time.Duration
	NativeModuleURL   string
	SDKMode           string
	ShowBannerOnReady bool
	LogLevel          string
	SDKOptionsFile    string
	AuditBuffer       int
}

// LoadDotEnv loads the given .env files into the environment. Missing files are
// ignored so production can rely on real environment variables; a file that
// exists but does not parse is an error.
func LoadDotEnv(files ...string) error {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid .env file: "+err.Error())
	}
	return nil
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:              envOr("CONSENTSYNC_ADDR", defaultAddr),
		Environment:       envOr("CONSENTSYNC_ENV", "development"),
		Platform:          models.Platform(strings.ToLower(envOr("CONSENTSYNC_PLATFORM", string(models.PlatformIOS)))),
		SettleDelay:       defaultSettleDelay,
		NativeModuleURL:   os.Getenv("CONSENTSYNC_NATIVE_MODULE_URL"),
		SDKMode:           strings.ToLower(envOr("CONSENTSYNC_SDK_MODE", SDKModeSimulator)),
		ShowBannerOnReady: true,
		LogLevel:          envOr("CONSENTSYNC_LOG_LEVEL", "info"),
		SDKOptionsFile:    os.Getenv("CONSENTSYNC_SDK_OPTIONS_FILE"),
		AuditBuffer:       defaultAuditBuffer,
	}

	if !cfg.Platform.IsValid() {
		return Server{}, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unsupported platform %q", cfg.Platform))
	}
	if cfg.SDKMode != SDKModeSimulator && cfg.SDKMode != SDKModeRemote {
		return Server{}, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unsupported sdk mode %q", cfg.SDKMode))
	}
	if v := os.Getenv("CONSENTSYNC_SETTLE_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Server{}, dErrors.New(dErrors.CodeValidation, "CONSENTSYNC_SETTLE_DELAY must be a non-negative duration")
		}
		cfg.SettleDelay = d
	}
	if v := os.Getenv("CONSENTSYNC_SHOW_BANNER_ON_READY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Server{}, dErrors.New(dErrors.CodeValidation, "CONSENTSYNC_SHOW_BANNER_ON_READY must be a boolean")
		}
		cfg.ShowBannerOnReady = b
	}
	if v := os.Getenv("CONSENTSYNC_AUDIT_BUFFER"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Server{}, dErrors.New(dErrors.CodeValidation, "CONSENTSYNC_AUDIT_BUFFER must be a non-negative integer")
		}
		cfg.AuditBuffer = n
	}
	return cfg, nil
}

// DefaultSDKOptions returns the initialization record for platform. The two
// platforms differ only in app ids, endpoints and subject.
func DefaultSDKOptions(platform models.Platform) sdk.Options {
	opts := sdk.Options{
		TenantID:              "demo-tenant",
		TestingMode:           true,
		LoggerLevel:           sdk.LoggerLevelDebug,
		ConsentsCheckInterval: 3600,
		LanguageCode:          "en",
		LocationCode:          "US",
	}
	if platform == models.PlatformAndroid {
		opts.AppURL = "https://app.consent.local/android"
		opts.CdnURL = "https://cdn.consent.local/android"
		opts.AppID = "android-app"
		opts.SubjectID = "androidSubject"
		return opts
	}
	opts.AppURL = "https://app.consent.local/ios"
	opts.CdnURL = "https://cdn.consent.local/ios"
	opts.AppID = "ios-app"
	opts.SubjectID = "iosSubject"
	return opts
}

// LoadSDKOptions overlays the YAML file at path on the platform defaults.
// Environment references in the file are expanded before parsing.
func LoadSDKOptions(path string, platform models.Platform) (sdk.Options, error) {
	opts := DefaultSDKOptions(platform)
	if path == "" {
		return opts, opts.Validate()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return sdk.Options{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "failed to read sdk options file")
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), &opts); err != nil {
		return sdk.Options{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "failed to parse sdk options file")
	}
	if err := opts.Validate(); err != nil {
		return sdk.Options{}, err
	}
	return opts, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

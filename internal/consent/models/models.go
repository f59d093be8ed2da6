package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ConsentStatus is the consent state the SDK reports for a purpose or permission.
// Only ConsentGranted and ConsentDeclined may be set; ConsentUnknown is the read
// state before any data has been loaded.
type ConsentStatus string

const (
	ConsentGranted  ConsentStatus = "granted"
	ConsentDeclined ConsentStatus = "declined"
	ConsentUnknown  ConsentStatus = "unknown"
)

// IsSettable reports whether the status can be passed to a consent-set call.
func (c ConsentStatus) IsSettable() bool {
	return c == ConsentGranted || c == ConsentDeclined
}

func (c ConsentStatus) String() string {
	return string(c)
}

// ParseConsentStatus normalises an SDK or request value. Empty and unrecognised
// values read as ConsentUnknown.
func ParseConsentStatus(s string) ConsentStatus {
	switch ConsentStatus(strings.ToLower(strings.TrimSpace(s))) {
	case ConsentGranted:
		return ConsentGranted
	case ConsentDeclined:
		return ConsentDeclined
	default:
		return ConsentUnknown
	}
}

// SDK is a third-party SDK bundled under a purpose.
type SDK struct {
	ID        int64  `json:"sdk_id"`
	Name      string `json:"name"`
	Namespace string `json:"namespace,omitempty"`
}

// Purpose is a processing purpose defined on the consent platform. Purposes are
// never created locally; they are fetched and only mutated by consent-set calls.
type Purpose struct {
	ID            int64             `json:"purpose_id"`
	Names         map[string]string `json:"purpose_name,omitempty"`
	ConsentStatus ConsentStatus     `json:"consent_status"`
	SDKs          []SDK             `json:"sdks,omitempty"`
}

// DisplayName returns the localized name for lang, falling back to "Purpose <id>".
func (p Purpose) DisplayName(lang string) string {
	if name := p.Names[lang]; name != "" {
		return name
	}
	return fmt.Sprintf("Purpose %d", p.ID)
}

// AppPermission is an OS-level permission tracked by the consent platform.
// ID matches the platform permission key (e.g. NSCameraUsageDescription).
type AppPermission struct {
	ID            string           `json:"permission_id"`
	Name          string           `json:"name,omitempty"`
	ConsentStatus ConsentStatus    `json:"consent_status"`
	NativeStatus  PermissionStatus `json:"native_status,omitempty"`
}

// DisplayName returns Name, then ID, then a placeholder.
func (p AppPermission) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.ID != "" {
		return p.ID
	}
	return "Unknown Permission"
}

// ParsePurposeID parses a path parameter into a purpose identifier.
func ParsePurposeID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid purpose id %q", s)
	}
	return id, nil
}

// BannerConfig is the banner configuration served by the consent platform. Its
// layout is owned by the SDK, so fields are kept verbatim.
type BannerConfig map[string]any

// SettingsPrompt is the prompt shown before redirecting a user to OS settings.
type SettingsPrompt map[string]any

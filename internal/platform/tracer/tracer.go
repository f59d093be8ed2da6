// Package tracer provides a lightweight tracing abstraction for the coordinator.
//
// The interface keeps OpenTelemetry out of domain code. Implementations:
//   - NoopTracer: for tests
//   - OTelTracer: OpenTelemetry adapter for production
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span. A non-nil err marks the span as failed.
	// End must be called exactly once, typically via defer.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a new span; the returned context carries it to child calls.
	//
	// Example:
	//   ctx, span := t.Start(ctx, tracer.SpanSetPurposeConsent,
	//       tracer.Int64(tracer.AttrPurposeID, id),
	//   )
	//   defer span.End(err)
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// HashSubjectID returns a short SHA-256 digest of the consent subject so traces
// can be correlated without exposing the identifier.
func HashSubjectID(subjectID string) string {
	if subjectID == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(subjectID))
	return hex.EncodeToString(hash[:8])
}

// Span names used by the coordinator.
const (
	SpanLoadAll               = "consent.load_all"
	SpanFetchPurposes         = "consent.sdk.get_purposes"
	SpanFetchPermissions      = "consent.sdk.get_permissions"
	SpanSetPurposeConsent     = "consent.set_purpose"
	SpanSetPermissionConsent  = "consent.set_permission"
	SpanRefreshPermission     = "consent.refresh_permission"
	SpanRequestNative         = "permission.request_native"
	SpanResetConsents         = "consent.reset"
	SpanPresentBanner         = "consent.sdk.present_banner"
	SpanPresentPreferenceCntr = "consent.sdk.present_preference_center"
)

// Attribute keys used by the coordinator.
const (
	AttrSubject       = "subject.hash"
	AttrPurposeID     = "purpose.id"
	AttrPermissionID  = "permission.id"
	AttrConsentStatus = "consent.status"
	AttrAccepted      = "sdk.accepted"
	AttrPlatform      = "platform"
	AttrNativeStatus  = "native.status"
	AttrNativeRoute   = "native.route"
	AttrItemCount     = "items.count"
	AttrSettleDelayMs = "settle_delay_ms"
)

package models

// Audit event actions describe what operation occurred.
const (
	AuditActionPurposeConsentSet    = "purpose_consent_set"
	AuditActionPermissionConsentSet = "permission_consent_set"
	AuditActionConsentsReset        = "consents_reset"
	AuditActionNativePrompted       = "native_permission_prompted"
	AuditActionSettingsOpened       = "settings_opened"
)

// Audit event decisions record the outcome of the action.
const (
	AuditDecisionAccepted = "accepted" // SDK accepted the change (not a guarantee it applied)
	AuditDecisionRejected = "rejected" // SDK or user refused the change
	AuditDecisionFailed   = "failed"   // call errored before the SDK answered
)

// Audit event reasons explain why the action was taken.
const (
	AuditReasonUserInitiated  = "user_initiated"
	AuditReasonAlreadyDecided = "permission_already_determined"
	AuditReasonPlatformPolicy = "platform_settings_only"
)

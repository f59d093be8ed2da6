package handler

import (
	"consentsync/internal/audit"
	"consentsync/internal/consent/models"
)

// PermissionView is a cached permission plus whether it can be prompted natively.
type PermissionView struct {
	*models.AppPermission
	NativePrompt bool `json:"native_prompt"`
}

// StateResponse is the full coordinator view.
type StateResponse struct {
	Platform           models.Platform   `json:"platform"`
	SDKReady           bool              `json:"sdk_ready"`
	Loading            bool              `json:"loading"`
	UpdatingPermission string            `json:"updating_permission,omitempty"`
	Purposes           []*models.Purpose `json:"purposes"`
	Permissions        []PermissionView  `json:"permissions"`
	LastResponse       *models.Response  `json:"last_response,omitempty"`
}

type SDKStatusResponse struct {
	Ready bool `json:"ready"`
}

type PurposesResponse struct {
	Purposes []*models.Purpose `json:"purposes"`
}

type PermissionsResponse struct {
	Permissions []PermissionView `json:"permissions"`
}

type PurposeConsentResponse struct {
	PurposeID     int64                `json:"purpose_id"`
	ConsentStatus models.ConsentStatus `json:"consent_status"`
}

type PermissionConsentResponse struct {
	PermissionID  string               `json:"permission_id"`
	ConsentStatus models.ConsentStatus `json:"consent_status"`
	NativePrompt  bool                 `json:"native_prompt"`
}

type SDKsResponse struct {
	PurposeID int64        `json:"purpose_id"`
	SDKs      []models.SDK `json:"sdks"`
}

type AppStateResponse struct {
	State    models.AppState `json:"state"`
	Reloaded bool            `json:"reloaded"`
}

type AuditResponse struct {
	Events []audit.Event `json:"events"`
}

func toPermissionViews(permissions []*models.AppPermission) []PermissionView {
	views := make([]PermissionView, 0, len(permissions))
	for _, p := range permissions {
		views = append(views, PermissionView{AppPermission: p, NativePrompt: models.IsNativePermission(p.ID)})
	}
	return views
}

func toStateResponse(snap models.Snapshot) StateResponse {
	return StateResponse{
		Platform:           snap.Platform,
		SDKReady:           snap.SDKReady,
		Loading:            snap.Loading,
		UpdatingPermission: snap.UpdatingPermission,
		Purposes:           snap.Purposes,
		Permissions:        toPermissionViews(snap.Permissions),
		LastResponse:       snap.LastResponse,
	}
}

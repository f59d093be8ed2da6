// Package handler exposes the coordinator's actions as a JSON HTTP API. Each
// endpoint maps to one action of the consent demo screen.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"consentsync/internal/audit"
	"consentsync/internal/consent/models"
	"consentsync/internal/consent/sdk"
	"consentsync/internal/platform/middleware"
	dErrors "consentsync/pkg/domain-errors"
	"consentsync/pkg/platform/httputil"
	"consentsync/pkg/validation"
)

// Coordinator is the subset of coordinator operations the API serves.
type Coordinator interface {
	Snapshot() models.Snapshot
	IsReady() bool
	Purpose(id int64) (models.Purpose, bool)
	Permission(id string) (models.AppPermission, bool)

	ShowBanner(ctx context.Context) error
	ShowPreferenceCenter(ctx context.Context) error
	ResetConsents(ctx context.Context) (*models.Response, error)
	FetchPurposes(ctx context.Context) ([]*models.Purpose, error)
	FetchPermissions(ctx context.Context) ([]*models.AppPermission, error)
	ConsentForPurpose(ctx context.Context, purposeID int64) (models.ConsentStatus, error)
	ConsentForPermission(ctx context.Context, permissionID string) (models.ConsentStatus, error)
	SDKsInPurpose(ctx context.Context, purposeID int64) ([]models.SDK, error)
	SetPurposeConsent(ctx context.Context, purpose models.Purpose, status models.ConsentStatus) (*models.Response, error)
	SetPermissionConsent(ctx context.Context, permission models.AppPermission, status models.ConsentStatus) (*models.Response, error)
	RefreshPermission(ctx context.Context, permissionID string) error
	RequestNativePermission(ctx context.Context, permissionID string) (*models.Response, error)
	BannerConfig(ctx context.Context, locationCode string) (models.BannerConfig, error)
	SettingsPrompt(ctx context.Context) (models.SettingsPrompt, error)
	Options() sdk.Options
	HandleAppState(ctx context.Context, state models.AppState) (bool, error)
}

// AuditLister reads recorded audit events.
type AuditLister interface {
	List(ctx context.Context, subjectID string) ([]audit.Event, error)
}

type Handler struct {
	coordinator Coordinator
	auditor     AuditLister
	logger      *slog.Logger
}

// New creates a Handler. auditor may be nil, which disables the audit route.
func New(coordinator Coordinator, auditor AuditLister, logger *slog.Logger) *Handler {
	return &Handler{
		coordinator: coordinator,
		auditor:     auditor,
		logger:      logger,
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/state", h.HandleState)
	r.Get("/sdk/status", h.HandleSDKStatus)
	r.Post("/sdk/banner", h.HandleShowBanner)
	r.Post("/sdk/preference-center", h.HandleShowPreferenceCenter)
	r.Get("/sdk/options", h.HandleOptions)
	r.Get("/banner-config", h.HandleBannerConfig)
	r.Get("/settings-prompt", h.HandleSettingsPrompt)
	r.Post("/consents/reset", h.HandleResetConsents)
	r.Post("/lifecycle/app-state", h.HandleAppState)

	r.Get("/purposes", h.HandleListPurposes)
	r.Post("/purposes/refresh", h.HandleFetchPurposes)
	r.Get("/purposes/{purposeID}/consent", h.HandleGetPurposeConsent)
	r.Put("/purposes/{purposeID}/consent", h.HandleSetPurposeConsent)
	r.Get("/purposes/{purposeID}/sdks", h.HandleSDKsInPurpose)

	r.Get("/permissions", h.HandleListPermissions)
	r.Post("/permissions/refresh", h.HandleFetchPermissions)
	r.Get("/permissions/{permissionID}/consent", h.HandleGetPermissionConsent)
	r.Put("/permissions/{permissionID}/consent", h.HandleSetPermissionConsent)
	r.Post("/permissions/{permissionID}/refresh", h.HandleRefreshPermission)
	r.Post("/permissions/{permissionID}/request", h.HandleRequestNativePermission)

	if h.auditor != nil {
		r.Get("/audit", h.HandleListAudit)
	}
}

func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, toStateResponse(h.coordinator.Snapshot()))
}

func (h *Handler) HandleSDKStatus(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, SDKStatusResponse{Ready: h.coordinator.IsReady()})
}

func (h *Handler) HandleShowBanner(w http.ResponseWriter, r *http.Request) {
	h.present(w, r, "consent banner", h.coordinator.ShowBanner)
}

func (h *Handler) HandleShowPreferenceCenter(w http.ResponseWriter, r *http.Request) {
	h.present(w, r, "preference center", h.coordinator.ShowPreferenceCenter)
}

func (h *Handler) present(w http.ResponseWriter, r *http.Request, surface string, show func(context.Context) error) {
	ctx := r.Context()
	if err := show(ctx); err != nil {
		h.logger.ErrorContext(ctx, "failed to present "+surface,
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	h.writeLastResponse(w)
}

func (h *Handler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.coordinator.Options())
}

func (h *Handler) HandleBannerConfig(w http.ResponseWriter, r *http.Request) {
	location := strings.TrimSpace(r.URL.Query().Get("location"))
	if err := validation.CheckStringLength("location", location, validation.MaxLocationCodeLength); err != nil {
		httputil.WriteError(w, err)
		return
	}
	cfg, err := h.coordinator.BannerConfig(r.Context(), location)
	if err != nil {
		h.writeActionError(w, r, "failed to get banner config", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, cfg)
}

func (h *Handler) HandleSettingsPrompt(w http.ResponseWriter, r *http.Request) {
	prompt, err := h.coordinator.SettingsPrompt(r.Context())
	if err != nil {
		h.writeActionError(w, r, "failed to get settings prompt", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, prompt)
}

func (h *Handler) HandleResetConsents(w http.ResponseWriter, r *http.Request) {
	resp, err := h.coordinator.ResetConsents(r.Context())
	if err != nil {
		h.writeActionError(w, r, "failed to reset consents", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleAppState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndValidate[AppStateRequest](ctx, w, r, h.logger, middleware.GetRequestID(ctx))
	if !ok {
		return
	}
	state := models.AppState(req.State)
	reloaded, err := h.coordinator.HandleAppState(ctx, state)
	if err != nil {
		h.writeActionError(w, r, "failed to reload after app state change", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, AppStateResponse{State: state, Reloaded: reloaded})
}

func (h *Handler) HandleListPurposes(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, PurposesResponse{Purposes: h.coordinator.Snapshot().Purposes})
}

func (h *Handler) HandleFetchPurposes(w http.ResponseWriter, r *http.Request) {
	purposes, err := h.coordinator.FetchPurposes(r.Context())
	if err != nil {
		h.writeActionError(w, r, "failed to fetch purposes", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, PurposesResponse{Purposes: purposes})
}

func (h *Handler) HandleGetPurposeConsent(w http.ResponseWriter, r *http.Request) {
	purposeID, ok := h.purposeID(w, r)
	if !ok {
		return
	}
	status, err := h.coordinator.ConsentForPurpose(r.Context(), purposeID)
	if err != nil {
		h.writeActionError(w, r, "failed to get purpose consent", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, PurposeConsentResponse{PurposeID: purposeID, ConsentStatus: status})
}

func (h *Handler) HandleSetPurposeConsent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	purposeID, ok := h.purposeID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndValidate[SetConsentRequest](ctx, w, r, h.logger, middleware.GetRequestID(ctx))
	if !ok {
		return
	}
	purpose, found := h.coordinator.Purpose(purposeID)
	if !found {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("purpose %d is not loaded", purposeID)))
		return
	}

	resp, err := h.coordinator.SetPurposeConsent(ctx, purpose, req.ConsentStatus())
	if err != nil {
		h.writeActionError(w, r, "failed to set purpose consent", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleSDKsInPurpose(w http.ResponseWriter, r *http.Request) {
	purposeID, ok := h.purposeID(w, r)
	if !ok {
		return
	}
	sdks, err := h.coordinator.SDKsInPurpose(r.Context(), purposeID)
	if err != nil {
		h.writeActionError(w, r, "failed to get sdks in purpose", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, SDKsResponse{PurposeID: purposeID, SDKs: sdks})
}

func (h *Handler) HandleListPermissions(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, PermissionsResponse{Permissions: toPermissionViews(h.coordinator.Snapshot().Permissions)})
}

func (h *Handler) HandleFetchPermissions(w http.ResponseWriter, r *http.Request) {
	permissions, err := h.coordinator.FetchPermissions(r.Context())
	if err != nil {
		h.writeActionError(w, r, "failed to fetch permissions", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, PermissionsResponse{Permissions: toPermissionViews(permissions)})
}

func (h *Handler) HandleGetPermissionConsent(w http.ResponseWriter, r *http.Request) {
	permissionID, ok := h.permissionID(w, r)
	if !ok {
		return
	}
	status, err := h.coordinator.ConsentForPermission(r.Context(), permissionID)
	if err != nil {
		h.writeActionError(w, r, "failed to get permission consent", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, PermissionConsentResponse{
		PermissionID:  permissionID,
		ConsentStatus: status,
		NativePrompt:  models.IsNativePermission(permissionID),
	})
}

func (h *Handler) HandleSetPermissionConsent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	permissionID, ok := h.permissionID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndValidate[SetConsentRequest](ctx, w, r, h.logger, middleware.GetRequestID(ctx))
	if !ok {
		return
	}
	permission, found := h.coordinator.Permission(permissionID)
	if !found {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("permission %s is not loaded", permissionID)))
		return
	}

	resp, err := h.coordinator.SetPermissionConsent(ctx, permission, req.ConsentStatus())
	if err != nil {
		h.writeActionError(w, r, "failed to set permission consent", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleRefreshPermission(w http.ResponseWriter, r *http.Request) {
	permissionID, ok := h.permissionID(w, r)
	if !ok {
		return
	}
	if err := h.coordinator.RefreshPermission(r.Context(), permissionID); err != nil {
		h.writeActionError(w, r, "failed to refresh permission", err)
		return
	}
	permission, found := h.coordinator.Permission(permissionID)
	if !found {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("permission %s is not loaded", permissionID)))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, PermissionView{
		AppPermission: &permission,
		NativePrompt:  models.IsNativePermission(permissionID),
	})
}

func (h *Handler) HandleRequestNativePermission(w http.ResponseWriter, r *http.Request) {
	permissionID, ok := h.permissionID(w, r)
	if !ok {
		return
	}
	resp, err := h.coordinator.RequestNativePermission(r.Context(), permissionID)
	if err != nil {
		h.writeActionError(w, r, "failed to request native permission", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleListAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID := strings.TrimSpace(r.URL.Query().Get("subject_id"))
	if subjectID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "subject_id query parameter is required"))
		return
	}
	if err := validation.CheckStringLength("subject_id", subjectID, validation.MaxSubjectIDLength); err != nil {
		httputil.WriteError(w, err)
		return
	}
	events, err := h.auditor.List(ctx, subjectID)
	if err != nil {
		h.writeActionError(w, r, "failed to list audit events", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, AuditResponse{Events: events})
}

func (h *Handler) purposeID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := models.ParsePurposeID(chi.URLParam(r, "purposeID"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "purpose id must be a non-negative integer"))
		return 0, false
	}
	return id, true
}

func (h *Handler) permissionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "permissionID")
	if err := validation.CheckStringLength("permission_id", id, validation.MaxPermissionIDLength); err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return id, true
}

func (h *Handler) writeLastResponse(w http.ResponseWriter) {
	httputil.WriteJSON(w, http.StatusOK, h.coordinator.Snapshot().LastResponse)
}

func (h *Handler) writeActionError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	h.logger.ErrorContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"path", r.URL.Path,
		"code", string(dErrors.CodeOf(err)),
		"error", err,
	)
	httputil.WriteError(w, err)
}

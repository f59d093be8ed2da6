// Package remote implements the consent SDK contract against the consent
// platform's HTTP API. Configuration reads go to the CDN, subject consent reads
// and writes go to the app endpoint.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"consentsync/internal/consent/models"
	"consentsync/internal/consent/sdk"
	dErrors "consentsync/pkg/domain-errors"
)

const defaultTimeout = 10 * time.Second

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config configures a remote Client.
type Config struct {
	HTTPClient HTTPDoer
	Timeout    time.Duration
	Logger     *slog.Logger
}

// Client is the HTTP-backed consent SDK.
type Client struct {
	client HTTPDoer
	logger *slog.Logger

	mu        sync.RWMutex
	opts      sdk.Options
	ready     bool
	callbacks []func(bool)
	banner    models.BannerConfig
	prompt    models.SettingsPrompt
}

// New creates a remote client. Initialize must be called before data calls.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{client: client, logger: cfg.Logger}
}

// configDocument is the CDN payload fetched during initialization.
type configDocument struct {
	BannerConfig   models.BannerConfig   `json:"banner_config"`
	SettingsPrompt models.SettingsPrompt `json:"settings_prompt"`
}

// Initialize validates the options and loads the app configuration from the
// CDN. Readiness callbacks fire with the outcome.
func (c *Client) Initialize(ctx context.Context, opts sdk.Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if opts.CdnURL == "" || opts.AppURL == "" {
		return dErrors.New(dErrors.CodeValidation, "appURL and cdnURL are required for the remote sdk")
	}
	c.mu.Lock()
	c.opts = opts
	c.mu.Unlock()

	var doc configDocument
	path := fmt.Sprintf("/v1/tenants/%s/apps/%s/config", url.PathEscape(opts.TenantID), url.PathEscape(opts.AppID))
	err := c.do(ctx, "initialize", http.MethodGet, opts.CdnURL, path, nil, &doc)

	c.mu.Lock()
	c.ready = err == nil
	if err == nil {
		c.banner = doc.BannerConfig
		c.prompt = doc.SettingsPrompt
	}
	callbacks := c.callbacks
	c.callbacks = nil
	c.mu.Unlock()

	for _, cb := range callbacks {
		cb(err == nil)
	}
	return err
}

func (c *Client) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

func (c *Client) OnReady(callback func(ready bool)) {
	c.mu.Lock()
	if !c.ready {
		c.callbacks = append(c.callbacks, callback)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	callback(true)
}

func (c *Client) Options() sdk.Options {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.opts
}

// PresentConsentBanner records a banner presentation for the subject. A headless
// host has no surface to draw on, so presentation is reported to the platform.
func (c *Client) PresentConsentBanner(ctx context.Context) error {
	return c.present(ctx, "banner")
}

func (c *Client) PresentPreferenceCenter(ctx context.Context) error {
	return c.present(ctx, "preference_center")
}

func (c *Client) present(ctx context.Context, surface string) error {
	opts, err := c.readyOptions()
	if err != nil {
		return err
	}
	body := map[string]string{"surface": surface}
	return c.do(ctx, "present_"+surface, http.MethodPost, opts.AppURL, subjectPath(opts, "/presentations"), body, nil)
}

func (c *Client) ResetConsents(ctx context.Context) error {
	opts, err := c.readyOptions()
	if err != nil {
		return err
	}
	return c.do(ctx, "resetConsents", http.MethodDelete, opts.AppURL, subjectPath(opts, "/consents"), nil, nil)
}

type purposeDTO struct {
	PurposeID     int64             `json:"purpose_id"`
	PurposeName   map[string]string `json:"purpose_name"`
	ConsentStatus string            `json:"consent_status"`
	SDKs          []models.SDK      `json:"sdks"`
}

type permissionDTO struct {
	PermissionID  string `json:"permission_id"`
	Name          string `json:"name"`
	ConsentStatus string `json:"consent_status"`
}

type consentDTO struct {
	ConsentStatus string `json:"consent_status"`
}

type acceptanceDTO struct {
	Accepted bool `json:"accepted"`
}

func (c *Client) GetPurposes(ctx context.Context) ([]*models.Purpose, error) {
	opts, err := c.readyOptions()
	if err != nil {
		return nil, err
	}
	var dtos []purposeDTO
	if err := c.do(ctx, "getPurposes", http.MethodGet, opts.AppURL, subjectPath(opts, "/purposes")+localeQuery(opts), nil, &dtos); err != nil {
		return nil, err
	}
	out := make([]*models.Purpose, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, &models.Purpose{
			ID:            d.PurposeID,
			Names:         d.PurposeName,
			ConsentStatus: models.ParseConsentStatus(d.ConsentStatus),
			SDKs:          d.SDKs,
		})
	}
	return out, nil
}

func (c *Client) GetPermissions(ctx context.Context) ([]*models.AppPermission, error) {
	opts, err := c.readyOptions()
	if err != nil {
		return nil, err
	}
	var dtos []permissionDTO
	if err := c.do(ctx, "getPermissions", http.MethodGet, opts.AppURL, subjectPath(opts, "/permissions")+localeQuery(opts), nil, &dtos); err != nil {
		return nil, err
	}
	out := make([]*models.AppPermission, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, &models.AppPermission{
			ID:            d.PermissionID,
			Name:          d.Name,
			ConsentStatus: models.ParseConsentStatus(d.ConsentStatus),
		})
	}
	return out, nil
}

func (c *Client) GetSDKsInPurpose(ctx context.Context, purposeID int64) ([]models.SDK, error) {
	opts, err := c.readyOptions()
	if err != nil {
		return nil, err
	}
	var sdks []models.SDK
	path := "/v1/purposes/" + strconv.FormatInt(purposeID, 10) + "/sdks"
	if err := c.do(ctx, "getSdksInPurpose", http.MethodGet, opts.AppURL, path, nil, &sdks); err != nil {
		return nil, err
	}
	return sdks, nil
}

func (c *Client) GetConsentByPurposeID(ctx context.Context, purposeID int64) (models.ConsentStatus, error) {
	return c.getConsent(ctx, "getConsentByPurposeId", "/purposes/"+strconv.FormatInt(purposeID, 10)+"/consent")
}

func (c *Client) GetConsentByPermissionID(ctx context.Context, permissionID string) (models.ConsentStatus, error) {
	return c.getConsent(ctx, "getConsentByPermissionId", "/permissions/"+url.PathEscape(permissionID)+"/consent")
}

func (c *Client) getConsent(ctx context.Context, op, suffix string) (models.ConsentStatus, error) {
	opts, err := c.readyOptions()
	if err != nil {
		return models.ConsentUnknown, err
	}
	var dto consentDTO
	if err := c.do(ctx, op, http.MethodGet, opts.AppURL, subjectPath(opts, suffix), nil, &dto); err != nil {
		return models.ConsentUnknown, err
	}
	return models.ParseConsentStatus(dto.ConsentStatus), nil
}

func (c *Client) SetPurposeConsent(ctx context.Context, purpose models.Purpose, status models.ConsentStatus) (bool, error) {
	return c.setConsent(ctx, "setPurposeConsent", "/purposes/"+strconv.FormatInt(purpose.ID, 10)+"/consent", status)
}

func (c *Client) SetPermissionConsent(ctx context.Context, permission models.AppPermission, status models.ConsentStatus) (bool, error) {
	return c.setConsent(ctx, "setPermissionConsent", "/permissions/"+url.PathEscape(permission.ID)+"/consent", status)
}

// setConsent submits the change. The platform applies it asynchronously, so the
// returned flag only says the request was accepted.
func (c *Client) setConsent(ctx context.Context, op, suffix string, status models.ConsentStatus) (bool, error) {
	opts, err := c.readyOptions()
	if err != nil {
		return false, err
	}
	var dto acceptanceDTO
	body := consentDTO{ConsentStatus: string(status)}
	if err := c.do(ctx, op, http.MethodPut, opts.AppURL, subjectPath(opts, suffix), body, &dto); err != nil {
		return false, err
	}
	return dto.Accepted, nil
}

func (c *Client) GetBannerConfig(ctx context.Context, bannerOpts *sdk.BannerOptions) (models.BannerConfig, error) {
	opts, err := c.readyOptions()
	if err != nil {
		return nil, err
	}
	if bannerOpts == nil || bannerOpts.LocationCode == "" || bannerOpts.LocationCode == opts.LocationCode {
		c.mu.RLock()
		defer c.mu.RUnlock()
		return c.banner, nil
	}
	var cfg models.BannerConfig
	path := fmt.Sprintf("/v1/tenants/%s/apps/%s/banner?location=%s",
		url.PathEscape(opts.TenantID), url.PathEscape(opts.AppID), url.QueryEscape(bannerOpts.LocationCode))
	if err := c.do(ctx, "getBannerConfig", http.MethodGet, opts.CdnURL, path, nil, &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Client) GetSettingsPrompt(_ context.Context) (models.SettingsPrompt, error) {
	if _, err := c.readyOptions(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.prompt, nil
}

func (c *Client) readyOptions() (sdk.Options, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.ready {
		return sdk.Options{}, sdk.ErrNotReady
	}
	return c.opts, nil
}

func subjectPath(opts sdk.Options, suffix string) string {
	return "/v1/subjects/" + url.PathEscape(opts.SubjectID) + suffix
}

func localeQuery(opts sdk.Options) string {
	q := url.Values{}
	if opts.LanguageCode != "" {
		q.Set("lang", opts.LanguageCode)
	}
	if opts.LocationCode != "" {
		q.Set("location", opts.LocationCode)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// do executes one API call and decodes the JSON response into out when non-nil.
func (c *Client) do(ctx context.Context, op, method, baseURL, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to marshal "+op+" request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, baseURL+path, reader)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create "+op+" request")
	}
	c.mu.RLock()
	opts := c.opts
	c.mu.RUnlock()
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Tenant-ID", opts.TenantID)
	req.Header.Set("X-App-ID", opts.AppID)
	if opts.TestingMode {
		req.Header.Set("X-Testing-Mode", "true")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return dErrors.Wrap(err, dErrors.CodeTimeout, "consent sdk "+op+" timed out")
		}
		return sdk.Unavailable(op, err)
	}
	defer resp.Body.Close()

	c.debug(ctx, "consent sdk call",
		"operation", op,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return sdk.Unavailable(op, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("consent sdk %s: resource not found", op))
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("consent sdk %s rejected the request", op))
	case resp.StatusCode >= 300:
		return sdk.Unavailable(op, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return sdk.Unavailable(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *Client) debug(ctx context.Context, msg string, args ...any) {
	if c.logger == nil {
		return
	}
	c.logger.DebugContext(ctx, msg, args...)
}

// Verify interface is satisfied.
var _ sdk.Client = (*Client)(nil)

package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"consentsync/internal/consent/models"
)

const defaultNativeTimeout = 5 * time.Second

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NativeConfig configures the native module client.
type NativeConfig struct {
	BaseURL    string
	HTTPClient HTTPDoer
	Timeout    time.Duration
	Logger     *slog.Logger
}

// NativeModule talks to the platform's native permission module over its local
// HTTP endpoint.
type NativeModule struct {
	baseURL string
	client  HTTPDoer
	logger  *slog.Logger
}

// NewNativeModule creates a bridge backed by the native module at cfg.BaseURL.
func NewNativeModule(cfg NativeConfig) *NativeModule {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultNativeTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &NativeModule{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
		logger:  cfg.Logger,
	}
}

func (n *NativeModule) Name() string { return "native" }

type checkResponse struct {
	Status string `json:"status"`
}

type requestResponse struct {
	Status            string `json:"status"`
	AlreadyDetermined *bool  `json:"alreadyDetermined,omitempty"`
	Error             string `json:"error,omitempty"`
	Note              string `json:"note,omitempty"`
}

type settingsResponse struct {
	Opened bool `json:"opened"`
}

func (n *NativeModule) Check(ctx context.Context, permissionID string) models.PermissionStatus {
	var resp checkResponse
	if err := n.call(ctx, http.MethodGet, "/permissions/"+url.PathEscape(permissionID), &resp); err != nil {
		n.warn(ctx, "native permission check failed", "permission_id", permissionID, "error", err)
		return models.PermissionNotAvailable
	}
	return models.NormalizePermissionStatus(resp.Status)
}

func (n *NativeModule) Request(ctx context.Context, permissionID string) models.PermissionResult {
	var resp requestResponse
	if err := n.call(ctx, http.MethodPost, "/permissions/"+url.PathEscape(permissionID)+"/request", &resp); err != nil {
		n.warn(ctx, "native permission request failed", "permission_id", permissionID, "error", err)
		return models.PermissionResult{Status: models.PermissionNotAvailable, Error: err.Error()}
	}
	return models.PermissionResult{
		Status:            models.NormalizePermissionStatus(resp.Status),
		AlreadyDetermined: resp.AlreadyDetermined,
		Error:             resp.Error,
		Note:              resp.Note,
	}
}

func (n *NativeModule) OpenSettings(ctx context.Context) bool {
	var resp settingsResponse
	if err := n.call(ctx, http.MethodPost, "/settings/open", &resp); err != nil {
		n.warn(ctx, "opening system settings failed", "error", err)
		return false
	}
	return resp.Opened
}

func (n *NativeModule) call(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, n.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("native module unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("native module returned status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (n *NativeModule) warn(ctx context.Context, msg string, args ...any) {
	if n.logger == nil {
		return
	}
	n.logger.WarnContext(ctx, msg, append(args, "bridge", n.Name())...)
}

var _ Bridge = (*NativeModule)(nil)

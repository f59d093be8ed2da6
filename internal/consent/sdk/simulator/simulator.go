// Package simulator provides an in-process consent SDK.
//
// It mirrors the timing contract of the real SDK: readiness arrives after an
// init latency, and consent changes are accepted immediately but applied only
// after an apply delay, with no completion signal. It backs testing mode and
// the coordinator tests.
package simulator

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"consentsync/internal/consent/models"
	"consentsync/internal/consent/sdk"
	dErrors "consentsync/pkg/domain-errors"
)

// Operation names a simulated SDK call, used to inject failures.
type Operation string

const (
	OpInitialize           Operation = "initialize"
	OpPresentBanner        Operation = "presentConsentBanner"
	OpPreferenceCenter     Operation = "presentPreferenceCenter"
	OpResetConsents        Operation = "resetConsents"
	OpGetPurposes          Operation = "getPurposes"
	OpGetPermissions       Operation = "getPermissions"
	OpGetSDKsInPurpose     Operation = "getSdksInPurpose"
	OpGetPurposeConsent    Operation = "getConsentByPurposeId"
	OpGetPermissionConsent Operation = "getConsentByPermissionId"
	OpSetPurposeConsent    Operation = "setPurposeConsent"
	OpSetPermissionConsent Operation = "setPermissionConsent"
	OpGetBannerConfig      Operation = "getBannerConfig"
	OpGetSettingsPrompt    Operation = "getSettingsPrompt"
)

const (
	defaultInitLatency = 50 * time.Millisecond
	defaultApplyDelay  = 200 * time.Millisecond
)

// Simulator implements sdk.Client in memory.
type Simulator struct {
	mu          sync.Mutex
	opts        sdk.Options
	initialized bool
	ready       bool
	callbacks   []func(bool)

	purposes    map[int64]*models.Purpose
	permissions map[string]*models.AppPermission
	seedPurpose []*models.Purpose
	seedPerm    []*models.AppPermission

	failures    map[Operation]error
	calls       map[Operation]int
	initLatency time.Duration
	applyDelay  time.Duration
	logger      *slog.Logger
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithInitLatency sets how long Initialize takes to report readiness.
// Zero makes Initialize ready synchronously.
func WithInitLatency(d time.Duration) Option {
	return func(s *Simulator) {
		if d >= 0 {
			s.initLatency = d
		}
	}
}

// WithApplyDelay sets how long an accepted consent change takes to apply.
func WithApplyDelay(d time.Duration) Option {
	return func(s *Simulator) {
		if d >= 0 {
			s.applyDelay = d
		}
	}
}

// WithPurposes seeds the purpose catalog.
func WithPurposes(purposes []*models.Purpose) Option {
	return func(s *Simulator) {
		s.seedPurpose = purposes
	}
}

// WithPermissions seeds the permission catalog.
func WithPermissions(permissions []*models.AppPermission) Option {
	return func(s *Simulator) {
		s.seedPerm = permissions
	}
}

// WithLogger sets the logger for SDK-side messages.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) {
		s.logger = logger
	}
}

// New creates a simulator seeded with DefaultPurposes and DefaultPermissions
// unless overridden.
func New(opts ...Option) *Simulator {
	s := &Simulator{
		purposes:    make(map[int64]*models.Purpose),
		permissions: make(map[string]*models.AppPermission),
		failures:    make(map[Operation]error),
		calls:       make(map[Operation]int),
		initLatency: defaultInitLatency,
		applyDelay:  defaultApplyDelay,
		seedPurpose: DefaultPurposes(),
		seedPerm:    DefaultPermissions(models.PlatformIOS),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.seed()
	return s
}

func (s *Simulator) seed() {
	s.purposes = make(map[int64]*models.Purpose, len(s.seedPurpose))
	for _, p := range s.seedPurpose {
		cp := clonePurpose(p)
		if cp.ConsentStatus == "" {
			cp.ConsentStatus = models.ConsentUnknown
		}
		s.purposes[cp.ID] = cp
	}
	s.permissions = make(map[string]*models.AppPermission, len(s.seedPerm))
	for _, p := range s.seedPerm {
		cp := *p
		if cp.ConsentStatus == "" {
			cp.ConsentStatus = models.ConsentUnknown
		}
		s.permissions[cp.ID] = &cp
	}
}

// Fail makes every subsequent call of op return err until Recover is called.
func (s *Simulator) Fail(op Operation, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// Recover clears an injected failure.
func (s *Simulator) Recover(op Operation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, op)
}

// Calls returns how many times op was invoked.
func (s *Simulator) Calls(op Operation) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// begin records the call and returns any injected failure. Caller holds s.mu.
func (s *Simulator) begin(op Operation) error {
	s.calls[op]++
	if err := s.failures[op]; err != nil {
		return sdk.Unavailable(string(op), err)
	}
	return nil
}

func (s *Simulator) Initialize(_ context.Context, opts sdk.Options) error {
	s.mu.Lock()
	if err := s.begin(OpInitialize); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := opts.Validate(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.opts = opts
	alreadyInitialized := s.initialized
	s.initialized = true
	latency := s.initLatency
	s.mu.Unlock()

	if alreadyInitialized {
		return nil
	}
	s.debug("sdk initializing", "tenant_id", opts.TenantID, "app_id", opts.AppID, "testing_mode", opts.TestingMode)
	if latency == 0 {
		s.markReady()
		return nil
	}
	time.AfterFunc(latency, s.markReady)
	return nil
}

func (s *Simulator) markReady() {
	s.mu.Lock()
	s.ready = true
	callbacks := s.callbacks
	s.callbacks = nil
	s.mu.Unlock()

	s.debug("sdk ready")
	for _, cb := range callbacks {
		cb(true)
	}
}

func (s *Simulator) IsReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

func (s *Simulator) OnReady(callback func(ready bool)) {
	s.mu.Lock()
	if !s.ready {
		s.callbacks = append(s.callbacks, callback)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	callback(true)
}

func (s *Simulator) PresentConsentBanner(_ context.Context) error {
	return s.readyCall(OpPresentBanner)
}

func (s *Simulator) PresentPreferenceCenter(_ context.Context) error {
	return s.readyCall(OpPreferenceCenter)
}

func (s *Simulator) ResetConsents(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpResetConsents); err != nil {
		return err
	}
	if !s.ready {
		return sdk.ErrNotReady
	}
	for _, p := range s.purposes {
		p.ConsentStatus = models.ConsentUnknown
	}
	for _, p := range s.permissions {
		p.ConsentStatus = models.ConsentUnknown
	}
	return nil
}

func (s *Simulator) readyCall(op Operation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(op); err != nil {
		return err
	}
	if !s.ready {
		return sdk.ErrNotReady
	}
	return nil
}

func (s *Simulator) GetPurposes(_ context.Context) ([]*models.Purpose, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpGetPurposes); err != nil {
		return nil, err
	}
	if !s.ready {
		return nil, sdk.ErrNotReady
	}
	out := make([]*models.Purpose, 0, len(s.purposes))
	for _, p := range s.purposes {
		out = append(out, clonePurpose(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Simulator) GetPermissions(_ context.Context) ([]*models.AppPermission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpGetPermissions); err != nil {
		return nil, err
	}
	if !s.ready {
		return nil, sdk.ErrNotReady
	}
	out := make([]*models.AppPermission, 0, len(s.permissions))
	for _, p := range s.permissions {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Simulator) GetSDKsInPurpose(_ context.Context, purposeID int64) ([]models.SDK, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpGetSDKsInPurpose); err != nil {
		return nil, err
	}
	p, ok := s.purposes[purposeID]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("purpose %d not found", purposeID))
	}
	return append([]models.SDK(nil), p.SDKs...), nil
}

func (s *Simulator) GetConsentByPurposeID(_ context.Context, purposeID int64) (models.ConsentStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpGetPurposeConsent); err != nil {
		return models.ConsentUnknown, err
	}
	p, ok := s.purposes[purposeID]
	if !ok {
		return models.ConsentUnknown, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("purpose %d not found", purposeID))
	}
	return p.ConsentStatus, nil
}

func (s *Simulator) GetConsentByPermissionID(_ context.Context, permissionID string) (models.ConsentStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpGetPermissionConsent); err != nil {
		return models.ConsentUnknown, err
	}
	p, ok := s.permissions[permissionID]
	if !ok {
		return models.ConsentUnknown, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("permission %s not found", permissionID))
	}
	return p.ConsentStatus, nil
}

// SetPurposeConsent accepts the change and applies it after the apply delay.
func (s *Simulator) SetPurposeConsent(_ context.Context, purpose models.Purpose, status models.ConsentStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpSetPurposeConsent); err != nil {
		return false, err
	}
	if _, ok := s.purposes[purpose.ID]; !ok || !status.IsSettable() {
		return false, nil
	}
	s.applyLater(func() {
		if p, ok := s.purposes[purpose.ID]; ok {
			p.ConsentStatus = status
		}
	})
	return true, nil
}

// SetPermissionConsent accepts the change and applies it after the apply delay.
func (s *Simulator) SetPermissionConsent(_ context.Context, permission models.AppPermission, status models.ConsentStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpSetPermissionConsent); err != nil {
		return false, err
	}
	if _, ok := s.permissions[permission.ID]; !ok || !status.IsSettable() {
		return false, nil
	}
	s.applyLater(func() {
		if p, ok := s.permissions[permission.ID]; ok {
			p.ConsentStatus = status
		}
	})
	return true, nil
}

// applyLater runs apply under s.mu after the apply delay. Caller holds s.mu.
func (s *Simulator) applyLater(apply func()) {
	if s.applyDelay == 0 {
		apply()
		return
	}
	time.AfterFunc(s.applyDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		apply()
	})
}

// SetNativeConsent updates a permission immediately, the way the OS prompt
// writes back into the SDK after a native dialog closes.
func (s *Simulator) SetNativeConsent(permissionID string, status models.ConsentStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.permissions[permissionID]; ok {
		p.ConsentStatus = status
	}
}

func (s *Simulator) GetBannerConfig(_ context.Context, opts *sdk.BannerOptions) (models.BannerConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpGetBannerConfig); err != nil {
		return nil, err
	}
	location := s.opts.LocationCode
	if opts != nil && opts.LocationCode != "" {
		location = opts.LocationCode
	}
	return models.BannerConfig{
		"title":                 "We value your privacy",
		"accept_button_text":    "Accept All",
		"reject_button_text":    "Reject All",
		"show_preference_link":  true,
		"location_code":         location,
		"language_code":         s.opts.LanguageCode,
		"consents_check_period": s.opts.ConsentsCheckInterval,
	}, nil
}

func (s *Simulator) GetSettingsPrompt(_ context.Context) (models.SettingsPrompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpGetSettingsPrompt); err != nil {
		return nil, err
	}
	return models.SettingsPrompt{
		"title":   "Permission required",
		"message": "Open Settings to change this permission.",
		"button":  "Open Settings",
	}, nil
}

func (s *Simulator) Options() sdk.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

func (s *Simulator) debug(msg string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Debug(msg, args...)
}

func clonePurpose(p *models.Purpose) *models.Purpose {
	cp := *p
	if p.Names != nil {
		cp.Names = make(map[string]string, len(p.Names))
		for k, v := range p.Names {
			cp.Names[k] = v
		}
	}
	cp.SDKs = append([]models.SDK(nil), p.SDKs...)
	return &cp
}

// Verify interface is satisfied.
var _ sdk.Client = (*Simulator)(nil)

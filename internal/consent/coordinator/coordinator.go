// Package coordinator owns the app-side view of consent data. It orchestrates
// calls to the consent SDK and the native permission bridge and merges their
// asynchronous results into a single state object.
//
// Cached collections are never authoritative: every status-changing operation
// is followed by a re-fetch before the cache is trusted again.
package coordinator

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"consentsync/internal/audit"
	"consentsync/internal/consent/metrics"
	"consentsync/internal/consent/models"
	"consentsync/internal/consent/sdk"
	"consentsync/internal/permission/bridge"
	"consentsync/internal/platform/middleware"
	"consentsync/internal/platform/tracer"
	dErrors "consentsync/pkg/domain-errors"
)

// defaultSettleDelay is the heuristic wait between a consent-set call and the
// confirming re-fetch. The SDK gives no completion signal.
const defaultSettleDelay = 500 * time.Millisecond

// AuditPublisher records consent-changing actions.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// state is the explicit view model. Guarded by Coordinator.mu.
type state struct {
	sdkReady           bool
	loading            int
	updatingPermission string
	purposes           []*models.Purpose
	permissions        []*models.AppPermission
	lastResponse       *models.Response
}

// Coordinator is safe for concurrent use. Overlapping fetches are not
// cancelled or versioned; the last one to resolve wins.
type Coordinator struct {
	client   sdk.Client
	bridge   bridge.Bridge
	platform models.Platform

	auditor           AuditPublisher
	metrics           *metrics.Metrics
	tracer            tracer.Tracer
	logger            *slog.Logger
	settleDelay       time.Duration
	showBannerOnReady bool
	now               func() time.Time

	mu        sync.RWMutex
	state     state
	subjectID string

	readyOnce sync.Once
	ready     chan struct{}
	// background carries values of the Start context without its cancellation,
	// for work triggered by SDK callbacks.
	background context.Context
}

type Option func(*Coordinator)

// WithSettleDelay sets the wait after a consent-set call. Zero disables it.
func WithSettleDelay(d time.Duration) Option {
	return func(c *Coordinator) {
		if d >= 0 {
			c.settleDelay = d
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(c *Coordinator) {
		if t != nil {
			c.tracer = t
		}
	}
}

func WithAuditor(a AuditPublisher) Option {
	return func(c *Coordinator) {
		c.auditor = a
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = l
	}
}

// WithShowBannerOnReady presents the consent banner on the first ready signal.
func WithShowBannerOnReady(show bool) Option {
	return func(c *Coordinator) {
		c.showBannerOnReady = show
	}
}

// WithNow overrides the clock used for response and audit timestamps.
func WithNow(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a coordinator. Panics if client or bridge is nil.
func New(client sdk.Client, b bridge.Bridge, platform models.Platform, opts ...Option) *Coordinator {
	if client == nil {
		panic("coordinator.New: consent sdk client is required")
	}
	if b == nil {
		panic("coordinator.New: permission bridge is required")
	}
	c := &Coordinator{
		client:      client,
		bridge:      b,
		platform:    platform,
		tracer:      tracer.NewNoop(),
		logger:      slog.New(slog.DiscardHandler),
		settleDelay: defaultSettleDelay,
		now:         time.Now,
		ready:       make(chan struct{}),
		background:  context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Platform reports the OS family the coordinator routes permission requests for.
func (c *Coordinator) Platform() models.Platform {
	return c.platform
}

// Snapshot returns a deep copy of the current state.
func (c *Coordinator) Snapshot() models.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := models.Snapshot{
		Platform:           c.platform,
		SDKReady:           c.state.sdkReady,
		Loading:            c.state.loading > 0,
		UpdatingPermission: c.state.updatingPermission,
		Purposes:           make([]*models.Purpose, 0, len(c.state.purposes)),
		Permissions:        make([]*models.AppPermission, 0, len(c.state.permissions)),
	}
	for _, p := range c.state.purposes {
		snap.Purposes = append(snap.Purposes, copyPurpose(p))
	}
	for _, p := range c.state.permissions {
		cp := *p
		snap.Permissions = append(snap.Permissions, &cp)
	}
	if c.state.lastResponse != nil {
		resp := *c.state.lastResponse
		snap.LastResponse = &resp
	}
	return snap
}

// LastResponse returns a copy of the most recent action response, or nil.
func (c *Coordinator) LastResponse() *models.Response {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state.lastResponse == nil {
		return nil
	}
	resp := *c.state.lastResponse
	return &resp
}

// Purpose looks up a cached purpose by id.
func (c *Coordinator) Purpose(id int64) (models.Purpose, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.state.purposes {
		if p.ID == id {
			return *copyPurpose(p), true
		}
	}
	return models.Purpose{}, false
}

// Permission looks up a cached permission by id.
func (c *Coordinator) Permission(id string) (models.AppPermission, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.state.permissions {
		if p.ID == id {
			return *p, true
		}
	}
	return models.AppPermission{}, false
}

func (c *Coordinator) beginLoading() {
	c.mu.Lock()
	c.state.loading++
	c.mu.Unlock()
}

func (c *Coordinator) endLoading() {
	c.mu.Lock()
	if c.state.loading > 0 {
		c.state.loading--
	}
	c.mu.Unlock()
}

// succeed records a success payload and returns it.
func (c *Coordinator) succeed(message string, success *bool, data map[string]any) *models.Response {
	resp := &models.Response{
		ID:        uuid.NewString(),
		Message:   message,
		Success:   success,
		Data:      data,
		Timestamp: c.now(),
	}
	c.setResponse(resp)
	return resp
}

// fail logs err, records an error payload and returns err as a domain error.
func (c *Coordinator) fail(ctx context.Context, message string, err error, args ...any) error {
	c.logger.ErrorContext(ctx, message, append(args, "error", err)...)
	c.setResponse(&models.Response{
		ID:        uuid.NewString(),
		Error:     message + ": " + err.Error(),
		Timestamp: c.now(),
	})
	return dErrors.Wrap(err, dErrors.CodeSDKUnavailable, message)
}

func (c *Coordinator) setResponse(resp *models.Response) {
	c.mu.Lock()
	c.state.lastResponse = resp
	c.mu.Unlock()
}

func (c *Coordinator) emitAudit(ctx context.Context, event audit.Event) {
	if c.auditor == nil {
		return
	}
	c.mu.RLock()
	event.SubjectID = c.subjectID
	c.mu.RUnlock()
	if event.RequestID == "" {
		event.RequestID = middleware.GetRequestID(ctx)
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = c.now()
	}
	if err := c.auditor.Emit(ctx, event); err != nil {
		c.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"entity", event.Entity,
			"error", err,
		)
	}
}

// subjectAttr tags a span with the hashed subject, never the raw id.
func (c *Coordinator) subjectAttr() tracer.Attribute {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return tracer.String(tracer.AttrSubject, tracer.HashSubjectID(c.subjectID))
}

// observe times one SDK call and records its latency.
func observe[T any](ctx context.Context, c *Coordinator, op string, call func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	out, err := call(ctx)
	if c.metrics != nil {
		c.metrics.ObserveSDKCall(op, time.Since(start))
	}
	return out, err
}

func copyPurpose(p *models.Purpose) *models.Purpose {
	cp := *p
	cp.Names = maps.Clone(p.Names)
	cp.SDKs = slices.Clone(p.SDKs)
	return &cp
}

func boolPtr(b bool) *bool {
	return &b
}

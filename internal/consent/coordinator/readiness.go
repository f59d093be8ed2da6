package coordinator

import (
	"context"

	"consentsync/internal/consent/models"
	"consentsync/internal/consent/sdk"
)

// Start initializes the SDK and wires both readiness paths, the asynchronous
// callback and the synchronous check, into markReady. Whichever fires first
// triggers the initial load; the other is a no-op.
func (c *Coordinator) Start(ctx context.Context, opts sdk.Options) error {
	c.mu.Lock()
	c.subjectID = opts.SubjectID
	c.background = context.WithoutCancel(ctx)
	c.mu.Unlock()

	c.client.OnReady(func(ready bool) {
		if !ready {
			c.logger.WarnContext(ctx, "consent sdk reported not ready")
			return
		}
		c.markReady(c.backgroundContext())
	})

	if err := c.client.Initialize(ctx, opts); err != nil {
		return c.fail(ctx, "Failed to initialize consent sdk", err,
			"tenant_id", opts.TenantID,
			"app_id", opts.AppID,
		)
	}
	c.logger.InfoContext(ctx, "consent sdk initialized",
		"platform", string(c.platform),
		"testing_mode", opts.TestingMode,
		"bridge", c.bridge.Name(),
	)

	if c.client.IsReady() {
		c.markReady(c.backgroundContext())
	}
	return nil
}

// Ready is closed once the SDK has signalled readiness.
func (c *Coordinator) Ready() <-chan struct{} {
	return c.ready
}

// IsReady reports whether the ready notification has been processed.
func (c *Coordinator) IsReady() bool {
	select {
	case <-c.ready:
		return true
	default:
		return false
	}
}

// markReady runs at most once per coordinator regardless of how many
// readiness signals arrive.
func (c *Coordinator) markReady(ctx context.Context) {
	c.readyOnce.Do(func() {
		c.mu.Lock()
		c.state.sdkReady = true
		c.mu.Unlock()
		close(c.ready)

		if c.metrics != nil {
			c.metrics.IncrementReady()
		}
		c.logger.InfoContext(ctx, "consent sdk ready")

		if c.showBannerOnReady {
			_ = c.ShowBanner(ctx)
		}
		_ = c.LoadAll(ctx)
	})
}

func (c *Coordinator) backgroundContext() context.Context {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.background
}

// HandleAppState reloads all data when the app returns to the foreground with
// a ready SDK. It reports whether a reload ran.
func (c *Coordinator) HandleAppState(ctx context.Context, appState models.AppState) (bool, error) {
	if appState != models.AppStateActive || !c.IsReady() {
		c.logger.DebugContext(ctx, "app state change ignored",
			"state", string(appState),
			"sdk_ready", c.IsReady(),
		)
		return false, nil
	}
	return true, c.LoadAll(ctx)
}

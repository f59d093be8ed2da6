package coordinator

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"consentsync/internal/consent/models"
	"consentsync/internal/platform/tracer"
	dErrors "consentsync/pkg/domain-errors"
)

// loadResult holds the outcome of each fetch. Each goroutine writes only its
// own fields.
type loadResult struct {
	purposes       []*models.Purpose
	purposesErr    error
	permissions    []*models.AppPermission
	permissionsErr error
}

// LoadAll fetches purposes and permissions concurrently. Both fetches always run
// to completion; each collection that loaded replaces its cache and a failed one
// keeps its previous value. Any failure fails the whole operation.
func (c *Coordinator) LoadAll(ctx context.Context) (err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanLoadAll,
		tracer.String(tracer.AttrPlatform, string(c.platform)),
		c.subjectAttr(),
	)
	defer func() { span.End(err) }()

	start := time.Now()
	c.beginLoading()
	defer c.endLoading()

	var (
		g      errgroup.Group
		result loadResult
	)
	g.Go(func() error {
		result.purposes, result.purposesErr = c.fetchPurposes(ctx)
		return result.purposesErr
	})
	g.Go(func() error {
		result.permissions, result.permissionsErr = c.fetchPermissions(ctx)
		return result.permissionsErr
	})
	err = g.Wait()

	c.mu.Lock()
	if result.purposesErr == nil {
		c.state.purposes = result.purposes
	}
	if result.permissionsErr == nil {
		c.state.permissions = result.permissions
	}
	purposes, permissions := len(c.state.purposes), len(c.state.permissions)
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.IncrementLoad("purposes", result.purposesErr == nil)
		c.metrics.IncrementLoad("permissions", result.permissionsErr == nil)
		c.metrics.ObserveLoadAllLatency(time.Since(start))
		c.metrics.SetCached(purposes, permissions)
	}

	if err != nil {
		return c.fail(ctx, "Failed to load initial data", err,
			"purposes_failed", result.purposesErr != nil,
			"permissions_failed", result.permissionsErr != nil,
		)
	}
	span.SetAttributes(tracer.Int(tracer.AttrItemCount, purposes+permissions))
	c.logger.InfoContext(ctx, "consent data loaded",
		"purposes", purposes,
		"permissions", permissions,
	)
	return nil
}

// FetchPurposes refreshes only the purposes collection.
func (c *Coordinator) FetchPurposes(ctx context.Context) ([]*models.Purpose, error) {
	c.beginLoading()
	defer c.endLoading()

	purposes, err := c.fetchPurposes(ctx)
	if c.metrics != nil {
		c.metrics.IncrementLoad("purposes", err == nil)
	}
	if err != nil {
		return nil, c.fail(ctx, "Failed to get purposes", err)
	}
	c.replacePurposes(purposes)

	out := make([]*models.Purpose, 0, len(purposes))
	for _, p := range purposes {
		out = append(out, copyPurpose(p))
	}
	c.succeed("", nil, map[string]any{"purposes": out})
	return out, nil
}

// FetchPermissions refreshes only the permissions collection.
func (c *Coordinator) FetchPermissions(ctx context.Context) ([]*models.AppPermission, error) {
	c.beginLoading()
	defer c.endLoading()

	permissions, err := c.fetchPermissions(ctx)
	if c.metrics != nil {
		c.metrics.IncrementLoad("permissions", err == nil)
	}
	if err != nil {
		return nil, c.fail(ctx, "Failed to get permissions", err)
	}
	c.replacePermissions(permissions)

	out := make([]*models.AppPermission, 0, len(permissions))
	for _, p := range permissions {
		cp := *p
		out = append(out, &cp)
	}
	c.succeed("", nil, map[string]any{"permissions": out})
	return out, nil
}

func (c *Coordinator) fetchPurposes(ctx context.Context) ([]*models.Purpose, error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanFetchPurposes)
	purposes, err := observe(ctx, c, "getPurposes", c.client.GetPurposes)
	span.SetAttributes(tracer.Int(tracer.AttrItemCount, len(purposes)))
	span.End(err)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeSDKUnavailable, "failed to get purposes")
	}
	if purposes == nil {
		purposes = []*models.Purpose{}
	}
	return purposes, nil
}

func (c *Coordinator) fetchPermissions(ctx context.Context) ([]*models.AppPermission, error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanFetchPermissions)
	permissions, err := observe(ctx, c, "getPermissions", c.client.GetPermissions)
	span.SetAttributes(tracer.Int(tracer.AttrItemCount, len(permissions)))
	span.End(err)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeSDKUnavailable, "failed to get permissions")
	}
	if permissions == nil {
		permissions = []*models.AppPermission{}
	}
	return permissions, nil
}

func (c *Coordinator) replacePurposes(purposes []*models.Purpose) {
	c.mu.Lock()
	c.state.purposes = purposes
	n, m := len(c.state.purposes), len(c.state.permissions)
	c.mu.Unlock()
	if c.metrics != nil {
		c.metrics.SetCached(n, m)
	}
}

func (c *Coordinator) replacePermissions(permissions []*models.AppPermission) {
	c.mu.Lock()
	c.state.permissions = permissions
	n, m := len(c.state.purposes), len(c.state.permissions)
	c.mu.Unlock()
	if c.metrics != nil {
		c.metrics.SetCached(n, m)
	}
}

package coordinator

import (
	"context"
	"fmt"

	"consentsync/internal/audit"
	"consentsync/internal/consent/models"
	"consentsync/internal/platform/tracer"
	dErrors "consentsync/pkg/domain-errors"
)

// Routes taken by RequestNativePermission.
const (
	routeSettings = "settings"
	routePrompt   = "prompt"
)

// RefreshPermission re-reads one permission's consent status and merges it into
// the cache by id. Every other entry keeps its identity. Unknown ids leave the
// cache untouched.
func (c *Coordinator) RefreshPermission(ctx context.Context, permissionID string) (err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanRefreshPermission, tracer.String(tracer.AttrPermissionID, permissionID))
	defer func() { span.End(err) }()

	c.mu.Lock()
	c.state.updatingPermission = permissionID
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		if c.state.updatingPermission == permissionID {
			c.state.updatingPermission = ""
		}
		c.mu.Unlock()
	}()

	status, err := observe(ctx, c, "getConsentByPermissionId", func(ctx context.Context) (models.ConsentStatus, error) {
		return c.client.GetConsentByPermissionID(ctx, permissionID)
	})
	if c.metrics != nil {
		c.metrics.IncrementPermissionRefresh(err == nil)
	}
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to refresh permission status",
			"permission_id", permissionID,
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeSDKUnavailable, "failed to refresh permission "+permissionID)
	}

	c.mergePermission(permissionID, func(p *models.AppPermission) {
		p.ConsentStatus = status
	})
	return nil
}

// RequestNativePermission routes a permission request by platform. Android
// always opens settings. iOS checks the OS status first and only prompts when
// it is undetermined, followed by exactly one targeted refresh; any other
// status opens settings.
func (c *Coordinator) RequestNativePermission(ctx context.Context, permissionID string) (resp *models.Response, err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanRequestNative,
		tracer.String(tracer.AttrPermissionID, permissionID),
		tracer.String(tracer.AttrPlatform, string(c.platform)),
		c.subjectAttr(),
	)
	defer func() { span.End(err) }()

	if permissionID == "" {
		return nil, c.fail(ctx, "Failed to request permission", dErrors.New(dErrors.CodeValidation, "permission id is required"))
	}

	c.beginLoading()
	defer c.endLoading()

	switch c.platform {
	case models.PlatformAndroid:
		span.SetAttributes(tracer.String(tracer.AttrNativeRoute, routeSettings))
		opened := c.openSettings(ctx, permissionID, models.AuditReasonPlatformPolicy)
		return c.succeed(
			"Opened settings for permission: "+permissionID,
			boolPtr(opened),
			map[string]any{"permission_id": permissionID},
		), nil

	case models.PlatformIOS:
		current := c.bridge.Check(ctx, permissionID)
		span.SetAttributes(tracer.String(tracer.AttrNativeStatus, string(current)))
		c.mergePermission(permissionID, func(p *models.AppPermission) {
			p.NativeStatus = current
		})

		if current != models.PermissionNotDetermined {
			span.SetAttributes(tracer.String(tracer.AttrNativeRoute, routeSettings))
			opened := c.openSettings(ctx, permissionID, models.AuditReasonAlreadyDecided)
			return c.succeed(
				fmt.Sprintf("Permission %s already determined (%s), opened settings", permissionID, current),
				boolPtr(opened),
				map[string]any{"permission_id": permissionID, "current_status": current},
			), nil
		}

		span.SetAttributes(tracer.String(tracer.AttrNativeRoute, routePrompt))
		result := c.bridge.Request(ctx, permissionID)
		if c.metrics != nil {
			c.metrics.IncrementNativeRoute(routePrompt)
		}
		c.emitAudit(ctx, audit.Event{
			Action:   models.AuditActionNativePrompted,
			Entity:   permissionID,
			Status:   string(result.Status),
			Decision: promptDecision(result),
			Reason:   models.AuditReasonUserInitiated,
		})
		c.mergePermission(permissionID, func(p *models.AppPermission) {
			p.NativeStatus = result.Status
		})
		if err := c.RefreshPermission(ctx, permissionID); err != nil {
			c.logger.WarnContext(ctx, "permission status not refreshed after prompt",
				"permission_id", permissionID,
				"error", err,
			)
		}
		return c.succeed(
			"Requested permission: "+permissionID,
			nil,
			map[string]any{
				"permission_id":   permissionID,
				"previous_status": current,
				"result":          result,
			},
		), nil
	}

	return nil, c.fail(ctx, "Failed to request permission "+permissionID,
		dErrors.New(dErrors.CodeInternal, fmt.Sprintf("unsupported platform %q", c.platform)))
}

// promptDecision classifies a prompt outcome for the audit trail. A bridge
// error or a missing module is a failure; a denial is the user's rejection.
func promptDecision(result models.PermissionResult) string {
	switch {
	case result.Error != "", result.Status == models.PermissionNotAvailable:
		return models.AuditDecisionFailed
	case result.Status == models.PermissionDenied:
		return models.AuditDecisionRejected
	default:
		return models.AuditDecisionAccepted
	}
}

func (c *Coordinator) openSettings(ctx context.Context, permissionID, reason string) bool {
	opened := c.bridge.OpenSettings(ctx)
	if c.metrics != nil {
		c.metrics.IncrementNativeRoute(routeSettings)
	}
	decision := models.AuditDecisionAccepted
	if !opened {
		decision = models.AuditDecisionFailed
	}
	c.emitAudit(ctx, audit.Event{
		Action:   models.AuditActionSettingsOpened,
		Entity:   permissionID,
		Decision: decision,
		Reason:   reason,
	})
	c.logger.InfoContext(ctx, "routed permission request to settings",
		"permission_id", permissionID,
		"platform", string(c.platform),
		"opened", opened,
	)
	return opened
}

// mergePermission replaces the entry for id with an updated copy. The slice is
// rebuilt so snapshots taken earlier are unaffected; other entries are reused.
func (c *Coordinator) mergePermission(id string, update func(p *models.AppPermission)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	merged := make([]*models.AppPermission, len(c.state.permissions))
	for i, p := range c.state.permissions {
		if p.ID != id {
			merged[i] = p
			continue
		}
		cp := *p
		update(&cp)
		merged[i] = &cp
	}
	c.state.permissions = merged
}

package coordinator

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"consentsync/internal/audit"
	"consentsync/internal/consent/models"
	"consentsync/internal/platform/tracer"
	dErrors "consentsync/pkg/domain-errors"
)

// SetPurposeConsent submits a consent change for purpose, waits for the SDK to
// settle, then re-reads the purpose's status and the full purposes collection.
// The acceptance flag in the response is not a guarantee the change applied.
func (c *Coordinator) SetPurposeConsent(ctx context.Context, purpose models.Purpose, status models.ConsentStatus) (resp *models.Response, err error) {
	entity := strconv.FormatInt(purpose.ID, 10)
	ctx, span := c.tracer.Start(ctx, tracer.SpanSetPurposeConsent,
		tracer.Int64(tracer.AttrPurposeID, purpose.ID),
		tracer.String(tracer.AttrConsentStatus, string(status)),
		tracer.Duration(tracer.AttrSettleDelayMs, c.settleDelay),
		c.subjectAttr(),
	)
	defer func() { span.End(err) }()

	failMsg := fmt.Sprintf("Failed to set consent for purpose %d", purpose.ID)
	if !status.IsSettable() {
		return nil, c.rejectStatus(ctx, failMsg, status)
	}

	c.beginLoading()
	defer c.endLoading()

	accepted, err := observe(ctx, c, "setPurposeConsent", func(ctx context.Context) (bool, error) {
		return c.client.SetPurposeConsent(ctx, purpose, status)
	})
	c.recordConsentSet(ctx, "purpose", models.AuditActionPurposeConsentSet, entity, status, accepted, err)
	if err != nil {
		return nil, c.fail(ctx, failMsg, err, "purpose_id", purpose.ID)
	}
	span.SetAttributes(tracer.Bool(tracer.AttrAccepted, accepted))

	if err := c.settle(ctx); err != nil {
		return nil, c.fail(ctx, failMsg, err, "purpose_id", purpose.ID)
	}

	newStatus, err := observe(ctx, c, "getConsentByPurposeId", func(ctx context.Context) (models.ConsentStatus, error) {
		return c.client.GetConsentByPurposeID(ctx, purpose.ID)
	})
	if err != nil {
		return nil, c.fail(ctx, failMsg, err, "purpose_id", purpose.ID)
	}

	resp = c.succeed(
		fmt.Sprintf("Set consent for purpose %d to %s", purpose.ID, status),
		boolPtr(accepted),
		map[string]any{"purpose_id": purpose.ID, "new_status": newStatus},
	)

	purposes, err := c.fetchPurposes(ctx)
	if err != nil {
		return nil, c.fail(ctx, failMsg, err, "purpose_id", purpose.ID)
	}
	c.replacePurposes(purposes)
	return resp, nil
}

// SetPermissionConsent is the permission counterpart of SetPurposeConsent.
func (c *Coordinator) SetPermissionConsent(ctx context.Context, permission models.AppPermission, status models.ConsentStatus) (resp *models.Response, err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanSetPermissionConsent,
		tracer.String(tracer.AttrPermissionID, permission.ID),
		tracer.String(tracer.AttrConsentStatus, string(status)),
		tracer.Duration(tracer.AttrSettleDelayMs, c.settleDelay),
		c.subjectAttr(),
	)
	defer func() { span.End(err) }()

	failMsg := fmt.Sprintf("Failed to set consent for permission %s", permission.ID)
	if !status.IsSettable() {
		return nil, c.rejectStatus(ctx, failMsg, status)
	}

	c.beginLoading()
	defer c.endLoading()

	accepted, err := observe(ctx, c, "setPermissionConsent", func(ctx context.Context) (bool, error) {
		return c.client.SetPermissionConsent(ctx, permission, status)
	})
	c.recordConsentSet(ctx, "permission", models.AuditActionPermissionConsentSet, permission.ID, status, accepted, err)
	if err != nil {
		return nil, c.fail(ctx, failMsg, err, "permission_id", permission.ID)
	}
	span.SetAttributes(tracer.Bool(tracer.AttrAccepted, accepted))

	if err := c.settle(ctx); err != nil {
		return nil, c.fail(ctx, failMsg, err, "permission_id", permission.ID)
	}

	newStatus, err := observe(ctx, c, "getConsentByPermissionId", func(ctx context.Context) (models.ConsentStatus, error) {
		return c.client.GetConsentByPermissionID(ctx, permission.ID)
	})
	if err != nil {
		return nil, c.fail(ctx, failMsg, err, "permission_id", permission.ID)
	}

	resp = c.succeed(
		fmt.Sprintf("Set consent for permission %s to %s", permission.ID, status),
		boolPtr(accepted),
		map[string]any{"permission_id": permission.ID, "new_status": newStatus},
	)

	permissions, err := c.fetchPermissions(ctx)
	if err != nil {
		return nil, c.fail(ctx, failMsg, err, "permission_id", permission.ID)
	}
	c.replacePermissions(permissions)
	return resp, nil
}

// ResetConsents clears every consent for the subject, then reloads all data.
func (c *Coordinator) ResetConsents(ctx context.Context) (resp *models.Response, err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanResetConsents, c.subjectAttr())
	defer func() { span.End(err) }()

	_, err = observe(ctx, c, "resetConsents", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.client.ResetConsents(ctx)
	})
	if err != nil {
		c.emitAudit(ctx, audit.Event{
			Action:   models.AuditActionConsentsReset,
			Decision: models.AuditDecisionFailed,
			Reason:   models.AuditReasonUserInitiated,
		})
		return nil, c.fail(ctx, "Failed to reset consents", err)
	}
	c.emitAudit(ctx, audit.Event{
		Action:   models.AuditActionConsentsReset,
		Decision: models.AuditDecisionAccepted,
		Reason:   models.AuditReasonUserInitiated,
	})

	resp = c.succeed("Consents have been reset", nil, nil)
	if loadErr := c.LoadAll(ctx); loadErr != nil {
		c.logger.WarnContext(ctx, "reload after consent reset failed", "error", loadErr)
	}
	return resp, nil
}

// settle waits the configured delay or until ctx is done.
func (c *Coordinator) settle(ctx context.Context) error {
	if c.settleDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(c.settleDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "interrupted while waiting for consent to apply")
	case <-timer.C:
		return nil
	}
}

func (c *Coordinator) rejectStatus(ctx context.Context, failMsg string, status models.ConsentStatus) error {
	err := dErrors.New(dErrors.CodeInvalidConsent,
		fmt.Sprintf("consent status %q is not settable, use granted or declined", status))
	return c.fail(ctx, failMsg, err)
}

func (c *Coordinator) recordConsentSet(ctx context.Context, kind, action, entity string, status models.ConsentStatus, accepted bool, err error) {
	decision := models.AuditDecisionAccepted
	switch {
	case err != nil:
		decision = models.AuditDecisionFailed
	case !accepted:
		decision = models.AuditDecisionRejected
	}
	if c.metrics != nil {
		c.metrics.IncrementConsentSet(kind, string(status), decision)
	}
	c.emitAudit(ctx, audit.Event{
		Action:   action,
		Entity:   entity,
		Status:   string(status),
		Decision: decision,
		Reason:   models.AuditReasonUserInitiated,
	})
	c.logger.InfoContext(ctx, "consent change submitted",
		"kind", kind,
		"entity", entity,
		"status", string(status),
		"decision", decision,
	)
}

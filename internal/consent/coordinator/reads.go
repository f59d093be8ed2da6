package coordinator

import (
	"context"
	"fmt"

	"consentsync/internal/consent/models"
	"consentsync/internal/consent/sdk"
	"consentsync/internal/platform/tracer"
)

// ShowBanner asks the SDK to present the consent banner.
func (c *Coordinator) ShowBanner(ctx context.Context) (err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanPresentBanner)
	defer func() { span.End(err) }()

	if _, err = observe(ctx, c, "presentConsentBanner", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.client.PresentConsentBanner(ctx)
	}); err != nil {
		return c.fail(ctx, "Failed to show consent banner", err)
	}
	c.succeed("Consent banner presented", nil, nil)
	return nil
}

// ShowPreferenceCenter asks the SDK to present the preference center.
func (c *Coordinator) ShowPreferenceCenter(ctx context.Context) (err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanPresentPreferenceCntr)
	defer func() { span.End(err) }()

	if _, err = observe(ctx, c, "presentPreferenceCenter", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.client.PresentPreferenceCenter(ctx)
	}); err != nil {
		return c.fail(ctx, "Failed to show preference center", err)
	}
	c.succeed("Preference center presented", nil, nil)
	return nil
}

func (c *Coordinator) ConsentForPurpose(ctx context.Context, purposeID int64) (models.ConsentStatus, error) {
	c.beginLoading()
	defer c.endLoading()

	status, err := observe(ctx, c, "getConsentByPurposeId", func(ctx context.Context) (models.ConsentStatus, error) {
		return c.client.GetConsentByPurposeID(ctx, purposeID)
	})
	if err != nil {
		return models.ConsentUnknown, c.fail(ctx, fmt.Sprintf("Failed to get consent for purpose %d", purposeID), err, "purpose_id", purposeID)
	}
	c.succeed("", nil, map[string]any{"purpose_id": purposeID, "consent_status": status})
	return status, nil
}

func (c *Coordinator) ConsentForPermission(ctx context.Context, permissionID string) (models.ConsentStatus, error) {
	c.beginLoading()
	defer c.endLoading()

	status, err := observe(ctx, c, "getConsentByPermissionId", func(ctx context.Context) (models.ConsentStatus, error) {
		return c.client.GetConsentByPermissionID(ctx, permissionID)
	})
	if err != nil {
		return models.ConsentUnknown, c.fail(ctx, "Failed to get consent for permission "+permissionID, err, "permission_id", permissionID)
	}
	c.succeed("", nil, map[string]any{"permission_id": permissionID, "consent_status": status})
	return status, nil
}

func (c *Coordinator) SDKsInPurpose(ctx context.Context, purposeID int64) ([]models.SDK, error) {
	c.beginLoading()
	defer c.endLoading()

	sdks, err := observe(ctx, c, "getSdksInPurpose", func(ctx context.Context) ([]models.SDK, error) {
		return c.client.GetSDKsInPurpose(ctx, purposeID)
	})
	if err != nil {
		return nil, c.fail(ctx, fmt.Sprintf("Failed to get SDKs for purpose %d", purposeID), err, "purpose_id", purposeID)
	}
	if sdks == nil {
		sdks = []models.SDK{}
	}
	c.succeed("", nil, map[string]any{"purpose_id": purposeID, "sdks": sdks})
	return sdks, nil
}

// BannerConfig reads the banner configuration. An empty locationCode uses the
// initialization location.
func (c *Coordinator) BannerConfig(ctx context.Context, locationCode string) (models.BannerConfig, error) {
	c.beginLoading()
	defer c.endLoading()

	var opts *sdk.BannerOptions
	if locationCode != "" {
		opts = &sdk.BannerOptions{LocationCode: locationCode}
	}
	cfg, err := observe(ctx, c, "getBannerConfig", func(ctx context.Context) (models.BannerConfig, error) {
		return c.client.GetBannerConfig(ctx, opts)
	})
	if err != nil {
		return nil, c.fail(ctx, "Failed to get banner config", err)
	}
	c.succeed("", nil, map[string]any{"banner_config": cfg})
	return cfg, nil
}

func (c *Coordinator) SettingsPrompt(ctx context.Context) (models.SettingsPrompt, error) {
	c.beginLoading()
	defer c.endLoading()

	prompt, err := observe(ctx, c, "getSettingsPrompt", c.client.GetSettingsPrompt)
	if err != nil {
		return nil, c.fail(ctx, "Failed to get settings prompt", err)
	}
	c.succeed("", nil, map[string]any{"settings_prompt": prompt})
	return prompt, nil
}

// Options returns the record the SDK was initialized with.
func (c *Coordinator) Options() sdk.Options {
	opts := c.client.Options()
	c.succeed("", nil, map[string]any{"options": opts})
	return opts
}

package coordinator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consentsync/internal/consent/models"
	"consentsync/internal/consent/sdk"
	"consentsync/internal/consent/sdk/simulator"
	"consentsync/internal/permission/bridge"
	"consentsync/pkg/testutil"
)

func simulatorOptions() sdk.Options {
	return sdk.Options{
		TenantID:              "tenant",
		AppID:                 "ios-app",
		SubjectID:             "iosSubject",
		LoggerLevel:           sdk.LoggerLevelDebug,
		ConsentsCheckInterval: 3600,
		TestingMode:           true,
	}
}

func TestSetConsentVisibleAfterSettle(t *testing.T) {
	ctx := context.Background()
	sim := simulator.New(simulator.WithInitLatency(0), simulator.WithApplyDelay(20*time.Millisecond))
	c := New(sim, bridge.NewFallback(models.PlatformIOS, nil), models.PlatformIOS,
		WithSettleDelay(80*time.Millisecond),
	)
	require.NoError(t, c.Start(ctx, simulatorOptions()))
	require.True(t, c.IsReady())

	purpose, ok := c.Purpose(1)
	require.True(t, ok)
	require.Equal(t, models.ConsentUnknown, purpose.ConsentStatus)

	resp, err := c.SetPurposeConsent(ctx, purpose, models.ConsentGranted)
	require.NoError(t, err)
	assert.Equal(t, models.ConsentGranted, resp.Data["new_status"])

	cached, ok := c.Purpose(1)
	require.True(t, ok)
	assert.Equal(t, models.ConsentGranted, cached.ConsentStatus)
}

func TestSetConsentWithoutSettleReadsStaleStatus(t *testing.T) {
	ctx := context.Background()
	sim := simulator.New(simulator.WithInitLatency(0), simulator.WithApplyDelay(time.Hour))
	c := New(sim, bridge.NewFallback(models.PlatformIOS, nil), models.PlatformIOS, WithSettleDelay(0))
	require.NoError(t, c.Start(ctx, simulatorOptions()))

	permission, ok := c.Permission("NSCameraUsageDescription")
	require.True(t, ok)

	resp, err := c.SetPermissionConsent(ctx, permission, models.ConsentDeclined)
	require.NoError(t, err)
	require.NotNil(t, resp.Success)
	assert.True(t, *resp.Success, "sdk accepted the change")
	assert.Equal(t, models.ConsentUnknown, resp.Data["new_status"], "acceptance is not application")
}

func TestAsyncReadinessLoadsOnce(t *testing.T) {
	ctx := context.Background()
	sim := simulator.New(simulator.WithInitLatency(20 * time.Millisecond))
	c := New(sim, bridge.NewFallback(models.PlatformIOS, nil), models.PlatformIOS, WithShowBannerOnReady(true))

	require.NoError(t, c.Start(ctx, simulatorOptions()))

	select {
	case <-c.Ready():
	case <-time.After(time.Second):
		t.Fatal("coordinator never became ready")
	}
	assert.Eventually(t, func() bool {
		return len(c.Snapshot().Purposes) == len(simulator.DefaultPurposes())
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 1, sim.Calls(simulator.OpGetPurposes))
	assert.Equal(t, 1, sim.Calls(simulator.OpGetPermissions))
	assert.Equal(t, 1, sim.Calls(simulator.OpPresentBanner))
}

func TestFallbackBridgeNativeRequest(t *testing.T) {
	ctx := context.Background()
	sim := simulator.New(simulator.WithInitLatency(0))
	c := New(sim, bridge.NewFallback(models.PlatformIOS, nil), models.PlatformIOS)
	require.NoError(t, c.Start(ctx, simulatorOptions()))

	resp, err := c.RequestNativePermission(ctx, "NSCameraUsageDescription")
	require.NoError(t, err)
	assert.Equal(t, "Permission NSCameraUsageDescription already determined (not_available), opened settings", resp.Message)
	require.NotNil(t, resp.Success)
	assert.False(t, *resp.Success)
	assert.Equal(t, 0, sim.Calls(simulator.OpGetPermissionConsent), "no refresh when settings were opened")
}

func TestFetchPurposesFailureKeepsCache(t *testing.T) {
	ctx := context.Background()
	sim := simulator.New(simulator.WithInitLatency(0))
	c := New(sim, bridge.NewFallback(models.PlatformAndroid, nil), models.PlatformAndroid)
	require.NoError(t, c.Start(ctx, simulatorOptions()))
	require.Len(t, c.Snapshot().Purposes, len(simulator.DefaultPurposes()))

	sim.Fail(simulator.OpGetPurposes, errors.New("offline"))
	_, err := c.FetchPurposes(ctx)
	require.Error(t, err)

	snap := c.Snapshot()
	assert.Len(t, snap.Purposes, len(simulator.DefaultPurposes()))
	assert.False(t, snap.Loading)
	require.NotNil(t, snap.LastResponse)
	assert.Contains(t, snap.LastResponse.Error, "Failed to get purposes")

	sim.Recover(simulator.OpGetPurposes)
	purposes, err := c.FetchPurposes(ctx)
	require.NoError(t, err)
	assert.Len(t, purposes, len(simulator.DefaultPurposes()))
}

func TestConcurrentActionsKeepStateConsistent(t *testing.T) {
	ctx := context.Background()
	sim := simulator.New(simulator.WithInitLatency(0), simulator.WithApplyDelay(0))
	c := New(sim, bridge.NewFallback(models.PlatformIOS, nil), models.PlatformIOS, WithSettleDelay(0))
	require.NoError(t, c.Start(ctx, simulatorOptions()))

	permissions := simulator.DefaultPermissions(models.PlatformIOS)
	result := testutil.RunConcurrentCtx(ctx, 24, func(ctx context.Context, idx int) error {
		switch idx % 4 {
		case 0:
			return c.LoadAll(ctx)
		case 1:
			return c.RefreshPermission(ctx, permissions[idx%len(permissions)].ID)
		case 2:
			purpose, ok := c.Purpose(1)
			if !ok {
				return errors.New("purpose 1 missing from cache")
			}
			_, err := c.SetPurposeConsent(ctx, purpose, models.ConsentGranted)
			return err
		default:
			_, err := c.FetchPermissions(ctx)
			return err
		}
	})
	assert.Equal(t, int32(24), result.Successes)

	snap := c.Snapshot()
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.UpdatingPermission)
	assert.Len(t, snap.Purposes, len(simulator.DefaultPurposes()))
	assert.Len(t, snap.Permissions, len(permissions))

	purpose, ok := c.Purpose(1)
	require.True(t, ok)
	assert.Equal(t, models.ConsentGranted, purpose.ConsentStatus)
}

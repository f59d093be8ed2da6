package coordinator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"consentsync/internal/audit"
	"consentsync/internal/consent/metrics"
	"consentsync/internal/consent/models"
	"consentsync/internal/consent/sdk"
	sdkmocks "consentsync/internal/consent/sdk/mocks"
	bridgemocks "consentsync/internal/permission/bridge/mocks"
	dErrors "consentsync/pkg/domain-errors"
)

var errSDKDown = errors.New("sdk down")

// CoordinatorSuite drives the coordinator against strict gomock doubles, so any
// SDK or bridge call not set up in a test fails it.
type CoordinatorSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	client     *sdkmocks.MockClient
	bridge     *bridgemocks.MockBridge
	auditStore *audit.InMemoryStore
	metrics    *metrics.Metrics
	fixedNow   time.Time
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

func (s *CoordinatorSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.client = sdkmocks.NewMockClient(s.ctrl)
	s.bridge = bridgemocks.NewMockBridge(s.ctrl)
	s.auditStore = audit.NewInMemoryStore()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *CoordinatorSuite) newCoordinator(platform models.Platform, opts ...Option) *Coordinator {
	base := []Option{
		WithSettleDelay(0),
		WithMetrics(s.metrics),
		WithAuditor(audit.NewPublisher(s.auditStore)),
		WithNow(func() time.Time { return s.fixedNow }),
	}
	c := New(s.client, s.bridge, platform, append(base, opts...)...)
	c.subjectID = "subject-1"
	return c
}

func (s *CoordinatorSuite) auditEvents() []audit.Event {
	events, err := s.auditStore.ListBySubject(context.Background(), "subject-1")
	s.Require().NoError(err)
	return events
}

func permissionsFixture() []*models.AppPermission {
	return []*models.AppPermission{
		{ID: "NSCameraUsageDescription", Name: "Camera", ConsentStatus: models.ConsentUnknown},
		{ID: "NSMicrophoneUsageDescription", Name: "Microphone", ConsentStatus: models.ConsentDeclined},
		{ID: "NSContactsUsageDescription", Name: "Contacts", ConsentStatus: models.ConsentGranted},
	}
}

func (s *CoordinatorSuite) TestNewPanicsWithoutDependencies() {
	s.Panics(func() { New(nil, s.bridge, models.PlatformIOS) })
	s.Panics(func() { New(s.client, nil, models.PlatformIOS) })
}

func (s *CoordinatorSuite) TestLoadAll() {
	ctx := context.Background()

	s.Run("replaces both collections", func() {
		c := s.newCoordinator(models.PlatformIOS)
		s.client.EXPECT().GetPurposes(gomock.Any()).Return([]*models.Purpose{{ID: 1}, {ID: 2}}, nil)
		s.client.EXPECT().GetPermissions(gomock.Any()).Return(permissionsFixture(), nil)

		s.Require().NoError(c.LoadAll(ctx))

		snap := c.Snapshot()
		s.Len(snap.Purposes, 2)
		s.Len(snap.Permissions, 3)
		s.False(snap.Loading)
		s.Nil(snap.LastResponse, "a successful load does not overwrite the last response")
		s.Equal(1.0, testutil.ToFloat64(s.metrics.Loads.WithLabelValues("purposes", "success")))
	})

	s.Run("failed purposes keep previous cache while permissions are replaced", func() {
		c := s.newCoordinator(models.PlatformIOS)
		previous := []*models.Purpose{{ID: 9, ConsentStatus: models.ConsentGranted}}
		c.state.purposes = previous

		s.client.EXPECT().GetPurposes(gomock.Any()).Return(nil, errSDKDown)
		s.client.EXPECT().GetPermissions(gomock.Any()).Return(permissionsFixture(), nil)

		err := c.LoadAll(ctx)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeSDKUnavailable))

		s.Same(previous[0], c.state.purposes[0])
		s.Len(c.state.permissions, 3)

		snap := c.Snapshot()
		s.False(snap.Loading)
		s.Require().NotNil(snap.LastResponse)
		s.True(snap.LastResponse.Failed())
		s.Contains(snap.LastResponse.Error, "Failed to load initial data")
	})

	s.Run("both failing keeps everything", func() {
		c := s.newCoordinator(models.PlatformIOS)
		c.state.permissions = permissionsFixture()
		s.client.EXPECT().GetPurposes(gomock.Any()).Return(nil, errSDKDown)
		s.client.EXPECT().GetPermissions(gomock.Any()).Return(nil, errSDKDown)

		s.Require().Error(c.LoadAll(ctx))
		s.Len(c.state.permissions, 3)
		s.False(c.Snapshot().Loading)
	})
}

func (s *CoordinatorSuite) TestRefreshPermission() {
	ctx := context.Background()

	s.Run("replaces exactly one entry", func() {
		c := s.newCoordinator(models.PlatformIOS)
		before := permissionsFixture()
		c.state.permissions = before

		s.client.EXPECT().GetConsentByPermissionID(gomock.Any(), "NSMicrophoneUsageDescription").
			Return(models.ConsentGranted, nil)

		s.Require().NoError(c.RefreshPermission(ctx, "NSMicrophoneUsageDescription"))

		after := c.state.permissions
		s.Require().Len(after, 3)
		s.Same(before[0], after[0])
		s.Same(before[2], after[2])
		s.NotSame(before[1], after[1])
		s.Equal(models.ConsentGranted, after[1].ConsentStatus)
		s.Equal(models.ConsentDeclined, before[1].ConsentStatus, "previous entry is not mutated")
		s.Empty(c.Snapshot().UpdatingPermission)
	})

	s.Run("unknown id leaves cache untouched", func() {
		c := s.newCoordinator(models.PlatformIOS)
		before := permissionsFixture()
		c.state.permissions = before

		s.client.EXPECT().GetConsentByPermissionID(gomock.Any(), "NSFaceIDUsageDescription").
			Return(models.ConsentGranted, nil)

		s.Require().NoError(c.RefreshPermission(ctx, "NSFaceIDUsageDescription"))
		for i := range before {
			s.Same(before[i], c.state.permissions[i])
		}
	})

	s.Run("failure is returned and clears the updating marker", func() {
		c := s.newCoordinator(models.PlatformIOS)
		c.state.permissions = permissionsFixture()
		s.client.EXPECT().GetConsentByPermissionID(gomock.Any(), "NSCameraUsageDescription").
			Return(models.ConsentUnknown, errSDKDown)

		err := c.RefreshPermission(ctx, "NSCameraUsageDescription")
		s.True(dErrors.HasCode(err, dErrors.CodeSDKUnavailable))
		s.Empty(c.Snapshot().UpdatingPermission)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.PermissionRefreshes.WithLabelValues("failure")))
	})
}

func (s *CoordinatorSuite) TestRequestNativePermissionAndroid() {
	c := s.newCoordinator(models.PlatformAndroid)
	c.state.permissions = permissionsFixture()

	s.bridge.EXPECT().OpenSettings(gomock.Any()).Return(true).Times(1)

	resp, err := c.RequestNativePermission(context.Background(), "android.permission.CAMERA")
	s.Require().NoError(err)
	s.Equal("Opened settings for permission: android.permission.CAMERA", resp.Message)
	s.Require().NotNil(resp.Success)
	s.True(*resp.Success)
	s.Equal(s.fixedNow, resp.Timestamp)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.NativeRoutes.WithLabelValues(routeSettings)))

	events := s.auditEvents()
	s.Require().Len(events, 1)
	s.Equal(models.AuditActionSettingsOpened, events[0].Action)
	s.Equal(models.AuditReasonPlatformPolicy, events[0].Reason)
}

func (s *CoordinatorSuite) TestRequestNativePermissionIOS() {
	ctx := context.Background()

	s.Run("not determined prompts then refreshes once", func() {
		c := s.newCoordinator(models.PlatformIOS)
		before := permissionsFixture()
		c.state.permissions = before

		gomock.InOrder(
			s.bridge.EXPECT().Check(gomock.Any(), "NSCameraUsageDescription").Return(models.PermissionNotDetermined),
			s.bridge.EXPECT().Request(gomock.Any(), "NSCameraUsageDescription").
				Return(models.PermissionResult{Status: models.PermissionGranted}),
			s.client.EXPECT().GetConsentByPermissionID(gomock.Any(), "NSCameraUsageDescription").
				Return(models.ConsentGranted, nil).Times(1),
		)

		resp, err := c.RequestNativePermission(ctx, "NSCameraUsageDescription")
		s.Require().NoError(err)
		s.Equal("Requested permission: NSCameraUsageDescription", resp.Message)
		s.Equal(models.PermissionNotDetermined, resp.Data["previous_status"])

		camera, ok := c.Permission("NSCameraUsageDescription")
		s.Require().True(ok)
		s.Equal(models.ConsentGranted, camera.ConsentStatus)
		s.Equal(models.PermissionGranted, camera.NativeStatus)
		s.Same(before[1], c.state.permissions[1])
		s.Same(before[2], c.state.permissions[2])
		s.Equal(1.0, testutil.ToFloat64(s.metrics.NativeRoutes.WithLabelValues(routePrompt)))
	})

	s.Run("determined status opens settings without prompting", func() {
		c := s.newCoordinator(models.PlatformIOS)
		c.state.permissions = permissionsFixture()

		s.bridge.EXPECT().Check(gomock.Any(), "NSContactsUsageDescription").Return(models.PermissionDenied)
		s.bridge.EXPECT().OpenSettings(gomock.Any()).Return(false)

		resp, err := c.RequestNativePermission(ctx, "NSContactsUsageDescription")
		s.Require().NoError(err)
		s.Equal("Permission NSContactsUsageDescription already determined (denied), opened settings", resp.Message)
		s.Require().NotNil(resp.Success)
		s.False(*resp.Success)
	})

	s.Run("refresh failure still records the prompt result", func() {
		c := s.newCoordinator(models.PlatformIOS)
		c.state.permissions = permissionsFixture()

		s.bridge.EXPECT().Check(gomock.Any(), "NSCameraUsageDescription").Return(models.PermissionNotDetermined)
		s.bridge.EXPECT().Request(gomock.Any(), "NSCameraUsageDescription").
			Return(models.PermissionResult{Status: models.PermissionDenied})
		s.client.EXPECT().GetConsentByPermissionID(gomock.Any(), "NSCameraUsageDescription").
			Return(models.ConsentUnknown, errSDKDown)

		resp, err := c.RequestNativePermission(ctx, "NSCameraUsageDescription")
		s.Require().NoError(err)
		s.False(resp.Failed())
	})

	s.Run("empty id is rejected", func() {
		c := s.newCoordinator(models.PlatformIOS)
		_, err := c.RequestNativePermission(ctx, "")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *CoordinatorSuite) TestSetPurposeConsent() {
	ctx := context.Background()
	purpose := models.Purpose{ID: 2, ConsentStatus: models.ConsentUnknown}

	s.Run("rejects non-settable status without calling the sdk", func() {
		c := s.newCoordinator(models.PlatformIOS)
		_, err := c.SetPurposeConsent(ctx, purpose, models.ConsentUnknown)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidConsent))
		s.True(c.LastResponse().Failed())
	})

	s.Run("re-reads status and collection after submitting", func() {
		c := s.newCoordinator(models.PlatformIOS)
		gomock.InOrder(
			s.client.EXPECT().SetPurposeConsent(gomock.Any(), purpose, models.ConsentGranted).Return(true, nil),
			s.client.EXPECT().GetConsentByPurposeID(gomock.Any(), int64(2)).Return(models.ConsentGranted, nil),
			s.client.EXPECT().GetPurposes(gomock.Any()).
				Return([]*models.Purpose{{ID: 2, ConsentStatus: models.ConsentGranted}}, nil),
		)

		resp, err := c.SetPurposeConsent(ctx, purpose, models.ConsentGranted)
		s.Require().NoError(err)
		s.Equal("Set consent for purpose 2 to granted", resp.Message)
		s.Equal(models.ConsentGranted, resp.Data["new_status"])
		s.Require().NotNil(resp.Success)
		s.True(*resp.Success)

		cached, ok := c.Purpose(2)
		s.Require().True(ok)
		s.Equal(models.ConsentGranted, cached.ConsentStatus)

		events := s.auditEvents()
		s.Require().NotEmpty(events)
		last := events[len(events)-1]
		s.Equal(models.AuditActionPurposeConsentSet, last.Action)
		s.Equal("2", last.Entity)
		s.Equal(models.AuditDecisionAccepted, last.Decision)
	})

	s.Run("sdk error is recorded and returned", func() {
		c := s.newCoordinator(models.PlatformIOS)
		s.client.EXPECT().SetPurposeConsent(gomock.Any(), purpose, models.ConsentDeclined).Return(false, errSDKDown)

		_, err := c.SetPurposeConsent(ctx, purpose, models.ConsentDeclined)
		s.True(dErrors.HasCode(err, dErrors.CodeSDKUnavailable))
		s.Equal("Failed to set consent for purpose 2: sdk down", c.LastResponse().Error)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.ConsentSets.WithLabelValues("purpose", "declined", "failed")))
	})

	s.Run("cancelled settle wait stops before re-reading", func() {
		c := s.newCoordinator(models.PlatformIOS, WithSettleDelay(time.Hour))
		cctx, cancel := context.WithCancel(ctx)
		s.client.EXPECT().SetPurposeConsent(gomock.Any(), purpose, models.ConsentGranted).
			DoAndReturn(func(context.Context, models.Purpose, models.ConsentStatus) (bool, error) {
				cancel()
				return true, nil
			})

		_, err := c.SetPurposeConsent(cctx, purpose, models.ConsentGranted)
		s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
		s.False(c.Snapshot().Loading)
	})
}

func (s *CoordinatorSuite) TestSetPermissionConsentRejected() {
	c := s.newCoordinator(models.PlatformIOS)
	permission := models.AppPermission{ID: "NSCameraUsageDescription"}

	s.client.EXPECT().SetPermissionConsent(gomock.Any(), permission, models.ConsentGranted).Return(false, nil)
	s.client.EXPECT().GetConsentByPermissionID(gomock.Any(), "NSCameraUsageDescription").Return(models.ConsentUnknown, nil)
	s.client.EXPECT().GetPermissions(gomock.Any()).Return(permissionsFixture(), nil)

	resp, err := c.SetPermissionConsent(context.Background(), permission, models.ConsentGranted)
	s.Require().NoError(err)
	s.Require().NotNil(resp.Success)
	s.False(*resp.Success)
	s.Equal(models.ConsentUnknown, resp.Data["new_status"])
	s.Equal(models.AuditDecisionRejected, s.auditEvents()[0].Decision)
}

func (s *CoordinatorSuite) TestStartReadyTwiceLoadsOnce() {
	c := s.newCoordinator(models.PlatformIOS, WithShowBannerOnReady(true))
	opts := sdk.Options{TenantID: "t", AppID: "a", SubjectID: "subject-1"}

	s.client.EXPECT().OnReady(gomock.Any()).Do(func(cb func(bool)) { cb(true) })
	s.client.EXPECT().Initialize(gomock.Any(), opts).Return(nil)
	s.client.EXPECT().IsReady().Return(true)
	s.bridge.EXPECT().Name().Return("fallback")
	s.client.EXPECT().PresentConsentBanner(gomock.Any()).Return(nil).Times(1)
	s.client.EXPECT().GetPurposes(gomock.Any()).Return([]*models.Purpose{{ID: 1}}, nil).Times(1)
	s.client.EXPECT().GetPermissions(gomock.Any()).Return(permissionsFixture(), nil).Times(1)

	s.Require().NoError(c.Start(context.Background(), opts))
	s.True(c.IsReady())
	s.True(c.Snapshot().SDKReady)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.ReadyTransitions))

	select {
	case <-c.Ready():
	default:
		s.Fail("ready channel not closed")
	}
}

func (s *CoordinatorSuite) TestStartNotReady() {
	c := s.newCoordinator(models.PlatformIOS)
	opts := sdk.Options{TenantID: "t", AppID: "a"}

	s.client.EXPECT().OnReady(gomock.Any()).Do(func(cb func(bool)) { cb(false) })
	s.client.EXPECT().Initialize(gomock.Any(), opts).Return(nil)
	s.client.EXPECT().IsReady().Return(false)
	s.bridge.EXPECT().Name().Return("native")

	s.Require().NoError(c.Start(context.Background(), opts))
	s.False(c.IsReady())
}

func (s *CoordinatorSuite) TestStartInitializeFailure() {
	c := s.newCoordinator(models.PlatformIOS)
	s.client.EXPECT().OnReady(gomock.Any())
	s.client.EXPECT().Initialize(gomock.Any(), gomock.Any()).Return(errSDKDown)

	err := c.Start(context.Background(), sdk.Options{})
	s.True(dErrors.HasCode(err, dErrors.CodeSDKUnavailable))
	s.True(c.LastResponse().Failed())
	s.False(c.IsReady())
}

func (s *CoordinatorSuite) TestHandleAppState() {
	ctx := context.Background()

	s.Run("ignored before ready", func() {
		c := s.newCoordinator(models.PlatformIOS)
		reloaded, err := c.HandleAppState(ctx, models.AppStateActive)
		s.NoError(err)
		s.False(reloaded)
	})

	s.Run("background is ignored", func() {
		c := s.newCoordinator(models.PlatformIOS)
		c.readyOnce.Do(func() { close(c.ready) })
		reloaded, err := c.HandleAppState(ctx, models.AppStateBackground)
		s.NoError(err)
		s.False(reloaded)
	})

	s.Run("active and ready reloads everything", func() {
		c := s.newCoordinator(models.PlatformIOS)
		c.readyOnce.Do(func() { close(c.ready) })
		s.client.EXPECT().GetPurposes(gomock.Any()).Return(nil, nil)
		s.client.EXPECT().GetPermissions(gomock.Any()).Return(nil, nil)

		reloaded, err := c.HandleAppState(ctx, models.AppStateActive)
		s.NoError(err)
		s.True(reloaded)
		s.NotNil(c.Snapshot().Purposes)
	})
}

func (s *CoordinatorSuite) TestResetConsents() {
	c := s.newCoordinator(models.PlatformIOS)
	s.client.EXPECT().ResetConsents(gomock.Any()).Return(nil)
	s.client.EXPECT().GetPurposes(gomock.Any()).Return(nil, errSDKDown)
	s.client.EXPECT().GetPermissions(gomock.Any()).Return(permissionsFixture(), nil)

	resp, err := c.ResetConsents(context.Background())
	s.Require().NoError(err)
	s.Equal("Consents have been reset", resp.Message)
	s.Len(c.state.permissions, 3)
	s.Equal(models.AuditActionConsentsReset, s.auditEvents()[0].Action)
}

func (s *CoordinatorSuite) TestReadThroughsRecordResponses() {
	ctx := context.Background()
	c := s.newCoordinator(models.PlatformIOS)

	s.client.EXPECT().GetSDKsInPurpose(gomock.Any(), int64(1)).Return(nil, nil)
	sdks, err := c.SDKsInPurpose(ctx, 1)
	s.Require().NoError(err)
	s.NotNil(sdks)
	s.Equal(int64(1), c.LastResponse().Data["purpose_id"])

	s.client.EXPECT().GetBannerConfig(gomock.Any(), &sdk.BannerOptions{LocationCode: "DE"}).
		Return(models.BannerConfig{"title": "Hallo"}, nil)
	cfg, err := c.BannerConfig(ctx, "DE")
	s.Require().NoError(err)
	s.Equal("Hallo", cfg["title"])

	s.client.EXPECT().GetSettingsPrompt(gomock.Any()).Return(nil, errSDKDown)
	_, err = c.SettingsPrompt(ctx)
	s.Require().Error(err)
	s.Equal("Failed to get settings prompt: sdk down", c.LastResponse().Error)

	s.client.EXPECT().GetConsentByPurposeID(gomock.Any(), int64(3)).Return(models.ConsentDeclined, nil)
	status, err := c.ConsentForPurpose(ctx, 3)
	s.Require().NoError(err)
	s.Equal(models.ConsentDeclined, status)

	s.client.EXPECT().Options().Return(sdk.Options{TenantID: "t"})
	s.Equal("t", c.Options().TenantID)

	s.client.EXPECT().PresentPreferenceCenter(gomock.Any()).Return(nil)
	s.Require().NoError(c.ShowPreferenceCenter(ctx))
	s.Equal("Preference center presented", c.LastResponse().Message)
}

func (s *CoordinatorSuite) TestSnapshotIsDetached() {
	c := s.newCoordinator(models.PlatformIOS)
	c.state.purposes = []*models.Purpose{{ID: 1, Names: map[string]string{"en": "Analytics"}}}
	c.state.permissions = permissionsFixture()

	snap := c.Snapshot()
	snap.Purposes[0].Names["en"] = "mutated"
	snap.Permissions[0].ConsentStatus = models.ConsentGranted

	s.Equal("Analytics", c.state.purposes[0].Names["en"])
	s.Equal(models.ConsentUnknown, c.state.permissions[0].ConsentStatus)
}

package coordinator

import (
	"context"
	"sync"
	"time"

	"go.uber.org/mock/gomock"

	"consentsync/internal/consent/models"
	"consentsync/internal/platform/middleware"
	"consentsync/internal/platform/tracer"
	dErrors "consentsync/pkg/domain-errors"
)

type recordedSpan struct {
	name  string
	attrs map[string]any
	ended bool
	err   error
}

// recordingTracer keeps every span it starts so tests can inspect attributes
// and the error each span ended with.
type recordingTracer struct {
	mu    sync.Mutex
	spans []*recordedSpan
}

func (t *recordingTracer) Start(ctx context.Context, name string, attrs ...tracer.Attribute) (context.Context, tracer.Span) {
	span := &recordedSpan{name: name, attrs: map[string]any{}}
	for _, a := range attrs {
		span.attrs[a.Key] = a.Value
	}
	t.mu.Lock()
	t.spans = append(t.spans, span)
	t.mu.Unlock()
	return ctx, &recordingSpan{tracer: t, span: span}
}

func (t *recordingTracer) find(name string) *recordedSpan {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, span := range t.spans {
		if span.name == name {
			return span
		}
	}
	return nil
}

type recordingSpan struct {
	tracer *recordingTracer
	span   *recordedSpan
}

func (s *recordingSpan) End(err error) {
	s.tracer.mu.Lock()
	defer s.tracer.mu.Unlock()
	s.span.ended = true
	s.span.err = err
}

func (s *recordingSpan) SetAttributes(attrs ...tracer.Attribute) {
	s.tracer.mu.Lock()
	defer s.tracer.mu.Unlock()
	for _, a := range attrs {
		s.span.attrs[a.Key] = a.Value
	}
}

func (s *recordingSpan) AddEvent(string, ...tracer.Attribute) {}

func (s *CoordinatorSuite) TestSpansCarryHashedSubject() {
	ctx := context.Background()
	rec := &recordingTracer{}
	c := s.newCoordinator(models.PlatformIOS, WithTracer(rec), WithSettleDelay(5*time.Millisecond))
	purpose := models.Purpose{ID: 3}
	wantHash := tracer.HashSubjectID("subject-1")

	s.client.EXPECT().SetPurposeConsent(gomock.Any(), purpose, models.ConsentGranted).Return(true, nil)
	s.client.EXPECT().GetConsentByPurposeID(gomock.Any(), int64(3)).Return(models.ConsentGranted, nil)
	s.client.EXPECT().GetPurposes(gomock.Any()).Return([]*models.Purpose{{ID: 3}}, nil).Times(2)
	s.client.EXPECT().ResetConsents(gomock.Any()).Return(nil)
	s.client.EXPECT().GetPermissions(gomock.Any()).Return(permissionsFixture(), nil)

	_, err := c.SetPurposeConsent(ctx, purpose, models.ConsentGranted)
	s.Require().NoError(err)
	_, err = c.ResetConsents(ctx)
	s.Require().NoError(err)

	set := rec.find(tracer.SpanSetPurposeConsent)
	s.Require().NotNil(set)
	s.Equal(wantHash, set.attrs[tracer.AttrSubject])
	s.Equal(int64(5), set.attrs[tracer.AttrSettleDelayMs])
	s.True(set.ended)
	s.NoError(set.err)

	for _, name := range []string{tracer.SpanResetConsents, tracer.SpanLoadAll} {
		span := rec.find(name)
		s.Require().NotNil(span, name)
		s.Equal(wantHash, span.attrs[tracer.AttrSubject], name)
	}
	s.NotEqual("subject-1", wantHash)
}

func (s *CoordinatorSuite) TestRequestNativePermissionSpanRecordsFailure() {
	ctx := context.Background()

	s.Run("empty id", func() {
		rec := &recordingTracer{}
		c := s.newCoordinator(models.PlatformIOS, WithTracer(rec))

		_, err := c.RequestNativePermission(ctx, "")
		s.Require().Error(err)

		span := rec.find(tracer.SpanRequestNative)
		s.Require().NotNil(span)
		s.True(span.ended)
		s.True(dErrors.HasCode(span.err, dErrors.CodeValidation))
	})

	s.Run("unsupported platform", func() {
		rec := &recordingTracer{}
		c := s.newCoordinator(models.Platform("web"), WithTracer(rec))

		_, err := c.RequestNativePermission(ctx, "camera")
		s.Require().Error(err)

		span := rec.find(tracer.SpanRequestNative)
		s.Require().NotNil(span)
		s.Error(span.err)
		s.Equal(tracer.HashSubjectID("subject-1"), span.attrs[tracer.AttrSubject])
	})

	s.Run("routed request ends clean", func() {
		rec := &recordingTracer{}
		c := s.newCoordinator(models.PlatformAndroid, WithTracer(rec))
		s.bridge.EXPECT().OpenSettings(gomock.Any()).Return(true)

		_, err := c.RequestNativePermission(ctx, "android.permission.CAMERA")
		s.Require().NoError(err)

		span := rec.find(tracer.SpanRequestNative)
		s.Require().NotNil(span)
		s.True(span.ended)
		s.NoError(span.err)
	})
}

func (s *CoordinatorSuite) TestNativePromptAuditDecision() {
	cases := []struct {
		name   string
		result models.PermissionResult
		want   string
	}{
		{"granted", models.PermissionResult{Status: models.PermissionGranted}, models.AuditDecisionAccepted},
		{"limited", models.PermissionResult{Status: models.PermissionLimited, Note: "limited selection"}, models.AuditDecisionAccepted},
		{"denied", models.PermissionResult{Status: models.PermissionDenied}, models.AuditDecisionRejected},
		{"module missing", models.PermissionResult{Status: models.PermissionNotAvailable}, models.AuditDecisionFailed},
		{"bridge error", models.PermissionResult{Status: models.PermissionDenied, Error: "request timed out"}, models.AuditDecisionFailed},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.auditStore.Clear()
			c := s.newCoordinator(models.PlatformIOS)
			c.state.permissions = permissionsFixture()

			s.bridge.EXPECT().Check(gomock.Any(), "NSCameraUsageDescription").Return(models.PermissionNotDetermined)
			s.bridge.EXPECT().Request(gomock.Any(), "NSCameraUsageDescription").Return(tc.result)
			s.client.EXPECT().GetConsentByPermissionID(gomock.Any(), "NSCameraUsageDescription").Return(models.ConsentUnknown, nil)

			_, err := c.RequestNativePermission(context.Background(), "NSCameraUsageDescription")
			s.Require().NoError(err)

			events := s.auditEvents()
			s.Require().Len(events, 1)
			s.Equal(models.AuditActionNativePrompted, events[0].Action)
			s.Equal(string(tc.result.Status), events[0].Status)
			s.Equal(tc.want, events[0].Decision)
		})
	}
}

func (s *CoordinatorSuite) TestAuditEventsCarryRequestID() {
	c := s.newCoordinator(models.PlatformAndroid)
	s.bridge.EXPECT().OpenSettings(gomock.Any()).Return(true).Times(2)

	ctx := middleware.WithRequestID(context.Background(), "req-42")
	_, err := c.RequestNativePermission(ctx, "android.permission.CAMERA")
	s.Require().NoError(err)
	_, err = c.RequestNativePermission(context.Background(), "android.permission.CAMERA")
	s.Require().NoError(err)

	events := s.auditEvents()
	s.Require().Len(events, 2)
	s.Equal("req-42", events[0].RequestID)
	s.Empty(events[1].RequestID)
}

package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"consentsync/internal/consent/models"
	"consentsync/internal/consent/sdk"
	dErrors "consentsync/pkg/domain-errors"
)

type RemoteSuite struct {
	suite.Suite
	server   *httptest.Server
	client   *Client
	opts     sdk.Options
	lastPut  atomic.Value
	resetHit atomic.Bool
}

func TestRemoteSuite(t *testing.T) {
	suite.Run(t, new(RemoteSuite))
}

func (s *RemoteSuite) SetupTest() {
	r := chi.NewRouter()
	r.Get("/v1/tenants/{tenant}/apps/{app}/config", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Tenant-ID") != chi.URLParam(r, "tenant") {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		writeJSON(w, configDocument{
			BannerConfig:   models.BannerConfig{"title": "We value your privacy"},
			SettingsPrompt: models.SettingsPrompt{"title": "Open settings"},
		})
	})
	r.Get("/v1/subjects/{subject}/purposes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []purposeDTO{
			{PurposeID: 1, PurposeName: map[string]string{"en": "Analytics"}, ConsentStatus: "granted"},
			{PurposeID: 2, PurposeName: map[string]string{"en": "Ads"}, ConsentStatus: "bogus"},
		})
	})
	r.Get("/v1/subjects/{subject}/permissions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []permissionDTO{{PermissionID: "NSCameraUsageDescription", Name: "Camera", ConsentStatus: "declined"}})
	})
	r.Get("/v1/purposes/{id}/sdks", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") == "404" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, []models.SDK{{ID: 7, Name: "Firebase"}})
	})
	r.Get("/v1/subjects/{subject}/purposes/{id}/consent", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, consentDTO{ConsentStatus: "granted"})
	})
	r.Put("/v1/subjects/{subject}/purposes/{id}/consent", func(w http.ResponseWriter, r *http.Request) {
		var body consentDTO
		_ = json.NewDecoder(r.Body).Decode(&body)
		s.lastPut.Store(body.ConsentStatus)
		writeJSON(w, acceptanceDTO{Accepted: true})
	})
	r.Put("/v1/subjects/{subject}/permissions/{id}/consent", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	r.Delete("/v1/subjects/{subject}/consents", func(w http.ResponseWriter, r *http.Request) {
		s.resetHit.Store(true)
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/v1/purposes/{id}/slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	s.server = httptest.NewServer(r)
	s.client = New(Config{HTTPClient: s.server.Client()})
	s.opts = sdk.Options{
		AppURL:                s.server.URL,
		CdnURL:                s.server.URL,
		TenantID:              "tenant-1",
		AppID:                 "app-1",
		SubjectID:             "subject-1",
		LoggerLevel:           sdk.LoggerLevelInfo,
		ConsentsCheckInterval: 30,
	}
}

func (s *RemoteSuite) TearDownTest() {
	s.server.Close()
}

func (s *RemoteSuite) initialize() {
	s.Require().NoError(s.client.Initialize(context.Background(), s.opts))
}

func (s *RemoteSuite) TestInitialize() {
	s.Run("not ready before initialize", func() {
		_, err := s.client.GetPurposes(context.Background())
		s.True(dErrors.HasCode(err, dErrors.CodeNotReady))
	})

	s.Run("success fires pending callbacks with true", func() {
		var got []bool
		s.client.OnReady(func(ready bool) { got = append(got, ready) })
		s.initialize()
		s.True(s.client.IsReady())
		s.Equal([]bool{true}, got)

		s.client.OnReady(func(ready bool) { got = append(got, ready) })
		s.Equal([]bool{true, true}, got)
	})

	s.Run("caches banner and prompt", func() {
		banner, err := s.client.GetBannerConfig(context.Background(), nil)
		s.Require().NoError(err)
		s.Equal("We value your privacy", banner["title"])

		prompt, err := s.client.GetSettingsPrompt(context.Background())
		s.Require().NoError(err)
		s.Equal("Open settings", prompt["title"])
	})
}

func (s *RemoteSuite) TestInitializeFailure() {
	var got []bool
	s.client.OnReady(func(ready bool) { got = append(got, ready) })

	opts := s.opts
	opts.CdnURL = s.server.URL + "/missing"
	err := s.client.Initialize(context.Background(), opts)
	s.Require().Error(err)
	s.False(s.client.IsReady())
	s.Equal([]bool{false}, got)
}

func (s *RemoteSuite) TestInitializeRejectsInvalidOptions() {
	opts := s.opts
	opts.TenantID = ""
	err := s.client.Initialize(context.Background(), opts)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *RemoteSuite) TestReads() {
	s.initialize()
	ctx := context.Background()

	purposes, err := s.client.GetPurposes(ctx)
	s.Require().NoError(err)
	s.Require().Len(purposes, 2)
	s.Equal(models.ConsentGranted, purposes[0].ConsentStatus)
	s.Equal(models.ConsentUnknown, purposes[1].ConsentStatus, "unrecognized status maps to unknown")

	permissions, err := s.client.GetPermissions(ctx)
	s.Require().NoError(err)
	s.Require().Len(permissions, 1)
	s.Equal(models.ConsentDeclined, permissions[0].ConsentStatus)

	sdks, err := s.client.GetSDKsInPurpose(ctx, 1)
	s.Require().NoError(err)
	s.Equal(int64(7), sdks[0].ID)

	status, err := s.client.GetConsentByPurposeID(ctx, 1)
	s.Require().NoError(err)
	s.Equal(models.ConsentGranted, status)
}

func (s *RemoteSuite) TestErrorMapping() {
	s.initialize()
	ctx := context.Background()

	_, err := s.client.GetSDKsInPurpose(ctx, 404)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	ok, err := s.client.SetPermissionConsent(ctx, models.AppPermission{ID: "NSCameraUsageDescription"}, models.ConsentGranted)
	s.False(ok)
	s.True(dErrors.HasCode(err, dErrors.CodeSDKUnavailable))
}

func (s *RemoteSuite) TestWrites() {
	s.initialize()
	ctx := context.Background()

	ok, err := s.client.SetPurposeConsent(ctx, models.Purpose{ID: 1}, models.ConsentDeclined)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("declined", s.lastPut.Load())

	s.Require().NoError(s.client.ResetConsents(ctx))
	s.True(s.resetHit.Load())
}

func (s *RemoteSuite) TestTimeout() {
	s.initialize()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := s.client.do(ctx, "slow", http.MethodGet, s.server.URL, "/v1/purposes/1/slow", nil, nil)
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	c := New(Config{})
	c.opts = sdk.Options{TenantID: "t", AppID: "a"}
	err := c.do(context.Background(), "ping", http.MethodGet, "http://127.0.0.1:1", "/", nil, nil)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeSDKUnavailable))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

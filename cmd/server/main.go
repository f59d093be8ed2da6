package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"consentsync/internal/audit"
	"consentsync/internal/consent/coordinator"
	consenthandler "consentsync/internal/consent/handler"
	consentmetrics "consentsync/internal/consent/metrics"
	"consentsync/internal/consent/sdk"
	"consentsync/internal/consent/sdk/remote"
	"consentsync/internal/consent/sdk/simulator"
	"consentsync/internal/permission/bridge"
	"consentsync/internal/platform/config"
	"consentsync/internal/platform/health"
	"consentsync/internal/platform/logger"
	httpmetrics "consentsync/internal/platform/metrics"
	"consentsync/internal/platform/middleware"
	"consentsync/internal/platform/tracer"
	dErrors "consentsync/pkg/domain-errors"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second

	auditHistoryPerSubject = 1000
)

// main wires the consent coordinator behind an HTTP API and keeps the server
// lifecycle small. Coordination logic lives in internal/consent.
func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(logger.ParseLevel(cfg.LogLevel))

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts, err := config.LoadSDKOptions(cfg.SDKOptionsFile, cfg.Platform)
	if err != nil {
		return err
	}

	log.Info("initializing consentsync",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"platform", string(cfg.Platform),
		"sdk_mode", cfg.SDKMode,
		"settle_delay", cfg.SettleDelay.String(),
	)

	client, err := buildSDKClient(cfg, log)
	if err != nil {
		return err
	}
	permissionBridge := bridge.Select(bridge.SelectConfig{
		Platform:        cfg.Platform,
		NativeModuleURL: cfg.NativeModuleURL,
		Logger:          log,
	})

	auditStore := audit.NewInMemoryStore(audit.WithMaxEventsPerSubject(auditHistoryPerSubject))
	auditor := audit.NewPublisher(auditStore,
		audit.WithAsyncBuffer(cfg.AuditBuffer),
		audit.WithPublisherLogger(log),
	)
	defer auditor.Close()

	coord := coordinator.New(client, permissionBridge, cfg.Platform,
		coordinator.WithSettleDelay(cfg.SettleDelay),
		coordinator.WithShowBannerOnReady(cfg.ShowBannerOnReady),
		coordinator.WithMetrics(consentmetrics.New(prometheus.DefaultRegisterer)),
		coordinator.WithTracer(tracer.NewOTel(tracer.WithPlatform(string(cfg.Platform)))),
		coordinator.WithAuditor(auditor),
		coordinator.WithLogger(log),
	)
	if err := coord.Start(ctx, opts); err != nil {
		// The API still starts so callers can inspect the recorded error response.
		log.Error("consent sdk failed to start", "error", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(cfg, coord, auditor, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func buildSDKClient(cfg config.Server, log *slog.Logger) (sdk.Client, error) {
	switch cfg.SDKMode {
	case config.SDKModeRemote:
		return remote.New(remote.Config{Logger: log}), nil
	case config.SDKModeSimulator:
		return simulator.New(
			simulator.WithPermissions(simulator.DefaultPermissions(cfg.Platform)),
			simulator.WithLogger(log),
		), nil
	default:
		return nil, dErrors.New(dErrors.CodeValidation, "unsupported sdk mode "+cfg.SDKMode)
	}
}

func newRouter(cfg config.Server, coord *coordinator.Coordinator, auditor *audit.Publisher, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	httpMetrics := httpmetrics.New(prometheus.DefaultRegisterer)

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(httpMetrics.Instrument)

	r.Handle("/metrics", promhttp.Handler())

	healthHandler := health.New(cfg.Environment, string(cfg.Platform))
	healthHandler.RegisterCheck("consent_sdk", func(context.Context) error {
		if !coord.IsReady() {
			return dErrors.New(dErrors.CodeNotReady, "consent sdk not ready")
		}
		return nil
	})
	healthHandler.Register(r)

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.Timeout(requestTimeout))
		consenthandler.New(coord, auditor, log).Register(r)
	})
	return r
}

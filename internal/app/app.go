// Package app assembles the HTTP application: configuration, logger,
// services, router, and server lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"etacli/internal/config"
	apierrors "etacli/internal/errors"
	"etacli/internal/infrastructure"
	customMiddleware "etacli/internal/middleware"
	"etacli/internal/services"
	transport "etacli/internal/transport/http"
)

// Version is the build version reported by the health endpoint.
var Version = "dev"

// Application wires the service dependencies and owns the HTTP server.
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	Router *chi.Mux
	Server *http.Server

	datasets *services.DatasetService
	reports  *services.ReportService
}

// NewApplication builds a fully wired application from configuration.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	app := &Application{
		Config: cfg,
		Logger: logger,
	}
	app.datasets = services.NewDatasetService(logger, cfg.Limits.MaxDatasets)
	app.reports = services.NewReportService(app.datasets, logger)
	app.setupRouter()
	app.createServer()
	return app, nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)
	r.Use(customMiddleware.Compress(5))

	rateLimiter := customMiddleware.NewRateLimiter(
		a.Config.Limits.RateLimitRPS,
		a.Config.Limits.RateLimitBurst,
		a.Logger,
	)
	r.Use(rateLimiter.Handler)

	errorHandler := apierrors.NewErrorHandler(a.Logger)
	datasetHandler := transport.NewDatasetHandler(
		a.datasets,
		a.reports,
		a.Logger,
		errorHandler,
		a.Config.Limits.MaxUploadBytes,
	)
	healthHandler := transport.NewHealthHandler(Version)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/datasets", datasetHandler.Routes())
	})
	r.Get("/healthz", healthHandler.HealthCheck)
	r.Handle("/metrics", transport.MetricsHandler())

	a.Router = r
}

// createServer builds the HTTP server around the router
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start runs the HTTP server until the context is cancelled, then shuts it
// down gracefully within the configured timeout.
func (a *Application) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server listening",
			slog.String("addr", a.Server.Addr),
			slog.String("version", Version))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	a.Logger.Info("shutting down server")
	return a.Server.Shutdown(shutdownCtx)
}

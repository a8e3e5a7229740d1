package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"feargreed/internal/config"
	apierrors "feargreed/internal/errors"
	"feargreed/internal/infrastructure"
	customMiddleware "feargreed/internal/middleware"
	"feargreed/internal/services"
	"feargreed/internal/sources"
	handlers "feargreed/internal/transport/http"
	"feargreed/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Dashboard     *services.DashboardService
	HealthService *services.HealthService
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics

	errorHandler *apierrors.ErrorHandler
	validator    *customMiddleware.Validator
}

// Options overrides parts of the wiring. Zero values use the defaults.
type Options struct {
	// Fetcher replaces the fetcher built from cfg.Sources.
	Fetcher sources.Fetcher
	// OTel replaces infrastructure.DefaultOTelConfig().
	OTel *infrastructure.OTelConfig
}

// NewApplication loads configuration and logging from the environment and
// wires the application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger, Options{})
}

// New wires the application from an already loaded configuration.
func New(cfg *config.Config, logger *slog.Logger, opts Options) (*Application, error) {
	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version),
		slog.String("sources_backend", cfg.Sources.Backend))

	otelProviders, err := infrastructure.InitializeOTel(opts.OTel, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher, err = sources.NewFetcher(context.Background(), cfg.Sources)
		if err != nil {
			return nil, fmt.Errorf("failed to create source fetcher: %w", err)
		}
	}

	dashboard, err := services.NewDashboardService(cfg, fetcher, logger, metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize dashboard service: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Dashboard:     dashboard,
		HealthService: services.NewHealthService(contracts.Version, dashboard, logger),
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		errorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
		validator:     customMiddleware.NewValidator(logger),
	}

	if err := app.setupRouter(); err != nil {
		return nil, err
	}
	app.createServer()

	return app, nil
}

// setupRouter builds the middleware chain and routes. Order:
// RequestID → RealIP → OTel → Logger → Recoverer → security → Timeout.
func (a *Application) setupRouter() error {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics)
	if err != nil {
		return fmt.Errorf("failed to create OpenTelemetry middleware: %w", err)
	}

	r.Group(func(r chi.Router) {
		r.Use(otelMiddleware.Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(apierrors.RecoveryMiddleware(a.errorHandler))
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}

		if rl := a.Config.Security.RateLimit; rl.Enabled {
			r.Use(customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, a.Logger, a.errorHandler).Handler)
		}

		if a.Config.Server.RequestTimeout > 0 {
			r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))
		}

		a.setupAPIRoutes(r)
		a.setupWebRoutes(r)
	})

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	a.Router = r
	return nil
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	chartHandler := handlers.NewChartHandler(a.Dashboard, a.validator, a.Logger, a.errorHandler)
	dashboardHandler := handlers.NewDashboardHandler(a.Dashboard, a.validator, a.Logger, a.errorHandler)
	clientLogHandler := handlers.NewClientLogHandler(a.validator, a.Logger, a.errorHandler)
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/charts", chartHandler.Routes())
		r.Mount("/dashboard", dashboardHandler.Routes())
		r.Post("/client-log", clientLogHandler.Handle)

		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		r.NotFound(a.errorHandler.NotFound)
	})
}

// setupWebRoutes serves the front-end from the web directory.
func (a *Application) setupWebRoutes(r chi.Router) {
	webDir := a.Config.Paths.WebDir
	if _, err := os.Stat(webDir); err != nil {
		a.Logger.Warn("web directory not found, front-end disabled",
			slog.String("web_dir", webDir))
		return
	}

	r.Get("/", handlers.ServeMainApp(webDir))
	r.Handle("/*", handlers.StaticFiles(webDir))
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
		Logger:         a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(a.Logger.Handler(), slog.LevelError),
	}
}

// LoadData performs the initial load. A failure is logged and the server
// keeps running; data endpoints answer 503 until a reload succeeds.
func (a *Application) LoadData(ctx context.Context) {
	ctx = infrastructure.EnsureTraceID(ctx)
	result, err := a.Dashboard.Load(ctx)
	if err != nil {
		a.Logger.ErrorContext(ctx, "initial data load failed",
			slog.String("error", err.Error()),
			slog.String("message", config.LoadErrorMessage))
		return
	}
	a.Logger.InfoContext(ctx, "initial data load complete",
		slog.Any("sources", result.Sources),
		slog.Duration("duration", result.Duration))
}

// Serve loads the data and serves on ln until ctx is cancelled, then shuts
// down gracefully.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version),
		slog.String("address", ln.Addr().String()),
		slog.String("level", a.Config.Logging.Level))

	a.LoadData(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.WithoutCancel(ctx))
	})

	return g.Wait()
}

// Stop shuts the server and telemetry down.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run serves on the configured port until SIGINT or SIGTERM.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}

	a.Logger.InfoContext(ctx, "Dashboard available",
		slog.String("url", "http://localhost"+a.Server.Addr))

	return a.Serve(ctx, ln)
}

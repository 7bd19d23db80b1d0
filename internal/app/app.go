package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"academy-service/internal/config"
	"academy-service/internal/dashboard"
	"academy-service/internal/db"
	"academy-service/internal/events"
	"academy-service/internal/health"
	"academy-service/internal/httputil"
	"academy-service/internal/logger"
	"academy-service/internal/metrics"
	"academy-service/internal/middleware"
	"academy-service/internal/payment"
	"academy-service/internal/person"
	"academy-service/internal/telemetry"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

type App struct {
	config        *config.Config
	router        chi.Router
	server        *http.Server
	logger        *slog.Logger
	database      *bun.DB
	publisher     events.Publisher
	meterProvider *sdkmetric.MeterProvider
}

func New() *App {
	slogLogger := logger.NewWithServiceContext(ServiceName, Version)

	// Set as default logger so slog.Info() uses JSON format
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	slogLogger.Info("config loaded", "env", cfg.Env)

	app := &App{
		config: cfg,
		router: chi.NewRouter(),
		logger: slogLogger,
	}

	database := db.New(cfg.Database)
	app.database = database

	ctx := context.Background()
	if err := db.RunMigrations(ctx, database, (*person.Person)(nil), (*payment.Payment)(nil)); err != nil {
		log.Fatal("failed to run migrations:", err)
	}

	// Telemetry is optional - without a collector the global meter stays no-op
	if cfg.Telemetry.OTLPEndpoint != "" {
		meterProvider, err := telemetry.InitMeterProvider(ctx, cfg.Telemetry.OTLPEndpoint, ServiceName, Version, slogLogger)
		if err != nil {
			slogLogger.Warn("failed to initialize telemetry", "error", err)
		} else {
			app.meterProvider = meterProvider
		}
	}

	m, err := metrics.New(otel.Meter(ServiceName))
	if err != nil {
		slogLogger.Warn("failed to initialize metrics", "error", err)
		m = metrics.NewMock()
	}

	// Apply CORS middleware globally
	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	// Health endpoints
	healthHandler := health.NewHandler()
	healthHandler.RegisterRoutes(app.router)

	app.router.Get("/", app.Index)

	// NATS publisher setup (optional - requests never depend on it)
	if cfg.NATS.URL != "" {
		natsPublisher, err := events.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.Subject, slogLogger)
		if err != nil {
			slogLogger.Warn("failed to initialize NATS publisher", "error", err)
		} else {
			app.publisher = natsPublisher
		}
	}

	// Person endpoints
	personRepo := person.NewRepository(database, m)
	personService := person.NewService(personRepo, app.publisher, slogLogger)
	personHandler := person.NewHandler(personService, slogLogger, m)
	personHandler.RegisterRoutes(app.router)

	// Payment endpoints
	paymentRepo := payment.NewRepository(database, m)
	paymentService := payment.NewService(paymentRepo, personRepo, app.publisher, slogLogger)
	paymentHandler := payment.NewHandler(paymentService, slogLogger, m)
	paymentHandler.RegisterRoutes(app.router)

	// Dashboard endpoint
	dashboardRepo := dashboard.NewRepository(database, m)
	dashboardHandler := dashboard.NewHandler(dashboardRepo, slogLogger, m)
	dashboardHandler.RegisterRoutes(app.router)

	slogLogger.Info("application initialized successfully")

	return app
}

func (a *App) Index(w http.ResponseWriter, r *http.Request) {
	httputil.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Music Academy Fee Management API",
		"version": Version,
	})
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")

	err := a.server.Shutdown(ctx)

	if a.publisher != nil {
		if cerr := a.publisher.Close(); cerr != nil {
			a.logger.Warn("failed to close event publisher", "error", cerr)
		}
	}
	if a.meterProvider != nil {
		if merr := a.meterProvider.Shutdown(ctx); merr != nil {
			a.logger.Warn("failed to shut down meter provider", "error", merr)
		}
	}
	db.Close(a.database)

	return err
}

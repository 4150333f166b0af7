package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/cryptosden/backend/docs"
	"github.com/cryptosden/backend/internal/config"
	"github.com/cryptosden/backend/internal/handler"
	"github.com/cryptosden/backend/internal/market"
	"github.com/cryptosden/backend/internal/notify"
	"github.com/cryptosden/backend/internal/repository"
	"github.com/cryptosden/backend/internal/scheduler"
	"github.com/cryptosden/backend/internal/service"
)

// @title Cryptosden Alerts API
// @version 1.0
// @description Smart alert evaluation and notification dispatch for the Cryptosden portal.

// @contact.name API Support
// @contact.email support@cryptosden.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup structured logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	dbURL := cfg.DatabaseURL
	if dbURL == "" {
		dbURL = "postgres://localhost:5432/cryptosden?sslmode=disable"
	}

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Initialize repositories
	alertRepo := repository.NewAlertRepository(db)
	prefRepo := repository.NewPreferenceRepository(db)
	dispatchRepo := repository.NewDispatchRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	pushRepo := repository.NewPushRepository(db)
	userDirectory := repository.NewUserDirectory(db)

	// Market data provider
	provider := market.NewHTTPProvider(cfg.MarketDataURL, cfg.MarketDataAPIKey, cfg.MarketDataTimeout)

	// Channel adapters: email is live, push goes live once VAPID keys are
	// configured, sms stays inert until a provider is integrated.
	adapters := []notify.Adapter{
		notify.NewEmailAdapter(cfg.SMTP, userDirectory),
		notify.NewPushAdapter(cfg, pushRepo),
		notify.NewSMSAdapter(),
	}

	// Initialize services
	dispatcher := service.NewDispatcher(dispatchRepo, adapters, cfg.Dispatch)
	prefService := service.NewPreferenceService(prefRepo)
	alertService := service.NewAlertService(alertRepo, prefService, dispatcher, auditRepo)
	metrics := service.NewMetricsCollector()
	evaluationService := service.NewEvaluationService(alertRepo, provider, prefService, dispatcher, cfg.Evaluator, metrics)
	digestService := service.NewDigestService(alertRepo, prefRepo, dispatcher)

	// Initialize handlers
	alertHandler := handler.NewAlertHandler(alertService)
	prefHandler := handler.NewPreferenceHandler(prefService)
	pushHandler := handler.NewPushHandler(pushRepo, cfg.VAPIDPublicKey)

	// Scheduler for evaluation ticks and digest sweeps
	sched := scheduler.New(scheduler.Config{
		Interval:    cfg.Evaluator.Interval,
		Timeout:     cfg.Evaluator.Timeout,
		DigestSweep: cfg.Evaluator.DigestSweep,
		Enabled:     cfg.Evaluator.Enabled,
	}, evaluationService, digestService, logger)

	healthHandler := handler.NewHealthHandler(metrics, sched)

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	// CORS - allow frontend origin from env or default
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Health check
	r.Get("/api/health", healthHandler.Health)

	// VAPID key is public: web clients need it before they can authenticate
	r.Get("/api/push/vapid-key", pushHandler.VAPIDKey)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(handler.AuthMiddleware)

		// Alerts
		r.Get("/api/alerts", alertHandler.List)
		r.Post("/api/alerts", alertHandler.Create)
		r.Get("/api/alerts/stats", alertHandler.Stats)
		r.Get("/api/alerts/dispatches", alertHandler.Dispatches)
		r.Post("/api/alerts/toggle-all", alertHandler.ToggleAll)
		r.Get("/api/alerts/{id}", alertHandler.Get)
		r.Delete("/api/alerts/{id}", alertHandler.Delete)
		r.Post("/api/alerts/{id}/toggle", alertHandler.Toggle)
		r.Post("/api/alerts/{id}/clear", alertHandler.ClearTrigger)
		r.Post("/api/alerts/{id}/test", alertHandler.TestFire)

		// Notification preferences
		r.Get("/api/preferences", prefHandler.Get)
		r.Put("/api/preferences", prefHandler.Update)

		// Push subscriptions
		r.Post("/api/push/subscriptions", pushHandler.Subscribe)
		r.Delete("/api/push/subscriptions", pushHandler.Unsubscribe)
	})

	if err := sched.Start(); err != nil {
		logger.Error("Failed to start scheduler", slog.String("error", err.Error()))
	}

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	// Create server
	server := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		// Stop scheduler first so no cycle is cut off mid-dispatch
		ctx := sched.Stop()
		<-ctx.Done()
		logger.Info("Scheduler stopped")

		// Shutdown HTTP server
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("Server shutdown error", slog.String("error", err.Error()))
		}
	}()

	log.Printf("Server starting on port %s", port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("Server failed: %v", err)
	}
}

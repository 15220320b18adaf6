package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nshrestha/trailbook/internal/auth"
	"github.com/nshrestha/trailbook/internal/background"
	"github.com/nshrestha/trailbook/internal/config"
	"github.com/nshrestha/trailbook/internal/database"
	"github.com/nshrestha/trailbook/internal/handlers"
	"github.com/nshrestha/trailbook/internal/metrics"
	"github.com/nshrestha/trailbook/internal/middleware"
	"github.com/nshrestha/trailbook/internal/repositories"
	"github.com/nshrestha/trailbook/internal/routes"
	"github.com/nshrestha/trailbook/internal/services"
	"github.com/nshrestha/trailbook/internal/views"
	pkglogger "github.com/nshrestha/trailbook/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := pkglogger.New(cfg.Server.Env, cfg.Server.LogLevel)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	if err := database.Migrate(cfg.Database.DSN()); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	metrics.Register()

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	tourRepo := repositories.NewTourRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	bookingRepo := repositories.NewBookingRepository(db)

	// Collaborators
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	mailer, err := services.NewMailer(cfg.Server.Env, cfg.Email.AWSRegion, cfg.Email.FromAddress, logger)
	if err != nil {
		logger.Error("failed to initialize mailer", slog.Any("error", err))
		os.Exit(1)
	}

	// Services
	authService := services.NewAuthService(userRepo, tokenManager, mailer, logger, cfg.Auth.ResetTokenTTL, cfg.Server.BaseURL)
	userService := services.NewUserService(userRepo, logger)
	tourService := services.NewTourService(tourRepo, logger)
	reviewService := services.NewReviewService(reviewRepo, tourRepo, logger)
	checkout := services.NewDevCheckout(bookingRepo, logger)
	bookingService := services.NewBookingService(bookingRepo, tourRepo, checkout, logger, cfg.Server.BaseURL)

	// Error normalizer and views
	normalizer := handlers.NewErrorNormalizer(cfg.Server.Env, logger)
	renderer, err := views.NewRenderer(logger)
	if err != nil {
		logger.Error("failed to load templates", slog.Any("error", err))
		os.Exit(1)
	}
	normalizer.SetPageRenderer(renderer)

	// Session middleware
	sessions := auth.NewSessions(tokenManager, userRepo, normalizer)
	cookies := auth.CookieConfig{
		Expiry: cfg.Auth.CookieExpiry,
		Secure: cfg.Server.IsProduction(),
	}

	// Handlers
	h := routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService, cookies, normalizer),
		Users:    handlers.NewUserHandler(userService, normalizer),
		Tours:    handlers.NewTourHandler(tourService, normalizer),
		Reviews:  handlers.NewReviewHandler(reviewService, normalizer),
		Bookings: handlers.NewBookingHandler(bookingService, normalizer),
		Views:    handlers.NewViewHandler(renderer, tourService, reviewService, bookingService, normalizer),
		Errors:   normalizer,
	}

	// Background cleanup of expired reset tokens
	cleanupManager := background.NewCleanupManager(userRepo, logger, cfg.Auth.CleanupInterval)

	// Router
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.SecurityHeaders(middleware.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Metrics)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(router, h, sessions)

	router.Handle("/metrics", metrics.Handler())
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := db.HealthCheck(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	go cleanupManager.Start(cleanupCtx)

	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"familycoach/internal/coaching"
	"familycoach/internal/config"
	"familycoach/internal/database"
	"familycoach/internal/handlers"
	"familycoach/internal/llm"
	"familycoach/internal/logger"
	"familycoach/internal/repository"
	"familycoach/internal/security"
	"familycoach/internal/service"
	"familycoach/internal/validation"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database", "error", err)
	}
	defer db.Close()

	log.Info("Database connection established", "type", cfg.DatabaseType)

	ctx := context.Background()
	applied, err := db.RunMigrations(ctx)
	if err != nil {
		log.Fatal("Failed to run migrations", "error", err)
	}
	log.Info("Migrations completed successfully", "applied", len(applied))

	// Initialize repositories
	familyRepo := repository.NewFamilyRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	patternRepo := repository.NewPatternRepository(db)
	actionRepo := repository.NewActionRepository(db)
	gamificationRepo := repository.NewGamificationRepository(db)

	// Text generation is optional; without a key every call uses the fallback rules
	provider := llm.NewProvider(llm.ClientConfig{
		APIKey:        cfg.AIServiceKey,
		BaseURL:       cfg.AIBaseURL,
		Model:         cfg.AIModel,
		Timeout:       cfg.AITimeout,
		RatePerMinute: cfg.AIRatePerMinute,
		AppURL:        cfg.AppBaseURL,
		AppName:       "Family Coach",
	})
	if cfg.AIEnabled() {
		log.Info("Text generation enabled", "model", cfg.AIModel, "base_url", cfg.AIBaseURL)
	} else {
		log.Info("Text generation disabled: AI_SERVICE_KEY not configured")
	}

	if cfg.SESFromEmail != "" {
		if err := validation.ValidateEmail(cfg.SESFromEmail); err != nil {
			log.Fatal("Invalid SES_FROM_EMAIL", "error", err)
		}
	}
	emailService, err := service.NewEmailService(ctx, cfg.SESRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, log)
	if err != nil {
		log.Fatal("Failed to initialize email service", "error", err)
	}

	// Initialize services
	gamificationService := service.NewGamificationService(gamificationRepo, log)
	sessionService := service.NewSessionService(sessionRepo, familyRepo, patternRepo,
		coaching.NewAnalyzer(provider, log), coaching.NewPromptGenerator(provider, log), emailService, log)
	actionService := service.NewActionService(sessionRepo, familyRepo, actionRepo, gamificationService, log)
	analyticsService := service.NewAnalyticsService(sessionRepo, familyRepo, patternRepo, actionRepo, log)

	// Initialize handlers
	verifier, err := security.NewTokenVerifier(cfg.AuthJWTSecret)
	if err != nil {
		log.Fatal("AUTH_JWT_SECRET must be set", "error", err)
	}
	middleware := handlers.NewMiddleware(verifier, security.NewRateLimiter(cfg.RateLimitPerMinute), log)
	router := handlers.NewRouter(
		middleware,
		handlers.NewSessionHandler(sessionService, actionService, log),
		handlers.NewAnalyticsHandler(analyticsService, gamificationService, log),
		db,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.AITimeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Server starting", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Server exited")
}

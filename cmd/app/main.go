package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lms/internal/api/v1/router"
	"lms/internal/config"
	"lms/internal/logger"
	"lms/internal/pubsub"
	"lms/internal/repository"
	"lms/internal/service"
	"lms/internal/session"
	"lms/internal/storage"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// @title LMS API
// @version 1.0
// @description Course authoring and user administration API
// @host localhost:8080
// @BasePath /
// @Schemes http https

func main() {
	logger := logger.New()

	// 1. Load configuration
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	ctx := context.Background()

	// 2. Resolve the session signing secret
	secret, err := authSecret(ctx, cfg)
	if err != nil {
		logger.Fatal().Msgf("Failed to resolve auth secret: %v", err)
	}

	// 3. Open DB connection
	db, sqlDB, err := repository.Open(cfg.DBConnectionString, cfg.IsDevelopment())
	if err != nil {
		logger.Fatal().Msgf("Failed to open DB connection: %v", err)
	}
	defer sqlDB.Close()
	logger.Info().Msg("Database connection successful")

	if cfg.DBAutoMigrate {
		if err := repository.AutoMigrate(db); err != nil {
			logger.Fatal().Msgf("Failed to migrate DB: %v", err)
		}
		logger.Info().Msg("Database schema migrated")
	}

	// 4. Initialize object storage
	store, err := storage.NewS3Store(ctx, storage.S3Options{
		Endpoint:  cfg.S3URL,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		PublicURL: cfg.PublicObjectURL(),
	})
	if err != nil {
		logger.Fatal().Msgf("Failed to create S3 client: %v", err)
	}

	// 5. Initialize event publisher
	publisher, closePublisher := newPublisher(ctx, cfg, logger)
	defer closePublisher()

	sessions := session.NewManager(secret, cfg.SessionTTL, cfg.SessionCookieName, !cfg.IsDevelopment())

	r := router.New(cfg, router.Deps{
		DB:        db,
		Store:     store,
		Publisher: publisher,
		Sessions:  sessions,
	}, logger)

	// 6. Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// 7. Start server in a goroutine
	go func() {
		logger.Info().Msgf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Msgf("Listen: %s\n", err)
		}
	}()

	// 8. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutdown signal received, exiting...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Msgf("Server forced to shutdown: %v", err)
	}
	logger.Info().Msg("Server shut down gracefully")
}

// authSecret prefers AUTH_SECRET and falls back to Secret Manager.
func authSecret(ctx context.Context, cfg *config.Config) (string, error) {
	if cfg.AuthSecret != "" {
		return cfg.AuthSecret, nil
	}
	if cfg.AuthSecretName == "" {
		return "", errors.New("AUTH_SECRET or AUTH_SECRET_NAME must be set")
	}
	sm, err := service.NewSecretManagerService(ctx, cfg.GCPProjectID, cfg.GCPCredentialsFile)
	if err != nil {
		return "", err
	}
	defer sm.Close()
	return sm.GetSecret(ctx, cfg.AuthSecretName)
}

// newPublisher uses Pub/Sub when a GCP project is configured and only logs
// events otherwise.
func newPublisher(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (pubsub.Publisher, func()) {
	if cfg.GCPProjectID == "" {
		logger.Info().Msg("No GCP project configured, events are logged only")
		return pubsub.NewLogPublisher(logger), func() {}
	}
	p, err := pubsub.NewPublisher(ctx, cfg.GCPProjectID, cfg.GCPCredentialsFile)
	if err != nil {
		logger.Fatal().Msgf("Failed to create Pub/Sub publisher: %v", err)
	}
	return p, func() {
		if err := p.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close Pub/Sub publisher")
		}
	}
}

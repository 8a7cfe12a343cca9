package main

import (
	"context"
	"errors"
	"os"

	"lms/internal/logger"
	"lms/internal/repository"
	"lms/internal/service"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// adminConfig is the subset of the app configuration the admin tool needs.
type adminConfig struct {
	Environment        string `envconfig:"ENV" default:"development"`
	DBConnectionString string `envconfig:"DB_CONNECTION_STRING" required:"true"`
}

func main() {
	logger := logger.New()

	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	var cfg adminConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	db, sqlDB, err := repository.Open(cfg.DBConnectionString, cfg.Environment == "development")
	if err != nil {
		logger.Fatal().Msgf("Failed to open DB connection: %v", err)
	}

	users := service.NewUserService(repository.NewUserRepo(db), logger)
	cli := newCommandLine(db, users, os.Stdout)
	err = cli.run(context.Background(), os.Args)
	sqlDB.Close()
	if err != nil {
		if errors.Is(err, errHelp) {
			os.Exit(2)
		}
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

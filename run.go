package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gitlab.com/yelinaung/movie-bot/internal/bot"
	"gitlab.com/yelinaung/movie-bot/internal/catalog"
	"gitlab.com/yelinaung/movie-bot/internal/config"
	"gitlab.com/yelinaung/movie-bot/internal/logger"
	"gitlab.com/yelinaung/movie-bot/internal/repository"
	"gitlab.com/yelinaung/movie-bot/internal/telemetry"
)

const shutdownTimeout = 5 * time.Second

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the bot and poll Telegram until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBot(cmd.Context())
		},
	}
}

// runBot wires the application together and blocks until SIGINT or SIGTERM.
func runBot(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.SetLevel(cfg.LogLevel)
	logger.SetFormat(cfg.LogFormat)
	logger.InitHashSalt(cfg.LogHashSalt)

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg, version)
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			logger.Log.Warn().Err(err).Msg("Failed to flush telemetry")
		}
	}()

	metrics, err := telemetry.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}

	tmdb, err := catalog.NewTMDBClient(cfg.TMDBAPIKey, cfg.TMDBBaseURL, cfg.TMDBTimeout,
		catalog.WithImageBaseURL(cfg.TMDBImageBaseURL),
		catalog.WithLanguage(cfg.TMDBLanguage),
		catalog.WithMetrics(metrics),
	)
	if err != nil {
		return fmt.Errorf("failed to create catalog client: %w", err)
	}

	telegramBot, err := bot.New(cfg, tmdb, repository.NewMovieListRepository(), metrics)
	if err != nil {
		return err
	}

	logger.Log.Info().
		Str("version", version).
		Str("otel_exporter", cfg.OTelExporter).
		Msg("Starting movie bot")

	telegramBot.Start(ctx)

	logger.Log.Info().Msg("Shutting down...")
	return nil
}

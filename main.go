package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"zoneboard/internal/bot"
	"zoneboard/internal/common"
	"zoneboard/internal/config"
	"zoneboard/internal/health"
	"zoneboard/internal/nxtapi"
	"zoneboard/internal/telemetry"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("zoneboard stopped")
		os.Exit(1)
	}
}

func run() error {

	// .env is only a local convenience
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "could not read .env: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("could not load configuration: %w", err)
	}
	setupLogging(cfg.LogLevel, cfg.LogFormat)
	log.Info().Msg("Hello from inside zoneboard")

	telemetry.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Remote API
	restrictions := []common.Restriction{{Requests: cfg.ApiRequestsPerMinute, Duration: time.Minute}}
	api := nxtapi.NewApi(cfg.ApiBaseUrl, cfg.HttpTimeout, restrictions)

	// Create bot
	b, err := bot.New(cfg, api)
	if err != nil {
		return fmt.Errorf("could not create discord bot: %w", err)
	}

	// Liveness endpoint runs alongside the bot
	if cfg.HealthAddr != "" {
		go func() {
			if err := health.Serve(ctx, cfg.HealthAddr, b.Ready); err != nil {
				log.Error().Err(err).Msg("Liveness server failed")
			}
		}()
	}

	// Run bot
	return b.Run(ctx)
}

func setupLogging(level string, format string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if format != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime})
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	if err != nil {
		log.Warn().Msg(fmt.Sprintf("Unknown LOG_LEVEL %q, using info", level))
	}
}

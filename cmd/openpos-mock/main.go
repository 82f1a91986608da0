// Package main runs the development mock of the positions API.
//
// It serves GET /api/positions from an embedded fixture (or MOCK_FIXTURE) and
// can fail the first MOCK_FAIL_TIMES requests with MOCK_FAIL_STATUS to
// exercise the client's retry path.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GeekNeuron/OpenPos/internal/config"
	"github.com/GeekNeuron/OpenPos/internal/mockapi"
	"github.com/GeekNeuron/OpenPos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	fixture, err := mockapi.LoadFixture(cfg.Mock.FixturePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load fixture")
	}

	srv := mockapi.New(mockapi.Config{
		Log:        log,
		Port:       cfg.Mock.Port,
		Fixture:    fixture,
		FailStatus: cfg.Mock.FailStatus,
		FailTimes:  cfg.Mock.FailTimes,
		DevMode:    cfg.LogLevel == "debug",
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Mock server failed")
		}
	}()

	log.Info().
		Int("port", cfg.Mock.Port).
		Int("fail_status", cfg.Mock.FailStatus).
		Int("fail_times", cfg.Mock.FailTimes).
		Msg("Mock positions API started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down mock server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Mock server forced to shutdown")
	}

	log.Info().Msg("Mock server stopped")
}

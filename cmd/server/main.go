package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/nano-midea/notifier/internal/events"
	"github.com/anonto42/nano-midea/notifier/internal/router"
	"github.com/anonto42/nano-midea/notifier/pkg/config"
	"github.com/anonto42/nano-midea/notifier/pkg/logger"
	"github.com/anonto42/nano-midea/notifier/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("", "")
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log := logger.New(cfg.Env, cfg.LogLevel)

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize databases")
	}
	defer db.CloseDB()

	mdb := db.Mongo.Database(cfg.MongoDatabase)
	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = router.Migrate(migrateCtx, db.Postgres, mdb)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate databases")
	}

	var publisher events.Publisher = &events.NoopPublisher{}
	if cfg.NATSURL != "" {
		natsPublisher, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to NATS")
		}
		publisher = natsPublisher
		log.Info().Str("url", cfg.NATSURL).Msg("Event bus mirror enabled")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing event bus publisher")
		}
	}()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validators.NewValidator()

	router.SetupMiddleware(e, log)
	processor := router.SetupRoutes(e, router.Dependencies{
		Postgres:   db.Postgres,
		Mongo:      mdb,
		Publisher:  publisher,
		SendBuffer: cfg.WebsocketSendBuffer,
		Logger:     log,
	})
	processor.Start()

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down")

	ctx, stop := context.WithTimeout(context.Background(), 15*time.Second)
	defer stop()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown failed")
	}
	if err := processor.Close(ctx); err != nil {
		log.Error().Err(err).Int("pending", processor.Pending()).Msg("Fan-out queue not drained")
	}
}

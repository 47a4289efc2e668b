package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/satriahrh/arunika/companion/adapters/audio"
	"github.com/satriahrh/arunika/companion/adapters/render"
	"github.com/satriahrh/arunika/companion/internal/api"
	"github.com/satriahrh/arunika/companion/internal/config"
	"github.com/satriahrh/arunika/companion/internal/websocket"
	"github.com/satriahrh/arunika/companion/usecase"
)

func main() {
	cfg, err := config.LoadCompanion()
	if err != nil {
		panic(err)
	}

	// Initialize logger
	logger, err := config.NewLogger(cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Initialize adapters
	audioSink, err := audio.NewFileSink(cfg.AudioDir, logger)
	if err != nil {
		logger.Fatal("Failed to create audio sink", zap.Error(err))
	}
	renderSink := render.NewLogSink(uint64(cfg.FrameRate), logger)
	dialer := websocket.NewWSDialer(cfg.UserAgent, logger)

	companion, err := usecase.NewCompanion(dialer, renderSink, audioSink, clock.New(), usecase.CompanionOptions{
		FrameRate: cfg.FrameRate,
		TextDwell: cfg.TextDwell,
		Connection: websocket.Options{
			PageURL:              cfg.PageURL,
			UserAgent:            cfg.UserAgent,
			MaxReconnectAttempts: cfg.MaxReconnectAttempts,
			BaseDelay:            cfg.ReconnectBaseDelay,
		},
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create companion", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create Echo instance for the control API
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	api.InitRoutes(e, companion, logger)

	go func() {
		if err := e.Start(cfg.ControlAddr); err != nil && err != http.ErrServerClosed {
			logger.Error("Control API stopped", zap.Error(err))
			cancel()
		}
	}()

	logger.Info("Companion started",
		zap.String("clientId", companion.ClientID()),
		zap.String("pageUrl", cfg.PageURL),
		zap.String("controlAddr", cfg.ControlAddr))

	if err := companion.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Companion stopped", zap.Error(err))
	}

	logger.Info("Companion is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Control API forced to shutdown", zap.Error(err))
	}

	logger.Info("Companion exited")
}

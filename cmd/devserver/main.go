package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/satriahrh/arunika/companion/adapters/llm"
	"github.com/satriahrh/arunika/companion/adapters/stt"
	"github.com/satriahrh/arunika/companion/adapters/tts"
	"github.com/satriahrh/arunika/companion/domain/repositories"
	"github.com/satriahrh/arunika/companion/internal/api"
	"github.com/satriahrh/arunika/companion/internal/config"
	"github.com/satriahrh/arunika/companion/internal/websocket"
	"github.com/satriahrh/arunika/companion/usecase"
)

func main() {
	cfg, err := config.LoadDevServer()
	if err != nil {
		panic(err)
	}

	// Initialize logger
	logger, err := config.NewLogger(cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Initialize adapters
	var model repositories.LargeLanguageModel
	geminiEnabled := cfg.GeminiAPIKey != ""
	if geminiEnabled {
		model, err = llm.NewGeminiLLM(ctx, llm.GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to create Gemini client", zap.Error(err))
		}
	} else {
		logger.Info("GEMINI_API_KEY not set, using canned replies")
		model = llm.NewMockLLM()
	}

	var recognizer repositories.SpeechRecognizer
	if cfg.GoogleSpeech.Enabled {
		google, err := stt.NewGoogleSpeechToText(ctx, stt.GoogleConfig{
			Language:   cfg.GoogleSpeech.Language,
			SampleRate: cfg.GoogleSpeech.SampleRate,
			Encoding:   cfg.GoogleSpeech.Encoding,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to create speech client", zap.Error(err))
		}
		defer google.Close()
		recognizer = google
	} else {
		logger.Info("GOOGLE_SPEECH_ENABLED not set, using canned transcripts")
		recognizer = stt.NewMockSpeechToText(logger)
	}

	clk := clock.New()
	replies := usecase.NewReplyService(model, clk, logger).WithRecognizer(recognizer)

	if cfg.ElevenLabs.APIKey != "" {
		speech, err := tts.NewElevenLabsTTS(tts.ElevenLabsConfig{
			APIKey:       cfg.ElevenLabs.APIKey,
			APIBaseURL:   cfg.ElevenLabs.APIBaseURL,
			VoiceID:      cfg.ElevenLabs.VoiceID,
			ModelID:      cfg.ElevenLabs.ModelID,
			OutputFormat: cfg.ElevenLabs.OutputFormat,
			Stability:    cfg.ElevenLabs.Stability,
			Clarity:      cfg.ElevenLabs.Clarity,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to create ElevenLabs client", zap.Error(err))
		}
		replies.WithSpeech(speech)
	}

	// Initialize WebSocket hub with the reply service
	hub := websocket.NewHub(replies, logger).WithAudioBuffer(cfg.AudioBufferBytes)
	go hub.Run(ctx)

	api.InitDevServerRoutes(e, hub, api.DevServices{
		Gemini:            geminiEnabled,
		ElevenLabs:        cfg.ElevenLabs.APIKey != "",
		SpeechRecognition: cfg.GoogleSpeech.Enabled,
	}, clk, logger)

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Development backend started", zap.String("port", cfg.Port))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

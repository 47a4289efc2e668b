package api

import (
	"net/http"

	"github.com/benbjohnson/clock"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/arunika/companion/internal/websocket"
)

// DevServices reports which external services the dev backend uses
type DevServices struct {
	Gemini            bool
	ElevenLabs        bool
	SpeechRecognition bool
}

// InitDevServerRoutes initializes the development backend routes
func InitDevServerRoutes(e *echo.Echo, hub *websocket.Hub, services DevServices, clk clock.Clock, logger *zap.Logger) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, HealthResponse{
			Status:    "ok",
			Timestamp: clk.Now(),
			Services: map[string]bool{
				"gemini":             services.Gemini,
				"elevenlabs":         services.ElevenLabs,
				"speech_recognition": services.SpeechRecognition,
			},
			Clients: len(hub.Clients()),
		})
	})

	e.GET("/ws/:clientId", func(c echo.Context) error {
		return websocket.HandleWebSocket(hub, c, logger)
	})
}

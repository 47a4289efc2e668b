package api

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/arunika/companion/domain/entities"
	"github.com/satriahrh/arunika/companion/internal/loop"
	"github.com/satriahrh/arunika/companion/usecase"
)

var gestureKindPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,31}$`)

// Controller is the UI surface of the companion
type Controller interface {
	Status(ctx context.Context) (usecase.Status, error)
	GestureLog(ctx context.Context) ([]entities.GestureLogEntry, error)
	SimulateGesture(ctx context.Context, kind string) (usecase.SimulationResult, error)
	ClearGestureLog(ctx context.Context) error
	Reconnect(ctx context.Context) error
}

// InitRoutes initializes all control API routes
func InitRoutes(e *echo.Echo, ctrl Controller, logger *zap.Logger) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "arunika-companion",
		})
	})

	// API v1 routes
	v1 := e.Group("/api/v1")

	v1.GET("/status", func(c echo.Context) error {
		status, err := ctrl.Status(c.Request().Context())
		if err != nil {
			return controllerError(c, logger, err)
		}
		return c.JSON(http.StatusOK, status)
	})

	v1.GET("/gestures", func(c echo.Context) error {
		entries, err := ctrl.GestureLog(c.Request().Context())
		if err != nil {
			return controllerError(c, logger, err)
		}
		return c.JSON(http.StatusOK, GestureLogResponse{
			Entries: entries,
			Kinds:   usecase.GestureKinds,
		})
	})

	v1.POST("/gestures/:kind", func(c echo.Context) error {
		return simulateGesture(c, ctrl, logger)
	})

	v1.DELETE("/gestures", func(c echo.Context) error {
		if err := ctrl.ClearGestureLog(c.Request().Context()); err != nil {
			return controllerError(c, logger, err)
		}
		return c.NoContent(http.StatusNoContent)
	})

	v1.POST("/connect", func(c echo.Context) error {
		if err := ctrl.Reconnect(c.Request().Context()); err != nil {
			return controllerError(c, logger, err)
		}
		return c.JSON(http.StatusAccepted, map[string]string{
			"message": "reconnecting",
		})
	})
}

func simulateGesture(c echo.Context, ctrl Controller, logger *zap.Logger) error {
	kind := c.Param("kind")
	if !gestureKindPattern.MatchString(kind) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_gesture",
			Message: "Gesture kind must be lowercase letters, digits or underscores",
		})
	}

	result, err := ctrl.SimulateGesture(c.Request().Context(), kind)
	if err != nil {
		return controllerError(c, logger, err)
	}

	logger.Info("Gesture triggered",
		zap.String("gesture", kind),
		zap.Bool("sent", result.Sent))

	return c.JSON(http.StatusOK, result)
}

func controllerError(c echo.Context, logger *zap.Logger, err error) error {
	if errors.Is(err, loop.ErrStopped) {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "companion_stopped",
			Message: "The companion is shutting down",
		})
	}

	logger.Error("Control request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	})
}

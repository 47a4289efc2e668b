package api

import (
	"time"

	"github.com/satriahrh/arunika/companion/domain/entities"
)

// GestureLogResponse is the gesture history plus the kinds that can be triggered
type GestureLogResponse struct {
	Entries []entities.GestureLogEntry `json:"entries"`
	Kinds   []string                   `json:"kinds"`
}

// HealthResponse is returned by the dev backend health check
type HealthResponse struct {
	Status    string          `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
	Services  map[string]bool `json:"services"`
	Clients   int             `json:"clients"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

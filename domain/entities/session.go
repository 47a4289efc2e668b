package entities

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ConnectionState is the lifecycle state of the websocket connection
type ConnectionState string

const (
	StateConnecting ConnectionState = "connecting"
	StateOpen       ConnectionState = "open"
	StateClosed     ConnectionState = "closed"
	StateErrored    ConnectionState = "errored"
)

// ConnectionStatus is the value shown by the UI status indicator
type ConnectionStatus string

const (
	StatusConnected    ConnectionStatus = "connected"
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusConnecting   ConnectionStatus = "connecting"
	StatusError        ConnectionStatus = "error"
)

var statusTexts = map[ConnectionStatus]string{
	StatusConnected:    "Connected",
	StatusDisconnected: "Disconnected",
	StatusConnecting:   "Connecting...",
	StatusError:        "Error",
}

// Status maps a connection state to the indicator value
func (s ConnectionState) Status() ConnectionStatus {
	switch s {
	case StateOpen:
		return StatusConnected
	case StateConnecting:
		return StatusConnecting
	case StateErrored:
		return StatusError
	default:
		return StatusDisconnected
	}
}

// Text returns the human readable indicator text
func (s ConnectionStatus) Text() string {
	if text, ok := statusTexts[s]; ok {
		return text
	}
	return statusTexts[StatusDisconnected]
}

// ClientSession holds the identity and connection bookkeeping of this client.
// There is exactly one per process.
type ClientSession struct {
	ClientID          string          `json:"client_id"`
	State             ConnectionState `json:"state"`
	ReconnectAttempts int             `json:"reconnect_attempts"`
}

// NewClientSession creates a session with a freshly generated client ID
func NewClientSession() *ClientSession {
	return &ClientSession{
		ClientID: NewClientID(),
		State:    StateConnecting,
	}
}

// NewClientID generates an identifier of the form web_xxxxxxxxx
func NewClientID() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "web_" + id[:9]
}

// Validate validates the session data
func (s *ClientSession) Validate() error {
	if s.ClientID == "" {
		return errors.New("client_id is required")
	}
	if s.ReconnectAttempts < 0 {
		return errors.New("reconnect_attempts must not be negative")
	}

	switch s.State {
	case StateConnecting, StateOpen, StateClosed, StateErrored:
	default:
		return errors.New("invalid connection state")
	}

	return nil
}

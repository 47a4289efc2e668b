package entities

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestSessionCreation(t *testing.T) {
	session := NewClientSession()

	if !strings.HasPrefix(session.ClientID, "web_") {
		t.Errorf("Expected client ID with web_ prefix, got %s", session.ClientID)
	}

	if len(session.ClientID) != len("web_")+9 {
		t.Errorf("Expected client ID of length %d, got %d", len("web_")+9, len(session.ClientID))
	}

	if session.State != StateConnecting {
		t.Errorf("Expected state %s, got %s", StateConnecting, session.State)
	}

	if session.ReconnectAttempts != 0 {
		t.Errorf("Expected 0 reconnect attempts, got %d", session.ReconnectAttempts)
	}

	if err := session.Validate(); err != nil {
		t.Errorf("Expected valid session, got %v", err)
	}
}

func TestClientIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewClientID()
		if seen[id] {
			t.Fatalf("Duplicate client ID generated: %s", id)
		}
		seen[id] = true
	}
}

func TestSessionValidate(t *testing.T) {
	tests := []struct {
		name    string
		session ClientSession
		wantErr bool
	}{
		{"valid", ClientSession{ClientID: "web_abc", State: StateOpen}, false},
		{"missing client id", ClientSession{State: StateOpen}, true},
		{"negative attempts", ClientSession{ClientID: "web_abc", State: StateClosed, ReconnectAttempts: -1}, true},
		{"unknown state", ClientSession{ClientID: "web_abc", State: "flying"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.session.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConnectionStatus(t *testing.T) {
	tests := []struct {
		state ConnectionState
		want  ConnectionStatus
		text  string
	}{
		{StateOpen, StatusConnected, "Connected"},
		{StateConnecting, StatusConnecting, "Connecting..."},
		{StateErrored, StatusError, "Error"},
		{StateClosed, StatusDisconnected, "Disconnected"},
	}

	for _, tt := range tests {
		got := tt.state.Status()
		if got != tt.want {
			t.Errorf("Expected status %s for %s, got %s", tt.want, tt.state, got)
		}
		if got.Text() != tt.text {
			t.Errorf("Expected text %q, got %q", tt.text, got.Text())
		}
	}
}

func TestParseEmotion(t *testing.T) {
	tests := []struct {
		in   string
		want Emotion
	}{
		{"happy", EmotionHappy},
		{"Excited", EmotionExcited},
		{" listening ", EmotionListening},
		{"curious", EmotionNeutral},
		{"", EmotionNeutral},
	}

	for _, tt := range tests {
		if got := ParseEmotion(tt.in); got != tt.want {
			t.Errorf("ParseEmotion(%q): expected %s, got %s", tt.in, tt.want, got)
		}
	}
}

func TestEmotionIconAndLabel(t *testing.T) {
	if EmotionHappy.Icon() != "😊" {
		t.Errorf("Expected happy icon, got %s", EmotionHappy.Icon())
	}
	if Emotion("curious").Icon() != "😐" {
		t.Errorf("Expected neutral icon fallback, got %s", Emotion("curious").Icon())
	}
	if EmotionConfused.Label() != "Confused" {
		t.Errorf("Expected label Confused, got %s", EmotionConfused.Label())
	}
}

func TestClampIntensity(t *testing.T) {
	ptr := func(v float64) *float64 { return &v }

	tests := []struct {
		name string
		in   *float64
		want float64
	}{
		{"absent", nil, 1.0},
		{"in range", ptr(0.7), 0.7},
		{"zero stays zero", ptr(0), 0},
		{"above one", ptr(3.2), 1},
		{"negative", ptr(-0.5), 0},
		{"nan", ptr(math.NaN()), 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampIntensity(tt.in); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNewGestureLogEntryTimestamp(t *testing.T) {
	at := time.Date(2025, 11, 29, 15, 4, 5, 0, time.UTC)
	entry := NewGestureLogEntry(GestureWave, nil, at)

	if entry.Timestamp != "3:04:05 PM" {
		t.Errorf("Expected timestamp 3:04:05 PM, got %s", entry.Timestamp)
	}
	if entry.Intensity != DefaultGestureIntensity {
		t.Errorf("Expected default intensity, got %v", entry.Intensity)
	}
}

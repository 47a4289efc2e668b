package tts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestValidateElevenLabsConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  ElevenLabsConfig
		wantErr bool
	}{
		{"missing key", ElevenLabsConfig{}, true},
		{"defaults", ElevenLabsConfig{APIKey: "k"}, false},
		{"stability too high", ElevenLabsConfig{APIKey: "k", Stability: 1.5}, true},
		{"negative clarity", ElevenLabsConfig{APIKey: "k", Clarity: -0.1}, true},
		{"negative timeout", ElevenLabsConfig{APIKey: "k", Timeout: -time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateElevenLabsConfig(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNewElevenLabsTTS_Defaults(t *testing.T) {
	tts, err := NewElevenLabsTTS(ElevenLabsConfig{APIKey: "test-api-key"}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create ElevenLabsTTS: %v", err)
	}

	if tts.voiceID != defaultVoiceID {
		t.Errorf("Expected default voice ID '%s', got '%s'", defaultVoiceID, tts.voiceID)
	}
	if tts.outputFormat != defaultOutputFormat {
		t.Errorf("Expected default output format '%s', got '%s'", defaultOutputFormat, tts.outputFormat)
	}
	if tts.stability != defaultStability || tts.clarity != defaultClarity {
		t.Errorf("Expected default voice settings, got %f/%f", tts.stability, tts.clarity)
	}
}

func TestElevenLabsTTS_Synthesize(t *testing.T) {
	clip := []byte("ID3\x04fake-mp3")
	var got synthesisRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/text-to-speech/voice-1" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("xi-api-key") != "test-api-key" {
			t.Errorf("Expected API key header, got %q", r.Header.Get("xi-api-key"))
		}
		if r.URL.Query().Get("output_format") != defaultOutputFormat {
			t.Errorf("Unexpected output format %q", r.URL.Query().Get("output_format"))
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(clip)
	}))
	defer server.Close()

	tts, err := NewElevenLabsTTS(ElevenLabsConfig{
		APIKey:     "test-api-key",
		APIBaseURL: server.URL + "/",
		VoiceID:    "voice-1",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create ElevenLabsTTS: %v", err)
	}

	audio, err := tts.Synthesize(context.Background(), "Hello there!")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if string(audio) != string(clip) {
		t.Errorf("Expected clip %q, got %q", clip, audio)
	}
	if got.Text != "Hello there!" || got.ModelID != defaultModelID {
		t.Errorf("Unexpected request %+v", got)
	}
}

func TestElevenLabsTTS_Synthesize_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	tts, _ := NewElevenLabsTTS(ElevenLabsConfig{APIKey: "k", APIBaseURL: server.URL}, zap.NewNop())

	if _, err := tts.Synthesize(context.Background(), "Hi"); err == nil {
		t.Error("Expected error for non-200 response")
	}
}

func TestElevenLabsTTS_Synthesize_EmptyText(t *testing.T) {
	tts, _ := NewElevenLabsTTS(ElevenLabsConfig{APIKey: "k"}, zap.NewNop())

	for _, text := range []string{"", "   "} {
		if _, err := tts.Synthesize(context.Background(), text); !errors.Is(err, ErrEmptyText) {
			t.Errorf("Expected ErrEmptyText for %q, got %v", text, err)
		}
	}
}

// Integration test - only runs if ELEVEN_LABS_API_KEY is set with a real API key
func TestElevenLabsTTS_Synthesize_Integration(t *testing.T) {
	apiKey := os.Getenv("ELEVEN_LABS_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test - set ELEVEN_LABS_API_KEY environment variable with real API key")
	}

	tts, err := NewElevenLabsTTS(ElevenLabsConfig{APIKey: apiKey}, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create ElevenLabsTTS: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	audio, err := tts.Synthesize(ctx, "Hello! Nice wave.")
	if err != nil {
		t.Fatalf("Failed to synthesize: %v", err)
	}
	if len(audio) == 0 {
		t.Error("No audio data received")
	}
}

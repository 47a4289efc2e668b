package stt

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/satriahrh/arunika/companion/domain/repositories"
)

// MockSpeechToText is an offline recognizer. It answers with Transcript when
// set, otherwise with a canned line picked by clip size.
type MockSpeechToText struct {
	Transcript string
	Err        error

	mu     sync.Mutex
	clips  int
	logger *zap.Logger
}

var _ repositories.SpeechRecognizer = (*MockSpeechToText)(nil)

// NewMockSpeechToText creates a new mock speech-to-text service
func NewMockSpeechToText(logger *zap.Logger) *MockSpeechToText {
	return &MockSpeechToText{logger: logger}
}

// Transcribe implements repositories.SpeechRecognizer
func (s *MockSpeechToText) Transcribe(ctx context.Context, audio []byte) (string, error) {
	s.mu.Lock()
	s.clips++
	s.mu.Unlock()

	s.logger.Info("Processing speech-to-text", zap.Int("audioSize", len(audio)))

	if s.Err != nil {
		return "", s.Err
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("no audio data received")
	}
	if s.Transcript != "" {
		return s.Transcript, nil
	}

	// Mock transcription based on audio size
	switch {
	case len(audio) > 10000:
		return "Hello! Let me tell you about my day.", nil
	case len(audio) > 5000:
		return "Thanks for listening.", nil
	case len(audio) > 1000:
		return "Hi companion!", nil
	default:
		return "Hi", nil
	}
}

// Clips returns how many clips were transcribed
func (s *MockSpeechToText) Clips() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clips
}

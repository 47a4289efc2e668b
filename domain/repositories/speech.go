package repositories

import (
	"context"
	"errors"
)

// ErrNoSpeech is returned when a clip holds no recognisable speech
var ErrNoSpeech = errors.New("no speech detected")

// SpeechSynthesizer turns reply text into an encoded audio clip
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// SpeechRecognizer transcribes a buffered audio clip. An empty transcript
// with a nil error means no speech was detected.
type SpeechRecognizer interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

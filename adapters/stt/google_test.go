package stt

import (
	"context"
	"testing"

	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"
)

func TestGetAudioEncoding(t *testing.T) {
	tests := []struct {
		in      string
		want    speechpb.RecognitionConfig_AudioEncoding
		wantErr bool
	}{
		{"LINEAR16", speechpb.RecognitionConfig_LINEAR16, false},
		{"WAV", speechpb.RecognitionConfig_LINEAR16, false},
		{"OGG_OPUS", speechpb.RecognitionConfig_OGG_OPUS, false},
		{"MP3", speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := getAudioEncoding(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRecognitionConfigDefaults(t *testing.T) {
	cfg, err := recognitionConfig(GoogleConfig{})
	if err != nil {
		t.Fatalf("recognitionConfig() error = %v", err)
	}
	if cfg.LanguageCode != "en-US" || cfg.SampleRateHertz != 16000 || cfg.Encoding != speechpb.RecognitionConfig_LINEAR16 {
		t.Errorf("Unexpected defaults %+v", cfg)
	}

	if _, err := recognitionConfig(GoogleConfig{SampleRate: -1}); err == nil {
		t.Error("Expected error for negative sample rate")
	}
	if _, err := recognitionConfig(GoogleConfig{Encoding: "MIDI"}); err == nil {
		t.Error("Expected error for unsupported encoding")
	}
}

func TestTranscript(t *testing.T) {
	resp := &speechpb.RecognizeResponse{
		Results: []*speechpb.SpeechRecognitionResult{
			{Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: "hello there "}, {Transcript: "hollow"}}},
			{},
			{Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: "how are you"}}},
		},
	}

	if got := transcript(resp); got != "hello there how are you" {
		t.Errorf("Expected joined transcript, got %q", got)
	}
	if got := transcript(nil); got != "" {
		t.Errorf("Expected empty transcript for nil response, got %q", got)
	}
}

func TestMockSpeechToText(t *testing.T) {
	mock := NewMockSpeechToText(zap.NewNop())

	text, err := mock.Transcribe(context.Background(), make([]byte, 2000))
	if err != nil || text != "Hi companion!" {
		t.Errorf("Expected canned transcript, got %q (%v)", text, err)
	}

	mock.Transcript = "What time is it?"
	if text, _ := mock.Transcribe(context.Background(), []byte{1}); text != "What time is it?" {
		t.Errorf("Expected fixed transcript, got %q", text)
	}

	if _, err := mock.Transcribe(context.Background(), nil); err == nil {
		t.Error("Expected error for empty clip")
	}
	if mock.Clips() != 3 {
		t.Errorf("Expected 3 clips, got %d", mock.Clips())
	}
}

package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/satriahrh/arunika/companion/adapters/llm"
	"github.com/satriahrh/arunika/companion/adapters/stt"
	"github.com/satriahrh/arunika/companion/domain"
	"github.com/satriahrh/arunika/companion/domain/entities"
	"github.com/satriahrh/arunika/companion/domain/repositories"
	"github.com/satriahrh/arunika/companion/internal/animation"
)

func TestDetectEmotion(t *testing.T) {
	tests := []struct {
		text string
		want entities.Emotion
	}{
		{"That is wonderful", entities.EmotionHappy},
		{"Hello there!", entities.EmotionHappy},
		{"I'm so sorry", entities.EmotionSad},
		{"What do you mean", entities.EmotionConfused},
		{"Are you there?", entities.EmotionConfused},
		{"That was BAD", entities.EmotionAngry},
		{"Okay.", entities.EmotionNeutral},
		// happy is checked before confused
		{"What a great day", entities.EmotionHappy},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := DetectEmotion(tt.text); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestReplyService_ReplyToGesture(t *testing.T) {
	clk := clock.NewMock()
	clk.Set(time.Date(2025, 11, 29, 10, 0, 0, 0, time.UTC))
	model := llm.NewMockLLM("Sorry, I was away.")
	svc := NewReplyService(model, clk, zap.NewNop())

	reply, err := svc.ReplyToGesture(context.Background(), domain.GestureMessage{Gesture: GestureShake, Intensity: 0.7})
	if err != nil {
		t.Fatalf("ReplyToGesture() error = %v", err)
	}

	if reply.Type != domain.MessageTypeResponse || reply.Gesture != GestureShake {
		t.Errorf("Unexpected reply header %+v", reply)
	}
	if reply.Text != "Sorry, I was away." {
		t.Errorf("Expected model text, got %q", reply.Text)
	}
	if reply.Emotion != string(entities.EmotionSad) {
		t.Errorf("Expected emotion from text, got %s", reply.Emotion)
	}
	if reply.Animation != animation.ShakeHead {
		t.Errorf("Expected intent animation, got %s", reply.Animation)
	}
	if reply.Timestamp != "2025-11-29T10:00:00Z" {
		t.Errorf("Unexpected timestamp %s", reply.Timestamp)
	}

	prompts := model.Prompts()
	if len(prompts) != 1 || prompts[0] != "User made a shake gesture" {
		t.Errorf("Unexpected prompts %v", prompts)
	}
}

func TestReplyService_UnknownGestureIdles(t *testing.T) {
	svc := NewReplyService(llm.NewMockLLM("Okay."), clock.NewMock(), zap.NewNop())

	reply, _ := svc.ReplyToGesture(context.Background(), domain.GestureMessage{Gesture: "double_tap"})
	if reply.Animation != animation.Idle {
		t.Errorf("Expected idle, got %s", reply.Animation)
	}
}

func TestReplyService_ModelFailure(t *testing.T) {
	model := llm.NewMockLLM()
	model.Err = errors.New("quota exceeded")
	svc := NewReplyService(model, clock.NewMock(), zap.NewNop())

	reply, err := svc.ReplyToGesture(context.Background(), domain.GestureMessage{Gesture: GestureWave})
	if err != nil {
		t.Fatalf("Expected fallback instead of error, got %v", err)
	}
	if reply.Text != fallbackReply || reply.Emotion != "confused" || reply.Animation != animation.ShakeHead {
		t.Errorf("Unexpected fallback %+v", reply)
	}
}

type fakeSynthesizer struct {
	clip []byte
	err  error
	said []string
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	f.said = append(f.said, text)
	return f.clip, f.err
}

func TestReplyService_VoicesReply(t *testing.T) {
	speech := &fakeSynthesizer{clip: []byte("RIFF....WAVE")}
	svc := NewReplyService(llm.NewMockLLM("Hello!"), clock.NewMock(), zap.NewNop()).WithSpeech(speech)

	reply, _ := svc.ReplyToGesture(context.Background(), domain.GestureMessage{Gesture: GestureWave})

	if reply.Audio != base64.StdEncoding.EncodeToString(speech.clip) {
		t.Errorf("Expected encoded clip, got %q", reply.Audio)
	}
	if len(speech.said) != 1 || speech.said[0] != "Hello!" {
		t.Errorf("Expected the reply to be voiced, got %v", speech.said)
	}
}

func TestReplyService_SpeechFailureKeepsText(t *testing.T) {
	speech := &fakeSynthesizer{err: errors.New("quota exceeded")}
	svc := NewReplyService(llm.NewMockLLM("Hello!"), clock.NewMock(), zap.NewNop()).WithSpeech(speech)

	reply, err := svc.ReplyToGesture(context.Background(), domain.GestureMessage{Gesture: GestureWave})
	if err != nil {
		t.Fatalf("Expected reply without audio, got %v", err)
	}
	if reply.Text != "Hello!" || reply.Audio != "" {
		t.Errorf("Unexpected reply %+v", reply)
	}
}

func TestReplyService_FallbackIsNotVoiced(t *testing.T) {
	model := llm.NewMockLLM()
	model.Err = errors.New("quota exceeded")
	speech := &fakeSynthesizer{clip: []byte("x")}
	svc := NewReplyService(model, clock.NewMock(), zap.NewNop()).WithSpeech(speech)

	svc.ReplyToGesture(context.Background(), domain.GestureMessage{Gesture: GestureWave})
	if len(speech.said) != 0 {
		t.Errorf("Expected no synthesis for the fallback, got %v", speech.said)
	}
}

func TestReplyService_ReplyToVoice(t *testing.T) {
	clk := clock.NewMock()
	clk.Set(time.Date(2025, 11, 29, 10, 0, 0, 0, time.UTC))
	model := llm.NewMockLLM("It is a wonderful day.")
	recognizer := stt.NewMockSpeechToText(zap.NewNop())
	recognizer.Transcript = "How is the weather?"
	speech := &fakeSynthesizer{clip: []byte("ID3")}
	svc := NewReplyService(model, clk, zap.NewNop()).WithRecognizer(recognizer).WithSpeech(speech)

	reply, err := svc.ReplyToVoice(context.Background(), make([]byte, 64))
	if err != nil {
		t.Fatalf("ReplyToVoice() error = %v", err)
	}

	if reply.Type != domain.MessageTypeVoiceResponse {
		t.Errorf("Expected voice_response, got %s", reply.Type)
	}
	if reply.Transcribed != "How is the weather?" || reply.Response != "It is a wonderful day." {
		t.Errorf("Unexpected transcript/response %+v", reply)
	}
	if reply.Emotion != string(entities.EmotionHappy) || reply.Animation != animation.Nod {
		t.Errorf("Expected happy nod, got %s/%s", reply.Emotion, reply.Animation)
	}
	if reply.Audio != base64.StdEncoding.EncodeToString(speech.clip) {
		t.Errorf("Expected encoded clip, got %q", reply.Audio)
	}
	if reply.Timestamp != "2025-11-29T10:00:00Z" {
		t.Errorf("Unexpected timestamp %s", reply.Timestamp)
	}
	if prompts := model.Prompts(); len(prompts) != 1 || prompts[0] != "How is the weather?" {
		t.Errorf("Expected the transcript as prompt, got %v", prompts)
	}
}

func TestReplyService_ReplyToVoice_NoSpeech(t *testing.T) {
	model := llm.NewMockLLM("unused")
	recognizer := stt.NewMockSpeechToText(zap.NewNop())
	recognizer.Transcript = "   "
	svc := NewReplyService(model, clock.NewMock(), zap.NewNop()).WithRecognizer(recognizer)

	// a whitespace transcript counts as silence
	if _, err := svc.ReplyToVoice(context.Background(), []byte{1, 2}); !errors.Is(err, repositories.ErrNoSpeech) {
		t.Errorf("Expected ErrNoSpeech, got %v", err)
	}
	if len(model.Prompts()) != 0 {
		t.Errorf("Expected no model call, got %v", model.Prompts())
	}

	recognizer.Err = errors.New("deadline exceeded")
	if _, err := svc.ReplyToVoice(context.Background(), []byte{1, 2}); err == nil || errors.Is(err, repositories.ErrNoSpeech) {
		t.Errorf("Expected transcription error, got %v", err)
	}
}

func TestReplyService_ReplyToVoice_WithoutRecognizer(t *testing.T) {
	svc := NewReplyService(llm.NewMockLLM(), clock.NewMock(), zap.NewNop())

	if _, err := svc.ReplyToVoice(context.Background(), []byte{1}); !errors.Is(err, ErrNoRecognizer) {
		t.Errorf("Expected ErrNoRecognizer, got %v", err)
	}
}

func TestReplyService_ReplyToVoice_ModelFailure(t *testing.T) {
	model := llm.NewMockLLM()
	model.Err = errors.New("quota exceeded")
	recognizer := stt.NewMockSpeechToText(zap.NewNop())
	speech := &fakeSynthesizer{clip: []byte("x")}
	svc := NewReplyService(model, clock.NewMock(), zap.NewNop()).WithRecognizer(recognizer).WithSpeech(speech)

	reply, err := svc.ReplyToVoice(context.Background(), make([]byte, 2000))
	if err != nil {
		t.Fatalf("Expected fallback instead of error, got %v", err)
	}
	if reply.Transcribed != "Hi companion!" || reply.Response != fallbackReply {
		t.Errorf("Unexpected fallback %+v", reply)
	}
	if reply.Emotion != "confused" || reply.Animation != animation.ShakeHead || reply.Audio != "" {
		t.Errorf("Unexpected fallback directives %+v", reply.Directives)
	}
	if len(speech.said) != 0 {
		t.Errorf("Expected no synthesis for the fallback, got %v", speech.said)
	}
}

func TestReplyService_ReplyToButton(t *testing.T) {
	svc := NewReplyService(llm.NewMockLLM(), clock.NewMock(), zap.NewNop())

	tests := []struct {
		button    string
		response  string
		animation string
	}{
		{"A", "Button A pressed!", animation.Wave},
		{"B", "Button B pressed!", animation.Point},
		{"C", "", animation.Idle},
	}

	for _, tt := range tests {
		t.Run(tt.button, func(t *testing.T) {
			reply := svc.ReplyToButton(tt.button)
			if reply.Type != domain.MessageTypeButtonResponse || reply.Button != tt.button {
				t.Errorf("Unexpected reply header %+v", reply)
			}
			if reply.Response != tt.response || reply.Animation != tt.animation {
				t.Errorf("Expected %q/%s, got %q/%s", tt.response, tt.animation, reply.Response, reply.Animation)
			}
			if reply.Emotion != string(entities.EmotionHappy) {
				t.Errorf("Expected happy, got %s", reply.Emotion)
			}
		})
	}
}

package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/satriahrh/arunika/companion/domain"
	"github.com/satriahrh/arunika/companion/domain/entities"
	"github.com/satriahrh/arunika/companion/domain/repositories"
	"github.com/satriahrh/arunika/companion/internal/animation"
)

// Intent is what the backend reads into a gesture
type Intent struct {
	Name      string `json:"intent"`
	Animation string `json:"animation"`
	Emotion   string `json:"emotion"`
}

// GestureIntents maps gesture kinds to intents. Some animation and emotion
// names are outside the client vocabulary; the client normalises them.
var GestureIntents = map[string]Intent{
	GestureWave:      {Name: "greet", Animation: "wave_back", Emotion: "happy"},
	GestureFlick:     {Name: "scroll", Animation: "scroll_gesture", Emotion: "neutral"},
	GestureShake:     {Name: "refresh", Animation: "shake_head", Emotion: "confused"},
	GestureTiltLeft:  {Name: "turn_left", Animation: "look_left", Emotion: "curious"},
	GestureTiltRight: {Name: "turn_right", Animation: "look_right", Emotion: "curious"},
	GestureRotateCW:  {Name: "rotate_right", Animation: "spin_right", Emotion: "happy"},
	GestureRotateCCW: {Name: "rotate_left", Animation: "spin_left", Emotion: "happy"},
}

const fallbackReply = "I'm having trouble understanding."

// ButtonResponses maps wearable buttons to canned replies. Other buttons get
// an empty reply and the idle animation.
var ButtonResponses = map[string]struct {
	Text      string
	Animation string
}{
	"A": {Text: "Button A pressed!", Animation: animation.Wave},
	"B": {Text: "Button B pressed!", Animation: animation.Point},
}

// ErrNoRecognizer is returned for voice input without a recognizer
var ErrNoRecognizer = errors.New("speech recognition is not configured")

type emotionKeywords struct {
	emotion  entities.Emotion
	keywords []string
}

// Checked in order; the first match wins.
var emotionRules = []emotionKeywords{
	{entities.EmotionHappy, []string{"happy", "great", "wonderful", "excellent", "!"}},
	{entities.EmotionSad, []string{"sad", "sorry", "unfortunate"}},
	{entities.EmotionConfused, []string{"confused", "what", "?"}},
	{entities.EmotionAngry, []string{"angry", "wrong", "bad"}},
}

// ReplyService builds the replies of the development backend
type ReplyService struct {
	llm        repositories.LargeLanguageModel
	speech     repositories.SpeechSynthesizer
	recognizer repositories.SpeechRecognizer
	clock      clock.Clock
	logger     *zap.Logger
}

// NewReplyService creates a new reply service
func NewReplyService(llm repositories.LargeLanguageModel, clk clock.Clock, logger *zap.Logger) *ReplyService {
	return &ReplyService{
		llm:    llm,
		clock:  clk,
		logger: logger,
	}
}

// WithSpeech voices model replies through s. Synthesis failures leave the
// reply without audio.
func (s *ReplyService) WithSpeech(speech repositories.SpeechSynthesizer) *ReplyService {
	s.speech = speech
	return s
}

// ReplyToGesture asks the model for a line about the gesture and picks the
// emotion from the reply text and the animation from the gesture intent.
// Model failures produce a confused fallback reply instead of an error.
func (s *ReplyService) ReplyToGesture(ctx context.Context, gesture domain.GestureMessage) (domain.ResponseEvent, error) {
	intent, known := GestureIntents[gesture.Gesture]
	s.logger.Info("Gesture received",
		zap.String("gesture", gesture.Gesture),
		zap.String("intent", intent.Name),
		zap.Bool("known", known),
		zap.Float64("intensity", gesture.Intensity))

	directives := domain.Directives{
		Timestamp: s.clock.Now().Format(time.RFC3339),
	}

	text, err := s.llm.Generate(ctx, fmt.Sprintf("User made a %s gesture", gesture.Gesture))
	if err != nil {
		s.logger.Error("Response generation error", zap.Error(err))
		directives.Text = fallbackReply
		directives.Emotion = string(entities.EmotionConfused)
		directives.Animation = animation.ShakeHead
	} else {
		directives.Text = text
		directives.Emotion = string(DetectEmotion(text))
		directives.Animation = SelectAnimation(gesture.Gesture)
		directives.Audio = s.voice(ctx, text)
	}

	return domain.ResponseEvent{
		Type:       domain.MessageTypeResponse,
		Directives: directives,
		Gesture:    gesture.Gesture,
	}, nil
}

// WithRecognizer lets the service answer voice clips
func (s *ReplyService) WithRecognizer(recognizer repositories.SpeechRecognizer) *ReplyService {
	s.recognizer = recognizer
	return s
}

// ReplyToVoice transcribes a clip and answers the transcript. Silent clips
// return repositories.ErrNoSpeech. The reply nods and takes its emotion from
// the reply text.
func (s *ReplyService) ReplyToVoice(ctx context.Context, audio []byte) (domain.VoiceResponseEvent, error) {
	if s.recognizer == nil {
		return domain.VoiceResponseEvent{}, ErrNoRecognizer
	}

	transcript, err := s.recognizer.Transcribe(ctx, audio)
	if err != nil {
		return domain.VoiceResponseEvent{}, fmt.Errorf("failed to transcribe audio: %w", err)
	}
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return domain.VoiceResponseEvent{}, repositories.ErrNoSpeech
	}

	s.logger.Info("Voice received",
		zap.Int("audioSize", len(audio)),
		zap.String("transcript", transcript))

	directives := domain.Directives{
		Timestamp: s.clock.Now().Format(time.RFC3339),
	}

	text, err := s.llm.Generate(ctx, transcript)
	if err != nil {
		s.logger.Error("Response generation error", zap.Error(err))
		text = fallbackReply
		directives.Emotion = string(entities.EmotionConfused)
		directives.Animation = animation.ShakeHead
	} else {
		directives.Emotion = string(DetectEmotion(text))
		directives.Animation = animation.Nod
		directives.Audio = s.voice(ctx, text)
	}

	return domain.VoiceResponseEvent{
		Type:        domain.MessageTypeVoiceResponse,
		Directives:  directives,
		Transcribed: transcript,
		Response:    text,
	}, nil
}

// ReplyToButton answers a wearable button press with a canned reply
func (s *ReplyService) ReplyToButton(button string) domain.ButtonResponseEvent {
	canned, known := ButtonResponses[button]
	if !known {
		canned.Animation = animation.Idle
	}
	s.logger.Info("Button pressed", zap.String("button", button), zap.Bool("known", known))

	return domain.ButtonResponseEvent{
		Type: domain.MessageTypeButtonResponse,
		Directives: domain.Directives{
			Animation: canned.Animation,
			Emotion:   string(entities.EmotionHappy),
			Timestamp: s.clock.Now().Format(time.RFC3339),
		},
		Button:   button,
		Response: canned.Text,
	}
}

func (s *ReplyService) voice(ctx context.Context, text string) string {
	if s.speech == nil {
		return ""
	}
	clip, err := s.speech.Synthesize(ctx, text)
	if err != nil {
		s.logger.Warn("Speech synthesis failed, replying with text only", zap.Error(err))
		return ""
	}
	return base64.StdEncoding.EncodeToString(clip)
}

// DetectEmotion guesses an emotion from keywords in text
func DetectEmotion(text string) entities.Emotion {
	lower := strings.ToLower(text)
	for _, rule := range emotionRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.emotion
			}
		}
	}
	return entities.EmotionNeutral
}

// SelectAnimation returns the intent animation for a gesture, idle when the
// gesture has no intent
func SelectAnimation(gesture string) string {
	if intent, ok := GestureIntents[gesture]; ok {
		return intent.Animation
	}
	return animation.Idle
}

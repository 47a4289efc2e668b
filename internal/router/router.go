package router

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/satriahrh/arunika/companion/domain"
	"github.com/satriahrh/arunika/companion/domain/entities"
	"github.com/satriahrh/arunika/companion/domain/repositories"
	"github.com/satriahrh/arunika/companion/internal/animation"
	"github.com/satriahrh/arunika/companion/internal/websocket"
)

// Avatar is the expression and animation state the router drives
type Avatar interface {
	SetEmotion(name string) entities.Emotion
	PlayAnimation(name string) string
}

// TextPanel shows free text for a while
type TextPanel interface {
	Show(text string)
}

// GestureRecorder keeps the gesture history
type GestureRecorder interface {
	Append(gesture string, intensity *float64) entities.GestureLogEntry
}

// Router applies inbound server events to the client state. Each message
// type has exactly one handler, and handlers run in delivery order on the
// event loop.
type Router struct {
	avatar  Avatar
	text    TextPanel
	history GestureRecorder
	audio   repositories.AudioSink
	logger  *zap.Logger
}

// New creates a router. audio may be nil when playback is disabled.
func New(avatar Avatar, text TextPanel, history GestureRecorder, audio repositories.AudioSink, logger *zap.Logger) *Router {
	return &Router{
		avatar:  avatar,
		text:    text,
		history: history,
		audio:   audio,
		logger:  logger,
	}
}

// HandleFrame decodes a raw frame and dispatches it. Malformed frames are
// logged and dropped.
func (r *Router) HandleFrame(frame []byte) {
	msg, err := websocket.Decode(frame)
	if err != nil {
		r.logger.Error("Error parsing message", zap.Error(err), zap.ByteString("frame", frame))
		return
	}
	r.Dispatch(msg)
}

// Dispatch routes a decoded message to its handler
func (r *Router) Dispatch(msg domain.InboundMessage) {
	r.logger.Debug("Received message", zap.String("type", string(msg.MessageType())))

	switch m := msg.(type) {
	case domain.GestureEvent:
		r.handleGesture(m)
	case domain.ResponseEvent:
		r.handleResponse(m)
	case domain.VoiceResponseEvent:
		r.handleVoiceResponse(m)
	case domain.AnimationEvent:
		r.avatar.PlayAnimation(orDefault(m.Animation, animation.Idle))
	case domain.EmotionEvent:
		r.avatar.SetEmotion(orDefault(m.Emotion, string(entities.EmotionNeutral)))
	default:
		r.logger.Info("Unknown message type", zap.String("type", string(msg.MessageType())))
	}
}

// handleGesture reflects a gesture recognised elsewhere. Directives are only
// applied when present.
func (r *Router) handleGesture(m domain.GestureEvent) {
	r.history.Append(m.Gesture, m.Intensity)

	if m.Animation != "" {
		r.avatar.PlayAnimation(m.Animation)
	}
	if m.Emotion != "" {
		r.avatar.SetEmotion(m.Emotion)
	}
	if m.Text != "" {
		r.text.Show(m.Text)
	}
}

func (r *Router) handleResponse(m domain.ResponseEvent) {
	r.avatar.PlayAnimation(orDefault(m.Animation, animation.Nod))
	r.avatar.SetEmotion(orDefault(m.Emotion, string(entities.EmotionNeutral)))
	r.text.Show(m.Text)
	r.play(m.Audio)
}

func (r *Router) handleVoiceResponse(m domain.VoiceResponseEvent) {
	r.logger.Info("Voice response",
		zap.String("transcribed", m.Transcribed),
		zap.String("response", m.Response))

	r.text.Show(VoiceTranscript(m.Transcribed, m.Response))
	r.avatar.PlayAnimation(orDefault(m.Animation, animation.Nod))
	r.avatar.SetEmotion(orDefault(m.Emotion, string(entities.EmotionNeutral)))
	r.play(m.Audio)
}

func (r *Router) play(audio string) {
	if audio == "" || r.audio == nil {
		return
	}
	if err := r.audio.PlayFromEncoded(audio); err != nil {
		r.logger.Warn("Failed to play audio", zap.Error(err))
	}
}

// VoiceTranscript formats what was heard and what the AI answered
func VoiceTranscript(transcribed, response string) string {
	return fmt.Sprintf("You: \"%s\"\n\nAI: %s", transcribed, response)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

package domain

import "encoding/json"

// MessageType is the "type" discriminator of every frame on the wire
type MessageType string

const (
	MessageTypeHandshake     MessageType = "handshake"
	MessageTypeGesture       MessageType = "gesture"
	MessageTypeResponse      MessageType = "response"
	MessageTypeVoiceResponse MessageType = "voice_response"
	MessageTypeAnimation     MessageType = "animation"
	MessageTypeEmotion       MessageType = "emotion"

	// Sent by the wearable firmware and answered by the dev backend
	MessageTypeAudio          MessageType = "audio"
	MessageTypeButton         MessageType = "button"
	MessageTypeButtonResponse MessageType = "button_response"
)

// InboundMessage is a frame received from the server
type InboundMessage interface {
	MessageType() MessageType
	isInbound()
}

// OutboundMessage is a frame sent to the server
type OutboundMessage interface {
	MessageType() MessageType
	isOutbound()
}

// Directives are the optional fields any inbound message may carry
type Directives struct {
	Animation string `json:"animation,omitempty"`
	Emotion   string `json:"emotion,omitempty"`
	Text      string `json:"text,omitempty"`
	Audio     string `json:"audio,omitempty"` // base64 encoded
	Timestamp string `json:"timestamp,omitempty"`
}

// GestureEvent reports a gesture recognised on the server side
type GestureEvent struct {
	Type MessageType `json:"type"`
	Directives
	Gesture   string   `json:"gesture,omitempty"`
	Intensity *float64 `json:"intensity,omitempty"`
}

// ResponseEvent carries an AI text reply
type ResponseEvent struct {
	Type MessageType `json:"type"`
	Directives
	Gesture string `json:"gesture,omitempty"`
}

// VoiceResponseEvent carries a transcription and the AI reply to it
type VoiceResponseEvent struct {
	Type MessageType `json:"type"`
	Directives
	Transcribed string `json:"transcribed,omitempty"`
	Response    string `json:"response,omitempty"`
}

// AnimationEvent asks the avatar to play a named animation
type AnimationEvent struct {
	Type MessageType `json:"type"`
	Directives
}

// EmotionEvent asks the avatar to change expression
type EmotionEvent struct {
	Type MessageType `json:"type"`
	Directives
}

// ButtonResponseEvent acknowledges a wearable button press. The companion
// has no handler for it and decodes it as an UnknownEvent.
type ButtonResponseEvent struct {
	Type MessageType `json:"type"`
	Directives
	Button   string `json:"button"`
	Response string `json:"response"`
}

// UnknownEvent is a well-formed frame with a type this client does not handle
type UnknownEvent struct {
	Type MessageType    `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

func (GestureEvent) MessageType() MessageType        { return MessageTypeGesture }
func (ResponseEvent) MessageType() MessageType       { return MessageTypeResponse }
func (VoiceResponseEvent) MessageType() MessageType  { return MessageTypeVoiceResponse }
func (AnimationEvent) MessageType() MessageType      { return MessageTypeAnimation }
func (EmotionEvent) MessageType() MessageType        { return MessageTypeEmotion }
func (ButtonResponseEvent) MessageType() MessageType { return MessageTypeButtonResponse }
func (e UnknownEvent) MessageType() MessageType      { return e.Type }

func (GestureEvent) isInbound()        {}
func (ResponseEvent) isInbound()       {}
func (VoiceResponseEvent) isInbound()  {}
func (AnimationEvent) isInbound()      {}
func (EmotionEvent) isInbound()        {}
func (ButtonResponseEvent) isInbound() {}
func (UnknownEvent) isInbound()        {}

// HandshakeMessage is sent once, right after every successful open
type HandshakeMessage struct {
	Type      MessageType `json:"type"`
	ClientID  string      `json:"clientId"`
	UserAgent string      `json:"userAgent"`
	Timestamp string      `json:"timestamp"` // RFC3339
}

// GestureMessage reports a locally triggered gesture
type GestureMessage struct {
	Type      MessageType `json:"type"`
	ClientID  string      `json:"clientId,omitempty"`
	Gesture   string      `json:"gesture"`
	Intensity float64     `json:"intensity"`
	Timestamp int64       `json:"timestamp"` // unix milliseconds
}

// AudioMessage is one chunk of microphone audio from the wearable
type AudioMessage struct {
	Type MessageType `json:"type"`
	Data string      `json:"data"` // base64, 16 kHz 16-bit mono PCM
}

// ButtonMessage reports a wearable button press
type ButtonMessage struct {
	Type   MessageType `json:"type"`
	Button string      `json:"button"`
}

func (HandshakeMessage) MessageType() MessageType { return MessageTypeHandshake }
func (GestureMessage) MessageType() MessageType   { return MessageTypeGesture }
func (AudioMessage) MessageType() MessageType     { return MessageTypeAudio }
func (ButtonMessage) MessageType() MessageType    { return MessageTypeButton }

func (HandshakeMessage) isOutbound() {}
func (GestureMessage) isOutbound()   {}
func (AudioMessage) isOutbound()     {}
func (ButtonMessage) isOutbound()    {}

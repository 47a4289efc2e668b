package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/satriahrh/arunika/companion/domain"
)

// DecodeError reports a frame that is not valid JSON for its variant.
// Callers log it and drop the frame.
type DecodeError struct {
	Frame []byte
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid frame: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// baseMessage is used to read the discriminator before the full decode
type baseMessage struct {
	Type domain.MessageType `json:"type"`
}

// Encode serializes a wire message, stamping its type discriminator
func Encode(msg interface{ MessageType() domain.MessageType }) ([]byte, error) {
	var v any
	switch m := msg.(type) {
	case domain.HandshakeMessage:
		m.Type = domain.MessageTypeHandshake
		v = m
	case domain.GestureMessage:
		m.Type = domain.MessageTypeGesture
		v = m
	case domain.AudioMessage:
		m.Type = domain.MessageTypeAudio
		v = m
	case domain.ButtonMessage:
		m.Type = domain.MessageTypeButton
		v = m
	case domain.GestureEvent:
		m.Type = domain.MessageTypeGesture
		v = m
	case domain.ResponseEvent:
		m.Type = domain.MessageTypeResponse
		v = m
	case domain.VoiceResponseEvent:
		m.Type = domain.MessageTypeVoiceResponse
		v = m
	case domain.AnimationEvent:
		m.Type = domain.MessageTypeAnimation
		v = m
	case domain.EmotionEvent:
		m.Type = domain.MessageTypeEmotion
		v = m
	case domain.ButtonResponseEvent:
		m.Type = domain.MessageTypeButtonResponse
		v = m
	case domain.UnknownEvent:
		if len(m.Raw) == 0 {
			return nil, fmt.Errorf("unknown message %q has no payload", m.Type)
		}
		return m.Raw, nil
	default:
		return nil, fmt.Errorf("unsupported message %T", msg)
	}

	frame, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s message: %w", msg.MessageType(), err)
	}
	return frame, nil
}

// Decode parses a frame received from the server. Unknown types yield an
// UnknownEvent; malformed frames yield a *DecodeError.
func Decode(frame []byte) (domain.InboundMessage, error) {
	var base baseMessage
	if err := json.Unmarshal(frame, &base); err != nil {
		return nil, &DecodeError{Frame: frame, Err: err}
	}

	var (
		msg domain.InboundMessage
		err error
	)
	switch base.Type {
	case domain.MessageTypeGesture:
		var m domain.GestureEvent
		err = json.Unmarshal(frame, &m)
		msg = m
	case domain.MessageTypeResponse:
		var m domain.ResponseEvent
		err = json.Unmarshal(frame, &m)
		msg = m
	case domain.MessageTypeVoiceResponse:
		var m domain.VoiceResponseEvent
		err = json.Unmarshal(frame, &m)
		msg = m
	case domain.MessageTypeAnimation:
		var m domain.AnimationEvent
		err = json.Unmarshal(frame, &m)
		msg = m
	case domain.MessageTypeEmotion:
		var m domain.EmotionEvent
		err = json.Unmarshal(frame, &m)
		msg = m
	default:
		raw := make(json.RawMessage, len(frame))
		copy(raw, frame)
		return domain.UnknownEvent{Type: base.Type, Raw: raw}, nil
	}

	if err != nil {
		return nil, &DecodeError{Frame: frame, Err: fmt.Errorf("%s message: %w", base.Type, err)}
	}
	return msg, nil
}

// DecodeOutbound parses a frame sent by a client
func DecodeOutbound(frame []byte) (domain.OutboundMessage, error) {
	var base baseMessage
	if err := json.Unmarshal(frame, &base); err != nil {
		return nil, &DecodeError{Frame: frame, Err: err}
	}

	switch base.Type {
	case domain.MessageTypeHandshake:
		var m domain.HandshakeMessage
		if err := json.Unmarshal(frame, &m); err != nil {
			return nil, &DecodeError{Frame: frame, Err: fmt.Errorf("handshake message: %w", err)}
		}
		return m, nil
	case domain.MessageTypeGesture:
		var m domain.GestureMessage
		if err := json.Unmarshal(frame, &m); err != nil {
			return nil, &DecodeError{Frame: frame, Err: fmt.Errorf("gesture message: %w", err)}
		}
		return m, nil
	case domain.MessageTypeAudio:
		var m domain.AudioMessage
		if err := json.Unmarshal(frame, &m); err != nil {
			return nil, &DecodeError{Frame: frame, Err: fmt.Errorf("audio message: %w", err)}
		}
		return m, nil
	case domain.MessageTypeButton:
		var m domain.ButtonMessage
		if err := json.Unmarshal(frame, &m); err != nil {
			return nil, &DecodeError{Frame: frame, Err: fmt.Errorf("button message: %w", err)}
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported message type: %q", base.Type)
	}
}

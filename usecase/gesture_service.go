package usecase

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/satriahrh/arunika/companion/domain"
	"github.com/satriahrh/arunika/companion/domain/entities"
	"github.com/satriahrh/arunika/companion/internal/animation"
)

// Gesture kinds a user can trigger locally
const (
	GestureWave      = entities.GestureWave
	GestureFlick     = entities.GestureFlick
	GestureShake     = entities.GestureShake
	GestureTiltLeft  = entities.GestureTiltLeft
	GestureTiltRight = entities.GestureTiltRight
	GestureRotateCW  = entities.GestureRotateCW
	GestureRotateCCW = entities.GestureRotateCCW
)

// DefaultSimulatedIntensity is sent for gesture kinds without a table entry
const DefaultSimulatedIntensity = 0.5

var gestureIntensities = map[string]float64{
	GestureWave:      0.8,
	GestureFlick:     0.9,
	GestureShake:     0.7,
	GestureTiltLeft:  0.6,
	GestureTiltRight: 0.6,
	GestureRotateCW:  0.8,
	GestureRotateCCW: 0.8,
}

// Both rotation directions share the one spin animation.
var gestureAnimations = map[string]string{
	GestureWave:      animation.Wave,
	GestureFlick:     animation.Point,
	GestureShake:     animation.ShakeHead,
	GestureTiltLeft:  animation.LookLeft,
	GestureTiltRight: animation.LookRight,
	GestureRotateCW:  animation.SpinRight,
	GestureRotateCCW: animation.SpinRight,
}

// GestureKinds lists the kinds with a table entry, in display order
var GestureKinds = []string{
	GestureWave,
	GestureFlick,
	GestureShake,
	GestureTiltLeft,
	GestureTiltRight,
	GestureRotateCW,
	GestureRotateCCW,
}

// Sender transmits outbound messages, reporting whether it did
type Sender interface {
	Send(msg domain.OutboundMessage) bool
}

// Animator plays a named animation
type Animator interface {
	PlayAnimation(name string) string
}

// GestureRecorder keeps the gesture history
type GestureRecorder interface {
	Append(gesture string, intensity *float64) entities.GestureLogEntry
}

// SimulationResult describes what a simulated gesture did
type SimulationResult struct {
	Message   domain.GestureMessage    `json:"message"`
	Sent      bool                     `json:"sent"`
	Animation string                   `json:"animation"`
	Entry     entities.GestureLogEntry `json:"entry"`
}

// GestureService turns local gesture triggers into an outbound message plus
// an optimistic local echo. A later server echo of the same gesture is not
// reconciled against the local one.
type GestureService struct {
	sender   Sender
	animator Animator
	history  GestureRecorder
	clock    clock.Clock
	clientID string
	logger   *zap.Logger
}

// NewGestureService creates a new gesture service
func NewGestureService(
	sender Sender,
	animator Animator,
	history GestureRecorder,
	clk clock.Clock,
	clientID string,
	logger *zap.Logger,
) *GestureService {
	return &GestureService{
		sender:   sender,
		animator: animator,
		history:  history,
		clock:    clk,
		clientID: clientID,
		logger:   logger,
	}
}

// Simulate sends the gesture, plays its animation and logs it. The local
// echo happens whether or not the message could be sent.
func (s *GestureService) Simulate(kind string) SimulationResult {
	intensity := SimulatedIntensity(kind)

	msg := domain.GestureMessage{
		Type:      domain.MessageTypeGesture,
		ClientID:  s.clientID,
		Gesture:   kind,
		Intensity: intensity,
		Timestamp: s.clock.Now().UnixMilli(),
	}
	sent := s.sender.Send(msg)

	played := s.animator.PlayAnimation(SimulatedAnimation(kind))
	entry := s.history.Append(kind, &intensity)

	s.logger.Info("Simulated gesture",
		zap.String("gesture", kind),
		zap.Float64("intensity", intensity),
		zap.String("animation", played),
		zap.Bool("sent", sent))

	return SimulationResult{
		Message:   msg,
		Sent:      sent,
		Animation: played,
		Entry:     entry,
	}
}

// SimulatedIntensity returns the intensity sent for kind
func SimulatedIntensity(kind string) float64 {
	if v, ok := gestureIntensities[kind]; ok {
		return v
	}
	return DefaultSimulatedIntensity
}

// SimulatedAnimation returns the animation played locally for kind
func SimulatedAnimation(kind string) string {
	if name, ok := gestureAnimations[kind]; ok {
		return name
	}
	return animation.Idle
}

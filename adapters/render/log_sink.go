package render

import (
	"sync"

	"go.uber.org/zap"

	"github.com/satriahrh/arunika/companion/domain/entities"
	"github.com/satriahrh/arunika/companion/domain/repositories"
)

// LogSink is a headless renderer. It keeps the latest appearance and pose
// and logs every Nth frame at debug level.
type LogSink struct {
	mu         sync.Mutex
	every      uint64
	frames     uint64
	appearance entities.Appearance
	pose       entities.Pose
	logger     *zap.Logger
}

var _ repositories.RenderingSink = (*LogSink)(nil)

// NewLogSink creates a sink logging one frame in every; zero disables frame logs
func NewLogSink(every uint64, logger *zap.Logger) *LogSink {
	return &LogSink{
		every:  every,
		pose:   entities.RestPose(),
		logger: logger,
	}
}

// SetEmotionAppearance implements repositories.RenderingSink
func (s *LogSink) SetEmotionAppearance(appearance entities.Appearance) {
	s.mu.Lock()
	s.appearance = appearance
	s.mu.Unlock()

	s.logger.Info("Appearance changed",
		zap.Float64("eyeScale", appearance.EyeScale),
		zap.Float64("mouthHeight", appearance.MouthHeight),
		zap.Uint32("headColor", appearance.HeadColor))
}

// ApplyPose implements repositories.RenderingSink
func (s *LogSink) ApplyPose(pose entities.Pose) {
	s.mu.Lock()
	s.pose = pose
	s.mu.Unlock()
}

// RenderFrame implements repositories.RenderingSink
func (s *LogSink) RenderFrame() {
	s.mu.Lock()
	s.frames++
	frame, pose := s.frames, s.pose
	s.mu.Unlock()

	if s.every == 0 || frame%s.every != 0 {
		return
	}
	s.logger.Debug("Rendered frame",
		zap.Uint64("frame", frame),
		zap.Float64("bodyOffsetY", pose.BodyOffsetY),
		zap.Float64("bodyRotationY", pose.BodyRotationY),
		zap.Float64("headRotationX", pose.HeadRotationX),
		zap.Float64("headRotationY", pose.HeadRotationY),
		zap.Float64("rightArmRotationZ", pose.RightArmRotationZ))
}

// Frames returns how many frames were rendered
func (s *LogSink) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Latest returns the last appearance and pose received
func (s *LogSink) Latest() (entities.Appearance, entities.Pose) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appearance, s.pose
}

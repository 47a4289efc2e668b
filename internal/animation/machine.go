package animation

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/satriahrh/arunika/companion/domain/entities"
	"github.com/satriahrh/arunika/companion/domain/repositories"
)

// State is a snapshot of the expression and the active animation
type State struct {
	Emotion            entities.Emotion `json:"emotion"`
	Animation          string           `json:"animation"`
	AnimationStartedAt time.Time        `json:"animation_started_at"`
}

// Frame is what one Tick produced
type Frame struct {
	Animation  string
	Emotion    entities.Emotion
	Phase      time.Duration
	Pose       entities.Pose
	Appearance entities.Appearance
}

// record is the per-animation timing state
type record struct {
	startedAt time.Time
}

// Machine resolves emotion and animation directives into one rendering state.
// It is not safe for concurrent use; the event loop owns it.
type Machine struct {
	clock   clock.Clock
	sink    repositories.RenderingSink
	epoch   time.Time // baseline sway clock, never restarted
	emotion entities.Emotion
	current string
	records map[string]*record
}

// NewMachine creates a machine showing neutral/idle. sink may be nil.
func NewMachine(clk clock.Clock, sink repositories.RenderingSink) *Machine {
	now := clk.Now()
	records := make(map[string]*record, len(library))
	for name := range library {
		records[name] = &record{startedAt: now}
	}

	return &Machine{
		clock:   clk,
		sink:    sink,
		epoch:   now,
		emotion: entities.EmotionNeutral,
		current: Idle,
		records: records,
	}
}

// SetEmotion changes the appearance only. Unknown names become neutral.
func (m *Machine) SetEmotion(name string) entities.Emotion {
	m.emotion = entities.ParseEmotion(name)
	if m.sink != nil {
		m.sink.SetEmotionAppearance(AppearanceFor(m.emotion))
	}
	return m.emotion
}

// PlayAnimation makes name the active animation and restarts it from phase 0.
// Unknown names become idle.
func (m *Machine) PlayAnimation(name string) string {
	if _, ok := library[name]; !ok {
		name = Idle
	}
	m.current = name
	m.records[name].startedAt = m.clock.Now()
	return name
}

// Emotion returns the current emotion
func (m *Machine) Emotion() entities.Emotion {
	return m.emotion
}

// Animation returns the active animation name
func (m *Machine) Animation() string {
	return m.current
}

// State returns a snapshot for display
func (m *Machine) State() State {
	return State{
		Emotion:            m.emotion,
		Animation:          m.current,
		AnimationStartedAt: m.records[m.current].startedAt,
	}
}

// Phase returns the local time of the named animation
func (m *Machine) Phase(name string) (time.Duration, bool) {
	a, ok := library[name]
	if !ok {
		return 0, false
	}
	return a.Phase(m.clock.Since(m.records[name].startedAt)), true
}

// Tick evaluates the idle sway, layers the active animation on top and hands
// the result to the rendering sink.
func (m *Machine) Tick() Frame {
	now := m.clock.Now()
	pose := entities.RestPose()

	idle := library[Idle]
	idle.Apply(now.Sub(m.epoch), &pose)

	active := library[m.current]
	elapsed := now.Sub(m.records[m.current].startedAt)
	if m.current != Idle {
		active.Apply(elapsed, &pose)
	}

	frame := Frame{
		Animation:  m.current,
		Emotion:    m.emotion,
		Phase:      active.Phase(elapsed),
		Pose:       pose,
		Appearance: AppearanceFor(m.emotion),
	}

	if m.sink != nil {
		m.sink.ApplyPose(pose)
		m.sink.RenderFrame()
	}

	return frame
}

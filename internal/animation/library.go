package animation

import (
	"math"
	"sort"
	"time"

	"github.com/satriahrh/arunika/companion/domain/entities"
)

// Known animation names
const (
	Idle      = "idle"
	Wave      = "wave"
	Point     = "point"
	Nod       = "nod"
	ShakeHead = "shake_head"
	SpinRight = "spin_right"
	LookLeft  = "look_left"
	LookRight = "look_right"
)

// Animation is a pose function of the time elapsed since it was (re)started
type Animation struct {
	Name string
	// Period is the loop length; zero means the animation does not wrap.
	Period time.Duration
	apply  func(t float64, pose *entities.Pose)
}

// Looping reports whether the animation wraps at Period
func (a Animation) Looping() bool {
	return a.Period > 0
}

// Phase converts elapsed time into the animation's local time
func (a Animation) Phase(elapsed time.Duration) time.Duration {
	if elapsed < 0 {
		return 0
	}
	if !a.Looping() {
		return elapsed
	}
	return elapsed % a.Period
}

// Apply writes this animation's contribution for the given elapsed time into pose
func (a Animation) Apply(elapsed time.Duration, pose *entities.Pose) {
	a.apply(a.Phase(elapsed).Seconds(), pose)
}

var library = map[string]Animation{
	Idle: {
		Name: Idle,
		apply: func(t float64, pose *entities.Pose) {
			pose.BodyOffsetY = math.Sin(t*0.5) * 0.1
			pose.HeadRotationY = math.Sin(t*0.3) * 0.1
		},
	},
	Wave: {
		Name:   Wave,
		Period: 1500 * time.Millisecond,
		apply: func(t float64, pose *entities.Pose) {
			phase := t * math.Pi * 2
			pose.RightArmRotationZ = math.Sin(phase)*0.8 - 0.5
			pose.RightArmRotationX = 0.3
		},
	},
	Point: {
		Name: Point,
		apply: func(_ float64, pose *entities.Pose) {
			pose.RightArmRotationZ = -0.3
			pose.RightArmRotationX = 0.2
			pose.HeadRotationY = 0.3
		},
	},
	Nod: {
		Name:   Nod,
		Period: time.Second,
		apply: func(t float64, pose *entities.Pose) {
			pose.HeadRotationX = math.Sin(t*math.Pi) * 0.3
		},
	},
	ShakeHead: {
		Name:   ShakeHead,
		Period: 1200 * time.Millisecond,
		apply: func(t float64, pose *entities.Pose) {
			pose.HeadRotationY = math.Sin(t*math.Pi*3) * 0.4
		},
	},
	SpinRight: {
		Name:   SpinRight,
		Period: 2 * time.Second,
		apply: func(t float64, pose *entities.Pose) {
			pose.BodyRotationY = (t / 2) * math.Pi * 2
		},
	},
	LookLeft: {
		Name: LookLeft,
		apply: func(_ float64, pose *entities.Pose) {
			pose.HeadRotationY = 0.5
			pose.LeftEyeX = -0.25
		},
	},
	LookRight: {
		Name: LookRight,
		apply: func(_ float64, pose *entities.Pose) {
			pose.HeadRotationY = -0.5
			pose.RightEyeX = 0.25
		},
	},
}

// Lookup returns the named animation
func Lookup(name string) (Animation, bool) {
	a, ok := library[name]
	return a, ok
}

// Names lists every known animation, sorted
func Names() []string {
	names := make([]string, 0, len(library))
	for name := range library {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var appearances = map[entities.Emotion]entities.Appearance{
	entities.EmotionHappy:     {EyeScale: 1.3, MouthHeight: 1.2, HeadColor: 0xf5a962},
	entities.EmotionSad:       {EyeScale: 0.8, MouthHeight: 0.8, HeadColor: 0xcccccc},
	entities.EmotionAngry:     {EyeScale: 0.7, MouthHeight: 0.5, HeadColor: 0xff6b6b},
	entities.EmotionConfused:  {EyeScale: 1.1, MouthHeight: 0.9, HeadColor: 0xf5d547},
	entities.EmotionNeutral:   {EyeScale: 1.0, MouthHeight: 1.0, HeadColor: 0xf5a962},
	entities.EmotionListening: {EyeScale: 1.2, MouthHeight: 0.6, HeadColor: 0x667eea},
}

// AppearanceFor returns the rendering parameters for an emotion.
// Emotions without their own entry (excited) render like neutral.
func AppearanceFor(e entities.Emotion) entities.Appearance {
	if a, ok := appearances[e]; ok {
		return a
	}
	return appearances[entities.EmotionNeutral]
}

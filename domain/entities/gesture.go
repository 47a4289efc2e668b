package entities

import "time"

// Gesture kinds produced by the wearable (and by the simulation controls)
const (
	GestureWave      = "wave"
	GestureFlick     = "flick"
	GestureShake     = "shake"
	GestureTiltLeft  = "tilt_left"
	GestureTiltRight = "tilt_right"
	GestureRotateCW  = "rotate_cw"
	GestureRotateCCW = "rotate_ccw"
)

// DefaultGestureIntensity is used when a gesture arrives without intensity
const DefaultGestureIntensity = 1.0

// GestureTimeFormat is the wall-clock format shown in the gesture log
const GestureTimeFormat = "3:04:05 PM"

// GestureLogEntry is one row of the gesture log
type GestureLogEntry struct {
	Gesture   string    `json:"gesture"`
	Intensity float64   `json:"intensity"`
	Timestamp string    `json:"timestamp"`
	At        time.Time `json:"at"`
}

// NewGestureLogEntry builds an entry, clamping intensity into [0,1].
// A nil or NaN intensity becomes DefaultGestureIntensity.
func NewGestureLogEntry(gesture string, intensity *float64, at time.Time) GestureLogEntry {
	return GestureLogEntry{
		Gesture:   gesture,
		Intensity: ClampIntensity(intensity),
		Timestamp: at.Format(GestureTimeFormat),
		At:        at,
	}
}

// ClampIntensity normalises an optional intensity value
func ClampIntensity(intensity *float64) float64 {
	if intensity == nil {
		return DefaultGestureIntensity
	}
	v := *intensity
	switch {
	case v != v: // NaN
		return DefaultGestureIntensity
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

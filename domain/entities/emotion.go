package entities

import "strings"

// Emotion is the expression the avatar currently shows
type Emotion string

const (
	EmotionHappy     Emotion = "happy"
	EmotionSad       Emotion = "sad"
	EmotionAngry     Emotion = "angry"
	EmotionConfused  Emotion = "confused"
	EmotionNeutral   Emotion = "neutral"
	EmotionListening Emotion = "listening"
	EmotionExcited   Emotion = "excited"
)

var emotionIcons = map[Emotion]string{
	EmotionHappy:     "😊",
	EmotionSad:       "😢",
	EmotionAngry:     "😠",
	EmotionConfused:  "🤔",
	EmotionNeutral:   "😐",
	EmotionListening: "👂",
	EmotionExcited:   "🤩",
}

// ParseEmotion resolves a wire value to a known emotion. Anything unknown,
// including the empty string, becomes neutral.
func ParseEmotion(name string) Emotion {
	e := Emotion(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := emotionIcons[e]; ok {
		return e
	}
	return EmotionNeutral
}

// IsKnown reports whether e is part of the emotion vocabulary
func (e Emotion) IsKnown() bool {
	_, ok := emotionIcons[e]
	return ok
}

// Icon returns the emoji shown next to the emotion label
func (e Emotion) Icon() string {
	if icon, ok := emotionIcons[e]; ok {
		return icon
	}
	return emotionIcons[EmotionNeutral]
}

// Label returns the capitalised emotion name
func (e Emotion) Label() string {
	if e == "" {
		return ""
	}
	return strings.ToUpper(string(e[:1])) + string(e[1:])
}

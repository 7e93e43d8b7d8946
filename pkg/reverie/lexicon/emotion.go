package lexicon

import (
	"fmt"
	"strings"
)

// Emotion is the dominant emotion label of an entry.
type Emotion string

const (
	Fear    Emotion = "fear"
	Anger   Emotion = "anger"
	Sad     Emotion = "sad"
	Joy     Emotion = "joy"
	Neutral Emotion = "neutral"
)

// Categories lists the scored emotion categories in tie-break order.
// Neutral is not a category; it is the fallback label.
var Categories = []Emotion{Fear, Anger, Sad, Joy}

// Valid reports whether e is one of the five labels.
func (e Emotion) Valid() bool {
	switch e {
	case Fear, Anger, Sad, Joy, Neutral:
		return true
	}
	return false
}

func (e Emotion) String() string {
	return string(e)
}

// ParseEmotion maps a label (case-insensitive) to an Emotion.
func ParseEmotion(s string) (Emotion, error) {
	e := Emotion(strings.ToLower(strings.TrimSpace(s)))
	if !e.Valid() {
		return "", fmt.Errorf("lexicon: unknown emotion: %q", s)
	}
	return e, nil
}

// MarshalText encodes the emotion as its label. An unset emotion encodes
// as neutral.
func (e Emotion) MarshalText() ([]byte, error) {
	if e == "" {
		return []byte(Neutral), nil
	}
	if !e.Valid() {
		return nil, fmt.Errorf("lexicon: unknown emotion: %q", string(e))
	}
	return []byte(e), nil
}

// UnmarshalText decodes a label into an Emotion. An empty label decodes
// as neutral.
func (e *Emotion) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*e = Neutral
		return nil
	}
	v, err := ParseEmotion(string(data))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

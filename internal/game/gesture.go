// Package game provides the Rock-Paper-Scissors rules: gestures, player
// assignment, winner resolution and scoring.
package game

import "strings"

// Gesture is a classified hand shape.
type Gesture int

const (
	// Unknown is used for classifier indices outside the label list and
	// for label names that are not one of the three hand shapes.
	Unknown Gesture = iota
	Rock
	Paper
	Scissors
)

// String returns the display name of the gesture.
func (g Gesture) String() string {
	switch g {
	case Rock:
		return "Rock"
	case Paper:
		return "Paper"
	case Scissors:
		return "Scissors"
	default:
		return "Unknown"
	}
}

// Valid reports whether g is one of Rock, Paper or Scissors.
func (g Gesture) Valid() bool {
	return g == Rock || g == Paper || g == Scissors
}

// MarshalText encodes the gesture as its display name.
func (g Gesture) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText decodes a gesture name; unrecognized names become Unknown.
func (g *Gesture) UnmarshalText(text []byte) error {
	*g = ParseGesture(string(text))
	return nil
}

// ParseGesture maps a class name to a Gesture, ignoring case and
// surrounding whitespace. Unrecognized names map to Unknown.
func ParseGesture(name string) Gesture {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rock":
		return Rock
	case "paper":
		return Paper
	case "scissors":
		return Scissors
	default:
		return Unknown
	}
}

// DefaultLabels is the class order of the bundled detection model.
var DefaultLabels = Labels{"Paper", "Rock", "Scissors"}

// Labels maps classifier indices to class names.
type Labels []string

// Name returns the class name for classID, or "Unknown" when the index is
// outside the list.
func (l Labels) Name(classID int) string {
	if classID < 0 || classID >= len(l) {
		return Unknown.String()
	}
	return l[classID]
}

// Gesture returns the gesture for classID. Out of range indices map to
// Unknown rather than failing.
func (l Labels) Gesture(classID int) Gesture {
	if classID < 0 || classID >= len(l) {
		return Unknown
	}
	return ParseGesture(l[classID])
}

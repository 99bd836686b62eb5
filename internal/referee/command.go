// Package referee decides when a round is played and keeps the match state.
package referee

import (
	"fmt"
	"strings"
)

// Command is a discrete user instruction delivered with a frame.
type Command int

const (
	// None means no command this frame.
	None Command = iota
	// Evaluate plays a round, or acknowledges a finished match.
	Evaluate
	// ClearDisplay clears the outcome text without touching the score.
	ClearDisplay
	// Quit stops the frame loop. The referee itself ignores it.
	Quit
)

// String returns the wire name of the command.
func (c Command) String() string {
	switch c {
	case Evaluate:
		return "evaluate"
	case ClearDisplay:
		return "clear"
	case Quit:
		return "quit"
	default:
		return "none"
	}
}

// ParseCommand maps a wire name to a Command.
func ParseCommand(name string) (Command, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "evaluate", "x":
		return Evaluate, nil
	case "clear", "c":
		return ClearDisplay, nil
	case "quit", "q":
		return Quit, nil
	case "", "none":
		return None, nil
	}
	return None, fmt.Errorf("unknown command %q", name)
}

// State is the referee's externally visible state.
type State int

const (
	// Idle waits for the next trigger.
	Idle State = iota
	// Cooldown is a stability-mode idle period right after a trigger.
	Cooldown
	// AwaitingAcknowledgement follows a finished match until Evaluate.
	AwaitingAcknowledgement
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Cooldown:
		return "cooldown"
	case AwaitingAcknowledgement:
		return "awaiting_acknowledgement"
	default:
		return "idle"
	}
}

// MarshalText encodes the state name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(text []byte) error {
	for _, st := range []State{Idle, Cooldown, AwaitingAcknowledgement} {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

package game

// Outcome is the result of one round.
type Outcome int

const (
	// Draw means both players showed the same gesture.
	Draw Outcome = iota
	// Player1 means the right-hand player won.
	Player1
	// Player2 means the left-hand player won.
	Player2
	// NoContest means at least one gesture was not a valid hand shape.
	NoContest
)

// String returns the display label of the outcome.
func (o Outcome) String() string {
	switch o {
	case Draw:
		return "Draw"
	case Player1:
		return "Player 1"
	case Player2:
		return "Player 2"
	default:
		return "No contest"
	}
}

// MarshalText encodes the outcome as its display label.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes an outcome label produced by MarshalText.
func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Draw":
		*o = Draw
	case "Player 1":
		*o = Player1
	case "Player 2":
		*o = Player2
	default:
		*o = NoContest
	}
	return nil
}

// beats lists, for each gesture, the gesture it defeats.
var beats = map[Gesture]Gesture{
	Rock:     Scissors,
	Scissors: Paper,
	Paper:    Rock,
}

// ResolveWinner decides a round between Player 1's gesture g1 and
// Player 2's gesture g2. Unknown gestures never score: any pair involving
// one resolves to NoContest.
func ResolveWinner(g1, g2 Gesture) Outcome {
	if !g1.Valid() || !g2.Valid() {
		return NoContest
	}
	if g1 == g2 {
		return Draw
	}
	if beats[g1] == g2 {
		return Player1
	}
	return Player2
}

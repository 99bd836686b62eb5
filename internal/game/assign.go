package game

import "sort"

// Assignment is the result of mapping a frame's detections to players.
// Player 2 stands on the left of the frame, Player 1 on the right.
type Assignment struct {
	Player1 *Detection  `json:"player1,omitempty"`
	Player2 *Detection  `json:"player2,omitempty"`
	Ordered []Detection `json:"ordered"`
}

// Ready reports whether both players have a detection.
func (a Assignment) Ready() bool {
	return a.Player1 != nil && a.Player2 != nil
}

// Gestures returns the gestures of Player 1 and Player 2. Absent players
// are reported as Unknown.
func (a Assignment) Gestures() (Gesture, Gesture) {
	g1, g2 := Unknown, Unknown
	if a.Player1 != nil {
		g1 = a.Player1.Gesture
	}
	if a.Player2 != nil {
		g2 = a.Player2.Gesture
	}
	return g1, g2
}

// AssignPlayers sorts detections left to right by horizontal center and
// assigns the leftmost to Player 2 and the next one to Player 1. Detections
// beyond the first two are ignored. Equal centers keep their input order.
// The input slice is not modified.
func AssignPlayers(dets []Detection) Assignment {
	ordered := make([]Detection, len(dets))
	copy(ordered, dets)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Box.CenterX() < ordered[j].Box.CenterX()
	})

	a := Assignment{Ordered: ordered}
	if len(ordered) >= 2 {
		a.Player2 = &ordered[0]
		a.Player1 = &ordered[1]
	}
	return a
}

package game

// Score holds the number of rounds won by Player 1 and Player 2.
type Score [2]int

// Apply returns the score after the given outcome. The receiver is not
// modified.
func (s Score) Apply(o Outcome) Score {
	switch o {
	case Player1:
		s[0]++
	case Player2:
		s[1]++
	}
	return s
}

// GameOver reports whether either player has reached the win threshold.
func (s Score) GameOver(winThreshold int) bool {
	return s[0] >= winThreshold || s[1] >= winThreshold
}

// Leader returns the player ahead, or Draw when the score is level.
func (s Score) Leader() Outcome {
	switch {
	case s[0] > s[1]:
		return Player1
	case s[1] > s[0]:
		return Player2
	default:
		return Draw
	}
}

package main

import "testing"

func TestBuildPhrase(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want string
	}{
		{
			name: "round win",
			ev:   Event{Event: "round", Round: 1, Player1: "Rock", Player2: "Scissors", Outcome: "Player 1", Score: [2]int{1, 0}},
			want: "Player 1 wins the round. Score 1 to 0.",
		},
		{
			name: "draw",
			ev:   Event{Event: "round", Round: 2, Player1: "Rock", Player2: "Rock", Outcome: "Draw", Score: [2]int{1, 0}},
			want: "It's a draw. Score 1 to 0.",
		},
		{
			name: "no contest",
			ev:   Event{Event: "round", Round: 3, Outcome: "No contest"},
			want: "Round 3 does not count.",
		},
		{
			name: "match over",
			ev:   Event{Event: "game_over", Player1: "Paper", Player2: "Rock", Outcome: "Player 1", Score: [2]int{3, 1}, GameOver: true},
			want: "Player 1 plays Paper, Player 2 plays Rock. Player 1 wins the match, 3 to 1.",
		},
		{
			name: "reset",
			ev:   Event{Event: "reset"},
			want: "New match. Good luck.",
		},
		{
			name: "unknown",
			ev:   Event{Event: "halftime"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildPhrase(tt.ev); got != tt.want {
				t.Errorf("buildPhrase() = %q, want %q", got, tt.want)
			}
		})
	}
}

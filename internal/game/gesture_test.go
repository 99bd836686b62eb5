package game

import "testing"

func TestParseGesture(t *testing.T) {
	tests := []struct {
		name string
		want Gesture
	}{
		{"Rock", Rock},
		{"paper", Paper},
		{" SCISSORS ", Scissors},
		{"lizard", Unknown},
		{"", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseGesture(tt.name); got != tt.want {
				t.Errorf("ParseGesture(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestLabels_Gesture(t *testing.T) {
	labels := DefaultLabels

	tests := []struct {
		name     string
		classID  int
		want     Gesture
		wantName string
	}{
		{"index 0 is paper", 0, Paper, "Paper"},
		{"index 1 is rock", 1, Rock, "Rock"},
		{"index 2 is scissors", 2, Scissors, "Scissors"},
		{"index past end", 3, Unknown, "Unknown"},
		{"negative index", -1, Unknown, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := labels.Gesture(tt.classID); got != tt.want {
				t.Errorf("Gesture(%d) = %v, want %v", tt.classID, got, tt.want)
			}
			if got := labels.Name(tt.classID); got != tt.wantName {
				t.Errorf("Name(%d) = %q, want %q", tt.classID, got, tt.wantName)
			}
		})
	}
}

func TestGesture_TextRoundTrip(t *testing.T) {
	for _, g := range []Gesture{Unknown, Rock, Paper, Scissors} {
		text, err := g.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error = %v", g, err)
		}

		var got Gesture
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) error = %v", text, err)
		}
		if got != g {
			t.Errorf("round trip of %v gave %v", g, got)
		}
	}
}

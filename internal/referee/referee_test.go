package referee

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/rpsref/internal/game"
)

// pair returns detections placing p2 on the left and p1 on the right.
func pair(p1, p2 game.Gesture) []game.Detection {
	return []game.Detection{
		{Gesture: p2, Label: p2.String(), Box: game.Box{X1: 0, Y1: 0, X2: 100, Y2: 100}, Confidence: 0.9},
		{Gesture: p1, Label: p1.String(), Box: game.Box{X1: 400, Y1: 0, X2: 500, Y2: 100}, Confidence: 0.9},
	}
}

func newTestReferee(tr Trigger) *Referee {
	r := New(tr, 3)
	n := 0
	r.newID = func() string {
		n++
		return fmt.Sprintf("match-%d", n)
	}
	r.matchID = r.newID()
	return r
}

func TestReferee_ManualRound(t *testing.T) {
	r := newTestReferee(NewManualTrigger())

	snap := r.Step(Frame{Command: Evaluate, Now: epoch}, pair(game.Rock, game.Scissors))

	if snap.Round == nil {
		t.Fatal("expected a round to be evaluated")
	}
	if snap.Round.Outcome != game.Player1 {
		t.Errorf("outcome = %v, want Player 1", snap.Round.Outcome)
	}
	if snap.Score != (game.Score{1, 0}) {
		t.Errorf("score = %v, want [1 0]", snap.Score)
	}
	want := "Player 1: Rock, Player 2: Scissors --- Winner: Player 1"
	if snap.LastOutcome != want {
		t.Errorf("LastOutcome = %q, want %q", snap.LastOutcome, want)
	}
	if snap.State != Idle {
		t.Errorf("state = %v, want idle", snap.State)
	}
}

func TestReferee_ManualNoCommandNoRound(t *testing.T) {
	r := newTestReferee(NewManualTrigger())

	for i := 0; i < 30; i++ {
		snap := r.Step(Frame{Now: epoch}, pair(game.Rock, game.Scissors))
		if snap.Round != nil {
			t.Fatalf("frame %d evaluated a round without a command", i)
		}
	}
	if r.Score() != (game.Score{}) {
		t.Errorf("score = %v, want [0 0]", r.Score())
	}
}

func TestReferee_GameOverAndAcknowledge(t *testing.T) {
	r := newTestReferee(NewManualTrigger())
	firstMatch := r.Snapshot(epoch).MatchID

	var snap Snapshot
	for i := 0; i < 3; i++ {
		snap = r.Step(Frame{Command: Evaluate, Now: epoch}, pair(game.Paper, game.Rock))
	}

	if snap.Score != (game.Score{3, 0}) {
		t.Fatalf("score = %v, want [3 0]", snap.Score)
	}
	if !snap.GameOver || snap.State != AwaitingAcknowledgement {
		t.Fatalf("expected game over awaiting acknowledgement, got %+v", snap)
	}
	if !strings.Contains(snap.LastOutcome, "Congratulations") {
		t.Errorf("LastOutcome = %q, want congratulations", snap.LastOutcome)
	}

	// Frames without a command leave the terminal state alone.
	snap = r.Step(Frame{Now: epoch}, nil)
	if !snap.GameOver || snap.Score != (game.Score{3, 0}) {
		t.Fatal("game over state must persist until acknowledged")
	}

	snap = r.Step(Frame{Command: Evaluate, Now: epoch}, pair(game.Paper, game.Rock))
	if snap.GameOver {
		t.Error("acknowledge should clear game over")
	}
	if snap.Score != (game.Score{}) {
		t.Errorf("score = %v after acknowledge, want [0 0]", snap.Score)
	}
	if snap.Round != nil {
		t.Error("acknowledge must not also play a round")
	}
	if !snap.Reset {
		t.Error("expected snapshot to report the reset")
	}
	if snap.LastOutcome != "" {
		t.Errorf("LastOutcome = %q, want empty", snap.LastOutcome)
	}
	if snap.MatchID == firstMatch {
		t.Error("acknowledge should start a new match")
	}
}

func TestReferee_ScoreNeverExceedsThreshold(t *testing.T) {
	r := newTestReferee(NewManualTrigger())

	for i := 0; i < 50; i++ {
		snap := r.Step(Frame{Command: Evaluate, Now: epoch}, pair(game.Scissors, game.Paper))
		if snap.Score[0] > 3 || snap.Score[1] > 3 {
			t.Fatalf("iteration %d: score %v exceeds threshold", i, snap.Score)
		}
	}
}

func TestReferee_InsufficientGestures(t *testing.T) {
	tests := []struct {
		name string
		dets []game.Detection
	}{
		{"no detections", nil},
		{"one detection", pair(game.Rock, game.Paper)[:1]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestReferee(NewManualTrigger())
			r.score = game.Score{1, 2}

			snap := r.Step(Frame{Command: Evaluate, Now: epoch}, tt.dets)

			if snap.LastOutcome != MsgNotEnoughGestures {
				t.Errorf("LastOutcome = %q, want %q", snap.LastOutcome, MsgNotEnoughGestures)
			}
			if snap.Score != (game.Score{1, 2}) {
				t.Errorf("score = %v, want [1 2]", snap.Score)
			}
			if snap.Round == nil || snap.Round.Scored() {
				t.Error("expected an unscored round record")
			}
		})
	}
}

func TestReferee_UnknownGestureDoesNotScore(t *testing.T) {
	r := newTestReferee(NewManualTrigger())

	snap := r.Step(Frame{Command: Evaluate, Now: epoch}, pair(game.Rock, game.Unknown))

	if snap.LastOutcome != MsgUnrecognizedGesture {
		t.Errorf("LastOutcome = %q, want %q", snap.LastOutcome, MsgUnrecognizedGesture)
	}
	if snap.Score != (game.Score{}) {
		t.Errorf("score = %v, want [0 0]", snap.Score)
	}
}

func TestReferee_ClearDisplay(t *testing.T) {
	t.Run("manual clears while idle", func(t *testing.T) {
		r := newTestReferee(NewManualTrigger())
		r.Step(Frame{Command: Evaluate, Now: epoch}, pair(game.Rock, game.Rock))

		snap := r.Step(Frame{Command: ClearDisplay, Now: epoch}, nil)
		if snap.LastOutcome != "" {
			t.Errorf("LastOutcome = %q, want empty", snap.LastOutcome)
		}
	})

	t.Run("manual keeps text while awaiting acknowledgement", func(t *testing.T) {
		r := newTestReferee(NewManualTrigger())
		for i := 0; i < 3; i++ {
			r.Step(Frame{Command: Evaluate, Now: epoch}, pair(game.Rock, game.Scissors))
		}

		snap := r.Step(Frame{Command: ClearDisplay, Now: epoch}, nil)
		if snap.LastOutcome == "" {
			t.Error("clear display should be ignored during game over in manual mode")
		}
		if !snap.GameOver {
			t.Error("clear display must not end the game over state")
		}
	})

	t.Run("stability clears any time without touching score", func(t *testing.T) {
		r := newTestReferee(NewStabilityTrigger(StabilityConfig{MotionThreshold: 10, StableFrames: 1, Cooldown: time.Second}))
		for i := 0; i < 3; i++ {
			r.Step(Frame{Now: epoch.Add(time.Duration(i) * 2 * time.Second)}, pair(game.Rock, game.Scissors))
		}
		if !r.GameOver() {
			t.Fatal("expected game over")
		}

		snap := r.Step(Frame{Command: ClearDisplay, Now: epoch.Add(10 * time.Second)}, nil)
		if snap.LastOutcome != "" {
			t.Errorf("LastOutcome = %q, want empty", snap.LastOutcome)
		}
		if snap.Score != (game.Score{3, 0}) || !snap.GameOver {
			t.Errorf("clear display changed match state: %+v", snap)
		}
	})
}

func TestReferee_StabilityScenario(t *testing.T) {
	r := newTestReferee(NewStabilityTrigger(DefaultStabilityConfig()))
	dets := pair(game.Scissors, game.Paper)
	now := epoch
	step := 33 * time.Millisecond

	// Nine still frames then one moving frame: no round.
	for i := 0; i < 9; i++ {
		if snap := r.Step(Frame{MotionScore: 500, Now: now}, dets); snap.Round != nil {
			t.Fatalf("round fired on still frame %d", i)
		}
		now = now.Add(step)
	}
	snap := r.Step(Frame{MotionScore: 20000, Now: now}, dets)
	if snap.Round != nil || snap.StableFrames != 0 {
		t.Fatalf("moving frame should reset the counter, got %+v", snap)
	}
	now = now.Add(step)

	// Ten still frames: exactly one round.
	rounds := 0
	for i := 0; i < 10; i++ {
		if snap = r.Step(Frame{MotionScore: 500, Now: now}, dets); snap.Round != nil {
			rounds++
		}
		now = now.Add(step)
	}
	if rounds != 1 {
		t.Fatalf("rounds = %d, want 1", rounds)
	}
	if r.Score() != (game.Score{1, 0}) {
		t.Errorf("score = %v, want [1 0]", r.Score())
	}

	snap = r.Step(Frame{MotionScore: 500, Now: now}, dets)
	if snap.State != Cooldown {
		t.Errorf("state = %v, want cooldown", snap.State)
	}
	if snap.CooldownRemaining <= 0 {
		t.Error("expected remaining cooldown to be reported")
	}
}

func TestReferee_StabilityInsufficientConsumesCooldown(t *testing.T) {
	cfg := StabilityConfig{MotionThreshold: 100, StableFrames: 3, Cooldown: 5 * time.Second}
	r := newTestReferee(NewStabilityTrigger(cfg))

	now := epoch
	var snap Snapshot
	for i := 0; i < 3; i++ {
		snap = r.Step(Frame{MotionScore: 0, Now: now}, nil)
	}
	if snap.Round == nil || snap.LastOutcome != MsgNotEnoughGestures {
		t.Fatalf("expected insufficient-gesture round, got %+v", snap)
	}

	// No retry storm inside the cooldown.
	for i := 0; i < 30; i++ {
		now = now.Add(100 * time.Millisecond)
		if snap = r.Step(Frame{MotionScore: 0, Now: now}, nil); snap.Round != nil {
			t.Fatalf("round fired again %v after the trigger", now.Sub(epoch))
		}
	}
}

func TestReferee_StabilityIgnoresEvaluateWhileIdle(t *testing.T) {
	r := newTestReferee(NewStabilityTrigger(DefaultStabilityConfig()))

	snap := r.Step(Frame{MotionScore: 50000, Command: Evaluate, Now: epoch}, pair(game.Rock, game.Paper))
	if snap.Round != nil {
		t.Error("evaluate should not play a round in stability mode")
	}
}

func TestReferee_StabilityAcknowledge(t *testing.T) {
	cfg := StabilityConfig{MotionThreshold: 100, StableFrames: 1, Cooldown: time.Second}
	r := newTestReferee(NewStabilityTrigger(cfg))

	now := epoch
	for i := 0; i < 3; i++ {
		r.Step(Frame{Now: now}, pair(game.Paper, game.Scissors))
		now = now.Add(2 * time.Second)
	}
	if !r.GameOver() || r.Score() != (game.Score{0, 3}) {
		t.Fatalf("expected player 2 to win the match, score %v", r.Score())
	}

	// Still frames do not trigger while awaiting acknowledgement.
	for i := 0; i < 5; i++ {
		if snap := r.Step(Frame{Now: now}, pair(game.Paper, game.Scissors)); snap.Round != nil {
			t.Fatal("round fired while awaiting acknowledgement")
		}
		now = now.Add(2 * time.Second)
	}

	snap := r.Step(Frame{Command: Evaluate, MotionScore: 5000, Now: now}, nil)
	if snap.GameOver || snap.Score != (game.Score{}) || snap.State != Idle {
		t.Errorf("acknowledge should return to a fresh idle match, got %+v", snap)
	}
}

func TestReferee_StabilityAcknowledgeFrameDoesNotPlay(t *testing.T) {
	tests := []struct {
		name         string
		stableFrames int
	}{
		{"single frame run", 1},
		{"default run", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := StabilityConfig{MotionThreshold: 100, StableFrames: tt.stableFrames, Cooldown: time.Second}
			r := newTestReferee(NewStabilityTrigger(cfg))

			now := epoch
			for !r.GameOver() {
				for i := 0; i < tt.stableFrames; i++ {
					r.Step(Frame{Now: now}, pair(game.Rock, game.Scissors))
					now = now.Add(100 * time.Millisecond)
				}
				now = now.Add(2 * time.Second)
			}

			snap := r.Step(Frame{Command: Evaluate, MotionScore: 0, Now: now}, pair(game.Rock, game.Scissors))
			if !snap.Reset {
				t.Fatal("expected the match to be reset")
			}
			if snap.Round != nil {
				t.Errorf("acknowledge also played round %+v", snap.Round)
			}
			if snap.Score != (game.Score{}) {
				t.Errorf("score = %v, want [0 0]", snap.Score)
			}
			if snap.StableFrames != 0 {
				t.Errorf("StableFrames = %d after acknowledge, want 0", snap.StableFrames)
			}
		})
	}
}

func TestReferee_CooldownSeconds(t *testing.T) {
	cfg := StabilityConfig{MotionThreshold: 100, StableFrames: 1, Cooldown: 5 * time.Second}
	r := newTestReferee(NewStabilityTrigger(cfg))

	r.Step(Frame{Now: epoch}, nil)
	snap := r.Step(Frame{MotionScore: 5000, Now: epoch.Add(1540 * time.Millisecond)}, nil)

	if snap.CooldownRemaining != 3460*time.Millisecond {
		t.Errorf("CooldownRemaining = %v, want 3.46s", snap.CooldownRemaining)
	}
	if snap.CooldownSeconds != 3.5 {
		t.Errorf("CooldownSeconds = %v, want 3.5", snap.CooldownSeconds)
	}
}

package referee

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/rpsref/internal/game"
)

// DefaultWinThreshold is the number of round wins that ends a match.
const DefaultWinThreshold = 3

// Outcome texts shown when a round does not score.
const (
	MsgNotEnoughGestures   = "Not enough gestures"
	MsgUnrecognizedGesture = "Unrecognized gesture"
)

// Round records one evaluated round.
type Round struct {
	MatchID  string       `json:"match_id"`
	Number   int          `json:"number"`
	Player1  game.Gesture `json:"player1"`
	Player2  game.Gesture `json:"player2"`
	Outcome  game.Outcome `json:"outcome"`
	Score    game.Score   `json:"score"`
	GameOver bool         `json:"game_over"`
	Message  string       `json:"message"`
	At       time.Time    `json:"at"`
}

// Scored reports whether the round produced a decision between two valid
// gestures.
func (r *Round) Scored() bool {
	return r.Outcome != game.NoContest
}

// Snapshot is the referee's output for one frame.
type Snapshot struct {
	MatchID           string          `json:"match_id"`
	Mode              Mode            `json:"mode"`
	State             State           `json:"state"`
	Score             game.Score      `json:"score"`
	WinThreshold      int             `json:"win_threshold"`
	LastOutcome       string          `json:"last_outcome"`
	GameOver          bool            `json:"game_over"`
	CooldownRemaining time.Duration   `json:"cooldown_remaining_ns"`
	CooldownSeconds   float64         `json:"cooldown_seconds"`
	StableFrames      int             `json:"stable_frames"`
	Rounds            int             `json:"rounds"`
	Assignment        game.Assignment `json:"assignment"`
	Round             *Round          `json:"round,omitempty"`
	Reset             bool            `json:"reset,omitempty"`
}

// Referee owns the match state. It is not safe for concurrent use; the
// frame loop is its only caller.
type Referee struct {
	trigger      Trigger
	winThreshold int

	matchID     string
	score       game.Score
	lastOutcome string
	gameOver    bool
	rounds      int

	newID func() string
}

// New creates a Referee driven by trigger. A win threshold below 1 uses
// DefaultWinThreshold.
func New(trigger Trigger, winThreshold int) *Referee {
	if winThreshold < 1 {
		winThreshold = DefaultWinThreshold
	}
	r := &Referee{
		trigger:      trigger,
		winThreshold: winThreshold,
		newID:        func() string { return uuid.New().String() },
	}
	r.matchID = r.newID()
	return r
}

// Step advances the referee by one frame.
func (r *Referee) Step(f Frame, dets []game.Detection) Snapshot {
	assignment := game.AssignPlayers(dets)
	reset := false

	switch f.Command {
	case Evaluate:
		if r.gameOver {
			r.acknowledge()
			reset = true
			f.Command = None
		}
	case ClearDisplay:
		if r.trigger.Mode() == ModeStability || !r.gameOver {
			r.lastOutcome = ""
		}
	}

	// The acknowledging frame belongs to the finished match.
	var round *Round
	if r.trigger.Observe(f, !r.gameOver && !reset) {
		round = r.evaluate(assignment, f.Now)
	}

	snap := r.snapshot(f.Now)
	snap.Assignment = assignment
	snap.Round = round
	snap.Reset = reset
	return snap
}

// Score returns the current score.
func (r *Referee) Score() game.Score {
	return r.score
}

// GameOver reports whether the match awaits acknowledgement.
func (r *Referee) GameOver() bool {
	return r.gameOver
}

// Snapshot returns the current state without advancing.
func (r *Referee) Snapshot(now time.Time) Snapshot {
	return r.snapshot(now)
}

func (r *Referee) evaluate(a game.Assignment, now time.Time) *Round {
	r.rounds++
	g1, g2 := a.Gestures()
	round := &Round{
		MatchID: r.matchID,
		Number:  r.rounds,
		Player1: g1,
		Player2: g2,
		Outcome: game.NoContest,
		At:      now,
	}

	switch {
	case !a.Ready():
		r.lastOutcome = MsgNotEnoughGestures
	default:
		round.Outcome = game.ResolveWinner(g1, g2)
		if !round.Scored() {
			r.lastOutcome = MsgUnrecognizedGesture
			break
		}

		r.score = r.score.Apply(round.Outcome)
		if r.score.GameOver(r.winThreshold) {
			r.gameOver = true
			r.lastOutcome = fmt.Sprintf("%s - Congratulations! Evaluate again to play a new match", round.Outcome)
		} else {
			r.lastOutcome = fmt.Sprintf("Player 1: %s, Player 2: %s --- Winner: %s", g1, g2, round.Outcome)
		}
	}

	round.Score = r.score
	round.GameOver = r.gameOver
	round.Message = r.lastOutcome
	return round
}

func (r *Referee) acknowledge() {
	r.score = game.Score{}
	r.lastOutcome = ""
	r.gameOver = false
	r.rounds = 0
	r.matchID = r.newID()
	r.trigger.Reset()
}

func (r *Referee) snapshot(now time.Time) Snapshot {
	state := Idle
	cooldown := r.trigger.CooldownRemaining(now)
	switch {
	case r.gameOver:
		state = AwaitingAcknowledgement
	case cooldown > 0:
		state = Cooldown
	}

	stable := 0
	if st, ok := r.trigger.(interface{ StableFrames() int }); ok {
		stable = st.StableFrames()
	}

	return Snapshot{
		MatchID:           r.matchID,
		Mode:              r.trigger.Mode(),
		State:             state,
		Score:             r.score,
		WinThreshold:      r.winThreshold,
		LastOutcome:       r.lastOutcome,
		GameOver:          r.gameOver,
		CooldownRemaining: cooldown,
		CooldownSeconds:   cooldown.Round(100 * time.Millisecond).Seconds(),
		StableFrames:      stable,
		Rounds:            r.rounds,
	}
}

// Package hook discovers and runs external executables that react to
// round events.
package hook

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/rpsref/internal/game"
	"github.com/ayusman/rpsref/internal/referee"
)

// EventType names a point in the match a hook can subscribe to.
type EventType string

const (
	EventRound    EventType = "round"
	EventGameOver EventType = "game_over"
	EventReset    EventType = "reset"
)

// Manifest is the content of a hook.json file.
type Manifest struct {
	Name        string      `json:"name"`
	Version     string      `json:"version"`
	Description string      `json:"description"`
	Executable  string      `json:"executable"`
	Events      []EventType `json:"events"`
}

// Handles reports whether the manifest subscribes to ev.
func (m Manifest) Handles(ev EventType) bool {
	for _, e := range m.Events {
		if e == ev {
			return true
		}
	}
	return false
}

// Event is written as JSON to the hook's stdin.
type Event struct {
	ID       string       `json:"id"`
	Type     EventType    `json:"event"`
	MatchID  string       `json:"match_id"`
	Round    int          `json:"round"`
	Player1  game.Gesture `json:"player1"`
	Player2  game.Gesture `json:"player2"`
	Outcome  game.Outcome `json:"outcome"`
	Score    game.Score   `json:"score"`
	GameOver bool         `json:"game_over"`
	At       time.Time    `json:"at"`
}

// RoundEvent builds the event for an evaluated round. Rounds that end the
// match are reported as game_over.
func RoundEvent(r *referee.Round) Event {
	typ := EventRound
	if r.GameOver {
		typ = EventGameOver
	}
	return Event{
		ID:       uuid.New().String(),
		Type:     typ,
		MatchID:  r.MatchID,
		Round:    r.Number,
		Player1:  r.Player1,
		Player2:  r.Player2,
		Outcome:  r.Outcome,
		Score:    r.Score,
		GameOver: r.GameOver,
		At:       r.At,
	}
}

// ResetEvent builds the event emitted when a finished match is acknowledged.
func ResetEvent(matchID string, at time.Time) Event {
	return Event{
		ID:      uuid.New().String(),
		Type:    EventReset,
		MatchID: matchID,
		Outcome: game.NoContest,
		At:      at,
	}
}

// Response is what a hook prints to stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Hook is a discovered hook with its manifest and location.
type Hook struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Package main provides a hook that speaks round results.
// It uses `say` on macOS and `espeak` elsewhere. Set ANNOUNCE_DRY_RUN=1 to
// only report the phrase.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Event is the round event written to stdin by the referee.
type Event struct {
	ID       string `json:"id"`
	Event    string `json:"event"`
	MatchID  string `json:"match_id"`
	Round    int    `json:"round"`
	Player1  string `json:"player1"`
	Player2  string `json:"player2"`
	Outcome  string `json:"outcome"`
	Score    [2]int `json:"score"`
	GameOver bool   `json:"game_over"`
}

// Response is written to stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func main() {
	var ev Event
	if err := json.NewDecoder(os.Stdin).Decode(&ev); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode event: %v", err))
		return
	}

	phrase := buildPhrase(ev)
	if phrase == "" {
		writeErrorResponse(fmt.Sprintf("unknown event: %s", ev.Event))
		return
	}

	if os.Getenv("ANNOUNCE_DRY_RUN") == "" {
		if err := speak(phrase); err != nil {
			writeErrorResponse(fmt.Sprintf("speak failed: %v", err))
			return
		}
	}

	writeSuccessResponse(phrase)
}

// buildPhrase turns an event into the sentence to speak.
func buildPhrase(ev Event) string {
	switch ev.Event {
	case "reset":
		return "New match. Good luck."
	case "round", "game_over":
	default:
		return ""
	}

	var result string
	switch ev.Outcome {
	case "Player 1", "Player 2":
		result = fmt.Sprintf("%s wins the round.", ev.Outcome)
	case "Draw":
		result = "It's a draw."
	default:
		return fmt.Sprintf("Round %d does not count.", ev.Round)
	}

	if ev.GameOver {
		return fmt.Sprintf("Player 1 plays %s, Player 2 plays %s. %s wins the match, %d to %d.",
			ev.Player1, ev.Player2, ev.Outcome, max(ev.Score[0], ev.Score[1]), min(ev.Score[0], ev.Score[1]))
	}
	return fmt.Sprintf("%s Score %d to %d.", result, ev.Score[0], ev.Score[1])
}

func speak(phrase string) error {
	name := "espeak"
	if runtime.GOOS == "darwin" {
		name = "say"
	}
	cmd := exec.Command(name, phrase)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{
		Success: false,
		Error:   errMsg,
	})
}

func writeSuccessResponse(phrase string) {
	data, _ := json.Marshal(map[string]string{"phrase": phrase})
	json.NewEncoder(os.Stdout).Encode(Response{
		Success: true,
		Data:    data,
	})
}

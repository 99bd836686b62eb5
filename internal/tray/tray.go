// Package tray hosts the referee controls in the system tray.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/rpsref/internal/game"
	"github.com/ayusman/rpsref/internal/referee"
)

// Tray is the system tray menu: score and last outcome lines plus
// Evaluate, Clear Display and Quit items.
type Tray struct {
	onCommand func(cmd referee.Command)
	onQuit    func()
	onReady   func()
	mu        sync.RWMutex

	menuScore   *systray.MenuItem
	menuOutcome *systray.MenuItem
}

// New creates a Tray.
func New() *Tray {
	return &Tray{}
}

// OnCommand sets the callback for Evaluate and Clear Display clicks.
func (t *Tray) OnCommand(fn func(cmd referee.Command)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onCommand = fn
}

// OnQuit sets the callback run when Quit is clicked, before the tray exits.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// OnReady sets the callback run once the menu exists.
func (t *Tray) OnReady(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onReady = fn
}

// Run starts the tray. It blocks until Quit is called and must run on the
// main goroutine.
func (t *Tray) Run() {
	systray.Run(t.ready, func() {})
}

// Quit closes the tray.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) ready() {
	systray.SetTitle("RPS")
	systray.SetTooltip("Rock Paper Scissors Referee")

	t.mu.Lock()
	t.menuScore = systray.AddMenuItem(ScoreTitle(game.Score{}), "Current score")
	t.menuScore.Disable()
	t.menuOutcome = systray.AddMenuItem(OutcomeTitle(""), "Last outcome")
	t.menuOutcome.Disable()
	ready := t.onReady
	t.mu.Unlock()

	systray.AddSeparator()
	menuEvaluate := systray.AddMenuItem("Evaluate", "Play a round or start a new match")
	menuClear := systray.AddMenuItem("Clear Display", "Clear the outcome text")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit the referee")

	go func() {
		for {
			select {
			case <-menuEvaluate.ClickedCh:
				t.command(referee.Evaluate)
			case <-menuClear.ClickedCh:
				t.command(referee.ClearDisplay)
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()

	if ready != nil {
		ready()
	}
}

func (t *Tray) command(cmd referee.Command) {
	t.mu.RLock()
	callback := t.onCommand
	t.mu.RUnlock()

	if callback != nil {
		callback(cmd)
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// Update refreshes the menu from a snapshot.
func (t *Tray) Update(snap referee.Snapshot) {
	t.SetScore(snap.Score)
	t.SetOutcome(snap.LastOutcome)
}

// SetScore updates the score line.
func (t *Tray) SetScore(score game.Score) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuScore != nil {
		t.menuScore.SetTitle(ScoreTitle(score))
	}
}

// SetOutcome updates the last outcome line.
func (t *Tray) SetOutcome(text string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuOutcome != nil {
		t.menuOutcome.SetTitle(OutcomeTitle(text))
	}
}

// ScoreTitle formats the score menu line.
func ScoreTitle(score game.Score) string {
	return fmt.Sprintf("Player 1: %d  Player 2: %d", score[0], score[1])
}

// OutcomeTitle formats the outcome menu line.
func OutcomeTitle(text string) string {
	if text == "" {
		return "Last: none"
	}
	return "Last: " + text
}

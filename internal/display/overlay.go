// Package display renders the referee overlay and hosts the preview window.
package display

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gocv.io/x/gocv"

	"github.com/ayusman/rpsref/internal/referee"
)

// Options controls overlay colours.
type Options struct {
	Player1 color.RGBA
	Player2 color.RGBA
	Extra   color.RGBA
	Score   color.RGBA
	Winner  color.RGBA
}

// DefaultOptions returns the standard palette.
func DefaultOptions() Options {
	return Options{
		Player1: color.RGBA{R: 0, G: 255, B: 0, A: 255},
		Player2: color.RGBA{R: 255, G: 136, B: 0, A: 255},
		Extra:   color.RGBA{R: 160, G: 160, B: 160, A: 255},
		Score:   color.RGBA{R: 0, G: 255, B: 255, A: 255},
		Winner:  color.RGBA{R: 255, G: 0, B: 0, A: 255},
	}
}

// OptionsFromHex returns DefaultOptions with the player colours replaced by
// the given hex strings ("#rrggbb").
func OptionsFromHex(player1, player2 string) (Options, error) {
	opts := DefaultOptions()

	c1, err := parseHex(player1)
	if err != nil {
		return Options{}, fmt.Errorf("player 1 colour: %w", err)
	}
	c2, err := parseHex(player2)
	if err != nil {
		return Options{}, fmt.Errorf("player 2 colour: %w", err)
	}

	opts.Player1, opts.Player2 = c1, c2
	return opts, nil
}

func parseHex(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// Tag returns the player label drawn above the i-th ordered detection, or
// "" for detections that are not assigned to a player.
func Tag(snap referee.Snapshot, i int) string {
	if !snap.Assignment.Ready() {
		return ""
	}
	switch i {
	case 0:
		return "Player 2"
	case 1:
		return "Player 1"
	}
	return ""
}

// ScoreLine is the text drawn at the top of the frame.
func ScoreLine(snap referee.Snapshot) string {
	return fmt.Sprintf("Player 1: %d     Player 2: %d", snap.Score[0], snap.Score[1])
}

// WinnerLine is the outcome text drawn below the score, "" when cleared.
func WinnerLine(snap referee.Snapshot) string {
	if snap.LastOutcome == "" {
		return ""
	}
	return "Winner: " + snap.LastOutcome
}

// StatusLine describes the trigger state, "" when there is nothing to show.
func StatusLine(snap referee.Snapshot) string {
	switch snap.State {
	case referee.AwaitingAcknowledgement:
		return "Match over - evaluate to start again"
	case referee.Cooldown:
		return fmt.Sprintf("Next round in %.1fs", countdown(snap.CooldownRemaining).Seconds())
	}
	if snap.Mode == referee.ModeStability {
		return fmt.Sprintf("Hold still (%d)", snap.StableFrames)
	}
	return ""
}

// DrawOverlay draws detection boxes, player tags, score and outcome text
// onto frame in place.
func DrawOverlay(frame *gocv.Mat, snap referee.Snapshot, opts Options) {
	if frame == nil || frame.Empty() {
		return
	}

	for i, det := range snap.Assignment.Ordered {
		rect := image.Rect(det.Box.X1, det.Box.Y1, det.Box.X2, det.Box.Y2)

		tag := Tag(snap, i)
		c := opts.Extra
		switch tag {
		case "Player 1":
			c = opts.Player1
		case "Player 2":
			c = opts.Player2
		}

		gocv.Rectangle(frame, rect, c, 2)

		label := fmt.Sprintf("%s %.0f%%", det.Label, det.Confidence*100)
		if tag != "" {
			label = tag + " " + label
		}
		pos := image.Pt(rect.Min.X, rect.Min.Y-10)
		if pos.Y < 15 {
			pos.Y = rect.Max.Y + 20
		}
		gocv.PutText(frame, label, pos, gocv.FontHersheySimplex, 0.7, c, 2)
	}

	gocv.PutText(frame, ScoreLine(snap), image.Pt(10, 30), gocv.FontHersheySimplex, 1, opts.Score, 2)

	y := 70
	if line := WinnerLine(snap); line != "" {
		gocv.PutText(frame, line, image.Pt(10, y), gocv.FontHersheySimplex, 1, opts.Winner, 2)
		y += 40
	}
	if line := StatusLine(snap); line != "" {
		gocv.PutText(frame, line, image.Pt(10, y), gocv.FontHersheySimplex, 0.6, opts.Score, 1)
	}
}

// countdown rounds d to a tenth of a second.
func countdown(d time.Duration) time.Duration {
	return d.Round(100 * time.Millisecond)
}

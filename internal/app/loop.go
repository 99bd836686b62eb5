package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/rpsref/internal/display"
	"github.com/ayusman/rpsref/internal/game"
	"github.com/ayusman/rpsref/internal/hook"
	"github.com/ayusman/rpsref/internal/referee"
)

// Run drives the frame loop until Quit is submitted (nil), ctx is cancelled
// (ctx.Err()) or the feed stops yielding frames (ErrFeedExhausted).
//
// Per frame:
// 1. Read a frame and score motion against the previous one
// 2. Detect hands and drop low-confidence detections
// 3. Take at most one queued command
// 4. Step the referee
// 5. Draw the overlay, present it and publish the snapshot
func (a *App) Run(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return ErrAlreadyRunning
	}
	a.running = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.running = false
		a.mu.Unlock()
	}()

	if !a.feed.IsOpen() {
		if err := a.feed.Open(); err != nil {
			return fmt.Errorf("open feed: %w", err)
		}
	}
	defer func() {
		if err := a.feed.Close(); err != nil {
			log.Printf("Error closing feed: %v", err)
		}
	}()

	hookCtx, cancelHooks := context.WithCancel(context.Background())
	events := make(chan hook.Event, HookQueueSize)
	a.events = events
	hooksDone := a.startHookDispatcher(hookCtx, events)
	defer a.stopHooks(events, hooksDone, cancelHooks)

	var tick <-chan time.Time
	if a.config.FPS > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(a.config.FPS))
		defer ticker.Stop()
		tick = ticker.C
	}

	snap := a.Snapshot()
	log.Printf("Referee loop started (mode=%s, win threshold=%d)", snap.Mode, snap.WinThreshold)

	for {
		select {
		case <-ctx.Done():
			log.Println("Referee loop stopped")
			return ctx.Err()
		default:
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				log.Println("Referee loop stopped")
				return ctx.Err()
			case <-tick:
			}
		}

		frame, err := a.feed.ReadFrame()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrFeedExhausted, err)
		}

		quit := a.processFrame(frame)
		frame.Close()
		if quit {
			log.Println("Quit requested, referee loop stopped")
			return nil
		}
	}
}

// processFrame runs one iteration on frame and reports whether the loop
// should stop: Quit was taken from the queue or the preview window closed.
// frame is annotated in place.
func (a *App) processFrame(frame *gocv.Mat) bool {
	now := a.clock()
	motion := a.motion.Score(frame)

	dets, err := a.det.Detect(frame)
	if err != nil {
		log.Printf("Error detecting gestures: %v", err)
		dets = nil
	}
	dets = game.FilterConfident(dets, a.config.Confidence)

	cmd := referee.None
	select {
	case cmd = <-a.commands:
	default:
	}
	if cmd == referee.Quit {
		return true
	}

	snap := a.ref.Step(referee.Frame{MotionScore: motion, Command: cmd, Now: now}, dets)
	a.logSnapshot(snap)
	a.queueHooks(snap)

	display.DrawOverlay(frame, snap, a.config.Overlay)

	if a.config.Presenter != nil {
		if key := a.config.Presenter.Show(*frame); key != referee.None {
			if err := a.Submit(key); err != nil {
				log.Printf("Dropped %s command: %v", key, err)
			}
		}
		if w, ok := a.config.Presenter.(interface{ Open() bool }); ok && !w.Open() {
			log.Println("Preview window closed")
			return true
		}
	}

	a.publish(snap, encodeJPEG(frame))
	return false
}

func (a *App) publish(snap referee.Snapshot, jpeg []byte) {
	a.mu.Lock()
	prev := a.snap
	a.snap = snap
	if jpeg != nil {
		a.jpeg = jpeg
	}
	a.frames++
	a.mu.Unlock()

	if changed(prev, snap) {
		a.broadcast(snap)
	}
}

// changed reports whether next is worth pushing to subscribers.
func changed(prev, next referee.Snapshot) bool {
	return next.Round != nil ||
		next.Reset ||
		prev.State != next.State ||
		prev.LastOutcome != next.LastOutcome ||
		prev.Score != next.Score ||
		prev.MatchID != next.MatchID
}

func (a *App) logSnapshot(snap referee.Snapshot) {
	if snap.Reset {
		log.Printf("Match acknowledged, new match %s", snap.MatchID)
	}
	if r := snap.Round; r != nil {
		log.Printf("Round %d: player1=%s player2=%s outcome=%s score=%d-%d (%s)",
			r.Number, r.Player1, r.Player2, r.Outcome, r.Score[0], r.Score[1], r.Message)
		if r.GameOver {
			log.Printf("Match %s over: %s wins", r.MatchID, r.Score.Leader())
		}
	}
}

func encodeJPEG(frame *gocv.Mat) []byte {
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		log.Printf("Error encoding frame: %v", err)
		return nil
	}
	defer buf.Close()

	return append([]byte(nil), buf.GetBytes()...)
}

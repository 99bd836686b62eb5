package app

import (
	"context"
	"log"
	"time"

	"github.com/ayusman/rpsref/internal/hook"
	"github.com/ayusman/rpsref/internal/referee"
)

// queueHooks turns a snapshot into hook events without blocking the loop.
func (a *App) queueHooks(snap referee.Snapshot) {
	if a.config.Hooks == nil || a.config.HookExec == nil {
		return
	}

	if snap.Reset {
		a.enqueueEvent(hook.ResetEvent(snap.MatchID, a.clock()))
	}
	if snap.Round != nil {
		a.enqueueEvent(hook.RoundEvent(snap.Round))
	}
}

func (a *App) enqueueEvent(ev hook.Event) {
	select {
	case a.events <- ev:
	default:
		log.Printf("Hook queue full, dropped %s event for match %s", ev.Type, ev.MatchID)
	}
}

// startHookDispatcher runs hooks for events until the channel is closed.
// The returned channel is closed when it exits.
func (a *App) startHookDispatcher(ctx context.Context, events <-chan hook.Event) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events {
			if a.config.Hooks == nil || a.config.HookExec == nil {
				continue
			}
			if ctx.Err() != nil {
				log.Printf("Skipped %s event for match %s: loop stopped", ev.Type, ev.MatchID)
				continue
			}
			for _, h := range a.config.Hooks.For(ev.Type) {
				resp, err := a.config.HookExec.Execute(ctx, h, ev)
				if err != nil {
					log.Printf("Hook %s: %v", h.Manifest.Name, err)
					continue
				}
				if !resp.Success {
					log.Printf("Hook %s reported failure: %s", h.Manifest.Name, resp.Error)
				}
			}
		}
	}()
	return done
}

// stopHooks closes the event queue and waits up to the drain timeout for
// queued hooks. After that, running hooks are killed and the rest skipped.
func (a *App) stopHooks(events chan hook.Event, done <-chan struct{}, cancel context.CancelFunc) {
	defer cancel()
	close(events)

	timer := time.NewTimer(a.config.HookDrain)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		log.Printf("Hooks still running after %v, cancelling", a.config.HookDrain)
		cancel()
		<-done
	}
}

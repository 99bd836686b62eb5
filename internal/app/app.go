// Package app runs the referee frame loop and exposes its state to other
// goroutines.
package app

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/rpsref/internal/capture"
	"github.com/ayusman/rpsref/internal/detector"
	"github.com/ayusman/rpsref/internal/display"
	"github.com/ayusman/rpsref/internal/hook"
	"github.com/ayusman/rpsref/internal/referee"
)

// Queue sizes.
const (
	// CommandQueueSize is the capacity of the command channel.
	CommandQueueSize = 8
	// HookQueueSize is the capacity of the hook event channel.
	HookQueueSize = 32
	// SubscriberBuffer is the capacity of each subscriber channel.
	SubscriberBuffer = 16
)

// DefaultHookDrain bounds how long Run waits for queued hooks on exit.
const DefaultHookDrain = 2 * time.Second

var (
	// ErrCommandQueueFull is returned by Submit when the loop is not
	// draining commands fast enough.
	ErrCommandQueueFull = errors.New("command queue full")
	// ErrFeedExhausted is returned by Run when the feed stops yielding frames.
	ErrFeedExhausted = errors.New("feed exhausted")
	// ErrAlreadyRunning is returned by Run when the loop is already active.
	ErrAlreadyRunning = errors.New("loop already running")
)

// Presenter shows an annotated frame and returns the command the user
// entered while it was shown, if any. It is called from the loop goroutine.
type Presenter interface {
	Show(frame gocv.Mat) referee.Command
}

// Config holds the loop's collaborators.
type Config struct {
	Feed       capture.Feed
	Motion     *capture.MotionMeter
	Detector   detector.Detector
	Referee    *referee.Referee
	Confidence float64
	Overlay    display.Options

	// Presenter is optional; nil runs headless.
	Presenter Presenter

	// Hooks and HookExec are optional; both must be set for hooks to run.
	Hooks    *hook.Manager
	HookExec *hook.Executor

	// HookDrain defaults to DefaultHookDrain.
	HookDrain time.Duration

	// FPS paces the loop when positive. Live cameras pace themselves.
	FPS int

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// App owns the referee and runs the frame loop.
type App struct {
	config Config
	feed   capture.Feed
	motion *capture.MotionMeter
	det    detector.Detector
	ref    *referee.Referee
	clock  func() time.Time

	commands chan referee.Command
	events   chan hook.Event

	mu      sync.RWMutex
	snap    referee.Snapshot
	jpeg    []byte
	frames  int
	running bool

	subMu  sync.Mutex
	subs   map[int]chan referee.Snapshot
	nextID int
}

// New creates an App. Feed, Detector and Referee are required.
func New(config Config) (*App, error) {
	if config.Feed == nil {
		return nil, errors.New("app: feed is required")
	}
	if config.Detector == nil {
		return nil, errors.New("app: detector is required")
	}
	if config.Referee == nil {
		return nil, errors.New("app: referee is required")
	}

	motion := config.Motion
	if motion == nil {
		motion = capture.NewMotionMeter(capture.DefaultDiffThreshold, 0)
	}
	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}
	if config.HookDrain <= 0 {
		config.HookDrain = DefaultHookDrain
	}

	a := &App{
		config:   config,
		feed:     config.Feed,
		motion:   motion,
		det:      config.Detector,
		ref:      config.Referee,
		clock:    clock,
		commands: make(chan referee.Command, CommandQueueSize),
		events:   make(chan hook.Event, HookQueueSize),
		subs:     make(map[int]chan referee.Snapshot),
	}
	a.snap = a.ref.Snapshot(clock())
	return a, nil
}

// Submit enqueues a command for the next frame without blocking.
func (a *App) Submit(cmd referee.Command) error {
	if cmd == referee.None {
		return nil
	}
	select {
	case a.commands <- cmd:
		return nil
	default:
		return ErrCommandQueueFull
	}
}

// Snapshot returns the last published snapshot.
func (a *App) Snapshot() referee.Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snap
}

// LatestJPEG returns the last annotated frame as JPEG, nil before the
// first frame.
func (a *App) LatestJPEG() []byte {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.jpeg
}

// Frames returns the number of frames processed.
func (a *App) Frames() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.frames
}

// Running reports whether the loop is active.
func (a *App) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.running
}

// Subscribe registers for snapshots published when the round, outcome text,
// score or state changes. The returned function unsubscribes and closes the
// channel. A subscriber that falls behind misses snapshots.
func (a *App) Subscribe() (<-chan referee.Snapshot, func()) {
	a.subMu.Lock()
	defer a.subMu.Unlock()

	id := a.nextID
	a.nextID++
	ch := make(chan referee.Snapshot, SubscriberBuffer)
	a.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			a.subMu.Lock()
			defer a.subMu.Unlock()
			delete(a.subs, id)
			close(ch)
		})
	}
}

func (a *App) broadcast(snap referee.Snapshot) {
	a.subMu.Lock()
	defer a.subMu.Unlock()

	for _, ch := range a.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

// Close releases the motion meter and the detector. Call it after Run
// returns.
func (a *App) Close() error {
	a.motion.Close()
	if err := a.det.Close(); err != nil {
		return fmt.Errorf("close detector: %w", err)
	}
	return nil
}

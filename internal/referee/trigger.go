package referee

import (
	"fmt"
	"time"
)

// Mode selects the round trigger policy.
type Mode string

const (
	// ModeManual plays a round on an explicit Evaluate command.
	ModeManual Mode = "manual"
	// ModeStability plays a round once the scene has been still long enough.
	ModeStability Mode = "stability"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeManual, ModeStability:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown trigger mode %q", s)
}

// Frame is the per-frame input the trigger and referee consume.
type Frame struct {
	MotionScore int
	Command     Command
	Now         time.Time
}

// Trigger decides on which frame a round is evaluated.
type Trigger interface {
	Mode() Mode
	// Observe is called exactly once per frame. idle is false while a
	// finished match awaits acknowledgement. It returns true when a round
	// must be evaluated on this frame.
	Observe(f Frame, idle bool) bool
	// Reset returns the trigger to its initial state.
	Reset()
	// CooldownRemaining is informational and never affects Observe.
	CooldownRemaining(now time.Time) time.Duration
}

// ManualTrigger fires on every Evaluate command received while idle.
type ManualTrigger struct{}

// NewManualTrigger creates a ManualTrigger.
func NewManualTrigger() *ManualTrigger {
	return &ManualTrigger{}
}

// Mode returns ModeManual.
func (t *ManualTrigger) Mode() Mode { return ModeManual }

// Observe fires on an Evaluate command while the referee is idle.
func (t *ManualTrigger) Observe(f Frame, idle bool) bool {
	return idle && f.Command == Evaluate
}

// Reset is a no-op; a manual trigger keeps no state.
func (t *ManualTrigger) Reset() {}

// CooldownRemaining is always zero.
func (t *ManualTrigger) CooldownRemaining(time.Time) time.Duration { return 0 }

// StabilityConfig tunes the motion debounce.
type StabilityConfig struct {
	// MotionThreshold is the number of changed pixels below which a frame
	// counts as still.
	MotionThreshold int
	// StableFrames is the run of consecutive still frames that fires a round.
	StableFrames int
	// Cooldown is the minimum time between two triggers.
	Cooldown time.Duration
}

// DefaultStabilityConfig returns the stock debounce settings.
func DefaultStabilityConfig() StabilityConfig {
	return StabilityConfig{
		MotionThreshold: 10000,
		StableFrames:    10,
		Cooldown:        5 * time.Second,
	}
}

// StabilityTrigger fires once the motion score has stayed below the
// threshold for StableFrames consecutive idle frames outside the cooldown.
type StabilityTrigger struct {
	config      StabilityConfig
	stable      int
	lastTrigger time.Time
}

// NewStabilityTrigger creates a StabilityTrigger. A run length below 1 is
// treated as 1.
func NewStabilityTrigger(config StabilityConfig) *StabilityTrigger {
	if config.StableFrames < 1 {
		config.StableFrames = 1
	}
	return &StabilityTrigger{config: config}
}

// Mode returns ModeStability.
func (t *StabilityTrigger) Mode() Mode { return ModeStability }

// Observe counts consecutive still frames while idle and out of cooldown,
// firing when the run reaches StableFrames. Any other frame restarts the run.
func (t *StabilityTrigger) Observe(f Frame, idle bool) bool {
	if !idle || f.MotionScore >= t.config.MotionThreshold || !t.cooledDown(f.Now) {
		t.stable = 0
		return false
	}

	t.stable++
	if t.stable < t.config.StableFrames {
		return false
	}

	t.stable = 0
	t.lastTrigger = f.Now
	return true
}

// Reset clears the stable-frame counter and the cooldown.
func (t *StabilityTrigger) Reset() {
	t.stable = 0
	t.lastTrigger = time.Time{}
}

// CooldownRemaining returns the time left before the trigger may fire again.
func (t *StabilityTrigger) CooldownRemaining(now time.Time) time.Duration {
	if t.lastTrigger.IsZero() {
		return 0
	}
	remaining := t.config.Cooldown - now.Sub(t.lastTrigger)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// StableFrames returns the current run of qualifying frames.
func (t *StabilityTrigger) StableFrames() int {
	return t.stable
}

// LastTrigger returns when the trigger last fired, zero if never.
func (t *StabilityTrigger) LastTrigger() time.Time {
	return t.lastTrigger
}

func (t *StabilityTrigger) cooledDown(now time.Time) bool {
	return t.lastTrigger.IsZero() || now.Sub(t.lastTrigger) >= t.config.Cooldown
}

// NewTrigger builds the trigger for mode.
func NewTrigger(mode Mode, stability StabilityConfig) (Trigger, error) {
	switch mode {
	case ModeManual:
		return NewManualTrigger(), nil
	case ModeStability:
		return NewStabilityTrigger(stability), nil
	}
	return nil, fmt.Errorf("unknown trigger mode %q", mode)
}

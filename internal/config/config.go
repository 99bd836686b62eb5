// Package config loads referee configuration from the environment and
// applies stored overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/ayusman/rpsref/internal/detector"
	"github.com/ayusman/rpsref/internal/game"
	"github.com/ayusman/rpsref/internal/referee"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Display hosts.
const (
	DisplayWindow   = "window"
	DisplayTray     = "tray"
	DisplayHeadless = "headless"
)

// Config holds every externally supplied setting.
type Config struct {
	Mode            referee.Mode  `env:"RPSREF_MODE" envDefault:"manual"`
	WinThreshold    int           `env:"RPSREF_WIN_THRESHOLD" envDefault:"3"`
	Confidence      float64       `env:"RPSREF_CONFIDENCE" envDefault:"0.5"`
	MotionThreshold int           `env:"RPSREF_MOTION_THRESHOLD" envDefault:"10000"`
	MotionDelta     int           `env:"RPSREF_MOTION_DELTA" envDefault:"25"`
	MotionBlur      int           `env:"RPSREF_MOTION_BLUR" envDefault:"0"`
	StableFrames    int           `env:"RPSREF_STABLE_FRAMES" envDefault:"10"`
	Cooldown        time.Duration `env:"RPSREF_COOLDOWN" envDefault:"5s"`
	Labels          []string      `env:"RPSREF_LABELS" envDefault:"Paper,Rock,Scissors" envSeparator:","`

	Feed        string `env:"RPSREF_FEED" envDefault:"0"`
	FrameWidth  int    `env:"RPSREF_FRAME_WIDTH" envDefault:"1280"`
	FrameHeight int    `env:"RPSREF_FRAME_HEIGHT" envDefault:"960"`

	ModelPath  string  `env:"RPSREF_MODEL_PATH" envDefault:"models/rps.onnx"`
	OrtLibrary string  `env:"RPSREF_ORT_LIB"`
	InputSize  int     `env:"RPSREF_INPUT_SIZE" envDefault:"640"`
	IoU        float64 `env:"RPSREF_IOU" envDefault:"0.45"`

	Display      string `env:"RPSREF_DISPLAY" envDefault:"window"`
	Addr         string `env:"RPSREF_ADDR" envDefault:":8080"`
	StaticDir    string `env:"RPSREF_STATIC_DIR"`
	Player1Color string `env:"RPSREF_PLAYER1_COLOR" envDefault:"#00ff00"`
	Player2Color string `env:"RPSREF_PLAYER2_COLOR" envDefault:"#ff8800"`

	DataDir     string        `env:"RPSREF_DATA_DIR"`
	HooksDir    string        `env:"RPSREF_HOOKS_DIR"`
	HookTimeout time.Duration `env:"RPSREF_HOOK_TIMEOUT" envDefault:"5s"`
}

// Load parses the environment, fills derived paths and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".rpsref")
	}
	if cfg.HooksDir == "" {
		cfg.HooksDir = filepath.Join(cfg.DataDir, "hooks")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DBPath returns the settings database location.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "rpsref.db")
}

// GameLabels returns the class labels as game.Labels.
func (c Config) GameLabels() game.Labels {
	return game.Labels(c.Labels)
}

// Stability returns the debounce settings.
func (c Config) Stability() referee.StabilityConfig {
	return referee.StabilityConfig{
		MotionThreshold: c.MotionThreshold,
		StableFrames:    c.StableFrames,
		Cooldown:        c.Cooldown,
	}
}

// Detector returns the ONNX detector settings.
func (c Config) Detector() detector.Config {
	d := detector.DefaultConfig()
	d.ModelPath = c.ModelPath
	d.SharedLibraryPath = c.OrtLibrary
	d.Labels = c.GameLabels()
	d.InputSize = c.InputSize
	d.MinConfidence = c.Confidence
	d.IoUThreshold = c.IoU
	return d
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	var problems []string

	if _, err := referee.ParseMode(string(c.Mode)); err != nil {
		problems = append(problems, err.Error())
	}
	if c.WinThreshold < 1 {
		problems = append(problems, "win threshold must be at least 1")
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		problems = append(problems, "confidence must be within [0, 1]")
	}
	if c.MotionThreshold <= 0 {
		problems = append(problems, "motion threshold must be positive")
	}
	if c.StableFrames <= 0 {
		problems = append(problems, "stable frames must be positive")
	}
	if c.Cooldown < 0 {
		problems = append(problems, "cooldown must not be negative")
	}
	if len(c.Labels) == 0 {
		problems = append(problems, "at least one class label is required")
	}
	switch c.Display {
	case DisplayWindow, DisplayTray, DisplayHeadless:
	default:
		problems = append(problems, fmt.Sprintf("unknown display %q", c.Display))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// Setting keys that may be overridden from the settings store.
const (
	KeyMode            = "mode"
	KeyWinThreshold    = "win_threshold"
	KeyConfidence      = "confidence"
	KeyMotionThreshold = "motion_threshold"
	KeyStableFrames    = "stable_frames"
	KeyCooldown        = "cooldown"
	KeyLabels          = "labels"
)

// SettingKeys lists the keys accepted by ApplySettings, sorted.
func SettingKeys() []string {
	keys := []string{
		KeyMode, KeyWinThreshold, KeyConfidence, KeyMotionThreshold,
		KeyStableFrames, KeyCooldown, KeyLabels,
	}
	sort.Strings(keys)
	return keys
}

// IsSettingKey reports whether key can be stored as an override.
func IsSettingKey(key string) bool {
	for _, k := range SettingKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// ApplySettings returns a copy of c with the stored overrides applied.
// Unknown keys and unparsable values are rejected; the result is validated.
func (c Config) ApplySettings(settings map[string]string) (Config, error) {
	for key, value := range settings {
		if err := c.apply(key, value); err != nil {
			return Config{}, fmt.Errorf("%w: setting %s: %v", ErrInvalid, key, err)
		}
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// CheckSetting validates a single override without applying it.
func (c Config) CheckSetting(key, value string) error {
	_, err := c.ApplySettings(map[string]string{key: value})
	return err
}

func (c *Config) apply(key, value string) error {
	var err error
	switch key {
	case KeyMode:
		c.Mode, err = referee.ParseMode(value)
	case KeyWinThreshold:
		c.WinThreshold, err = strconv.Atoi(value)
	case KeyConfidence:
		c.Confidence, err = strconv.ParseFloat(value, 64)
	case KeyMotionThreshold:
		c.MotionThreshold, err = strconv.Atoi(value)
	case KeyStableFrames:
		c.StableFrames, err = strconv.Atoi(value)
	case KeyCooldown:
		c.Cooldown, err = time.ParseDuration(value)
	case KeyLabels:
		c.Labels = splitLabels(value)
	default:
		err = fmt.Errorf("unknown key")
	}
	return err
}

func splitLabels(value string) []string {
	var labels []string
	for _, l := range strings.Split(value, ",") {
		if l = strings.TrimSpace(l); l != "" {
			labels = append(labels, l)
		}
	}
	return labels
}

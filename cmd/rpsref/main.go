package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/ayusman/rpsref/internal/app"
	"github.com/ayusman/rpsref/internal/capture"
	"github.com/ayusman/rpsref/internal/config"
	"github.com/ayusman/rpsref/internal/detector"
	"github.com/ayusman/rpsref/internal/display"
	"github.com/ayusman/rpsref/internal/hook"
	"github.com/ayusman/rpsref/internal/referee"
	"github.com/ayusman/rpsref/internal/server"
	"github.com/ayusman/rpsref/internal/store"
	"github.com/ayusman/rpsref/internal/tray"
)

// highgui and the tray both need the main OS thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	fmt.Println("RPS Referee - Rock Paper Scissors")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(cfg.DBPath())
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	cfg = applyStoredSettings(cfg, st)

	det := newDetector(cfg)

	trigger, err := referee.NewTrigger(cfg.Mode, cfg.Stability())
	if err != nil {
		log.Fatalf("Failed to create trigger: %v", err)
	}

	overlay, err := display.OptionsFromHex(cfg.Player1Color, cfg.Player2Color)
	if err != nil {
		log.Printf("Invalid overlay colours (%v), using defaults", err)
		overlay = display.DefaultOptions()
	}

	hooks := hook.NewManager(cfg.HooksDir)
	if err := hooks.Discover(); err != nil {
		log.Printf("Failed to discover hooks in %s: %v", cfg.HooksDir, err)
	} else {
		log.Printf("Loaded %d hooks from %s", len(hooks.List()), hooks.Dir())
	}

	var win *display.Window
	appConfig := app.Config{
		Feed: capture.NewCamera(capture.CameraConfig{
			Selector: cfg.Feed,
			Width:    cfg.FrameWidth,
			Height:   cfg.FrameHeight,
		}),
		Motion:     capture.NewMotionMeter(cfg.MotionDelta, cfg.MotionBlur),
		Detector:   det,
		Referee:    referee.New(trigger, cfg.WinThreshold),
		Confidence: cfg.Confidence,
		Overlay:    overlay,
		Hooks:      hooks,
		HookExec:   hook.NewExecutor(cfg.HookTimeout),
	}
	if cfg.Display == config.DisplayWindow {
		win = display.NewWindow(display.DefaultTitle)
		defer win.Close()
		appConfig.Presenter = win
	}

	engine, err := app.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create referee: %v", err)
	}
	defer func() {
		if err := engine.Close(); err != nil {
			log.Printf("Error closing referee: %v", err)
		}
	}()

	srv := server.New(server.Config{
		StaticDir:    cfg.StaticDir,
		Store:        st,
		Engine:       engine,
		CheckSetting: cfg.CheckSetting,
	})
	httpServer := srv.HTTPServer(cfg.Addr)
	go func() {
		log.Printf("Starting server on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Server failed: %v", err)
		}
	}()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(ctx)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Referee running: mode=%s display=%s feed=%s", cfg.Mode, cfg.Display, cfg.Feed)

	if cfg.Display == config.DisplayTray {
		err = runWithTray(ctx, tray.New(), engine)
	} else {
		err = engine.Run(ctx)
	}

	switch {
	case err == nil, errors.Is(err, context.Canceled):
		log.Println("Referee stopped")
	case errors.Is(err, app.ErrFeedExhausted):
		log.Printf("Feed ended: %v", err)
	default:
		log.Printf("Referee failed: %v", err)
	}
}

// applyStoredSettings layers the settings table over the environment.
// Invalid overrides are logged and ignored as a whole.
func applyStoredSettings(cfg config.Config, st *store.Store) config.Config {
	overrides, err := st.Settings().Map()
	if err != nil {
		log.Printf("Failed to read stored settings: %v", err)
		return cfg
	}
	if len(overrides) == 0 {
		return cfg
	}

	applied, err := cfg.ApplySettings(overrides)
	if err != nil {
		log.Printf("Ignoring stored settings: %v", err)
		return cfg
	}
	log.Printf("Applied %d stored settings", len(overrides))
	return applied
}

// newDetector loads the ONNX model, falling back to a detector that never
// sees hands so the rest of the referee still runs.
func newDetector(cfg config.Config) detector.Detector {
	yolo, err := detector.NewYOLODetector(cfg.Detector())
	if err != nil {
		log.Printf("WARNING: ONNX detector not available (%v), using mock detector", err)
		return detector.NewMockDetector()
	}
	log.Printf("Using ONNX detector %s", cfg.ModelPath)
	return yolo
}

// trayHost is the part of tray.Tray the referee drives.
type trayHost interface {
	OnCommand(fn func(cmd referee.Command))
	OnQuit(fn func())
	OnReady(fn func())
	Run()
	Quit()
	Update(snap referee.Snapshot)
}

var errTrayNotReady = errors.New("tray exited before it was ready")

// runWithTray runs the loop in the background and the tray on the main
// goroutine. Either side quitting stops the other.
func runWithTray(ctx context.Context, t trayHost, a *app.App) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t.OnCommand(func(cmd referee.Command) {
		if err := a.Submit(cmd); err != nil {
			log.Printf("Dropped %s command: %v", cmd, err)
		}
	})
	t.OnQuit(cancel)

	updates, unsubscribe := a.Subscribe()
	defer unsubscribe()

	ready := make(chan struct{})
	done := make(chan error, 1)
	t.OnReady(func() {
		close(ready)
		t.Update(a.Snapshot())
		go func() {
			for snap := range updates {
				t.Update(snap)
			}
		}()
		go func() {
			done <- a.Run(ctx)
			t.Quit()
		}()
	})

	t.Run()
	cancel()

	select {
	case <-ready:
		return <-done
	default:
		return errTrayNotReady
	}
}

// Package capture provides video frame capture and motion measurement using GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"gocv.io/x/gocv"
)

// Default capture settings
const (
	DefaultFPS    = 15
	DefaultWidth  = 1280
	DefaultHeight = 960
)

var (
	// ErrCameraNotOpen is returned when trying to read from a feed that is not open.
	ErrCameraNotOpen = errors.New("camera is not open")
	// ErrNoMoreFrames is returned when a finite feed has been played to the end.
	ErrNoMoreFrames = errors.New("no more frames")
)

// Feed defines the interface for frame sources.
type Feed interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
}

// CameraConfig holds options for NewCamera.
type CameraConfig struct {
	// Selector is a device index ("0") or a video file path / stream URL.
	Selector string
	Width    int
	Height   int
}

// cameraImpl manages video capture from a device or file using GoCV.
type cameraImpl struct {
	config  CameraConfig
	capture *gocv.VideoCapture
	mu      sync.Mutex
	running bool
	fps     int
}

// NewCamera creates a new Feed for the given selector. Zero dimensions
// fall back to DefaultWidth x DefaultHeight.
func NewCamera(config CameraConfig) Feed {
	if config.Width <= 0 {
		config.Width = DefaultWidth
	}
	if config.Height <= 0 {
		config.Height = DefaultHeight
	}
	if config.Selector == "" {
		config.Selector = "0"
	}
	return &cameraImpl{
		config: config,
		fps:    DefaultFPS,
	}
}

// source returns the device index when the selector is numeric, otherwise
// the selector itself.
func (c *cameraImpl) source() interface{} {
	if id, err := strconv.Atoi(c.config.Selector); err == nil {
		return id
	}
	return c.config.Selector
}

// Open opens the feed for capturing frames.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.source())
	if err != nil {
		return fmt.Errorf("open feed %q: %w", c.config.Selector, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return fmt.Errorf("open feed %q: %w", c.config.Selector, ErrCameraNotOpen)
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(c.config.Width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(c.config.Height))
	capture.Set(gocv.VideoCaptureFPS, float64(c.fps))

	c.capture = capture
	c.running = true

	return nil
}

// Close closes the feed and releases resources.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadFrame reads a single frame.
// The caller is responsible for closing the returned Mat.
func (c *cameraImpl) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, errors.New("failed to read frame from feed")
	}

	if mat.Empty() {
		mat.Close()
		return nil, errors.New("captured frame is empty")
	}

	return &mat, nil
}

// SetFPS sets the requested frames per second.
// Values less than or equal to 0 are ignored.
func (c *cameraImpl) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.fps = fps

	if c.capture != nil {
		c.capture.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

// FPS returns the current frames per second setting.
func (c *cameraImpl) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fps
}

// IsOpen returns true if the feed is currently open.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}

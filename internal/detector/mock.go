package detector

import (
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/rpsref/internal/game"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	dets  []game.Detection
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetDetections sets the detections that will be returned by Detect.
func (m *MockDetector) SetDetections(dets []game.Detection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dets = dets
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured detections or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]game.Detection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]game.Detection, len(m.dets))
	copy(out, m.dets)
	return out, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Hand returns a detection of g centered horizontally at centerX, for
// building scenes in tests.
func Hand(g game.Gesture, centerX int) game.Detection {
	return game.Detection{
		Gesture:    g,
		Label:      g.String(),
		Box:        game.Box{X1: centerX - 50, Y1: 200, X2: centerX + 50, Y2: 350},
		Confidence: 0.9,
	}
}

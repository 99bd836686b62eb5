// Package detector provides hand-shape detection over video frames.
package detector

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/rpsref/internal/game"
)

// Detector defines the interface for gesture detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns the detected hand shapes.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]game.Detection, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for gesture detection.
type Config struct {
	// ModelPath is the ONNX model file.
	ModelPath string

	// SharedLibraryPath locates the onnxruntime library. Empty uses the
	// platform default search.
	SharedLibraryPath string

	// Labels maps class indices to gesture names.
	Labels game.Labels

	// InputSize is the square model input edge in pixels (default: 640).
	InputSize int

	// Anchors is the number of candidate boxes in the model output (default: 8400).
	Anchors int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// IoUThreshold is the overlap above which boxes of the same class are merged.
	IoUThreshold float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		ModelPath:     "models/rps.onnx",
		Labels:        game.DefaultLabels,
		InputSize:     640,
		Anchors:       8400,
		MinConfidence: 0.5,
		IoUThreshold:  0.45,
	}
}

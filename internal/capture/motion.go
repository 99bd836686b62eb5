package capture

import (
	"image"
	"math"
	"sync"

	"gocv.io/x/gocv"
)

// DefaultDiffThreshold is the per-pixel grayscale delta (out of 255) above
// which a pixel counts as changed.
const DefaultDiffThreshold = 25

// MotionMeter scores motion between consecutive frames as the number of
// pixels whose grayscale value changed by more than a fixed delta.
type MotionMeter struct {
	delta       float32
	blurSize    int
	prevGray    gocv.Mat
	initialized bool
	mu          sync.Mutex
}

// NewMotionMeter creates a MotionMeter. delta <= 0 uses
// DefaultDiffThreshold. blurSize > 0 applies a Gaussian blur of that
// (odd) kernel size before differencing; 0 disables it.
func NewMotionMeter(delta, blurSize int) *MotionMeter {
	if delta <= 0 {
		delta = DefaultDiffThreshold
	}
	if blurSize > 0 && blurSize%2 == 0 {
		blurSize++
	}
	return &MotionMeter{
		delta:    float32(delta),
		blurSize: blurSize,
		prevGray: gocv.NewMat(),
	}
}

// Score returns the number of changed pixels between frame and the
// previous frame. The first frame after construction or Reset has no
// baseline and scores math.MaxInt so it never counts as still.
//
// Algorithm:
// 1. Convert frame to grayscale
// 2. Optionally blur to reduce sensor noise
// 3. Absolute difference with the previous frame
// 4. Binary threshold at delta
// 5. Count non-zero pixels
func (m *MotionMeter) Score(frame *gocv.Mat) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return math.MaxInt
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	if m.blurSize > 0 {
		blurred := gocv.NewMat()
		defer blurred.Close()
		gocv.GaussianBlur(gray, &blurred, image.Point{X: m.blurSize, Y: m.blurSize}, 0, 0, gocv.BorderDefault)
		blurred.CopyTo(&gray)
	}

	// A size change (new feed) invalidates the baseline.
	if !m.initialized || m.prevGray.Rows() != gray.Rows() || m.prevGray.Cols() != gray.Cols() {
		gray.CopyTo(&m.prevGray)
		m.initialized = true
		return math.MaxInt
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(gray, m.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, m.delta, 255, gocv.ThresholdBinary)

	changed := gocv.CountNonZero(thresh)

	gray.CopyTo(&m.prevGray)

	return changed
}

// Reset drops the baseline frame.
func (m *MotionMeter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.prevGray.Empty() {
		m.prevGray.Close()
		m.prevGray = gocv.NewMat()
	}
	m.initialized = false
}

// Close releases resources used by the motion meter.
func (m *MotionMeter) Close() {
	m.Reset()
}

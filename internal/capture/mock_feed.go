package capture

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockFeed plays back pre-built frames for testing
type MockFeed struct {
	frames  []*gocv.Mat
	index   int
	loop    bool
	mu      sync.Mutex
	running bool
}

func NewMockFeed(frames []*gocv.Mat, loop bool) *MockFeed {
	return &MockFeed{
		frames: frames,
		loop:   loop,
	}
}

func (c *MockFeed) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = true
	c.index = 0
	return nil
}

func (c *MockFeed) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	return nil
}

func (c *MockFeed) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrCameraNotOpen
	}

	if c.index >= len(c.frames) {
		if c.loop && len(c.frames) > 0 {
			c.index = 0
		} else {
			return nil, ErrNoMoreFrames
		}
	}

	// Clone the frame so the original isn't modified
	frame := c.frames[c.index].Clone()
	c.index++

	return &frame, nil
}

func (c *MockFeed) SetFPS(fps int) {}
func (c *MockFeed) FPS() int       { return DefaultFPS }
func (c *MockFeed) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Played returns how many frames have been read since Open.
func (c *MockFeed) Played() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

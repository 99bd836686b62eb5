package display

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/rpsref/internal/referee"
)

// DefaultTitle is the preview window title.
const DefaultTitle = "Rock Paper Scissors - Live"

// Window is a highgui preview window. It must be used from the goroutine
// that created it.
type Window struct {
	win *gocv.Window
}

// NewWindow opens a preview window.
func NewWindow(title string) *Window {
	if title == "" {
		title = DefaultTitle
	}
	return &Window{win: gocv.NewWindow(title)}
}

// Show displays frame and polls the keyboard for 1ms, returning the
// command bound to the pressed key.
func (w *Window) Show(frame gocv.Mat) referee.Command {
	if !frame.Empty() {
		w.win.IMShow(frame)
	}
	return KeyCommand(w.win.WaitKey(1))
}

// Open reports whether the window is still open.
func (w *Window) Open() bool {
	return w.win.IsOpen()
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.win.Close()
}

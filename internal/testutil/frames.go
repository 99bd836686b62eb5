// Package testutil builds synthetic camera frames for tests.
package testutil

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Default frame size.
const (
	Width  = 640
	Height = 480
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Still returns n identical black frames.
func Still(n int) []*gocv.Mat {
	frames := make([]*gocv.Mat, n)
	for i := range frames {
		m := gocv.NewMatWithSize(Height, Width, gocv.MatTypeCV8UC3)
		frames[i] = &m
	}
	return frames
}

// Moving returns n frames with a white square of side size that moves
// step pixels to the right on every frame, wrapping at the right edge.
func Moving(n, size, step int) []*gocv.Mat {
	frames := make([]*gocv.Mat, n)
	for i := range frames {
		m := gocv.NewMatWithSize(Height, Width, gocv.MatTypeCV8UC3)
		x := (i * step) % (Width - size)
		gocv.Rectangle(&m, image.Rect(x, 100, x+size, 100+size), white, -1)
		frames[i] = &m
	}
	return frames
}

// Close releases every frame.
func Close(frames []*gocv.Mat) {
	for _, f := range frames {
		if f != nil {
			f.Close()
		}
	}
}

package server

import (
	"fmt"
	"net/http"
	"time"
)

// StreamHandler serves the annotated frames as MJPEG.
type StreamHandler struct {
	engine   Engine
	interval time.Duration
}

// NewStreamHandler creates a StreamHandler polling engine every interval.
func NewStreamHandler(engine Engine, interval time.Duration) *StreamHandler {
	return &StreamHandler{engine: engine, interval: interval}
}

// ServeHTTP streams frames until the client disconnects. A frame is only
// written when it differs from the previous one.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var last []byte
	for {
		if jpeg := h.engine.LatestJPEG(); len(jpeg) > 0 && !sameFrame(jpeg, last) {
			fmt.Fprintf(w, "--frame\r\n")
			fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
			fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(jpeg))
			if _, err := w.Write(jpeg); err != nil {
				return
			}
			fmt.Fprintf(w, "\r\n")

			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
			last = jpeg
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

// sameFrame compares slice identity; the loop publishes a fresh slice per
// frame.
func sameFrame(a, b []byte) bool {
	return len(a) == len(b) && len(a) > 0 && &a[0] == &b[0]
}

package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ayusman/phuljhari/internal/app"
)

// streamPollInterval is how often the stream handler checks the frame hub
// for a new frame when none has arrived yet.
const streamPollInterval = 10 * time.Millisecond

// StreamHandler serves the rendered effect frames as an MJPEG stream.
type StreamHandler struct {
	frames *app.FrameHub
}

// NewStreamHandler creates a new StreamHandler fed from the given frame hub.
func NewStreamHandler(frames *app.FrameHub) *StreamHandler {
	return &StreamHandler{frames: frames}
}

// ServeHTTP streams MJPEG frames to connected clients. Each client receives
// every frame at most once; the handler waits for the hub sequence number to
// advance before sending the next part.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var lastSeq uint64

	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		jpeg, seq := h.frames.Latest()
		if jpeg == nil || seq == lastSeq {
			time.Sleep(streamPollInterval)
			continue
		}
		lastSeq = seq

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
	}
}

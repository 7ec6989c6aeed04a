package app

import (
	"sync"

	"github.com/ayusman/phuljhari/internal/spark"
)

// FrameHub hands the latest composited JPEG frame from the pipeline to any
// number of stream consumers. Only the newest frame is kept; consumers that
// fall behind simply skip frames.
type FrameHub struct {
	mu   sync.RWMutex
	jpeg []byte
	seq  uint64
}

// NewFrameHub creates an empty FrameHub.
func NewFrameHub() *FrameHub {
	return &FrameHub{}
}

// Publish stores the newest frame. The hub takes ownership of the slice.
func (h *FrameHub) Publish(jpeg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.jpeg = jpeg
	h.seq++
}

// Latest returns the newest frame and its sequence number. The sequence
// number lets consumers detect that nothing new has arrived. A nil frame
// means nothing has been published yet.
func (h *FrameHub) Latest() ([]byte, uint64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.jpeg, h.seq
}

// EffectState is the per-tick summary broadcast to WebSocket clients.
type EffectState struct {
	Emitters  []spark.EmitterState `json:"emitters"`
	Particles int                  `json:"particles"`
	Flash     float64              `json:"flash"`
	Bursts    int                  `json:"bursts"`
	Recording bool                 `json:"recording"`
	Timestamp int64                `json:"timestamp"`
}

// StateHub hands the latest effect state to the WebSocket broadcaster, with
// the same latest-only semantics as FrameHub.
type StateHub struct {
	mu    sync.RWMutex
	state EffectState
	seq   uint64
}

// NewStateHub creates an empty StateHub.
func NewStateHub() *StateHub {
	return &StateHub{}
}

// Publish stores the newest state.
func (h *StateHub) Publish(state EffectState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = state
	h.seq++
}

// Latest returns the newest state and its sequence number.
func (h *StateHub) Latest() (EffectState, uint64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state, h.seq
}

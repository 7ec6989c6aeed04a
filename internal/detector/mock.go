package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It returns either a fixed set of hands or, when a sequence has been
// queued, one entry from the sequence per Detect call.
type MockDetector struct {
	hands []HandLandmarks
	queue [][]HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by every Detect call.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// QueueHands appends per-frame detection results. While the queue is
// non-empty, each Detect call consumes one entry; afterwards Detect falls
// back to the fixed hands. Useful for driving fingertip motion across a
// sequence of frames.
func (m *MockDetector) QueueHands(frames ...[]HandLandmarks) {
	m.queue = append(m.queue, frames...)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		hands := m.queue[0]
		m.queue = m.queue[1:]
		return hands, nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// HandAt returns a preset HandLandmarks for an open hand centered near the
// normalized point (x, y). The five fingertips are spread slightly around
// the center so each maps to a distinct emitter position.
func HandAt(x, y float64) HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: x, Y: y + 0.15}
	landmarks.Points[MiddleMCP] = Point3D{X: x, Y: y + 0.08}

	// Fingertips fan out above the wrist.
	offsets := [NumFingertips]Point3D{
		{X: -0.08, Y: 0.02}, // thumb
		{X: -0.04, Y: -0.04},
		{X: 0.00, Y: -0.05}, // middle, highest
		{X: 0.04, Y: -0.04},
		{X: 0.08, Y: -0.02}, // pinky
	}
	for i, off := range offsets {
		landmarks.Points[fingertipIndices[i]] = Point3D{X: x + off.X, Y: y + off.Y}
	}

	return landmarks
}

// IndexFingerAt returns a preset HandLandmarks whose index fingertip sits
// exactly at the normalized point (x, y). Handy when a test wants to steer
// a single emitter precisely.
func IndexFingerAt(x, y float64) HandLandmarks {
	landmarks := HandAt(x, y)
	landmarks.Points[IndexTip] = Point3D{X: x, Y: y}
	return landmarks
}

// Package detector provides hand landmark detection for the sparkler effect.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// NumFingertips is the number of fingertip landmarks per hand.
const NumFingertips = 5

// fingertipIndices lists the tip landmarks in anatomical order: thumb,
// index, middle, ring, pinky. The effect keys its emitters by position in
// this list, so the order must stay fixed.
var fingertipIndices = [NumFingertips]int{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}

// Point3D represents a 3D point in space with x, y, z coordinates.
// Coordinates from the detector are normalized to [0, 1] in x and y.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Fingertips extracts the five fingertip landmarks in anatomical order
// (thumb, index, middle, ring, pinky).
func (h *HandLandmarks) Fingertips() [NumFingertips]Point3D {
	var tips [NumFingertips]Point3D
	for i, idx := range fingertipIndices {
		tips[i] = h.Points[idx]
	}
	return tips
}

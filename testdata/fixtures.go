// Package testdata provides synthetic video frames for tests, so no binary
// fixtures need to be checked in.
package testdata

import (
	"image/color"

	"gocv.io/x/gocv"
)

// SolidFrame builds a single-color BGR frame of the given size.
// The caller owns the returned Mat and must close it.
func SolidFrame(width, height int, c color.RGBA) gocv.Mat {
	scalar := gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), 0)
	return gocv.NewMatWithSizeFromScalar(scalar, height, width, gocv.MatTypeCV8UC3)
}

// BlackFrame builds an all-zero BGR frame of the given size.
func BlackFrame(width, height int) gocv.Mat {
	return gocv.Zeros(height, width, gocv.MatTypeCV8UC3)
}

// FrameSequence builds n identical black frames, for driving mock cameras.
// The caller must close every returned Mat.
func FrameSequence(width, height, n int) []*gocv.Mat {
	frames := make([]*gocv.Mat, n)
	for i := range frames {
		m := BlackFrame(width, height)
		frames[i] = &m
	}
	return frames
}

// CloseFrames closes every Mat in frames.
func CloseFrames(frames []*gocv.Mat) {
	for _, f := range frames {
		f.Close()
	}
}

// Package cymatics renders radial interference patterns.
//
// A point at distance d from the center of the surface is lit when |sin(f·0.001·d − t)| is
// below a fixed threshold, which draws concentric fringes that travel outwards as t grows.
// Both the animated loop and the still image evaluate the same 600×600 grid through Evaluate,
// so a still frame always shows the points the animation shows at t = 0.
package cymatics

import (
	"image/color"
	"math"

	"github.com/pkg/errors"
)

const (
	// GridSize is the number of grid points along each axis, whatever the surface size.
	GridSize = 600

	// Threshold is the largest |value| of a lit point.
	Threshold = 0.05

	// FrequencyScale converts a frequency in Hz into radians per unit of distance.
	FrequencyScale = 0.001

	// SpeedScale converts a wave speed into the time step between animation frames.
	SpeedScale = 0.05
)

// ErrInvalidSurface is returned for surfaces without a positive width and height.
var ErrInvalidSurface = errors.New("cymatics: surface dimensions must be positive")

// Params drive both the animated and the still rendering.
type Params struct {
	Frequency float64 // Hz, sets the spacing of the fringes
	WaveSpeed float64 // how far the fringes travel per frame
	Color     color.RGBA
}

// Step returns how much t advances between two animation frames.
func (p Params) Step() float64 {
	return p.WaveSpeed * SpeedScale
}

// Value is the interference value at distance d from the center at time t.
func Value(freq, d, t float64) float64 {
	return math.Sin(freq*FrequencyScale*d - t)
}

// Lit reports whether a point at distance d from the center is drawn at time t.
func Lit(freq, d, t float64) bool {
	return math.Abs(Value(freq, d, t)) < Threshold
}

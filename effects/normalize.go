package effects

import (
	"math"

	"github.com/kyma-sound/kyma"
)

// Peak returns the largest absolute sample value across both channels of b.
func Peak(b *kyma.Buffer) float64 {
	peak := 0.0
	for _, s := range b.Samples() {
		if a := math.Abs(s[0]); a > peak {
			peak = a
		}
		if a := math.Abs(s[1]); a > peak {
			peak = a
		}
	}
	return peak
}

// Normalize divides every sample of b by its peak if the peak exceeds 1, so that the loudest
// sample of either channel lands exactly on full scale. Both channels share one divisor.
// Buffers already within [-1, 1] are left untouched.
//
// It returns the peak measured before normalization.
func Normalize(b *kyma.Buffer) (peak float64) {
	peak = Peak(b)
	if peak <= 1 {
		return peak
	}
	samples := b.Samples()
	for i := range samples {
		samples[i][0] /= peak
		samples[i][1] /= peak
	}
	return peak
}

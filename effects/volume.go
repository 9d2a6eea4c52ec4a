package effects

import "github.com/kyma-sound/kyma"

// Volume scales both channels of the wrapped Streamer by a linear Gain. Silent mutes it
// regardless of Gain.
type Volume struct {
	Streamer kyma.Streamer
	Gain     float64
	Silent   bool
}

// Stream streams the wrapped Streamer scaled by Gain.
func (v *Volume) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = v.Streamer.Stream(samples)
	gain := v.Gain
	if v.Silent {
		gain = 0
	}
	for i := range samples[:n] {
		samples[i][0] *= gain
		samples[i][1] *= gain
	}
	return n, ok
}

// Err propagates the wrapped Streamer's errors.
func (v *Volume) Err() error {
	return v.Streamer.Err()
}

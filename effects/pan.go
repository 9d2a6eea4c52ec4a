package effects

import (
	"math"

	"github.com/kyma-sound/kyma"
)

// Pan weights the wrapped Streamer's channels with a linear pan law: the left channel is
// multiplied by 1-|Pan| and the right channel by 1+|Pan|. A Pan of 0 changes nothing; a Pan
// of ±1 silences the left channel and doubles the right one. The law is not constant-power and
// the boost is not capped, so the result may exceed [-1, 1].
type Pan struct {
	Streamer kyma.Streamer
	Pan      float64
}

// Stream streams the wrapped Streamer weighted by Pan.
func (p *Pan) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = p.Streamer.Stream(samples)
	left, right := Weights(p.Pan)
	for i := range samples[:n] {
		samples[i][0] *= left
		samples[i][1] *= right
	}
	return n, ok
}

// Err propagates the wrapped Streamer's errors.
func (p *Pan) Err() error {
	return p.Streamer.Err()
}

// Weights returns the left and right channel gains of the linear pan law.
func Weights(pan float64) (left, right float64) {
	a := math.Abs(pan)
	return 1 - a, 1 + a
}

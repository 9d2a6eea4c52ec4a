package generators

import (
	"math"

	"github.com/kyma-sound/kyma"
	"github.com/pkg/errors"
)

// Time is measured from the first streamed sample: sample i is evaluated at i/sr seconds, so
// every generator of the same sample rate shares one time axis.
type toneGenerator struct {
	sr          float64
	left, right func(t float64) float64
	i           int
}

// Tone creates a streamer which will produce an infinite tone of the given waveform and
// frequency on both channels. Use other wrappers to change amplitude or add a time limit.
// sampleRate must be more than two times greater than frequency, otherwise this function will
// return an error.
func Tone(sr kyma.SampleRate, w Waveform, freq float64) (kyma.Streamer, error) {
	if err := checkTone(sr, w, freq); err != nil {
		return nil, err
	}
	wave := func(t float64) float64 { return w.At(freq, t) }
	return &toneGenerator{sr: float64(sr), left: wave, right: wave}, nil
}

// Binaural creates a streamer which plays the waveform at base on the left channel and at
// base+beat on the right channel. The beat itself is never synthesized; it is the difference
// between the two ears.
func Binaural(sr kyma.SampleRate, w Waveform, base, beat float64) (kyma.Streamer, error) {
	if err := checkTone(sr, w, base); err != nil {
		return nil, errors.Wrap(err, "left channel")
	}
	if err := checkTone(sr, w, base+beat); err != nil {
		return nil, errors.Wrap(err, "right channel")
	}
	return &toneGenerator{
		sr:    float64(sr),
		left:  func(t float64) float64 { return w.At(base, t) },
		right: func(t float64) float64 { return w.At(base+beat, t) },
	}, nil
}

// Isochronic creates a streamer which produces the same pulse on both channels at the given
// rate: a symmetric triangle (SawtoothAt with width 0.5) swinging between -1 and 1.
func Isochronic(sr kyma.SampleRate, rate float64) (kyma.Streamer, error) {
	if err := checkTone(sr, Sawtooth, rate); err != nil {
		return nil, errors.Wrap(err, "isochronic")
	}
	pulse := func(t float64) float64 { return SawtoothAt(2*math.Pi*rate*t, 0.5) }
	return &toneGenerator{sr: float64(sr), left: pulse, right: pulse}, nil
}

func (g *toneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.i) / g.sr
		samples[i][0] = g.left(t)
		samples[i][1] = g.right(t)
		g.i++
	}
	return len(samples), true
}

func (*toneGenerator) Err() error {
	return nil
}

func checkTone(sr kyma.SampleRate, w Waveform, freq float64) error {
	if !w.Valid() {
		return errors.Errorf("generators: unknown waveform %d", int(w))
	}
	if sr <= 0 {
		return errors.Errorf("generators: invalid sample rate %d", sr)
	}
	if !(freq > 0) {
		return errors.Errorf("generators: frequency must be positive, got %v", freq)
	}
	if freq/float64(sr) >= 1.0/2.0 {
		return errors.Errorf("generators: samplerate %d must be more than 2 times greater than frequency %v", sr, freq)
	}
	return nil
}

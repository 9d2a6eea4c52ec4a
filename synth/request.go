// Package synth renders binaural-beat clips: a binaural pair of tones, an isochronic pulse at
// the beat rate and an optional ambience bed, mixed and normalized into 16-bit stereo WAV.
package synth

import (
	"math"

	"github.com/kyma-sound/kyma"
	"github.com/kyma-sound/kyma/generators"
	"github.com/pkg/errors"
)

// SampleRate is the fixed rate of every rendered clip.
const SampleRate kyma.SampleRate = 44100

// Filename is the conventional name of the downloadable clip.
const Filename = "binaural_beats.wav"

// Format is the format rendered clips are encoded in.
var Format = kyma.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2}

// MaxFrames is the longest clip whose WAVE encoding still fits the 32-bit chunk sizes.
const MaxFrames = (math.MaxInt32 - 44) / 4

var (
	ErrNonPositiveFrequency = errors.New("synth: base and beat frequency must be positive")
	ErrNonPositiveDuration  = errors.New("synth: duration must be positive")
	ErrOutOfRange           = errors.New("synth: parameter out of range")
	ErrUnknownWaveform      = errors.New("synth: unknown waveform")
)

// Request describes one clip. The zero Bed means no ambience.
type Request struct {
	BaseFreq float64 // Hz, played on the left channel
	BeatFreq float64 // Hz, added to BaseFreq on the right channel and used as the pulse rate
	Waveform generators.Waveform
	Duration float64 // seconds
	Volume   float64 // linear, [0, 1]
	Panning  float64 // [-1, 1]

	// Bed is looped under the clip at BedGain. It must be at SampleRate.
	Bed     *kyma.Buffer
	BedGain float64
}

// Frames returns the number of stereo samples the clip of r lasts.
func (r Request) Frames() int {
	return int(math.Round(float64(SampleRate) * r.Duration))
}

// IsValidation reports whether err rejects a request rather than reporting a failure to render
// or encode it.
func IsValidation(err error) bool {
	return errors.Is(err, ErrNonPositiveFrequency) ||
		errors.Is(err, ErrNonPositiveDuration) ||
		errors.Is(err, ErrOutOfRange) ||
		errors.Is(err, ErrUnknownWaveform)
}

// Validate checks r without rendering anything.
func (r Request) Validate() error {
	if !(r.BaseFreq > 0) || !(r.BeatFreq > 0) {
		return errors.Wrapf(ErrNonPositiveFrequency, "base %v Hz, beat %v Hz", r.BaseFreq, r.BeatFreq)
	}
	if !r.Waveform.Valid() {
		return errors.Wrapf(ErrUnknownWaveform, "%v", r.Waveform)
	}
	if !(r.Duration > 0) {
		return errors.Wrapf(ErrNonPositiveDuration, "%v s", r.Duration)
	}
	if r.Duration > float64(MaxFrames)/float64(SampleRate) {
		return errors.Wrapf(ErrOutOfRange, "duration %v s exceeds the limit of %v s",
			r.Duration, float64(MaxFrames)/float64(SampleRate))
	}
	if r.Frames() < 1 {
		return errors.Wrapf(ErrNonPositiveDuration, "%v s is shorter than one sample", r.Duration)
	}
	if !inRange(r.Volume, 0, 1) {
		return errors.Wrapf(ErrOutOfRange, "volume %v not in [0, 1]", r.Volume)
	}
	if !inRange(r.Panning, -1, 1) {
		return errors.Wrapf(ErrOutOfRange, "panning %v not in [-1, 1]", r.Panning)
	}
	if !inRange(r.BedGain, 0, 1) {
		return errors.Wrapf(ErrOutOfRange, "bed gain %v not in [0, 1]", r.BedGain)
	}
	if nyquist := float64(SampleRate) / 2; r.BaseFreq+r.BeatFreq >= nyquist {
		return errors.Wrapf(ErrOutOfRange, "%v Hz on the right channel reaches the Nyquist frequency %v Hz",
			r.BaseFreq+r.BeatFreq, nyquist)
	}
	if r.Bed != nil && r.Bed.Format().SampleRate != SampleRate {
		return errors.Wrapf(ErrOutOfRange, "bed sample rate %d, want %d", r.Bed.Format().SampleRate, SampleRate)
	}
	return nil
}

func inRange(x, min, max float64) bool {
	return x >= min && x <= max
}

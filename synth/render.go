package synth

import (
	"io"

	"github.com/kyma-sound/kyma"
	"github.com/kyma-sound/kyma/effects"
	"github.com/kyma-sound/kyma/generators"
	"github.com/kyma-sound/kyma/wav"
	"github.com/pkg/errors"
)

// Report summarizes a rendered clip.
type Report struct {
	Frames     int
	Peak       float64 // largest absolute sample before normalization
	Normalized bool    // whether the clip was scaled down by Peak
}

// Clip is a rendered, normalized stereo clip at SampleRate.
type Clip struct {
	buf    *kyma.Buffer
	Report Report
}

// Buffer returns the samples of the clip. Every sample is within [-1, 1].
func (c *Clip) Buffer() *kyma.Buffer {
	return c.buf
}

// Streamer returns a fresh StreamSeeker over the whole clip.
func (c *Clip) Streamer() kyma.StreamSeeker {
	return c.buf.Streamer(0, c.buf.Len())
}

// EncodeWAV writes the clip to w as 16-bit stereo PCM WAV.
func (c *Clip) EncodeWAV(w io.Writer) error {
	return errors.Wrap(wav.Encode(w, c.Streamer(), Format), "synth")
}

// Render validates r and computes its clip.
//
// The left channel is the waveform at r.BaseFreq and the right one at r.BaseFreq+r.BeatFreq,
// both scaled by r.Volume and weighted by the linear pan law. A triangular pulse at r.BeatFreq,
// scaled by r.Volume, is added to both channels, and the bed, if any, is looped underneath at
// r.BedGain. If the loudest sample of the mix exceeds full scale the whole clip is divided by it.
func Render(r Request) (*Clip, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	binaural, err := generators.Binaural(SampleRate, r.Waveform, r.BaseFreq, r.BeatFreq)
	if err != nil {
		return nil, errors.Wrap(err, "synth")
	}
	pulse, err := generators.Isochronic(SampleRate, r.BeatFreq)
	if err != nil {
		return nil, errors.Wrap(err, "synth")
	}

	layers := []kyma.Streamer{
		&effects.Pan{
			Streamer: &effects.Volume{Streamer: binaural, Gain: r.Volume},
			Pan:      r.Panning,
		},
		&effects.Volume{Streamer: pulse, Gain: r.Volume},
	}
	if r.Bed != nil && r.Bed.Len() > 0 && r.BedGain > 0 {
		layers = append(layers, &effects.Volume{
			Streamer: kyma.Loop(-1, r.Bed.Streamer(0, r.Bed.Len())),
			Gain:     r.BedGain,
		})
	}

	buf := kyma.NewBuffer(Format)
	buf.Append(kyma.Take(r.Frames(), kyma.Mix(layers...)))
	peak := effects.Normalize(buf)
	return &Clip{
		buf: buf,
		Report: Report{
			Frames:     buf.Len(),
			Peak:       peak,
			Normalized: peak > 1,
		},
	}, nil
}

// Generate renders r and writes it to w as WAV. Nothing is written if r is invalid.
func Generate(w io.Writer, r Request) (Report, error) {
	clip, err := Render(r)
	if err != nil {
		return Report{}, err
	}
	if err := clip.EncodeWAV(w); err != nil {
		return Report{}, err
	}
	return clip.Report, nil
}

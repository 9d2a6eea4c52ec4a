package bed

import (
	"io"

	"github.com/jfreymuth/oggvorbis"
	"github.com/kyma-sound/kyma"
	"github.com/pkg/errors"
)

func decodeVorbis(r io.Reader) (kyma.Streamer, kyma.Format, error) {
	d, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, kyma.Format{}, errors.Wrap(err, "ogg/vorbis")
	}
	if d.Channels() < 1 {
		return nil, kyma.Format{}, errors.Errorf("ogg/vorbis: invalid number of channels: %d", d.Channels())
	}
	format := kyma.Format{
		SampleRate:  kyma.SampleRate(d.SampleRate()),
		NumChannels: 2,
		Precision:   2,
	}
	return &vorbisDecoder{d: d, channels: d.Channels()}, format, nil
}

type vorbisDecoder struct {
	d        *oggvorbis.Reader
	channels int
	tmp      []float32
	err      error
	eof      bool
}

func (d *vorbisDecoder) Stream(samples [][2]float64) (n int, ok bool) {
	if d.err != nil || d.eof {
		return 0, false
	}
	if need := len(samples) * d.channels; cap(d.tmp) < need {
		d.tmp = make([]float32, need)
	}
	for n < len(samples) {
		dn, err := d.d.Read(d.tmp[:(len(samples)-n)*d.channels])
		// the reader only returns whole frames
		for i := 0; i+d.channels <= dn; i += d.channels {
			left := float64(d.tmp[i])
			right := left
			if d.channels > 1 {
				right = float64(d.tmp[i+1])
			}
			samples[n] = [2]float64{left, right}
			n++
		}
		if err == io.EOF {
			d.eof = true
			break
		}
		if err != nil {
			d.err = errors.Wrap(err, "ogg/vorbis")
			break
		}
		if dn == 0 {
			break
		}
	}
	return n, n > 0
}

func (d *vorbisDecoder) Err() error {
	return d.err
}

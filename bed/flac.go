package bed

import (
	"io"

	"github.com/kyma-sound/kyma"
	"github.com/mewkiz/flac"
	"github.com/pkg/errors"
)

func decodeFLAC(r io.Reader) (kyma.Streamer, kyma.Format, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, kyma.Format{}, errors.Wrap(err, "flac")
	}
	bps := int(stream.Info.BitsPerSample)
	if bps < 4 || bps > 32 || stream.Info.NChannels < 1 {
		return nil, kyma.Format{}, errors.Errorf("flac: unsupported stream: %d bits per sample, %d channels",
			bps, stream.Info.NChannels)
	}
	format := kyma.Format{
		SampleRate:  kyma.SampleRate(stream.Info.SampleRate),
		NumChannels: int(stream.Info.NChannels),
		Precision:   (bps + 7) / 8,
	}
	return &flacDecoder{stream: stream, q: 1 / float64(int64(1)<<(bps-1))}, format, nil
}

type flacDecoder struct {
	stream *flac.Stream
	q      float64 // scale from integer samples to [-1, 1]
	buf    [][2]float64
	err    error
	eof    bool
}

func (d *flacDecoder) Stream(samples [][2]float64) (n int, ok bool) {
	if d.err != nil {
		return 0, false
	}
	for n < len(samples) {
		if len(d.buf) == 0 {
			if d.eof {
				break
			}
			if err := d.refill(); err != nil {
				if err == io.EOF {
					d.eof = true
				} else {
					d.err = errors.Wrap(err, "flac")
				}
				break
			}
		}
		c := copy(samples[n:], d.buf)
		d.buf = d.buf[c:]
		n += c
	}
	return n, n > 0
}

// refill decodes the next audio frame into the buffer.
func (d *flacDecoder) refill() error {
	frame, err := d.stream.ParseNext()
	if err != nil {
		return err
	}
	left := frame.Subframes[0].Samples
	right := left
	if len(frame.Subframes) > 1 {
		right = frame.Subframes[1].Samples
	}
	if cap(d.buf) < len(left) {
		d.buf = make([][2]float64, len(left))
	}
	d.buf = d.buf[:len(left)]
	for i := range d.buf {
		d.buf[i] = [2]float64{float64(left[i]) * d.q, float64(right[i]) * d.q}
	}
	return nil
}

func (d *flacDecoder) Err() error {
	return d.err
}

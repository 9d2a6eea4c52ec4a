package bed

import (
	"io"

	"github.com/hajimehoshi/go-mp3"
	"github.com/kyma-sound/kyma"
	"github.com/kyma-sound/kyma/pcm"
	"github.com/pkg/errors"
)

// go-mp3 always produces 16-bit little-endian stereo.
const (
	mp3NumChannels = 2
	mp3Precision   = 2
)

func decodeMP3(r io.Reader) (kyma.Streamer, kyma.Format, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, kyma.Format{}, errors.Wrap(err, "mp3")
	}
	format := kyma.Format{
		SampleRate:  kyma.SampleRate(d.SampleRate()),
		NumChannels: mp3NumChannels,
		Precision:   mp3Precision,
	}
	return pcm.Decode(d, format), format, nil
}

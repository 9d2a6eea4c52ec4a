// Package pcm encodes and decodes headerless little-endian PCM audio.
package pcm

import (
	"bufio"
	"io"

	"github.com/kyma-sound/kyma"
	"github.com/pkg/errors"
)

// Encode writes all audio streamed from s to w in raw interleaved PCM format. Precision 1 is
// written unsigned, wider precisions signed, matching WAVE conventions.
func Encode(w io.Writer, s kyma.Streamer, format kyma.Format) error {
	var (
		bw      = bufio.NewWriter(w)
		samples = make([][2]float64, 512)
		buffer  = make([]byte, len(samples)*format.Width())
	)
	for {
		n, ok := s.Stream(samples)
		var offset int
		for _, sample := range samples[:n] {
			if format.Precision == 1 {
				offset += format.EncodeUnsigned(buffer[offset:], sample)
			} else {
				offset += format.EncodeSigned(buffer[offset:], sample)
			}
		}
		if _, err := bw.Write(buffer[:offset]); err != nil {
			return errors.Wrap(err, "pcm")
		}
		if !ok {
			break
		}
	}
	if err := s.Err(); err != nil {
		return errors.Wrap(err, "pcm")
	}
	return errors.Wrap(bw.Flush(), "pcm")
}

package pcm

import (
	"io"

	"github.com/kyma-sound/kyma"
	"github.com/pkg/errors"
)

// Decode takes a Reader containing audio data in raw PCM format and returns a Streamer,
// which streams that audio.
func Decode(r io.Reader, format kyma.Format) kyma.Streamer {
	return &stream{
		r:   r,
		f:   format,
		buf: make([]byte, 512*format.Width()),
	}
}

type stream struct {
	r   io.Reader
	f   kyma.Format
	buf []byte
	len int
	pos int
	err error
}

func (s *stream) Err() error { return s.err }

func (s *stream) Stream(samples [][2]float64) (n int, ok bool) {
	if s.err != nil {
		return 0, false
	}
	width := s.f.Width()
	// a partial sample stays at the front of the buffer until the rest of it arrives
	if size := s.len - s.pos; size < width {
		copy(s.buf, s.buf[s.pos:s.len])
		s.len = size
		s.pos = 0
		nbytes, err := s.r.Read(s.buf[s.len:])
		s.len += nbytes
		if err != nil && err != io.EOF {
			s.err = errors.Wrap(err, "pcm")
			return 0, false
		}
		if nbytes == 0 && err == io.EOF {
			return 0, false
		}
	}
	for n < len(samples) && s.len-s.pos >= width {
		if s.f.Precision == 1 {
			samples[n], _ = s.f.DecodeUnsigned(s.buf[s.pos:])
		} else {
			samples[n], _ = s.f.DecodeSigned(s.buf[s.pos:])
		}
		n++
		s.pos += width
	}
	return n, true
}

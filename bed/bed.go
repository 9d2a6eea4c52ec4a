// Package bed loads ambience recordings which are mixed under a synthesized clip.
//
// A bed is decoded completely into memory and resampled to the rate of the clip, so the
// synthesis pipeline can loop it with kyma.Loop.
package bed

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kyma-sound/kyma"
	"github.com/kyma-sound/kyma/wav"
	"github.com/pkg/errors"
)

// ResampleQuality is the Lagrange quality used when a bed's sample rate differs from the target.
const ResampleQuality = 4

// ErrUnsupportedFormat is returned for files whose extension names no known codec.
var ErrUnsupportedFormat = errors.New("bed: unsupported format")

// Open decodes the file at path, choosing the codec by extension (.wav, .mp3, .ogg, .flac),
// and returns its audio resampled to sr.
func Open(path string, sr kyma.SampleRate) (*kyma.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "bed")
	}
	defer f.Close()
	b, err := Decode(f, filepath.Ext(path), sr)
	if err != nil {
		return nil, errors.Wrapf(err, "bed: %s", filepath.Base(path))
	}
	return b, nil
}

// Decode reads r in the format named by ext and returns the decoded audio resampled to sr.
func Decode(r io.Reader, ext string, sr kyma.SampleRate) (*kyma.Buffer, error) {
	var (
		s      kyma.Streamer
		format kyma.Format
		err    error
	)
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "wav", "wave":
		s, format, err = wav.Decode(r)
	case "mp3":
		s, format, err = decodeMP3(r)
	case "ogg", "oga":
		s, format, err = decodeVorbis(r)
	case "flac":
		s, format, err = decodeFLAC(r)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", ext)
	}
	if err != nil {
		return nil, err
	}
	return load(s, format, sr)
}

func load(s kyma.Streamer, format kyma.Format, sr kyma.SampleRate) (*kyma.Buffer, error) {
	if format.SampleRate != sr {
		s = kyma.Resample(ResampleQuality, format.SampleRate, sr, s)
		format.SampleRate = sr
	}
	b := kyma.NewBuffer(format)
	b.Append(s)
	if err := s.Err(); err != nil {
		return nil, err
	}
	if b.Len() == 0 {
		return nil, errors.New("bed: no audio")
	}
	return b, nil
}

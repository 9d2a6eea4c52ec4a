package wav

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/kyma-sound/kyma"
	"github.com/pkg/errors"
)

const (
	headerSize = 44
	formatPCM  = 1
)

// header is the canonical 44-byte RIFF/WAVE PCM header.
type header struct {
	RiffMark      [4]byte
	FileSize      int32
	WaveMark      [4]byte
	FmtMark       [4]byte
	FormatSize    int32
	FormatType    int16
	NumChans      int16
	SampleRate    int32
	ByteRate      int32
	BytesPerFrame int16
	BitsPerSample int16
	DataMark      [4]byte
	DataSize      int32
}

type chunkHeader struct {
	ID   [4]byte
	Size int32
}

type fmtChunk struct {
	FormatType    int16
	NumChans      int16
	SampleRate    int32
	ByteRate      int32
	BytesPerFrame int16
	BitsPerSample int16
}

// Decode takes a Reader containing audio data in WAVE format and returns a Streamer which
// streams that audio, together with its format. Chunks other than "fmt " and "data" are
// skipped. Only integer PCM with 8, 16 or 24 bits per sample is supported.
func Decode(r io.Reader) (s kyma.Streamer, format kyma.Format, err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "wav")
		}
	}()

	br := bufio.NewReader(r)
	var riff struct {
		RiffMark [4]byte
		FileSize int32
		WaveMark [4]byte
	}
	if err := binary.Read(br, binary.LittleEndian, &riff); err != nil {
		return nil, kyma.Format{}, err
	}
	if string(riff.RiffMark[:]) != "RIFF" {
		return nil, kyma.Format{}, errors.New("missing RIFF at the beginning")
	}
	if string(riff.WaveMark[:]) != "WAVE" {
		return nil, kyma.Format{}, errors.New("unsupported file type")
	}

	var (
		fc     fmtChunk
		haveFC bool
	)
	for {
		var ch chunkHeader
		if err := binary.Read(br, binary.LittleEndian, &ch); err != nil {
			if err == io.EOF {
				return nil, kyma.Format{}, errors.New("missing data chunk")
			}
			return nil, kyma.Format{}, err
		}
		if ch.Size < 0 {
			return nil, kyma.Format{}, errors.Errorf("invalid %q chunk size %d", ch.ID[:], ch.Size)
		}
		switch string(ch.ID[:]) {
		case "fmt ":
			if ch.Size < 16 {
				return nil, kyma.Format{}, errors.Errorf("format chunk too short (%d bytes)", ch.Size)
			}
			if err := binary.Read(br, binary.LittleEndian, &fc); err != nil {
				return nil, kyma.Format{}, err
			}
			if err := skip(br, int64(ch.Size)-16+int64(ch.Size&1)); err != nil {
				return nil, kyma.Format{}, err
			}
			haveFC = true
		case "data":
			if !haveFC {
				return nil, kyma.Format{}, errors.New("data chunk before format chunk")
			}
			format, err := checkFormat(fc)
			if err != nil {
				return nil, kyma.Format{}, err
			}
			return &decoder{r: br, f: format, remains: int64(ch.Size)}, format, nil
		default:
			if err := skip(br, int64(ch.Size)+int64(ch.Size&1)); err != nil {
				return nil, kyma.Format{}, err
			}
		}
	}
}

func checkFormat(fc fmtChunk) (kyma.Format, error) {
	if fc.FormatType != formatPCM {
		return kyma.Format{}, errors.Errorf("unsupported format type %d", fc.FormatType)
	}
	if fc.NumChans <= 0 {
		return kyma.Format{}, errors.New("invalid number of channels (less than 1)")
	}
	if fc.BitsPerSample != 8 && fc.BitsPerSample != 16 && fc.BitsPerSample != 24 {
		return kyma.Format{}, errors.New("unsupported number of bits per sample, 8, 16 or 24 are supported")
	}
	if fc.SampleRate <= 0 {
		return kyma.Format{}, errors.Errorf("invalid sample rate %d", fc.SampleRate)
	}
	return kyma.Format{
		SampleRate:  kyma.SampleRate(fc.SampleRate),
		NumChannels: int(fc.NumChans),
		Precision:   int(fc.BitsPerSample / 8),
	}, nil
}

func skip(r io.Reader, n int64) error {
	if n <= 0 {
		return nil
	}
	_, err := io.CopyN(io.Discard, r, n)
	return err
}

type decoder struct {
	r       io.Reader
	f       kyma.Format
	remains int64
	buf     []byte
	err     error
}

func (d *decoder) Stream(samples [][2]float64) (n int, ok bool) {
	width := d.f.Width()
	if d.err != nil || d.remains < int64(width) {
		return 0, false
	}
	want := int64(len(samples) * width)
	if want > d.remains {
		want = d.remains - d.remains%int64(width)
	}
	if int64(cap(d.buf)) < want {
		d.buf = make([]byte, want)
	}
	p := d.buf[:want]
	read, err := io.ReadFull(d.r, p)
	if err != nil {
		if err != io.EOF && err != io.ErrUnexpectedEOF {
			d.err = errors.Wrap(err, "wav")
		}
		d.remains = 0
	} else {
		d.remains -= int64(read)
	}
	for ; (n+1)*width <= read; n++ {
		if d.f.Precision == 1 {
			samples[n], _ = d.f.DecodeUnsigned(p[n*width:])
		} else {
			samples[n], _ = d.f.DecodeSigned(p[n*width:])
		}
	}
	return n, n > 0
}

func (d *decoder) Err() error {
	return d.err
}

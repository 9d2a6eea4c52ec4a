package wav

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/kyma-sound/kyma"
	"github.com/kyma-sound/kyma/pcm"
	"github.com/pkg/errors"
)

// Encode writes all audio streamed from s to w in WAVE format.
//
// Format precision must be 1, 2 or 3 bytes. The whole stream is encoded before anything is
// written, so w receives either a complete file or nothing but the error.
func Encode(w io.Writer, s kyma.Streamer, format kyma.Format) (err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "wav")
		}
	}()

	if format.NumChannels <= 0 {
		return errors.New("invalid number of channels (less than 1)")
	}
	if format.Precision != 1 && format.Precision != 2 && format.Precision != 3 {
		return errors.New("unsupported precision, 1, 2 or 3 is supported")
	}
	if format.SampleRate <= 0 {
		return errors.Errorf("invalid sample rate %d", format.SampleRate)
	}

	var data bytes.Buffer
	if err := pcm.Encode(&data, s, format); err != nil {
		return err
	}
	if data.Len() > math.MaxInt32-headerSize {
		return errors.Errorf("%d bytes of audio exceed the WAVE size limit", data.Len())
	}

	h := header{
		RiffMark:      [4]byte{'R', 'I', 'F', 'F'},
		FileSize:      int32(headerSize - 8 + data.Len()),
		WaveMark:      [4]byte{'W', 'A', 'V', 'E'},
		FmtMark:       [4]byte{'f', 'm', 't', ' '},
		FormatSize:    16,
		FormatType:    formatPCM,
		NumChans:      int16(format.NumChannels),
		SampleRate:    int32(format.SampleRate),
		ByteRate:      int32(int(format.SampleRate) * format.Width()),
		BytesPerFrame: int16(format.Width()),
		BitsPerSample: int16(format.Precision) * 8,
		DataMark:      [4]byte{'d', 'a', 't', 'a'},
		DataSize:      int32(data.Len()),
	}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return err
	}
	if _, err := data.WriteTo(w); err != nil {
		return err
	}
	return nil
}

package kyma

import (
	"fmt"
	"time"
)

// SampleRate is the number of samples per second.
type SampleRate int

// D returns the duration of n samples.
func (sr SampleRate) D(n int) time.Duration {
	return time.Second * time.Duration(n) / time.Duration(sr)
}

// N returns the number of samples that last for d duration.
func (sr SampleRate) N(d time.Duration) int {
	return int(d * time.Duration(sr) / time.Second)
}

// Format is the format of a Buffer or another audio source.
type Format struct {
	// SampleRate is the number of samples per second.
	SampleRate SampleRate

	// NumChannels is the number of channels. The value of 1 is mono, the value of 2 is stereo.
	// The samples should always be interleaved.
	NumChannels int

	// Precision is the number of bytes used to encode a single sample.
	Precision int
}

// Width returns the number of bytes per one sample (all channels).
//
// This is equal to f.NumChannels * f.Precision.
func (f Format) Width() int {
	return f.NumChannels * f.Precision
}

// EncodeSigned encodes a single sample in f.Width() bytes to p in signed little-endian format.
func (f Format) EncodeSigned(p []byte, sample [2]float64) (n int) {
	return f.encode(true, p, sample)
}

// EncodeUnsigned encodes a single sample in f.Width() bytes to p in unsigned little-endian format.
func (f Format) EncodeUnsigned(p []byte, sample [2]float64) (n int) {
	return f.encode(false, p, sample)
}

// DecodeSigned decodes a single sample encoded in f.Width() bytes from p in signed format.
func (f Format) DecodeSigned(p []byte) (sample [2]float64, n int) {
	return f.decode(true, p)
}

// DecodeUnsigned decodes a single sample encoded in f.Width() bytes from p in unsigned format.
func (f Format) DecodeUnsigned(p []byte) (sample [2]float64, n int) {
	return f.decode(false, p)
}

func (f Format) encode(signed bool, p []byte, sample [2]float64) (n int) {
	switch {
	case f.NumChannels == 1:
		x := clamp((sample[0] + sample[1]) / 2)
		p = p[encodeFloat(signed, p, f.Precision, x):]
	case f.NumChannels >= 2:
		for c := range sample {
			x := clamp(sample[c])
			p = p[encodeFloat(signed, p, f.Precision, x):]
		}
		for c := len(sample); c < f.NumChannels; c++ {
			p = p[encodeFloat(signed, p, f.Precision, 0):]
		}
	default:
		panic(fmt.Errorf("format: encode: invalid number of channels: %d", f.NumChannels))
	}
	return f.Width()
}

func (f Format) decode(signed bool, p []byte) (sample [2]float64, n int) {
	switch {
	case f.NumChannels == 1:
		x, _ := decodeFloat(signed, p, f.Precision)
		return [2]float64{x, x}, f.Width()
	case f.NumChannels >= 2:
		for c := range sample {
			x, n := decodeFloat(signed, p, f.Precision)
			sample[c] = x
			p = p[n:]
		}
		// extra channels are skipped
		return sample, f.Width()
	default:
		panic(fmt.Errorf("format: decode: invalid number of channels: %d", f.NumChannels))
	}
}

func encodeFloat(signed bool, p []byte, precision int, x float64) (n int) {
	var bits uint64
	if signed {
		bits = floatToSigned(precision, x)
	} else {
		bits = floatToUnsigned(precision, x)
	}
	for i := 0; i < precision; i++ {
		p[i] = byte(bits)
		bits >>= 8
	}
	return precision
}

func decodeFloat(signed bool, p []byte, precision int) (x float64, n int) {
	var bits uint64
	for i := precision - 1; i >= 0; i-- {
		bits <<= 8
		bits |= uint64(p[i])
	}
	if signed {
		return signedToFloat(precision, bits), precision
	}
	return unsignedToFloat(precision, bits), precision
}

func signedMax(precision int) float64 {
	return float64(uint64(1)<<uint(precision*8-1) - 1)
}

func unsignedMax(precision int) float64 {
	return float64(uint64(1)<<uint(precision*8) - 1)
}

func floatToSigned(precision int, x float64) uint64 {
	return uint64(int64(x * signedMax(precision)))
}

func floatToUnsigned(precision int, x float64) uint64 {
	return uint64((x + 1) / 2 * unsignedMax(precision))
}

func signedToFloat(precision int, bits uint64) float64 {
	shift := uint(64 - precision*8)
	return float64(int64(bits<<shift)>>shift) / signedMax(precision)
}

func unsignedToFloat(precision int, bits uint64) float64 {
	return float64(bits)/unsignedMax(precision)*2 - 1
}

func clamp(x float64) float64 {
	if x < -1 {
		return -1
	}
	if x > +1 {
		return +1
	}
	return x
}

// Buffer is a finite stretch of stereo audio held in memory as floating-point samples.
//
// Unlike a Streamer, a Buffer can be inspected and rewritten in place, which is what whole-clip
// operations such as peak normalization need.
type Buffer struct {
	f       Format
	samples [][2]float64
}

// NewBuffer creates a new empty Buffer which stores samples in the provided format.
func NewBuffer(f Format) *Buffer {
	return &Buffer{f: f}
}

// Format returns the format of the Buffer.
func (b *Buffer) Format() Format {
	return b.f
}

// Len returns the number of samples currently in the Buffer.
func (b *Buffer) Len() int {
	return len(b.samples)
}

// Duration returns the playing time of the samples currently in the Buffer.
func (b *Buffer) Duration() time.Duration {
	return b.f.SampleRate.D(len(b.samples))
}

// Samples returns the samples held by the Buffer. Modifying the returned slice modifies the
// Buffer.
func (b *Buffer) Samples() [][2]float64 {
	return b.samples
}

// Append drains the provided Streamer and appends all of its samples to the end of the Buffer.
//
// The Streamer's error, if any, is left for the caller to inspect through its Err method.
func (b *Buffer) Append(s Streamer) {
	var chunk [512][2]float64
	for {
		n, ok := s.Stream(chunk[:])
		b.samples = append(b.samples, chunk[:n]...)
		if !ok {
			break
		}
	}
}

// Streamer returns a StreamSeeker which streams samples in the given interval (including from,
// excluding to). If from<0 or to>b.Len() or to<from, this method panics.
//
// When using multiple Streamers obtained from the same Buffer, they do not interfere with each
// other.
func (b *Buffer) Streamer(from, to int) StreamSeeker {
	if from < 0 || to > b.Len() || to < from {
		panic(fmt.Errorf("buffer: streamer: invalid interval [%d, %d) of %d", from, to, b.Len()))
	}
	return &bufferStreamer{samples: b.samples[from:to]}
}

type bufferStreamer struct {
	samples [][2]float64
	pos     int
}

func (bs *bufferStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if bs.pos >= len(bs.samples) {
		return 0, false
	}
	n = copy(samples, bs.samples[bs.pos:])
	bs.pos += n
	return n, true
}

func (bs *bufferStreamer) Err() error {
	return nil
}

func (bs *bufferStreamer) Len() int {
	return len(bs.samples)
}

func (bs *bufferStreamer) Position() int {
	return bs.pos
}

func (bs *bufferStreamer) Seek(p int) error {
	if p < 0 || len(bs.samples) < p {
		return fmt.Errorf("buffer: seek position %v out of range [%v, %v]", p, 0, len(bs.samples))
	}
	bs.pos = p
	return nil
}

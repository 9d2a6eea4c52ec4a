package bed_test

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/kyma-sound/kyma"
	"github.com/kyma-sound/kyma/bed"
	"github.com/kyma-sound/kyma/wav"
	"github.com/pkg/errors"
)

func sineWAV(t *testing.T, format kyma.Format, n int) []byte {
	t.Helper()
	i := 0
	s := kyma.Take(n, kyma.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for j := range samples {
			x := 0.5 * math.Sin(2*math.Pi*100*float64(i)/float64(format.SampleRate))
			samples[j] = [2]float64{x, x}
			i++
		}
		return len(samples), true
	}))
	var out bytes.Buffer
	if err := wav.Encode(&out, s, format); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return out.Bytes()
}

func TestDecodeWAVAtTargetRate(t *testing.T) {
	format := kyma.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}
	b, err := bed.Decode(bytes.NewReader(sineWAV(t, format, 4410)), ".wav", 44100)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b.Len() != 4410 {
		t.Fatalf("length: expected: 4410, actual: %v", b.Len())
	}
	if b.Format().SampleRate != 44100 {
		t.Fatalf("sample rate: expected: 44100, actual: %v", b.Format().SampleRate)
	}
}

func TestDecodeWAVResamples(t *testing.T) {
	format := kyma.Format{SampleRate: 22050, NumChannels: 1, Precision: 2}
	b, err := bed.Decode(bytes.NewReader(sineWAV(t, format, 2205)), "WAV", 44100)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b.Format().SampleRate != 44100 {
		t.Fatalf("sample rate: expected: 44100, actual: %v", b.Format().SampleRate)
	}
	if math.Abs(float64(b.Len()-4410)) > 2 {
		t.Fatalf("length: expected about 4410, actual: %v", b.Len())
	}
	// the resampled sine still follows the 100 Hz curve
	for i := 100; i < 4300; i += 97 {
		want := 0.5 * math.Sin(2*math.Pi*100*float64(i)/44100)
		got := b.Samples()[i]
		if math.Abs(got[0]-want) > 0.01 || got[0] != got[1] {
			t.Fatalf("sample %d: expected about %v on both channels, actual: %v", i, want, got)
		}
	}
}

func TestOpen(t *testing.T) {
	format := kyma.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}
	path := filepath.Join(t.TempDir(), "rain.wav")
	if err := os.WriteFile(path, sineWAV(t, format, 1000), 0o644); err != nil {
		t.Fatal(err)
	}
	b, err := bed.Open(path, 44100)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if b.Len() != 1000 {
		t.Fatalf("length: expected: 1000, actual: %v", b.Len())
	}
	if _, err := bed.Open(filepath.Join(t.TempDir(), "missing.wav"), 44100); err == nil {
		t.Fatal("Open of a missing file expected error")
	}
}

func TestDecodeRejects(t *testing.T) {
	if _, err := bed.Decode(bytes.NewReader(nil), ".aiff", 44100); !errors.Is(err, bed.ErrUnsupportedFormat) {
		t.Errorf("unknown extension: expected ErrUnsupportedFormat, actual: %v", err)
	}
	for _, ext := range []string{".wav", ".mp3", ".ogg", ".flac"} {
		if _, err := bed.Decode(bytes.NewReader([]byte("not audio at all")), ext, 44100); err == nil {
			t.Errorf("garbage %s expected error", ext)
		}
	}
}

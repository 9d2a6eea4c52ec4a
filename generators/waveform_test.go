package generators_test

import (
	"math"
	"testing"

	"github.com/kyma-sound/kyma"
	"github.com/kyma-sound/kyma/generators"
)

func TestWaveformPeriodicAndBounded(t *testing.T) {
	for _, w := range generators.Waveforms() {
		for _, freq := range []float64{1, 10, 174, 440, 963} {
			period := 1 / freq
			for i := 0; i < 200; i++ {
				// stay away from the discontinuities of square and sawtooth
				tm := (float64(i)/200 + 0.0013) * period
				v := w.At(freq, tm)
				if v < -1 || v > 1 {
					t.Fatalf("%v at %v Hz, t=%v: value %v out of [-1, 1]", w, freq, tm, v)
				}
				for k := 1; k <= 3; k++ {
					shifted := w.At(freq, tm+float64(k)*period)
					if math.Abs(shifted-v) > 1e-6 {
						t.Fatalf("%v at %v Hz not periodic: f(%v)=%v, f(%v)=%v", w, freq, tm, v, tm+float64(k)*period, shifted)
					}
				}
			}
		}
	}
}

func TestWaveformKnownValues(t *testing.T) {
	tests := []struct {
		w    generators.Waveform
		t    float64 // fraction of a period
		want float64
	}{
		{generators.Sine, 0, 0},
		{generators.Sine, 0.25, 1},
		{generators.Square, 0, 0},
		{generators.Square, 0.1, 1},
		{generators.Square, 0.6, -1},
		{generators.Sawtooth, 0, -1},
		{generators.Sawtooth, 0.5, 0},
		{generators.Sawtooth, 0.75, 0.5},
		{generators.Triangle, 0, 1},
		{generators.Triangle, 0.5, -1},
		{generators.Triangle, 0.25, 0},
	}
	for _, tt := range tests {
		got := tt.w.At(1, tt.t)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%v.At(1, %v) = %v, want %v", tt.w, tt.t, got, tt.want)
		}
	}
}

func TestSawtoothWidthHalf(t *testing.T) {
	tests := []struct {
		x, want float64
	}{
		{0, -1},
		{math.Pi / 2, 0},
		{math.Pi, 1},
		{3 * math.Pi / 2, 0},
		{-math.Pi / 2, 0},
	}
	for _, tt := range tests {
		if got := generators.SawtoothAt(tt.x, 0.5); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("SawtoothAt(%v, 0.5) = %v, want %v", tt.x, got, tt.want)
		}
	}
	if got := generators.SawtoothAt(1, 1.5); !math.IsNaN(got) {
		t.Errorf("SawtoothAt with width 1.5 = %v, want NaN", got)
	}
}

func TestParseWaveform(t *testing.T) {
	for _, w := range generators.Waveforms() {
		parsed, err := generators.ParseWaveform(w.String())
		if err != nil || parsed != w {
			t.Errorf("ParseWaveform(%q) = %v, %v", w.String(), parsed, err)
		}
	}
	if w, err := generators.ParseWaveform("triangle"); err != nil || w != generators.Triangle {
		t.Errorf("ParseWaveform is expected to ignore case, got %v, %v", w, err)
	}
	if _, err := generators.ParseWaveform("Noise"); err == nil {
		t.Error("ParseWaveform(\"Noise\") expected error")
	}
	if s := generators.Waveform(9).String(); s != "Waveform(9)" {
		t.Errorf("String of invalid waveform = %q", s)
	}
}

func TestBinauralChannels(t *testing.T) {
	sr := kyma.SampleRate(44100)
	s, err := generators.Binaural(sr, generators.Sine, 440, 10)
	if err != nil {
		t.Fatalf("Binaural: %v", err)
	}
	samples := make([][2]float64, 1000)
	if n, ok := s.Stream(samples); n != len(samples) || !ok {
		t.Fatalf("Stream returned %v, %v", n, ok)
	}
	for i, sample := range samples {
		tm := float64(i) / float64(sr)
		if math.Abs(sample[0]-math.Sin(2*math.Pi*440*tm)) > 1e-9 {
			t.Fatalf("left sample %d = %v, want sin(2π·440·t)", i, sample[0])
		}
		if math.Abs(sample[1]-math.Sin(2*math.Pi*450*tm)) > 1e-9 {
			t.Fatalf("right sample %d = %v, want sin(2π·450·t)", i, sample[1])
		}
	}
}

func TestIsochronicPulse(t *testing.T) {
	sr := kyma.SampleRate(1000)
	s, err := generators.Isochronic(sr, 10)
	if err != nil {
		t.Fatalf("Isochronic: %v", err)
	}
	samples := make([][2]float64, 100)
	s.Stream(samples)
	// one period is 100 samples: -1 at the start, 1 in the middle
	if math.Abs(samples[0][0]+1) > 1e-9 || math.Abs(samples[50][0]-1) > 1e-9 {
		t.Fatalf("unexpected pulse shape: start %v, middle %v", samples[0][0], samples[50][0])
	}
	for i, sample := range samples {
		if sample[0] != sample[1] {
			t.Fatalf("isochronic sample %d differs between channels: %v", i, sample)
		}
	}
}

func TestToneRejectsBadFrequencies(t *testing.T) {
	sr := kyma.SampleRate(44100)
	for _, freq := range []float64{0, -5, 22050, 30000, math.NaN()} {
		if _, err := generators.Tone(sr, generators.Sine, freq); err == nil {
			t.Errorf("Tone(%v Hz) expected error", freq)
		}
	}
	if _, err := generators.Binaural(sr, generators.Sine, 22000, 100); err == nil {
		t.Error("Binaural with right channel above Nyquist expected error")
	}
	if _, err := generators.Tone(sr, generators.Waveform(42), 440); err == nil {
		t.Error("Tone with unknown waveform expected error")
	}
}

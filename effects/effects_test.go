package effects_test

import (
	"math"
	"testing"

	"github.com/kyma-sound/kyma"
	"github.com/kyma-sound/kyma/effects"
)

func constant(left, right float64) kyma.Streamer {
	return kyma.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for i := range samples {
			samples[i] = [2]float64{left, right}
		}
		return len(samples), true
	})
}

func first(s kyma.Streamer) [2]float64 {
	var buf [1][2]float64
	s.Stream(buf[:])
	return buf[0]
}

func TestPanLaw(t *testing.T) {
	tests := []struct {
		pan         float64
		left, right float64
	}{
		{0, 0.5, 0.5},
		{0.5, 0.25, 0.75},
		{-0.5, 0.25, 0.75},
		{1, 0, 1},
		{-1, 0, 1},
	}
	for _, tt := range tests {
		got := first(&effects.Pan{Streamer: constant(0.5, 0.5), Pan: tt.pan})
		if math.Abs(got[0]-tt.left) > 1e-12 || math.Abs(got[1]-tt.right) > 1e-12 {
			t.Errorf("Pan %v: got %v, want [%v %v]", tt.pan, got, tt.left, tt.right)
		}
	}
}

func TestVolumeIsLinear(t *testing.T) {
	got := first(&effects.Volume{Streamer: constant(0.8, -0.4), Gain: 0.5})
	if got != [2]float64{0.4, -0.2} {
		t.Errorf("Volume 0.5: got %v", got)
	}
	got = first(&effects.Volume{Streamer: constant(0.8, -0.4), Gain: 0.5, Silent: true})
	if got != [2]float64{0, 0} {
		t.Errorf("silent Volume: got %v", got)
	}
}

func TestNormalize(t *testing.T) {
	b := kyma.NewBuffer(kyma.Format{SampleRate: 44100, NumChannels: 2, Precision: 2})
	b.Append(kyma.Take(3, constant(0.5, -2)))
	peak := effects.Normalize(b)
	if peak != 2 {
		t.Fatalf("peak before normalization: got %v, want 2", peak)
	}
	for _, s := range b.Samples() {
		if s != [2]float64{0.25, -1} {
			t.Fatalf("normalized sample: got %v, want [0.25 -1]", s)
		}
	}
	if after := effects.Peak(b); after != 1 {
		t.Fatalf("peak after normalization: got %v, want exactly 1", after)
	}
}

func TestNormalizeLeavesQuietBuffers(t *testing.T) {
	b := kyma.NewBuffer(kyma.Format{SampleRate: 44100, NumChannels: 2, Precision: 2})
	b.Append(kyma.Take(3, constant(0.5, -0.75)))
	if peak := effects.Normalize(b); peak != 0.75 {
		t.Fatalf("peak: got %v, want 0.75", peak)
	}
	for _, s := range b.Samples() {
		if s != [2]float64{0.5, -0.75} {
			t.Fatalf("quiet buffer was modified: %v", s)
		}
	}
}

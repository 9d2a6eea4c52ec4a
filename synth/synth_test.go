package synth_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/kyma-sound/kyma"
	"github.com/kyma-sound/kyma/effects"
	"github.com/kyma-sound/kyma/generators"
	"github.com/kyma-sound/kyma/synth"
	"github.com/kyma-sound/kyma/wav"
	"github.com/pkg/errors"
)

func pulse(beat, t float64) float64 {
	return generators.SawtoothAt(2*math.Pi*beat*t, 0.5)
}

func sineRequest() synth.Request {
	return synth.Request{
		BaseFreq: 440,
		BeatFreq: 10,
		Waveform: generators.Sine,
		Duration: 1,
		Volume:   0.5,
		Panning:  0,
	}
}

func TestRenderSine(t *testing.T) {
	clip, err := synth.Render(sineRequest())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if clip.Report.Frames != 44100 || clip.Buffer().Len() != 44100 {
		t.Fatalf("frames: expected: 44100, actual: %v (buffer %v)", clip.Report.Frames, clip.Buffer().Len())
	}
	scale := 1.0
	if clip.Report.Normalized {
		scale = clip.Report.Peak
	}
	for i, s := range clip.Buffer().Samples() {
		tm := float64(i) / 44100
		iso := 0.5 * pulse(10, tm)
		left := 0.5 * math.Sin(2*math.Pi*440*tm)
		right := 0.5 * math.Sin(2*math.Pi*450*tm)
		if math.Abs(s[0]*scale-iso-left) > 1e-9 || math.Abs(s[1]*scale-iso-right) > 1e-9 {
			t.Fatalf("sample %d: got %v, want [%v %v]", i, s, (left+iso)/scale, (right+iso)/scale)
		}
	}
	if clip.Report.Peak <= 0.5 || clip.Report.Peak > 1 {
		t.Fatalf("peak before normalization: got %v, want in (0.5, 1]", clip.Report.Peak)
	}
}

func TestRenderRejectsZeroBase(t *testing.T) {
	req := sineRequest()
	req.BaseFreq = 0
	var out bytes.Buffer
	_, err := synth.Generate(&out, req)
	if !errors.Is(err, synth.ErrNonPositiveFrequency) {
		t.Fatalf("expected ErrNonPositiveFrequency, actual: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("rejected request wrote %d bytes", out.Len())
	}
}

func TestRenderHardPanRight(t *testing.T) {
	req := sineRequest()
	req.Volume = 1
	req.Panning = 1
	clip, err := synth.Render(req)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !clip.Report.Normalized || clip.Report.Peak <= 1 {
		t.Fatalf("a doubled right channel must be normalized, report: %+v", clip.Report)
	}
	peak := clip.Report.Peak
	for i, s := range clip.Buffer().Samples() {
		tm := float64(i) / 44100
		iso := pulse(10, tm)
		if math.Abs(s[0]*peak-iso) > 1e-9 {
			t.Fatalf("left sample %d: got %v, want only the pulse %v", i, s[0]*peak, iso)
		}
		if want := 2*math.Sin(2*math.Pi*450*tm) + iso; math.Abs(s[1]*peak-want) > 1e-9 {
			t.Fatalf("right sample %d: got %v, want %v", i, s[1]*peak, want)
		}
	}
	if after := effects.Peak(clip.Buffer()); after != 1 {
		t.Fatalf("peak after normalization: got %v, want exactly 1", after)
	}
}

func TestNormalizationInvariant(t *testing.T) {
	for _, w := range generators.Waveforms() {
		for _, vol := range []float64{0, 0.2, 0.7, 1} {
			for _, pan := range []float64{-1, -0.3, 0, 0.6, 1} {
				req := synth.Request{BaseFreq: 174, BeatFreq: 6, Waveform: w, Duration: 0.25, Volume: vol, Panning: pan}
				clip, err := synth.Render(req)
				if err != nil {
					t.Fatalf("%+v: %v", req, err)
				}
				peak := effects.Peak(clip.Buffer())
				if peak > 1 {
					t.Fatalf("%+v: peak %v after normalization", req, peak)
				}
				if (peak == 1) != clip.Report.Normalized && clip.Report.Peak != 1 {
					t.Fatalf("%+v: peak %v, report %+v", req, peak, clip.Report)
				}
			}
		}
	}
}

func TestCenteredPanKeepsChannelsEqual(t *testing.T) {
	req := synth.Request{BaseFreq: 200, BeatFreq: 10, Waveform: generators.Square, Duration: 0.5, Volume: 0.4}
	clip, err := synth.Render(req)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	var maxLeft, maxRight float64
	for i, s := range clip.Buffer().Samples() {
		iso := 0.4 * pulse(10, float64(i)/44100)
		maxLeft = math.Max(maxLeft, math.Abs(s[0]-iso))
		maxRight = math.Max(maxRight, math.Abs(s[1]-iso))
	}
	if math.Abs(maxLeft-0.4) > 1e-9 || math.Abs(maxRight-0.4) > 1e-9 {
		t.Fatalf("amplitude scale: left %v, right %v, want both 0.4", maxLeft, maxRight)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	req := sineRequest()
	req.Waveform = generators.Triangle
	req.Panning = -0.4
	var a, b bytes.Buffer
	if _, err := synth.Generate(&a, req); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := synth.Generate(&b, req); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatal("identical requests produced different WAV bytes")
	}
}

func TestGenerateRoundTrip(t *testing.T) {
	req := sineRequest()
	req.Duration = 0.1
	var out bytes.Buffer
	report, err := synth.Generate(&out, req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	s, format, err := wav.Decode(&out)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if format != synth.Format {
		t.Fatalf("format: expected: %+v, actual: %+v", synth.Format, format)
	}
	clip, _ := synth.Render(req)
	decoded := kyma.NewBuffer(format)
	decoded.Append(s)
	if decoded.Len() != report.Frames || report.Frames != 4410 {
		t.Fatalf("frames: report %v, decoded %v, want 4410", report.Frames, decoded.Len())
	}
	for i := range decoded.Samples() {
		a, b := clip.Buffer().Samples()[i], decoded.Samples()[i]
		if math.Abs(a[0]-b[0]) > 1.0/32767 || math.Abs(a[1]-b[1]) > 1.0/32767 {
			t.Fatalf("sample %d: rendered %v, decoded %v", i, a, b)
		}
	}
}

func TestRenderMixesBed(t *testing.T) {
	bed := kyma.NewBuffer(synth.Format)
	bed.Append(kyma.Take(100, kyma.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{0.25, -0.25}
		}
		return len(samples), true
	})))

	req := sineRequest()
	req.Duration = 0.05
	req.Volume = 0.3
	plain, err := synth.Render(req)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	req.Bed = bed
	req.BedGain = 0.5
	withBed, err := synth.Render(req)
	if err != nil {
		t.Fatalf("Render with bed: %v", err)
	}
	if plain.Report.Normalized || withBed.Report.Normalized {
		t.Fatal("quiet clips must not be normalized")
	}
	for i := range plain.Buffer().Samples() {
		a, b := plain.Buffer().Samples()[i], withBed.Buffer().Samples()[i]
		if math.Abs(b[0]-a[0]-0.125) > 1e-12 || math.Abs(b[1]-a[1]+0.125) > 1e-12 {
			t.Fatalf("sample %d: the looped bed was not added: %v -> %v", i, a, b)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *synth.Request)
		want   error
	}{
		{"negative beat", func(r *synth.Request) { r.BeatFreq = -1 }, synth.ErrNonPositiveFrequency},
		{"NaN base", func(r *synth.Request) { r.BaseFreq = math.NaN() }, synth.ErrNonPositiveFrequency},
		{"zero duration", func(r *synth.Request) { r.Duration = 0 }, synth.ErrNonPositiveDuration},
		{"sub-sample duration", func(r *synth.Request) { r.Duration = 1e-6 }, synth.ErrNonPositiveDuration},
		{"huge duration", func(r *synth.Request) { r.Duration = 1e300 }, synth.ErrOutOfRange},
		{"infinite duration", func(r *synth.Request) { r.Duration = math.Inf(1) }, synth.ErrOutOfRange},
		{"duration past the WAVE limit", func(r *synth.Request) {
			r.Duration = float64(synth.MaxFrames+1) / float64(synth.SampleRate)
		}, synth.ErrOutOfRange},
		{"loud", func(r *synth.Request) { r.Volume = 1.5 }, synth.ErrOutOfRange},
		{"panning", func(r *synth.Request) { r.Panning = -1.01 }, synth.ErrOutOfRange},
		{"bed gain", func(r *synth.Request) { r.BedGain = 2 }, synth.ErrOutOfRange},
		{"nyquist", func(r *synth.Request) { r.BaseFreq = 22045 }, synth.ErrOutOfRange},
		{"waveform", func(r *synth.Request) { r.Waveform = generators.Waveform(7) }, synth.ErrUnknownWaveform},
	}
	for _, tt := range tests {
		req := sineRequest()
		tt.modify(&req)
		err := req.Validate()
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: expected %v, actual: %v", tt.name, tt.want, err)
		}
		if !synth.IsValidation(err) {
			t.Errorf("%s: IsValidation(%v) = false", tt.name, err)
		}
	}
	if err := sineRequest().Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
}

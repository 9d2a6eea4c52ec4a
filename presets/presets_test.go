package presets_test

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/kyma-sound/kyma/cymatics"
	"github.com/kyma-sound/kyma/presets"
	"github.com/pkg/errors"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		sel        presets.Selection
		base, beat float64
		color      string
	}{
		{presets.Selection{Type: presets.SolfeggioType, Solfeggio: 528}, 528, 10, "#1E90FF"},
		{presets.Selection{Type: presets.BrainwaveType, Brainwave: "theta"}, 200, 6, "#1E90FF"},
		{presets.Selection{Type: presets.BrainwaveType, Brainwave: "Gamma"}, 200, 40, "#1E90FF"},
		{presets.Selection{Type: presets.CustomType, Base: 432}, 432, 10, "#1E90FF"},
	}
	for _, tt := range tests {
		r, err := presets.Resolve(tt.sel, nil)
		if err != nil {
			t.Fatalf("Resolve(%+v): %v", tt.sel, err)
		}
		if r.Base != tt.base || r.Beat != tt.beat || cymatics.Hex(r.Color) != tt.color {
			t.Errorf("Resolve(%+v) = %+v, want base %v beat %v color %v", tt.sel, r, tt.base, tt.beat, tt.color)
		}
	}
}

func TestResolveIntention(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seen := map[float64]bool{}
	for i := 0; i < 200; i++ {
		r, err := presets.Resolve(presets.Selection{Type: presets.IntentionType, Intention: presets.Gratitude}, rng)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if _, err := presets.LookupSolfeggio(r.Base); err != nil {
			t.Fatalf("intention base %v is not a solfeggio tone", r.Base)
		}
		if r.Beat != 10 || cymatics.Hex(r.Color) != "#FFD700" {
			t.Fatalf("intention resolved to %+v", r)
		}
		seen[r.Base] = true
	}
	if len(seen) < 2 {
		t.Fatal("intention bases are expected to vary")
	}

	// the same seed draws the same tones
	a, _ := presets.Resolve(presets.Selection{Type: presets.IntentionType}, rand.New(rand.NewSource(7)))
	b, _ := presets.Resolve(presets.Selection{Type: presets.IntentionType}, rand.New(rand.NewSource(7)))
	if a != b {
		t.Fatalf("seeded resolution differs: %+v, %+v", a, b)
	}
}

func TestResolveRejectsUnknown(t *testing.T) {
	for _, sel := range []presets.Selection{
		{Type: presets.SolfeggioType, Solfeggio: 440},
		{Type: presets.BrainwaveType, Brainwave: "kappa"},
		{Type: presets.IntentionType, Intention: presets.Intention(12)},
		{Type: presets.FrequencyType(9)},
	} {
		if _, err := presets.Resolve(sel, nil); !errors.Is(err, presets.ErrUnknownPreset) {
			t.Errorf("Resolve(%+v): expected ErrUnknownPreset, actual: %v", sel, err)
		}
	}
}

func TestIntentionColors(t *testing.T) {
	want := map[presets.Intention]string{
		presets.Love:      "#FFC0CB",
		presets.Calm:      "#ADD8E6",
		presets.Healing:   "#008000",
		presets.Gratitude: "#FFD700",
		presets.Courage:   "#FF0000",
	}
	for _, i := range presets.Intentions() {
		if got := cymatics.Hex(i.Color()); got != want[i] {
			t.Errorf("%v.Color() = %v, want %v", i, got, want[i])
		}
		parsed, err := presets.ParseIntention(i.String())
		if err != nil || parsed != i {
			t.Errorf("ParseIntention(%q) = %v, %v", i.String(), parsed, err)
		}
	}
}

func TestParseNumber(t *testing.T) {
	for _, s := range []string{"440", " 10.5 ", "-3", "1e3"} {
		if _, err := presets.ParseNumber(s); err != nil {
			t.Errorf("ParseNumber(%q): %v", s, err)
		}
	}
	for _, s := range []string{"", "abc", "440Hz", "NaN", "inf"} {
		if _, err := presets.ParseNumber(s); !errors.Is(err, presets.ErrNotNumeric) {
			t.Errorf("ParseNumber(%q): expected ErrNotNumeric, actual: %v", s, err)
		}
	}
}

func TestTablesJSON(t *testing.T) {
	p, err := json.Marshal(presets.All())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back struct {
		Solfeggio []struct {
			Frequency float64 `json:"frequency"`
		} `json:"solfeggio"`
		Brainwave  []presets.Brainwave `json:"brainwave"`
		Intentions []struct {
			Intention string `json:"intention"`
			Color     string `json:"color"`
		} `json:"intentions"`
	}
	if err := json.Unmarshal(p, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(back.Solfeggio) != 9 || back.Solfeggio[0].Frequency != 174 || back.Solfeggio[8].Frequency != 963 {
		t.Errorf("solfeggio table: %+v", back.Solfeggio)
	}
	if len(back.Brainwave) != 5 || back.Brainwave[2].Name != "Alpha" || back.Brainwave[2].Beat != 10 {
		t.Errorf("brainwave table: %+v", back.Brainwave)
	}
	if len(back.Intentions) != 5 || back.Intentions[0].Intention != "Love" || back.Intentions[0].Color != "#FFC0CB" {
		t.Errorf("intentions: %+v", back.Intentions)
	}
	if l := presets.Solfeggio()[4].Label(); l != "528 Hz - Transformation and DNA Repair" {
		t.Errorf("Label = %q", l)
	}
}

// Package presets holds the named frequency tables and turns a frequency selection into the
// base frequency, beat frequency and fringe color of a session.
package presets

import (
	"image/color"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/kyma-sound/kyma/cymatics"
	"github.com/pkg/errors"
)

const (
	// DefaultBeat is the beat frequency of every selection but brainwave patterns.
	DefaultBeat = 10.0

	// BrainwaveBase is the base frequency brainwave patterns are played on.
	BrainwaveBase = 200.0

	// DefaultBase and DefaultDuration prefill custom input.
	DefaultBase     = 440.0
	DefaultDuration = 10.0
)

var (
	ErrNotNumeric    = errors.New("presets: not a number")
	ErrUnknownPreset = errors.New("presets: unknown preset")
)

// Tone is a solfeggio frequency.
type Tone struct {
	Freq    float64 `json:"frequency"`
	Purpose string  `json:"purpose"`
}

// Label is the name the tone is listed under.
func (t Tone) Label() string {
	return strconv.FormatFloat(t.Freq, 'f', -1, 64) + " Hz - " + t.Purpose
}

// Brainwave is a band of brain activity and the beat frequency that targets it.
type Brainwave struct {
	Name  string  `json:"name"`
	Range string  `json:"range"`
	Beat  float64 `json:"beat"`
}

var solfeggio = []Tone{
	{174, "Foundation and Stability"},
	{285, "Healing Tissues and Organs"},
	{396, "Liberating Guilt and Fear"},
	{417, "Facilitating Change"},
	{528, "Transformation and DNA Repair"},
	{639, "Harmonizing Relationships"},
	{741, "Expression and Solutions"},
	{852, "Awakening Intuition"},
	{963, "Spiritual Connection"},
}

var brainwaves = []Brainwave{
	{"Delta", "0.5 - 4 Hz", 2},
	{"Theta", "4 - 8 Hz", 6},
	{"Alpha", "8 - 14 Hz", 10},
	{"Beta", "14 - 30 Hz", 20},
	{"Gamma", "30 - 100 Hz", 40},
}

// Solfeggio returns the solfeggio table in ascending order.
func Solfeggio() []Tone {
	return append([]Tone(nil), solfeggio...)
}

// Brainwaves returns the brainwave table from the slowest band to the fastest.
func Brainwaves() []Brainwave {
	return append([]Brainwave(nil), brainwaves...)
}

// LookupSolfeggio returns the solfeggio tone at freq Hz.
func LookupSolfeggio(freq float64) (Tone, error) {
	for _, t := range solfeggio {
		if t.Freq == freq {
			return t, nil
		}
	}
	return Tone{}, errors.Wrapf(ErrUnknownPreset, "solfeggio %v Hz", freq)
}

// LookupBrainwave returns the brainwave band called name, ignoring case.
func LookupBrainwave(name string) (Brainwave, error) {
	for _, b := range brainwaves {
		if strings.EqualFold(b.Name, strings.TrimSpace(name)) {
			return b, nil
		}
	}
	return Brainwave{}, errors.Wrapf(ErrUnknownPreset, "brainwave %q", name)
}

// ParseNumber parses numeric text input. Anything but a finite number is rejected with
// ErrNotNumeric; there is no fallback value.
func ParseNumber(s string) (float64, error) {
	x, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, errors.Wrapf(ErrNotNumeric, "%q", s)
	}
	return x, nil
}

// Selection is the frequency choice of a session. Only the field matching Type is read.
type Selection struct {
	Type      FrequencyType
	Solfeggio float64   // Hz, one of the solfeggio table
	Brainwave string    // band name
	Intention Intention
	Base      float64   // Hz, custom base frequency
}

// Resolved are the frequencies and color a Selection stands for.
type Resolved struct {
	Base  float64
	Beat  float64
	Color color.RGBA
}

// Resolve turns s into frequencies. An intention plays a solfeggio tone drawn from rng, so
// resolving it twice usually gives different bases; a nil rng uses the global source.
// The custom base is returned as given, range checks are left to synthesis.
func Resolve(s Selection, rng *rand.Rand) (Resolved, error) {
	r := Resolved{Beat: DefaultBeat, Color: cymatics.DefaultColor}
	switch s.Type {
	case SolfeggioType:
		t, err := LookupSolfeggio(s.Solfeggio)
		if err != nil {
			return Resolved{}, err
		}
		r.Base = t.Freq
	case BrainwaveType:
		b, err := LookupBrainwave(s.Brainwave)
		if err != nil {
			return Resolved{}, err
		}
		r.Base, r.Beat = BrainwaveBase, b.Beat
	case CustomType:
		r.Base = s.Base
	case IntentionType:
		if !s.Intention.Valid() {
			return Resolved{}, errors.Wrapf(ErrUnknownPreset, "%v", s.Intention)
		}
		var i int
		if rng != nil {
			i = rng.Intn(len(solfeggio))
		} else {
			i = rand.Intn(len(solfeggio))
		}
		r.Base = solfeggio[i].Freq
		r.Color = s.Intention.Color()
	default:
		return Resolved{}, errors.Wrapf(ErrUnknownPreset, "%v", s.Type)
	}
	return r, nil
}

// IntentionColor pairs an intention with its color for listings.
type IntentionColor struct {
	Intention Intention `json:"intention"`
	Color     string    `json:"color"`
}

// Tables lists every preset, ready to be served as JSON.
type Tables struct {
	Solfeggio  []Tone           `json:"solfeggio"`
	Brainwave  []Brainwave      `json:"brainwave"`
	Intentions []IntentionColor `json:"intentions"`
}

// All returns every preset table.
func All() Tables {
	t := Tables{Solfeggio: Solfeggio(), Brainwave: Brainwaves()}
	for _, i := range Intentions() {
		t.Intentions = append(t.Intentions, IntentionColor{Intention: i, Color: cymatics.Hex(i.Color())})
	}
	return t
}

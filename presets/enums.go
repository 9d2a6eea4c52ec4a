package presets

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// FrequencyType selects where the frequencies of a session come from.
type FrequencyType int

// The frequency types offered by the session form.
const (
	SolfeggioType FrequencyType = iota
	BrainwaveType
	CustomType
	IntentionType
)

var frequencyTypeNames = [...]string{"solfeggio", "brainwave", "custom", "intention"}

// String returns the lower-case name of t.
func (t FrequencyType) String() string {
	if t < 0 || int(t) >= len(frequencyTypeNames) {
		return "FrequencyType(" + strconv.Itoa(int(t)) + ")"
	}
	return frequencyTypeNames[t]
}

// ParseFrequencyType parses "solfeggio", "brainwave", "custom" or "intention", ignoring case.
func ParseFrequencyType(s string) (FrequencyType, error) {
	for i, name := range frequencyTypeNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return FrequencyType(i), nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownPreset, "frequency type %q", s)
}

// MarshalText encodes t by its name.
func (t FrequencyType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts the names ParseFrequencyType accepts.
func (t *FrequencyType) UnmarshalText(text []byte) error {
	parsed, err := ParseFrequencyType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Intention is an emotional intention. Each one colors the pattern.
type Intention int

// The emotional intentions, in menu order.
const (
	Love Intention = iota
	Calm
	Healing
	Gratitude
	Courage
)

var intentions = [...]struct {
	name  string
	color color.RGBA
}{
	Love:      {"Love", color.RGBA{0xff, 0xc0, 0xcb, 0xff}},
	Calm:      {"Calm", color.RGBA{0xad, 0xd8, 0xe6, 0xff}},
	Healing:   {"Healing", color.RGBA{0x00, 0x80, 0x00, 0xff}},
	Gratitude: {"Gratitude", color.RGBA{0xff, 0xd7, 0x00, 0xff}},
	Courage:   {"Courage", color.RGBA{0xff, 0x00, 0x00, 0xff}},
}

// Intentions returns every intention in declaration order.
func Intentions() []Intention {
	return []Intention{Love, Calm, Healing, Gratitude, Courage}
}

// Valid reports whether i is one of the declared intentions.
func (i Intention) Valid() bool {
	return i >= 0 && int(i) < len(intentions)
}

// String returns the display name of i.
func (i Intention) String() string {
	if !i.Valid() {
		return "Intention(" + strconv.Itoa(int(i)) + ")"
	}
	return intentions[i].name
}

// Color returns the fringe color of i. Invalid intentions are black.
func (i Intention) Color() color.RGBA {
	if !i.Valid() {
		return color.RGBA{A: 0xff}
	}
	return intentions[i].color
}

// ParseIntention parses the name of an intention, ignoring case.
func ParseIntention(s string) (Intention, error) {
	for _, i := range Intentions() {
		if strings.EqualFold(i.String(), strings.TrimSpace(s)) {
			return i, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownPreset, "intention %q", s)
}

// MarshalText encodes i by its name.
func (i Intention) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText accepts the names ParseIntention accepts.
func (i *Intention) UnmarshalText(text []byte) error {
	parsed, err := ParseIntention(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

package generators

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Waveform is one of the periodic wave shapes a tone can be synthesized with.
type Waveform int

// The supported waveforms. The zero value is Sine.
const (
	Sine Waveform = iota
	Square
	Sawtooth
	Triangle
)

var waveformNames = [...]string{
	Sine:     "Sine",
	Square:   "Square",
	Sawtooth: "Sawtooth",
	Triangle: "Triangle",
}

// Waveforms returns all supported waveforms in declaration order.
func Waveforms() []Waveform {
	return []Waveform{Sine, Square, Sawtooth, Triangle}
}

// Valid reports whether w is one of the declared waveforms.
func (w Waveform) Valid() bool {
	return w >= Sine && w <= Triangle
}

// String returns the name of w as ParseWaveform accepts it.
func (w Waveform) String() string {
	if !w.Valid() {
		return "Waveform(" + strconv.Itoa(int(w)) + ")"
	}
	return waveformNames[w]
}

// ParseWaveform returns the waveform with the given name, ignoring case.
func ParseWaveform(name string) (Waveform, error) {
	for _, w := range Waveforms() {
		if strings.EqualFold(name, waveformNames[w]) {
			return w, nil
		}
	}
	return 0, errors.Errorf("generators: unknown waveform %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (w Waveform) MarshalText() ([]byte, error) {
	if !w.Valid() {
		return nil, errors.Errorf("generators: unknown waveform %d", int(w))
	}
	return []byte(waveformNames[w]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *Waveform) UnmarshalText(text []byte) error {
	parsed, err := ParseWaveform(string(text))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// At evaluates the waveform of the given frequency at time t (in seconds). The result lies in
// [-1, 1] and repeats with period 1/freq.
func (w Waveform) At(freq, t float64) float64 {
	x := 2 * math.Pi * freq * t
	switch w {
	case Sine:
		return math.Sin(x)
	case Square:
		return sign(math.Sin(x))
	case Sawtooth:
		return SawtoothAt(x, 1)
	case Triangle:
		return 2*math.Abs(SawtoothAt(x, 1)) - 1
	}
	panic(errors.Errorf("generators: unknown waveform %d", int(w)))
}

// SawtoothAt evaluates a sawtooth of period 2π at phase x. Over each period it rises from -1
// to 1 during the first width*2π radians and falls back to -1 during the rest, so width 1 is a
// rising ramp and width 0.5 a symmetric triangle. Width outside [0, 1] yields NaN.
func SawtoothAt(x, width float64) float64 {
	if width < 0 || width > 1 {
		return math.NaN()
	}
	p := math.Mod(x, 2*math.Pi)
	if p < 0 {
		p += 2 * math.Pi
	}
	if p < width*2*math.Pi {
		return p/(math.Pi*width) - 1
	}
	return (math.Pi*(width+1) - p) / (math.Pi * (1 - width))
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

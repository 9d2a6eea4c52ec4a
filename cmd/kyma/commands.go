package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/gdamore/tcell"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/kyma-sound/kyma/bed"
	"github.com/kyma-sound/kyma/cymatics"
	"github.com/kyma-sound/kyma/generators"
	"github.com/kyma-sound/kyma/internal/server"
	"github.com/kyma-sound/kyma/internal/tui"
	"github.com/kyma-sound/kyma/presets"
	"github.com/kyma-sound/kyma/speaker"
	"github.com/kyma-sound/kyma/synth"
)

var (
	errHelp = errors.New("help requested")

	// errFlags marks bad command lines.
	errFlags = errors.New("invalid flags")
)

func isUsage(err error) bool {
	return errors.Is(err, errFlags) ||
		synth.IsValidation(err) ||
		errors.Is(err, presets.ErrNotNumeric) ||
		errors.Is(err, presets.ErrUnknownPreset) ||
		errors.Is(err, cymatics.ErrInvalidSurface)
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return errors.Wrap(errFlags, err.Error())
	}
	if fs.NArg() > 0 {
		return errors.Wrapf(errFlags, "unexpected arguments %q", fs.Args())
	}
	return nil
}

// selection holds the frequency-choice flags shared by several commands.
type selection struct {
	typ       string
	solfeggio float64
	brainwave string
	intention string
	base      string
	seed      int64
}

func (s *selection) register(fs *flag.FlagSet) {
	fs.StringVar(&s.typ, "type", "custom", "frequency type: solfeggio, brainwave, custom or intention")
	fs.Float64Var(&s.solfeggio, "solfeggio", 528, "solfeggio tone in Hz (type solfeggio)")
	fs.StringVar(&s.brainwave, "brainwave", "alpha", "brainwave band: delta, theta, alpha, beta or gamma (type brainwave)")
	fs.StringVar(&s.intention, "intention", "Love", "emotional intention: Love, Calm, Healing, Gratitude or Courage (type intention)")
	fs.StringVar(&s.base, "base", "440", "base frequency in Hz (type custom)")
	fs.Int64Var(&s.seed, "seed", 0, "seed for the tone of an intention; 0 picks one from the clock")
}

func (s *selection) resolve() (presets.Resolved, error) {
	var sel presets.Selection
	var err error
	if sel.Type, err = presets.ParseFrequencyType(s.typ); err != nil {
		return presets.Resolved{}, err
	}
	sel.Solfeggio = s.solfeggio
	sel.Brainwave = s.brainwave
	if sel.Type == presets.IntentionType {
		if sel.Intention, err = presets.ParseIntention(s.intention); err != nil {
			return presets.Resolved{}, err
		}
	}
	if sel.Type == presets.CustomType {
		if sel.Base, err = presets.ParseNumber(s.base); err != nil {
			return presets.Resolved{}, errors.Wrap(err, "base frequency")
		}
	}
	seed := s.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return presets.Resolve(sel, rand.New(rand.NewSource(seed)))
}

func runGenerate(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	var sel selection
	sel.register(fs)
	var (
		beat     = fs.String("beat", "", "beat frequency in Hz; empty keeps the preset beat")
		waveform = fs.String("waveform", "Sine", "waveform: Sine, Square, Sawtooth or Triangle")
		duration = fs.String("duration", "10", "duration in seconds")
		volume   = fs.Float64("volume", 0.5, "volume in [0, 1]")
		panning  = fs.Float64("panning", 0, "panning in [-1, 1]")
		bedPath  = fs.String("bed", "", "ambience recording (WAV, MP3, Ogg Vorbis or FLAC) mixed under the clip")
		bedGain  = fs.Float64("bed-gain", 0.3, "gain of the ambience bed in [0, 1]")
		out      = fs.String("o", synth.Filename, "output WAV file")
		play     = fs.Bool("play", false, "play the clip after writing it")
	)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	resolved, err := sel.resolve()
	if err != nil {
		return err
	}
	w, err := generators.ParseWaveform(*waveform)
	if err != nil {
		return errors.Wrap(errFlags, err.Error())
	}
	seconds, err := presets.ParseNumber(*duration)
	if err != nil {
		return errors.Wrap(err, "duration")
	}
	if seconds > env.cfg.MaxDuration {
		return errors.Wrapf(synth.ErrOutOfRange, "duration %v s exceeds the limit of %v s", seconds, env.cfg.MaxDuration)
	}
	req := synth.Request{
		BaseFreq: resolved.Base,
		BeatFreq: resolved.Beat,
		Waveform: w,
		Duration: seconds,
		Volume:   *volume,
		Panning:  *panning,
	}
	if *beat != "" {
		if req.BeatFreq, err = presets.ParseNumber(*beat); err != nil {
			return errors.Wrap(err, "beat frequency")
		}
	}
	if *bedPath != "" {
		if req.Bed, err = bed.Open(*bedPath, synth.SampleRate); err != nil {
			return err
		}
		req.BedGain = *bedGain
	}

	clip, err := synth.Render(req)
	if err != nil {
		return err
	}
	if err := writeFile(*out, clip.EncodeWAV); err != nil {
		return err
	}
	env.logger.Info("clip written",
		zap.String("file", *out),
		zap.Float64("base", req.BaseFreq),
		zap.Float64("beat", req.BeatFreq),
		zap.Stringer("waveform", req.Waveform),
		zap.Duration("duration", clip.Buffer().Duration()),
		zap.Bool("normalized", clip.Report.Normalized),
	)

	if !*play {
		return nil
	}
	if err := speaker.Init(synth.SampleRate, synth.SampleRate.N(time.Second/10)); err != nil {
		return err
	}
	defer speaker.Close()
	return speaker.PlayAndWait(ctx, clip.Streamer())
}

func runStill(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("still", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	var sel selection
	sel.register(fs)
	var (
		frequency = fs.String("frequency", "", "pattern frequency in Hz; empty uses the selected base frequency")
		hex       = fs.String("color", "", "fringe color as #RRGGBB; empty uses the selected color")
		out       = fs.String("o", cymatics.StillFilename, "output PNG file")
	)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	params, err := patternParams(&sel, *frequency, *hex)
	if err != nil {
		return err
	}
	if err := writeFile(*out, func(w io.Writer) error { return cymatics.EncodePNG(w, params) }); err != nil {
		return err
	}
	env.logger.Info("still written", zap.String("file", *out), zap.Float64("frequency", params.Frequency),
		zap.String("color", cymatics.Hex(params.Color)))
	return nil
}

func runAnimate(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("animate", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	var sel selection
	sel.register(fs)
	var (
		frequency = fs.String("frequency", "", "pattern frequency in Hz; empty uses the selected base frequency")
		speed     = fs.String("speed", "", "wave speed; empty uses the selected beat frequency")
		hex       = fs.String("color", "", "fringe color as #RRGGBB; empty uses the selected color")
		fps       = fs.Int("fps", env.cfg.AnimationFPS, "frames per second")
	)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	params, err := patternParams(&sel, *frequency, *hex)
	if err != nil {
		return err
	}
	if *speed != "" {
		if params.WaveSpeed, err = presets.ParseNumber(*speed); err != nil {
			return errors.Wrap(err, "speed")
		}
	}
	if *fps < 1 {
		return errors.Wrapf(errFlags, "fps must be positive, got %d", *fps)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "terminal")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "terminal")
	}
	defer screen.Fini()
	return tui.Run(ctx, screen, params, *fps)
}

// patternParams resolves sel and applies the frequency and color overrides. The wave speed
// is the beat frequency.
func patternParams(sel *selection, frequency, hex string) (cymatics.Params, error) {
	resolved, err := sel.resolve()
	if err != nil {
		return cymatics.Params{}, err
	}
	params := cymatics.Params{Frequency: resolved.Base, WaveSpeed: resolved.Beat, Color: resolved.Color}
	if frequency != "" {
		if params.Frequency, err = presets.ParseNumber(frequency); err != nil {
			return cymatics.Params{}, errors.Wrap(err, "frequency")
		}
	}
	if hex != "" {
		if params.Color, err = cymatics.ParseHex(hex); err != nil {
			return cymatics.Params{}, errors.Wrap(errFlags, err.Error())
		}
	}
	return params, nil
}

func runServe(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	cfg := *env.cfg
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.Float64Var(&cfg.MaxDuration, "max-duration", cfg.MaxDuration, "longest clip a request may render, in seconds")
	fs.IntVar(&cfg.AnimationFPS, "fps", cfg.AnimationFPS, "highest frame rate of animation streams")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(errFlags, err.Error())
	}
	return server.New(&cfg, env.logger, nil).Run(ctx)
}

func runPresets(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("presets", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	enc := json.NewEncoder(env.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(presets.All())
}

// writeFile creates path and fills it with encode. A failed encoding removes the file again.
func writeFile(path string, encode func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "output")
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "output")
		}
		if err != nil {
			os.Remove(path)
		}
	}()
	return encode(f)
}

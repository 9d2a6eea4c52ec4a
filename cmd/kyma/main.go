// Command kyma renders binaural-beat clips and cymatic patterns.
//
// Usage:
//
//	kyma generate [flags]   render a clip to a WAV file, optionally playing it
//	kyma still [flags]      render the still pattern to a PNG file
//	kyma animate [flags]    animate the pattern in the terminal
//	kyma serve [flags]      run the HTTP server
//	kyma presets            list the preset tables
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/kyma-sound/kyma/internal/config"
	"github.com/kyma-sound/kyma/internal/logging"
)

const usage = `usage: kyma <command> [flags]

commands:
  generate   render a binaural-beat clip to a WAV file
  still      render the still pattern to a PNG file
  animate    animate the pattern in the terminal
  serve      run the HTTP server
  presets    list the solfeggio, brainwave and intention presets
`

type command func(ctx context.Context, env *environment, args []string) error

var commands = map[string]command{
	"generate": runGenerate,
	"still":    runStill,
	"animate":  runAnimate,
	"serve":    runServe,
	"presets":  runPresets,
}

// environment is what every command gets besides its flags.
type environment struct {
	cfg    *config.Config
	logger *zap.Logger
	stdout io.Writer
	stderr io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "kyma: unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	logger, err := logging.New(cfg.LogLevel, args[0] != "serve")
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := &environment{cfg: cfg, logger: logger, stdout: stdout, stderr: stderr}
	if err := cmd(ctx, env, args[1:]); err != nil {
		if errors.Is(err, errHelp) {
			return 0
		}
		if isUsage(err) {
			fmt.Fprintf(stderr, "kyma %s: %v\n", args[0], err)
			return 2
		}
		logger.Error("command failed", zap.String("command", args[0]), zap.Error(err))
		return 1
	}
	return 0
}

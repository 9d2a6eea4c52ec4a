// Package config loads the settings of the kyma host surfaces from the environment.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Config is the runtime configuration of the kyma server and CLI.
type Config struct {
	Addr           string   // KYMA_ADDR
	LogLevel       string   // KYMA_LOG_LEVEL: debug, info, warn or error
	MaxDuration    float64  // KYMA_MAX_DURATION, seconds of audio a single request may render
	AnimationFPS   int      // KYMA_ANIMATION_FPS, upper bound of streamed frame rates
	AllowedOrigins []string // KYMA_ALLOWED_ORIGINS, comma separated
}

// Load reads the configuration from the environment, falling back to defaults for unset
// variables.
func Load() (*Config, error) {
	maxDuration, err := getEnvFloat("KYMA_MAX_DURATION", 600)
	if err != nil {
		return nil, err
	}
	fps, err := getEnvInt("KYMA_ANIMATION_FPS", 30)
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		Addr:           getEnv("KYMA_ADDR", ":8080"),
		LogLevel:       getEnv("KYMA_LOG_LEVEL", "info"),
		MaxDuration:    maxDuration,
		AnimationFPS:   fps,
		AllowedOrigins: splitList(getEnv("KYMA_ALLOWED_ORIGINS", "*")),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values which may also have been overridden by flags.
func (c *Config) Validate() error {
	if !(c.MaxDuration > 0) {
		return errors.Errorf("config: max duration must be positive, got %v", c.MaxDuration)
	}
	if c.AnimationFPS < 1 || c.AnimationFPS > 120 {
		return errors.Errorf("config: animation fps must be within [1, 120], got %d", c.AnimationFPS)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(err, "config: %s", key)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	x, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "config: %s", key)
	}
	return x, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

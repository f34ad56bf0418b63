// Package config loads playground settings from CHOICECORE_* environment
// variables. Command-line flags override what is loaded here.
package config

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Prefix is prepended to every variable name.
const Prefix = "CHOICECORE_"

// Config holds the playground settings.
type Config struct {
	GameDir     string `env:"GAME_DIR"`
	Seed        int64  `env:"SEED"`
	DrawSize    int    `env:"DRAW_SIZE" envDefault:"3"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"warn"`
	LogEncoding string `env:"LOG_ENCODING" envDefault:"console"`
}

// Load parses the process environment.
func Load() (Config, error) {
	return parse(env.Options{Prefix: Prefix})
}

// LoadFrom parses vars instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that env parsing cannot.
func (c Config) Validate() error {
	if c.DrawSize < 1 {
		return fmt.Errorf("draw size must be at least 1, got %d", c.DrawSize)
	}
	return nil
}

// NewSeed returns a seed from crypto/rand for runs that should not repeat.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

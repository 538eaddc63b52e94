package constants

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/jsphweid/quint/bartime"
)

// Config is read from the environment. Command flags override it.
type Config struct {
	ServeAddr       string   `env:"QUINT_SERVE_ADDR" envDefault:":8080"`
	CorsOrigins     []string `env:"QUINT_CORS_ORIGINS" envDefault:"*" envSeparator:","`
	DefaultCapacity string   `env:"QUINT_DEFAULT_CAPACITY" envDefault:"4/1"`
	MaxVoices       int      `env:"QUINT_MAX_VOICES" envDefault:"4"`
	MediaPath       string   `env:"QUINT_MEDIA_PATH"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if _, err := cfg.Capacity(); err != nil {
		return Config{}, fmt.Errorf("parse env: QUINT_DEFAULT_CAPACITY: %w", err)
	}
	if cfg.MaxVoices < 1 {
		return Config{}, fmt.Errorf("parse env: QUINT_MAX_VOICES must be at least 1, got %d", cfg.MaxVoices)
	}
	return cfg, nil
}

// Capacity parses DefaultCapacity.
func (c Config) Capacity() (*bartime.Time, error) {
	return bartime.Parse(c.DefaultCapacity)
}

func (c Config) GetMediaDir() string {
	if c.MediaPath != "" {
		return c.MediaPath
	}
	return "."
}

// DefaultResolution is the ticks per quarter note of exported files.
const DefaultResolution = 480

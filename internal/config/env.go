package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Runtime holds process-level settings read from the environment.
// Command-line flags take precedence over these values.
type Runtime struct {
	Seed     int64  `env:"WAVEKIT_SEED" envDefault:"0"`
	TickRate int    `env:"WAVEKIT_FPS" envDefault:"60"`
	DBPath   string `env:"WAVEKIT_DB" envDefault:"~/.wavekit/runs.db"`
	LogLevel string `env:"WAVEKIT_LOG_LEVEL" envDefault:"info"`
}

// LoadRuntime parses Runtime from environment variables.
func LoadRuntime() (Runtime, error) {
	var rt Runtime
	if err := env.Parse(&rt); err != nil {
		return Runtime{}, fmt.Errorf("config: parse env: %w", err)
	}
	if rt.TickRate <= 0 {
		return Runtime{}, fmt.Errorf("config: WAVEKIT_FPS must be > 0, got %d", rt.TickRate)
	}
	return rt, nil
}

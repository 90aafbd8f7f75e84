// Package config loads server configuration from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable the server reads at startup.
type Config struct {
	RedisAddr    string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisUseTLS  bool   `env:"REDIS_USE_TLS" envDefault:"false"`
	CatalogDir   string `env:"CATALOG_DIR" envDefault:"assets"`
	SnapshotPath string `env:"SNAPSHOT_PATH" envDefault:"data/players.json"`

	// SweepInterval drives the auction, wager, and idle-session sweeps
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`

	BattleIdleTimeout time.Duration `env:"BATTLE_IDLE_TIMEOUT" envDefault:"2m"`
	HuntIdleTimeout   time.Duration `env:"HUNT_IDLE_TIMEOUT" envDefault:"2h"`

	// RNGSeed of 0 seeds from the wall clock
	RNGSeed int64 `env:"RNG_SEED" envDefault:"0"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

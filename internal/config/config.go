package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds bot configuration loaded from environment variables.
type Config struct {
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFile       string        `env:"LOG_FILE"`
	Strategy      string        `env:"BOT_STRATEGY" envDefault:"wait"`
	MatchID       string        `env:"MATCH_ID"`
	Seed          int64         `env:"BOT_SEED"`
	TuningFile    string        `env:"TUNING_FILE"`
	DatabaseURL   string        `env:"DATABASE_URL"`
	RedisURL      string        `env:"REDIS_URL"`
	StreamURL     string        `env:"STREAM_URL"`
	StreamSecret  string        `env:"STREAM_SECRET"`
	RecordTimeout time.Duration `env:"RECORD_TIMEOUT" envDefault:"2s"`
}

// Load reads configuration from environment variables. A match id is
// generated when none is given.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.MatchID == "" {
		cfg.MatchID = newMatchID()
	}
	if cfg.RecordTimeout <= 0 {
		return nil, fmt.Errorf("RECORD_TIMEOUT must be positive, got %s", cfg.RecordTimeout)
	}
	return &cfg, nil
}

func newMatchID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("m%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

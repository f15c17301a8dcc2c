// Package config reads server settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
	DriverMemory = "memory"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port     string `env:"PORT"      envDefault:"5175"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"sqlite"`
	DBPath      string `env:"DB_PATH"      envDefault:"./data/wordrush.db"`
	BoltPath    string `env:"BOLT_PATH"    envDefault:"./data/wordrush.bolt"`

	WordsFile    string `env:"WORDS_FILE"`
	DailyFile    string `env:"DAILY_FILE"`
	TimeZone     string `env:"DAILY_TZ"            envDefault:"Europe/Istanbul"`
	FallbackWord string `env:"DAILY_FALLBACK_WORD" envDefault:"MESAJ"`

	JWTSecret    string        `env:"JWT_SECRET"   envDefault:"dev_secret_change_me"`
	TokenTTL     time.Duration `env:"TOKEN_TTL"    envDefault:"4320h"`
	CookieName   string        `env:"COOKIE_NAME"  envDefault:"wordrush_player"`
	ClientOrigin string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	Production   bool          `env:"PRODUCTION"`

	// PlayerIdleTTL is how long an untouched player stays in memory.
	// Preferences are persisted, so an evicted player resumes from the store.
	PlayerIdleTTL time.Duration `env:"PLAYER_IDLE_TTL" envDefault:"24h"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses Config and rejects an unknown store driver.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	switch cfg.StoreDriver {
	case DriverSQLite, DriverBolt, DriverMemory:
	default:
		return Config{}, fmt.Errorf("config: unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	return cfg, nil
}

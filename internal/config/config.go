package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver   string `env:"DB_DRIVER,default=sqlite"`
	DBHost     string `env:"DB_HOST,default=localhost"`
	DBPort     string `env:"DB_PORT,default=3306"`
	DBUser     string `env:"DB_USER,default=planner"`
	DBPassword string `env:"DB_PASSWORD,default=planner"`
	DBName     string `env:"DB_NAME,default=daily_planner"`
	DBPath     string `env:"DB_PATH,default=instance/planner.db"`

	RedisHost     string `env:"REDIS_HOST,default=localhost"`
	RedisPort     string `env:"REDIS_PORT,default=6379"`
	SessionStore  string `env:"SESSION_STORE,default=cookie"`
	SessionSecret string `env:"SESSION_SECRET,default=default-secret-key-change-me"`

	GinMode  string `env:"GIN_MODE,default=debug"`
	HTTPAddr string `env:"HTTP_ADDR,default=:8080"`
	Timezone string `env:"TIMEZONE,default=Local"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`

	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT,default=1"`
	AuthRateBurst int     `env:"AUTH_RATE_BURST,default=5"`

	// ScoreAuditSchedule is a cron spec; empty disables the audit job.
	ScoreAuditSchedule string `env:"SCORE_AUDIT_SCHEDULE,default=@daily"`

	LeaderboardExtendedBadges bool `env:"LEADERBOARD_EXTENDED_BADGES,default=false"`
}

// Load reads configuration from the environment, after loading envFile
// when it exists.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Location resolves the configured time zone used to decide "today".
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

/* config.go
 * Loads runtime configuration from an optional .env file and the process environment
 */

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"scoreline-bot/api/format"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds every setting read from the environment
type Config struct {
	DiscordToken   string        `env:"DISCORD_TOKEN"`
	MongoURI       string        `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB        string        `env:"MONGO_DB" envDefault:"scoreline"`
	RedisURL       string        `env:"REDIS_URL"`
	CacheTTL       time.Duration `env:"CACHE_TTL" envDefault:"24h"`
	CacheSize      int           `env:"CACHE_SIZE" envDefault:"1024"`
	HTTPAddr       string        `env:"HTTP_ADDR" envDefault:":8080"`
	DefaultFormat  string        `env:"DEFAULT_FORMAT" envDefault:"SET3-S:6/TB7"`
	ParseRateLimit float64       `env:"PARSE_RATE_LIMIT" envDefault:"20"`
	ParseRateBurst int           `env:"PARSE_RATE_BURST" envDefault:"40"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads files (".env" when none are given) into the environment, then decodes and validates the Config.
// A missing file is not an error; variables already set in the environment take precedence.
// Preconditions: none
// Postconditions: returns the Config, or an error describing the first invalid setting
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings env tags cannot express
func (c *Config) Validate() error {
	if _, err := format.Parse(format.Resolve(c.DefaultFormat)); err != nil {
		return fmt.Errorf("DEFAULT_FORMAT: %w", err)
	}
	if c.ParseRateLimit <= 0 || c.ParseRateBurst <= 0 {
		return fmt.Errorf("PARSE_RATE_LIMIT and PARSE_RATE_BURST must be positive")
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("CACHE_SIZE must not be negative")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return nil
}

// Level returns the configured log level, defaulting to info
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// Package config reads the service configuration from SPYCAT_* environment
// variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/oKhodus/spy-cat/internal/logger"
	"github.com/oKhodus/spy-cat/internal/repositories"
)

type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	DBDriver string `env:"DB_DRIVER" envDefault:"mysql"`
	DBDSN    string `env:"DB_DSN" envDefault:"user:password@/spycatagency"`

	CatAPIURL        string        `env:"CATAPI_URL" envDefault:"https://api.thecatapi.com/v1/breeds"`
	CatAPIKey        string        `env:"CATAPI_KEY"`
	CatAPIMaxRetries uint          `env:"CATAPI_MAX_RETRIES" envDefault:"1"`
	CatAPIRetryDelay time.Duration `env:"CATAPI_RETRY_DELAY" envDefault:"1s"`
	CatAPITimeout    time.Duration `env:"CATAPI_TIMEOUT" envDefault:"5s"`
	BreedCacheTTL    time.Duration `env:"BREED_CACHE_TTL" envDefault:"1h"`
	RedisURL         string        `env:"REDIS_URL"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

const envPrefix = "SPYCAT_"

func Load() (Config, error) {
	return parse(env.Options{Prefix: envPrefix})
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

func (c Config) Validate() error {
	if _, err := repositories.ParseDialect(c.DBDriver); err != nil {
		return err
	}
	if strings.TrimSpace(c.DBDSN) == "" {
		return fmt.Errorf("database dsn is required")
	}
	if strings.TrimSpace(c.CatAPIURL) == "" {
		return fmt.Errorf("cat api url is required")
	}
	if c.CatAPITimeout <= 0 {
		return fmt.Errorf("cat api timeout must be positive")
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format %q", c.LogFormat)
	}
	return nil
}

func (c Config) Dialect() repositories.Dialect {
	d, _ := repositories.ParseDialect(c.DBDriver)
	return d
}

func (c Config) Logger() logger.Config {
	return logger.Config{Level: c.LogLevel, Format: c.LogFormat}
}

package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

func (e Environment) IsProduction() bool {
	return e == Production
}

type API struct {
	URL     string        `default:"https://auth-backend-4ojx.onrender.com"`
	Timeout time.Duration `default:"10s"`
}

type Config struct {
	Env        Environment `envconfig:"APP_ENV" default:"development"`
	LogLevel   string      `split_words:"true"`
	ServerPort string      `split_words:"true" default:"8080"`

	API API

	// CookieSecure marks session cookies Secure; enable behind TLS.
	CookieSecure bool `split_words:"true"`

	// StateFile is where the terminal client keeps its credentials.
	// Empty means the user config dir.
	StateFile string `split_words:"true"`
}

func Load() (*Config, error) {
	// Load .env file if it exists (useful for local dev)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	u, err := url.Parse(cfg.API.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("API_URL must be an absolute URL, got %q", cfg.API.URL)
	}

	switch cfg.Env {
	case Development, Testing, Production:
	default:
		cfg.Env = Development
	}

	return &cfg, nil
}

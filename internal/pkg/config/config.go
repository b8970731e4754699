package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	LogsPath   string `env:"MATTERLOGSERVER_LOGS_PATH" envDefault:"./logs"`
	ProxyLevel int    `env:"MATTERLOGSERVER_PROXY_LEVEL" envDefault:"0"` // number of trusted reverse proxies
	BaseURL    string `env:"MATTERLOGSERVER_BASE_URL"`                   // public URL of the logs root, for raw links

	ServerAddr   string        `env:"SERVER_ADDR" envDefault:":8080"`
	AdminAddr    string        `env:"ADMIN_ADDR" envDefault:":9091"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"60s"` // searches scan the whole history
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT" envDefault:"30s"`

	SearchRateLimit     float64       `env:"SEARCH_RATE_LIMIT" envDefault:"2"` // searches per second per client; with Redis, enforced per second and per minute
	SearchRateBurst     int           `env:"SEARCH_RATE_BURST" envDefault:"5"`
	RedisAddr           string        `env:"REDIS_ADDR"` // optional, shares the search limit across replicas
	RedisHealthInterval time.Duration `env:"REDIS_HEALTH_INTERVAL" envDefault:"5s"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

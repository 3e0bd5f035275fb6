package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all server configuration, loaded from SNEAKER_* environment
// variables.
type Config struct {
	Server ServerConfig `envconfig:"SERVER"`
	DB     DBConfig     `envconfig:"DB"`
	Auth   AuthConfig   `envconfig:"AUTH"`
	Log    LogConfig    `envconfig:"LOG"`
}

type ServerConfig struct {
	Addr              string        `envconfig:"ADDR" default:":8000"`
	CORSOrigin        string        `envconfig:"CORS_ORIGIN" default:"http://localhost:4200"`
	ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"10s"`
	ReadTimeout       time.Duration `envconfig:"READ_TIMEOUT" default:"30s"`
	WriteTimeout      time.Duration `envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout       time.Duration `envconfig:"IDLE_TIMEOUT" default:"120s"`
	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
}

type DBConfig struct {
	Path string `envconfig:"PATH" default:"sneaker-engine.sqlite3"`
}

type AuthConfig struct {
	// Secret overrides the database-persisted signing secret when set.
	Secret      string        `envconfig:"SECRET" default:""`
	TokenExpiry time.Duration `envconfig:"TOKEN_EXPIRY" default:"168h"`
}

type LogConfig struct {
	Level string `envconfig:"LEVEL" default:"info"`
	File  string `envconfig:"FILE" default:""`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("SNEAKER", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.DB.Path == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if c.Auth.TokenExpiry <= 0 {
		return fmt.Errorf("token expiry must be positive, got %s", c.Auth.TokenExpiry)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}

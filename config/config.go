package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	DBDriver        string        `env:"DB_DRIVER" envDefault:"postgres"`
	DBURL           string        `env:"DB_URL,required,notEmpty"`
	JWTSecret       string        `env:"JWT_SECRET"`
	CORSOrigin      string        `env:"CORS_ORIGIN" envDefault:"*"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	GinMode         string        `env:"GIN_MODE" envDefault:"debug"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// LoadEnv reads an optional .env file and then the process environment.
func LoadEnv() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	} else {
		log.Println("No .env file found. Using system environment variables.")
	}

	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	switch cfg.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("config error: unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		return nil, fmt.Errorf("config error: unsupported GIN_MODE %q", cfg.GinMode)
	}

	return cfg, nil
}

// WritesProtected reports whether mutating routes require a bearer token.
func (c *Config) WritesProtected() bool {
	return c.JWTSecret != ""
}

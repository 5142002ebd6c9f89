// Package config reads service settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const DefaultEnvFile = ".env"

type Config struct {
	ServiceName string
	Env         string
	HTTPAddr    string

	LogLevel string
	LogFile  string

	// RedisAddr selects the Redis catalog when set.
	RedisAddr string
	// DatabaseURL selects the Postgres order store when set.
	DatabaseURL string

	OTLPEndpoint string

	PaymentMethod      string
	PaymentSuccessRate float64

	ShutdownTimeout time.Duration
}

// Lookup matches os.LookupEnv.
type Lookup func(key string) (string, bool)

// Load applies the given .env files (missing files are skipped) and then
// reads the process environment. Variables already set take precedence over
// the files.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return FromLookup(os.LookupEnv)
}

func FromLookup(lookup Lookup) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		ServiceName:   get("SERVICE_NAME", "jewelshop"),
		Env:           get("ENV", "dev"),
		HTTPAddr:      get("HTTP_ADDR", ":8080"),
		LogLevel:      get("LOG_LEVEL", "info"),
		LogFile:       get("LOG_FILE", ""),
		RedisAddr:     get("REDIS_ADDR", ""),
		DatabaseURL:   get("DATABASE_URL", ""),
		OTLPEndpoint:  get("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		PaymentMethod: get("PAYMENT_METHOD", "simulated"),
	}

	rate, err := strconv.ParseFloat(get("PAYMENT_SUCCESS_RATE", "0.7"), 64)
	if err != nil {
		return nil, fmt.Errorf("config: PAYMENT_SUCCESS_RATE: %w", err)
	}
	if rate < 0 || rate > 1 {
		return nil, fmt.Errorf("config: PAYMENT_SUCCESS_RATE must be within [0, 1], got %v", rate)
	}
	cfg.PaymentSuccessRate = rate

	timeout, err := time.ParseDuration(get("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("config: SHUTDOWN_TIMEOUT: %w", err)
	}
	cfg.ShutdownTimeout = timeout

	return cfg, nil
}

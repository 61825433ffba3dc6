// Package config loads client configuration from an optional env file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvAPIURL       = "PADDLEBOT_API_URL"
	EnvTokenDB      = "PADDLEBOT_TOKEN_DB"
	EnvAnonFallback = "PADDLEBOT_ANON_FALLBACK"
	EnvTimeout      = "PADDLEBOT_TIMEOUT"
)

// Config is the client configuration.
type Config struct {
	// APIURL is the platform origin, e.g. https://play.paddlebot.dev.
	APIURL string
	// TokenDBPath is where the credential pair persists.
	TokenDBPath string
	// AnonFallback controls whether requests without a stored access
	// token go out unauthenticated instead of failing fast.
	AnonFallback bool
	// Timeout bounds each HTTP request. Zero means no client timeout.
	Timeout time.Duration
}

// Default returns a Config with sensible defaults. The token database
// lives under the user config directory.
func Default() Config {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return Config{
		APIURL:       "http://localhost:8000",
		TokenDBPath:  filepath.Join(dir, "paddlebot", "tokens.db"),
		AnonFallback: true,
		Timeout:      30 * time.Second,
	}
}

// Load builds the configuration from defaults, an optional env file and
// the environment, in increasing precedence. A missing env file is not
// an error; an unreadable one is.
func Load(envFile string) (Config, error) {
	cfg := Default()

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("loading env file %s: %w", envFile, err)
			}
		}
	}

	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv(EnvTokenDB); v != "" {
		cfg.TokenDBPath = v
	}
	if v := os.Getenv(EnvAnonFallback); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", EnvAnonFallback, err)
		}
		cfg.AnonFallback = b
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config holds process-level settings resolved from the environment.
// Command-line flags take precedence over these.
type Config struct {
	// DataDir holds the two stream files (request.log, receipt.log).
	DataDir string `env:"SIGNOFF_DATA_DIR"`
	// PolicyPath points at an optional policy catalog YAML.
	PolicyPath string `env:"SIGNOFF_POLICY_PATH"`
	// Reviewer is the default reviewed_by identity for CLI reviews.
	Reviewer string `env:"SIGNOFF_REVIEWER"`
}

// FromEnv loads configuration from environment variables, falling back to
// the default data directory.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir()
	}
	return cfg, nil
}

// DefaultDataDir returns the default location for the stream files.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "signoff")
	}
	return filepath.Join(home, ".signoff")
}

// RequestLogPath returns the request stream file path.
func (c Config) RequestLogPath() string {
	return filepath.Join(c.DataDir, "request.log")
}

// ReceiptLogPath returns the receipt stream file path.
func (c Config) ReceiptLogPath() string {
	return filepath.Join(c.DataDir, "receipt.log")
}

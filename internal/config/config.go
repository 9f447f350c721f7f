// Package config loads scoring run settings from a YAML file, a .env file
// and WALLET_SCORE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DotEnvFile is read from the working directory when present.
const DotEnvFile = ".env"

// Config holds optional run settings. Scoring weights are not configurable.
type Config struct {
	FeaturesOut string `yaml:"features_out" env:"WALLET_SCORE_FEATURES_OUT"`
	ReportOut   string `yaml:"report_out"   env:"WALLET_SCORE_REPORT_OUT"`
	ManifestOut string `yaml:"manifest_out" env:"WALLET_SCORE_MANIFEST_OUT"`
	MetricsFile string `yaml:"metrics_file" env:"WALLET_SCORE_METRICS_FILE"`
	Verbose     bool   `yaml:"verbose"      env:"WALLET_SCORE_VERBOSE"`
	Namespace   string `yaml:"namespace"    env:"WALLET_SCORE_METRICS_NAMESPACE"`
}

// Load reads config from path (skipped when empty), then .env, then
// applies environment variable overrides. Values already in the process
// environment win over .env entries.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

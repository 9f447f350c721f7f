package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest records what produced a scores file, for reproducibility.
type Manifest struct {
	GeneratorVersion string          `yaml:"generator_version"`
	ModelVersion     string          `yaml:"model_version"`
	DataVersion      string          `yaml:"data_version"`
	GeneratedAt      string          `yaml:"generated_at"`
	Input            string          `yaml:"input,omitempty"`
	Counts           ManifestCounts  `yaml:"counts"`
	Outputs          ManifestOutputs `yaml:"outputs"`
}

// ManifestCounts holds record and wallet counts of a run.
type ManifestCounts struct {
	RecordsLoaded  int            `yaml:"records_loaded"`
	RecordsSkipped map[string]int `yaml:"records_skipped"`
	WalletsScored  int            `yaml:"wallets_scored"`
}

// ManifestOutputs lists the files a run wrote.
type ManifestOutputs struct {
	Scores   string `yaml:"scores"`
	Features string `yaml:"features,omitempty"`
	Report   string `yaml:"report,omitempty"`
}

// MarshalManifest encodes m as YAML.
func MarshalManifest(m *Manifest) ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// LoadManifest reads a manifest written by a previous run.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults for a locally-run ingestion server.
const (
	DefaultPort       = 3101
	DefaultLogDir     = "logs"
	DefaultFilePrefix = "lorafactory"
)

// Config holds the server settings. All fields are optional in the YAML
// file; unset fields keep their defaults.
type Config struct {
	Port       int    `yaml:"port"`
	LogDir     string `yaml:"log_dir"`
	FilePrefix string `yaml:"file_prefix"`
}

// Default returns a Config with every field set to its default value.
func Default() Config {
	return Config{
		Port:       DefaultPort,
		LogDir:     DefaultLogDir,
		FilePrefix: DefaultFilePrefix,
	}
}

// Load reads a YAML config file. Fields absent from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

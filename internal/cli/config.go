package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is looked up in the working directory when --db is not
// given.
const ConfigFileName = "strata.yaml"

// Config holds defaults read from a strata.yaml file. Flags always win
// over config values.
type Config struct {
	Database string `yaml:"database"`
	Format   string `yaml:"format"`
}

// LoadConfig reads a config file. A missing file is not an error and
// yields a zero Config.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

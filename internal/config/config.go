package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config interface {
	EnvConfig
	APIConfig
	StoreConfig
	MockConfig
}

type mainConfig struct {
	EnvVars `yaml:"app"`
	API     `yaml:"api"`
	Store   `yaml:"store"`
	Mock    `yaml:"mock"`
}

// Load reads configuration in priority order: an explicit YAML path, then
// CONFIG_PATH, then environment variables only. Environment variables are
// always overlaid on top of a file.
func Load(path string) (Config, error) {
	var cfg mainConfig

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read env: %w", err)
	}
	return &cfg, nil
}

// MustLoad is Load that panics on error.
func MustLoad(path string) Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSeedURL  = "https://www.nytimes.com/"
	DefaultAddURL   = "https://www.nytimes.com/"
	DefaultEnforce  = "always"
	DefaultTheme    = "minimal"
	DefaultLogLevel = "info"
)

type Config struct {
	Scenes   ScenesConfig   `yaml:"scenes"`
	Reactive ReactiveConfig `yaml:"reactive"`
	UI       UIConfig       `yaml:"ui"`
	Log      LogConfig      `yaml:"log"`
}

type ScenesConfig struct {
	Seed   []string `yaml:"seed"`
	AddURL string   `yaml:"add_url"`
}

type ReactiveConfig struct {
	Enforce string `yaml:"enforce"`
}

type UIConfig struct {
	Theme string `yaml:"theme"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenes: ScenesConfig{
			Seed:   []string{DefaultSeedURL},
			AddURL: DefaultAddURL,
		},
		Reactive: ReactiveConfig{Enforce: DefaultEnforce},
		UI:       UIConfig{Theme: DefaultTheme},
		Log:      LogConfig{Level: DefaultLogLevel},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the scene settings. Enforce mode, theme and log level are
// checked by the packages that consume them.
func (c *Config) Validate() error {
	if c.Scenes.AddURL == "" {
		return errors.New("scenes.add_url must not be empty")
	}
	seen := make(map[string]bool, len(c.Scenes.Seed))
	for _, u := range c.Scenes.Seed {
		if u == "" {
			return errors.New("scenes.seed contains an empty url")
		}
		if seen[u] {
			return fmt.Errorf("scenes.seed lists %q twice", u)
		}
		seen[u] = true
	}
	return nil
}

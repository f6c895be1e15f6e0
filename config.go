package dsync

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds scheduler tuning. Use DefaultConfig or LoadConfig to obtain a
// filled one.
type Config struct {
	// TickRate is the interval between scheduler ticks.
	TickRate time.Duration

	// Workers is the size of the worker pool used for parallel system
	// batches. Defaults to GOMAXPROCS.
	Workers int
}

// UnmarshalYAML decodes a config document. tick_rate takes Go duration
// syntax ("50ms", "1s").
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		TickRate string `yaml:"tick_rate"`
		Workers  int    `yaml:"workers"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if raw.TickRate != "" {
		d, err := time.ParseDuration(raw.TickRate)
		if err != nil {
			return fmt.Errorf("tick_rate: %w", err)
		}
		c.TickRate = d
	}
	c.Workers = raw.Workers
	return nil
}

// DefaultConfig returns the standard 20 ticks-per-second configuration.
func DefaultConfig() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.TickRate <= 0 {
		c.TickRate = 50 * time.Millisecond
	}
	if c.Workers < 1 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
}

// LoadConfig reads a YAML config file. Missing fields fall back to defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

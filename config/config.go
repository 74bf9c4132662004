// Package config loads the application configuration from a YAML or JSON
// file with optional environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/taxifleet/core/fleet"
	"github.com/kilianp07/taxifleet/core/metrics"
	"github.com/kilianp07/taxifleet/infra/telemetry"
)

type Config struct {
	Taxi       fleet.TaxiConfig       `json:"taxi"`
	Passenger  fleet.PassengerConfig  `json:"passenger"`
	Dispatcher fleet.DispatcherConfig `json:"dispatcher"`
	Simulation SimulationConfig       `json:"simulation"`
	Metrics    metrics.Config         `json:"metrics"`
	Telemetry  telemetry.Config       `json:"telemetry"`
	API        APIConfig              `json:"api"`
}

// Load reads the file at path, applies TAXI_-prefixed environment overrides
// (double underscore as the key separator), then defaults and validation.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("TAXI_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "taxi_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies defaults to every section.
func (c *Config) SetDefaults() {
	c.Taxi.SetDefaults()
	c.Passenger.SetDefaults()
	c.Dispatcher.SetDefaults()
	c.Simulation.SetDefaults()
	c.Metrics.SetDefaults()
	c.Telemetry.SetDefaults()
	c.API.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Taxi.Validate(); err != nil {
		return fmt.Errorf("taxi: %w", err)
	}
	if err := c.Passenger.Validate(); err != nil {
		return fmt.Errorf("passenger: %w", err)
	}
	if err := c.Dispatcher.Validate(); err != nil {
		return fmt.Errorf("dispatcher: %w", err)
	}
	if err := c.Simulation.Validate(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

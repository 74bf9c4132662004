package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "config.yaml", `taxi:
  speed: 12
  stopping_distance: 1
  brake_distance: 3
passenger:
  start_delay_seconds: 2
  retry_backoff_seconds: 4
  max_wait_seconds: 60
dispatcher:
  retry_interval_seconds: 10
simulation:
  surface_width: 200
  surface_height: 150
  taxis: 8
  seed: 42
metrics:
  prometheus_enabled: true
  prometheus_port: 9300
telemetry:
  enabled: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"taxi.speed", cfg.Taxi.Speed, 12.0},
		{"taxi.stopping_distance", cfg.Taxi.StoppingDistance, 1.0},
		{"taxi.brake_distance", cfg.Taxi.BrakeDistance, 3.0},
		{"taxi.max_brake_seconds default", cfg.Taxi.MaxBrakeSeconds, 2.0},
		{"passenger.start_delay", cfg.Passenger.StartDelaySeconds, 2.0},
		{"passenger.retry_backoff", cfg.Passenger.RetryBackoffSeconds, 4.0},
		{"passenger.max_wait", cfg.Passenger.MaxWaitSeconds, 60.0},
		{"dispatcher.retry_interval", cfg.Dispatcher.RetryIntervalSeconds, 10.0},
		{"simulation.surface_width", cfg.Simulation.SurfaceWidth, 200.0},
		{"simulation.surface_height", cfg.Simulation.SurfaceHeight, 150.0},
		{"simulation.taxis", cfg.Simulation.Taxis, 8},
		{"simulation.seed", cfg.Simulation.Seed, int64(42)},
		{"simulation.tick_ms default", cfg.Simulation.TickMS, 100},
		{"metrics.prometheus_port", cfg.Metrics.PrometheusPort, 9300},
		{"telemetry.enabled", cfg.Telemetry.Enabled, false},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %v want %v", c.name, c.got, c.want)
		}
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{"simulation": {"taxis": 3}}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Simulation.Taxis != 3 {
		t.Fatalf("taxis: got %d", cfg.Simulation.Taxis)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := writeConfig(t, "config.toml", "")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", `simulation:
  taxis: 2
`)
	t.Setenv("TAXI_SIMULATION__TAXIS", "7")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Simulation.Taxis != 7 {
		t.Fatalf("env override not applied, taxis=%d", cfg.Simulation.Taxis)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, "config.yaml", `taxi:
  speed: -1
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestSimulationValidate(t *testing.T) {
	var c SimulationConfig
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	c.CellSize = 500
	if err := c.Validate(); err == nil {
		t.Fatalf("cell larger than surface should fail")
	}
}

// Package scenarios runs scripted fleet scenarios described in YAML files.
// Scenarios fix every spawn time and position so the outcome is
// deterministic and can be asserted.
package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/taxifleet/core/model"
)

type PointDef struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (p PointDef) ToModel() model.Point {
	return model.Point{X: p.X, Y: p.Y}
}

type TaxiDef struct {
	ID       string   `yaml:"id"`
	Position PointDef `yaml:"position"`
}

type PassengerDef struct {
	ID string `yaml:"id"`
	// SpawnAfterSeconds is the simulated time at which the passenger appears.
	SpawnAfterSeconds float64  `yaml:"spawn_after_seconds"`
	Pickup            PointDef `yaml:"pickup"`
	Dropoff           PointDef `yaml:"dropoff"`
}

type ObstacleDef struct {
	Min PointDef `yaml:"min"`
	Max PointDef `yaml:"max"`
}

type Expected struct {
	Completed int `yaml:"completed"`
	Cancelled int `yaml:"cancelled"`
}

type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	SurfaceWidth    float64 `yaml:"surface_width"`
	SurfaceHeight   float64 `yaml:"surface_height"`
	CellSize        float64 `yaml:"cell_size"`
	DurationSeconds float64 `yaml:"duration_seconds"`

	TaxiSpeed         float64 `yaml:"taxi_speed,omitempty"`
	MaxWaitSeconds    float64 `yaml:"max_wait_seconds,omitempty"`
	StartDelaySeconds float64 `yaml:"start_delay_seconds,omitempty"`
	RetryBackoffSecs  float64 `yaml:"retry_backoff_seconds,omitempty"`
	RetryIntervalSecs float64 `yaml:"retry_interval_seconds,omitempty"`

	Taxis      []TaxiDef      `yaml:"taxis"`
	Passengers []PassengerDef `yaml:"passengers"`
	Obstacles  []ObstacleDef  `yaml:"obstacles,omitempty"`
	Expected   Expected       `yaml:"expected"`
}

// Load reads a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	sc.setDefaults()
	return &sc, nil
}

func (sc *Scenario) setDefaults() {
	if sc.SurfaceWidth == 0 {
		sc.SurfaceWidth = 100
	}
	if sc.SurfaceHeight == 0 {
		sc.SurfaceHeight = 100
	}
	if sc.CellSize == 0 {
		sc.CellSize = 5
	}
	if sc.DurationSeconds == 0 {
		sc.DurationSeconds = 120
	}
}

package config

import (
	"fmt"
	"time"
)

// SimulationConfig defines the world geometry and the tick loop timing.
type SimulationConfig struct {
	// SurfaceWidth and SurfaceHeight are the world dimensions in surface units.
	SurfaceWidth  float64 `json:"surface_width"`
	SurfaceHeight float64 `json:"surface_height"`
	// CellSize is the navigable grid resolution.
	CellSize float64 `json:"cell_size"`
	// SnapRadius bounds destination snapping onto the navigable surface.
	SnapRadius float64 `json:"snap_radius"`
	// Taxis is the fleet size.
	Taxis int `json:"taxis"`
	// SpawnIntervalSeconds is the mean delay between passenger spawns.
	SpawnIntervalSeconds float64 `json:"spawn_interval_seconds"`
	// MaxPassengers caps the number of live passengers; zero means no cap.
	MaxPassengers int `json:"max_passengers"`
	// TickMS is the simulated step size and wall-clock tick period.
	TickMS int `json:"tick_ms"`
	// DurationSeconds stops the run after this much simulated time;
	// zero runs until interrupted.
	DurationSeconds float64 `json:"duration_seconds"`
	// Seed fixes the random source; zero seeds from the clock.
	Seed int64 `json:"seed"`
}

// SetDefaults applies sane defaults.
func (c *SimulationConfig) SetDefaults() {
	if c.SurfaceWidth == 0 {
		c.SurfaceWidth = 100
	}
	if c.SurfaceHeight == 0 {
		c.SurfaceHeight = 100
	}
	if c.CellSize == 0 {
		c.CellSize = 5
	}
	if c.SnapRadius == 0 {
		c.SnapRadius = 15
	}
	if c.Taxis == 0 {
		c.Taxis = 5
	}
	if c.SpawnIntervalSeconds == 0 {
		c.SpawnIntervalSeconds = 4
	}
	if c.TickMS == 0 {
		c.TickMS = 100
	}
}

// Validate checks mandatory fields.
func (c SimulationConfig) Validate() error {
	if c.SurfaceWidth <= 0 || c.SurfaceHeight <= 0 {
		return fmt.Errorf("surface dimensions must be positive")
	}
	if c.CellSize <= 0 || c.CellSize > c.SurfaceWidth || c.CellSize > c.SurfaceHeight {
		return fmt.Errorf("cell_size out of range: %g", c.CellSize)
	}
	if c.SnapRadius <= 0 {
		return fmt.Errorf("snap_radius must be positive")
	}
	if c.Taxis <= 0 {
		return fmt.Errorf("taxis must be positive")
	}
	if c.SpawnIntervalSeconds <= 0 {
		return fmt.Errorf("spawn_interval_seconds must be positive")
	}
	if c.MaxPassengers < 0 {
		return fmt.Errorf("max_passengers must not be negative")
	}
	if c.TickMS <= 0 {
		return fmt.Errorf("tick_ms must be positive")
	}
	if c.DurationSeconds < 0 {
		return fmt.Errorf("duration_seconds must not be negative")
	}
	return nil
}

// Tick returns the step size as a duration.
func (c SimulationConfig) Tick() time.Duration {
	return time.Duration(c.TickMS) * time.Millisecond
}

// SpawnInterval returns the mean spawn delay as a duration.
func (c SimulationConfig) SpawnInterval() time.Duration {
	return time.Duration(c.SpawnIntervalSeconds * float64(time.Second))
}

// Duration returns the run length as a duration; zero means unbounded.
func (c SimulationConfig) Duration() time.Duration {
	return time.Duration(c.DurationSeconds * float64(time.Second))
}

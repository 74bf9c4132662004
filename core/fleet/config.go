package fleet

import (
	"fmt"
	"time"
)

// TaxiConfig defines the tuning parameters shared by all taxis.
type TaxiConfig struct {
	// Speed is the travel speed in surface units per second.
	Speed float64 `json:"speed"`
	// StoppingDistance is the arrival tolerance radius.
	StoppingDistance float64 `json:"stopping_distance"`
	// BrakeDistance is the sensor range used to detect a taxi ahead.
	BrakeDistance float64 `json:"brake_distance"`
	// MaxBrakeSeconds bounds how long a taxi stays braked before forcing
	// the navigator to resume and replan.
	MaxBrakeSeconds float64 `json:"max_brake_seconds"`
}

// SetDefaults applies sane defaults.
func (c *TaxiConfig) SetDefaults() {
	if c.Speed == 0 {
		c.Speed = 8
	}
	if c.StoppingDistance == 0 {
		c.StoppingDistance = 0.5
	}
	if c.BrakeDistance == 0 {
		c.BrakeDistance = 2.5
	}
	if c.MaxBrakeSeconds == 0 {
		c.MaxBrakeSeconds = 2
	}
}

// Validate checks mandatory fields.
func (c TaxiConfig) Validate() error {
	if c.Speed <= 0 {
		return fmt.Errorf("speed must be positive")
	}
	if c.StoppingDistance < 0 || c.BrakeDistance < 0 {
		return fmt.Errorf("distances must not be negative")
	}
	if c.MaxBrakeSeconds <= 0 {
		return fmt.Errorf("max_brake_seconds must be positive")
	}
	return nil
}

// MaxBrakeTime returns the brake bound as a duration.
func (c TaxiConfig) MaxBrakeTime() time.Duration {
	return time.Duration(c.MaxBrakeSeconds * float64(time.Second))
}

// PassengerConfig defines the request protocol timing for passengers.
type PassengerConfig struct {
	// StartDelaySeconds is the pause between spawn and the first request.
	StartDelaySeconds float64 `json:"start_delay_seconds"`
	// RetryBackoffSeconds is the pause before re-requesting after the
	// dispatcher had no taxi available.
	RetryBackoffSeconds float64 `json:"retry_backoff_seconds"`
	// MaxWaitSeconds is how long a passenger waits unmatched before
	// abandoning the trip.
	MaxWaitSeconds float64 `json:"max_wait_seconds"`
}

// SetDefaults applies sane defaults.
func (c *PassengerConfig) SetDefaults() {
	if c.StartDelaySeconds == 0 {
		c.StartDelaySeconds = 1
	}
	if c.RetryBackoffSeconds == 0 {
		c.RetryBackoffSeconds = 3
	}
	if c.MaxWaitSeconds == 0 {
		c.MaxWaitSeconds = 30
	}
}

// Validate checks mandatory fields.
func (c PassengerConfig) Validate() error {
	if c.StartDelaySeconds < 0 || c.RetryBackoffSeconds < 0 {
		return fmt.Errorf("delays must not be negative")
	}
	if c.MaxWaitSeconds <= 0 {
		return fmt.Errorf("max_wait_seconds must be positive")
	}
	return nil
}

// StartDelay returns the startup delay as a duration.
func (c PassengerConfig) StartDelay() time.Duration {
	return time.Duration(c.StartDelaySeconds * float64(time.Second))
}

// RetryBackoff returns the retry backoff as a duration.
func (c PassengerConfig) RetryBackoff() time.Duration {
	return time.Duration(c.RetryBackoffSeconds * float64(time.Second))
}

// MaxWait returns the abandon threshold as a duration.
func (c PassengerConfig) MaxWait() time.Duration {
	return time.Duration(c.MaxWaitSeconds * float64(time.Second))
}

// DispatcherConfig defines the dispatcher retry loop timing.
type DispatcherConfig struct {
	// RetryIntervalSeconds is the period of the background queue drain.
	RetryIntervalSeconds float64 `json:"retry_interval_seconds"`
}

// SetDefaults applies sane defaults.
func (c *DispatcherConfig) SetDefaults() {
	if c.RetryIntervalSeconds == 0 {
		c.RetryIntervalSeconds = 5
	}
}

// Validate checks mandatory fields.
func (c DispatcherConfig) Validate() error {
	if c.RetryIntervalSeconds <= 0 {
		return fmt.Errorf("retry_interval_seconds must be positive")
	}
	return nil
}

// RetryInterval returns the drain period as a duration.
func (c DispatcherConfig) RetryInterval() time.Duration {
	return time.Duration(c.RetryIntervalSeconds * float64(time.Second))
}

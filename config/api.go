package config

import "fmt"

// APIConfig defines the HTTP status API settings.
type APIConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// Validate checks mandatory fields.
func (c APIConfig) Validate() error {
	if c.Enabled && c.Addr == "" {
		return fmt.Errorf("api addr is required when enabled")
	}
	return nil
}

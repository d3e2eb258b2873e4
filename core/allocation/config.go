package allocation

import (
	"fmt"
	"time"
)

// DefaultMaxRounds bounds the number of matching rounds. A driver cannot hold
// more than seven charter days in a week, so an eighth round only confirms
// that nothing moved.
const DefaultMaxRounds = 8

// Config defines allocation settings.
type Config struct {
	MaxHours        float64 `json:"max_hours"`
	PaddingMinutes  int     `json:"padding_minutes"`
	SeniorityOffset int     `json:"seniority_offset"`
	MaxRounds       int     `json:"max_rounds"`
	MaxBids         int     `json:"max_bids"`
	EnforceTraining bool    `json:"enforce_training"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		MaxHours:       40,
		PaddingMinutes: 30,
		MaxRounds:      DefaultMaxRounds,
		MaxBids:        50,
	}
}

// SetDefaults fills zero values. Padding is left alone since zero padding is
// a valid setting.
func (c *Config) SetDefaults() {
	d := DefaultConfig()
	if c.MaxHours == 0 {
		c.MaxHours = d.MaxHours
	}
	if c.MaxRounds == 0 {
		c.MaxRounds = d.MaxRounds
	}
	if c.MaxBids == 0 {
		c.MaxBids = d.MaxBids
	}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if c.MaxHours <= 0 {
		return fmt.Errorf("allocation: max_hours must be positive")
	}
	if c.PaddingMinutes < 0 {
		return fmt.Errorf("allocation: padding_minutes must not be negative")
	}
	if c.MaxRounds <= 0 {
		return fmt.Errorf("allocation: max_rounds must be positive")
	}
	if c.MaxBids <= 0 {
		return fmt.Errorf("allocation: max_bids must be positive")
	}
	return nil
}

// Padding returns the padding applied to standard route intervals.
func (c Config) Padding() time.Duration {
	return time.Duration(c.PaddingMinutes) * time.Minute
}

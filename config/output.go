package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"time"
)

// OutputConfig controls where result tables are written.
type OutputConfig struct {
	Dir string `json:"dir"`
	// Formats lists the table formats to write: "csv" and/or "json".
	Formats []string `json:"formats"`
	// DatePrefix is a time layout prepended to file names. Empty disables it.
	DatePrefix string `json:"date_prefix"`
}

// SetDefaults applies sane defaults.
func (c *OutputConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "out"
	}
	if len(c.Formats) == 0 {
		c.Formats = []string{"csv"}
	}
}

// Validate checks the format names.
func (c OutputConfig) Validate() error {
	for _, f := range c.Formats {
		if f != "csv" && f != "json" {
			return fmt.Errorf("output: unknown format %s", f)
		}
	}
	return nil
}

// Wants reports whether format is enabled.
func (c OutputConfig) Wants(format string) bool { return slices.Contains(c.Formats, format) }

// Path returns the location of the named table written at now.
func (c OutputConfig) Path(name string, now time.Time) string {
	if c.DatePrefix != "" {
		name = now.Format(c.DatePrefix) + "_" + name
	}
	return filepath.Join(c.Dir, name)
}

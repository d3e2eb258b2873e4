package config

import (
	"fmt"

	"github.com/kilianp07/charterbid/core/factory"
)

// LedgerConfig defines where run records are kept.
type LedgerConfig struct {
	// Backend selects the store type: "jsonl", "sqlite" or "none".
	Backend string `json:"backend"`
	// Path is the file location of the store.
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *LedgerConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		switch c.Backend {
		case "sqlite":
			c.Path = "charterbid-ledger.db"
		case "jsonl":
			c.Path = "charterbid-ledger.jsonl"
		}
	}
}

// Validate checks mandatory fields.
func (c LedgerConfig) Validate() error {
	switch c.Backend {
	case "none":
		return nil
	case "jsonl", "sqlite":
	default:
		return fmt.Errorf("ledger: unknown backend %s", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("ledger: path is required")
	}
	return nil
}

// Module returns the factory description of the store. A disabled ledger
// yields an empty type.
func (c LedgerConfig) Module() factory.ModuleConfig {
	if c.Backend == "none" {
		return factory.ModuleConfig{}
	}
	return factory.ModuleConfig{Type: c.Backend, Conf: map[string]any{"path": c.Path}}
}

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

	"github.com/kilianp07/charterbid/core/allocation"
	"github.com/kilianp07/charterbid/core/metrics"
	"github.com/kilianp07/charterbid/infra/dataset"
	"github.com/kilianp07/charterbid/infra/logger"
)

// EnvPrefix prefixes environment overrides. CB_ALLOCATION__MAX_HOURS=35
// sets allocation.max_hours.
const EnvPrefix = "CB_"

type Config struct {
	Allocation allocation.Config `json:"allocation"`
	Inputs     dataset.Paths     `json:"inputs"`
	Output     OutputConfig      `json:"output"`
	Logging    logger.Config     `json:"logging"`
	Ledger     LedgerConfig      `json:"ledger"`
	Metrics    metrics.Config    `json:"metrics"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{Allocation: allocation.DefaultConfig()}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills zero values of every section.
func (c *Config) SetDefaults() {
	c.Allocation.SetDefaults()
	c.Output.SetDefaults()
	c.Logging.SetDefaults()
	c.Ledger.SetDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Allocation.Validate(); err != nil {
		return err
	}
	if err := c.Output.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	return c.Ledger.Validate()
}

// Load reads the YAML or JSON file at path, applies environment overrides
// and validates the result. An empty path loads defaults and environment
// only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
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
	}
	// Optional environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	cfg := &Config{Allocation: allocation.DefaultConfig()}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

package metrics

import "github.com/kilianp07/charterbid/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// Textfile, when set, receives a Prometheus text dump after each run.
	Textfile string `json:"textfile"`
}

package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile dumps every metric gathered by g to path in the Prometheus
// text exposition format, for pickup by a node_exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

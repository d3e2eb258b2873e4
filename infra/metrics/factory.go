package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/charterbid/core/factory"
	coremetrics "github.com/kilianp07/charterbid/core/metrics"
)

// Registry collects the metrics of sinks built through the factory. It is
// exposed so a textfile dump covers exactly the allocation metrics.
var Registry = prometheus.NewRegistry()

// init registers built-in metrics sinks.
func init() {
	_ = coremetrics.RegisterSink("prometheus", func(conf map[string]any) (coremetrics.Sink, error) {
		var c struct {
			Namespace string `json:"namespace"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		var reg prometheus.Registerer = Registry
		if c.Namespace != "" {
			reg = prometheus.WrapRegistererWithPrefix(c.Namespace+"_", Registry)
		}
		return NewPromSinkWithRegistry(reg)
	})
	_ = coremetrics.RegisterSink("influx", func(conf map[string]any) (coremetrics.Sink, error) {
		var c InfluxConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.URL == "" || c.Bucket == "" {
			return nil, errors.New("influx sink: url and bucket are required")
		}
		if c.Fallback {
			return NewInfluxSinkWithFallback(c), nil
		}
		return NewInfluxSink(c), nil
	})
}

// Package metrics defines the sinks recording allocation statistics. A sink
// receives one RoundStats per matching round and one RunStats at the end of
// a run. Sinks are built from configuration through the factory registry.
// Several configured sinks are combined into a MultiSink.
package metrics

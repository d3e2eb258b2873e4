package metrics

import (
	"time"

	"github.com/kilianp07/charterbid/core/model"
)

// RoundStats summarises one matching round.
type RoundStats struct {
	Round     int
	Proposals int
	// Awarded is the number of seats filled during the round.
	Awarded int
	// Consumed is the number of trips whose last seat was filled.
	Consumed   int
	OpenTrips  int
	OpenSeats  int
	Evictions  int
	Removed    map[model.BidReason]int
	ActiveBids int
}

// RunStats summarises a complete allocation run.
type RunStats struct {
	Rounds        int
	Drivers       int
	Charters      int
	SeatsDeclared int
	SeatsFilled   int
	SeatsOpen     int
	Evictions     int
	Duration      time.Duration
}

// Sink records allocation statistics.
type Sink interface {
	RecordRound(RoundStats) error
	RecordRun(RunStats) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordRound(RoundStats) error { return nil }
func (NopSink) RecordRun(RunStats) error     { return nil }

// MultiSink fans statistics out to several sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink { return &MultiSink{Sinks: sinks} }

// RecordRound forwards to all sinks, returning the first error encountered.
func (m *MultiSink) RecordRound(s RoundStats) error {
	for _, sink := range m.Sinks {
		if err := sink.RecordRound(s); err != nil {
			return err
		}
	}
	return nil
}

// RecordRun forwards to all sinks, returning the first error encountered.
func (m *MultiSink) RecordRun(s RunStats) error {
	for _, sink := range m.Sinks {
		if err := sink.RecordRun(s); err != nil {
			return err
		}
	}
	return nil
}

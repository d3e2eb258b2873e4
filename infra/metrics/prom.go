package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/charterbid/core/metrics"
)

// PromSink records allocation rounds and runs in Prometheus metrics.
type PromSink struct {
	rounds    prometheus.Counter
	proposals prometheus.Counter
	awarded   prometheus.Counter
	evictions prometheus.Counter
	removed   *prometheus.CounterVec
	openSeats prometheus.Gauge
	openTrips prometheus.Gauge
	filled    prometheus.Gauge
	declared  prometheus.Gauge
	lastRuns  prometheus.Gauge
	duration  prometheus.Histogram
}

// NewPromSink registers allocation metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer. A nil
// registerer defaults to the global Prometheus registerer. Collectors already
// present on reg are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		rounds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "charterbid_rounds_total",
			Help: "Total number of matching rounds executed",
		}),
		proposals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "charterbid_proposals_total",
			Help: "Total number of proposals made during deferred acceptance",
		}),
		awarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "charterbid_seats_awarded_total",
			Help: "Total number of charter seats awarded",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "charterbid_evictions_total",
			Help: "Total number of tentative holders displaced by a more senior proposer",
		}),
		removed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "charterbid_bids_removed_total",
			Help: "Bids removed from active lists, by reason",
		}, []string{"reason"}),
		openSeats: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "charterbid_open_seats",
			Help: "Seats still open after the latest round",
		}),
		openTrips: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "charterbid_open_trips",
			Help: "Charter trips with at least one open seat after the latest round",
		}),
		filled: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "charterbid_seats_filled",
			Help: "Seats filled by the latest run",
		}),
		declared: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "charterbid_seats_declared",
			Help: "Seats declared across all charter trips in the latest run",
		}),
		lastRuns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "charterbid_run_rounds",
			Help: "Rounds executed by the latest run",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "charterbid_run_duration_seconds",
			Help:    "Wall time of an allocation run",
			Buckets: prometheus.DefBuckets,
		}),
	}

	var err error
	if s.rounds, err = register(reg, s.rounds); err != nil {
		return nil, err
	}
	if s.proposals, err = register(reg, s.proposals); err != nil {
		return nil, err
	}
	if s.awarded, err = register(reg, s.awarded); err != nil {
		return nil, err
	}
	if s.evictions, err = register(reg, s.evictions); err != nil {
		return nil, err
	}
	if s.removed, err = register(reg, s.removed); err != nil {
		return nil, err
	}
	if s.openSeats, err = register(reg, s.openSeats); err != nil {
		return nil, err
	}
	if s.openTrips, err = register(reg, s.openTrips); err != nil {
		return nil, err
	}
	if s.filled, err = register(reg, s.filled); err != nil {
		return nil, err
	}
	if s.declared, err = register(reg, s.declared); err != nil {
		return nil, err
	}
	if s.lastRuns, err = register(reg, s.lastRuns); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, s.duration); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordRound updates the per-round counters and the open-seat gauges.
func (s *PromSink) RecordRound(st coremetrics.RoundStats) error {
	s.rounds.Inc()
	s.proposals.Add(float64(st.Proposals))
	s.awarded.Add(float64(st.Awarded))
	s.evictions.Add(float64(st.Evictions))
	for reason, n := range st.Removed {
		s.removed.WithLabelValues(reason.Label()).Add(float64(n))
	}
	s.openSeats.Set(float64(st.OpenSeats))
	s.openTrips.Set(float64(st.OpenTrips))
	return nil
}

// RecordRun sets the run gauges and observes the run duration.
func (s *PromSink) RecordRun(st coremetrics.RunStats) error {
	s.filled.Set(float64(st.SeatsFilled))
	s.declared.Set(float64(st.SeatsDeclared))
	s.openSeats.Set(float64(st.SeatsOpen))
	s.lastRuns.Set(float64(st.Rounds))
	s.duration.Observe(st.Duration.Seconds())
	return nil
}

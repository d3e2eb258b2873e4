package metrics

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/charterbid/core/metrics"
	"github.com/kilianp07/charterbid/infra/logger"
)

// InfluxConfig locates an InfluxDB v2 bucket.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
	// Fallback returns a NopSink when the health check fails.
	Fallback bool `json:"fallback"`
}

// InfluxSink writes allocation rounds and runs to InfluxDB. Points of the
// same run share a run_id tag.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
	now      func() time.Time

	mu    sync.Mutex
	runID string
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
		now:      time.Now,
		runID:    uuid.NewString(),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.Sink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

func (s *InfluxSink) currentRun() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runID
}

// RecordRound writes one allocation_round point. Removed bids become
// removed_<reason> fields.
func (s *InfluxSink) RecordRound(st coremetrics.RoundStats) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("allocation_round").
		AddTag("run_id", s.currentRun()).
		AddTag("component", "allocator").
		AddField("round", st.Round).
		AddField("proposals", st.Proposals).
		AddField("awarded", st.Awarded).
		AddField("consumed", st.Consumed).
		AddField("open_trips", st.OpenTrips).
		AddField("open_seats", st.OpenSeats).
		AddField("evictions", st.Evictions).
		AddField("active_bids", st.ActiveBids)
	labels := make([]string, 0, len(st.Removed))
	counts := make(map[string]int, len(st.Removed))
	for reason, n := range st.Removed {
		labels = append(labels, reason.Label())
		counts[reason.Label()] = n
	}
	sort.Strings(labels)
	for _, l := range labels {
		p.AddField("removed_"+l, counts[l])
	}
	p.SetTime(s.now())
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordRun writes the allocation_run point and starts a new run ID.
func (s *InfluxSink) RecordRun(st coremetrics.RunStats) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.mu.Lock()
	id := s.runID
	s.runID = uuid.NewString()
	s.mu.Unlock()
	p := write.NewPointWithMeasurement("allocation_run").
		AddTag("run_id", id).
		AddTag("component", "allocator").
		AddField("rounds", st.Rounds).
		AddField("drivers", st.Drivers).
		AddField("charters", st.Charters).
		AddField("seats_declared", st.SeatsDeclared).
		AddField("seats_filled", st.SeatsFilled).
		AddField("seats_open", st.SeatsOpen).
		AddField("evictions", st.Evictions).
		AddField("duration_ms", float64(st.Duration.Microseconds())/1000).
		SetTime(s.now())
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the HTTP client.
func (s *InfluxSink) Close() { s.client.Close() }

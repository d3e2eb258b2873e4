package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kilianp07/charterbid/config"
	"github.com/kilianp07/charterbid/core/allocation"
	coremetrics "github.com/kilianp07/charterbid/core/metrics"
	"github.com/kilianp07/charterbid/core/report"
	"github.com/kilianp07/charterbid/infra/dataset"
	"github.com/kilianp07/charterbid/infra/ledger"
	"github.com/kilianp07/charterbid/infra/logger"
	"github.com/kilianp07/charterbid/infra/metrics"
	"github.com/kilianp07/charterbid/pkg/export"
)

// Service runs one allocation end to end: it reads the input tables, runs
// the allocator, writes the result tables and records the run in the ledger.
type Service struct {
	cfg   *config.Config
	log   logger.Logger
	sink  coremetrics.Sink
	store ledger.Store
	now   func() time.Time
}

// RunOptions adjusts a single run.
type RunOptions struct {
	// Offset overrides the configured seniority offset when not nil.
	Offset *int
	// Continue takes the offset from the last ledger record.
	Continue bool
}

// Outcome reports what a run produced.
type Outcome struct {
	Result  *allocation.Result
	Tables  export.Tables
	Offset  int
	Files   []string
	Record  *ledger.Record
	Elapsed time.Duration
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	store, err := ledger.New(cfg.Ledger.Module())
	if err != nil {
		return nil, fmt.Errorf("ledger: %w", err)
	}
	return &Service{cfg: cfg, log: logg, sink: sink, store: store, now: time.Now}, nil
}

// Run executes one allocation. It is not safe for concurrent use.
func (s *Service) Run(ctx context.Context, opts RunOptions) (*Outcome, error) {
	start := s.now()
	offset, err := s.offset(ctx, opts)
	if err != nil {
		return nil, err
	}
	acfg := s.cfg.Allocation
	acfg.SeniorityOffset = offset
	alloc, err := allocation.New(acfg, logger.New("allocation"), s.sink)
	if err != nil {
		return nil, err
	}

	in, rejects, err := dataset.Load(s.cfg.Inputs, acfg.MaxBids)
	if err != nil {
		return nil, fmt.Errorf("load inputs: %w", err)
	}
	res, err := alloc.Allocate(ctx, in, rejects)
	if err != nil {
		return nil, err
	}

	summary, err := report.Summarize(res)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	out := &Outcome{
		Result: res,
		Offset: offset,
		Tables: export.Tables{
			Summary:     summary,
			Assignments: report.Assignments(res),
			Unassigned:  report.Unassigned(res),
			Diagnostics: report.Diagnose(res),
		},
	}
	if out.Tables.Diagnostics.Gaps > 0 {
		s.log.Warnf("%d bids left without a recorded outcome", out.Tables.Diagnostics.Gaps)
	}
	if out.Files, err = s.write(out.Tables, start); err != nil {
		return nil, err
	}

	if s.store != nil {
		rec := ledger.NewRecord(res, offset, start)
		if err := s.store.Append(ctx, rec); err != nil {
			return nil, fmt.Errorf("ledger append: %w", err)
		}
		out.Record = &rec
	}
	if path := s.cfg.Metrics.Textfile; path != "" {
		if err := metrics.WriteTextfile(path, metrics.Registry); err != nil {
			s.log.Errorf("%v", err)
		}
	}
	out.Elapsed = s.now().Sub(start)
	s.log.Infof("run done offset=%d filled=%d open=%d files=%d", offset, summary.SeatsFilled, summary.SeatsOpen, len(out.Files))
	return out, nil
}

func (s *Service) offset(ctx context.Context, opts RunOptions) (int, error) {
	if opts.Offset != nil {
		return *opts.Offset, nil
	}
	if !opts.Continue {
		return s.cfg.Allocation.SeniorityOffset, nil
	}
	if s.store == nil {
		return 0, errors.New("continue requires a ledger backend")
	}
	last, err := s.store.Last(ctx)
	if errors.Is(err, ledger.ErrEmpty) {
		s.log.Warnf("ledger empty, starting at offset %d", s.cfg.Allocation.SeniorityOffset)
		return s.cfg.Allocation.SeniorityOffset, nil
	}
	if err != nil {
		return 0, fmt.Errorf("ledger last: %w", err)
	}
	return last.NextOffset, nil
}

func (s *Service) write(t export.Tables, now time.Time) ([]string, error) {
	o := s.cfg.Output
	if err := os.MkdirAll(o.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}
	var files []string
	emit := func(name string, w func(f *os.File) error) error {
		path := o.Path(name, now)
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := w(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		files = append(files, path)
		return nil
	}
	if o.Wants("csv") {
		if err := emit("assignments.csv", func(f *os.File) error { return export.WriteAssignmentsCSV(f, t.Assignments) }); err != nil {
			return nil, err
		}
		if err := emit("unassigned.csv", func(f *os.File) error { return export.WriteUnassignedCSV(f, t.Unassigned) }); err != nil {
			return nil, err
		}
		if err := emit("diagnostics.csv", func(f *os.File) error { return export.WriteDiagnosticsCSV(f, t.Diagnostics) }); err != nil {
			return nil, err
		}
	}
	if o.Wants("json") {
		if err := emit("results.json", func(f *os.File) error { return export.WriteJSON(f, t) }); err != nil {
			return nil, err
		}
	}
	return files, nil
}

// History returns ledger records matching q.
func (s *Service) History(ctx context.Context, q ledger.Query) ([]ledger.Record, error) {
	if s.store == nil {
		return nil, errors.New("no ledger backend configured")
	}
	return s.store.Query(ctx, q)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

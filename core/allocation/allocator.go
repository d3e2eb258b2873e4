// Package allocation runs the round controller: it filters the submitted
// bids, runs deferred acceptance once per round and folds each round's
// winners back into the drivers' schedules until no seat can move.
package allocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/charterbid/core/feasibility"
	"github.com/kilianp07/charterbid/core/logger"
	"github.com/kilianp07/charterbid/core/matching"
	"github.com/kilianp07/charterbid/core/metrics"
	"github.com/kilianp07/charterbid/core/model"
	"github.com/kilianp07/charterbid/core/roster"
)

// ErrOverCapacity signals a matching that awarded more seats than a trip has.
var ErrOverCapacity = errors.New("allocation: trip awarded beyond capacity")

// Allocator assigns charter trips to drivers.
type Allocator struct {
	cfg       Config
	prefilter feasibility.Filter
	hours     feasibility.HourLimitFilter
	conflicts feasibility.TimeConflictFilter
	logger    logger.Logger
	metrics   metrics.Sink
	now       func() time.Time
}

// New returns an Allocator. A nil sink disables metrics.
func New(cfg Config, log logger.Logger, sink metrics.Sink) (*Allocator, error) {
	if log == nil {
		return nil, fmt.Errorf("allocation: nil logger provided to New")
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Allocator{
		cfg:       cfg,
		prefilter: feasibility.NewPipeline(cfg.MaxHours, cfg.EnforceTraining),
		hours:     feasibility.HourLimitFilter{MaxHours: cfg.MaxHours},
		logger:    log,
		metrics:   sink,
		now:       time.Now,
	}, nil
}

// Config returns the effective configuration.
func (a *Allocator) Config() Config { return a.cfg }

// Allocate builds a roster from in and runs the allocation on it.
func (a *Allocator) Allocate(ctx context.Context, in roster.Input, rejects []roster.ForceReject) (*Result, error) {
	r, err := roster.Build(in, roster.Options{Padding: a.cfg.Padding(), MaxBids: a.cfg.MaxBids})
	if err != nil {
		return nil, err
	}
	return a.Run(ctx, r, rejects)
}

// Run allocates the charters of r. The roster is mutated and must not be
// reused for another run.
func (a *Allocator) Run(ctx context.Context, r *roster.Roster, rejects []roster.ForceReject) (*Result, error) {
	start := a.now()
	if err := feasibility.ApplyForceRejects(r, rejects); err != nil {
		return nil, err
	}
	pre := 0
	for _, d := range r.Drivers() {
		pre += a.prefilter.Filter(r, d)
	}
	a.logger.Infof("allocation: %d drivers, %d standard routes, %d charters, %d force rejects, %d bids filtered before matching",
		len(r.Drivers()), len(r.StandardRoutes()), len(r.Charters()), len(rejects), pre)

	order := r.Order(a.cfg.SeniorityOffset)
	pool := matching.NewPool(order)
	declared := 0
	for _, c := range r.Charters() {
		declared += c.Capacity
		pool.Add(c.ID, c.Remaining)
	}

	res := &Result{
		Drivers:     r.Drivers(),
		Assignments: make(map[model.RouteID][]model.DriverID),
		Charters:    r.Charters(),
		DriverByID:  make(map[model.DriverID]*model.Driver, len(r.Drivers())),
		Stop:        StopMaxRounds,
		routes:      make(map[model.RouteID]*model.Route, len(r.Charters())),
	}
	for _, d := range r.Drivers() {
		res.DriverByID[d.ID] = d
	}
	for _, c := range r.Charters() {
		res.routes[c.ID] = c
	}

	var last model.DriverID
	prev := pool.Snapshot()
	for round := 1; round <= a.cfg.MaxRounds; round++ {
		if pool.Len() == 0 {
			res.Stop = StopPoolEmpty
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("allocation: round %d: %w", round, err)
		}
		stats, winner, err := a.round(r, res, pool, order, round)
		if err != nil {
			return nil, err
		}
		res.Rounds = round
		res.Evictions += stats.Evictions
		if winner != "" {
			last = winner
		}
		if err := a.metrics.RecordRound(stats); err != nil {
			a.logger.Warnf("allocation: record round %d: %v", round, err)
		}

		snap := pool.Snapshot()
		if snap.Equal(prev) {
			res.Stop = StopNoProgress
			break
		}
		prev = snap
		if pool.Len() == 0 {
			res.Stop = StopPoolEmpty
			break
		}
	}

	for _, c := range r.Charters() {
		if c.Remaining > 0 {
			res.Unassigned = append(res.Unassigned, c)
		}
	}
	if last != "" {
		d, _ := r.Driver(last)
		res.LastAssigned = &LastAssigned{
			DriverID:   last,
			Seniority:  d.SeniorityText,
			NextOffset: (r.Position(last) + 1) % len(r.Drivers()),
		}
	}

	run := metrics.RunStats{
		Rounds:        res.Rounds,
		Drivers:       len(r.Drivers()),
		Charters:      len(r.Charters()),
		SeatsDeclared: declared,
		SeatsFilled:   res.SeatsFilled(),
		SeatsOpen:     res.SeatsOpen(),
		Evictions:     res.Evictions,
		Duration:      a.now().Sub(start),
	}
	if err := a.metrics.RecordRun(run); err != nil {
		a.logger.Warnf("allocation: record run: %v", err)
	}
	a.logger.Infof("allocation: %d of %d seats filled in %d rounds (%s)", run.SeatsFilled, declared, res.Rounds, res.Stop)
	return res, nil
}

// round runs one matching pass and applies its outcome. It returns the
// round statistics and the last driver to receive a tentative acceptance
// that kept its seat.
func (a *Allocator) round(r *roster.Roster, res *Result, pool *matching.Pool, order []model.DriverID, round int) (metrics.RoundStats, model.DriverID, error) {
	prefs := make(map[model.DriverID][]model.RouteID, len(order))
	active := 0
	for _, d := range r.Drivers() {
		prefs[d.ID] = d.ActiveBids
		active += len(d.ActiveBids)
	}
	m := matching.Run(order, prefs, pool)
	for _, ev := range m.Evictions {
		a.logger.Warnf("allocation: round %d: driver %s bumped %s from %s", round, ev.Proposer, ev.Evicted, ev.Route)
	}

	stats := metrics.RoundStats{
		Round:      round,
		Proposals:  m.Proposals,
		Evictions:  len(m.Evictions),
		Removed:    make(map[model.BidReason]int),
		ActiveBids: active,
	}

	winners := m.Winners(order)
	consumed := make(map[model.RouteID]bool)
	var last model.DriverID
	for _, id := range winners {
		d, _ := r.Driver(id)
		route := r.MustRoute(m.Matches[id].Route)
		if !route.Assign(id) {
			return stats, "", fmt.Errorf("%w: %s", ErrOverCapacity, route.ID)
		}
		d.Commit(route)
		d.RemoveBid(route.ID)
		d.Record(route.ID, model.BidOutcome{Reason: model.ReasonReceived, Round: round})

		if len(res.Assignments[route.ID]) == 0 {
			res.RouteOrder = append(res.RouteOrder, route.ID)
		}
		res.Assignments[route.ID] = append(res.Assignments[route.ID], id)
		pool.SetSeats(route.ID, route.Remaining)
		if route.Remaining == 0 {
			consumed[route.ID] = true
			stats.Consumed++
		}
		stats.Awarded++
		last = id
		a.logger.Debugw("seat awarded", map[string]any{
			"round":  round,
			"driver": string(id),
			"trip":   string(route.ID),
			"open":   route.Remaining,
		})
	}
	if m.LastAccepted != "" {
		if mt, ok := m.Matches[m.LastAccepted]; ok && !mt.Exhausted {
			last = m.LastAccepted
		}
	}

	taken := model.BidOutcome{Reason: model.ReasonAlreadyAssigned, Round: round}
	for _, d := range r.Drivers() {
		if len(consumed) > 0 {
			stats.Removed[model.ReasonAlreadyAssigned] += d.RetainBids(func(id model.RouteID) (bool, model.BidOutcome) {
				return !consumed[id], taken
			})
		}
		stats.Removed[model.ReasonHourLimitExceeded] += a.hours.Filter(r, d)
	}

	sameDay := model.BidOutcome{Reason: model.ReasonSameDay}
	for _, id := range winners {
		d, _ := r.Driver(id)
		day := r.MustRoute(m.Matches[id].Route).Day()
		stats.Removed[model.ReasonSameDay] += d.RetainBids(func(bid model.RouteID) (bool, model.BidOutcome) {
			return r.MustRoute(bid).Day() != day, sameDay
		})
		stats.Removed[model.ReasonTimeConflict] += a.conflicts.Filter(r, d)
	}

	stats.OpenTrips = pool.Len()
	for _, id := range pool.Routes() {
		seats, _ := pool.Seats(id)
		stats.OpenSeats += seats
	}
	a.logger.Debugf("allocation: round %d: %d proposals, %d seats awarded, %d trips consumed, %d seats open",
		round, stats.Proposals, stats.Awarded, stats.Consumed, stats.OpenSeats)
	return stats, last, nil
}

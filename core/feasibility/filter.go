// Package feasibility removes bids a driver could not work: bids an operator
// rejected, bids overlapping the committed schedule, bids pushing the weekly
// hours above the cap and, optionally, bids requiring training the driver
// lacks. Every removal records a status on the driver.
package feasibility

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kilianp07/charterbid/core/model"
	"github.com/kilianp07/charterbid/core/roster"
)

// ErrBidNotPlaced is returned when a force reject targets a bid the driver
// never submitted.
var ErrBidNotPlaced = errors.New("force reject for a bid that was not placed")

// Filter removes infeasible bids from a driver's active list and returns
// the number removed.
type Filter interface {
	Filter(r *roster.Roster, d *model.Driver) int
}

// TimeConflictFilter drops bids overlapping any committed interval.
type TimeConflictFilter struct{}

func (TimeConflictFilter) Filter(r *roster.Roster, d *model.Driver) int {
	if len(d.Committed) == 0 {
		return 0
	}
	return d.RetainBids(func(id model.RouteID) (bool, model.BidOutcome) {
		bid := r.MustRoute(id)
		return !model.AnyOverlap(bid.Intervals, d.Committed), model.BidOutcome{Reason: model.ReasonTimeConflict}
	})
}

// HourLimitFilter drops bids that would take the driver above MaxHours.
type HourLimitFilter struct {
	MaxHours float64
}

func (f HourLimitFilter) Filter(r *roster.Roster, d *model.Driver) int {
	return d.RetainBids(func(id model.RouteID) (bool, model.BidOutcome) {
		bid := r.MustRoute(id)
		return d.Hours+bid.Hours <= f.MaxHours, model.BidOutcome{Reason: model.ReasonHourLimitExceeded}
	})
}

// TrainingFilter drops bids on trips requiring special training when the
// driver has not completed it.
type TrainingFilter struct{}

func (TrainingFilter) Filter(r *roster.Roster, d *model.Driver) int {
	if d.Trained {
		return 0
	}
	return d.RetainBids(func(id model.RouteID) (bool, model.BidOutcome) {
		return !r.MustRoute(id).RequiresTraining, model.BidOutcome{Reason: model.ReasonNotTrained}
	})
}

// Pipeline applies filters in order.
type Pipeline []Filter

// NewPipeline returns the default pipeline: time conflicts then hour limits,
// followed by the training check when enforceTraining is set.
func NewPipeline(maxHours float64, enforceTraining bool) Pipeline {
	p := Pipeline{TimeConflictFilter{}, HourLimitFilter{MaxHours: maxHours}}
	if enforceTraining {
		p = append(p, TrainingFilter{})
	}
	return p
}

func (p Pipeline) Filter(r *roster.Roster, d *model.Driver) int {
	removed := 0
	for _, f := range p {
		removed += f.Filter(r, d)
	}
	return removed
}

// ApplyForceRejects removes every listed bid before any other filtering.
// A pair naming an unknown driver, an unknown trip or a bid the driver never
// placed is an error.
func ApplyForceRejects(r *roster.Roster, rejects []roster.ForceReject) error {
	for _, fr := range rejects {
		did := model.DriverID(strings.TrimSpace(fr.DriverID))
		rid := model.RouteID(strings.TrimSpace(fr.RouteID))
		d, ok := r.Driver(did)
		if !ok {
			return fmt.Errorf("force reject: %w: %s", roster.ErrUnknownDriver, did)
		}
		if _, ok := r.Route(rid); !ok {
			return fmt.Errorf("force reject: %w: %s", roster.ErrUnknownRoute, rid)
		}
		if !d.RemoveBid(rid) {
			return fmt.Errorf("%w: driver %s route %s", ErrBidNotPlaced, did, rid)
		}
		d.ForceRejected = append(d.ForceRejected, rid)
		d.Record(rid, model.BidOutcome{Reason: model.ReasonForceRejected})
	}
	return nil
}

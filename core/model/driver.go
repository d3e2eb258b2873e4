package model

import "slices"

// DriverID identifies a driver across all input tables.
type DriverID string

// Driver holds the committed schedule and the bidding state of one driver for
// a single allocation run.
type Driver struct {
	ID   DriverID
	Name string
	// Seniority is the parsed seniority number. Lower is more senior.
	Seniority float64
	// SeniorityText is the seniority number as given in the roster.
	SeniorityText string
	Trained       bool

	// Hours is the weekly work already committed.
	Hours float64
	// Committed holds every interval the driver already works.
	Committed []Interval
	// Routes lists standard and won charter routes in commitment order.
	Routes []RouteID

	// ActiveBids are the charter bids still eligible, most preferred first.
	ActiveBids []RouteID
	// OriginalBids is the bid list as submitted. It is never modified.
	OriginalBids  []RouteID
	ForceRejected []RouteID

	// Status maps a route ID to the last recorded outcome for that bid.
	Status map[RouteID]BidOutcome
}

// NewDriver returns a driver with its own empty containers.
func NewDriver(id DriverID, name string) *Driver {
	return &Driver{
		ID:     id,
		Name:   name,
		Status: make(map[RouteID]BidOutcome),
	}
}

// SetBids installs the submitted bid list. ActiveBids and OriginalBids get
// independent copies.
func (d *Driver) SetBids(bids []RouteID) {
	d.OriginalBids = slices.Clone(bids)
	d.ActiveBids = slices.Clone(bids)
}

// Commit adds a route to the driver's schedule.
func (d *Driver) Commit(r *Route) {
	d.Routes = append(d.Routes, r.ID)
	d.Committed = append(d.Committed, r.Intervals...)
	d.Hours += r.Hours
}

// Record stores the outcome for a bid. The latest outcome replaces any
// earlier one.
func (d *Driver) Record(id RouteID, o BidOutcome) {
	d.Status[id] = o
}

// RemoveBid drops id from the active bids and reports whether it was present.
func (d *Driver) RemoveBid(id RouteID) bool {
	i := slices.Index(d.ActiveBids, id)
	if i < 0 {
		return false
	}
	d.ActiveBids = slices.Delete(d.ActiveBids, i, i+1)
	return true
}

// RetainBids keeps the active bids for which keep returns true. Removed bids
// are recorded with the outcome returned by keep. It returns the number of
// bids removed.
func (d *Driver) RetainBids(keep func(RouteID) (bool, BidOutcome)) int {
	kept := make([]RouteID, 0, len(d.ActiveBids))
	removed := 0
	for _, id := range d.ActiveBids {
		ok, outcome := keep(id)
		if ok {
			kept = append(kept, id)
			continue
		}
		d.Record(id, outcome)
		removed++
	}
	d.ActiveBids = kept
	return removed
}

// HasBid reports whether id is among the active bids.
func (d *Driver) HasBid(id RouteID) bool { return slices.Contains(d.ActiveBids, id) }

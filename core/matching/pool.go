package matching

import (
	"maps"

	"github.com/kilianp07/charterbid/core/model"
)

// Pool holds the trips still open for matching together with the seniority
// ranking they all share.
type Pool struct {
	open  map[model.RouteID]int
	order []model.RouteID
	rank  map[model.DriverID]int
}

// NewPool creates an empty pool ranking drivers by their position in
// ranking, first is most preferred.
func NewPool(ranking []model.DriverID) *Pool {
	rank := make(map[model.DriverID]int, len(ranking))
	for i, id := range ranking {
		if _, dup := rank[id]; !dup {
			rank[id] = i
		}
	}
	return &Pool{open: make(map[model.RouteID]int), rank: rank}
}

// Add opens a trip with the given number of seats. Trips without seats are
// not added.
func (p *Pool) Add(id model.RouteID, seats int) {
	if seats <= 0 {
		return
	}
	if _, ok := p.open[id]; !ok {
		p.order = append(p.order, id)
	}
	p.open[id] = seats
}

// Seats returns the open seats of a trip and whether it is in the pool.
func (p *Pool) Seats(id model.RouteID) (int, bool) {
	n, ok := p.open[id]
	return n, ok
}

// SetSeats updates the open seats of a trip, removing it at zero.
func (p *Pool) SetSeats(id model.RouteID, seats int) {
	if _, ok := p.open[id]; !ok {
		return
	}
	if seats <= 0 {
		p.Remove(id)
		return
	}
	p.open[id] = seats
}

// Remove drops a trip from the pool.
func (p *Pool) Remove(id model.RouteID) {
	if _, ok := p.open[id]; !ok {
		return
	}
	delete(p.open, id)
	for i, rid := range p.order {
		if rid == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of open trips.
func (p *Pool) Len() int { return len(p.open) }

// Routes returns the open trips in the order they were added.
func (p *Pool) Routes() []model.RouteID {
	out := make([]model.RouteID, len(p.order))
	copy(out, p.order)
	return out
}

// Rank returns a driver's position in the shared preference list.
func (p *Pool) Rank(id model.DriverID) (int, bool) {
	r, ok := p.rank[id]
	return r, ok
}

// Snapshot is the set of open trips keyed with their seat count.
type Snapshot map[model.RouteID]int

// Snapshot copies the current open trips and seats.
func (p *Pool) Snapshot() Snapshot { return maps.Clone(p.open) }

// Equal reports whether two snapshots hold the same trips and seats.
func (s Snapshot) Equal(o Snapshot) bool { return maps.Equal(s, o) }

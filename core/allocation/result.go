package allocation

import (
	"github.com/kilianp07/charterbid/core/model"
)

// StopReason tells why the round loop ended.
type StopReason int

const (
	// StopPoolEmpty means every charter seat was filled.
	StopPoolEmpty StopReason = iota
	// StopNoProgress means a round left the open seats unchanged.
	StopNoProgress
	// StopMaxRounds means the round ceiling was reached.
	StopMaxRounds
)

func (s StopReason) String() string {
	switch s {
	case StopPoolEmpty:
		return "pool empty"
	case StopNoProgress:
		return "no progress"
	case StopMaxRounds:
		return "round ceiling"
	default:
		return "unknown"
	}
}

// LastAssigned identifies the last driver who received a seat. NextOffset is
// the seniority offset that continues the rotation in the next run.
type LastAssigned struct {
	DriverID   model.DriverID
	Seniority  string
	NextOffset int
}

// Result is the outcome of one allocation run.
type Result struct {
	// Drivers in seniority order.
	Drivers []*model.Driver
	// Assignments maps a charter to its drivers in assignment order.
	Assignments map[model.RouteID][]model.DriverID
	// RouteOrder lists assigned charters in the order they first got a driver.
	RouteOrder []model.RouteID
	// Charters in input order.
	Charters []*model.Route
	// Unassigned lists the charters with open seats left.
	Unassigned []*model.Route
	DriverByID map[model.DriverID]*model.Driver
	// LastAssigned is nil when nobody received a seat.
	LastAssigned *LastAssigned
	Rounds       int
	Evictions    int
	Stop         StopReason

	routes map[model.RouteID]*model.Route
}

// Route returns the charter with the given ID.
func (r *Result) Route(id model.RouteID) (*model.Route, bool) {
	rt, ok := r.routes[id]
	return rt, ok
}

// SeatsFilled is the number of seats awarded in the run.
func (r *Result) SeatsFilled() int {
	n := 0
	for _, ids := range r.Assignments {
		n += len(ids)
	}
	return n
}

// SeatsOpen is the number of seats left open.
func (r *Result) SeatsOpen() int {
	n := 0
	for _, c := range r.Unassigned {
		n += c.Remaining
	}
	return n
}

package model

// RouteID identifies a standard route or a charter trip.
type RouteID string

// RouteKind distinguishes standing weekly commitments from one-off charters.
type RouteKind int

const (
	RouteStandard RouteKind = iota
	RouteCharter
)

func (k RouteKind) String() string {
	switch k {
	case RouteStandard:
		return "standard"
	case RouteCharter:
		return "charter"
	default:
		return "unknown"
	}
}

// Route is either a driver's standing weekly schedule entry or a charter trip
// opened for bidding.
type Route struct {
	ID   RouteID
	Kind RouteKind
	// Capacity is the declared number of seats (buses). Standard routes use 1.
	Capacity int
	// Remaining is the number of seats still open. It never goes below zero.
	Remaining int
	Intervals []Interval
	Hours     float64

	RequiresTraining bool
	Equipment        bool

	// AssignedDrivers lists the drivers holding a seat, in assignment order.
	AssignedDrivers []DriverID

	// Charter descriptors carried through for reporting.
	Date           string
	PickupTime     string
	ReturnTime     string
	PickupLocation string
	Destination    string
}

// Day returns the day offset of the route's first interval.
func (r *Route) Day() int {
	if len(r.Intervals) == 0 {
		return 0
	}
	return r.Intervals[0].Day()
}

// Assign records d as holding one seat and decrements the open capacity.
// It returns false when no seat is left.
func (r *Route) Assign(d DriverID) bool {
	if r.Remaining <= 0 {
		return false
	}
	r.Remaining--
	r.AssignedDrivers = append(r.AssignedDrivers, d)
	return true
}

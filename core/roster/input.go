package roster

// SeniorityRow is one line of the seniority roster.
type SeniorityRow struct {
	FullName        string
	DriverID        string
	SeniorityNumber string
	Trained         bool
}

// StandardRouteRow is one entry of the weekly schedule export.
type StandardRouteRow struct {
	RouteID   string
	DriverID  string
	Days      string
	Departure string
	Return    string
}

// CharterRow is one trip of the charter export.
type CharterRow struct {
	TripID           string
	Buses            int
	Pickup           string
	Return           string
	Date             string
	PickupLocation   string
	Destination      string
	RequiresTraining bool
	// Equipment marks trips needing special equipment. It is reported but
	// not checked against drivers.
	Equipment bool
}

// BidRow is one driver's form submission: charter trip IDs, most preferred
// first. Blank entries are ignored.
type BidRow struct {
	DriverID string
	Bids     []string
}

// ForceReject removes a single bid before matching.
type ForceReject struct {
	DriverID string
	RouteID  string
}

// Input groups the tables consumed by Build.
type Input struct {
	Seniority      []SeniorityRow
	StandardRoutes []StandardRouteRow
	Charters       []CharterRow
	Bids           []BidRow
}

package roster

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/charterbid/core/model"
	"github.com/kilianp07/charterbid/core/schedule"
)

var (
	ErrInvalidSeniority   = errors.New("seniority list contains a seniority number that is not a number")
	ErrDuplicateSeniority = errors.New("duplicate seniority number")
	ErrDuplicateDriver    = errors.New("duplicate driver id")
	ErrDuplicateRoute     = errors.New("duplicate route id")
	ErrInvalidRoute       = errors.New("invalid standard route")
	ErrInvalidCharter     = errors.New("invalid charter trip")
	ErrUnknownDriver      = errors.New("unknown driver")
	ErrUnknownRoute       = errors.New("unknown route")
	ErrTooManyBids        = errors.New("too many bids")
)

// DefaultMaxBids matches the number of bid slots on the intake form.
const DefaultMaxBids = 50

// Options tune entity construction.
type Options struct {
	// Padding shrinks both ends of every standard route interval.
	Padding time.Duration
	// MaxBids caps the bids accepted per driver. Zero means DefaultMaxBids.
	MaxBids int
}

// Roster owns every driver and route of one allocation run. Entities refer
// to each other by ID and are resolved through the roster.
type Roster struct {
	drivers  []*model.Driver
	byDriver map[model.DriverID]*model.Driver
	standard []*model.Route
	charters []*model.Route
	byRoute  map[model.RouteID]*model.Route

	// byStandard is kept apart from byRoute: schedule exports and charter
	// exports number their rows independently.
	byStandard map[model.RouteID]*model.Route
}

// Build constructs the roster from the input tables. Any malformed value
// aborts the build.
func Build(in Input, opts Options) (*Roster, error) {
	if opts.MaxBids <= 0 {
		opts.MaxBids = DefaultMaxBids
	}
	r := &Roster{
		byDriver:   make(map[model.DriverID]*model.Driver, len(in.Seniority)),
		byRoute:    make(map[model.RouteID]*model.Route, len(in.Charters)),
		byStandard: make(map[model.RouteID]*model.Route, len(in.StandardRoutes)),
	}
	if err := r.readSeniority(in.Seniority); err != nil {
		return nil, err
	}
	if err := r.readStandardRoutes(in.StandardRoutes, opts.Padding); err != nil {
		return nil, err
	}
	if err := r.readCharters(in.Charters); err != nil {
		return nil, err
	}
	if err := r.readBids(in.Bids, opts.MaxBids); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Roster) readSeniority(rows []SeniorityRow) error {
	seen := make(map[float64]string, len(rows))
	for i, row := range rows {
		id := model.DriverID(strings.TrimSpace(row.DriverID))
		if id == "" {
			return fmt.Errorf("seniority row %d: %w: empty id", i+1, ErrUnknownDriver)
		}
		if _, dup := r.byDriver[id]; dup {
			return fmt.Errorf("seniority row %d: %w: %s", i+1, ErrDuplicateDriver, id)
		}
		text := strings.TrimSpace(row.SeniorityNumber)
		num, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
			return fmt.Errorf("%w: driver %s has %q", ErrInvalidSeniority, id, row.SeniorityNumber)
		}
		if other, dup := seen[num]; dup {
			return fmt.Errorf("%w: %s shared by %s and %s", ErrDuplicateSeniority, text, other, id)
		}
		seen[num] = string(id)
		d := model.NewDriver(id, strings.TrimSpace(row.FullName))
		d.Seniority = num
		d.SeniorityText = text
		d.Trained = row.Trained
		r.drivers = append(r.drivers, d)
		r.byDriver[id] = d
	}
	sort.SliceStable(r.drivers, func(i, j int) bool {
		return r.drivers[i].Seniority < r.drivers[j].Seniority
	})
	return nil
}

func (r *Roster) readStandardRoutes(rows []StandardRouteRow, padding time.Duration) error {
	for i, row := range rows {
		id := model.RouteID(strings.TrimSpace(row.RouteID))
		if _, dup := r.byStandard[id]; dup {
			return fmt.Errorf("standard route row %d: %w: %s", i+1, ErrDuplicateRoute, id)
		}
		driver, ok := r.byDriver[model.DriverID(strings.TrimSpace(row.DriverID))]
		if !ok {
			return fmt.Errorf("standard route %s: %w: %s", id, ErrUnknownDriver, row.DriverID)
		}
		ivs, hours, err := schedule.WeeklyRow(row.Days, row.Departure, row.Return, padding)
		if err != nil {
			return fmt.Errorf("%w %s: %w", ErrInvalidRoute, id, err)
		}
		route := &model.Route{
			ID:        id,
			Kind:      model.RouteStandard,
			Capacity:  1,
			Intervals: ivs,
			Hours:     hours,
		}
		route.AssignedDrivers = []model.DriverID{driver.ID}
		driver.Commit(route)
		r.standard = append(r.standard, route)
		r.byStandard[id] = route
	}
	return nil
}

func (r *Roster) readCharters(rows []CharterRow) error {
	for i, row := range rows {
		id := model.RouteID(strings.TrimSpace(row.TripID))
		if id == "" {
			return fmt.Errorf("charter row %d: %w: empty trip number", i+1, ErrInvalidCharter)
		}
		if _, dup := r.byRoute[id]; dup {
			return fmt.Errorf("charter row %d: %w: %s", i+1, ErrDuplicateRoute, id)
		}
		if row.Buses < 0 {
			return fmt.Errorf("%w %s: negative bus count %d", ErrInvalidCharter, id, row.Buses)
		}
		iv, hours, err := schedule.CharterRow(row.Date, row.Pickup, row.Return)
		if err != nil {
			return fmt.Errorf("%w %s: %w", ErrInvalidCharter, id, err)
		}
		route := &model.Route{
			ID:               id,
			Kind:             model.RouteCharter,
			Capacity:         row.Buses,
			Remaining:        row.Buses,
			Intervals:        []model.Interval{iv},
			Hours:            hours,
			RequiresTraining: row.RequiresTraining,
			Equipment:        row.Equipment,
			Date:             strings.TrimSpace(row.Date),
			PickupTime:       strings.TrimSpace(row.Pickup),
			ReturnTime:       strings.TrimSpace(row.Return),
			PickupLocation:   row.PickupLocation,
			Destination:      row.Destination,
		}
		r.charters = append(r.charters, route)
		r.byRoute[id] = route
	}
	return nil
}

func (r *Roster) readBids(rows []BidRow, maxBids int) error {
	for _, row := range rows {
		d, ok := r.byDriver[model.DriverID(strings.TrimSpace(row.DriverID))]
		if !ok {
			return fmt.Errorf("bids: %w: %s", ErrUnknownDriver, row.DriverID)
		}
		bids := make([]model.RouteID, 0, len(row.Bids))
		seen := make(map[model.RouteID]bool, len(row.Bids))
		for _, raw := range row.Bids {
			id := model.RouteID(strings.TrimSpace(raw))
			if id == "" || seen[id] {
				continue
			}
			if _, ok := r.byRoute[id]; !ok {
				return fmt.Errorf("bids of driver %s: %w: %s", d.ID, ErrUnknownRoute, id)
			}
			seen[id] = true
			bids = append(bids, id)
		}
		if len(bids) > maxBids {
			return fmt.Errorf("driver %s: %w: %d > %d", d.ID, ErrTooManyBids, len(bids), maxBids)
		}
		d.SetBids(bids)
	}
	return nil
}

// Drivers returns every driver ordered by seniority number, most senior first.
func (r *Roster) Drivers() []*model.Driver { return r.drivers }

// Driver looks up a driver by ID.
func (r *Roster) Driver(id model.DriverID) (*model.Driver, bool) {
	d, ok := r.byDriver[id]
	return d, ok
}

// Route looks up a charter trip by ID.
func (r *Roster) Route(id model.RouteID) (*model.Route, bool) {
	rt, ok := r.byRoute[id]
	return rt, ok
}

// MustRoute looks up a charter that is known to exist, such as a bid target.
func (r *Roster) MustRoute(id model.RouteID) *model.Route {
	rt, ok := r.byRoute[id]
	if !ok {
		panic(fmt.Sprintf("roster: route %s not loaded", id))
	}
	return rt
}

// Charters returns the charter trips in input order.
func (r *Roster) Charters() []*model.Route { return r.charters }

// StandardRoutes returns the weekly routes in input order.
func (r *Roster) StandardRoutes() []*model.Route { return r.standard }

// Order returns the driver IDs in seniority order rotated so that the driver
// at position offset comes first. The offset wraps around the roster size.
func (r *Roster) Order(offset int) []model.DriverID {
	n := len(r.drivers)
	out := make([]model.DriverID, n)
	if n == 0 {
		return out
	}
	offset %= n
	if offset < 0 {
		offset += n
	}
	for i := range r.drivers {
		out[i] = r.drivers[(i+offset)%n].ID
	}
	return out
}

// Position returns the index of a driver in the unrotated seniority order.
func (r *Roster) Position(id model.DriverID) int {
	for i, d := range r.drivers {
		if d.ID == id {
			return i
		}
	}
	return -1
}

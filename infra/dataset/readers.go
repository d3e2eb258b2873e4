package dataset

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kilianp07/charterbid/core/roster"
)

// Column names of the exports.
const (
	ColFullName        = "FullName"
	ColDriverID        = "DriverID"
	ColSeniorityNumber = "SeniorityNumber"
	ColTrained         = "Trained"

	ColRouteIdentifier = "Route identifier"
	ColEmployee        = "Employee"
	ColDays            = "Days of the week"
	ColDeparture       = "Depot departure time"
	ColReturn          = "Depot return time"

	ColTripNumber       = "Trip Number"
	ColBuses            = "Buses"
	ColPickupTime       = "P/U Time"
	ColReturnTime       = "Return Time"
	ColTripDate         = "Trip Date"
	ColPickupLocation   = "Pick Up Location"
	ColDestination      = "Destination"
	ColRequiresTraining = "Requires Training"
	ColEquipment        = "Equipment"

	ColBidID   = "Id"
	ColRouteID = "RouteID"
)

// ReadSeniority reads the seniority roster.
func ReadSeniority(r io.Reader) ([]roster.SeniorityRow, error) {
	t, err := readTable("seniority list", r, ColFullName, ColDriverID, ColSeniorityNumber)
	if err != nil {
		return nil, err
	}
	out := make([]roster.SeniorityRow, 0, len(t.rows))
	for i, row := range t.rows {
		trained, err := parseBool(t.get(row, ColTrained))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %s: %w", t.name, i+2, ColTrained, err)
		}
		out = append(out, roster.SeniorityRow{
			FullName:        t.get(row, ColFullName),
			DriverID:        NormalizeID(t.get(row, ColDriverID)),
			SeniorityNumber: t.get(row, ColSeniorityNumber),
			Trained:         trained,
		})
	}
	return out, nil
}

// ReadStandardRoutes reads the weekly route export.
func ReadStandardRoutes(r io.Reader) ([]roster.StandardRouteRow, error) {
	t, err := readTable("standard routes", r, ColRouteIdentifier, ColEmployee, ColDays, ColDeparture, ColReturn)
	if err != nil {
		return nil, err
	}
	out := make([]roster.StandardRouteRow, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, roster.StandardRouteRow{
			RouteID:   NormalizeID(t.get(row, ColRouteIdentifier)),
			DriverID:  NormalizeID(t.get(row, ColEmployee)),
			Days:      t.get(row, ColDays),
			Departure: t.get(row, ColDeparture),
			Return:    t.get(row, ColReturn),
		})
	}
	return out, nil
}

// ReadCharters reads the charter list.
func ReadCharters(r io.Reader) ([]roster.CharterRow, error) {
	t, err := readTable("charter list", r, ColBuses, ColTripNumber, ColPickupTime, ColReturnTime, ColTripDate)
	if err != nil {
		return nil, err
	}
	out := make([]roster.CharterRow, 0, len(t.rows))
	for i, row := range t.rows {
		buses, err := parseCount(t.get(row, ColBuses))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %s: %w", t.name, i+2, ColBuses, err)
		}
		training, err := parseBool(t.get(row, ColRequiresTraining))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %s: %w", t.name, i+2, ColRequiresTraining, err)
		}
		equipment, err := parseBool(t.get(row, ColEquipment))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %s: %w", t.name, i+2, ColEquipment, err)
		}
		out = append(out, roster.CharterRow{
			TripID:           NormalizeID(t.get(row, ColTripNumber)),
			Buses:            buses,
			Pickup:           t.get(row, ColPickupTime),
			Return:           t.get(row, ColReturnTime),
			Date:             t.get(row, ColTripDate),
			PickupLocation:   t.get(row, ColPickupLocation),
			Destination:      t.get(row, ColDestination),
			RequiresTraining: training,
			Equipment:        equipment,
		})
	}
	return out, nil
}

// ReadBids reads the bid form. When the form has numbered columns (1, 2,
// ...) they are read in rank order; otherwise the last maxBids columns
// after Id hold the bids, as exported by the intake form.
func ReadBids(r io.Reader, maxBids int) ([]roster.BidRow, error) {
	t, err := readTable("bid form", r, ColBidID)
	if err != nil {
		return nil, err
	}
	cols := rankColumns(t)
	if len(cols) == 0 {
		id := t.index[ColBidID]
		start := len(t.header) - maxBids
		if start <= id {
			start = id + 1
		}
		for i := start; i < len(t.header); i++ {
			cols = append(cols, i)
		}
	}
	out := make([]roster.BidRow, 0, len(t.rows))
	for _, row := range t.rows {
		bids := make([]string, 0, len(cols))
		for _, c := range cols {
			if c < len(row) {
				if v := NormalizeID(row[c]); v != "" {
					bids = append(bids, v)
				}
			}
		}
		out = append(out, roster.BidRow{DriverID: NormalizeID(t.get(row, ColBidID)), Bids: bids})
	}
	return out, nil
}

// rankColumns returns the indexes of headers "1", "2", ... in rank order.
// It stops at the first missing rank.
func rankColumns(t *table) []int {
	var cols []int
	for rank := 1; ; rank++ {
		i, ok := t.index[strconv.Itoa(rank)]
		if !ok {
			return cols
		}
		cols = append(cols, i)
	}
}

// ReadForceRejects reads the optional force reject list.
func ReadForceRejects(r io.Reader) ([]roster.ForceReject, error) {
	t, err := readTable("force rejects", r, ColDriverID, ColRouteID)
	if err != nil {
		return nil, err
	}
	out := make([]roster.ForceReject, 0, len(t.rows))
	for i, row := range t.rows {
		fr := roster.ForceReject{
			DriverID: NormalizeID(t.get(row, ColDriverID)),
			RouteID:  NormalizeID(t.get(row, ColRouteID)),
		}
		if fr.DriverID == "" || fr.RouteID == "" {
			return nil, fmt.Errorf("%s row %d: empty %s", t.name, i+2, strings.Join([]string{ColDriverID, ColRouteID}, " or "))
		}
		out = append(out, fr)
	}
	return out, nil
}

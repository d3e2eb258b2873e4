// Package report flattens an allocation result into the tables handed to
// schedulers: awarded seats, open capacity and a per-bid diagnostic.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kilianp07/charterbid/core/allocation"
	"github.com/kilianp07/charterbid/core/model"
	"github.com/kilianp07/charterbid/core/schedule"
)

// AssignmentRow is one awarded seat.
type AssignmentRow struct {
	DriverName      string `json:"driver_name"`
	SeniorityNumber string `json:"seniority_number"`
	DriverID        string `json:"driver_id"`
	// Route is the trip ID, suffixed with a seat letter when the trip has
	// more than one driver.
	Route          string `json:"route"`
	TripID         string `json:"trip_id"`
	PickupLocation string `json:"pickup_location"`
	Destination    string `json:"destination"`
	Date           string `json:"date"`
	PickupTime     string `json:"pickup_time"`
	ReturnTime     string `json:"return_time"`

	seniority float64
}

// UnassignedRow is a trip left with open seats.
type UnassignedRow struct {
	TripID          string `json:"trip_id"`
	OpenSeats       int    `json:"open_seats"`
	AssignedDrivers string `json:"assigned_drivers"`
}

// DiagnosticRow is one submitted bid and its outcome.
type DiagnosticRow struct {
	DriverName string `json:"driver_name"`
	DriverID   string `json:"driver_id"`
	TripID     string `json:"trip_id"`
	TimeStart  string `json:"time_start"`
	TimeEnd    string `json:"time_end"`
	Status     string `json:"status"`
	// Resolved is false when no rule ever recorded an outcome for the bid.
	Resolved bool `json:"resolved"`
}

// Diagnostics holds the diagnostic table and the number of unresolved bids.
type Diagnostics struct {
	Rows []DiagnosticRow `json:"rows"`
	Gaps int             `json:"gaps"`
}

// Assignments returns one row per awarded seat sorted by seniority. Seats
// of the same driver keep the order the trips were first assigned.
func Assignments(res *allocation.Result) []AssignmentRow {
	var rows []AssignmentRow
	for _, rid := range res.RouteOrder {
		route, ok := res.Route(rid)
		if !ok {
			continue
		}
		drivers := res.Assignments[rid]
		for i, did := range drivers {
			d := res.DriverByID[did]
			label := string(rid)
			if len(drivers) > 1 {
				label += SeatLetter(i)
			}
			rows = append(rows, AssignmentRow{
				DriverName:      d.Name,
				SeniorityNumber: d.SeniorityText,
				DriverID:        string(d.ID),
				Route:           label,
				TripID:          string(rid),
				PickupLocation:  route.PickupLocation,
				Destination:     route.Destination,
				Date:            route.Date,
				PickupTime:      route.PickupTime,
				ReturnTime:      route.ReturnTime,
				seniority:       d.Seniority,
			})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].seniority < rows[j].seniority })
	return rows
}

// SeatLetter returns the suffix for the seat at index i: A..Z, then AA, AB
// and so on.
func SeatLetter(i int) string {
	var b []byte
	for n := i + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}

// Unassigned lists the trips with open seats in input order.
func Unassigned(res *allocation.Result) []UnassignedRow {
	rows := make([]UnassignedRow, 0, len(res.Unassigned))
	for _, c := range res.Unassigned {
		names := make([]string, 0, len(c.AssignedDrivers))
		for _, id := range c.AssignedDrivers {
			if d, ok := res.DriverByID[id]; ok {
				names = append(names, d.Name)
			}
		}
		rows = append(rows, UnassignedRow{
			TripID:          string(c.ID),
			OpenSeats:       c.Remaining,
			AssignedDrivers: strings.Join(names, ", "),
		})
	}
	return rows
}

// Diagnose enumerates every submitted bid of every driver with its final
// status. Bids without a recorded outcome are flagged and counted in Gaps.
func Diagnose(res *allocation.Result) Diagnostics {
	var out Diagnostics
	for _, d := range res.Drivers {
		for _, bid := range d.OriginalBids {
			row := DiagnosticRow{
				DriverName: d.Name,
				DriverID:   string(d.ID),
				TripID:     string(bid),
			}
			if route, ok := res.Route(bid); ok && len(route.Intervals) > 0 {
				row.TimeStart = weekTime(route.Intervals[0].Start)
				row.TimeEnd = weekTime(route.Intervals[0].End)
			}
			if o, ok := d.Status[bid]; ok && !o.IsZero() {
				row.Status = o.String()
				row.Resolved = true
			} else {
				out.Gaps++
			}
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// weekTime renders a week offset with its timetable day symbol, "M 09:00".
func weekTime(d time.Duration) string {
	day := d / model.Day
	rem := d - day*model.Day
	return fmt.Sprintf("%s %02d:%02d", schedule.DayCode(int(day)%7), int(rem/time.Hour), int(rem%time.Hour/time.Minute))
}

// Package export writes the allocation tables as CSV and JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/charterbid/core/report"
)

// Tables groups everything produced by one run for the JSON export.
type Tables struct {
	Summary     report.Summary         `json:"summary"`
	Assignments []report.AssignmentRow `json:"assignments"`
	Unassigned  []report.UnassignedRow `json:"unassigned"`
	Diagnostics report.Diagnostics     `json:"diagnostics"`
}

// WriteJSON writes v to w as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteAssignmentsCSV writes the awarded seats with the headers schedulers
// expect.
func WriteAssignmentsCSV(w io.Writer, rows []report.AssignmentRow) error {
	return writeCSV(w, []string{
		"Driver Name", "Seniority Number", "Driver ID", "Route ID", "Route Pickup Location",
		"Route Destination", "Charter Date", "Pick Up Time", "Return Time",
	}, len(rows), func(i int) []string {
		r := rows[i]
		return []string{
			r.DriverName, r.SeniorityNumber, r.DriverID, r.Route, r.PickupLocation,
			r.Destination, r.Date, r.PickupTime, r.ReturnTime,
		}
	})
}

// WriteUnassignedCSV writes the trips left with open seats.
func WriteUnassignedCSV(w io.Writer, rows []report.UnassignedRow) error {
	return writeCSV(w, []string{"Charter ID", "Charter Left Unassigned", "Charter Drivers Assigned"}, len(rows), func(i int) []string {
		r := rows[i]
		return []string{r.TripID, strconv.Itoa(r.OpenSeats), r.AssignedDrivers}
	})
}

// WriteDiagnosticsCSV writes every bid with its outcome. Unresolved bids
// are written with an empty status.
func WriteDiagnosticsCSV(w io.Writer, d report.Diagnostics) error {
	return writeCSV(w, []string{"DriverName", "DriverID", "RouteID", "TimeStart", "TimeEnd", "Status"}, len(d.Rows), func(i int) []string {
		r := d.Rows[i]
		return []string{r.DriverName, r.DriverID, r.TripID, r.TimeStart, r.TimeEnd, r.Status}
	})
}

func writeCSV(w io.Writer, header []string, n int, row func(int) []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := cw.Write(row(i)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

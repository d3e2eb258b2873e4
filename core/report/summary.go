package report

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/charterbid/core/allocation"
	"github.com/kilianp07/charterbid/core/model"
)

// Summary gives headline figures for a run.
type Summary struct {
	SeatsDeclared  int `json:"seats_declared"`
	SeatsFilled    int `json:"seats_filled"`
	SeatsOpen      int `json:"seats_open"`
	Bidders        int `json:"bidders"`
	DriversAwarded int `json:"drivers_awarded"`
	// AwardsMean and AwardsStdDev describe the seats won per bidding driver.
	AwardsMean   float64 `json:"awards_mean"`
	AwardsStdDev float64 `json:"awards_stddev"`
	// SeatBound is the largest number of seats any assignment could fill
	// from the submitted bids, honoring trip capacity and one trip per
	// driver per day. Force rejected bids do not count.
	SeatBound   int    `json:"seat_bound"`
	Rounds      int    `json:"rounds"`
	Evictions   int    `json:"evictions"`
	Unresolved  int    `json:"unresolved"`
	LastDriver  string `json:"last_driver,omitempty"`
	NextOffset  int    `json:"next_offset"`
	StoppedWhen string `json:"stopped_when"`
}

// Summarize computes the run summary. An error is returned only when the
// seat bound cannot be solved.
func Summarize(res *allocation.Result) (Summary, error) {
	s := Summary{
		SeatsFilled: res.SeatsFilled(),
		SeatsOpen:   res.SeatsOpen(),
		Rounds:      res.Rounds,
		Evictions:   res.Evictions,
		Unresolved:  Diagnose(res).Gaps,
		StoppedWhen: res.Stop.String(),
	}
	for _, c := range res.Charters {
		s.SeatsDeclared += c.Capacity
	}
	if res.LastAssigned != nil {
		s.LastDriver = string(res.LastAssigned.DriverID)
		s.NextOffset = res.LastAssigned.NextOffset
	}

	won := make(map[model.DriverID]int)
	for _, ids := range res.Assignments {
		for _, id := range ids {
			won[id]++
		}
	}
	var awards []float64
	for _, d := range res.Drivers {
		if len(d.OriginalBids) == 0 {
			continue
		}
		awards = append(awards, float64(won[d.ID]))
		if won[d.ID] > 0 {
			s.DriversAwarded++
		}
	}
	s.Bidders = len(awards)
	if len(awards) > 0 {
		s.AwardsMean = stat.Mean(awards, nil)
	}
	if len(awards) > 1 {
		s.AwardsStdDev = stat.StdDev(awards, nil)
	}

	bound, err := seatBound(res)
	if err != nil {
		return s, err
	}
	s.SeatBound = bound
	return s, nil
}

type bidVar struct {
	route int
	slot  int
}

// seatBound solves the bid/trip transport problem: maximise the seats
// filled subject to trip capacity and at most one seat per driver and day.
// Every variable sits in exactly one trip row and one driver-day row, so the
// relaxation has an integral optimum.
func seatBound(res *allocation.Result) (int, error) {
	routeRow := make(map[model.RouteID]int)
	var caps []float64
	for _, c := range res.Charters {
		if c.Capacity <= 0 {
			continue
		}
		routeRow[c.ID] = len(caps)
		caps = append(caps, float64(c.Capacity))
	}

	type slotKey struct {
		driver model.DriverID
		day    int
	}
	slots := make(map[slotKey]int)
	var vars []bidVar
	for _, d := range res.Drivers {
		rejected := make(map[model.RouteID]bool, len(d.ForceRejected))
		for _, id := range d.ForceRejected {
			rejected[id] = true
		}
		for _, bid := range d.OriginalBids {
			ri, ok := routeRow[bid]
			if !ok || rejected[bid] {
				continue
			}
			route, _ := res.Route(bid)
			key := slotKey{driver: d.ID, day: route.Day()}
			si, ok := slots[key]
			if !ok {
				si = len(slots)
				slots[key] = si
			}
			vars = append(vars, bidVar{route: ri, slot: si})
		}
	}
	if len(vars) == 0 {
		return 0, nil
	}

	// Standard form: one slack per row turns each inequality into an
	// equality with x >= 0.
	rows := len(caps) + len(slots)
	cols := len(vars) + rows
	A := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)
	c := make([]float64, cols)
	for j, v := range vars {
		c[j] = -1
		A.Set(v.route, j, 1)
		A.Set(len(caps)+v.slot, j, 1)
	}
	for i := 0; i < rows; i++ {
		A.Set(i, len(vars)+i, 1)
		if i < len(caps) {
			b[i] = caps[i]
		} else {
			b[i] = 1
		}
	}
	opt, _, err := lp.Simplex(c, A, b, 1e-9, nil)
	if err != nil {
		return 0, err
	}
	return int(math.Round(-opt)), nil
}

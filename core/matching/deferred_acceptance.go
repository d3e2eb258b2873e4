package matching

import "github.com/kilianp07/charterbid/core/model"

// Match is the outcome for one driver. Exhausted is set when the driver ran
// through its whole list without being held by a trip.
type Match struct {
	Route     model.RouteID
	Exhausted bool
}

// Eviction records a holder bumped by a more senior proposer.
type Eviction struct {
	Route    model.RouteID
	Evicted  model.DriverID
	Proposer model.DriverID
}

// Result is the stable matching produced by Run.
type Result struct {
	// Matches maps every participating driver to its trip or to itself.
	Matches map[model.DriverID]Match
	// Holders lists the drivers holding each trip in acceptance order.
	Holders map[model.RouteID][]model.DriverID
	// LastAccepted is the last driver to receive a tentative acceptance.
	LastAccepted model.DriverID
	Evictions    []Eviction
	Proposals    int
}

// Winners returns the drivers matched to a trip, in the given order.
func (r Result) Winners(order []model.DriverID) []model.DriverID {
	var out []model.DriverID
	for _, id := range order {
		if m, ok := r.Matches[id]; ok && !m.Exhausted {
			out = append(out, id)
		}
	}
	return out
}

// Run matches drivers to trips. order lists the participating drivers; the
// first unmatched driver in order always proposes next. prefs holds each
// driver's ranked trips. Trips missing from the pool are skipped. The pool is
// not modified.
func Run(order []model.DriverID, prefs map[model.DriverID][]model.RouteID, pool *Pool) Result {
	res := Result{
		Matches: make(map[model.DriverID]Match, len(order)),
		Holders: make(map[model.RouteID][]model.DriverID),
	}
	cursor := make(map[model.DriverID]int, len(order))
	next := 0
	for {
		next = firstUnmatched(order, res.Matches, next)
		if next == len(order) {
			break
		}
		driver := order[next]
		list := prefs[driver]
		idx := cursor[driver]
		cursor[driver]++
		if idx >= len(list) {
			res.Matches[driver] = Match{Exhausted: true}
			continue
		}
		route := list[idx]
		seats, ok := pool.Seats(route)
		if !ok {
			continue
		}
		res.Proposals++
		holders := res.Holders[route]
		if len(holders) < seats {
			res.Holders[route] = append(holders, driver)
			res.Matches[driver] = Match{Route: route}
			res.LastAccepted = driver
			continue
		}
		worst := leastPreferredBehind(pool, holders, driver)
		if worst < 0 {
			continue
		}
		evicted := holders[worst]
		holders = append(holders[:worst], holders[worst+1:]...)
		res.Holders[route] = append(holders, driver)
		delete(res.Matches, evicted)
		res.Matches[driver] = Match{Route: route}
		res.LastAccepted = driver
		res.Evictions = append(res.Evictions, Eviction{Route: route, Evicted: evicted, Proposer: driver})
		if pos := indexOf(order, evicted); pos < next {
			next = pos
		}
	}
	return res
}

// firstUnmatched returns the index of the first driver at or after from
// without a match, or len(order).
func firstUnmatched(order []model.DriverID, matches map[model.DriverID]Match, from int) int {
	for i := from; i < len(order); i++ {
		if _, ok := matches[order[i]]; !ok {
			return i
		}
	}
	return len(order)
}

// leastPreferredBehind returns the index of the least preferred holder that
// ranks strictly behind proposer, or -1 when the proposer beats nobody.
// Unranked drivers never take part in a bump.
func leastPreferredBehind(pool *Pool, holders []model.DriverID, proposer model.DriverID) int {
	pr, ok := pool.Rank(proposer)
	if !ok {
		return -1
	}
	worst, worstRank := -1, pr
	for i, h := range holders {
		hr, ok := pool.Rank(h)
		if !ok {
			continue
		}
		if hr > worstRank {
			worst, worstRank = i, hr
		}
	}
	return worst
}

func indexOf(order []model.DriverID, id model.DriverID) int {
	for i, d := range order {
		if d == id {
			return i
		}
	}
	return len(order)
}

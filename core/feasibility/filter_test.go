package feasibility

import (
	"errors"
	"testing"
	"time"

	"github.com/kilianp07/charterbid/core/model"
	"github.com/kilianp07/charterbid/core/roster"
)

// Week of 2024-10-20 (Sunday) to 2024-10-26 (Saturday).
func fixture(t *testing.T) *roster.Roster {
	t.Helper()
	in := roster.Input{
		Seniority: []roster.SeniorityRow{
			{FullName: "Al", DriverID: "1", SeniorityNumber: "1"},
			{FullName: "Bo", DriverID: "2", SeniorityNumber: "2", Trained: true},
		},
		StandardRoutes: []roster.StandardRouteRow{
			// 06:30-08:30 after padding on Monday.
			{RouteID: "S1", DriverID: "1", Days: "M", Departure: "6:00 AM", Return: "9:00 AM"},
		},
		Charters: []roster.CharterRow{
			{TripID: "overlap", Buses: 1, Pickup: "08:00:00", Return: "10:00:00", Date: "10/21/2024"},
			{TripID: "edge", Buses: 1, Pickup: "08:30:00", Return: "10:00:00", Date: "10/21/2024"},
			{TripID: "free", Buses: 1, Pickup: "08:31:00", Return: "10:00:00", Date: "10/21/2024"},
			{TripID: "long", Buses: 1, Pickup: "06:00:00", Return: "23:00:00", Date: "10/23/2024"},
			{TripID: "sped", Buses: 1, Pickup: "10:00:00", Return: "11:00:00", Date: "10/24/2024", RequiresTraining: true},
		},
		Bids: []roster.BidRow{
			{DriverID: "1", Bids: []string{"overlap", "edge", "free", "long", "sped"}},
			{DriverID: "2", Bids: []string{"free", "sped"}},
		},
	}
	r, err := roster.Build(in, roster.Options{Padding: 30 * time.Minute})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return r
}

func driver(t *testing.T, r *roster.Roster, id model.DriverID) *model.Driver {
	t.Helper()
	d, ok := r.Driver(id)
	if !ok {
		t.Fatalf("driver %s missing", id)
	}
	return d
}

func TestTimeConflictInclusive(t *testing.T) {
	r := fixture(t)
	d := driver(t, r, "1")
	n := TimeConflictFilter{}.Filter(r, d)
	if n != 2 {
		t.Fatalf("expected 2 conflicts, got %d (%v)", n, d.ActiveBids)
	}
	for _, id := range []model.RouteID{"overlap", "edge"} {
		if d.Status[id].Reason != model.ReasonTimeConflict {
			t.Errorf("%s: expected time conflict, got %q", id, d.Status[id])
		}
	}
	if !d.HasBid("free") {
		t.Fatalf("bid starting one minute after the padded end must survive")
	}
}

func TestTimeConflictNoCommitments(t *testing.T) {
	r := fixture(t)
	d := driver(t, r, "2")
	if n := (TimeConflictFilter{}).Filter(r, d); n != 0 {
		t.Fatalf("expected no removal, got %d", n)
	}
}

func TestHourLimit(t *testing.T) {
	r := fixture(t)
	d := driver(t, r, "1")
	// 3h committed, long trip is 17h.
	n := HourLimitFilter{MaxHours: 19}.Filter(r, d)
	if n != 1 || d.Status["long"].Reason != model.ReasonHourLimitExceeded {
		t.Fatalf("expected long trip removed, got %d %v", n, d.Status)
	}
	d = driver(t, r, "2")
	if n := (HourLimitFilter{MaxHours: 1}).Filter(r, d); n != 1 {
		t.Fatalf("expected only the 89 minute trip removed, got %d", n)
	}
	if !d.HasBid("sped") {
		t.Fatalf("bid reaching the cap exactly must be kept")
	}
}

func TestTrainingFilter(t *testing.T) {
	r := fixture(t)
	untrained := driver(t, r, "1")
	if n := (TrainingFilter{}).Filter(r, untrained); n != 1 {
		t.Fatalf("expected sped bid removed, got %d", n)
	}
	if untrained.Status["sped"].Reason != model.ReasonNotTrained {
		t.Fatalf("unexpected status %v", untrained.Status["sped"])
	}
	trained := driver(t, r, "2")
	if n := (TrainingFilter{}).Filter(r, trained); n != 0 {
		t.Fatalf("trained driver keeps sped bids")
	}
}

func TestPipelineSkipsTrainingByDefault(t *testing.T) {
	r := fixture(t)
	d := driver(t, r, "1")
	NewPipeline(40, false).Filter(r, d)
	if !d.HasBid("sped") {
		t.Fatalf("training must not be enforced by default")
	}
	NewPipeline(40, true).Filter(r, d)
	if d.HasBid("sped") {
		t.Fatalf("training enforced when enabled")
	}
}

func TestApplyForceRejects(t *testing.T) {
	r := fixture(t)
	err := ApplyForceRejects(r, []roster.ForceReject{{DriverID: "2", RouteID: "free"}})
	if err != nil {
		t.Fatalf("force reject: %v", err)
	}
	d := driver(t, r, "2")
	if d.HasBid("free") || d.Status["free"].Reason != model.ReasonForceRejected {
		t.Fatalf("bid not force rejected: %v", d.ActiveBids)
	}
	if len(d.ForceRejected) != 1 || len(d.OriginalBids) != 2 {
		t.Fatalf("unexpected driver state %+v", d)
	}
}

func TestApplyForceRejectsFailsLoudly(t *testing.T) {
	cases := []struct {
		fr   roster.ForceReject
		want error
	}{
		{roster.ForceReject{DriverID: "9", RouteID: "free"}, roster.ErrUnknownDriver},
		{roster.ForceReject{DriverID: "2", RouteID: "nope"}, roster.ErrUnknownRoute},
		{roster.ForceReject{DriverID: "2", RouteID: "long"}, ErrBidNotPlaced},
	}
	for _, tc := range cases {
		r := fixture(t)
		if err := ApplyForceRejects(r, []roster.ForceReject{tc.fr}); !errors.Is(err, tc.want) {
			t.Errorf("%+v: expected %v got %v", tc.fr, tc.want, err)
		}
	}
}

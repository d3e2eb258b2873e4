package allocation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/charterbid/core/metrics"
	"github.com/kilianp07/charterbid/core/model"
	"github.com/kilianp07/charterbid/core/roster"
	"github.com/kilianp07/charterbid/infra/logger"
)

type roundSink struct {
	rounds []metrics.RoundStats
	runs   []metrics.RunStats
}

func (s *roundSink) RecordRound(st metrics.RoundStats) error {
	s.rounds = append(s.rounds, st)
	return nil
}

func (s *roundSink) RecordRun(st metrics.RunStats) error {
	s.runs = append(s.runs, st)
	return nil
}

func newAllocator(t *testing.T, cfg Config) (*Allocator, *roundSink) {
	t.Helper()
	sink := &roundSink{}
	a, err := New(cfg, logger.NopLogger{}, sink)
	require.NoError(t, err)
	return a, sink
}

func seniority(rows ...string) []roster.SeniorityRow {
	out := make([]roster.SeniorityRow, 0, len(rows)/2)
	for i := 0; i+1 < len(rows); i += 2 {
		out = append(out, roster.SeniorityRow{FullName: "Driver " + rows[i], DriverID: rows[i], SeniorityNumber: rows[i+1]})
	}
	return out
}

// twoDriverInput has A (seniority 1) and B (seniority 2) both bidding R
// (Monday, one bus) then S (Tuesday, two buses).
func twoDriverInput() roster.Input {
	return roster.Input{
		Seniority: seniority("A", "1", "B", "2"),
		Charters: []roster.CharterRow{
			{TripID: "R", Buses: 1, Pickup: "09:00:00", Return: "11:00:00", Date: "10/21/2024"},
			{TripID: "S", Buses: 2, Pickup: "09:00:00", Return: "11:00:00", Date: "10/22/2024"},
		},
		Bids: []roster.BidRow{
			{DriverID: "A", Bids: []string{"R", "S"}},
			{DriverID: "B", Bids: []string{"R", "S"}},
		},
	}
}

func TestSeniorDriverWinsSingleSeat(t *testing.T) {
	a, _ := newAllocator(t, DefaultConfig())
	in := twoDriverInput()
	in.Charters = in.Charters[:1]
	for i := range in.Bids {
		in.Bids[i].Bids = []string{"R"}
	}
	res, err := a.Allocate(context.Background(), in, nil)
	require.NoError(t, err)

	assert.Equal(t, []model.DriverID{"A"}, res.Assignments["R"])
	b := res.DriverByID["B"]
	assert.Empty(t, b.Routes)
	assert.Equal(t, "Route already assigned on iteration 1", b.Status["R"].String())
	assert.Equal(t, "Received Bid on iteration 1", res.DriverByID["A"].Status["R"].String())
	assert.Empty(t, res.Unassigned)
	assert.Equal(t, StopPoolEmpty, res.Stop)
}

func TestSharedTripGoesToBoth(t *testing.T) {
	a, sink := newAllocator(t, DefaultConfig())
	res, err := a.Allocate(context.Background(), twoDriverInput(), nil)
	require.NoError(t, err)

	assert.Equal(t, []model.DriverID{"A"}, res.Assignments["R"])
	assert.Equal(t, []model.DriverID{"B", "A"}, res.Assignments["S"])
	assert.Equal(t, []model.RouteID{"R", "S"}, res.RouteOrder)
	assert.Equal(t, 2, res.Rounds)
	assert.Equal(t, 3, res.SeatsFilled())
	assert.Equal(t, 0, res.SeatsOpen())

	s, ok := res.Route("S")
	require.True(t, ok)
	assert.Equal(t, 0, s.Remaining)
	assert.Equal(t, []model.DriverID{"B", "A"}, s.AssignedDrivers)

	require.NotNil(t, res.LastAssigned)
	assert.Equal(t, model.DriverID("A"), res.LastAssigned.DriverID)
	assert.Equal(t, "1", res.LastAssigned.Seniority)
	assert.Equal(t, 1, res.LastAssigned.NextOffset)

	require.Len(t, sink.rounds, 2)
	assert.Equal(t, 2, sink.rounds[0].Awarded)
	assert.Equal(t, 1, sink.rounds[0].Consumed)
	assert.Equal(t, 1, sink.rounds[0].Removed[model.ReasonAlreadyAssigned])
	require.Len(t, sink.runs, 1)
	assert.Equal(t, 3, sink.runs[0].SeatsDeclared)
	assert.Equal(t, 3, sink.runs[0].SeatsFilled)
}

func TestSeniorityOffsetRotatesOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SeniorityOffset = 1
	a, _ := newAllocator(t, cfg)
	in := twoDriverInput()
	in.Charters = in.Charters[:1]
	for i := range in.Bids {
		in.Bids[i].Bids = []string{"R"}
	}
	res, err := a.Allocate(context.Background(), in, nil)
	require.NoError(t, err)
	assert.Equal(t, []model.DriverID{"B"}, res.Assignments["R"])
	require.NotNil(t, res.LastAssigned)
	assert.Equal(t, 0, res.LastAssigned.NextOffset)
}

func TestSameDayBidRemoved(t *testing.T) {
	a, _ := newAllocator(t, DefaultConfig())
	in := roster.Input{
		Seniority: seniority("A", "1"),
		Charters: []roster.CharterRow{
			{TripID: "X", Buses: 1, Pickup: "08:00:00", Return: "10:00:00", Date: "10/23/2024"},
			{TripID: "Y", Buses: 1, Pickup: "15:00:00", Return: "18:00:00", Date: "10/23/2024"},
		},
		Bids: []roster.BidRow{{DriverID: "A", Bids: []string{"X", "Y"}}},
	}
	res, err := a.Allocate(context.Background(), in, nil)
	require.NoError(t, err)

	d := res.DriverByID["A"]
	assert.Equal(t, []model.RouteID{"X"}, d.Routes)
	assert.Equal(t, "Already received bid on same day", d.Status["Y"].String())
	require.Len(t, res.Unassigned, 1)
	assert.Equal(t, model.RouteID("Y"), res.Unassigned[0].ID)
	assert.Equal(t, StopNoProgress, res.Stop)
}

func TestAllBidsConflictWithStandardRoute(t *testing.T) {
	a, _ := newAllocator(t, DefaultConfig())
	in := roster.Input{
		Seniority: seniority("A", "1"),
		StandardRoutes: []roster.StandardRouteRow{
			{RouteID: "900", DriverID: "A", Days: "M", Departure: "6:00 AM", Return: "9:00 AM"},
		},
		Charters: []roster.CharterRow{
			{TripID: "X", Buses: 1, Pickup: "07:00:00", Return: "08:00:00", Date: "10/21/2024"},
			{TripID: "Y", Buses: 1, Pickup: "08:30:00", Return: "12:00:00", Date: "10/21/2024"},
		},
		Bids: []roster.BidRow{{DriverID: "A", Bids: []string{"X", "Y"}}},
	}
	res, err := a.Allocate(context.Background(), in, nil)
	require.NoError(t, err)

	d := res.DriverByID["A"]
	assert.Equal(t, []model.RouteID{"900"}, d.Routes)
	assert.Empty(t, d.ActiveBids)
	for _, id := range d.OriginalBids {
		assert.Equal(t, model.ReasonTimeConflict, d.Status[id].Reason, "bid %s", id)
	}
	assert.Len(t, res.Unassigned, 2)
	assert.Nil(t, res.LastAssigned)
}

func TestHourLimitAppliedAfterWin(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxHours = 6
	a, _ := newAllocator(t, cfg)
	in := roster.Input{
		Seniority: seniority("A", "1", "B", "2"),
		Charters: []roster.CharterRow{
			{TripID: "X", Buses: 1, Pickup: "08:00:00", Return: "12:00:00", Date: "10/21/2024"},
			{TripID: "Y", Buses: 2, Pickup: "08:00:00", Return: "12:00:00", Date: "10/22/2024"},
			{TripID: "Z", Buses: 1, Pickup: "08:00:00", Return: "15:00:00", Date: "10/24/2024"},
		},
		Bids: []roster.BidRow{
			{DriverID: "A", Bids: []string{"X", "Y", "Z"}},
			{DriverID: "B", Bids: []string{"Y"}},
		},
	}
	res, err := a.Allocate(context.Background(), in, nil)
	require.NoError(t, err)

	da := res.DriverByID["A"]
	assert.Equal(t, model.ReasonHourLimitExceeded, da.Status["Z"].Reason)
	assert.Equal(t, []model.RouteID{"X"}, da.Routes)
	assert.Equal(t, model.ReasonHourLimitExceeded, da.Status["Y"].Reason)
	assert.Equal(t, []model.DriverID{"B"}, res.Assignments["Y"])
	assert.InDelta(t, 4.0, da.Hours, 1e-9)
}

func TestForceRejectsApplied(t *testing.T) {
	a, _ := newAllocator(t, DefaultConfig())
	in := twoDriverInput()
	res, err := a.Allocate(context.Background(), in, []roster.ForceReject{{DriverID: "A", RouteID: "R"}})
	require.NoError(t, err)
	assert.Equal(t, []model.DriverID{"B"}, res.Assignments["R"])
	assert.Equal(t, "Force Rejected", res.DriverByID["A"].Status["R"].String())
	assert.Equal(t, []model.RouteID{"R"}, res.DriverByID["A"].ForceRejected)

	a, _ = newAllocator(t, DefaultConfig())
	_, err = a.Allocate(context.Background(), twoDriverInput(), []roster.ForceReject{{DriverID: "A", RouteID: "nope"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, roster.ErrUnknownRoute))
}

func TestRoundCeiling(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRounds = 1
	a, _ := newAllocator(t, cfg)
	res, err := a.Allocate(context.Background(), twoDriverInput(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Rounds)
	assert.Equal(t, StopMaxRounds, res.Stop)
	require.Len(t, res.Unassigned, 1)
	assert.Equal(t, 1, res.Unassigned[0].Remaining)
	assert.True(t, res.DriverByID["A"].HasBid("S"))
	assert.True(t, res.DriverByID["A"].Status["S"].IsZero())
}

func TestCanceledContext(t *testing.T) {
	a, _ := newAllocator(t, DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.Allocate(ctx, twoDriverInput(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestInvalidSeniorityAborts(t *testing.T) {
	a, _ := newAllocator(t, DefaultConfig())
	in := twoDriverInput()
	in.Seniority[1].SeniorityNumber = "two"
	res, err := a.Allocate(context.Background(), in, nil)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, roster.ErrInvalidSeniority))
}

func TestNewValidatesConfig(t *testing.T) {
	if _, err := New(DefaultConfig(), nil, nil); err == nil {
		t.Fatalf("expected error for nil logger")
	}
	cfg := DefaultConfig()
	cfg.PaddingMinutes = -1
	if _, err := New(cfg, logger.NopLogger{}, nil); err == nil {
		t.Fatalf("expected error for negative padding")
	}
	a, err := New(Config{}, logger.NopLogger{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 40.0, a.Config().MaxHours)
	assert.Equal(t, DefaultMaxRounds, a.Config().MaxRounds)
	assert.Equal(t, 0, a.Config().PaddingMinutes)
}

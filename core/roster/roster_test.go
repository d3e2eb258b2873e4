package roster

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/charterbid/core/model"
)

func baseInput() Input {
	return Input{
		Seniority: []SeniorityRow{
			{FullName: "Bea Two", DriverID: "200", SeniorityNumber: "2"},
			{FullName: "Al One", DriverID: "100", SeniorityNumber: "1"},
			{FullName: "Cy Three", DriverID: "300", SeniorityNumber: "3"},
		},
		StandardRoutes: []StandardRouteRow{
			{RouteID: "471936", DriverID: "100", Days: "MTWRF", Departure: "6:00 AM", Return: "9:00 AM"},
			{RouteID: "471937", DriverID: "100", Days: "MTWRF", Departure: "2:00 PM", Return: "4:00 PM"},
		},
		Charters: []CharterRow{
			{TripID: "11", Buses: 1, Pickup: "18:30:00", Return: "23:30:00", Date: "10/26/2024"},
			{TripID: "12", Buses: 2, Pickup: "08:00:00", Return: "12:00:00", Date: "10/22/2024"},
		},
		Bids: []BidRow{
			{DriverID: "100", Bids: []string{"12", "", "11", "12"}},
			{DriverID: "300", Bids: []string{"11"}},
		},
	}
}

func TestBuildOrdersDriversBySeniority(t *testing.T) {
	r, err := Build(baseInput(), Options{})
	require.NoError(t, err)
	ids := make([]model.DriverID, 0, 3)
	for _, d := range r.Drivers() {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []model.DriverID{"100", "200", "300"}, ids)
	assert.Equal(t, []model.DriverID{"200", "300", "100"}, r.Order(1))
	assert.Equal(t, []model.DriverID{"100", "200", "300"}, r.Order(3))
	assert.Equal(t, 2, r.Position("300"))
}

func TestBuildAttachesStandardRoutes(t *testing.T) {
	r, err := Build(baseInput(), Options{})
	require.NoError(t, err)
	d, ok := r.Driver("100")
	require.True(t, ok)
	assert.InDelta(t, 25.0, d.Hours, 1e-9)
	assert.Len(t, d.Committed, 10)
	assert.Equal(t, []model.RouteID{"471936", "471937"}, d.Routes)
	std := r.StandardRoutes()
	require.Len(t, std, 2)
	assert.Equal(t, model.RouteID("471936"), std[0].ID)
	assert.Equal(t, 1, std[0].Capacity)
}

func TestBuildResolvesBids(t *testing.T) {
	r, err := Build(baseInput(), Options{})
	require.NoError(t, err)
	d, _ := r.Driver("100")
	assert.Equal(t, []model.RouteID{"12", "11"}, d.ActiveBids)
	assert.Equal(t, []model.RouteID{"12", "11"}, d.OriginalBids)
	d.ActiveBids[0] = "x"
	assert.Equal(t, model.RouteID("12"), d.OriginalBids[0])

	none, _ := r.Driver("200")
	assert.Empty(t, none.ActiveBids)
	assert.NotNil(t, none.Status)

	trip, ok := r.Route("12")
	require.True(t, ok)
	assert.Equal(t, 2, trip.Remaining)
	assert.Equal(t, 2, trip.Day())
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Input)
		want   error
	}{
		{"non numeric seniority", func(in *Input) { in.Seniority[0].SeniorityNumber = "two" }, ErrInvalidSeniority},
		{"duplicate seniority", func(in *Input) { in.Seniority[0].SeniorityNumber = "1" }, ErrDuplicateSeniority},
		{"duplicate driver", func(in *Input) { in.Seniority[0].DriverID = "100" }, ErrDuplicateDriver},
		{"standard route driver", func(in *Input) { in.StandardRoutes[0].DriverID = "999" }, ErrUnknownDriver},
		{"standard route days", func(in *Input) { in.StandardRoutes[0].Days = "XYZ" }, ErrInvalidRoute},
		{"charter time", func(in *Input) { in.Charters[0].Pickup = "TBD" }, ErrInvalidCharter},
		{"charter date", func(in *Input) { in.Charters[0].Date = "TBA" }, ErrInvalidCharter},
		{"duplicate charter", func(in *Input) { in.Charters[1].TripID = "11" }, ErrDuplicateRoute},
		{"bid driver", func(in *Input) { in.Bids[0].DriverID = "999" }, ErrUnknownDriver},
		{"bid route", func(in *Input) { in.Bids[0].Bids = []string{"99"} }, ErrUnknownRoute},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := baseInput()
			tc.mutate(&in)
			r, err := Build(in, Options{})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if r != nil {
				t.Fatalf("expected no roster on error")
			}
		})
	}
}

func TestBuildBidLimit(t *testing.T) {
	in := baseInput()
	_, err := Build(in, Options{MaxBids: 1})
	assert.ErrorIs(t, err, ErrTooManyBids)
}

func TestBuildSeparatesRouteNamespaces(t *testing.T) {
	in := baseInput()
	in.StandardRoutes[0].RouteID = "11"
	r, err := Build(in, Options{})
	require.NoError(t, err)
	trip, ok := r.Route("11")
	require.True(t, ok)
	assert.Equal(t, model.RouteCharter, trip.Kind)
}

func TestBuildCarriesCharterFlags(t *testing.T) {
	in := baseInput()
	in.Charters[0].RequiresTraining = true
	in.Charters[0].Equipment = true
	r, err := Build(in, Options{})
	require.NoError(t, err)
	trip := r.MustRoute(model.RouteID(in.Charters[0].TripID))
	assert.True(t, trip.RequiresTraining)
	assert.True(t, trip.Equipment)
}

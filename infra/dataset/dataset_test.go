package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/charterbid/core/roster"
)

func TestReadSeniority(t *testing.T) {
	in := "FullName,DriverID,SeniorityNumber,Trained\n" +
		"Al One,100.0,1,yes\n" +
		",,,\n" +
		"Bea Two,200,2,\n"
	rows, err := ReadSeniority(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []roster.SeniorityRow{
		{FullName: "Al One", DriverID: "100", SeniorityNumber: "1", Trained: true},
		{FullName: "Bea Two", DriverID: "200", SeniorityNumber: "2"},
	}, rows)
}

func TestReadSeniorityMissingColumns(t *testing.T) {
	_, err := ReadSeniority(strings.NewReader("FullName,Driver_ID,Seniority_Number\nAl,1,1\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumns))
	assert.Contains(t, err.Error(), "DriverID, SeniorityNumber")
}

func TestReadStandardRoutes(t *testing.T) {
	in := "Route identifier,Employee,Days of the week,Depot departure time,Depot return time\n" +
		"471936,100,MTWRF,6:00 AM,9:00 AM\n"
	rows, err := ReadStandardRoutes(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, roster.StandardRouteRow{RouteID: "471936", DriverID: "100", Days: "MTWRF", Departure: "6:00 AM", Return: "9:00 AM"}, rows[0])
}

func TestReadChartersLatin1(t *testing.T) {
	in := []byte("Buses,Trip Number,P/U Time,Return Time,Trip Date,Pick Up Location,Destination\n" +
		"2.0,11.0,18:30:00,23:30:00,10/26/2024,Caf\xe9 Lot,Arena\n")
	rows, err := ReadCharters(strings.NewReader(string(in)))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "11", rows[0].TripID)
	assert.Equal(t, 2, rows[0].Buses)
	assert.Equal(t, "Café Lot", rows[0].PickupLocation)
	assert.Equal(t, "10/26/2024", rows[0].Date)
}

func TestReadChartersOptionalFlags(t *testing.T) {
	in := "Buses,Trip Number,P/U Time,Return Time,Trip Date,Requires Training,Equipment\n" +
		"1,11,08:00:00,10:00:00,10/21/2024,yes,true\n" +
		"1,12,08:00:00,10:00:00,10/22/2024,,\n"
	rows, err := ReadCharters(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].RequiresTraining)
	assert.True(t, rows[0].Equipment)
	assert.False(t, rows[1].Equipment)
}

func TestReadChartersBadBuses(t *testing.T) {
	in := "Buses,Trip Number,P/U Time,Return Time,Trip Date\n1.5,11,18:30:00,23:30:00,10/26/2024\n"
	_, err := ReadCharters(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestReadBidsNumberedColumns(t *testing.T) {
	in := "Id,Name,2,1,3\n" +
		"100,Al,12,11,\n" +
		"200,Bea,,13.0,\n"
	rows, err := ReadBids(strings.NewReader(in), 50)
	require.NoError(t, err)
	assert.Equal(t, []roster.BidRow{
		{DriverID: "100", Bids: []string{"11", "12"}},
		{DriverID: "200", Bids: []string{"13"}},
	}, rows)
}

func TestReadBidsTrailingColumns(t *testing.T) {
	in := "Start time,Email,Id,First choice,Second choice,Third choice\n" +
		"9:00,a@x,100,11,12,13\n"
	rows, err := ReadBids(strings.NewReader(in), 2)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"12", "13"}, rows[0].Bids)

	rows, err = ReadBids(strings.NewReader(in), 50)
	require.NoError(t, err)
	assert.Equal(t, []string{"11", "12", "13"}, rows[0].Bids)
}

func TestReadForceRejects(t *testing.T) {
	rows, err := ReadForceRejects(strings.NewReader("DriverID,RouteID\n100,11.0\n"))
	require.NoError(t, err)
	assert.Equal(t, []roster.ForceReject{{DriverID: "100", RouteID: "11"}}, rows)

	_, err = ReadForceRejects(strings.NewReader("DriverID,RouteID\n100,\n"))
	assert.Error(t, err)
}

func TestNormalizeID(t *testing.T) {
	cases := map[string]string{"11.0": "11", " 11 ": "11", "11.00": "11", "11.5": "11.5", "A.0": "A.0", "": ""}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeID(in), in)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return p
	}
	p := Paths{
		Seniority:      write("seniority.csv", "FullName,DriverID,SeniorityNumber\nAl,100,1\n"),
		StandardRoutes: write("routes.csv", "Route identifier,Employee,Days of the week,Depot departure time,Depot return time\n"),
		Charters:       write("charters.csv", "Buses,Trip Number,P/U Time,Return Time,Trip Date\n1,11,08:00:00,10:00:00,10/21/2024\n"),
		Bids:           write("bids.csv", "Id,1\n100,11\n"),
	}
	in, rejects, err := Load(p, 50)
	require.NoError(t, err)
	assert.Nil(t, rejects)
	assert.Len(t, in.Seniority, 1)
	assert.Empty(t, in.StandardRoutes)
	assert.Len(t, in.Charters, 1)
	assert.Equal(t, []string{"11"}, in.Bids[0].Bids)

	p.ForceRejects = filepath.Join(dir, "missing.csv")
	_, _, err = Load(p, 50)
	assert.Error(t, err)
}

package scenarios

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/charterbid/core/allocation"
	"github.com/kilianp07/charterbid/core/model"
	"github.com/kilianp07/charterbid/core/report"
	"github.com/kilianp07/charterbid/infra/logger"
	"github.com/kilianp07/charterbid/infra/metrics"
)

func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}
	alloc, err := allocation.New(sc.Config.ToConfig(), logger.NopLogger{}, sink)
	if err != nil {
		t.Fatalf("allocator: %v", err)
	}
	in, rejects := sc.Input()
	res, err := alloc.Allocate(context.Background(), in, rejects)
	require.NoError(t, err, "scenario %s", sc.Name)

	exp := sc.Expected
	got := make(map[string][]string, len(res.Assignments))
	for rid, ids := range res.Assignments {
		got[string(rid)] = driverIDs(ids)
	}
	want := exp.Assignments
	if want == nil {
		want = map[string][]string{}
	}
	assert.Equal(t, want, got, "assignments")

	open := make(map[string]int)
	for _, row := range report.Unassigned(res) {
		open[row.TripID] = row.OpenSeats
	}
	wantOpen := exp.Unassigned
	if wantOpen == nil {
		wantOpen = map[string]int{}
	}
	assert.Equal(t, wantOpen, open, "unassigned")

	for did, trips := range exp.Status {
		d, ok := res.DriverByID[model.DriverID(did)]
		if !assert.True(t, ok, "driver %s", did) {
			continue
		}
		for trip, status := range trips {
			assert.Equal(t, status, d.Status[model.RouteID(trip)].String(), "driver %s trip %s", did, trip)
		}
	}

	if len(exp.Labels) > 0 {
		var labels []string
		for _, row := range report.Assignments(res) {
			labels = append(labels, row.DriverID+":"+row.Route)
		}
		assert.Equal(t, exp.Labels, labels, "labels")
	}
	if exp.Rounds > 0 {
		assert.Equal(t, exp.Rounds, res.Rounds, "rounds")
	}
	if exp.NextOffset != nil {
		require.NotNil(t, res.LastAssigned, "last assigned")
		assert.Equal(t, *exp.NextOffset, res.LastAssigned.NextOffset, "next offset")
	}
	assert.Equal(t, exp.Gaps, report.Diagnose(res).Gaps, "gaps")

	assert.Equal(t, float64(res.SeatsFilled()), gaugeValue(t, reg, "charterbid_seats_filled"), "seats filled gauge")
}

func gaugeValue(t *testing.T, g prometheus.Gatherer, name string) float64 {
	families, err := g.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name && len(mf.GetMetric()) > 0 {
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not gathered", name)
	return 0
}

func driverIDs(ids []model.DriverID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

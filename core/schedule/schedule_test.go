package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/charterbid/core/model"
)

func TestParseClock(t *testing.T) {
	cases := map[string]time.Duration{
		"6:00 AM":  6 * time.Hour,
		"09:29 am": 9*time.Hour + 29*time.Minute,
		"12:15 PM": 12*time.Hour + 15*time.Minute,
		"18:30:00": 18*time.Hour + 30*time.Minute,
		"07:45":    7*time.Hour + 45*time.Minute,
	}
	for in, want := range cases {
		got, err := ParseClock(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseClock("TBD")
	assert.True(t, errors.Is(err, ErrInvalidClock))
}

func TestParseDays(t *testing.T) {
	days, err := ParseDays("MTWRF")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, days)

	days, err = ParseDays("uss")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 6}, days)

	_, err = ParseDays("MX")
	assert.ErrorIs(t, err, ErrInvalidDays)
	_, err = ParseDays("")
	assert.ErrorIs(t, err, ErrInvalidDays)
	assert.Equal(t, "R", DayCode(4))
}

func TestWeeklyPadsEachDay(t *testing.T) {
	ivs, hours, err := WeeklyRow("MW", "6:00 AM", "9:00 AM", 30*time.Minute)
	require.NoError(t, err)
	require.Len(t, ivs, 2)
	assert.Equal(t, model.Day+6*time.Hour+30*time.Minute, ivs[0].Start)
	assert.Equal(t, model.Day+8*time.Hour+30*time.Minute, ivs[0].End)
	assert.Equal(t, 3, ivs[1].Day())
	assert.InDelta(t, 6.0, hours, 1e-9)
}

func TestWeeklyIsIdempotent(t *testing.T) {
	a, ha, err := Weekly([]int{1, 3, 5}, 7*time.Hour, 15*time.Hour, 30*time.Minute)
	require.NoError(t, err)
	b, hb, err := Weekly([]int{1, 3, 5}, 7*time.Hour, 15*time.Hour, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, ha, hb)
}

func TestPadCollapsesShortRoute(t *testing.T) {
	raw := model.Interval{Start: 10 * time.Hour, End: 10*time.Hour + 40*time.Minute}
	got := Pad(raw, 30*time.Minute)
	mid := 10*time.Hour + 20*time.Minute
	assert.Equal(t, time.Minute, got.Length())
	assert.Equal(t, mid-30*time.Second, got.Start)
	assert.Equal(t, mid+30*time.Second, got.End)
}

func TestPadExactlyTwicePadding(t *testing.T) {
	raw := model.Interval{Start: 0, End: time.Hour}
	got := Pad(raw, 30*time.Minute)
	assert.Equal(t, time.Minute, got.Length())
}

func TestWeeklyRejectsNegativeSpan(t *testing.T) {
	_, _, err := Weekly([]int{1}, 10*time.Hour, 9*time.Hour, 0)
	assert.ErrorIs(t, err, ErrNegativeSpan)
}

func TestCharterSameDay(t *testing.T) {
	// 10/26/2024 is a Saturday.
	iv, hours, err := CharterRow("10/26/2024", "08:00:00", "12:30:00")
	require.NoError(t, err)
	assert.Equal(t, 6, iv.Day())
	assert.Equal(t, 6*model.Day+8*time.Hour, iv.Start)
	assert.InDelta(t, 4.5, hours, 1e-9)
}

func TestCharterOvernightRolls(t *testing.T) {
	// 2024-10-23 is a Wednesday.
	iv, hours, err := CharterRow("2024-10-23", "18:30:00", "01:30:00")
	require.NoError(t, err)
	assert.Equal(t, 3, iv.Day())
	assert.Equal(t, 4*model.Day+time.Hour+30*time.Minute, iv.End)
	assert.InDelta(t, 7.0, hours, 1e-9)
}

func TestCharterRowErrors(t *testing.T) {
	_, _, err := CharterRow("someday", "08:00:00", "09:00:00")
	assert.ErrorIs(t, err, ErrInvalidDate)
	_, _, err = CharterRow("10/26/2024", "TBA", "09:00:00")
	assert.ErrorIs(t, err, ErrInvalidClock)
}

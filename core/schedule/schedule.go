package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kilianp07/charterbid/core/model"
)

var (
	ErrInvalidClock = errors.New("invalid time of day")
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidDays  = errors.New("invalid day-of-week code")
	ErrNegativeSpan = errors.New("return time before departure")
)

// dayCodes maps the timetable day symbols to offsets from Sunday.
var dayCodes = map[rune]int{'U': 0, 'M': 1, 'T': 2, 'W': 3, 'R': 4, 'F': 5, 'S': 6}

var clockLayouts = []string{"3:04 PM", "03:04 PM", "3:04PM", "15:04:05", "15:04"}

var dateLayouts = []string{"01/02/2006", "1/2/2006", "2006-01-02", "01/02/2006 15:04:05", "2006-01-02 15:04:05"}

// minimalSlot is the length of an interval collapsed by padding.
const minimalSlot = time.Minute

// ParseClock parses a time of day and returns it as an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, v)
		if err == nil {
			return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
}

// ParseDate parses a calendar date.
func ParseDate(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, v)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// ParseDays converts a code such as "MTWRF" to day offsets in code order.
// Repeated symbols are ignored.
func ParseDays(code string) ([]int, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidDays)
	}
	seen := make(map[int]bool, len(code))
	days := make([]int, 0, len(code))
	for _, c := range code {
		d, ok := dayCodes[c]
		if !ok {
			return nil, fmt.Errorf("%w: %q in %q", ErrInvalidDays, c, code)
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, d)
	}
	return days, nil
}

// DayCode returns the timetable symbol for a day offset.
func DayCode(day int) string {
	for c, d := range dayCodes {
		if d == day {
			return string(c)
		}
	}
	return "?"
}

// Pad shrinks iv by padding at each end. An interval too short to pad
// collapses to a one minute slot centered on its midpoint.
func Pad(iv model.Interval, padding time.Duration) model.Interval {
	start := iv.Start + padding
	end := iv.End - padding
	if start < end {
		return model.Interval{Start: start, End: end}
	}
	mid := iv.Start + (iv.End-iv.Start)/2
	return model.Interval{Start: mid - minimalSlot/2, End: mid + minimalSlot/2}
}

// Weekly builds the active intervals of a route that runs on every day of
// days between departure and ret. Hours is the sum of the unpadded lengths.
func Weekly(days []int, departure, ret, padding time.Duration) ([]model.Interval, float64, error) {
	if ret < departure {
		return nil, 0, fmt.Errorf("%w: %s < %s", ErrNegativeSpan, ret, departure)
	}
	intervals := make([]model.Interval, 0, len(days))
	var total time.Duration
	for _, d := range days {
		offset := time.Duration(d) * model.Day
		raw := model.Interval{Start: offset + departure, End: offset + ret}
		total += raw.Length()
		intervals = append(intervals, Pad(raw, padding))
	}
	return intervals, total.Hours(), nil
}

// WeeklyRow is Weekly for raw timetable fields.
func WeeklyRow(dayCode, departure, ret string, padding time.Duration) ([]model.Interval, float64, error) {
	days, err := ParseDays(dayCode)
	if err != nil {
		return nil, 0, err
	}
	dep, err := ParseClock(departure)
	if err != nil {
		return nil, 0, err
	}
	back, err := ParseClock(ret)
	if err != nil {
		return nil, 0, err
	}
	return Weekly(days, dep, back, padding)
}

// Charter builds the interval of a charter trip on the weekday of date. A
// return at or before the pickup time is taken as the next day.
func Charter(date time.Time, pickup, ret time.Duration) (model.Interval, float64) {
	offset := time.Duration(date.Weekday()) * model.Day
	iv := model.Interval{Start: offset + pickup, End: offset + ret}
	if iv.End <= iv.Start {
		iv.End += model.Day
	}
	return iv, iv.Length().Hours()
}

// CharterRow is Charter for raw trip fields.
func CharterRow(date, pickup, ret string) (model.Interval, float64, error) {
	day, err := ParseDate(date)
	if err != nil {
		return model.Interval{}, 0, err
	}
	p, err := ParseClock(pickup)
	if err != nil {
		return model.Interval{}, 0, err
	}
	r, err := ParseClock(ret)
	if err != nil {
		return model.Interval{}, 0, err
	}
	iv, hours := Charter(day, p, r)
	return iv, hours, nil
}

package model

import (
	"fmt"
	"time"
)

// Day is the length of one day offset within the canonical week.
const Day = 24 * time.Hour

// Interval is a closed time window expressed as offsets from the start of the
// canonical week (Sunday 00:00).
type Interval struct {
	Start time.Duration `json:"start"`
	End   time.Duration `json:"end"`
}

// Overlaps reports whether the two intervals share at least one instant.
// Both ends are inclusive.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start <= o.End && o.Start <= i.End
}

// Length returns the duration covered by the interval.
func (i Interval) Length() time.Duration { return i.End - i.Start }

// Day returns the day offset (0 = Sunday) on which the interval starts.
func (i Interval) Day() int { return int(i.Start / Day) }

// String renders the interval as "d HH:MM - d HH:MM".
func (i Interval) String() string {
	return fmt.Sprintf("%s - %s", FormatOffset(i.Start), FormatOffset(i.End))
}

// FormatOffset renders a week offset as "<day> HH:MM".
func FormatOffset(d time.Duration) string {
	day := d / Day
	rem := d - day*Day
	return fmt.Sprintf("%d %02d:%02d", day, int(rem/time.Hour), int(rem%time.Hour/time.Minute))
}

// AnyOverlap reports whether any interval of a overlaps any interval of b.
func AnyOverlap(a, b []Interval) bool {
	for _, x := range a {
		for _, y := range b {
			if x.Overlaps(y) {
				return true
			}
		}
	}
	return false
}

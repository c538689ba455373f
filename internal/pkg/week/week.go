package week

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// StartOf returns the Monday of the week containing d, truncated to a
// plain UTC date. All sales entries are bucketed by this value.
func StartOf(d time.Time) time.Time {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

// Parse reads a YYYY-MM-DD week selector value. The bool is false for empty
// or malformed input so callers can fall back to the current week.
func Parse(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Key formats a week start for query params and database comparisons.
func Key(start time.Time) string {
	return start.Format(dateLayout)
}

// Label renders the "6/2/25–6/8/25" range shown in the week selector.
func Label(start time.Time) string {
	end := start.AddDate(0, 0, 6)
	return fmt.Sprintf("%s–%s", shortDate(start), shortDate(end))
}

func shortDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%02d", int(t.Month()), t.Day(), t.Year()%100)
}

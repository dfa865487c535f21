// Package tripdate holds the calendar helpers shared by trip screens and the
// client's template fallback: inclusive day counts and the long ordinal date
// format ("19th April 2024") trips are displayed with.
package tripdate

import (
	"fmt"
	"time"
)

// RequestLayout is the layout of dates sent in trip requests.
const RequestLayout = "2006-01-02"

const day = 24 * time.Hour

// DaysBetween returns the number of calendar days covered by a trip starting on
// start and ending on end, counting both endpoints. Only the calendar date of
// each argument (in its own location) matters. Argument order does not.
func DaysBetween(start, end time.Time) int {
	n := int(civil(end).Sub(civil(start)) / day)
	if n < 0 {
		n = -n
	}
	return n + 1
}

// civil maps t to midnight UTC of its calendar date so that day arithmetic is
// free of DST and zone offsets.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatTripDate formats t as "<day><suffix> <Month> <Year>", e.g. "19th April 2024".
func FormatTripDate(t time.Time) string {
	d := t.Day()
	return fmt.Sprintf("%d%s %s %d", d, OrdinalSuffix(d), t.Month(), t.Year())
}

// OrdinalSuffix returns the English ordinal suffix for a day of month.
func OrdinalSuffix(d int) string {
	switch d {
	case 1, 21, 31:
		return "st"
	case 2, 22:
		return "nd"
	case 3, 23:
		return "rd"
	default:
		return "th"
	}
}

// ParseRequestDate parses a yyyy-MM-dd request date.
func ParseRequestDate(s string) (time.Time, error) {
	return time.Parse(RequestLayout, s)
}

// ReformatRequestDate converts a yyyy-MM-dd value into the display format.
// Values that do not parse are returned unchanged; nil stays nil.
func ReformatRequestDate(s *string) *string {
	if s == nil {
		return nil
	}
	t, err := ParseRequestDate(*s)
	if err != nil {
		out := *s
		return &out
	}
	out := FormatTripDate(t)
	return &out
}

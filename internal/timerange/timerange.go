// Package timerange resolves symbolic time-window tokens into concrete
// [start, end] instant pairs anchored to a caller-supplied "now".
package timerange

import "time"

// Tokens accepted by Resolve.
const (
	TokenWeek        = "week"
	TokenMonth       = "month"
	TokenThreeMonths = "3months"
	TokenYear        = "year"
)

// Window is a closed [Start, End] range over expense dates.
type Window struct {
	Start time.Time
	End   time.Time
}

// Resolve maps a window token to a Window ending at now. Unknown or
// empty tokens resolve to no window at all (ok = false); callers treat
// that as "no date constraint".
func Resolve(token string, now time.Time) (Window, bool) {
	switch token {
	case TokenWeek:
		return Window{Start: now.AddDate(0, 0, -7), End: now}, true
	case TokenMonth:
		return Window{Start: subMonths(now, 1), End: now}, true
	case TokenThreeMonths:
		return Window{Start: subMonths(now, 3), End: now}, true
	case TokenYear:
		return Window{Start: subMonths(now, 12), End: now}, true
	}
	return Window{}, false
}

// Explicit builds a Window from caller-supplied bounds. An explicit
// range always replaces a token-derived one; it is never merged.
func Explicit(start, end time.Time) Window {
	return Window{Start: start, End: end}
}

// subMonths shifts t back by n calendar months, keeping the day of
// month where possible and clamping to the last valid day of the target
// month otherwise (Mar 31 minus 1 month resolves to Feb 28 or 29).
// time.AddDate is avoided here because its overflow normalization can
// land in the month after the intended one.
func subMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()

	total := int(month) - 1 - n
	year += total / 12
	month = time.Month(total%12 + 1)
	if total < 0 {
		// Go's integer division truncates toward zero.
		if total%12 != 0 {
			year--
			month = time.Month(total%12 + 13)
		}
	}

	if last := daysIn(year, month); day > last {
		day = last
	}

	return time.Date(year, month, day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

package util

import "time"

// DateLayout is the civil-date representation shared by event dates and
// forecast map keys. Collectors must never leak any other format.
const DateLayout = "2006-01-02"

// NowUTC exposes time.Now for deterministic testing.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// DateKey renders a time as the shared civil-date key.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDateKey parses a civil-date key back into a time.
func ParseDateKey(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

package scoring

import "time"

// freshness decays linearly to zero over this many days
const decayWindowDays = 30.0

// maxStaleDays is assigned when a timestamp cannot be parsed at all
const maxStaleDays = 999.0

// AgeDays returns the item age in days for a published-at string. The value
// is parsed as a full RFC3339 date-time first, then as a date-only value
// anchored to midnight UTC. Unparseable input counts as maximally stale.
// Future-dated timestamps (clock skew) clamp to zero, never negative.
func AgeDays(publishedAt string, now time.Time) float64 {
	ts, ok := parseTimestamp(publishedAt)
	if !ok {
		return maxStaleDays
	}
	age := now.Sub(ts).Hours() / 24
	if age < 0 {
		return 0
	}
	return age
}

// Freshness converts a published-at string to a weight in [0,1]: 1.0 at age
// zero, linear decay to 0.0 at 30 days and beyond.
func Freshness(publishedAt string, now time.Time) float64 {
	age := AgeDays(publishedAt, now)
	if age > decayWindowDays {
		age = decayWindowDays
	}
	return (decayWindowDays - age) / decayWindowDays
}

func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, true
	}
	// date-only fallback, anchored to midnight UTC
	if ts, err := time.ParseInLocation("2006-01-02", s, time.UTC); err == nil {
		return ts, true
	}
	return time.Time{}, false
}

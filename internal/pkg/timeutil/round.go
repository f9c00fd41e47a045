package timeutil

import "time"

// RoundToNearest returns t adjusted to the nearest multiple of interval,
// measured from the zero instant. Exactly halfway rounds up.
func RoundToNearest(t time.Time, interval time.Duration) time.Time {
	if interval <= 0 {
		return t
	}

	delta := time.Duration(t.UnixNano()) % interval
	if delta*2 >= interval {
		return t.Add(interval - delta)
	}
	return t.Add(-delta)
}

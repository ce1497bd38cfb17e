package types

import "time"

// StoredTime returns t the way every backend stores it: UTC with microsecond
// precision.
func StoredTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

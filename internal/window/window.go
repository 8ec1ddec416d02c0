// Package window computes the daily reporting window: yesterday 17:00:00.000
// through today 16:59:59.999, both in a fixed UTC+7 offset. The business day
// closes at 17:00 Bangkok time, so each run covers the 24 hours ending there.
package window

import "time"

// Zone is the fixed UTC+7 offset the sales team operates in. No DST applies.
var Zone = time.FixedZone("UTC+7", 7*60*60)

// Window is a closed interval [Start, End] computed once per run and reused
// by every query that filters on a date property.
type Window struct {
	Start time.Time
	End   time.Time
}

// Compute derives the window from the given instant. Start is 17:00:00.000
// of the previous calendar day and End is 16:59:59.999 of the current day,
// both interpreted at UTC+7 regardless of now's own location.
func Compute(now time.Time) Window {
	local := now.In(Zone)
	yesterday := local.AddDate(0, 0, -1)

	return Window{
		Start: time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 17, 0, 0, 0, Zone),
		End:   time.Date(local.Year(), local.Month(), local.Day(), 16, 59, 59, int(999*time.Millisecond), Zone),
	}
}

// StartMillis returns the window start as epoch milliseconds.
func (w Window) StartMillis() int64 {
	return w.Start.UnixMilli()
}

// EndMillis returns the window end as epoch milliseconds.
func (w Window) EndMillis() int64 {
	return w.End.UnixMilli()
}

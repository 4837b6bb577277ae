package appointment

import (
	"time"

	"github.com/alignwork/api/internal/platform/apperr"
)

// Interval is a half-open UTC window [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the interval.
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// Buckets holds the four canonical statistics windows.
type Buckets struct {
	Today     Interval
	Week      Interval
	Month     Interval
	NextMonth Interval
}

// LoadZone resolves a named time zone.
func LoadZone(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, apperr.InvalidTimeZone(name)
	}
	return loc, nil
}

// BucketsAt computes the four windows around now as seen from loc. Boundaries
// are local midnights built with time.Date in the zone and then converted, so
// each boundary carries the zone's actual UTC offset at that instant; a DST
// shift inside a window changes its UTC length, not its local meaning.
// The week starts on the preceding (or same-day) Sunday. Month arithmetic
// relies on time.Date normalization, which rolls December into January of the
// next year.
func BucketsAt(now time.Time, loc *time.Location) Buckets {
	local := now.In(loc)
	y, m, d := local.Date()

	midnight := func(year int, month time.Month, day int) time.Time {
		return time.Date(year, month, day, 0, 0, 0, 0, loc).UTC()
	}

	sunday := d - int(local.Weekday())

	return Buckets{
		Today:     Interval{midnight(y, m, d), midnight(y, m, d+1)},
		Week:      Interval{midnight(y, m, sunday), midnight(y, m, sunday+7)},
		Month:     Interval{midnight(y, m, 1), midnight(y, m+1, 1)},
		NextMonth: Interval{midnight(y, m+1, 1), midnight(y, m+2, 1)},
	}
}

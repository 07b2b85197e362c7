// Package availability implements the conflict checker consulted by the
// booking workflow before a reservation or loan is admitted. It decides
// whether a proposed time range for a lab, or for specific resources,
// collides with calendar blocks or with a resource's current state.
package availability

import (
	"errors"
	"time"
)

// ErrInvalidRange is returned when a queried range is empty or
// inverted (from >= to). It is rejected before any query runs.
var ErrInvalidRange = errors.New("invalid time range")

// TimeRange is a half-open interval [Start, End): Start is inclusive,
// End is exclusive. Half-open semantics let adjacent bookings touch
// without registering as overlapping.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange validates and builds a TimeRange. Zero bounds and
// ranges where End is not strictly after Start are rejected with
// ErrInvalidRange. Bounds are normalized to UTC.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return TimeRange{}, ErrInvalidRange
	}
	return TimeRange{Start: start.UTC(), End: end.UTC()}, nil
}

// Overlaps reports whether two half-open intervals intersect:
// a.Start < b.End && b.Start < a.End. Ranges that merely touch
// (a.End == b.Start) do not overlap.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start.Before(o.End) && o.Start.Before(r.End)
}

// Duration returns End - Start.
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

package availability

import (
	"errors"
	"testing"
	"time"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return ts
}

func TestNewTimeRange(t *testing.T) {
	start := mustTime(t, "2026-03-01T10:00:00Z")
	end := mustTime(t, "2026-03-01T12:00:00Z")

	rng, err := NewTimeRange(start, end)
	if err != nil {
		t.Fatalf("valid range rejected: %v", err)
	}
	if !rng.Start.Equal(start) || !rng.End.Equal(end) {
		t.Errorf("range mangled: got [%v, %v)", rng.Start, rng.End)
	}
	if got := rng.Duration(); got != 2*time.Hour {
		t.Errorf("Duration = %v, want 2h", got)
	}

	cases := []struct {
		name       string
		start, end time.Time
	}{
		{"zero start", time.Time{}, end},
		{"zero end", start, time.Time{}},
		{"inverted", end, start},
		{"empty", start, start},
	}
	for _, tc := range cases {
		if _, err := NewTimeRange(tc.start, tc.end); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("%s: err = %v, want ErrInvalidRange", tc.name, err)
		}
	}
}

func TestNewTimeRangeNormalizesUTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	start := time.Date(2026, 3, 1, 11, 0, 0, 0, loc)
	end := time.Date(2026, 3, 1, 13, 0, 0, 0, loc)

	rng, err := NewTimeRange(start, end)
	if err != nil {
		t.Fatalf("NewTimeRange: %v", err)
	}
	if rng.Start.Location() != time.UTC || rng.End.Location() != time.UTC {
		t.Errorf("bounds not normalized to UTC: %v, %v", rng.Start.Location(), rng.End.Location())
	}
	if rng.Start.Hour() != 10 {
		t.Errorf("Start hour = %d, want 10 UTC", rng.Start.Hour())
	}
}

func TestOverlaps(t *testing.T) {
	mk := func(from, to string) TimeRange {
		rng, err := NewTimeRange(mustTime(t, from), mustTime(t, to))
		if err != nil {
			t.Fatalf("NewTimeRange: %v", err)
		}
		return rng
	}

	base := mk("2026-03-01T10:00:00Z", "2026-03-01T12:00:00Z")

	cases := []struct {
		name  string
		other TimeRange
		want  bool
	}{
		{"identical", mk("2026-03-01T10:00:00Z", "2026-03-01T12:00:00Z"), true},
		{"contained", mk("2026-03-01T10:30:00Z", "2026-03-01T11:30:00Z"), true},
		{"containing", mk("2026-03-01T09:00:00Z", "2026-03-01T13:00:00Z"), true},
		{"overlaps start", mk("2026-03-01T09:00:00Z", "2026-03-01T10:30:00Z"), true},
		{"overlaps end", mk("2026-03-01T11:30:00Z", "2026-03-01T13:00:00Z"), true},
		{"touches start", mk("2026-03-01T08:00:00Z", "2026-03-01T10:00:00Z"), false},
		{"touches end", mk("2026-03-01T12:00:00Z", "2026-03-01T14:00:00Z"), false},
		{"disjoint before", mk("2026-03-01T06:00:00Z", "2026-03-01T08:00:00Z"), false},
		{"disjoint after", mk("2026-03-01T14:00:00Z", "2026-03-01T16:00:00Z"), false},
	}
	for _, tc := range cases {
		if got := base.Overlaps(tc.other); got != tc.want {
			t.Errorf("%s: Overlaps = %v, want %v", tc.name, got, tc.want)
		}
		// Overlap is symmetric.
		if got := tc.other.Overlaps(base); got != tc.want {
			t.Errorf("%s (reversed): Overlaps = %v, want %v", tc.name, got, tc.want)
		}
	}
}

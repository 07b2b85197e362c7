package requirements

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/lab-resource-booking/internal/repository"
)

// fakeTrainingStore mirrors the repository contract: completions carry
// an optional expiry and only unexpired rows count at the queried
// instant.
type fakeTrainingStore struct {
	required []repository.RequiredTraining
	// completed maps training id to expiry; a nil expiry never lapses.
	completed map[uint64]*time.Time

	reqErr  error
	doneErr error

	historyFetches int
}

func (f *fakeTrainingStore) RequirementsByLab(_ context.Context, _ uint64) ([]repository.RequiredTraining, error) {
	if f.reqErr != nil {
		return nil, f.reqErr
	}
	return f.required, nil
}

func (f *fakeTrainingStore) CompletedTrainingIDs(_ context.Context, _ uint64, now time.Time) (map[uint64]struct{}, error) {
	f.historyFetches++
	if f.doneErr != nil {
		return nil, f.doneErr
	}
	out := make(map[uint64]struct{})
	for id, exp := range f.completed {
		if exp == nil || exp.After(now) {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

func fixedClock(t *testing.T, s string) func() time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return func() time.Time { return ts }
}

var laserSafety = repository.RequiredTraining{ID: 10, Code: "LSR-1", Name: "Laser Safety"}
var chemHandling = repository.RequiredTraining{ID: 11, Code: "CHM-2", Name: "Chemical Handling"}

func TestRequirementsOKAllSatisfied(t *testing.T) {
	store := &fakeTrainingStore{
		required:  []repository.RequiredTraining{laserSafety, chemHandling},
		completed: map[uint64]*time.Time{10: nil, 11: nil},
	}
	g := NewGate(store, fixedClock(t, "2026-03-01T12:00:00Z"))

	res, err := g.RequirementsOK(context.Background(), 1, 42)
	if err != nil {
		t.Fatalf("RequirementsOK: %v", err)
	}
	if !res.OK || len(res.Missing) != 0 {
		t.Fatalf("want ok, got ok=%v missing=%v", res.OK, res.Missing)
	}
}

func TestRequirementsOKReportsMissing(t *testing.T) {
	store := &fakeTrainingStore{
		required:  []repository.RequiredTraining{laserSafety, chemHandling},
		completed: map[uint64]*time.Time{10: nil},
	}
	g := NewGate(store, fixedClock(t, "2026-03-01T12:00:00Z"))

	res, err := g.RequirementsOK(context.Background(), 1, 42)
	if err != nil {
		t.Fatalf("RequirementsOK: %v", err)
	}
	if res.OK {
		t.Fatal("want missing training, got ok")
	}
	if len(res.Missing) != 1 {
		t.Fatalf("want 1 missing, got %d: %v", len(res.Missing), res.Missing)
	}
	m := res.Missing[0]
	if m.ID != chemHandling.ID || m.Code != chemHandling.Code || m.Name != chemHandling.Name {
		t.Errorf("missing = %+v, want %+v", m, chemHandling)
	}
}

func TestRequirementsOKExpiredTrainingIsMissing(t *testing.T) {
	expired := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeTrainingStore{
		required:  []repository.RequiredTraining{laserSafety},
		completed: map[uint64]*time.Time{10: &expired},
	}
	g := NewGate(store, fixedClock(t, "2026-03-01T12:00:00Z"))

	res, err := g.RequirementsOK(context.Background(), 1, 42)
	if err != nil {
		t.Fatalf("RequirementsOK: %v", err)
	}
	if res.OK {
		t.Fatal("expired completion still satisfied the gate")
	}

	// The same completion counts again when the clock is before expiry.
	g = NewGate(store, fixedClock(t, "2026-01-15T12:00:00Z"))
	res, err = g.RequirementsOK(context.Background(), 1, 42)
	if err != nil {
		t.Fatalf("RequirementsOK: %v", err)
	}
	if !res.OK {
		t.Fatalf("unexpired completion rejected: %v", res.Missing)
	}
}

func TestRequirementsOKNoRequirements(t *testing.T) {
	store := &fakeTrainingStore{}
	g := NewGate(store, fixedClock(t, "2026-03-01T12:00:00Z"))

	res, err := g.RequirementsOK(context.Background(), 1, 42)
	if err != nil {
		t.Fatalf("RequirementsOK: %v", err)
	}
	if !res.OK {
		t.Fatalf("lab without requirements rejected: %v", res.Missing)
	}
	if res.Missing == nil {
		t.Error("Missing should be an empty slice, not nil")
	}
	if store.historyFetches != 0 {
		t.Errorf("training history fetched %d times for a lab with no requirements", store.historyFetches)
	}
}

func TestRequirementsOKStorageErrors(t *testing.T) {
	boom := errors.New("connection refused")

	g := NewGate(&fakeTrainingStore{reqErr: boom}, nil)
	if _, err := g.RequirementsOK(context.Background(), 1, 42); !errors.Is(err, boom) {
		t.Errorf("requirements query error: got %v, want it propagated", err)
	}

	g = NewGate(&fakeTrainingStore{
		required: []repository.RequiredTraining{laserSafety},
		doneErr:  boom,
	}, nil)
	if _, err := g.RequirementsOK(context.Background(), 1, 42); !errors.Is(err, boom) {
		t.Errorf("history query error: got %v, want it propagated", err)
	}
}

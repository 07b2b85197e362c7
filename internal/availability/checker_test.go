package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/lab-resource-booking/internal/model"
)

// fakeBlockStore serves canned calendar blocks, applying the same
// half-open overlap predicate the real repository queries use.
type fakeBlockStore struct {
	labBlocks      []model.CalendarBlock
	resourceBlocks []model.CalendarBlock
	err            error
}

func overlapping(blocks []model.CalendarBlock, from, to time.Time) []model.CalendarBlock {
	var out []model.CalendarBlock
	for _, b := range blocks {
		if b.StartsAt.Before(to) && from.Before(b.EndsAt) {
			out = append(out, b)
		}
	}
	return out
}

func (f *fakeBlockStore) LabBlocksOverlapping(_ context.Context, labID uint64, from, to time.Time) ([]model.CalendarBlock, error) {
	if f.err != nil {
		return nil, f.err
	}
	return overlapping(f.labBlocks, from, to), nil
}

func (f *fakeBlockStore) ResourceBlocksOverlapping(_ context.Context, ids []uint64, from, to time.Time) ([]model.CalendarBlock, error) {
	if f.err != nil {
		return nil, f.err
	}
	want := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var scoped []model.CalendarBlock
	for _, b := range f.resourceBlocks {
		if b.ResourceID == nil {
			continue
		}
		if _, ok := want[*b.ResourceID]; ok {
			scoped = append(scoped, b)
		}
	}
	return overlapping(scoped, from, to), nil
}

type fakeResourceStore struct {
	unavailable []model.Resource
	err         error
}

func (f *fakeResourceStore) ListUnavailable(_ context.Context, ids []uint64) ([]model.Resource, error) {
	if f.err != nil {
		return nil, f.err
	}
	want := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []model.Resource
	for _, r := range f.unavailable {
		if _, ok := want[r.ID]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func block(id uint64, resourceID *uint64, status model.BlockStatus, from, to time.Time) model.CalendarBlock {
	return model.CalendarBlock{
		ID:         id,
		LabID:      1,
		ResourceID: resourceID,
		Status:     status,
		StartsAt:   from,
		EndsAt:     to,
	}
}

func TestCheckAvailabilityNoConflicts(t *testing.T) {
	from := mustTime(t, "2026-03-02T09:00:00Z")
	to := mustTime(t, "2026-03-02T11:00:00Z")

	// A blocking slot elsewhere in the day must not register.
	blocks := &fakeBlockStore{
		labBlocks: []model.CalendarBlock{
			block(1, nil, model.BlockBlocked, mustTime(t, "2026-03-02T14:00:00Z"), mustTime(t, "2026-03-02T16:00:00Z")),
		},
	}
	c := NewChecker(blocks, &fakeResourceStore{})

	res, err := c.CheckAvailability(context.Background(), 1, []uint64{7}, from, to)
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if !res.OK || len(res.Conflicts) != 0 {
		t.Fatalf("want ok with no conflicts, got ok=%v conflicts=%v", res.OK, res.Conflicts)
	}
}

func TestCheckAvailabilityLabBlockConflict(t *testing.T) {
	from := mustTime(t, "2026-03-02T09:00:00Z")
	to := mustTime(t, "2026-03-02T11:00:00Z")

	blocks := &fakeBlockStore{
		labBlocks: []model.CalendarBlock{
			block(1, nil, model.BlockMaintenance, mustTime(t, "2026-03-02T10:00:00Z"), mustTime(t, "2026-03-02T12:00:00Z")),
		},
	}
	c := NewChecker(blocks, &fakeResourceStore{})

	res, err := c.CheckAvailability(context.Background(), 1, nil, from, to)
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if res.OK {
		t.Fatal("want conflict, got ok")
	}
	if len(res.Conflicts) != 1 {
		t.Fatalf("want 1 conflict, got %d", len(res.Conflicts))
	}
	cf := res.Conflicts[0]
	if cf.Type != ConflictSlot || cf.Scope != ScopeLab {
		t.Errorf("conflict = %s/%s, want %s/%s", cf.Type, cf.Scope, ConflictSlot, ScopeLab)
	}
	if len(cf.Blocks) != 1 || cf.Blocks[0].ID != 1 {
		t.Errorf("conflict blocks = %v, want the maintenance block", cf.Blocks)
	}
}

func TestCheckAvailabilityTouchingBlockIsFree(t *testing.T) {
	from := mustTime(t, "2026-03-02T09:00:00Z")
	to := mustTime(t, "2026-03-02T11:00:00Z")

	// One block ends exactly at from, another starts exactly at to.
	// Half-open intervals make both non-conflicting.
	blocks := &fakeBlockStore{
		labBlocks: []model.CalendarBlock{
			block(1, nil, model.BlockReserved, mustTime(t, "2026-03-02T07:00:00Z"), from),
			block(2, nil, model.BlockReserved, to, mustTime(t, "2026-03-02T13:00:00Z")),
		},
	}
	c := NewChecker(blocks, &fakeResourceStore{})

	res, err := c.CheckAvailability(context.Background(), 1, nil, from, to)
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if !res.OK {
		t.Fatalf("touching blocks reported as conflicts: %v", res.Conflicts)
	}
}

func TestCheckAvailabilityResourceConflicts(t *testing.T) {
	from := mustTime(t, "2026-03-02T09:00:00Z")
	to := mustTime(t, "2026-03-02T11:00:00Z")
	rid := uint64(7)

	blocks := &fakeBlockStore{
		resourceBlocks: []model.CalendarBlock{
			block(3, &rid, model.BlockExclusive, mustTime(t, "2026-03-02T10:00:00Z"), mustTime(t, "2026-03-02T12:00:00Z")),
		},
	}
	resources := &fakeResourceStore{
		unavailable: []model.Resource{{ID: 8, LabID: 1, Status: model.ResourceMaintenance}},
	}
	c := NewChecker(blocks, resources)

	res, err := c.CheckAvailability(context.Background(), 1, []uint64{7, 8}, from, to)
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if res.OK {
		t.Fatal("want conflicts, got ok")
	}
	if len(res.Conflicts) != 2 {
		t.Fatalf("want 2 conflicts, got %d: %v", len(res.Conflicts), res.Conflicts)
	}
	slot, status := res.Conflicts[0], res.Conflicts[1]
	if slot.Type != ConflictSlot || slot.Scope != ScopeResource {
		t.Errorf("first conflict = %s/%s, want %s/%s", slot.Type, slot.Scope, ConflictSlot, ScopeResource)
	}
	if status.Type != ConflictResource || status.Scope != ScopeStatus {
		t.Errorf("second conflict = %s/%s, want %s/%s", status.Type, status.Scope, ConflictResource, ScopeStatus)
	}
	if len(status.Resources) != 1 || status.Resources[0].ID != 8 {
		t.Errorf("status conflict resources = %v, want resource 8", status.Resources)
	}
}

func TestCheckAvailabilityNoResourceIDsSkipsResourceChecks(t *testing.T) {
	from := mustTime(t, "2026-03-02T09:00:00Z")
	to := mustTime(t, "2026-03-02T11:00:00Z")
	rid := uint64(7)

	blocks := &fakeBlockStore{
		resourceBlocks: []model.CalendarBlock{
			block(3, &rid, model.BlockReserved, from, to),
		},
	}
	resources := &fakeResourceStore{
		unavailable: []model.Resource{{ID: 7, Status: model.ResourceMaintenance}},
	}
	c := NewChecker(blocks, resources)

	res, err := c.CheckAvailability(context.Background(), 1, nil, from, to)
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if !res.OK {
		t.Fatalf("lab-only check picked up resource conflicts: %v", res.Conflicts)
	}
}

func TestCheckAvailabilityInvalidRange(t *testing.T) {
	c := NewChecker(&fakeBlockStore{}, &fakeResourceStore{})
	from := mustTime(t, "2026-03-02T11:00:00Z")
	to := mustTime(t, "2026-03-02T09:00:00Z")

	if _, err := c.CheckAvailability(context.Background(), 1, nil, from, to); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("inverted range: err = %v, want ErrInvalidRange", err)
	}
	if _, err := c.CheckAvailability(context.Background(), 1, nil, from, from); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("empty range: err = %v, want ErrInvalidRange", err)
	}
}

func TestCheckAvailabilityStorageError(t *testing.T) {
	boom := errors.New("connection refused")
	c := NewChecker(&fakeBlockStore{err: boom}, &fakeResourceStore{})
	from := mustTime(t, "2026-03-02T09:00:00Z")
	to := mustTime(t, "2026-03-02T11:00:00Z")

	res, err := c.CheckAvailability(context.Background(), 1, []uint64{7}, from, to)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the storage error", err)
	}
	if res.OK {
		t.Fatal("storage error must not report availability")
	}
}

package availability

import (
	"context"
	"time"

	"github.com/iliyamo/lab-resource-booking/internal/model"
)

// Conflict classes. Type distinguishes calendar collisions from
// resource-state problems; Scope narrows where a slot collision was
// found.
const (
	ConflictSlot     = "slot"     // calendar block collision
	ConflictResource = "resource" // resource state precludes booking

	ScopeLab      = "lab"      // lab-wide calendar blocks
	ScopeResource = "resource" // blocks targeting specific resources
	ScopeStatus   = "status"   // resource status <> AVAILABLE
)

// Conflict describes one class of collision found for a proposed
// range. Blocks is populated for slot conflicts, Resources for
// resource-status conflicts.
type Conflict struct {
	Type      string                `json:"type"`
	Scope     string                `json:"scope"`
	Blocks    []model.CalendarBlock `json:"blocks,omitempty"`
	Resources []model.Resource      `json:"resources,omitempty"`
}

// Result is the outcome of an availability check. OK is true exactly
// when Conflicts is empty.
type Result struct {
	OK        bool       `json:"ok"`
	Conflicts []Conflict `json:"conflicts"`
}

// BlockStore is the calendar access the checker needs. Implemented by
// repository.CalendarBlockRepo; both queries must apply the half-open
// overlap predicate starts_at < to AND from < ends_at.
type BlockStore interface {
	LabBlocksOverlapping(ctx context.Context, labID uint64, from, to time.Time) ([]model.CalendarBlock, error)
	ResourceBlocksOverlapping(ctx context.Context, ids []uint64, from, to time.Time) ([]model.CalendarBlock, error)
}

// ResourceStore reports resources whose current status precludes
// booking. Implemented by repository.ResourceRepo.
type ResourceStore interface {
	ListUnavailable(ctx context.Context, ids []uint64) ([]model.Resource, error)
}

// Checker performs availability checks. It never mutates state: every
// call is a pure query over the calendar and resource tables, so it is
// safe to run concurrently with scheduler ticks and with itself.
type Checker struct {
	blocks    BlockStore
	resources ResourceStore
}

// NewChecker constructs a Checker over the given stores.
func NewChecker(blocks BlockStore, resources ResourceStore) *Checker {
	return &Checker{blocks: blocks, resources: resources}
}

// CheckAvailability reports every conflict between the proposed range
// [from, to) and the current calendar and resource state of a lab.
// resourceIDs may be empty, in which case only lab-wide blocks are
// consulted. The caller is responsible for validating that labID
// references an existing lab; an unknown lab simply has no blocks and
// therefore no conflicts.
//
// A storage error means availability is unknown, not that the range is
// free: callers must refuse the booking when err is non-nil.
func (c *Checker) CheckAvailability(ctx context.Context, labID uint64, resourceIDs []uint64, from, to time.Time) (Result, error) {
	rng, err := NewTimeRange(from, to)
	if err != nil {
		return Result{}, err
	}

	var conflicts []Conflict

	labBlocks, err := c.blocks.LabBlocksOverlapping(ctx, labID, rng.Start, rng.End)
	if err != nil {
		return Result{}, err
	}
	if len(labBlocks) > 0 {
		conflicts = append(conflicts, Conflict{Type: ConflictSlot, Scope: ScopeLab, Blocks: labBlocks})
	}

	if len(resourceIDs) > 0 {
		resBlocks, err := c.blocks.ResourceBlocksOverlapping(ctx, resourceIDs, rng.Start, rng.End)
		if err != nil {
			return Result{}, err
		}
		if len(resBlocks) > 0 {
			conflicts = append(conflicts, Conflict{Type: ConflictSlot, Scope: ScopeResource, Blocks: resBlocks})
		}

		busy, err := c.resources.ListUnavailable(ctx, resourceIDs)
		if err != nil {
			return Result{}, err
		}
		if len(busy) > 0 {
			conflicts = append(conflicts, Conflict{Type: ConflictResource, Scope: ScopeStatus, Resources: busy})
		}
	}

	return Result{OK: len(conflicts) == 0, Conflicts: conflicts}, nil
}

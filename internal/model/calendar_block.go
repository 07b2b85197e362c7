package model

import "time"

// BlockStatus enumerates the states of a calendar block.  The set
// is closed on purpose: conflict queries are built from
// BlockingStatuses below, so a new status added here must be
// classified explicitly instead of silently passing the predicate.
type BlockStatus string

const (
	BlockAvailable   BlockStatus = "AVAILABLE"   // explicitly opened slot, never a conflict
	BlockReserved    BlockStatus = "RESERVED"    // taken by an existing booking
	BlockBlocked     BlockStatus = "BLOCKED"     // closed by staff
	BlockMaintenance BlockStatus = "MAINTENANCE" // closed for maintenance work
	BlockExclusive   BlockStatus = "EXCLUSIVE"   // reserved for a single group, excludes others
)

// BlockingStatuses lists the block statuses that preclude new
// bookings.  Repository queries expand this slice into their IN
// clauses rather than interpolating string literals.
var BlockingStatuses = []BlockStatus{
	BlockReserved,
	BlockBlocked,
	BlockExclusive,
	BlockMaintenance,
}

// CalendarBlock represents an entry in a lab's calendar.  A block
// occupies the half-open interval [StartsAt, EndsAt): StartsAt is
// inclusive and EndsAt is exclusive, so back-to-back blocks may
// touch without overlapping.  ResourceID is nil for lab-wide
// blocks and set when the block targets a single resource.  Blocks
// are created and updated by lab staff; the availability checker
// treats them as read-only.
//
// Fields:
//  ID         – primary key identifier.
//  LabID      – lab whose calendar the block belongs to.
//  ResourceID – specific resource, or nil for the whole lab.
//  Status     – block state (see BlockStatus).
//  StartsAt   – inclusive start of the block, UTC.
//  EndsAt     – exclusive end of the block, UTC.
//  Reason     – free-form explanation entered by staff.
//  CreatedAt  – timestamp of creation.
//  UpdatedAt  – timestamp of last update.
type CalendarBlock struct {
	ID         uint64      // calendar_slots.id
	LabID      uint64      // calendar_slots.lab_id
	ResourceID *uint64     // calendar_slots.resource_id (nullable)
	Status     BlockStatus // calendar_slots.status
	StartsAt   time.Time   // calendar_slots.starts_at
	EndsAt     time.Time   // calendar_slots.ends_at
	Reason     string      // calendar_slots.reason
	CreatedAt  time.Time   // calendar_slots.created_at
	UpdatedAt  time.Time   // calendar_slots.updated_at
}

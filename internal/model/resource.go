package model

import "time"

// ResourceStatus enumerates the lifecycle states of a bookable
// resource.  Only AVAILABLE resources may be booked; every other
// status is reported as a conflict by the availability checker.
type ResourceStatus string

const (
	ResourceAvailable   ResourceStatus = "AVAILABLE"   // bookable
	ResourceReserved    ResourceStatus = "RESERVED"    // currently reserved
	ResourceMaintenance ResourceStatus = "MAINTENANCE" // under maintenance
	ResourceInactive    ResourceStatus = "INACTIVE"    // retired or disabled
)

// Resource represents a bookable unit inside a lab, such as a
// microscope, a centrifuge or a workbench.  Status is mutated by
// the inventory and maintenance workflows; the availability
// checker only ever reads it.
//
// Fields:
//  ID           – primary key identifier.
//  LabID        – lab this resource belongs to.
//  Name         – human readable resource name.
//  Status       – current state (see ResourceStatus).
//  QtyAvailable – number of interchangeable units available.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Resource struct {
	ID           uint64         // resources.id
	LabID        uint64         // resources.lab_id
	Name         string         // resources.name
	Status       ResourceStatus // resources.status
	QtyAvailable uint32         // resources.qty_available
	CreatedAt    time.Time      // resources.created_at
	UpdatedAt    time.Time      // resources.updated_at
}

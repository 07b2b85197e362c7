package model

import "time"

// Lab represents a laboratory whose resources can be booked.  Each
// lab owns a set of resources, a calendar of blocks maintained by
// staff, and optionally a list of training prerequisites that
// members must satisfy before booking.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – human readable lab name.
//  Location    – building / room designation.
//  Description – free-form description shown in the catalog.
//  IsActive    – whether the lab currently accepts bookings.
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type Lab struct {
	ID          uint64    // labs.id
	Name        string    // labs.name
	Location    string    // labs.location
	Description string    // labs.description
	IsActive    bool      // labs.is_active
	CreatedAt   time.Time // labs.created_at
	UpdatedAt   time.Time // labs.updated_at
}

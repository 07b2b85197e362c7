package model

import "time"

// ReservationStatus enumerates the states of a reservation.  Only
// approved reservations are eligible for reminder notifications.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationApproved  ReservationStatus = "approved"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

// Reservation records a member's booking of a lab resource for a
// time window.  Reservations are created by the booking workflow
// after the availability and requirements checks pass; the
// reminder scheduler reads them to emit stage notifications
// relative to StartTime.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – member who made the reservation.
//  LabID      – lab in which the resource is booked.
//  ResourceID – resource being reserved.
//  StartTime  – inclusive start of the booking, UTC.
//  EndTime    – exclusive end of the booking, UTC.
//  Status     – reservation state (see ReservationStatus).
//  CreatedAt  – timestamp of creation.
//  UpdatedAt  – timestamp of last update.
type Reservation struct {
	ID         uint64            // reservations.id
	UserID     uint64            // reservations.user_id
	LabID      uint64            // reservations.lab_id
	ResourceID uint64            // reservations.resource_id
	StartTime  time.Time         // reservations.start_time
	EndTime    time.Time         // reservations.end_time
	Status     ReservationStatus // reservations.status
	CreatedAt  time.Time         // reservations.created_at
	UpdatedAt  time.Time         // reservations.updated_at
}

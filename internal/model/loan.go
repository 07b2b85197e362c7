package model

import "time"

// LoanStatus enumerates the states of an equipment loan.  Loans in
// the approved or picked_up states are "live": they receive due
// reminders and, once EndTime passes, overdue notifications.
type LoanStatus string

const (
	LoanApproved  LoanStatus = "approved"
	LoanPickedUp  LoanStatus = "picked_up"
	LoanReturned  LoanStatus = "returned"
	LoanCancelled LoanStatus = "cancelled"
)

// Loan records a member borrowing a resource out of the lab.  The
// reminder scheduler keys its due reminders and the overdue check
// on EndTime rather than a start time.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – member who borrowed the resource.
//  LabID      – lab the resource belongs to.
//  ResourceID – resource on loan.
//  StartTime  – when the loan began, UTC.
//  EndTime    – when the resource is due back, UTC.
//  Status     – loan state (see LoanStatus).
//  CreatedAt  – timestamp of creation.
//  UpdatedAt  – timestamp of last update.
type Loan struct {
	ID         uint64     // loans.id
	UserID     uint64     // loans.user_id
	LabID      uint64     // loans.lab_id
	ResourceID uint64     // loans.resource_id
	StartTime  time.Time  // loans.start_time
	EndTime    time.Time  // loans.end_time
	Status     LoanStatus // loans.status
	CreatedAt  time.Time  // loans.created_at
	UpdatedAt  time.Time  // loans.updated_at
}

// LiveLoanStatuses lists the statuses in which a loan still has the
// resource out and therefore participates in due reminders and the
// overdue check.
var LiveLoanStatuses = []LoanStatus{LoanApproved, LoanPickedUp}

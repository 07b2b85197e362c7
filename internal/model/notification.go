package model

import "time"

// Notification types emitted by the reminder scheduler.  The type
// participates in the dedup key together with the user, the stage
// and the referenced reservation or loan.
const (
	NotificationReservationAlert = "reservation_alert"
	NotificationLoanAlert        = "loan_alert"
)

// Reminder stages.  StageT24h and StageT1h are evaluated against a
// tolerance window around "now + ahead"; StageOverdue has no window
// and relies entirely on deduplication to fire at most once.
const (
	StageT24h    = "t-24h"
	StageT1h     = "t-1h"
	StageOverdue = "overdue"
)

// NotificationData is the structured payload stored in the
// notifications.data JSON column.  Exactly one of ReservationID and
// LoanID is set depending on the notification type.
type NotificationData struct {
	Stage         string  `json:"stage"`
	ReservationID *uint64 `json:"reservation_id,omitempty"`
	LoanID        *uint64 `json:"loan_id,omitempty"`
}

// Notification is an append-only row written by the reminder
// scheduler and read by external delivery channels.  For a fixed
// dedup key (UserID, Type, Stage, ReservationID, LoanID) the table
// holds at most one row; the repository enforces this with a
// read-before-write check backed by a unique index.
//
// Fields:
//  ID            – primary key identifier.
//  UserID        – recipient of the notification.
//  Type          – notification type (reservation_alert, loan_alert).
//  Title         – short headline shown to the user.
//  Message       – full notification text.
//  Stage         – reminder stage (t-24h, t-1h, overdue).
//  ReservationID – referenced reservation, nil for loan alerts.
//  LoanID        – referenced loan, nil for reservation alerts.
//  CreatedAt     – timestamp of insertion.
type Notification struct {
	ID            uint64    // notifications.id
	UserID        uint64    // notifications.user_id
	Type          string    // notifications.type
	Title         string    // notifications.title
	Message       string    // notifications.message
	Stage         string    // notifications.stage
	ReservationID *uint64   // notifications.reservation_id (nullable)
	LoanID        *uint64   // notifications.loan_id (nullable)
	CreatedAt     time.Time // notifications.created_at
}

// Data projects the dedup-relevant columns into the structured
// payload persisted in the data column.
func (n Notification) Data() NotificationData {
	return NotificationData{
		Stage:         n.Stage,
		ReservationID: n.ReservationID,
		LoanID:        n.LoanID,
	}
}

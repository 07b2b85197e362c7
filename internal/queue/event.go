// Package queue defines message payloads exchanged over the message broker.
package queue

// NotificationCreatedEvent is published when the reminder scheduler
// inserts a notification row. Downstream delivery channels (mail,
// push, chat) consume it without querying the primary database; this
// service itself never delivers anything.
type NotificationCreatedEvent struct {
	NotificationID uint64  `json:"notification_id"`
	UserID         uint64  `json:"user_id"`
	Type           string  `json:"type"`
	Stage          string  `json:"stage"`
	ReservationID  *uint64 `json:"reservation_id,omitempty"`
	LoanID         *uint64 `json:"loan_id,omitempty"`
	Title          string  `json:"title"`
	Message        string  `json:"message"`
	CreatedAt      string  `json:"created_at"`
}

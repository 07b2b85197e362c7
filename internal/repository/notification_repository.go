package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/lab-resource-booking/internal/model"
)

// NotificationRepo provides access to the notifications table. Rows
// are append-only: the reminder scheduler inserts them and external
// delivery channels read them. The table carries a unique index on the
// dedup key (user_id, type, stage, reservation_id, loan_id); together
// with Exists this guarantees at most one row per key even when the
// read-before-write check is raced.
type NotificationRepo struct {
	db *sql.DB
}

// NewNotificationRepo returns a new NotificationRepo bound to the
// given database.
func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

// Exists reports whether a notification with the same dedup key is
// already stored. The null-safe <=> comparison makes the nullable
// reservation_id and loan_id columns participate in the key: NULL
// matches NULL and nothing else.
func (r *NotificationRepo) Exists(ctx context.Context, userID uint64, ntype, stage string, reservationID, loanID *uint64) (bool, error) {
	const q = `SELECT EXISTS(
		SELECT 1 FROM notifications
		WHERE user_id = ? AND type = ? AND stage = ?
		AND reservation_id <=> ? AND loan_id <=> ?
	)`
	var found bool
	err := r.db.QueryRowContext(ctx, q, userID, ntype, stage, reservationID, loanID).Scan(&found)
	return found, err
}

// Create inserts a notification row. The structured data payload is
// derived from the model so the JSON column always agrees with the
// dedup columns. A duplicate-key violation on the dedup index is
// mapped to ErrDuplicateNotification so callers can treat it as
// "already notified" rather than a failure.
func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	payload, err := json.Marshal(n.Data())
	if err != nil {
		return err
	}
	const q = `INSERT INTO notifications (user_id, type, title, message, stage, reservation_id, loan_id, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, n.UserID, n.Type, n.Title, n.Message, n.Stage, n.ReservationID, n.LoanID, payload)
	if err != nil {
		var my *mysql.MySQLError
		if errors.As(err, &my) && my.Number == 1062 {
			return ErrDuplicateNotification
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	return r.db.QueryRowContext(ctx, `SELECT created_at FROM notifications WHERE id = ?`, n.ID).Scan(&n.CreatedAt)
}

// ListByUser returns a user's notifications, newest first, capped at
// limit (default 50 when limit <= 0).
func (r *NotificationRepo) ListByUser(ctx context.Context, userID uint64, limit int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `SELECT id, user_id, type, title, message, stage, reservation_id, loan_id, created_at
		FROM notifications WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Notification
	for rows.Next() {
		var (
			n      model.Notification
			resID  sql.NullInt64
			loanID sql.NullInt64
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Stage, &resID, &loanID, &n.CreatedAt); err != nil {
			return nil, err
		}
		if resID.Valid {
			v := uint64(resID.Int64)
			n.ReservationID = &v
		}
		if loanID.Valid {
			v := uint64(loanID.Int64)
			n.LoanID = &v
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

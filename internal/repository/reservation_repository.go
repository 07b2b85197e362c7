package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/lab-resource-booking/internal/model"
)

// ReservationRepo provides access to the reservations table. Rows are
// created by the booking workflow after the availability and
// requirements checks pass and read back by the reminder scheduler.
// All timestamp fields are assumed to be stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given
// database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, user_id, lab_id, resource_id, start_time, end_time, status, created_at, updated_at`

// Create inserts a new reservation and populates the generated ID and
// timestamps on the provided model.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations (user_id, lab_id, resource_id, start_time, end_time, status)
		VALUES (?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, res.UserID, res.LabID, res.ResourceID, res.StartTime, res.EndTime, string(res.Status))
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	sel := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, res.ID).Scan(
		&res.ID, &res.UserID, &res.LabID, &res.ResourceID, &res.StartTime, &res.EndTime, &res.Status, &res.CreatedAt, &res.UpdatedAt,
	)
}

// ListByUser returns a user's reservations, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE user_id = ? ORDER BY start_time DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReservations(rows)
}

// DueBetween returns approved reservations whose start_time falls in
// the half-open window [from, to). The reminder scheduler calls this
// once per stage with a tolerance window centered on now+ahead.
func (r *ReservationRepo) DueBetween(ctx context.Context, from, to time.Time) ([]model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE status = ? AND start_time >= ? AND start_time < ?
		ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, q, string(model.ReservationApproved), from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReservations(rows)
}

func scanReservations(rows *sql.Rows) ([]model.Reservation, error) {
	var out []model.Reservation
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.UserID, &res.LabID, &res.ResourceID, &res.StartTime, &res.EndTime, &res.Status, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

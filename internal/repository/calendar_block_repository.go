package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/lab-resource-booking/internal/model"
)

// CalendarBlockRepo provides access to the calendar_slots table. Blocks
// are written by staff through the block handlers and read by the
// availability checker. All timestamps are stored in UTC and every
// block occupies the half-open interval [starts_at, ends_at).
type CalendarBlockRepo struct {
	db *sql.DB
}

// NewCalendarBlockRepo returns a new CalendarBlockRepo bound to the
// given database.
func NewCalendarBlockRepo(db *sql.DB) *CalendarBlockRepo { return &CalendarBlockRepo{db: db} }

const blockColumns = `id, lab_id, resource_id, status, starts_at, ends_at, reason, created_at, updated_at`

// Create inserts a new calendar block and populates the generated ID
// and timestamps on the provided model.
func (r *CalendarBlockRepo) Create(ctx context.Context, b *model.CalendarBlock) error {
	const q = `INSERT INTO calendar_slots (lab_id, resource_id, status, starts_at, ends_at, reason)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, b.LabID, b.ResourceID, string(b.Status), b.StartsAt, b.EndsAt, b.Reason)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	sel := `SELECT ` + blockColumns + ` FROM calendar_slots WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, b.ID).Scan(
		&b.ID, &b.LabID, &b.ResourceID, &b.Status, &b.StartsAt, &b.EndsAt, &b.Reason, &b.CreatedAt, &b.UpdatedAt,
	)
}

// ListByLab returns every block of a lab whose interval intersects the
// window [from, to), regardless of status. Used by the staff calendar
// view.
func (r *CalendarBlockRepo) ListByLab(ctx context.Context, labID uint64, from, to time.Time) ([]model.CalendarBlock, error) {
	q := `SELECT ` + blockColumns + ` FROM calendar_slots
		WHERE lab_id = ? AND starts_at < ? AND ? < ends_at
		ORDER BY starts_at`
	rows, err := r.db.QueryContext(ctx, q, labID, to, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBlocks(rows)
}

// LabBlocksOverlapping returns blocks of a lab that preclude new
// bookings and overlap [from, to). The overlap test is the half-open
// predicate starts_at < to AND from < ends_at, so a block ending
// exactly at from (or starting exactly at to) does not match. The
// status list is expanded from model.BlockingStatuses rather than
// interpolated literals.
func (r *CalendarBlockRepo) LabBlocksOverlapping(ctx context.Context, labID uint64, from, to time.Time) ([]model.CalendarBlock, error) {
	q := `SELECT ` + blockColumns + ` FROM calendar_slots
		WHERE lab_id = ? AND status IN (` + placeholders(len(model.BlockingStatuses)) + `)
		AND starts_at < ? AND ? < ends_at
		ORDER BY starts_at`
	args := []any{labID}
	for _, s := range model.BlockingStatuses {
		args = append(args, string(s))
	}
	args = append(args, to, from)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBlocks(rows)
}

// ResourceBlocksOverlapping is the resource-scoped variant of
// LabBlocksOverlapping: it matches blocking rows whose resource_id is
// one of ids and whose interval overlaps [from, to).
func (r *CalendarBlockRepo) ResourceBlocksOverlapping(ctx context.Context, ids []uint64, from, to time.Time) ([]model.CalendarBlock, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := `SELECT ` + blockColumns + ` FROM calendar_slots
		WHERE resource_id IN (` + placeholders(len(ids)) + `)
		AND status IN (` + placeholders(len(model.BlockingStatuses)) + `)
		AND starts_at < ? AND ? < ends_at
		ORDER BY starts_at`
	args := idArgs(ids)
	for _, s := range model.BlockingStatuses {
		args = append(args, string(s))
	}
	args = append(args, to, from)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBlocks(rows)
}

func scanBlocks(rows *sql.Rows) ([]model.CalendarBlock, error) {
	var out []model.CalendarBlock
	for rows.Next() {
		var (
			b   model.CalendarBlock
			rid sql.NullInt64
		)
		if err := rows.Scan(&b.ID, &b.LabID, &rid, &b.Status, &b.StartsAt, &b.EndsAt, &b.Reason, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		if rid.Valid {
			v := uint64(rid.Int64)
			b.ResourceID = &v
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

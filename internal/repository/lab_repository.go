package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/lab-resource-booking/internal/model"
)

// LabRepo provides read access to the labs table. Labs themselves are
// administered by an external back office; this service only lists and
// resolves them.
type LabRepo struct {
	db *sql.DB
}

// NewLabRepo returns a new LabRepo bound to the given database.
func NewLabRepo(db *sql.DB) *LabRepo { return &LabRepo{db: db} }

// ListActive returns all labs that currently accept bookings, ordered
// by name for stable catalog output.
func (r *LabRepo) ListActive(ctx context.Context) ([]model.Lab, error) {
	const q = `SELECT id, name, location, description, is_active, created_at, updated_at
		FROM labs WHERE is_active = 1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labs []model.Lab
	for rows.Next() {
		var l model.Lab
		if err := rows.Scan(&l.ID, &l.Name, &l.Location, &l.Description, &l.IsActive, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		labs = append(labs, l)
	}
	return labs, rows.Err()
}

// GetByID resolves a single lab. ErrLabNotFound is returned when no row
// matches so handlers can answer 404 without leaking sql.ErrNoRows.
func (r *LabRepo) GetByID(ctx context.Context, id uint64) (model.Lab, error) {
	const q = `SELECT id, name, location, description, is_active, created_at, updated_at
		FROM labs WHERE id = ? LIMIT 1`
	var l model.Lab
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&l.ID, &l.Name, &l.Location, &l.Description, &l.IsActive, &l.CreatedAt, &l.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Lab{}, ErrLabNotFound
	}
	return l, err
}

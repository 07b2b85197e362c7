package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/lab-resource-booking/internal/model"
)

// ResourceRepo provides read access to the resources table. Resource
// status is mutated by the inventory and maintenance workflows outside
// this service; the availability checker only ever reads it.
type ResourceRepo struct {
	db *sql.DB
}

// NewResourceRepo returns a new ResourceRepo bound to the given database.
func NewResourceRepo(db *sql.DB) *ResourceRepo { return &ResourceRepo{db: db} }

const resourceColumns = `id, lab_id, name, status, qty_available, created_at, updated_at`

// ListByLab returns all resources belonging to a lab.
func (r *ResourceRepo) ListByLab(ctx context.Context, labID uint64) ([]model.Resource, error) {
	q := `SELECT ` + resourceColumns + ` FROM resources WHERE lab_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, labID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanResources(rows)
}

// GetByID resolves a single resource, mapping a missing row to
// ErrResourceNotFound.
func (r *ResourceRepo) GetByID(ctx context.Context, id uint64) (model.Resource, error) {
	q := `SELECT ` + resourceColumns + ` FROM resources WHERE id = ? LIMIT 1`
	var res model.Resource
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&res.ID, &res.LabID, &res.Name, &res.Status, &res.QtyAvailable, &res.CreatedAt, &res.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Resource{}, ErrResourceNotFound
	}
	return res, err
}

// ListUnavailable returns every resource in ids whose status is not
// AVAILABLE. The availability checker reports each returned row as a
// resource-status conflict. An empty ids slice yields no rows and no
// query.
func (r *ResourceRepo) ListUnavailable(ctx context.Context, ids []uint64) ([]model.Resource, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := `SELECT ` + resourceColumns + ` FROM resources
		WHERE id IN (` + placeholders(len(ids)) + `) AND status <> ?`
	args := append(idArgs(ids), string(model.ResourceAvailable))
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanResources(rows)
}

func scanResources(rows *sql.Rows) ([]model.Resource, error) {
	var out []model.Resource
	for rows.Next() {
		var res model.Resource
		if err := rows.Scan(&res.ID, &res.LabID, &res.Name, &res.Status, &res.QtyAvailable, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

package repository

import (
	"context"
	"database/sql"
	"time"
)

// RequiredTraining is the projection returned when listing a lab's
// prerequisites: the requirement joined to the training catalog so
// callers can report code and name for missing entries.
type RequiredTraining struct {
	ID   uint64 // trainings.id
	Code string // trainings.code
	Name string // trainings.name
}

// TrainingRepo provides read access to the training tables. The
// requirements gate consults it to decide whether a user may book a
// lab.
type TrainingRepo struct {
	db *sql.DB
}

// NewTrainingRepo returns a new TrainingRepo bound to the given
// database.
func NewTrainingRepo(db *sql.DB) *TrainingRepo { return &TrainingRepo{db: db} }

// RequirementsByLab returns the trainings a lab declares as
// prerequisites, joined to the catalog for code and name. Labs with no
// declared requirements yield an empty slice.
func (r *TrainingRepo) RequirementsByLab(ctx context.Context, labID uint64) ([]RequiredTraining, error) {
	const q = `SELECT t.id, t.code, t.name
		FROM lab_training_requirements req
		JOIN trainings t ON t.id = req.training_id
		WHERE req.lab_id = ?
		ORDER BY t.code`
	rows, err := r.db.QueryContext(ctx, q, labID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RequiredTraining
	for rows.Next() {
		var rt RequiredTraining
		if err := rows.Scan(&rt.ID, &rt.Code, &rt.Name); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

// CompletedTrainingIDs returns the set of training ids the user has
// completed and that are still valid at now: expires_at is either NULL
// or strictly in the future. Expired completions are treated as if the
// training had never been taken.
func (r *TrainingRepo) CompletedTrainingIDs(ctx context.Context, userID uint64, now time.Time) (map[uint64]struct{}, error) {
	const q = `SELECT training_id FROM user_trainings
		WHERE user_id = ? AND (expires_at IS NULL OR expires_at > ?)`
	rows, err := r.db.QueryContext(ctx, q, userID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	done := make(map[uint64]struct{})
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		done[id] = struct{}{}
	}
	return done, rows.Err()
}

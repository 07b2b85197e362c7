package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/lab-resource-booking/internal/model"
)

// LoanRepo provides access to the loans table. Loans track equipment
// taken out of the lab; the reminder scheduler reads them for due
// reminders (keyed on end_time) and the overdue check.
type LoanRepo struct {
	db *sql.DB
}

// NewLoanRepo returns a new LoanRepo bound to the given database.
func NewLoanRepo(db *sql.DB) *LoanRepo { return &LoanRepo{db: db} }

const loanColumns = `id, user_id, lab_id, resource_id, start_time, end_time, status, created_at, updated_at`

// Create inserts a new loan and populates the generated ID and
// timestamps on the provided model.
func (r *LoanRepo) Create(ctx context.Context, l *model.Loan) error {
	const q = `INSERT INTO loans (user_id, lab_id, resource_id, start_time, end_time, status)
		VALUES (?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, l.UserID, l.LabID, l.ResourceID, l.StartTime, l.EndTime, string(l.Status))
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	sel := `SELECT ` + loanColumns + ` FROM loans WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, l.ID).Scan(
		&l.ID, &l.UserID, &l.LabID, &l.ResourceID, &l.StartTime, &l.EndTime, &l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
}

// ListByUser returns a user's loans, newest first.
func (r *LoanRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Loan, error) {
	q := `SELECT ` + loanColumns + ` FROM loans WHERE user_id = ? ORDER BY end_time DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLoans(rows)
}

// DueBetween returns live loans (approved or picked up) whose end_time
// falls in the half-open window [from, to).
func (r *LoanRepo) DueBetween(ctx context.Context, from, to time.Time) ([]model.Loan, error) {
	q := `SELECT ` + loanColumns + ` FROM loans
		WHERE status IN (` + placeholders(len(model.LiveLoanStatuses)) + `)
		AND end_time >= ? AND end_time < ?
		ORDER BY end_time`
	args := liveStatusArgs()
	args = append(args, from, to)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLoans(rows)
}

// Overdue returns live loans whose end_time is strictly before now.
// There is no lower bound on purpose: every overdue loan matches on
// every call and the notification dedup check is what keeps alerts to
// one per loan.
func (r *LoanRepo) Overdue(ctx context.Context, now time.Time) ([]model.Loan, error) {
	q := `SELECT ` + loanColumns + ` FROM loans
		WHERE status IN (` + placeholders(len(model.LiveLoanStatuses)) + `)
		AND end_time < ?
		ORDER BY end_time`
	args := liveStatusArgs()
	args = append(args, now)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLoans(rows)
}

func liveStatusArgs() []any {
	args := make([]any, 0, len(model.LiveLoanStatuses))
	for _, s := range model.LiveLoanStatuses {
		args = append(args, string(s))
	}
	return args
}

func scanLoans(rows *sql.Rows) ([]model.Loan, error) {
	var out []model.Loan
	for rows.Next() {
		var l model.Loan
		if err := rows.Scan(&l.ID, &l.UserID, &l.LabID, &l.ResourceID, &l.StartTime, &l.EndTime, &l.Status, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

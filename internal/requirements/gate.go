// Package requirements implements the training prerequisite gate. The
// booking workflow consults it, together with the availability checker,
// before admitting a reservation or loan.
package requirements

import (
	"context"
	"time"

	"github.com/iliyamo/lab-resource-booking/internal/repository"
)

// MissingTraining identifies an unsatisfied prerequisite, with enough
// catalog detail for the client to tell the user what to complete.
type MissingTraining struct {
	ID   uint64 `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// Result is the outcome of a requirements check. OK is true exactly
// when Missing is empty.
type Result struct {
	OK      bool              `json:"ok"`
	Missing []MissingTraining `json:"missing"`
}

// TrainingStore is the data access the gate needs. Implemented by
// repository.TrainingRepo. CompletedTrainingIDs must only return
// completions that are still valid at the supplied instant.
type TrainingStore interface {
	RequirementsByLab(ctx context.Context, labID uint64) ([]repository.RequiredTraining, error)
	CompletedTrainingIDs(ctx context.Context, userID uint64, now time.Time) (map[uint64]struct{}, error)
}

// Gate decides whether a user satisfies a lab's declared training
// prerequisites. The clock is injected so tests can pin expiry
// comparisons to a fixed instant; it is sampled once per call.
type Gate struct {
	trainings TrainingStore
	now       func() time.Time
}

// NewGate constructs a Gate. A nil clock defaults to time.Now.
func NewGate(trainings TrainingStore, now func() time.Time) *Gate {
	if now == nil {
		now = time.Now
	}
	return &Gate{trainings: trainings, now: now}
}

// RequirementsOK computes the prerequisites of labID that userID has
// not satisfied. A lab with no declared requirements imposes none, so
// the user's training history is not even fetched. A completion counts
// only while unexpired; expired rows are treated as absent. Pure
// query, no mutation.
func (g *Gate) RequirementsOK(ctx context.Context, labID, userID uint64) (Result, error) {
	required, err := g.trainings.RequirementsByLab(ctx, labID)
	if err != nil {
		return Result{}, err
	}
	if len(required) == 0 {
		return Result{OK: true, Missing: []MissingTraining{}}, nil
	}

	done, err := g.trainings.CompletedTrainingIDs(ctx, userID, g.now().UTC())
	if err != nil {
		return Result{}, err
	}

	missing := make([]MissingTraining, 0, len(required))
	for _, req := range required {
		if _, ok := done[req.ID]; !ok {
			missing = append(missing, MissingTraining{ID: req.ID, Code: req.Code, Name: req.Name})
		}
	}
	return Result{OK: len(missing) == 0, Missing: missing}, nil
}

package evaluations

import "context"

// Repo defines persistence operations for the evaluation ledger.
type Repo interface {
	// Create persists a new evaluation, returning ErrConflict if one
	// already exists for the (round, application) pair.
	Create(ctx context.Context, eval Evaluation) error
	GetByID(ctx context.Context, evalID string) (Evaluation, error)
	GetByRoundAndApplication(ctx context.Context, roundID, applicationID string) (Evaluation, error)
	ListByApplications(ctx context.Context, applicationIDs []string) ([]Evaluation, error)
	// Update writes the record if its stored version still matches
	// eval.Version, bumping the version; a stale version yields ErrConflict.
	Update(ctx context.Context, eval Evaluation) (Evaluation, error)
}

package applications

import "context"

// Repo defines persistence operations for applications.
type Repo interface {
	Create(ctx context.Context, app Application) error
	GetByID(ctx context.Context, appID string) (Application, error)
	ListByCompany(ctx context.Context, companyID string) ([]Application, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]Application, error)
	ListByIDs(ctx context.Context, appIDs []string) ([]Application, error)
	Update(ctx context.Context, app Application) error
	GetCandidate(ctx context.Context, candidateID string) (Candidate, error)
}

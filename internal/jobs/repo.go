package jobs

import "context"

// Repo defines persistence operations for jobs and company reference data.
type Repo interface {
	Create(ctx context.Context, job Job) error
	GetByID(ctx context.Context, jobID string) (Job, error)
	ListByCompany(ctx context.Context, companyID string) ([]Job, error)
	GetCompany(ctx context.Context, companyID string) (Company, error)
}

package rounds

import "context"

// Repo defines persistence operations for rounds and MCQ responses.
type Repo interface {
	Create(ctx context.Context, round Round) error
	GetByID(ctx context.Context, roundID string) (Round, error)
	// ListByJob returns a job's unarchived rounds ordered by Order ascending.
	ListByJob(ctx context.Context, jobID string) ([]Round, error)
	Update(ctx context.Context, round Round) error
	// LastOrder returns the highest order among a job's rounds, archived
	// included, or ErrNotFound if the job has none.
	LastOrder(ctx context.Context, jobID string) (int, error)
	// NextAfter returns the unarchived, active round with the lowest order
	// strictly greater than order, or ErrNotFound.
	NextAfter(ctx context.Context, jobID string, order int) (Round, error)
	// OrderTaken reports whether a round other than excludeID uses order.
	// Archived rounds keep their slot so activation cannot collide.
	OrderTaken(ctx context.Context, jobID string, order int, excludeID string) (bool, error)

	// CreateResponse persists a graded submission, returning ErrConflict if
	// one already exists for the (round, application) pair.
	CreateResponse(ctx context.Context, resp MCQResponse) error
	GetResponse(ctx context.Context, roundID, applicationID string) (MCQResponse, error)
}

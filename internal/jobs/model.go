package jobs

import "time"

// Job is an open position owned by a company.
type Job struct {
	ID          string
	CompanyID   string
	Title       string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Company is the reference slice of a company the pipeline needs: its name
// for notifications and its owner as the evaluator placeholder on progression.
type Company struct {
	ID      string
	Name    string
	OwnerID string
}

package applications

import "time"

// Status is the company-facing application state.
type Status string

const (
	StatusApplied     Status = "APPLIED"
	StatusUnderReview Status = "UNDER_REVIEW"
	StatusShortlisted Status = "SHORTLISTED"
	StatusHired       Status = "HIRED"
	StatusRejected    Status = "REJECTED"
)

// ValidStatus reports whether s is a known application status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusApplied, StatusUnderReview, StatusShortlisted, StatusHired, StatusRejected:
		return true
	}
	return false
}

// Application is a candidate's application to a job.
//
// CurrentRoundID is advisory: it caches which round the UI should show and
// may drift from the evaluation ledger. The evaluations package repairs the
// drift at read time; the ledger stays authoritative.
type Application struct {
	ID             string
	CandidateID    string
	JobID          string
	CompanyID      string
	Status         Status
	CurrentRoundID string
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Candidate is the contact slice of a user the pipeline needs for mail.
type Candidate struct {
	ID    string
	Name  string
	Email string
	Phone string
}

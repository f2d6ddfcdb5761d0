package rounds

import "time"

// Type classifies a round within a job's pipeline.
type Type string

const (
	TypeInterview       Type = "interview"
	TypeMCQ             Type = "mcq"
	TypeCoding          Type = "coding"
	TypeCaseStudy       Type = "case_study"
	TypeGroupDiscussion Type = "group_discussion"
	TypeTechnical       Type = "technical"
	TypeHR              Type = "hr"
)

// ValidType reports whether t is a known round type.
func ValidType(t Type) bool {
	switch t {
	case TypeInterview, TypeMCQ, TypeCoding, TypeCaseStudy, TypeGroupDiscussion, TypeTechnical, TypeHR:
		return true
	}
	return false
}

// InterviewFamily reports whether rounds of type t are conducted by
// interviewers and therefore carry interviewer assignment mail.
func InterviewFamily(t Type) bool {
	switch t {
	case TypeInterview, TypeTechnical, TypeHR, TypeCaseStudy, TypeGroupDiscussion:
		return true
	}
	return false
}

// MCQQuestion is one entry of a round's scoring key.
type MCQQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// Interviewer is a person attached to a round or evaluation.
type Interviewer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Round is one stage in a job's hiring pipeline. Order values define a total
// order per job used for next-round lookup; archived or inactive rounds are
// excluded from progression but never hard-deleted while evaluations
// reference them.
type Round struct {
	ID          string
	JobID       string
	Name        string
	Description string
	Order       int
	Type        Type
	IsArchived  bool
	IsActive    bool
	ArchivedAt  *time.Time

	FormLink     string
	Platform     string
	Duration     string
	Instructions string
	Questions    []MCQQuestion

	InterviewMode string
	Interviewers  []Interviewer
	MeetingLink   string

	// ScheduledAt is the canonical round-level schedule. ScheduledDate and
	// ScheduledTime are legacy string fields still read during reconciliation.
	ScheduledAt   *time.Time
	ScheduledDate string
	ScheduledTime string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MCQResponse is an immutable graded submission, at most one per
// (round, application) pair.
type MCQResponse struct {
	ID            string
	RoundID       string
	ApplicationID string
	CandidateID   string
	Answers       []int
	IsCorrect     []bool
	Score         float64
	SubmittedAt   time.Time
}

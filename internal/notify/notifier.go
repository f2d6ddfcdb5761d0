package notify

import "context"

// Kind identifies a notification template.
type Kind string

const (
	KindMCQInvitation        Kind = "MCQ_INVITATION"
	KindCodingTest           Kind = "CODING_TEST"
	KindInterviewerAssigned  Kind = "INTERVIEWER_ASSIGNED"
	KindCandidateScheduled   Kind = "CANDIDATE_SCHEDULED"
	KindInterviewerScheduled Kind = "INTERVIEWER_SCHEDULED"
	KindNextRound            Kind = "NEXT_ROUND"
	KindApplicationReceived  Kind = "APPLICATION_RECEIVED"
	KindShortlisted          Kind = "SHORTLISTED"
	KindHired                Kind = "HIRED"
	KindRejectedUnderReview  Kind = "REJECTED_UNDER_REVIEW"
	KindRejectedShortlisted  Kind = "REJECTED_SHORTLISTED"
)

// Recipient is the destination of a notification.
type Recipient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Payload carries template variables for a notification.
type Payload map[string]string

// Notifier delivers a single notification. Implementations return an error
// value; they never panic and never block beyond the context deadline.
type Notifier interface {
	Send(ctx context.Context, kind Kind, to Recipient, payload Payload) error
}

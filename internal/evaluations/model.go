package evaluations

import (
	"time"

	"hirehelp-backend/internal/rounds"
)

// Status is the state of one candidate's progress through one round.
type Status string

const (
	StatusPending      Status = "pending"
	StatusScheduled    Status = "scheduled"
	StatusInProgress   Status = "in_progress"
	StatusCompleted    Status = "completed"
	StatusPassed       Status = "passed"
	StatusFailed       Status = "failed"
	StatusSkipped      Status = "skipped"
	StatusMissed       Status = "missed"
	StatusRescheduling Status = "rescheduling"
	StatusRescheduled  Status = "rescheduled"
)

// ValidStatus reports whether s is a known evaluation status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusScheduled, StatusInProgress, StatusCompleted,
		StatusPassed, StatusFailed, StatusSkipped, StatusMissed,
		StatusRescheduling, StatusRescheduled:
		return true
	}
	return false
}

// Terminal reports whether s ends the evaluation. Missed and rescheduling
// are recoverable and therefore not terminal.
func Terminal(s Status) bool {
	switch s {
	case StatusPassed, StatusFailed, StatusSkipped:
		return true
	}
	return false
}

// Mode is the interview modality.
type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

// OnlineDetails describe a remote interview slot.
type OnlineDetails struct {
	Platform    string `json:"platform"`
	MeetingLink string `json:"meetingLink"`
}

// OfflineDetails describe an in-person interview venue.
type OfflineDetails struct {
	Venue    string `json:"venue"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Landmark string `json:"landmark"`
}

// ScheduleDetails is the modality variant of a scheduling request: exactly
// one of Online or Offline is set, matching Mode.
type ScheduleDetails struct {
	Mode    Mode
	Online  *OnlineDetails
	Offline *OfflineDetails
}

// Validate checks the variant is internally consistent.
func (d ScheduleDetails) Validate() error {
	switch d.Mode {
	case ModeOnline:
		if d.Online == nil || d.Offline != nil {
			return ErrInvalidInput
		}
	case ModeOffline:
		if d.Offline == nil || d.Online != nil || d.Offline.Venue == "" {
			return ErrInvalidInput
		}
	default:
		return ErrInvalidInput
	}
	return nil
}

// Evaluation is the ledger record for one (round, application) pair; at most
// one exists per pair. Version guards concurrent writers: updates carry the
// version they read and fail with ErrConflict when it has moved on.
type Evaluation struct {
	ID            string
	RoundID       string
	ApplicationID string
	EvaluatorID   string
	Status        Status
	Score         *float64
	Notes         string
	Feedback      string

	ScheduledAt *time.Time
	ReportingAt *time.Time
	CompletedAt *time.Time

	Mode         Mode
	Platform     string
	MeetingLink  string
	Location     *OfflineDetails
	Interviewers []rounds.Interviewer

	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

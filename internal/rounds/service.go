package rounds

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"hirehelp-backend/internal/jobs"
	"hirehelp-backend/internal/shared/telemetry"
)

// Service contains business logic for the round catalog.
type Service struct {
	Repo Repo
	Jobs jobs.Repo
	Now  func() time.Time
}

func NewService(repo Repo, jobsRepo jobs.Repo) *Service {
	return &Service{Repo: repo, Jobs: jobsRepo, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// CreateInput carries the caller-supplied fields for a new round. Order is
// optional; when nil the round is appended after the job's last round.
type CreateInput struct {
	JobID       string
	Name        string
	Description string
	Order       *int
	Type        Type

	FormLink     string
	Platform     string
	Duration     string
	Instructions string
	Questions    []MCQQuestion

	InterviewMode string
	Interviewers  []Interviewer
	MeetingLink   string
	ScheduledAt   *time.Time
}

// Create adds a round to a job's pipeline. An unset order is assigned
// monotonically; an explicit order colliding with any existing round,
// archived included, is rejected rather than silently reordered.
func (s *Service) Create(ctx context.Context, in CreateInput) (Round, error) {
	if strings.TrimSpace(in.JobID) == "" || strings.TrimSpace(in.Name) == "" {
		return Round{}, ErrInvalidInput
	}
	if !ValidType(in.Type) {
		return Round{}, ErrInvalidInput
	}
	if _, err := s.Jobs.GetByID(ctx, in.JobID); err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			return Round{}, ErrNotFound
		}
		return Round{}, err
	}

	var order int
	if in.Order == nil {
		next, err := s.NextOrderFor(ctx, in.JobID)
		if err != nil {
			return Round{}, err
		}
		order = next
	} else {
		order = *in.Order
		taken, err := s.Repo.OrderTaken(ctx, in.JobID, order, "")
		if err != nil {
			return Round{}, err
		}
		if taken {
			return Round{}, ErrInvalidInput
		}
	}

	round := Round{
		ID:            uuid.NewString(),
		JobID:         in.JobID,
		Name:          strings.TrimSpace(in.Name),
		Description:   strings.TrimSpace(in.Description),
		Order:         order,
		Type:          in.Type,
		IsActive:      true,
		FormLink:      in.FormLink,
		Platform:      in.Platform,
		Duration:      in.Duration,
		Instructions:  in.Instructions,
		Questions:     in.Questions,
		InterviewMode: in.InterviewMode,
		Interviewers:  in.Interviewers,
		MeetingLink:   in.MeetingLink,
		ScheduledAt:   in.ScheduledAt,
		CreatedAt:     s.now(),
		UpdatedAt:     s.now(),
	}
	if err := s.Repo.Create(ctx, round); err != nil {
		return Round{}, err
	}
	return round, nil
}

// Get returns a round by ID.
func (s *Service) Get(ctx context.Context, roundID string) (Round, error) {
	if strings.TrimSpace(roundID) == "" {
		return Round{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, roundID)
}

// ListByJob returns a job's unarchived rounds in pipeline order.
func (s *Service) ListByJob(ctx context.Context, jobID string) ([]Round, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByJob(ctx, jobID)
}

// Update replaces a round's mutable fields. Order changes go through the
// same collision check as creation.
func (s *Service) Update(ctx context.Context, round Round) (Round, error) {
	existing, err := s.Repo.GetByID(ctx, round.ID)
	if err != nil {
		return Round{}, err
	}
	if round.Order != existing.Order {
		taken, err := s.Repo.OrderTaken(ctx, existing.JobID, round.Order, round.ID)
		if err != nil {
			return Round{}, err
		}
		if taken {
			return Round{}, ErrInvalidInput
		}
	}
	round.JobID = existing.JobID
	round.CreatedAt = existing.CreatedAt
	round.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, round); err != nil {
		return Round{}, err
	}
	return round, nil
}

// Archive soft-archives a round so it no longer participates in progression.
// Evaluations referencing it stay intact.
func (s *Service) Archive(ctx context.Context, roundID string) (Round, error) {
	round, err := s.Repo.GetByID(ctx, roundID)
	if err != nil {
		return Round{}, err
	}
	if round.IsArchived {
		return round, nil
	}
	now := s.now()
	round.IsArchived = true
	round.IsActive = false
	round.ArchivedAt = &now
	round.UpdatedAt = now
	if err := s.Repo.Update(ctx, round); err != nil {
		return Round{}, err
	}
	telemetry.Info("round.archived", map[string]any{
		"round_id": round.ID,
		"job_id":   round.JobID,
	})
	return round, nil
}

// Activate restores an archived or deactivated round into the pipeline.
// A round whose order slot was taken while it sat archived (possible only
// in pre-existing data) cannot be restored until renumbered.
func (s *Service) Activate(ctx context.Context, roundID string) (Round, error) {
	round, err := s.Repo.GetByID(ctx, roundID)
	if err != nil {
		return Round{}, err
	}
	if !round.IsArchived && round.IsActive {
		return round, nil
	}
	taken, err := s.Repo.OrderTaken(ctx, round.JobID, round.Order, round.ID)
	if err != nil {
		return Round{}, err
	}
	if taken {
		return Round{}, ErrConflict
	}
	round.IsArchived = false
	round.IsActive = true
	round.ArchivedAt = nil
	round.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, round); err != nil {
		return Round{}, err
	}
	return round, nil
}

// NextOrderFor returns the order a newly appended round should take:
// last order + 1, or 0 for a job with no rounds yet.
func (s *Service) NextOrderFor(ctx context.Context, jobID string) (int, error) {
	last, err := s.Repo.LastOrder(ctx, jobID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return last + 1, nil
}

// FindNextRound returns the next eligible round after currentOrder:
// lowest order strictly greater, unarchived and active, or ErrNotFound.
func (s *Service) FindNextRound(ctx context.Context, jobID string, currentOrder int) (Round, error) {
	return s.Repo.NextAfter(ctx, jobID, currentOrder)
}

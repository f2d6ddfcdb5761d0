package applications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"hirehelp-backend/internal/jobs"
	"hirehelp-backend/internal/notify"
	"hirehelp-backend/internal/shared/telemetry"
)

// Service contains business logic for applications.
type Service struct {
	Repo   Repo
	Jobs   jobs.Repo
	Notify *notify.Dispatcher
	Now    func() time.Time
}

func NewService(repo Repo, jobsRepo jobs.Repo, dispatcher *notify.Dispatcher) *Service {
	return &Service{
		Repo:   repo,
		Jobs:   jobsRepo,
		Notify: dispatcher,
		Now:    time.Now,
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Create records a new application in APPLIED and confirms receipt by mail.
func (s *Service) Create(ctx context.Context, candidateID, jobID, notes string) (Application, error) {
	if strings.TrimSpace(candidateID) == "" || strings.TrimSpace(jobID) == "" {
		return Application{}, ErrInvalidInput
	}
	job, err := s.Jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}

	app := Application{
		ID:          uuid.NewString(),
		CandidateID: candidateID,
		JobID:       job.ID,
		CompanyID:   job.CompanyID,
		Status:      StatusApplied,
		Notes:       strings.TrimSpace(notes),
		CreatedAt:   s.now(),
		UpdatedAt:   s.now(),
	}
	if err := s.Repo.Create(ctx, app); err != nil {
		return Application{}, err
	}

	s.notifyCandidate(ctx, app, notify.KindApplicationReceived)
	return app, nil
}

// Get returns an application by ID.
func (s *Service) Get(ctx context.Context, appID string) (Application, error) {
	if strings.TrimSpace(appID) == "" {
		return Application{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, appID)
}

// ListByCompany returns a company's applications, newest first.
func (s *Service) ListByCompany(ctx context.Context, companyID string) ([]Application, error) {
	if strings.TrimSpace(companyID) == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByCompany(ctx, companyID)
}

// ListByCandidate returns a candidate's applications, newest first.
func (s *Service) ListByCandidate(ctx context.Context, candidateID string) ([]Application, error) {
	if strings.TrimSpace(candidateID) == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByCandidate(ctx, candidateID)
}

// UpdateStatus moves an application to a new company-facing status. The write
// happens first; the candidate mail matching the transition is best-effort.
func (s *Service) UpdateStatus(ctx context.Context, appID string, status Status) (Application, error) {
	if strings.TrimSpace(appID) == "" || !ValidStatus(status) {
		return Application{}, ErrInvalidInput
	}
	app, err := s.Repo.GetByID(ctx, appID)
	if err != nil {
		return Application{}, err
	}
	if app.Status == status {
		return app, nil
	}

	previous := app.Status
	app.Status = status
	app.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, app); err != nil {
		return Application{}, err
	}

	telemetry.Info("application.status_changed", map[string]any{
		"application_id": app.ID,
		"from":           string(previous),
		"to":             string(status),
	})

	if kind, ok := statusMailKind(previous, status); ok {
		s.notifyCandidate(ctx, app, kind)
	}
	return app, nil
}

// statusMailKind picks the mail for a status transition. Rejections read
// differently depending on how far the candidate got.
func statusMailKind(previous, next Status) (notify.Kind, bool) {
	switch next {
	case StatusShortlisted:
		return notify.KindShortlisted, true
	case StatusHired:
		return notify.KindHired, true
	case StatusRejected:
		if previous == StatusShortlisted {
			return notify.KindRejectedShortlisted, true
		}
		return notify.KindRejectedUnderReview, true
	}
	return "", false
}

func (s *Service) notifyCandidate(ctx context.Context, app Application, kind notify.Kind) {
	cand, err := s.Repo.GetCandidate(ctx, app.CandidateID)
	if err != nil {
		telemetry.Warn("application.candidate_lookup_failed", map[string]any{
			"application_id": app.ID,
			"candidate_id":   app.CandidateID,
			"error":          err.Error(),
		})
		return
	}
	payload := notify.Payload{}
	if job, err := s.Jobs.GetByID(ctx, app.JobID); err == nil {
		payload["jobTitle"] = job.Title
	}
	if company, err := s.Jobs.GetCompany(ctx, app.CompanyID); err == nil {
		payload["companyName"] = company.Name
	}
	s.Notify.Dispatch(ctx, kind, notify.Recipient{Name: cand.Name, Email: cand.Email}, payload)
}

package jobs

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service contains business logic for jobs.
type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Create records a new job for a company.
func (s *Service) Create(ctx context.Context, companyID, title, description string) (Job, error) {
	if strings.TrimSpace(companyID) == "" || strings.TrimSpace(title) == "" {
		return Job{}, errors.New("company id and title are required")
	}
	if _, err := s.Repo.GetCompany(ctx, companyID); err != nil {
		return Job{}, err
	}

	job := Job{
		ID:          uuid.NewString(),
		CompanyID:   companyID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, job); err != nil {
		return Job{}, err
	}
	return job, nil
}

// Get returns a job by ID.
func (s *Service) Get(ctx context.Context, jobID string) (Job, error) {
	if strings.TrimSpace(jobID) == "" {
		return Job{}, errors.New("job id is required")
	}
	return s.Repo.GetByID(ctx, jobID)
}

// ListByCompany returns a company's jobs, newest first.
func (s *Service) ListByCompany(ctx context.Context, companyID string) ([]Job, error) {
	if strings.TrimSpace(companyID) == "" {
		return nil, errors.New("company id is required")
	}
	return s.Repo.ListByCompany(ctx, companyID)
}

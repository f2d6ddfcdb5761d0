package rounds

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"hirehelp-backend/internal/shared/metrics"
	"hirehelp-backend/internal/shared/telemetry"
)

// SubmitMCQ grades a candidate's answers against the round's scoring key and
// records an immutable response. A second submission for the same
// (round, application) pair is rejected with ErrConflict; the unique index on
// the pair backs up the check under concurrent submissions.
func (s *Service) SubmitMCQ(ctx context.Context, roundID, applicationID, candidateID string, answers []int) (MCQResponse, error) {
	if strings.TrimSpace(roundID) == "" || strings.TrimSpace(applicationID) == "" {
		return MCQResponse{}, ErrInvalidInput
	}

	round, err := s.Repo.GetByID(ctx, roundID)
	if err != nil {
		return MCQResponse{}, err
	}
	if round.Type != TypeMCQ || len(round.Questions) == 0 {
		return MCQResponse{}, ErrNotFound
	}
	if len(answers) != len(round.Questions) {
		return MCQResponse{}, ErrInvalidInput
	}

	if _, err := s.Repo.GetResponse(ctx, roundID, applicationID); err == nil {
		return MCQResponse{}, ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return MCQResponse{}, err
	}

	isCorrect := make([]bool, len(answers))
	correct := 0
	for i, answer := range answers {
		if answer == round.Questions[i].CorrectAnswer {
			isCorrect[i] = true
			correct++
		}
	}
	score := 100 * float64(correct) / float64(len(round.Questions))

	resp := MCQResponse{
		ID:            uuid.NewString(),
		RoundID:       roundID,
		ApplicationID: applicationID,
		CandidateID:   candidateID,
		Answers:       answers,
		IsCorrect:     isCorrect,
		Score:         score,
		SubmittedAt:   s.now(),
	}
	if err := s.Repo.CreateResponse(ctx, resp); err != nil {
		return MCQResponse{}, err
	}

	metrics.IncMCQSubmissions()
	telemetry.Info("mcq.submitted", map[string]any{
		"round_id":       roundID,
		"application_id": applicationID,
		"score":          score,
	})
	return resp, nil
}

// GetMCQResponse returns the recorded submission for a pair, if any.
func (s *Service) GetMCQResponse(ctx context.Context, roundID, applicationID string) (MCQResponse, error) {
	if strings.TrimSpace(roundID) == "" || strings.TrimSpace(applicationID) == "" {
		return MCQResponse{}, ErrInvalidInput
	}
	return s.Repo.GetResponse(ctx, roundID, applicationID)
}

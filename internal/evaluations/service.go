package evaluations

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"hirehelp-backend/internal/applications"
	"hirehelp-backend/internal/jobs"
	"hirehelp-backend/internal/notify"
	"hirehelp-backend/internal/rounds"
	"hirehelp-backend/internal/shared/metrics"
	"hirehelp-backend/internal/shared/telemetry"
)

// Service owns the evaluation ledger: assignment, scheduling, outcome
// transitions, and read-time reconciliation.
type Service struct {
	Repo   Repo
	Rounds rounds.Repo
	Apps   applications.Repo
	Jobs   jobs.Repo
	Notify *notify.Dispatcher
	Now    func() time.Time
}

func NewService(repo Repo, roundsRepo rounds.Repo, appsRepo applications.Repo, jobsRepo jobs.Repo, dispatcher *notify.Dispatcher) *Service {
	return &Service{
		Repo:   repo,
		Rounds: roundsRepo,
		Apps:   appsRepo,
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

// Assign creates a pending evaluation for the (round, application) pair,
// snapshotting the round's interviewers so later round edits don't rewrite
// history. Assigning an already-assigned pair returns the existing record.
// Invitation mails go out after the write and never fail it.
func (s *Service) Assign(ctx context.Context, roundID, applicationID, evaluatorID string) (Evaluation, error) {
	if strings.TrimSpace(roundID) == "" || strings.TrimSpace(applicationID) == "" {
		return Evaluation{}, ErrInvalidInput
	}

	round, err := s.Rounds.GetByID(ctx, roundID)
	if err != nil {
		if errors.Is(err, rounds.ErrNotFound) {
			return Evaluation{}, ErrNotFound
		}
		return Evaluation{}, err
	}
	app, err := s.Apps.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, applications.ErrNotFound) {
			return Evaluation{}, ErrNotFound
		}
		return Evaluation{}, err
	}

	if existing, err := s.Repo.GetByRoundAndApplication(ctx, roundID, applicationID); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrNotFound) {
		return Evaluation{}, err
	}

	interviewers := make([]rounds.Interviewer, len(round.Interviewers))
	copy(interviewers, round.Interviewers)

	eval := Evaluation{
		ID:            uuid.NewString(),
		RoundID:       roundID,
		ApplicationID: applicationID,
		EvaluatorID:   evaluatorID,
		Status:        StatusPending,
		Interviewers:  interviewers,
		Version:       1,
		CreatedAt:     s.now(),
		UpdatedAt:     s.now(),
	}
	if err := s.Repo.Create(ctx, eval); err != nil {
		if errors.Is(err, ErrConflict) {
			// Lost a race with a concurrent assign; the pair invariant holds.
			return s.Repo.GetByRoundAndApplication(ctx, roundID, applicationID)
		}
		return Evaluation{}, err
	}
	metrics.IncEvaluationsAssigned()

	s.refreshCurrentRound(ctx, app, roundID)
	s.dispatchAssignmentMail(ctx, round, app, eval)
	return eval, nil
}

// refreshCurrentRound updates the advisory current-round hint on the
// application. The ledger stays authoritative, so a failure here only logs.
func (s *Service) refreshCurrentRound(ctx context.Context, app applications.Application, roundID string) {
	if app.CurrentRoundID == roundID {
		return
	}
	app.CurrentRoundID = roundID
	app.UpdatedAt = s.now()
	if err := s.Apps.Update(ctx, app); err != nil {
		telemetry.Warn("evaluation.current_round_refresh_failed", map[string]any{
			"application_id": app.ID,
			"round_id":       roundID,
			"error":          err.Error(),
		})
	}
}

func (s *Service) dispatchAssignmentMail(ctx context.Context, round rounds.Round, app applications.Application, eval Evaluation) {
	payload := s.basePayload(ctx, app)
	payload["roundName"] = round.Name

	switch {
	case round.Type == rounds.TypeMCQ && round.FormLink != "":
		cand, err := s.Apps.GetCandidate(ctx, app.CandidateID)
		if err != nil {
			telemetry.Warn("evaluation.candidate_lookup_failed", map[string]any{
				"application_id": app.ID,
				"error":          err.Error(),
			})
			return
		}
		payload["formLink"] = round.FormLink
		s.Notify.Dispatch(ctx, notify.KindMCQInvitation, notify.Recipient{Name: cand.Name, Email: cand.Email}, payload)

	case round.Type == rounds.TypeCoding:
		cand, err := s.Apps.GetCandidate(ctx, app.CandidateID)
		if err != nil {
			telemetry.Warn("evaluation.candidate_lookup_failed", map[string]any{
				"application_id": app.ID,
				"error":          err.Error(),
			})
			return
		}
		payload["duration"] = round.Duration
		payload["instructions"] = round.Instructions
		s.Notify.Dispatch(ctx, notify.KindCodingTest, notify.Recipient{Name: cand.Name, Email: cand.Email}, payload)

	case rounds.InterviewFamily(round.Type) && len(eval.Interviewers) > 0:
		cand, err := s.Apps.GetCandidate(ctx, app.CandidateID)
		if err == nil {
			payload["candidateName"] = cand.Name
		}
		payload["position"] = payload["jobTitle"]
		for _, iv := range eval.Interviewers {
			s.Notify.Dispatch(ctx, notify.KindInterviewerAssigned, notify.Recipient{Name: iv.Name, Email: iv.Email}, payload)
		}
	}
}

// basePayload resolves job and company context for mail templates;
// lookups that fail just leave the fields blank.
func (s *Service) basePayload(ctx context.Context, app applications.Application) notify.Payload {
	payload := notify.Payload{}
	if job, err := s.Jobs.GetByID(ctx, app.JobID); err == nil {
		payload["jobTitle"] = job.Title
	}
	if company, err := s.Jobs.GetCompany(ctx, app.CompanyID); err == nil {
		payload["companyName"] = company.Name
	}
	return payload
}

// UpdateStatus records an evaluation outcome. Completion-class statuses stamp
// CompletedAt; a pass triggers next-round assignment and a candidate mail,
// neither of which can unwind the recorded outcome. A decided evaluation
// cannot be reopened or flipped.
func (s *Service) UpdateStatus(ctx context.Context, evalID string, status Status, notes, feedback string, score *float64) (Evaluation, error) {
	if strings.TrimSpace(evalID) == "" || !ValidStatus(status) {
		return Evaluation{}, ErrInvalidInput
	}
	eval, err := s.Repo.GetByID(ctx, evalID)
	if err != nil {
		return Evaluation{}, err
	}
	if Terminal(eval.Status) {
		return Evaluation{}, ErrConflict
	}

	from := eval.Status
	eval.Status = status
	if notes != "" {
		eval.Notes = notes
	}
	if feedback != "" {
		eval.Feedback = feedback
	}
	if score != nil {
		eval.Score = score
	}
	if status == StatusCompleted || status == StatusPassed || status == StatusFailed {
		now := s.now()
		eval.CompletedAt = &now
	}
	eval.UpdatedAt = s.now()

	updated, err := s.Repo.Update(ctx, eval)
	if err != nil {
		return Evaluation{}, err
	}
	telemetry.Info("evaluation.status_changed", map[string]any{
		"evaluation_id":  updated.ID,
		"application_id": updated.ApplicationID,
		"from":           string(from),
		"to":             string(status),
	})

	if status == StatusPassed {
		s.advance(ctx, updated)
	}
	return updated, nil
}

// advance moves the application to the next eligible round after a pass.
// The pass itself is already durable; failures here log and stop.
func (s *Service) advance(ctx context.Context, eval Evaluation) {
	round, err := s.Rounds.GetByID(ctx, eval.RoundID)
	if err != nil {
		telemetry.Error("evaluation.advance_round_lookup_failed", map[string]any{
			"evaluation_id": eval.ID,
			"error":         err.Error(),
		})
		return
	}
	next, err := s.Rounds.NextAfter(ctx, round.JobID, round.Order)
	if err != nil {
		if errors.Is(err, rounds.ErrNotFound) {
			// Last round passed. Hiring decisions live with the application
			// status, not here.
			return
		}
		telemetry.Error("evaluation.advance_next_round_failed", map[string]any{
			"evaluation_id": eval.ID,
			"error":         err.Error(),
		})
		return
	}

	evaluatorID := s.ownerPlaceholder(ctx, round.JobID)
	if _, err := s.Assign(ctx, next.ID, eval.ApplicationID, evaluatorID); err != nil {
		telemetry.Error("evaluation.advance_assign_failed", map[string]any{
			"evaluation_id":  eval.ID,
			"next_round_id":  next.ID,
			"application_id": eval.ApplicationID,
			"error":          err.Error(),
		})
		return
	}
	metrics.IncEvaluationsAdvanced()

	app, err := s.Apps.GetByID(ctx, eval.ApplicationID)
	if err != nil {
		return
	}
	cand, err := s.Apps.GetCandidate(ctx, app.CandidateID)
	if err != nil {
		return
	}
	payload := s.basePayload(ctx, app)
	payload["nextRoundName"] = next.Name
	s.Notify.Dispatch(ctx, notify.KindNextRound, notify.Recipient{Name: cand.Name, Email: cand.Email}, payload)
}

// ownerPlaceholder resolves the company owner used as the evaluator on
// progression-created evaluations until an admin assigns a real one.
func (s *Service) ownerPlaceholder(ctx context.Context, jobID string) string {
	job, err := s.Jobs.GetByID(ctx, jobID)
	if err != nil {
		return ""
	}
	company, err := s.Jobs.GetCompany(ctx, job.CompanyID)
	if err != nil {
		return ""
	}
	return company.OwnerID
}

// Get returns an evaluation by ID.
func (s *Service) Get(ctx context.Context, evalID string) (Evaluation, error) {
	if strings.TrimSpace(evalID) == "" {
		return Evaluation{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, evalID)
}

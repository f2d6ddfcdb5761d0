package evaluations

import (
	"context"
	"strings"
	"time"

	"hirehelp-backend/internal/notify"
	"hirehelp-backend/internal/rounds"
	"hirehelp-backend/internal/shared/telemetry"
)

const offlineReportingLead = 15 * time.Minute

// ScheduleInput carries a scheduling request for an evaluation.
type ScheduleInput struct {
	EvaluatorID string
	Interviewer rounds.Interviewer
	ScheduledAt time.Time
	ReportingAt *time.Time
	Details     ScheduleDetails
}

// AssignInterviewer schedules an evaluation: it replaces the interviewer
// list, overwrites the slot and modality fields, and moves the status to
// scheduled (or rescheduled when recovering from a miss). Terminal
// evaluations cannot be rescheduled. Both parties are mailed independently,
// best-effort, after the write.
func (s *Service) AssignInterviewer(ctx context.Context, evalID string, in ScheduleInput) (Evaluation, error) {
	if strings.TrimSpace(evalID) == "" || in.Interviewer.Email == "" || in.ScheduledAt.IsZero() {
		return Evaluation{}, ErrInvalidInput
	}
	if err := in.Details.Validate(); err != nil {
		return Evaluation{}, err
	}

	eval, err := s.Repo.GetByID(ctx, evalID)
	if err != nil {
		return Evaluation{}, err
	}
	if Terminal(eval.Status) {
		return Evaluation{}, ErrConflict
	}

	if in.EvaluatorID != "" {
		eval.EvaluatorID = in.EvaluatorID
	}
	eval.Interviewers = []rounds.Interviewer{in.Interviewer}
	scheduledAt := in.ScheduledAt.UTC()
	eval.ScheduledAt = &scheduledAt
	eval.ReportingAt = in.ReportingAt
	if eval.ReportingAt == nil && in.Details.Mode == ModeOffline {
		reportingAt := scheduledAt.Add(-offlineReportingLead)
		eval.ReportingAt = &reportingAt
	}

	eval.Mode = in.Details.Mode
	switch in.Details.Mode {
	case ModeOnline:
		eval.Platform = in.Details.Online.Platform
		eval.MeetingLink = in.Details.Online.MeetingLink
		eval.Location = nil
	case ModeOffline:
		eval.Platform = ""
		eval.MeetingLink = ""
		loc := *in.Details.Offline
		eval.Location = &loc
	}

	if eval.Status == StatusRescheduling {
		eval.Status = StatusRescheduled
	} else {
		eval.Status = StatusScheduled
	}
	eval.UpdatedAt = s.now()

	updated, err := s.Repo.Update(ctx, eval)
	if err != nil {
		return Evaluation{}, err
	}

	s.dispatchScheduleMail(ctx, updated, in.Interviewer)
	return updated, nil
}

// Reschedule recovers a missed evaluation into rescheduling so a new slot
// can be assigned. Any other state is returned unchanged.
func (s *Service) Reschedule(ctx context.Context, evalID string) (Evaluation, error) {
	if strings.TrimSpace(evalID) == "" {
		return Evaluation{}, ErrInvalidInput
	}
	eval, err := s.Repo.GetByID(ctx, evalID)
	if err != nil {
		return Evaluation{}, err
	}
	if eval.Status != StatusMissed {
		return eval, nil
	}

	eval.Status = StatusRescheduling
	eval.UpdatedAt = s.now()
	return s.Repo.Update(ctx, eval)
}

func (s *Service) dispatchScheduleMail(ctx context.Context, eval Evaluation, interviewer rounds.Interviewer) {
	app, err := s.Apps.GetByID(ctx, eval.ApplicationID)
	if err != nil {
		telemetry.Warn("evaluation.schedule_mail_skipped", map[string]any{
			"evaluation_id": eval.ID,
			"error":         err.Error(),
		})
		return
	}

	payload := s.basePayload(ctx, app)
	payload["position"] = payload["jobTitle"]
	payload["mode"] = string(eval.Mode)
	if eval.ScheduledAt != nil {
		payload["date"] = eval.ScheduledAt.Format("Monday, 02 Jan 2006")
		payload["time"] = eval.ScheduledAt.Format("15:04 MST")
	}
	if eval.ReportingAt != nil {
		payload["reportingTime"] = eval.ReportingAt.Format("15:04 MST")
	}
	switch eval.Mode {
	case ModeOnline:
		payload["platform"] = eval.Platform
		payload["meetingLink"] = eval.MeetingLink
	case ModeOffline:
		if eval.Location != nil {
			payload["venue"] = eval.Location.Venue
			payload["address"] = eval.Location.Address
			payload["city"] = eval.Location.City
			payload["landmark"] = eval.Location.Landmark
		}
	}

	cand, err := s.Apps.GetCandidate(ctx, app.CandidateID)
	if err == nil {
		payload["candidateName"] = cand.Name
		s.Notify.Dispatch(ctx, notify.KindCandidateScheduled, notify.Recipient{Name: cand.Name, Email: cand.Email}, payload)
	}
	s.Notify.Dispatch(ctx, notify.KindInterviewerScheduled, notify.Recipient{Name: interviewer.Name, Email: interviewer.Email}, payload)
}

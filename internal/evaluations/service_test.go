package evaluations

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hirehelp-backend/internal/applications"
	"hirehelp-backend/internal/jobs"
	"hirehelp-backend/internal/notify"
	"hirehelp-backend/internal/rounds"
)

type sentMail struct {
	kind    notify.Kind
	to      notify.Recipient
	payload notify.Payload
}

type captureNotifier struct {
	mu   sync.Mutex
	sent []sentMail
}

func (n *captureNotifier) Send(ctx context.Context, kind notify.Kind, to notify.Recipient, payload notify.Payload) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMail{kind: kind, to: to, payload: payload})
	return nil
}

func (n *captureNotifier) kinds() []notify.Kind {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notify.Kind, len(n.sent))
	for i, m := range n.sent {
		out[i] = m.kind
	}
	return out
}

func (n *captureNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = nil
}

type failingNotifier struct{}

func (failingNotifier) Send(ctx context.Context, kind notify.Kind, to notify.Recipient, payload notify.Payload) error {
	return errors.New("smtp unreachable")
}

type fixture struct {
	svc      *Service
	rounds   *rounds.Service
	apps     *applications.MemoryRepo
	notifier *captureNotifier
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	jobsRepo := jobs.NewMemoryRepo()
	jobsRepo.PutCompany(jobs.Company{ID: "co-1", Name: "Acme", OwnerID: "owner-1"})
	if err := jobsRepo.Create(context.Background(), jobs.Job{
		ID:        "job-1",
		CompanyID: "co-1",
		Title:     "Backend Engineer",
		IsActive:  true,
		CreatedAt: now,
	}); err != nil {
		t.Fatalf("seed job: %v", err)
	}

	appsRepo := applications.NewMemoryRepo()
	appsRepo.PutCandidate(applications.Candidate{ID: "cand-1", Name: "Asha", Email: "asha@example.com"})
	if err := appsRepo.Create(context.Background(), applications.Application{
		ID:          "app-1",
		CandidateID: "cand-1",
		JobID:       "job-1",
		CompanyID:   "co-1",
		Status:      applications.StatusUnderReview,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		t.Fatalf("seed application: %v", err)
	}

	roundsRepo := rounds.NewMemoryRepo()
	roundsSvc := rounds.NewService(roundsRepo, jobsRepo)
	roundsSvc.Now = func() time.Time { return now }

	notifier := &captureNotifier{}
	svc := NewService(NewMemoryRepo(), roundsRepo, appsRepo, jobsRepo, &notify.Dispatcher{Notifier: notifier})
	svc.Now = func() time.Time { return now }

	return &fixture{svc: svc, rounds: roundsSvc, apps: appsRepo, notifier: notifier, now: now}
}

func (f *fixture) createRound(t *testing.T, in rounds.CreateInput) rounds.Round {
	t.Helper()
	in.JobID = "job-1"
	round, err := f.rounds.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create round: %v", err)
	}
	return round
}

func TestAssignCreatesPendingEvaluation(t *testing.T) {
	f := newFixture(t)
	round := f.createRound(t, rounds.CreateInput{Name: "Tech", Type: rounds.TypeTechnical})

	eval, err := f.svc.Assign(context.Background(), round.ID, "app-1", "owner-1")
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if eval.Status != StatusPending {
		t.Errorf("status = %s, want %s", eval.Status, StatusPending)
	}
	if eval.Version != 1 {
		t.Errorf("version = %d, want 1", eval.Version)
	}

	app, err := f.apps.GetByID(context.Background(), "app-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if app.CurrentRoundID != round.ID {
		t.Errorf("current round hint = %q, want %q", app.CurrentRoundID, round.ID)
	}
}

func TestAssignIsIdempotent(t *testing.T) {
	f := newFixture(t)
	round := f.createRound(t, rounds.CreateInput{Name: "Tech", Type: rounds.TypeTechnical})
	ctx := context.Background()

	first, err := f.svc.Assign(ctx, round.ID, "app-1", "owner-1")
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	second, err := f.svc.Assign(ctx, round.ID, "app-1", "someone-else")
	if err != nil {
		t.Fatalf("Assign twice: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second assign created a new evaluation: %s vs %s", second.ID, first.ID)
	}

	evals, err := f.svc.Repo.ListByApplications(ctx, []string{"app-1"})
	if err != nil {
		t.Fatalf("ListByApplications: %v", err)
	}
	if len(evals) != 1 {
		t.Errorf("evaluation count = %d, want 1", len(evals))
	}
}

func TestAssignSnapshotsInterviewers(t *testing.T) {
	f := newFixture(t)
	round := f.createRound(t, rounds.CreateInput{
		Name: "Panel",
		Type: rounds.TypeInterview,
		Interviewers: []rounds.Interviewer{
			{Name: "Ravi", Email: "ravi@acme.test"},
		},
	})
	ctx := context.Background()

	eval, err := f.svc.Assign(ctx, round.ID, "app-1", "owner-1")
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if len(eval.Interviewers) != 1 || eval.Interviewers[0].Email != "ravi@acme.test" {
		t.Fatalf("interviewers = %v, want snapshot of round interviewers", eval.Interviewers)
	}

	// Editing the round later must not rewrite the snapshot.
	round.Interviewers = nil
	if _, err := f.rounds.Update(ctx, round); err != nil {
		t.Fatalf("update round: %v", err)
	}
	stored, err := f.svc.Get(ctx, eval.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(stored.Interviewers) != 1 {
		t.Errorf("snapshot lost after round edit: %v", stored.Interviewers)
	}
}

func TestAssignDispatchesMCQInvitation(t *testing.T) {
	f := newFixture(t)
	round := f.createRound(t, rounds.CreateInput{
		Name:     "Screen",
		Type:     rounds.TypeMCQ,
		FormLink: "https://forms.test/mcq",
		Questions: []rounds.MCQQuestion{
			{Question: "Q1", CorrectAnswer: 0},
		},
	})

	if _, err := f.svc.Assign(context.Background(), round.ID, "app-1", "owner-1"); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	kinds := f.notifier.kinds()
	if len(kinds) != 1 || kinds[0] != notify.KindMCQInvitation {
		t.Fatalf("sent kinds = %v, want [MCQ_INVITATION]", kinds)
	}
	mail := f.notifier.sent[0]
	if mail.to.Email != "asha@example.com" {
		t.Errorf("recipient = %s, want candidate", mail.to.Email)
	}
	if mail.payload["formLink"] != "https://forms.test/mcq" {
		t.Errorf("payload form link = %q", mail.payload["formLink"])
	}
}

func TestAssignDispatchesInterviewerMailPerInterviewer(t *testing.T) {
	f := newFixture(t)
	round := f.createRound(t, rounds.CreateInput{
		Name: "Panel",
		Type: rounds.TypeInterview,
		Interviewers: []rounds.Interviewer{
			{Name: "Ravi", Email: "ravi@acme.test"},
			{Name: "Mei", Email: "mei@acme.test"},
		},
	})

	if _, err := f.svc.Assign(context.Background(), round.ID, "app-1", "owner-1"); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	kinds := f.notifier.kinds()
	if len(kinds) != 2 {
		t.Fatalf("sent %d mails, want one per interviewer", len(kinds))
	}
	for _, kind := range kinds {
		if kind != notify.KindInterviewerAssigned {
			t.Errorf("kind = %s, want INTERVIEWER_ASSIGNED", kind)
		}
	}
}

func TestAssignUnknownRoundOrApplication(t *testing.T) {
	f := newFixture(t)
	round := f.createRound(t, rounds.CreateInput{Name: "Tech", Type: rounds.TypeTechnical})
	ctx := context.Background()

	if _, err := f.svc.Assign(ctx, "round-missing", "app-1", "owner-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound for missing round", err)
	}
	if _, err := f.svc.Assign(ctx, round.ID, "app-missing", "owner-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound for missing application", err)
	}
}

func TestUpdateStatusStampsCompletedAt(t *testing.T) {
	f := newFixture(t)
	round := f.createRound(t, rounds.CreateInput{Name: "Tech", Type: rounds.TypeTechnical})
	ctx := context.Background()

	eval, err := f.svc.Assign(ctx, round.ID, "app-1", "owner-1")
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}

	for _, status := range []Status{StatusCompleted, StatusFailed} {
		updated, err := f.svc.UpdateStatus(ctx, eval.ID, status, "", "", nil)
		if err != nil {
			t.Fatalf("UpdateStatus(%s): %v", status, err)
		}
		if updated.CompletedAt == nil || !updated.CompletedAt.Equal(f.now) {
			t.Errorf("completedAt = %v after %s, want %v", updated.CompletedAt, status, f.now)
		}
		eval = updated
	}
}

func TestPassedCreatesNextRoundEvaluation(t *testing.T) {
	f := newFixture(t)
	roundA := f.createRound(t, rounds.CreateInput{
		Name:     "Screen",
		Type:     rounds.TypeMCQ,
		FormLink: "https://forms.test/mcq",
		Questions: []rounds.MCQQuestion{
			{Question: "Q1", CorrectAnswer: 1},
			{Question: "Q2", CorrectAnswer: 0},
			{Question: "Q3", CorrectAnswer: 2},
		},
	})
	roundB := f.createRound(t, rounds.CreateInput{Name: "Interview", Type: rounds.TypeInterview})
	ctx := context.Background()

	e1, err := f.svc.Assign(ctx, roundA.ID, "app-1", "owner-1")
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	f.notifier.reset()

	updated, err := f.svc.UpdateStatus(ctx, e1.ID, StatusPassed, "", "strong submission", nil)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != StatusPassed {
		t.Errorf("status = %s, want passed", updated.Status)
	}

	e2, err := f.svc.Repo.GetByRoundAndApplication(ctx, roundB.ID, "app-1")
	if err != nil {
		t.Fatalf("next-round evaluation not created: %v", err)
	}
	if e2.Status != StatusPending {
		t.Errorf("next evaluation status = %s, want pending", e2.Status)
	}
	if e2.EvaluatorID != "owner-1" {
		t.Errorf("next evaluator = %q, want company owner placeholder", e2.EvaluatorID)
	}

	kinds := f.notifier.kinds()
	found := false
	for _, kind := range kinds {
		if kind == notify.KindNextRound {
			found = true
		}
	}
	if !found {
		t.Errorf("sent kinds = %v, want NEXT_ROUND included", kinds)
	}
}

func TestPassedOnLastRoundEndsSilently(t *testing.T) {
	f := newFixture(t)
	round := f.createRound(t, rounds.CreateInput{Name: "Final", Type: rounds.TypeHR})
	ctx := context.Background()

	eval, err := f.svc.Assign(ctx, round.ID, "app-1", "owner-1")
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	f.notifier.reset()

	updated, err := f.svc.UpdateStatus(ctx, eval.ID, StatusPassed, "", "", nil)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != StatusPassed {
		t.Errorf("status = %s, want passed", updated.Status)
	}

	evals, err := f.svc.Repo.ListByApplications(ctx, []string{"app-1"})
	if err != nil {
		t.Fatalf("ListByApplications: %v", err)
	}
	if len(evals) != 1 {
		t.Errorf("evaluation count = %d, want 1 (no next round to assign)", len(evals))
	}
}

func TestPassedSurvivesNotifierFailure(t *testing.T) {
	f := newFixture(t)
	f.svc.Notify = &notify.Dispatcher{Notifier: failingNotifier{}}
	roundA := f.createRound(t, rounds.CreateInput{Name: "Tech", Type: rounds.TypeTechnical})
	roundB := f.createRound(t, rounds.CreateInput{Name: "HR", Type: rounds.TypeHR})
	ctx := context.Background()

	eval, err := f.svc.Assign(ctx, roundA.ID, "app-1", "owner-1")
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}

	updated, err := f.svc.UpdateStatus(ctx, eval.ID, StatusPassed, "", "", nil)
	if err != nil {
		t.Fatalf("UpdateStatus must not surface mail failures: %v", err)
	}
	if updated.Status != StatusPassed {
		t.Errorf("status = %s, want passed", updated.Status)
	}
	if _, err := f.svc.Repo.GetByRoundAndApplication(ctx, roundB.ID, "app-1"); err != nil {
		t.Errorf("next evaluation missing despite mail failure: %v", err)
	}
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.UpdateStatus(context.Background(), "eval-1", Status("done"), "", "", nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestUpdateStatusStaleVersionConflicts(t *testing.T) {
	f := newFixture(t)
	round := f.createRound(t, rounds.CreateInput{Name: "Tech", Type: rounds.TypeTechnical})
	ctx := context.Background()

	eval, err := f.svc.Assign(ctx, round.ID, "app-1", "owner-1")
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}

	// A concurrent writer bumps the version between our read and write.
	stale := eval
	eval.Notes = "first writer"
	if _, err := f.svc.Repo.Update(ctx, eval); err != nil {
		t.Fatalf("Update: %v", err)
	}
	stale.Notes = "second writer"
	if _, err := f.svc.Repo.Update(ctx, stale); !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict on stale version", err)
	}
}

func TestUpdateStatusRejectsDecidedEvaluation(t *testing.T) {
	f := newFixture(t)
	roundA := f.createRound(t, rounds.CreateInput{Name: "Tech", Type: rounds.TypeTechnical})
	f.createRound(t, rounds.CreateInput{Name: "HR", Type: rounds.TypeHR})
	ctx := context.Background()

	eval, err := f.svc.Assign(ctx, roundA.ID, "app-1", "owner-1")
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, eval.ID, StatusPassed, "", "", nil); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	f.notifier.reset()

	// A decided outcome can neither be flipped nor reopened.
	if _, err := f.svc.UpdateStatus(ctx, eval.ID, StatusFailed, "", "", nil); !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict flipping passed to failed", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, eval.ID, StatusPending, "", "", nil); !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict reopening a passed evaluation", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, eval.ID, StatusPassed, "", "", nil); !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict re-passing", err)
	}

	got, err := f.svc.Get(ctx, eval.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != StatusPassed {
		t.Errorf("status = %s, want passed to stand", got.Status)
	}
	if kinds := f.notifier.kinds(); len(kinds) != 0 {
		t.Errorf("sent kinds = %v, want none (no re-advance, no repeated mail)", kinds)
	}
}

func TestAssignCodingRoundMailsInvitation(t *testing.T) {
	f := newFixture(t)
	round := f.createRound(t, rounds.CreateInput{
		Name:         "Take-home",
		Type:         rounds.TypeCoding,
		Duration:     "90 minutes",
		Instructions: "Submit a repo link before the deadline.",
	})

	if _, err := f.svc.Assign(context.Background(), round.ID, "app-1", "owner-1"); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	var invite *sentMail
	f.notifier.mu.Lock()
	for i := range f.notifier.sent {
		if f.notifier.sent[i].kind == notify.KindCodingTest {
			invite = &f.notifier.sent[i]
		}
	}
	f.notifier.mu.Unlock()
	if invite == nil {
		t.Fatalf("sent kinds = %v, want CODING_TEST included", f.notifier.kinds())
	}
	if invite.to.Email != "asha@example.com" {
		t.Errorf("recipient = %q, want the candidate", invite.to.Email)
	}
	if invite.payload["duration"] != "90 minutes" {
		t.Errorf("duration payload = %q", invite.payload["duration"])
	}
	if invite.payload["instructions"] == "" {
		t.Errorf("instructions payload missing: %+v", invite.payload)
	}
}

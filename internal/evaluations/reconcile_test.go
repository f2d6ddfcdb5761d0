package evaluations

import (
	"context"
	"testing"
	"time"

	"hirehelp-backend/internal/applications"
	"hirehelp-backend/internal/rounds"
)

func TestReconcileRepairsMissingEvaluation(t *testing.T) {
	f := newFixture(t)
	round := f.createRound(t, rounds.CreateInput{Name: "Tech", Type: rounds.TypeTechnical})
	ctx := context.Background()

	// Drift: the advisory pointer was set without going through assignment.
	app, err := f.apps.GetByID(ctx, "app-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	app.CurrentRoundID = round.ID
	if err := f.apps.Update(ctx, app); err != nil {
		t.Fatalf("Update: %v", err)
	}

	evals, err := f.svc.Reconcile(ctx, []string{"app-1"})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(evals) != 1 {
		t.Fatalf("evaluation count = %d, want exactly one synthesized", len(evals))
	}
	if evals[0].RoundID != round.ID || evals[0].Status != StatusPending {
		t.Errorf("synthesized evaluation = %+v", evals[0])
	}

	// Idempotent: a second pass creates nothing new.
	again, err := f.svc.Reconcile(ctx, []string{"app-1"})
	if err != nil {
		t.Fatalf("Reconcile twice: %v", err)
	}
	if len(again) != 1 {
		t.Errorf("evaluation count after second pass = %d, want 1", len(again))
	}
	if again[0].ID != evals[0].ID {
		t.Errorf("second pass returned a different evaluation: %s vs %s", again[0].ID, evals[0].ID)
	}
}

func TestReconcileDerivesMissedFromEvaluationTime(t *testing.T) {
	f := newFixture(t)
	round := f.createRound(t, rounds.CreateInput{Name: "Tech", Type: rounds.TypeTechnical})
	ctx := context.Background()

	eval, err := f.svc.Assign(ctx, round.ID, "app-1", "owner-1")
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	yesterday := f.now.Add(-24 * time.Hour)
	eval.ScheduledAt = &yesterday
	if _, err := f.svc.Repo.Update(ctx, eval); err != nil {
		t.Fatalf("Update: %v", err)
	}

	evals, err := f.svc.Reconcile(ctx, []string{"app-1"})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(evals) != 1 || evals[0].Status != StatusMissed {
		t.Fatalf("evaluations = %+v, want single missed record", evals)
	}
}

func TestReconcileFallsBackToRoundSchedule(t *testing.T) {
	tests := []struct {
		name  string
		round func(f *fixture) rounds.CreateInput
	}{
		{
			name: "round-level timestamp",
			round: func(f *fixture) rounds.CreateInput {
				at := f.now.Add(-2 * time.Hour)
				return rounds.CreateInput{Name: "Tech", Type: rounds.TypeTechnical, ScheduledAt: &at}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			round := f.createRound(t, tc.round(f))
			ctx := context.Background()

			if _, err := f.svc.Assign(ctx, round.ID, "app-1", "owner-1"); err != nil {
				t.Fatalf("Assign: %v", err)
			}

			evals, err := f.svc.Reconcile(ctx, []string{"app-1"})
			if err != nil {
				t.Fatalf("Reconcile: %v", err)
			}
			if len(evals) != 1 || evals[0].Status != StatusMissed {
				t.Fatalf("evaluations = %+v, want missed via round fallback", evals)
			}
		})
	}
}

func TestReconcileParsesLegacyDateTimeStrings(t *testing.T) {
	f := newFixture(t)
	round := f.createRound(t, rounds.CreateInput{Name: "Tech", Type: rounds.TypeTechnical})
	ctx := context.Background()

	if _, err := f.svc.Assign(ctx, round.ID, "app-1", "owner-1"); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	// Backfill legacy string fields directly on the stored round.
	stored, err := f.svc.Rounds.GetByID(ctx, round.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	stored.ScheduledDate = f.now.Add(-24 * time.Hour).Format("2006-01-02")
	stored.ScheduledTime = "09:30"
	if err := f.svc.Rounds.Update(ctx, stored); err != nil {
		t.Fatalf("Update: %v", err)
	}

	evals, err := f.svc.Reconcile(ctx, []string{"app-1"})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(evals) != 1 || evals[0].Status != StatusMissed {
		t.Fatalf("evaluations = %+v, want missed via legacy strings", evals)
	}
}

func TestReconcileIgnoresUnparseableSchedule(t *testing.T) {
	f := newFixture(t)
	round := f.createRound(t, rounds.CreateInput{Name: "Tech", Type: rounds.TypeTechnical})
	ctx := context.Background()

	if _, err := f.svc.Assign(ctx, round.ID, "app-1", "owner-1"); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	stored, err := f.svc.Rounds.GetByID(ctx, round.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	stored.ScheduledDate = "next week"
	stored.ScheduledTime = "morning"
	if err := f.svc.Rounds.Update(ctx, stored); err != nil {
		t.Fatalf("Update: %v", err)
	}

	evals, err := f.svc.Reconcile(ctx, []string{"app-1"})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(evals) != 1 || evals[0].Status != StatusPending {
		t.Fatalf("evaluations = %+v, want pending when the slot cannot be parsed", evals)
	}
}

func TestReconcileLeavesFutureSlotsPending(t *testing.T) {
	f := newFixture(t)
	round := f.createRound(t, rounds.CreateInput{Name: "Tech", Type: rounds.TypeTechnical})
	ctx := context.Background()

	eval, err := f.svc.Assign(ctx, round.ID, "app-1", "owner-1")
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	tomorrow := f.now.Add(24 * time.Hour)
	eval.ScheduledAt = &tomorrow
	if _, err := f.svc.Repo.Update(ctx, eval); err != nil {
		t.Fatalf("Update: %v", err)
	}

	evals, err := f.svc.Reconcile(ctx, []string{"app-1"})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if evals[0].Status != StatusPending {
		t.Errorf("status = %s, want pending for a future slot", evals[0].Status)
	}
}

func TestReconcileDoesNotRederiveRescheduling(t *testing.T) {
	f := newFixture(t)
	round := f.createRound(t, rounds.CreateInput{Name: "Tech", Type: rounds.TypeTechnical})
	ctx := context.Background()

	eval, err := f.svc.Assign(ctx, round.ID, "app-1", "owner-1")
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	yesterday := f.now.Add(-24 * time.Hour)
	eval.ScheduledAt = &yesterday
	if _, err := f.svc.Repo.Update(ctx, eval); err != nil {
		t.Fatalf("Update: %v", err)
	}

	evals, err := f.svc.Reconcile(ctx, []string{"app-1"})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if evals[0].Status != StatusMissed {
		t.Fatalf("status = %s, want missed", evals[0].Status)
	}

	if _, err := f.svc.Reschedule(ctx, evals[0].ID); err != nil {
		t.Fatalf("Reschedule: %v", err)
	}

	again, err := f.svc.Reconcile(ctx, []string{"app-1"})
	if err != nil {
		t.Fatalf("Reconcile again: %v", err)
	}
	if again[0].Status != StatusRescheduling {
		t.Errorf("status = %s, want rescheduling preserved across reconciliation", again[0].Status)
	}
}

func TestReconcileHandlesMultipleApplications(t *testing.T) {
	f := newFixture(t)
	round := f.createRound(t, rounds.CreateInput{Name: "Tech", Type: rounds.TypeTechnical})
	ctx := context.Background()

	f.apps.PutCandidate(applications.Candidate{ID: "cand-2", Name: "Noor", Email: "noor@example.com"})
	if err := f.apps.Create(ctx, applications.Application{
		ID:             "app-2",
		CandidateID:    "cand-2",
		JobID:          "job-1",
		CompanyID:      "co-1",
		Status:         applications.StatusUnderReview,
		CurrentRoundID: round.ID,
		CreatedAt:      f.now,
		UpdatedAt:      f.now,
	}); err != nil {
		t.Fatalf("seed application: %v", err)
	}

	if _, err := f.svc.Assign(ctx, round.ID, "app-1", "owner-1"); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	evals, err := f.svc.Reconcile(ctx, []string{"app-1", "app-2"})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(evals) != 2 {
		t.Fatalf("evaluation count = %d, want existing plus synthesized", len(evals))
	}
}

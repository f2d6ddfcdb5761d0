package evaluations

import (
	"context"
	"time"

	"hirehelp-backend/internal/rounds"
	"hirehelp-backend/internal/shared/metrics"
	"hirehelp-backend/internal/shared/telemetry"
)

// legacy rounds store their slot as separate date and time strings; both
// shapes below appear in old data.
var legacyScheduleLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 3:04 PM",
}

// Reconcile repairs the ledger for a set of applications at read time and
// returns their evaluations. Two repairs run: applications pointing at a
// current round with no matching evaluation get one synthesized, and pending
// evaluations whose effective slot has passed become missed. Both repairs
// are idempotent, so reconciling twice changes nothing further.
func (s *Service) Reconcile(ctx context.Context, applicationIDs []string) ([]Evaluation, error) {
	start := time.Now()
	defer func() {
		metrics.ObserveReconcileDurationMs(float64(time.Since(start)) / float64(time.Millisecond))
	}()

	apps, err := s.Apps.ListByIDs(ctx, applicationIDs)
	if err != nil {
		return nil, err
	}
	evals, err := s.Repo.ListByApplications(ctx, applicationIDs)
	if err != nil {
		return nil, err
	}

	type pair struct{ roundID, applicationID string }
	seen := make(map[pair]struct{}, len(evals))
	for _, eval := range evals {
		seen[pair{eval.RoundID, eval.ApplicationID}] = struct{}{}
	}

	// Repair 1: advisory current-round pointer with no ledger entry.
	for _, app := range apps {
		if app.CurrentRoundID == "" {
			continue
		}
		if _, ok := seen[pair{app.CurrentRoundID, app.ID}]; ok {
			continue
		}
		created, err := s.Assign(ctx, app.CurrentRoundID, app.ID, s.ownerPlaceholder(ctx, app.JobID))
		if err != nil {
			telemetry.Error("reconcile.repair_failed", map[string]any{
				"application_id": app.ID,
				"round_id":       app.CurrentRoundID,
				"error":          err.Error(),
			})
			continue
		}
		seen[pair{created.RoundID, created.ApplicationID}] = struct{}{}
		evals = append(evals, created)
		metrics.IncReconcileRepairs()
		telemetry.Info("reconcile.evaluation_repaired", map[string]any{
			"application_id": app.ID,
			"round_id":       app.CurrentRoundID,
			"evaluation_id":  created.ID,
		})
	}

	// Repair 2: pending evaluations whose slot has already passed.
	now := s.now()
	roundCache := make(map[string]rounds.Round)
	for i, eval := range evals {
		if eval.Status != StatusPending {
			continue
		}
		effective, ok := s.effectiveScheduledAt(ctx, eval, roundCache)
		if !ok || !effective.Before(now) {
			continue
		}

		eval.Status = StatusMissed
		eval.UpdatedAt = now
		updated, err := s.Repo.Update(ctx, eval)
		if err != nil {
			telemetry.Error("reconcile.missed_update_failed", map[string]any{
				"evaluation_id": eval.ID,
				"error":         err.Error(),
			})
			continue
		}
		evals[i] = updated
		metrics.IncEvaluationsMissed()
		telemetry.Info("reconcile.evaluation_missed", map[string]any{
			"evaluation_id": updated.ID,
			"scheduled_at":  effective.Format(time.RFC3339),
		})
	}

	return evals, nil
}

// effectiveScheduledAt resolves the slot used for missed derivation:
// the evaluation's own time, then the round-level time, then the round's
// legacy date+time strings.
func (s *Service) effectiveScheduledAt(ctx context.Context, eval Evaluation, cache map[string]rounds.Round) (time.Time, bool) {
	if eval.ScheduledAt != nil {
		return *eval.ScheduledAt, true
	}

	round, ok := cache[eval.RoundID]
	if !ok {
		loaded, err := s.Rounds.GetByID(ctx, eval.RoundID)
		if err != nil {
			return time.Time{}, false
		}
		round = loaded
		cache[eval.RoundID] = round
	}

	if round.ScheduledAt != nil {
		return *round.ScheduledAt, true
	}
	if round.ScheduledDate != "" && round.ScheduledTime != "" {
		combined := round.ScheduledDate + " " + round.ScheduledTime
		for _, layout := range legacyScheduleLayouts {
			if t, err := time.Parse(layout, combined); err == nil {
				return t.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

package evaluations

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu    sync.RWMutex
	evals map[string]Evaluation
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{evals: make(map[string]Evaluation)}
}

func (r *MemoryRepo) Create(ctx context.Context, eval Evaluation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.evals {
		if existing.RoundID == eval.RoundID && existing.ApplicationID == eval.ApplicationID {
			return ErrConflict
		}
	}
	r.evals[eval.ID] = eval
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, evalID string) (Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return Evaluation{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	eval, ok := r.evals[evalID]
	if !ok {
		return Evaluation{}, ErrNotFound
	}
	return eval, nil
}

func (r *MemoryRepo) GetByRoundAndApplication(ctx context.Context, roundID, applicationID string) (Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return Evaluation{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, eval := range r.evals {
		if eval.RoundID == roundID && eval.ApplicationID == applicationID {
			return eval, nil
		}
	}
	return Evaluation{}, ErrNotFound
}

func (r *MemoryRepo) ListByApplications(ctx context.Context, applicationIDs []string) ([]Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	wanted := make(map[string]struct{}, len(applicationIDs))
	for _, id := range applicationIDs {
		wanted[id] = struct{}{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Evaluation
	for _, eval := range r.evals {
		if _, ok := wanted[eval.ApplicationID]; ok {
			out = append(out, eval)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, eval Evaluation) (Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return Evaluation{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.evals[eval.ID]
	if !ok {
		return Evaluation{}, ErrNotFound
	}
	if stored.Version != eval.Version {
		return Evaluation{}, ErrConflict
	}
	eval.Version++
	r.evals[eval.ID] = eval
	return eval, nil
}

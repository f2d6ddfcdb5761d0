package applications

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu         sync.RWMutex
	apps       map[string]Application
	candidates map[string]Candidate
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		apps:       make(map[string]Application),
		candidates: make(map[string]Candidate),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, app Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apps[app.ID] = app
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, appID string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.apps[appID]
	if !ok {
		return Application{}, ErrNotFound
	}
	return app, nil
}

func (r *MemoryRepo) ListByCompany(ctx context.Context, companyID string) ([]Application, error) {
	return r.filter(ctx, func(app Application) bool { return app.CompanyID == companyID })
}

func (r *MemoryRepo) ListByCandidate(ctx context.Context, candidateID string) ([]Application, error) {
	return r.filter(ctx, func(app Application) bool { return app.CandidateID == candidateID })
}

func (r *MemoryRepo) ListByIDs(ctx context.Context, appIDs []string) ([]Application, error) {
	wanted := make(map[string]struct{}, len(appIDs))
	for _, id := range appIDs {
		wanted[id] = struct{}{}
	}
	return r.filter(ctx, func(app Application) bool {
		_, ok := wanted[app.ID]
		return ok
	})
}

func (r *MemoryRepo) Update(ctx context.Context, app Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.apps[app.ID]; !ok {
		return ErrNotFound
	}
	r.apps[app.ID] = app
	return nil
}

func (r *MemoryRepo) GetCandidate(ctx context.Context, candidateID string) (Candidate, error) {
	if err := ctx.Err(); err != nil {
		return Candidate{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	cand, ok := r.candidates[candidateID]
	if !ok {
		return Candidate{}, ErrNotFound
	}
	return cand, nil
}

// PutCandidate seeds candidate contact data; users are owned by an external service.
func (r *MemoryRepo) PutCandidate(cand Candidate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.candidates[cand.ID] = cand
}

func (r *MemoryRepo) filter(ctx context.Context, keep func(Application) bool) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Application
	for _, app := range r.apps {
		if keep(app) {
			out = append(out, app)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

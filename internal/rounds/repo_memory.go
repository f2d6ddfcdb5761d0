package rounds

import (
	"context"
	"sort"
	"sync"
)

type responseKey struct {
	roundID       string
	applicationID string
}

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu        sync.RWMutex
	rounds    map[string]Round
	responses map[responseKey]MCQResponse
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		rounds:    make(map[string]Round),
		responses: make(map[responseKey]MCQResponse),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, round Round) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rounds[round.ID] = round
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, roundID string) (Round, error) {
	if err := ctx.Err(); err != nil {
		return Round{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	round, ok := r.rounds[roundID]
	if !ok {
		return Round{}, ErrNotFound
	}
	return round, nil
}

func (r *MemoryRepo) ListByJob(ctx context.Context, jobID string) ([]Round, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Round
	for _, round := range r.rounds {
		if round.JobID == jobID && !round.IsArchived {
			out = append(out, round)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, round Round) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rounds[round.ID]; !ok {
		return ErrNotFound
	}
	r.rounds[round.ID] = round
	return nil
}

func (r *MemoryRepo) LastOrder(ctx context.Context, jobID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	last, found := 0, false
	for _, round := range r.rounds {
		if round.JobID != jobID {
			continue
		}
		if !found || round.Order > last {
			last = round.Order
			found = true
		}
	}
	if !found {
		return 0, ErrNotFound
	}
	return last, nil
}

func (r *MemoryRepo) NextAfter(ctx context.Context, jobID string, order int) (Round, error) {
	if err := ctx.Err(); err != nil {
		return Round{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var best Round
	found := false
	for _, round := range r.rounds {
		if round.JobID != jobID || round.IsArchived || !round.IsActive || round.Order <= order {
			continue
		}
		if !found || round.Order < best.Order {
			best = round
			found = true
		}
	}
	if !found {
		return Round{}, ErrNotFound
	}
	return best, nil
}

func (r *MemoryRepo) OrderTaken(ctx context.Context, jobID string, order int, excludeID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, round := range r.rounds {
		if round.JobID == jobID && round.Order == order && round.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepo) CreateResponse(ctx context.Context, resp MCQResponse) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := responseKey{roundID: resp.RoundID, applicationID: resp.ApplicationID}
	if _, ok := r.responses[key]; ok {
		return ErrConflict
	}
	r.responses[key] = resp
	return nil
}

func (r *MemoryRepo) GetResponse(ctx context.Context, roundID, applicationID string) (MCQResponse, error) {
	if err := ctx.Err(); err != nil {
		return MCQResponse{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	resp, ok := r.responses[responseKey{roundID: roundID, applicationID: applicationID}]
	if !ok {
		return MCQResponse{}, ErrNotFound
	}
	return resp, nil
}

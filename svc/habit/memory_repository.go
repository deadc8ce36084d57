package habit

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemRepository is a Repository backed by maps, for tests.
type InMemRepository struct {
	mu          sync.RWMutex
	habits      map[uuid.UUID]*Habit
	completions map[uuid.UUID]map[time.Time]Completion // habitID -> day -> completion
}

func NewInMemRepository() *InMemRepository {
	return &InMemRepository{
		habits:      make(map[uuid.UUID]*Habit),
		completions: make(map[uuid.UUID]map[time.Time]Completion),
	}
}

func (r *InMemRepository) Create(ctx context.Context, h *Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *h
	r.habits[h.ID] = &copied
	return nil
}

func (r *InMemRepository) ByID(ctx context.Context, userID, habitID uuid.UUID) (*Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.habits[habitID]
	if !ok || h.UserID != userID {
		return nil, ErrNotFound
	}
	copied := *h
	return &copied, nil
}

func (r *InMemRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Habit
	for _, h := range r.habits {
		if h.UserID == userID {
			out = append(out, *h)
		}
	}
	slices.SortFunc(out, func(a, b Habit) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (r *InMemRepository) Archive(ctx context.Context, userID, habitID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.habits[habitID]
	if !ok || h.UserID != userID {
		return ErrNotFound
	}
	h.ArchivedAt = &at
	return nil
}

func (r *InMemRepository) CountActive(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, h := range r.habits {
		if h.UserID == userID && !h.IsArchived() {
			n++
		}
	}
	return n, nil
}

func (r *InMemRepository) AddCompletion(ctx context.Context, c Completion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.completions[c.HabitID] == nil {
		r.completions[c.HabitID] = make(map[time.Time]Completion)
	}
	// Same-day completion is idempotent: the first write wins.
	if _, exists := r.completions[c.HabitID][c.Day]; !exists {
		r.completions[c.HabitID][c.Day] = c
	}
	return nil
}

func (r *InMemRepository) CompletionDays(ctx context.Context, habitID uuid.UUID) ([]time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	days := make([]time.Time, 0, len(r.completions[habitID]))
	for d := range r.completions[habitID] {
		days = append(days, d)
	}
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })
	return days, nil
}

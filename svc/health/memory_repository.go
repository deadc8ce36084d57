package health

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemRepository is a Repository backed by maps, for tests.
type InMemRepository struct {
	mu   sync.RWMutex
	logs map[uuid.UUID]map[time.Time]WellnessLog // userID -> day -> log
}

func NewInMemRepository() *InMemRepository {
	return &InMemRepository{logs: make(map[uuid.UUID]map[time.Time]WellnessLog)}
}

func (r *InMemRepository) UpsertLog(ctx context.Context, l *WellnessLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.logs[l.UserID] == nil {
		r.logs[l.UserID] = make(map[time.Time]WellnessLog)
	}
	r.logs[l.UserID][l.Day] = *l
	return nil
}

func (r *InMemRepository) LogForDay(ctx context.Context, userID uuid.UUID, d time.Time) (*WellnessLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.logs[userID][d]
	if !ok {
		return nil, ErrLogNotFound
	}
	return &l, nil
}

func (r *InMemRepository) LogsSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]WellnessLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []WellnessLog
	for d, l := range r.logs[userID] {
		if !d.Before(since) {
			out = append(out, l)
		}
	}
	slices.SortFunc(out, func(a, b WellnessLog) int { return a.Day.Compare(b.Day) })
	return out, nil
}

func (r *InMemRepository) DeleteLog(ctx context.Context, userID uuid.UUID, d time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.logs[userID][d]; !ok {
		return ErrLogNotFound
	}
	delete(r.logs[userID], d)
	return nil
}

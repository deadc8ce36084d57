package entitlement

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// InMemPlanStore is a PlanStore backed by a map, for tests and bootstrap.
type InMemPlanStore struct {
	mu    sync.RWMutex
	plans map[string]Plan
}

// NewInMemPlanStore returns a store seeded with a deep copy of the given
// plans, so later mutation of the arguments cannot leak in.
func NewInMemPlanStore(plans ...Plan) *InMemPlanStore {
	s := &InMemPlanStore{plans: make(map[string]Plan, len(plans))}
	for _, plan := range plans {
		s.plans[plan.ID] = clonePlan(plan)
	}
	return s
}

func (s *InMemPlanStore) Plan(ctx context.Context, id string) (Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.plans[id]
	if !ok {
		return Plan{}, ErrPlanNotFound
	}
	return clonePlan(plan), nil
}

func (s *InMemPlanStore) ActivePlans(ctx context.Context) ([]Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Plan, 0, len(s.plans))
	for _, plan := range s.plans {
		if plan.Active {
			out = append(out, clonePlan(plan))
		}
	}
	slices.SortFunc(out, func(a, b Plan) int {
		switch {
		case a.PriceCents < b.PriceCents:
			return -1
		case a.PriceCents > b.PriceCents:
			return 1
		default:
			return 0
		}
	})
	return out, nil
}

func (s *InMemPlanStore) SavePlan(ctx context.Context, plan Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[plan.ID] = clonePlan(plan)
	return nil
}

func clonePlan(p Plan) Plan {
	p.Quotas = maps.Clone(p.Quotas)
	p.Features = slices.Clone(p.Features)
	return p
}

// InMemSubscriptionStore is a SubscriptionStore backed by per-user slices,
// keeping superseded rows around the way the database does.
type InMemSubscriptionStore struct {
	mu   sync.RWMutex
	subs map[uuid.UUID][]*Subscription
}

func NewInMemSubscriptionStore() *InMemSubscriptionStore {
	return &InMemSubscriptionStore{subs: make(map[uuid.UUID][]*Subscription)}
}

func (s *InMemSubscriptionStore) Current(ctx context.Context, userID uuid.UUID) (*Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sub := range s.subs[userID] {
		if sub.Active {
			copied := *sub
			return &copied, nil
		}
	}
	return nil, ErrNoActiveSubscription
}

func (s *InMemSubscriptionStore) Supersede(ctx context.Context, userID uuid.UUID, next *Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.subs[userID] {
		if sub.Active {
			sub.Active = false
			endedAt := next.CreatedAt
			sub.EndedAt = &endedAt
		}
	}

	copied := *next
	s.subs[userID] = append(s.subs[userID], &copied)
	return nil
}

// History returns all subscription rows for a user, newest last. Test
// helper mirroring what the subscriptions table would hold.
func (s *InMemSubscriptionStore) History(userID uuid.UUID) []*Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Subscription, 0, len(s.subs[userID]))
	for _, sub := range s.subs[userID] {
		copied := *sub
		out = append(out, &copied)
	}
	return out
}

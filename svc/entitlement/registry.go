package entitlement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CounterFunc returns the current live count of a resource for a user.
// Should be fast: count at the repository level, never load rows.
type CounterFunc func(ctx context.Context, userID uuid.UUID) (int64, error)

// CounterRegistry maps a Resource to its CounterFunc. Feature services
// register their counters at wiring time; the registry is not written to
// after startup and is therefore safe for concurrent reads.
type CounterRegistry map[Resource]CounterFunc

// NewRegistry returns a new, empty CounterRegistry.
func NewRegistry() CounterRegistry {
	return make(CounterRegistry)
}

// Register sets or replaces the CounterFunc for the given resource.
// Panics if fn is nil.
func (r CounterRegistry) Register(res Resource, fn CounterFunc) {
	if fn == nil {
		panic(fmt.Sprintf("entitlement: CounterFunc for resource %q cannot be nil", res))
	}
	r[res] = fn
}

package entitlement

import "fmt"

// Resource is a quota-limited resource type. The set is closed: feature
// services can only ask about resources the compiler knows about.
type Resource uint8

const (
	ResourceHabit Resource = iota
	ResourceTransaction
	ResourceBudget
)

// Resources lists all quota-limited resource types.
var Resources = []Resource{ResourceHabit, ResourceTransaction, ResourceBudget}

func (r Resource) String() string {
	switch r {
	case ResourceHabit:
		return "habits"
	case ResourceTransaction:
		return "transactions"
	case ResourceBudget:
		return "budgets"
	default:
		return fmt.Sprintf("resource(%d)", uint8(r))
	}
}

// ParseResource maps a resource name to its Resource value.
func ParseResource(s string) (Resource, error) {
	switch s {
	case "habits":
		return ResourceHabit, nil
	case "transactions":
		return ResourceTransaction, nil
	case "budgets":
		return ResourceBudget, nil
	default:
		return 0, fmt.Errorf("unknown resource %q", s)
	}
}

// MarshalText lets Resource serve as a readable JSON/YAML map key.
func (r Resource) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (r *Resource) UnmarshalText(text []byte) error {
	parsed, err := ParseResource(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Feature is a plan-gated capability flag.
type Feature string

const (
	FeatureCommunity Feature = "community"
	FeatureAnalytics Feature = "analytics"
	FeatureAI        Feature = "ai"
)

// Features lists all known feature flags.
var Features = []Feature{FeatureCommunity, FeatureAnalytics, FeatureAI}

// Quota is a tagged resource limit: either a concrete cap or unlimited.
// The zero value is a cap of zero (nothing may be created).
type Quota struct {
	Limit     int64 `json:"limit" yaml:"limit"`
	Unlimited bool  `json:"unlimited" yaml:"unlimited"`
}

// LimitOf returns a quota capped at n. Negative caps are clamped to zero.
func LimitOf(n int64) Quota {
	if n < 0 {
		n = 0
	}
	return Quota{Limit: n}
}

// NoLimit returns an unlimited quota.
func NoLimit() Quota {
	return Quota{Unlimited: true}
}

// Allows reports whether one more unit may be created given the current
// live count.
func (q Quota) Allows(current int64) bool {
	return q.Unlimited || current < q.Limit
}

func (q Quota) String() string {
	if q.Unlimited {
		return "unlimited"
	}
	return fmt.Sprintf("%d", q.Limit)
}

// Decision is the outcome of a quota check. It is always well-formed:
// callers surface Message to the end user and never see an error.
type Decision struct {
	Allowed      bool   `json:"allowed"`
	CurrentCount int64  `json:"current_count"`
	MaxCount     int64  `json:"max_count"`
	Unlimited    bool   `json:"unlimited,omitempty"`
	Message      string `json:"message"`
}

// UsageInfo reports current usage against the active plan's quota,
// for dashboards.
type UsageInfo struct {
	Current int64 `json:"current"`
	Quota   Quota `json:"quota"`
}

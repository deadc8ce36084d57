package entitlement

// Plan describes a subscription tier: per-resource quotas, feature flags,
// price, and validity window length. Plans are read-mostly; only the admin
// surface mutates them.
type Plan struct {
	ID           string             `json:"id" yaml:"id"`
	Name         string             `json:"name" yaml:"name"`
	Description  string             `json:"description,omitempty" yaml:"description"`
	Quotas       map[Resource]Quota `json:"quotas" yaml:"-"`
	Features     []Feature          `json:"features" yaml:"features"`
	PriceCents   int64              `json:"price_cents" yaml:"price_cents"`
	DurationDays int                `json:"duration_days" yaml:"duration_days"`
	Active       bool               `json:"active" yaml:"active"`
}

// QuotaFor returns the plan's quota for the given resource. A resource the
// plan does not mention is capped at zero, never implicitly unlimited.
func (p Plan) QuotaFor(res Resource) Quota {
	if q, ok := p.Quotas[res]; ok {
		return q
	}
	return Quota{}
}

// HasFeature reports whether the plan enables the given feature flag.
func (p Plan) HasFeature(f Feature) bool {
	for _, have := range p.Features {
		if have == f {
			return true
		}
	}
	return false
}

package entitlement

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidCatalogFile is returned when a YAML plan catalog cannot be
// parsed or fails validation.
var ErrInvalidCatalogFile = errors.New("entitlement: invalid plan catalog file")

// yamlQuota accepts either an integer cap or the literal "unlimited",
// keeping seed files explicit about intent.
type yamlQuota struct {
	quota Quota
}

func (q *yamlQuota) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil && s == "unlimited" {
		q.quota = NoLimit()
		return nil
	}

	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("quota must be an integer or \"unlimited\", got %q", value.Value)
	}
	if n < 0 {
		return fmt.Errorf("quota must be non-negative, got %d", n)
	}
	q.quota = LimitOf(n)
	return nil
}

type yamlPlan struct {
	ID           string               `yaml:"id"`
	Name         string               `yaml:"name"`
	Description  string               `yaml:"description"`
	Quotas       map[string]yamlQuota `yaml:"quotas"`
	Features     []Feature            `yaml:"features"`
	PriceCents   int64                `yaml:"price_cents"`
	DurationDays int                  `yaml:"duration_days"`
	Active       bool                 `yaml:"active"`
}

type yamlCatalog struct {
	Plans []yamlPlan `yaml:"plans"`
}

// LoadCatalogFile reads a YAML plan catalog, used to seed the in-memory
// store for development and to bootstrap the database on first run.
//
// Format:
//
//	plans:
//	  - id: free
//	    name: Free
//	    quotas: {habits: 3, transactions: 50, budgets: 2}
//	    features: []
//	    price_cents: 0
//	    duration_days: 365
//	    active: true
func LoadCatalogFile(path string) ([]Plan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidCatalogFile, err)
	}

	var catalog yamlCatalog
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return nil, errors.Join(ErrInvalidCatalogFile, err)
	}
	if len(catalog.Plans) == 0 {
		return nil, fmt.Errorf("%w: no plans defined", ErrInvalidCatalogFile)
	}

	plans := make([]Plan, 0, len(catalog.Plans))
	for _, yp := range catalog.Plans {
		if yp.ID == "" || yp.Name == "" {
			return nil, fmt.Errorf("%w: plan id and name are required", ErrInvalidCatalogFile)
		}
		if yp.DurationDays <= 0 {
			return nil, fmt.Errorf("%w: plan %q needs a positive duration_days", ErrInvalidCatalogFile, yp.ID)
		}

		plan := Plan{
			ID:           yp.ID,
			Name:         yp.Name,
			Description:  yp.Description,
			Quotas:       make(map[Resource]Quota, len(yp.Quotas)),
			Features:     yp.Features,
			PriceCents:   yp.PriceCents,
			DurationDays: yp.DurationDays,
			Active:       yp.Active,
		}
		for name, q := range yp.Quotas {
			res, err := ParseResource(name)
			if err != nil {
				return nil, fmt.Errorf("%w: plan %q: %w", ErrInvalidCatalogFile, yp.ID, err)
			}
			plan.Quotas[res] = q.quota
		}
		for _, f := range yp.Features {
			switch f {
			case FeatureCommunity, FeatureAnalytics, FeatureAI:
			default:
				return nil, fmt.Errorf("%w: plan %q: unknown feature %q", ErrInvalidCatalogFile, yp.ID, f)
			}
		}

		plans = append(plans, plan)
	}

	return plans, nil
}

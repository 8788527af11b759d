// internal/domain/plan/catalog.go
package plan

import (
	"fmt"
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// Catalog is an immutable set of the three plans. Build one with NewCatalog.
type Catalog struct {
	plans map[Key]Plan
}

var defaultPlans = []Plan{
	{
		Key:   Free,
		Name:  "Gratis",
		Price: 0,
		Features: Features{
			GalleryLimit: 1,
		},
	},
	{
		Key:   Basic,
		Name:  "Básico",
		Price: 150,
		Features: Features{
			WhatsApp:      true,
			Socials:       true,
			ProductsLimit: 10,
			Coupons:       true,
			GalleryLimit:  5,
		},
	},
	{
		Key:   Premium,
		Name:  "Premium",
		Price: 300,
		Features: Features{
			WhatsApp:      true,
			Socials:       true,
			ProductsLimit: Unlimited,
			Verified:      true,
			Coupons:       true,
			Featured:      true,
			GalleryLimit:  20,
		},
	},
}

var defaultCatalog = mustCatalog(defaultPlans)

// Default returns the reference catalog built at process start.
func Default() *Catalog {
	return defaultCatalog
}

func mustCatalog(plans []Plan) *Catalog {
	c, err := NewCatalog(plans)
	if err != nil {
		panic(err)
	}
	return c
}

// NewCatalog copies plans into a new catalog and validates it.
func NewCatalog(plans []Plan) (*Catalog, error) {
	c := &Catalog{plans: make(map[Key]Plan, len(plans))}
	for _, p := range plans {
		if !p.Key.Valid() {
			return nil, &UnknownPlanError{Value: string(p.Key)}
		}
		if _, dup := c.plans[p.Key]; dup {
			return nil, fmt.Errorf("duplicate plan %q", p.Key)
		}
		c.plans[p.Key] = p
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that every key is present and limits never shrink on upgrade.
func (c *Catalog) Validate() error {
	var prev *Plan
	for _, k := range displayOrder {
		p, ok := c.plans[k]
		if !ok {
			return fmt.Errorf("catalog is missing plan %q", k)
		}
		if p.Price < 0 {
			return fmt.Errorf("plan %q has negative price %d", k, p.Price)
		}
		if p.Features.ProductsLimit < 0 || p.Features.GalleryLimit < 0 {
			return fmt.Errorf("plan %q has a negative limit", k)
		}
		if prev != nil {
			if p.Features.ProductsLimit < prev.Features.ProductsLimit {
				return fmt.Errorf("plan %q products limit %d is below %q (%d)",
					k, p.Features.ProductsLimit, prev.Key, prev.Features.ProductsLimit)
			}
			if p.Features.GalleryLimit < prev.Features.GalleryLimit {
				return fmt.Errorf("plan %q gallery limit %d is below %q (%d)",
					k, p.Features.GalleryLimit, prev.Key, prev.Features.GalleryLimit)
			}
		}
		cur := p
		prev = &cur
	}
	return nil
}

// GetPlan returns the plan for key or an UnknownPlanError.
func (c *Catalog) GetPlan(key Key) (Plan, error) {
	p, ok := c.plans[key]
	if !ok {
		return Plan{}, &UnknownPlanError{Value: string(key)}
	}
	return p, nil
}

// ListPlans returns the plans in display order: free, basic, premium.
func (c *Catalog) ListPlans() []Plan {
	out := make([]Plan, 0, len(displayOrder))
	for _, k := range displayOrder {
		out = append(out, c.plans[k])
	}
	return out
}

// FeaturesForPlan is shorthand for GetPlan(key).Features.
func (c *Catalog) FeaturesForPlan(key Key) (Features, error) {
	p, err := c.GetPlan(key)
	if err != nil {
		return Features{}, err
	}
	return p.Features, nil
}

// GetPlan looks key up in the reference catalog.
func GetPlan(key Key) (Plan, error) {
	return defaultCatalog.GetPlan(key)
}

// ListPlans lists the reference catalog in display order.
func ListPlans() []Plan {
	return defaultCatalog.ListPlans()
}

// FeaturesForPlan returns the reference feature set for key.
func FeaturesForPlan(key Key) (Features, error) {
	return defaultCatalog.FeaturesForPlan(key)
}

// ========== Runtime registry ==========

// Registry serves the current catalog and swaps it atomically on Reload.
type Registry struct {
	current atomic.Pointer[Catalog]
}

func NewRegistry(initial *Catalog) *Registry {
	if initial == nil {
		initial = defaultCatalog
	}
	r := &Registry{}
	r.current.Store(initial)
	return r
}

func (r *Registry) Catalog() *Catalog {
	return r.current.Load()
}

// Reload replaces the catalog. A catalog that fails validation is rejected and
// the previous one stays in place.
func (r *Registry) Reload(next *Catalog) error {
	if next == nil {
		return fmt.Errorf("nil catalog")
	}
	if err := next.Validate(); err != nil {
		return fmt.Errorf("reject catalog: %w", err)
	}
	r.current.Store(next)
	return nil
}

type catalogFile struct {
	Plans []Plan `yaml:"plans"`
}

// LoadFile reads a YAML catalog of the form:
//
//	plans:
//	  - key: free
//	    name: Gratis
//	    price: 0
//	    features: {gallery_limit: 1}
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plans file: %w", err)
	}
	return ParseYAML(raw)
}

// ParseYAML decodes and validates a YAML catalog document.
func ParseYAML(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode plans file: %w", err)
	}
	return NewCatalog(f.Plans)
}

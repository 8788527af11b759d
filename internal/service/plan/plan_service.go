// internal/service/plan/plan_service.go
package plan

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"directory-service/internal/domain/plan"
	"directory-service/internal/metrics"
	xerrors "directory-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// Policy decides what happens when stored data names a plan outside the
// catalog.
type Policy string

const (
	// PolicyStrict surfaces the UnknownPlanError to the caller.
	PolicyStrict Policy = "strict"
	// PolicyFree renders the venue with free features.
	PolicyFree Policy = "free"
)

func ParsePolicy(raw string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(raw))); p {
	case PolicyStrict, PolicyFree:
		return p, nil
	default:
		return "", fmt.Errorf("unknown plan policy %q: %w", raw, xerrors.ErrInvalidInput)
	}
}

// UpgradeLink is a prefilled WhatsApp chat asking the admin for a plan change.
type UpgradeLink struct {
	CurrentPlan plan.Key `json:"current_plan"`
	TargetPlan  plan.Key `json:"target_plan"`
	Price       int      `json:"price"`
	URL         string   `json:"url"`
}

type PlanService struct {
	registry      *plan.Registry
	policy        Policy
	adminWhatsApp string
	plansFile     string
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

func NewPlanService(registry *plan.Registry, policy Policy, adminWhatsApp, plansFile string, m *metrics.Metrics, logger *zap.Logger) *PlanService {
	if registry == nil {
		registry = plan.NewRegistry(nil)
	}
	if policy == "" {
		policy = PolicyStrict
	}
	return &PlanService{
		registry:      registry,
		policy:        policy,
		adminWhatsApp: adminWhatsApp,
		plansFile:     plansFile,
		metrics:       m,
		logger:        logger,
	}
}

// ListPlans returns the current catalog in display order.
func (s *PlanService) ListPlans() []plan.Plan {
	return s.registry.Catalog().ListPlans()
}

func (s *PlanService) GetPlan(raw string) (*plan.Plan, error) {
	key, err := plan.ParseKey(raw)
	if err != nil {
		return nil, err
	}
	p, err := s.registry.Catalog().GetPlan(key)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Resolve maps a stored plan value to its features under policy. With
// PolicyFree an unknown value degrades to free; the degradation is logged and
// counted either way.
func (s *PlanService) Resolve(raw string, policy Policy) (plan.Key, plan.Features, error) {
	catalog := s.registry.Catalog()

	key, err := plan.ParseKey(raw)
	if err == nil {
		f, ferr := catalog.FeaturesForPlan(key)
		return key, f, ferr
	}

	s.metrics.UnknownPlan(string(policy))
	if policy != PolicyFree {
		s.logger.Warn("unknown subscription plan rejected",
			zap.String("plan", raw),
			zap.String("policy", string(policy)),
		)
		return "", plan.Features{}, err
	}

	s.logger.Warn("unknown subscription plan rendered as free",
		zap.String("plan", raw),
		zap.String("policy", string(policy)),
	)
	f, ferr := catalog.FeaturesForPlan(plan.Free)
	return plan.Free, f, ferr
}

// ResolveDefault applies the configured policy. Write paths use it; public
// rendering always resolves with PolicyFree.
func (s *PlanService) ResolveDefault(raw string) (plan.Key, plan.Features, error) {
	return s.Resolve(raw, s.policy)
}

// FeaturedKeys lists the plans whose features include Featured.
func (s *PlanService) FeaturedKeys() []plan.Key {
	var keys []plan.Key
	for _, p := range s.registry.Catalog().ListPlans() {
		if p.Features.Featured {
			keys = append(keys, p.Key)
		}
	}
	return keys
}

// Reload re-reads the plans file and swaps the catalog.
func (s *PlanService) Reload() ([]plan.Plan, error) {
	if s.plansFile == "" {
		return nil, fmt.Errorf("no plans file configured: %w", xerrors.ErrBadRequest)
	}

	next, err := plan.LoadFile(s.plansFile)
	if err != nil {
		s.logger.Error("failed to load plans file", zap.String("path", s.plansFile), zap.Error(err))
		return nil, xerrors.Classify(xerrors.ErrInvalidInput, err)
	}
	if err := s.registry.Reload(next); err != nil {
		s.logger.Error("plan catalog rejected", zap.Error(err))
		return nil, xerrors.Classify(xerrors.ErrInvalidInput, err)
	}

	s.logger.Info("plan catalog reloaded", zap.String("path", s.plansFile))
	return next.ListPlans(), nil
}

// UpgradeLink builds the manual upgrade request for a venue currently on
// currentRaw. The target must rank strictly above the current plan; an
// unknown current plan counts as free.
func (s *PlanService) UpgradeLink(venueName, venueSlug, currentRaw, targetRaw string) (*UpgradeLink, error) {
	if s.adminWhatsApp == "" {
		return nil, fmt.Errorf("upgrade contact is not configured: %w", xerrors.ErrInternal)
	}

	current, _, err := s.Resolve(currentRaw, PolicyFree)
	if err != nil {
		return nil, err
	}

	target, err := plan.ParseKey(targetRaw)
	if err != nil {
		return nil, xerrors.Classify(xerrors.ErrInvalidInput, err)
	}
	if target.Rank() <= current.Rank() {
		return nil, fmt.Errorf("plan %s is not an upgrade from %s: %w", target, current, xerrors.ErrInvalidInput)
	}

	p, err := s.registry.Catalog().GetPlan(target)
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Hola, quiero cambiar %s (%s) al plan %s de $%d al mes.", venueName, venueSlug, p.Name, p.Price)
	link := fmt.Sprintf("https://wa.me/%s?text=%s",
		digitsOnly(s.adminWhatsApp),
		strings.ReplaceAll(url.QueryEscape(msg), "+", "%20"),
	)

	return &UpgradeLink{
		CurrentPlan: current,
		TargetPlan:  target,
		Price:       p.Price,
		URL:         link,
	}, nil
}

// IsUnknownPlan reports whether err carries a plan outside the catalog.
func IsUnknownPlan(err error) bool {
	return errors.Is(err, plan.ErrUnknownPlan)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

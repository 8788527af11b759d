// internal/service/venue/venue_service.go
package venue

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"directory-service/internal/domain/auth"
	"directory-service/internal/domain/coupon"
	"directory-service/internal/domain/plan"
	"directory-service/internal/domain/product"
	"directory-service/internal/domain/schedule"
	"directory-service/internal/domain/venue"
	"directory-service/internal/metrics"
	xerrors "directory-service/internal/pkg/errors"
	planservice "directory-service/internal/service/plan"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type VenueRepository interface {
	Create(ctx context.Context, v *venue.Venue) error
	Update(ctx context.Context, v *venue.Venue) error
	UpdatePlan(ctx context.Context, id uuid.UUID, key plan.Key) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*venue.Venue, error)
	GetBySlug(ctx context.Context, slug string) (*venue.Venue, error)
	List(ctx context.Context, filters *venue.VenueListFilters, limit, offset int) ([]venue.Venue, int64, error)
	ListByPlans(ctx context.Context, keys []plan.Key, limit int) ([]venue.Venue, error)
	ListAll(ctx context.Context, fn func(v *venue.Venue) error) error
}

type ProductLister interface {
	ListByVenue(ctx context.Context, venueID uuid.UUID, limit int) ([]product.Product, error)
}

type CouponLister interface {
	ListActive(ctx context.Context, venueID uuid.UUID, now time.Time) ([]coupon.Coupon, error)
}

type VenueCache interface {
	GetVenue(ctx context.Context, slug string) (*venue.Venue, error)
	SetVenue(ctx context.Context, v *venue.Venue) error
	InvalidateVenue(ctx context.Context, slugs ...string) error
}

// InvalidScheduleError lists every malformed time in a write request.
type InvalidScheduleError struct {
	Entries []schedule.MalformedEntry
}

func (e *InvalidScheduleError) Error() string {
	if len(e.Entries) == 1 {
		return e.Entries[0].Error()
	}
	return fmt.Sprintf("%d malformed schedule entries, first: %s", len(e.Entries), e.Entries[0].Error())
}

func (e *InvalidScheduleError) Unwrap() error {
	return xerrors.ErrInvalidInput
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type VenueService struct {
	repo          VenueRepository
	products      ProductLister
	coupons       CouponLister
	cache         VenueCache
	plans         *planservice.PlanService
	loc           *time.Location
	defaultLocale string
	now           func() time.Time
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

type Options struct {
	Location      *time.Location
	DefaultLocale string
	Now           func() time.Time
	Metrics       *metrics.Metrics
}

// NewVenueService wires the venue use cases. cache may be nil.
func NewVenueService(repo VenueRepository, products ProductLister, coupons CouponLister, cache VenueCache, plans *planservice.PlanService, opts Options, logger *zap.Logger) *VenueService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.DefaultLocale == "" {
		opts.DefaultLocale = "es"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &VenueService{
		repo:          repo,
		products:      products,
		coupons:       coupons,
		cache:         cache,
		plans:         plans,
		loc:           opts.Location,
		defaultLocale: opts.DefaultLocale,
		now:           opts.Now,
		metrics:       opts.Metrics,
		logger:        logger,
	}
}

// localNow is the venue wall-clock time every open/closed check uses.
func (s *VenueService) localNow() time.Time {
	return s.now().In(s.loc)
}

func (s *VenueService) locale(preferred string) string {
	if preferred == "" {
		return s.defaultLocale
	}
	return preferred
}

// ========== Public reads ==========

// List returns active venues, premium first. With OpenNow set the whole
// match set is evaluated before paging.
func (s *VenueService) List(ctx context.Context, filters *venue.VenueListFilters) (*venue.VenueListResponse, error) {
	page, pageSize := filters.Page, filters.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	locale := s.locale(filters.Locale)
	now := s.localNow()

	var venues []venue.Venue
	var total int64
	var err error
	if filters.OpenNow {
		venues, _, err = s.repo.List(ctx, filters, 0, 0)
	} else {
		venues, total, err = s.repo.List(ctx, filters, pageSize, (page-1)*pageSize)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}

	cards := make([]venue.Card, 0, len(venues))
	for i := range venues {
		v := &venues[i]
		key, f := s.renderFeatures(v)
		open, closeT := v.FallbackHours()
		isOpen := schedule.IsOpenAt(v.Schedule, open, closeT, now)
		if filters.OpenNow && !isOpen {
			continue
		}
		cards = append(cards, Card(v, key, f, isOpen, locale))
	}

	// Keep premium first even if the store ordered by a different rank.
	sort.SliceStable(cards, func(i, j int) bool { return cards[i].PlanRank > cards[j].PlanRank })

	if filters.OpenNow {
		total = int64(len(cards))
		start := (page - 1) * pageSize
		if start > len(cards) {
			start = len(cards)
		}
		end := start + pageSize
		if end > len(cards) {
			end = len(cards)
		}
		cards = cards[start:end]
	}

	return &venue.VenueListResponse{
		Venues:     cards,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// GetBySlug returns the plan-gated detail view with open status computed in
// the venue timezone.
func (s *VenueService) GetBySlug(ctx context.Context, slug, locale string) (*venue.Listing, error) {
	v, err := s.loadBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if v.Status != venue.StatusActive {
		return nil, fmt.Errorf("venue %s: %w", slug, xerrors.ErrNotFound)
	}

	key, f := s.renderFeatures(v)
	now := s.localNow()

	products := []product.Product{}
	if f.ProductsLimit > 0 {
		products, err = s.products.ListByVenue(ctx, v.ID, f.ProductsLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to load products: %w", err)
		}
	}

	var coupons []coupon.Coupon
	if f.Coupons {
		coupons, err = s.coupons.ListActive(ctx, v.ID, now)
		if err != nil {
			return nil, fmt.Errorf("failed to load coupons: %w", err)
		}
	}

	open, closeT := v.FallbackHours()
	hours := schedule.Status(v.Schedule, open, closeT, now)

	return Present(v, key, f, products, coupons, hours, s.locale(locale)), nil
}

// Featured returns active venues on a plan that includes Featured.
func (s *VenueService) Featured(ctx context.Context, limit int, locale string) ([]venue.Card, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	keys := s.plans.FeaturedKeys()
	if len(keys) == 0 {
		return []venue.Card{}, nil
	}

	venues, err := s.repo.ListByPlans(ctx, keys, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured venues: %w", err)
	}

	now := s.localNow()
	locale = s.locale(locale)
	cards := make([]venue.Card, 0, len(venues))
	for i := range venues {
		v := &venues[i]
		key, f := s.renderFeatures(v)
		open, closeT := v.FallbackHours()
		cards = append(cards, Card(v, key, f, schedule.IsOpenAt(v.Schedule, open, closeT, now), locale))
	}
	return cards, nil
}

// Resolve returns the raw venue and its rendered plan for collaborators that
// gate their own data (coupons, products).
func (s *VenueService) Resolve(ctx context.Context, slug string) (*venue.Venue, plan.Features, error) {
	v, err := s.loadBySlug(ctx, slug)
	if err != nil {
		return nil, plan.Features{}, err
	}
	if v.Status != venue.StatusActive {
		return nil, plan.Features{}, fmt.Errorf("venue %s: %w", slug, xerrors.ErrNotFound)
	}
	_, f := s.renderFeatures(v)
	return v, f, nil
}

// UpgradeLink builds the WhatsApp upgrade request for the venue.
func (s *VenueService) UpgradeLink(ctx context.Context, slug, target string) (*planservice.UpgradeLink, error) {
	v, err := s.loadBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.plans.UpgradeLink(v.Name.Resolve(s.defaultLocale), v.Slug, v.SubscriptionPlan, target)
}

// ========== Writes ==========

func (s *VenueService) Create(ctx context.Context, req *venue.CreateVenueRequest) (*venue.Venue, error) {
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if !slugPattern.MatchString(slug) {
		return nil, fmt.Errorf("slug %q must be lower-case words joined by dashes: %w", req.Slug, xerrors.ErrInvalidInput)
	}
	if req.Name.IsZero() {
		return nil, fmt.Errorf("name is required: %w", xerrors.ErrInvalidInput)
	}

	key := plan.Free
	if req.SubscriptionPlan != "" {
		parsed, err := plan.ParseKey(req.SubscriptionPlan)
		if err != nil {
			return nil, xerrors.Classify(xerrors.ErrInvalidInput, err)
		}
		key = parsed
	}

	if err := validateHours(req.Schedule, req.OpenTime, req.CloseTime); err != nil {
		return nil, err
	}

	v := &venue.Venue{
		ID:               uuid.New(),
		Slug:             slug,
		Name:             req.Name,
		Description:      req.Description,
		Category:         req.Category,
		RegionID:         req.RegionID,
		CityID:           req.CityID,
		Address:          req.Address,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		Phone:            req.Phone,
		WhatsApp:         req.WhatsApp,
		Website:          req.Website,
		Instagram:        req.Instagram,
		Facebook:         req.Facebook,
		SubscriptionPlan: string(key),
		Schedule:         req.Schedule,
		OpenTime:         blankToNil(req.OpenTime),
		CloseTime:        blankToNil(req.CloseTime),
		Gallery:          nonNil(req.Gallery),
		Tags:             normalizeTags(req.Tags),
		OwnerID:          blankToNil(req.OwnerID),
		Status:           venue.StatusActive,
	}

	if err := s.repo.Create(ctx, v); err != nil {
		if errors.Is(err, xerrors.ErrDuplicateEntry) {
			return nil, fmt.Errorf("slug %s is taken: %w", slug, xerrors.ErrConflict)
		}
		s.logger.Error("failed to create venue", zap.String("slug", slug), zap.Error(err))
		return nil, fmt.Errorf("failed to create venue: %w", err)
	}

	s.logger.Info("venue created", zap.String("venue_id", v.ID.String()), zap.String("slug", v.Slug))
	return v, nil
}

// Update applies req to the venue. Admins may edit any venue, owners only
// their own.
func (s *VenueService) Update(ctx context.Context, id uuid.UUID, actor auth.Actor, req *venue.UpdateVenueRequest) (*venue.Venue, error) {
	v, err := s.Manage(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if req.Name.IsZero() {
			return nil, fmt.Errorf("name cannot be empty: %w", xerrors.ErrInvalidInput)
		}
		v.Name = *req.Name
	}
	if req.Description != nil {
		v.Description = *req.Description
	}
	assign(&v.Category, req.Category)
	assign(&v.Address, req.Address)
	assign(&v.Latitude, req.Latitude)
	assign(&v.Longitude, req.Longitude)
	assign(&v.Phone, req.Phone)
	assign(&v.WhatsApp, req.WhatsApp)
	assign(&v.Website, req.Website)
	assign(&v.Instagram, req.Instagram)
	assign(&v.Facebook, req.Facebook)

	if req.Schedule != nil {
		v.Schedule = req.Schedule
	}
	if req.OpenTime != nil {
		v.OpenTime = blankToNil(req.OpenTime)
	}
	if req.CloseTime != nil {
		v.CloseTime = blankToNil(req.CloseTime)
	}
	if req.Gallery != nil {
		v.Gallery = req.Gallery
	}
	if req.Tags != nil {
		v.Tags = normalizeTags(req.Tags)
	}
	if req.Status != nil {
		if !actor.IsAdmin() {
			return nil, fmt.Errorf("only admins change visibility: %w", xerrors.ErrForbidden)
		}
		v.Status = *req.Status
	}

	if err := validateHours(v.Schedule, v.OpenTime, v.CloseTime); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, v); err != nil {
		s.logger.Error("failed to update venue", zap.String("venue_id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to update venue: %w", err)
	}
	s.invalidate(ctx, v.Slug)

	s.logger.Info("venue updated", zap.String("venue_id", id.String()), zap.String("by", actor.Subject))
	return v, nil
}

func (s *VenueService) Delete(ctx context.Context, id uuid.UUID) error {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete venue: %w", err)
	}
	s.invalidate(ctx, v.Slug)

	s.logger.Info("venue deleted", zap.String("venue_id", id.String()), zap.String("slug", v.Slug))
	return nil
}

// ChangePlan sets the venue plan. raw must be a catalog key.
func (s *VenueService) ChangePlan(ctx context.Context, id uuid.UUID, raw string) (*venue.Venue, error) {
	key, err := plan.ParseKey(raw)
	if err != nil {
		return nil, xerrors.Classify(xerrors.ErrInvalidInput, err)
	}

	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := v.SubscriptionPlan

	if err := s.repo.UpdatePlan(ctx, id, key); err != nil {
		return nil, fmt.Errorf("failed to change plan: %w", err)
	}
	v.SubscriptionPlan = string(key)
	s.invalidate(ctx, v.Slug)

	s.logger.Info("venue plan changed",
		zap.String("venue_id", id.String()),
		zap.String("from", previous),
		zap.String("to", string(key)),
	)
	return v, nil
}

// Manage loads the venue if actor may edit it.
func (s *VenueService) Manage(ctx context.Context, id uuid.UUID, actor auth.Actor) (*venue.Venue, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !v.IsOwnedBy(actor.Subject) {
		return nil, fmt.Errorf("venue %s is not managed by %s: %w", id, actor.Subject, xerrors.ErrForbidden)
	}
	return v, nil
}

// Invalidate drops the cached copy of the venue with id.
func (s *VenueService) Invalidate(ctx context.Context, id uuid.UUID) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Warn("cache invalidation skipped", zap.String("venue_id", id.String()), zap.Error(err))
		return
	}
	s.invalidate(ctx, v.Slug)
}

// ========== Admin ==========

// ScheduleReport lists venues whose stored hours or plan would be silently
// ignored at render time.
func (s *VenueService) ScheduleReport(ctx context.Context) ([]venue.ScheduleIssue, error) {
	issues := []venue.ScheduleIssue{}
	err := s.repo.ListAll(ctx, func(v *venue.Venue) error {
		open, closeT := v.FallbackHours()
		issue := venue.ScheduleIssue{
			VenueID: v.ID,
			Slug:    v.Slug,
			Entries: schedule.Validate(v.Schedule, open, closeT),
		}
		if _, err := plan.ParseKey(v.SubscriptionPlan); err != nil {
			issue.UnknownPlan = v.SubscriptionPlan
		}
		if len(issue.Entries) > 0 || issue.UnknownPlan != "" {
			issues = append(issues, issue)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build schedule report: %w", err)
	}

	s.logger.Info("schedule report built", zap.Int("issues", len(issues)))
	return issues, nil
}

// ========== Helper Methods ==========

func (s *VenueService) loadBySlug(ctx context.Context, slug string) (*venue.Venue, error) {
	if s.cache != nil {
		v, err := s.cache.GetVenue(ctx, slug)
		if err != nil {
			s.logger.Warn("venue cache read failed", zap.String("slug", slug), zap.Error(err))
		}
		if v != nil {
			s.metrics.CacheLookup(true)
			return v, nil
		}
		s.metrics.CacheLookup(false)
	}

	v, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetVenue(ctx, v); err != nil {
			s.logger.Warn("venue cache write failed", zap.String("slug", slug), zap.Error(err))
		}
	}
	return v, nil
}

func (s *VenueService) invalidate(ctx context.Context, slug string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateVenue(ctx, slug); err != nil {
		s.logger.Warn("venue cache invalidation failed", zap.String("slug", slug), zap.Error(err))
	}
}

// renderFeatures resolves the venue plan for a public page. Public pages
// always degrade unknown plans to free; the configured policy governs writes.
func (s *VenueService) renderFeatures(v *venue.Venue) (plan.Key, plan.Features) {
	key, f, err := s.plans.Resolve(v.SubscriptionPlan, planservice.PolicyFree)
	if err != nil {
		s.logger.Error("plan catalog lookup failed",
			zap.String("venue_id", v.ID.String()),
			zap.Error(err),
		)
		return plan.Free, plan.Features{}
	}
	return key, f
}

func validateHours(ws schedule.WeeklySchedule, openTime, closeTime *string) error {
	var open, closeT string
	if openTime != nil {
		open = *openTime
	}
	if closeTime != nil {
		closeT = *closeTime
	}
	if entries := schedule.Validate(ws, open, closeT); len(entries) > 0 {
		return &InvalidScheduleError{Entries: entries}
	}
	return nil
}

func assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

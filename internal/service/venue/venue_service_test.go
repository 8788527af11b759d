package venue

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"directory-service/internal/domain/auth"
	"directory-service/internal/domain/coupon"
	"directory-service/internal/domain/i18n"
	"directory-service/internal/domain/plan"
	"directory-service/internal/domain/product"
	"directory-service/internal/domain/schedule"
	"directory-service/internal/domain/venue"
	xerrors "directory-service/internal/pkg/errors"
	planservice "directory-service/internal/service/plan"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ========== Fakes ==========

type fakeVenueRepo struct {
	venues map[uuid.UUID]*venue.Venue
}

func newFakeVenueRepo(vs ...*venue.Venue) *fakeVenueRepo {
	r := &fakeVenueRepo{venues: map[uuid.UUID]*venue.Venue{}}
	for _, v := range vs {
		r.venues[v.ID] = v
	}
	return r
}

func (r *fakeVenueRepo) Create(_ context.Context, v *venue.Venue) error {
	for _, existing := range r.venues {
		if existing.Slug == v.Slug {
			return xerrors.ErrDuplicateEntry
		}
	}
	cp := *v
	r.venues[v.ID] = &cp
	return nil
}

func (r *fakeVenueRepo) Update(_ context.Context, v *venue.Venue) error {
	if _, ok := r.venues[v.ID]; !ok {
		return xerrors.ErrNotFound
	}
	cp := *v
	r.venues[v.ID] = &cp
	return nil
}

func (r *fakeVenueRepo) UpdatePlan(_ context.Context, id uuid.UUID, key plan.Key) error {
	v, ok := r.venues[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	v.SubscriptionPlan = string(key)
	return nil
}

func (r *fakeVenueRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.venues[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(r.venues, id)
	return nil
}

func (r *fakeVenueRepo) GetByID(_ context.Context, id uuid.UUID) (*venue.Venue, error) {
	v, ok := r.venues[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVenueRepo) GetBySlug(_ context.Context, slug string) (*venue.Venue, error) {
	for _, v := range r.venues {
		if v.Slug == slug {
			cp := *v
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *fakeVenueRepo) sorted() []venue.Venue {
	out := make([]venue.Venue, 0, len(r.venues))
	for _, v := range r.venues {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

func (r *fakeVenueRepo) List(_ context.Context, filters *venue.VenueListFilters, limit, offset int) ([]venue.Venue, int64, error) {
	var out []venue.Venue
	for _, v := range r.sorted() {
		if v.Status != venue.StatusActive {
			continue
		}
		if filters.Category != "" && v.Category != filters.Category {
			continue
		}
		out = append(out, v)
	}
	total := int64(len(out))
	if limit > 0 {
		if offset > len(out) {
			offset = len(out)
		}
		end := offset + limit
		if end > len(out) {
			end = len(out)
		}
		out = out[offset:end]
	}
	return out, total, nil
}

func (r *fakeVenueRepo) ListByPlans(_ context.Context, keys []plan.Key, limit int) ([]venue.Venue, error) {
	var out []venue.Venue
	for _, v := range r.sorted() {
		for _, k := range keys {
			if v.Status == venue.StatusActive && v.SubscriptionPlan == string(k) {
				out = append(out, v)
			}
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeVenueRepo) ListAll(_ context.Context, fn func(v *venue.Venue) error) error {
	for _, v := range r.sorted() {
		if err := fn(&v); err != nil {
			return err
		}
	}
	return nil
}

type fakeProducts map[uuid.UUID][]product.Product

func (f fakeProducts) ListByVenue(_ context.Context, venueID uuid.UUID, limit int) ([]product.Product, error) {
	items := f[venueID]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

type fakeCoupons map[uuid.UUID][]coupon.Coupon

func (f fakeCoupons) ListActive(_ context.Context, venueID uuid.UUID, now time.Time) ([]coupon.Coupon, error) {
	var out []coupon.Coupon
	for _, c := range f[venueID] {
		if c.IsActiveAt(now) {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeCache struct {
	items       map[string]*venue.Venue
	hits        int
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[string]*venue.Venue{}}
}

func (c *fakeCache) GetVenue(_ context.Context, slug string) (*venue.Venue, error) {
	v, ok := c.items[slug]
	if !ok {
		return nil, nil
	}
	c.hits++
	cp := *v
	return &cp, nil
}

func (c *fakeCache) SetVenue(_ context.Context, v *venue.Venue) error {
	cp := *v
	c.items[v.Slug] = &cp
	return nil
}

func (c *fakeCache) InvalidateVenue(_ context.Context, slugs ...string) error {
	for _, s := range slugs {
		delete(c.items, s)
		c.invalidated = append(c.invalidated, s)
	}
	return nil
}

// ========== Fixtures ==========

// cst is UTC-6 without DST, like the default venue timezone.
var cst = time.FixedZone("CST", -6*3600)

// tuesdayEvening is 19:30 on Tuesday 2024-01-02 in cst, expressed in UTC.
var tuesdayEvening = time.Date(2024, 1, 3, 1, 30, 0, 0, time.UTC)

type fixture struct {
	svc      *VenueService
	repo     *fakeVenueRepo
	cache    *fakeCache
	products fakeProducts
	coupons  fakeCoupons
}

func newFixture(t *testing.T, now time.Time, vs ...*venue.Venue) *fixture {
	t.Helper()
	f := &fixture{
		repo:     newFakeVenueRepo(vs...),
		cache:    newFakeCache(),
		products: fakeProducts{},
		coupons:  fakeCoupons{},
	}
	plans := planservice.NewPlanService(plan.NewRegistry(nil), planservice.PolicyStrict, "5215512345678", "", nil, zap.NewNop())
	f.svc = NewVenueService(f.repo, f.products, f.coupons, f.cache, plans, Options{
		Location:      cst,
		DefaultLocale: "es",
		Now:           func() time.Time { return now },
	}, zap.NewNop())
	return f
}

func str(s string) *string { return &s }

func splitShift() schedule.WeeklySchedule {
	return schedule.WeeklySchedule{
		schedule.Monday: {IsOpen: true, Ranges: []schedule.TimeRange{{Start: "09:00", End: "17:00"}}},
		schedule.Tuesday: {IsOpen: true, Ranges: []schedule.TimeRange{
			{Start: "09:00", End: "14:00"},
			{Start: "18:00", End: "22:00"},
		}},
		schedule.Sunday: {IsOpen: false},
	}
}

func newVenue(slug, planKey string) *venue.Venue {
	return &venue.Venue{
		ID:               uuid.New(),
		Slug:             slug,
		Name:             i18n.Localized(map[string]string{"es": "Taquería " + slug, "en": "Taco shop " + slug}),
		Category:         "restaurantes",
		CityID:           1,
		WhatsApp:         "5215500000000",
		Phone:            "5550000000",
		Website:          "https://" + slug + ".example",
		Instagram:        "@" + slug,
		SubscriptionPlan: planKey,
		Schedule:         splitShift(),
		Gallery:          []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg", "f.jpg"},
		Status:           venue.StatusActive,
	}
}

func productsFor(venueID uuid.UUID, n int) []product.Product {
	out := make([]product.Product, n)
	for i := range out {
		out[i] = product.Product{ID: uuid.New(), VenueID: venueID, Name: i18n.Plain(fmt.Sprintf("item %d", i)), Position: i}
	}
	return out
}

// ========== Tests ==========

func TestGetBySlugPremiumTuesdayEvening(t *testing.T) {
	v := newVenue("luna", "premium")
	f := newFixture(t, tuesdayEvening, v)
	f.products[v.ID] = productsFor(v.ID, 12)
	f.coupons[v.ID] = []coupon.Coupon{{ID: uuid.New(), VenueID: v.ID, Code: "LUNA10", Active: true, ValidFrom: tuesdayEvening.Add(-time.Hour)}}

	l, err := f.svc.GetBySlug(context.Background(), "luna", "en")
	require.NoError(t, err)

	assert.True(t, l.OpenNow)
	assert.Equal(t, schedule.Tuesday, l.Hours.Today)
	assert.Len(t, l.Hours.Ranges, 2)
	assert.Equal(t, plan.Premium, l.Plan)
	assert.True(t, l.Verified)
	assert.True(t, l.Featured)
	assert.Equal(t, "5215500000000", l.WhatsApp)
	assert.Equal(t, "https://luna.example", l.Website)
	assert.Len(t, l.Products, 12)
	assert.Len(t, l.Gallery, 6)
	assert.Len(t, l.Coupons, 1)
	assert.Equal(t, "Taco shop luna", l.Name)
}

func TestGetBySlugFreePlanIsGated(t *testing.T) {
	v := newVenue("sol", "free")
	f := newFixture(t, tuesdayEvening, v)
	f.products[v.ID] = productsFor(v.ID, 3)
	f.coupons[v.ID] = []coupon.Coupon{{ID: uuid.New(), VenueID: v.ID, Active: true}}

	l, err := f.svc.GetBySlug(context.Background(), "sol", "")
	require.NoError(t, err)

	assert.Empty(t, l.WhatsApp)
	assert.Empty(t, l.Phone)
	assert.Empty(t, l.Website)
	assert.Empty(t, l.Instagram)
	assert.Empty(t, l.Products)
	assert.Empty(t, l.Coupons)
	assert.Equal(t, []string{"a.jpg"}, l.Gallery)
	assert.False(t, l.Verified)
	assert.Equal(t, "Taquería sol", l.Name, "default locale is es")
}

func TestGetBySlugBasicTruncatesProducts(t *testing.T) {
	v := newVenue("mar", "basic")
	f := newFixture(t, tuesdayEvening, v)
	f.products[v.ID] = productsFor(v.ID, 15)

	l, err := f.svc.GetBySlug(context.Background(), "mar", "es")
	require.NoError(t, err)
	assert.Len(t, l.Products, 10)
	assert.Len(t, l.Gallery, 5)
	assert.Equal(t, "5215500000000", l.WhatsApp)
	assert.False(t, l.Featured)
}

func TestGetBySlugUnknownPlanRendersAsFree(t *testing.T) {
	v := newVenue("gold", "gold")
	f := newFixture(t, tuesdayEvening, v)

	l, err := f.svc.GetBySlug(context.Background(), "gold", "es")
	require.NoError(t, err)
	assert.Equal(t, plan.Free, l.Plan)
	assert.Empty(t, l.WhatsApp)
	assert.Len(t, l.Gallery, 1)
}

func TestGetBySlugClosedAndFallback(t *testing.T) {
	closed := newVenue("closed", "premium")
	legacy := newVenue("legacy", "premium")
	legacy.Schedule = nil
	legacy.OpenTime, legacy.CloseTime = str("08:00"), str("20:00")
	noHours := newVenue("nohours", "premium")
	noHours.Schedule = nil

	// Sunday 2024-01-07 12:00 CST
	sunday := time.Date(2024, 1, 7, 18, 0, 0, 0, time.UTC)
	f := newFixture(t, sunday, closed, legacy, noHours)

	l, err := f.svc.GetBySlug(context.Background(), "closed", "es")
	require.NoError(t, err)
	assert.False(t, l.OpenNow)
	assert.True(t, l.Hours.Closed)

	l, err = f.svc.GetBySlug(context.Background(), "legacy", "es")
	require.NoError(t, err)
	assert.True(t, l.OpenNow)

	l, err = f.svc.GetBySlug(context.Background(), "nohours", "es")
	require.NoError(t, err)
	assert.False(t, l.OpenNow)
}

func TestGetBySlugHiddenOrMissing(t *testing.T) {
	v := newVenue("oculto", "premium")
	v.Status = venue.StatusHidden
	f := newFixture(t, tuesdayEvening, v)

	_, err := f.svc.GetBySlug(context.Background(), "oculto", "es")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)

	_, err = f.svc.GetBySlug(context.Background(), "nope", "es")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestGetBySlugUsesCache(t *testing.T) {
	v := newVenue("luna", "premium")
	f := newFixture(t, tuesdayEvening, v)

	_, err := f.svc.GetBySlug(context.Background(), "luna", "es")
	require.NoError(t, err)
	_, err = f.svc.GetBySlug(context.Background(), "luna", "es")
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.hits)
}

func TestListPremiumFirstAndOpenNow(t *testing.T) {
	a := newVenue("a-free", "free")
	b := newVenue("b-premium", "premium")
	c := newVenue("c-basic", "basic")
	c.Schedule = schedule.WeeklySchedule{schedule.Tuesday: {IsOpen: false}}
	f := newFixture(t, tuesdayEvening, a, b, c)

	res, err := f.svc.List(context.Background(), &venue.VenueListFilters{})
	require.NoError(t, err)
	require.Len(t, res.Venues, 3)
	assert.Equal(t, []string{"b-premium", "c-basic", "a-free"},
		[]string{res.Venues[0].Slug, res.Venues[1].Slug, res.Venues[2].Slug})
	assert.Equal(t, int64(3), res.Total)
	assert.Empty(t, res.Venues[2].WhatsApp, "free cards hide whatsapp")

	res, err = f.svc.List(context.Background(), &venue.VenueListFilters{OpenNow: true, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
	assert.Equal(t, 2, res.TotalPages)
	require.Len(t, res.Venues, 1)
	assert.Equal(t, "b-premium", res.Venues[0].Slug)
}

func TestFeatured(t *testing.T) {
	f := newFixture(t, tuesdayEvening, newVenue("a", "free"), newVenue("b", "premium"), newVenue("c", "basic"))

	cards, err := f.svc.Featured(context.Background(), 10, "es")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "b", cards[0].Slug)
	assert.True(t, cards[0].Featured)
}

func TestCreateValidates(t *testing.T) {
	f := newFixture(t, tuesdayEvening, newVenue("taken", "free"))
	base := func() *venue.CreateVenueRequest {
		return &venue.CreateVenueRequest{
			Slug:     "nuevo-lugar",
			Name:     i18n.Plain("Nuevo Lugar"),
			Category: "cafes",
			RegionID: 1,
			CityID:   1,
		}
	}

	req := base()
	req.Schedule = schedule.WeeklySchedule{
		schedule.Friday:   {IsOpen: true, Ranges: []schedule.TimeRange{{Start: "22:00", End: "02:00"}}},
		schedule.Saturday: {IsOpen: true, Ranges: []schedule.TimeRange{{Start: "9:00", End: "18:00"}}},
	}
	_, err := f.svc.Create(context.Background(), req)
	var invalid *InvalidScheduleError
	require.True(t, errors.As(err, &invalid))
	assert.Len(t, invalid.Entries, 2)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	req = base()
	req.OpenTime = str("09:00")
	_, err = f.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput, "open time without close time")

	req = base()
	req.Slug = "Bad Slug!"
	_, err = f.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	req = base()
	req.SubscriptionPlan = "enterprise"
	_, err = f.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, plan.ErrUnknownPlan)

	req = base()
	req.Slug = "taken"
	_, err = f.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, xerrors.ErrConflict)

	req = base()
	req.Tags = []string{" Tacos", "tacos", "", "Vegano"}
	v, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, string(plan.Free), v.SubscriptionPlan)
	assert.Equal(t, []string{"tacos", "vegano"}, v.Tags)
	assert.Equal(t, venue.StatusActive, v.Status)
}

func TestUpdateOwnership(t *testing.T) {
	v := newVenue("luna", "basic")
	v.OwnerID = str("owner-1")
	f := newFixture(t, tuesdayEvening, v)
	require.NoError(t, f.cache.SetVenue(context.Background(), v))

	owner := auth.Actor{Subject: "owner-1", Roles: []string{auth.RoleOwner}}
	stranger := auth.Actor{Subject: "owner-2", Roles: []string{auth.RoleOwner}}
	admin := auth.Actor{Subject: "root", Roles: []string{auth.RoleAdmin}}

	_, err := f.svc.Update(context.Background(), v.ID, stranger, &venue.UpdateVenueRequest{Address: str("x")})
	assert.ErrorIs(t, err, xerrors.ErrForbidden)

	hidden := venue.StatusHidden
	_, err = f.svc.Update(context.Background(), v.ID, owner, &venue.UpdateVenueRequest{Status: &hidden})
	assert.ErrorIs(t, err, xerrors.ErrForbidden)

	updated, err := f.svc.Update(context.Background(), v.ID, owner, &venue.UpdateVenueRequest{
		Address:   str("Av. Juárez 10"),
		OpenTime:  str("08:00"),
		CloseTime: str("18:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Av. Juárez 10", updated.Address)
	assert.Contains(t, f.cache.invalidated, "luna")

	_, err = f.svc.Update(context.Background(), v.ID, owner, &venue.UpdateVenueRequest{CloseTime: str("25:00")})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	_, err = f.svc.Update(context.Background(), v.ID, admin, &venue.UpdateVenueRequest{Status: &hidden})
	require.NoError(t, err)
}

func TestChangePlan(t *testing.T) {
	v := newVenue("luna", "free")
	f := newFixture(t, tuesdayEvening, v)

	_, err := f.svc.ChangePlan(context.Background(), v.ID, "enterprise")
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	assert.ErrorIs(t, err, plan.ErrUnknownPlan)

	updated, err := f.svc.ChangePlan(context.Background(), v.ID, "Premium")
	require.NoError(t, err)
	assert.Equal(t, "premium", updated.SubscriptionPlan)

	_, err = f.svc.ChangePlan(context.Background(), uuid.New(), "basic")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestScheduleReport(t *testing.T) {
	good := newVenue("good", "basic")
	bad := newVenue("bad", "basic")
	bad.Schedule[schedule.Wednesday] = schedule.DaySchedule{IsOpen: false, Ranges: []schedule.TimeRange{{Start: "9am", End: "17:00"}}}
	legacyPlan := newVenue("legacy", "gold")

	f := newFixture(t, tuesdayEvening, good, bad, legacyPlan)
	issues, err := f.svc.ScheduleReport(context.Background())
	require.NoError(t, err)
	require.Len(t, issues, 2)

	bySlug := map[string]venue.ScheduleIssue{}
	for _, is := range issues {
		bySlug[is.Slug] = is
	}
	require.Len(t, bySlug["bad"].Entries, 1)
	assert.Equal(t, schedule.Wednesday, bySlug["bad"].Entries[0].Day)
	assert.Equal(t, "gold", bySlug["legacy"].UnknownPlan)
}

func TestUpgradeLink(t *testing.T) {
	v := newVenue("luna", "basic")
	f := newFixture(t, tuesdayEvening, v)

	link, err := f.svc.UpgradeLink(context.Background(), "luna", "premium")
	require.NoError(t, err)
	assert.Equal(t, plan.Premium, link.TargetPlan)
	assert.Contains(t, link.URL, "wa.me/5215512345678")

	_, err = f.svc.UpgradeLink(context.Background(), "luna", "free")
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestDeleteInvalidatesCache(t *testing.T) {
	v := newVenue("luna", "basic")
	f := newFixture(t, tuesdayEvening, v)

	require.NoError(t, f.svc.Delete(context.Background(), v.ID))
	assert.Contains(t, f.cache.invalidated, "luna")
	assert.ErrorIs(t, f.svc.Delete(context.Background(), v.ID), xerrors.ErrNotFound)
}

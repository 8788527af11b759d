// internal/service/venue/presenter.go
package venue

import (
	"directory-service/internal/domain/coupon"
	"directory-service/internal/domain/plan"
	"directory-service/internal/domain/product"
	"directory-service/internal/domain/schedule"
	"directory-service/internal/domain/venue"
)

// Present builds the public listing for v. Contact channels, products,
// coupons and gallery images are gated by f.
func Present(v *venue.Venue, key plan.Key, f plan.Features, products []product.Product, coupons []coupon.Coupon, hours schedule.OpenStatus, locale string) *venue.Listing {
	l := &venue.Listing{
		ID:          v.ID,
		Slug:        v.Slug,
		Name:        v.Name.Resolve(locale),
		Description: v.Description.Resolve(locale),
		Category:    v.Category,
		RegionID:    v.RegionID,
		CityID:      v.CityID,
		Address:     v.Address,
		Latitude:    v.Latitude,
		Longitude:   v.Longitude,
		Plan:        key,
		Features:    f,
		Verified:    f.Verified,
		Featured:    f.Featured,
		Gallery:     truncate(v.Gallery, f.GalleryLimit),
		Tags:        v.Tags,
		Products:    truncate(products, f.ProductsLimit),
		Coupons:     []coupon.Coupon{},
		Hours:       hours,
		OpenNow:     hours.Open,
	}
	if l.Tags == nil {
		l.Tags = []string{}
	}

	if f.WhatsApp {
		l.WhatsApp = v.WhatsApp
		l.Phone = v.Phone
	}
	if f.Socials {
		l.Website = v.Website
		l.Instagram = v.Instagram
		l.Facebook = v.Facebook
	}
	if f.Coupons && coupons != nil {
		l.Coupons = coupons
	}
	return l
}

// Card builds the compact listing-page entry for v.
func Card(v *venue.Venue, key plan.Key, f plan.Features, openNow bool, locale string) venue.Card {
	c := venue.Card{
		ID:       v.ID,
		Slug:     v.Slug,
		Name:     v.Name.Resolve(locale),
		Category: v.Category,
		CityID:   v.CityID,
		Address:  v.Address,
		Verified: f.Verified,
		Featured: f.Featured,
		OpenNow:  openNow,
		PlanRank: key.Rank(),
	}
	if f.GalleryLimit > 0 && len(v.Gallery) > 0 {
		c.Cover = v.Gallery[0]
	}
	if f.WhatsApp {
		c.WhatsApp = v.WhatsApp
	}
	return c
}

func truncate[T any](items []T, limit int) []T {
	if limit <= 0 || len(items) == 0 {
		return []T{}
	}
	if len(items) > limit {
		items = items[:limit]
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}

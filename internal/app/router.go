// internal/app/router.go
package app

import (
	"context"
	"net/http"
	"time"

	"directory-service/internal/domain/auth"
	analyticsHandler "directory-service/internal/handlers/analytics"
	claimHandler "directory-service/internal/handlers/claim"
	couponHandler "directory-service/internal/handlers/coupon"
	jobHandler "directory-service/internal/handlers/job"
	planHandler "directory-service/internal/handlers/plan"
	productHandler "directory-service/internal/handlers/product"
	regionHandler "directory-service/internal/handlers/region"
	venueHandler "directory-service/internal/handlers/venue"
	"directory-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	VenueHandler     *venueHandler.VenueHandler
	PlanHandler      *planHandler.PlanHandler
	RegionHandler    *regionHandler.RegionHandler
	CouponHandler    *couponHandler.CouponHandler
	ProductHandler   *productHandler.ProductHandler
	JobHandler       *jobHandler.JobHandler
	ClaimHandler     *claimHandler.ClaimHandler
	AnalyticsHandler *analyticsHandler.AnalyticsHandler
	AuthMiddleware   *middleware.AuthMiddleware
	RateLimiter      *middleware.RateLimiter

	// Ping backs /health; nil reports ok.
	Ping func(ctx context.Context) error

	// /metrics is only mounted when MetricsUser is set.
	Gatherer    prometheus.Gatherer
	MetricsUser string
	MetricsPass string
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	// ==================== Metrics ====================
	if h.MetricsUser != "" && h.Gatherer != nil {
		r.GET("/metrics",
			gin.BasicAuthForRealm(gin.Accounts{h.MetricsUser: h.MetricsPass}, "Metrics"),
			gin.WrapH(promhttp.HandlerFor(h.Gatherer, promhttp.HandlerOpts{})),
		)
	}

	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		if h.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := h.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Plans & Regions ====================
	api.GET("/plans", h.PlanHandler.ListPlans)
	api.GET("/plans/:key", h.PlanHandler.GetPlan)
	api.GET("/regions", h.RegionHandler.ListRegions)

	// ==================== Public Venues ====================
	venues := api.Group("/venues")
	{
		venues.GET("", h.VenueHandler.ListVenues)
		venues.GET("/featured", h.VenueHandler.GetFeatured)
		venues.GET("/:slug", h.VenueHandler.GetVenue)
		venues.GET("/:slug/upgrade-link", h.VenueHandler.GetUpgradeLink) // ?plan=premium
		venues.GET("/:slug/coupons", h.CouponHandler.ListVenueCoupons)
		venues.GET("/:slug/products", h.ProductHandler.ListVenueProducts)

		limited := venues.Group("")
		limited.Use(h.RateLimiter.Middleware())
		{
			limited.POST("/:slug/events", h.AnalyticsHandler.RecordEvent)
			limited.POST("/:slug/claims", h.ClaimHandler.SubmitClaim)
		}
	}

	// ==================== Jobs ====================
	api.GET("/jobs", h.JobHandler.ListJobs)
	jobs := api.Group("/jobs")
	jobs.Use(h.AuthMiddleware.WithRole(auth.RoleRecruiter, auth.RoleAdmin)...)
	{
		jobs.POST("", h.JobHandler.CreateJob)
		jobs.DELETE("/:id", h.JobHandler.DeleteJob)
	}

	// ==================== Owner Back-office ====================
	manage := api.Group("/manage")
	manage.Use(h.AuthMiddleware.WithRole(auth.RoleOwner, auth.RoleAdmin)...)
	{
		manage.PUT("/venues/:id", h.VenueHandler.UpdateVenue)
		manage.GET("/venues/:id/stats", h.AnalyticsHandler.GetStats) // ?days=30

		manage.POST("/venues/:id/products", h.ProductHandler.CreateProduct)
		manage.DELETE("/products/:id", h.ProductHandler.DeleteProduct)

		manage.POST("/venues/:id/coupons", h.CouponHandler.CreateCoupon)
		manage.PUT("/coupons/:id", h.CouponHandler.UpdateCoupon)
		manage.DELETE("/coupons/:id", h.CouponHandler.DeleteCoupon)
	}

	// ==================== Admin ====================
	admin := api.Group("/admin")
	admin.Use(h.AuthMiddleware.AdminOnly()...)
	{
		admin.POST("/venues", h.VenueHandler.CreateVenue)
		admin.DELETE("/venues/:id", h.VenueHandler.DeleteVenue)
		admin.PUT("/venues/:id/plan", h.VenueHandler.ChangePlan)
		admin.GET("/schedule-report", h.VenueHandler.ScheduleReport)

		admin.GET("/claims", h.ClaimHandler.ListClaims) // ?status=pending
		admin.POST("/claims/:id/approve", h.ClaimHandler.ApproveClaim)
		admin.POST("/claims/:id/reject", h.ClaimHandler.RejectClaim)

		admin.POST("/plans/reload", h.PlanHandler.ReloadPlans)
	}
}

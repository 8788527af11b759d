// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"directory-service/internal/cache"
	"directory-service/internal/config"
	"directory-service/internal/db"
	"directory-service/internal/domain/plan"
	analyticsHandler "directory-service/internal/handlers/analytics"
	claimHandler "directory-service/internal/handlers/claim"
	couponHandler "directory-service/internal/handlers/coupon"
	jobHandler "directory-service/internal/handlers/job"
	planHandler "directory-service/internal/handlers/plan"
	productHandler "directory-service/internal/handlers/product"
	regionHandler "directory-service/internal/handlers/region"
	venueHandler "directory-service/internal/handlers/venue"
	"directory-service/internal/metrics"
	"directory-service/internal/middleware"
	"directory-service/internal/pkg/captcha"
	"directory-service/internal/pkg/jwt"
	"directory-service/internal/repository/postgres"
	analyticsservice "directory-service/internal/service/analytics"
	claimservice "directory-service/internal/service/claim"
	couponservice "directory-service/internal/service/coupon"
	"directory-service/internal/service/email"
	jobservice "directory-service/internal/service/job"
	planservice "directory-service/internal/service/plan"
	productservice "directory-service/internal/service/product"
	regionservice "directory-service/internal/service/region"
	venueservice "directory-service/internal/service/venue"

	"github.com/gin-gonic/gin"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger

	httpServer  *http.Server
	pool        *pgxpool.Pool
	redisClient *redis.Client
	stopCleanup context.CancelFunc
}

func NewServer(cfg config.AppConfig, logger *zap.Logger) *Server {
	return &Server{cfg: cfg, engine: gin.New(), logger: logger}
}

// Init connects the stores and wires every layer. Call it once before Run.
func (s *Server) Init(ctx context.Context) error {
	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	s.pool = pool
	s.logger.Info("connected to PostgreSQL")

	// ----- Redis (optional) -----
	var venueCache venueservice.VenueCache
	var regionCache regionservice.RegionCache
	redisClient, err := db.NewRedisClient(ctx, db.RedisConfig{
		Address:  s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
	})
	if err != nil {
		s.logger.Warn("redis unavailable, running without cache", zap.Error(err))
	} else {
		s.redisClient = redisClient
		c := cache.New(redisClient, s.cfg.CacheTTL)
		venueCache, regionCache = c, c
		s.logger.Info("connected to Redis", zap.String("addr", s.cfg.RedisAddr))
	}

	// ----- Metrics -----
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// ----- JWT -----
	jwtManager, err := jwt.LoadAndBuild(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to load JWT keys: %w", err)
	}

	// ----- Plan catalog -----
	catalog := plan.Default()
	if s.cfg.PlansFile != "" {
		catalog, err = plan.LoadFile(s.cfg.PlansFile)
		if err != nil {
			return fmt.Errorf("failed to load plans file: %w", err)
		}
	}
	policy, err := planservice.ParsePolicy(s.cfg.UnknownPlanPolicy)
	if err != nil {
		return err
	}

	// ----- Repositories -----
	dbWrapper := postgres.NewDB(pool)
	venueRepo := postgres.NewVenueRepository(pool)
	couponRepo := postgres.NewCouponRepository(pool)
	productRepo := postgres.NewProductRepository(pool, dbWrapper)
	jobRepo := postgres.NewJobRepository(pool)
	claimRepo := postgres.NewClaimRepository(pool, dbWrapper)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	regionRepo := postgres.NewRegionRepository(pool)

	// ----- Services -----
	planService := planservice.NewPlanService(plan.NewRegistry(catalog), policy, s.cfg.AdminWhatsApp, s.cfg.PlansFile, m, s.logger)
	venueService := venueservice.NewVenueService(venueRepo, productRepo, couponRepo, venueCache, planService, venueservice.Options{
		Location:      s.cfg.Location(),
		DefaultLocale: s.cfg.DefaultLocale,
		Metrics:       m,
	}, s.logger)
	couponService := couponservice.NewCouponService(couponRepo, venueService, planService, s.logger)
	productService := productservice.NewProductService(productRepo, venueService, planService, s.logger)
	jobService := jobservice.NewJobService(jobRepo, s.logger)
	analyticsService := analyticsservice.NewAnalyticsService(analyticsRepo, venueService, s.logger)
	regionService := regionservice.NewRegionService(regionRepo, regionCache, s.logger)

	sender := email.NewSMTPSender(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPFromName, s.cfg.SMTPSecure)
	adminEmail := s.cfg.AdminEmail
	if !sender.Configured() {
		s.logger.Warn("SMTP_HOST not set, claim notifications disabled")
		adminEmail = ""
	}
	verifier := captcha.NewVerifier(s.cfg.CaptchaSecret, s.cfg.CaptchaVerifyURL, nil)
	if !verifier.Enabled() {
		s.logger.Warn("CAPTCHA_SECRET not set, claim submissions are not bot-checked")
	}
	claimService := claimservice.NewClaimService(claimRepo, venueService, verifier, email.NewClaimNotifier(sender, adminEmail), s.logger)

	// ----- Middlewares -----
	rateLimiter := middleware.NewRateLimiter(s.cfg.RateLimitRPS, s.cfg.RateLimitBurst)
	cleanupCtx, cancel := context.WithCancel(context.Background())
	s.stopCleanup = cancel
	go rateLimiter.Cleanup(cleanupCtx)

	s.engine.Use(
		middleware.RequestLogger(s.logger),
		middleware.RecoveryMiddleware(s.logger),
		middleware.Metrics(m),
	)

	// ----- Router -----
	SetupRouter(s.engine, &Handlers{
		VenueHandler:     venueHandler.NewVenueHandler(venueService),
		PlanHandler:      planHandler.NewPlanHandler(planService),
		RegionHandler:    regionHandler.NewRegionHandler(regionService),
		CouponHandler:    couponHandler.NewCouponHandler(couponService),
		ProductHandler:   productHandler.NewProductHandler(productService),
		JobHandler:       jobHandler.NewJobHandler(jobService),
		ClaimHandler:     claimHandler.NewClaimHandler(claimService),
		AnalyticsHandler: analyticsHandler.NewAnalyticsHandler(analyticsService),
		AuthMiddleware:   middleware.NewAuthMiddleware(jwtManager.Verifier, m, s.logger),
		RateLimiter:      rateLimiter,
		Ping:             pool.Ping,
		Gatherer:         registry,
		MetricsUser:      s.cfg.MetricsUser,
		MetricsPass:      s.cfg.MetricsPass,
	})

	cors := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(s.cfg.CORSAllowedOrigins),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "Accept-Language", middleware.RequestIDHeader}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length", middleware.RequestIDHeader}),
	)

	s.httpServer = &http.Server{
		Addr:         s.cfg.HTTPAddr,
		Handler:      cors(s.engine),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return nil
}

// Run blocks serving HTTP until Shutdown.
func (s *Server) Run() error {
	s.logger.Info("server running", zap.String("addr", s.cfg.HTTPAddr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains HTTP and closes the stores.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	if s.stopCleanup != nil {
		s.stopCleanup()
	}
	if s.redisClient != nil {
		if cerr := s.redisClient.Close(); cerr != nil {
			s.logger.Warn("failed to close redis", zap.Error(cerr))
		}
	}
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}

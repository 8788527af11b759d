package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("UNKNOWN_PLAN_POLICY", "")

	cfg := Load()
	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "strict", cfg.UnknownPlanPolicy)
	assert.Equal(t, "es", cfg.DefaultLocale)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("UNKNOWN_PLAN_POLICY", "FREE")

	cfg := Load()
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, 5, cfg.RateLimitBurst)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "free", cfg.UnknownPlanPolicy)
}

func TestLocationFallback(t *testing.T) {
	cfg := AppConfig{VenueTimezone: "Not/AZone"}
	loc := cfg.Location()
	_, offset := time.Date(2024, 1, 1, 12, 0, 0, 0, loc).Zone()
	assert.Equal(t, -6*3600, offset)

	cfg.VenueTimezone = "UTC"
	assert.Equal(t, time.UTC.String(), cfg.Location().String())
}

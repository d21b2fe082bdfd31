package ratelimit

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/tendant/simple-user-mgmt/pkg/client"
	idmerrors "github.com/tendant/simple-user-mgmt/pkg/errors"
	"github.com/tendant/simple-user-mgmt/pkg/utils"
)

// Config holds rate limiting configuration
type Config struct {
	GlobalEnabled   bool
	GlobalBurst     int
	GlobalPerSecond float64

	PerIPEnabled   bool
	PerIPBurst     int
	PerIPPerSecond float64

	// Per-user limits apply to authenticated requests only.
	PerUserEnabled   bool
	PerUserBurst     int
	PerUserPerSecond float64

	// How long to keep inactive buckets in memory.
	BucketTTL time.Duration

	IncludeHeaders bool
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() Config {
	return Config{
		// Global: 1000 requests per minute
		GlobalEnabled:   true,
		GlobalBurst:     1000,
		GlobalPerSecond: 1000.0 / 60.0,

		// Per-IP: 100 requests per minute
		PerIPEnabled:   true,
		PerIPBurst:     100,
		PerIPPerSecond: 100.0 / 60.0,

		// Per-User: 200 requests per minute
		PerUserEnabled:   true,
		PerUserBurst:     200,
		PerUserPerSecond: 200.0 / 60.0,

		BucketTTL:      time.Hour,
		IncludeHeaders: true,
	}
}

// Middleware holds the rate limiting middleware state
type Middleware struct {
	config        Config
	globalLimiter *RateLimiter
	ipLimiter     *RateLimiter
	userLimiter   *RateLimiter
}

// NewMiddleware creates a new rate limiting middleware
func NewMiddleware(config Config) *Middleware {
	m := &Middleware{config: config}
	if config.GlobalEnabled {
		m.globalLimiter = NewRateLimiter(config.GlobalBurst, config.GlobalPerSecond, 0)
	}
	if config.PerIPEnabled {
		m.ipLimiter = NewRateLimiter(config.PerIPBurst, config.PerIPPerSecond, config.BucketTTL)
	}
	if config.PerUserEnabled {
		m.userLimiter = NewRateLimiter(config.PerUserBurst, config.PerUserPerSecond, config.BucketTTL)
	}
	return m
}

// Start sweeps idle per-IP and per-user buckets in the background until ctx is done.
func (m *Middleware) Start(ctx context.Context) {
	for _, l := range []*RateLimiter{m.ipLimiter, m.userLimiter} {
		if l != nil {
			go l.Run(ctx)
		}
	}
}

// Handler returns the rate limiting middleware handler
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.globalLimiter != nil && !m.globalLimiter.Allow("global") {
			m.rateLimitExceeded(w, r, "global", m.config.GlobalPerSecond)
			return
		}

		ip := utils.ClientIP(r)
		if m.ipLimiter != nil && ip != "" && !m.ipLimiter.Allow(ip) {
			m.rateLimitExceeded(w, r, "ip", m.config.PerIPPerSecond)
			return
		}

		userID := userKey(r)
		if m.userLimiter != nil && userID != "" && !m.userLimiter.Allow(userID) {
			m.rateLimitExceeded(w, r, "user", m.config.PerUserPerSecond)
			return
		}

		if m.config.IncludeHeaders {
			if m.ipLimiter != nil {
				w.Header().Set("X-RateLimit-Limit-IP", strconv.Itoa(m.config.PerIPBurst))
			}
			if m.userLimiter != nil && userID != "" {
				w.Header().Set("X-RateLimit-Limit-User", strconv.Itoa(m.config.PerUserBurst))
			}
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) rateLimitExceeded(w http.ResponseWriter, r *http.Request, limitType string, perSecond float64) {
	slog.Warn("Rate limit exceeded",
		"type", limitType,
		"ip", utils.ClientIP(r),
		"user", userKey(r),
		"path", r.URL.Path,
		"method", r.Method,
	)

	retryAfter := retryAfterSeconds(perSecond)
	w.Header().Set("Retry-After", retryAfter)
	utils.RenderError(w, r, idmerrors.RateLimitExceeded(retryAfter).WithDetail("type", limitType))
}

// retryAfterSeconds is the whole number of seconds until one token refills.
func retryAfterSeconds(perSecond float64) string {
	if perSecond <= 0 {
		return "60"
	}
	secs := int(1/perSecond + 0.999)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

func userKey(r *http.Request) string {
	u, ok := client.GetAuthUser(r.Context())
	if !ok || u == nil {
		return ""
	}
	return u.Subject
}

// GetStats returns statistics about all rate limiters
func (m *Middleware) GetStats() map[string]Stats {
	stats := make(map[string]Stats)
	if m.globalLimiter != nil {
		stats["global"] = m.globalLimiter.GetStats()
	}
	if m.ipLimiter != nil {
		stats["ip"] = m.ipLimiter.GetStats()
	}
	if m.userLimiter != nil {
		stats["user"] = m.userLimiter.GetStats()
	}
	return stats
}

// Reset clears the limits held for an IP address or user subject.
func (m *Middleware) Reset(key string) {
	if m.ipLimiter != nil {
		m.ipLimiter.Reset(key)
	}
	if m.userLimiter != nil {
		m.userLimiter.Reset(key)
	}
}

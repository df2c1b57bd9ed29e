package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/deppfellow/software-engineers/internal/errs"
	"github.com/deppfellow/software-engineers/internal/server"
)

const rateLimitKeyPrefix = "ratelimit:"

// RateLimitMiddleware limits requests per client IP to Server.RateLimit per
// second. Counters live in Redis when configured, in process memory otherwise.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limiter returns the rate limiting middleware; a pass-through when the
// configured limit is zero.
func (r *RateLimitMiddleware) Limiter() echo.MiddlewareFunc {
	limit := r.server.Config.Server.RateLimit
	if limit <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: r.store(limit),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewBadRequestError("Unable to identify client", false, nil, nil, nil)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c.Path())
			r.server.Logger.Warn().Str("identifier", identifier).Str("path", c.Path()).Msg("rate limit exceeded")
			return errs.NewTooManyRequestsError("Rate limit exceeded")
		},
	})
}

func (r *RateLimitMiddleware) store(limit int) middleware.RateLimiterStore {
	if r.server.Redis != nil {
		return NewRedisRateLimiterStore(r.server.Redis, limit, time.Second, r.server.Logger)
	}

	return middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(limit),
		Burst:     limit,
		ExpiresIn: 3 * time.Minute,
	})
}

// RecordRateLimitHit records a RateLimitHit custom event in New Relic.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}

// RedisRateLimiterStore is a fixed window counter shared by every instance
// using the same Redis.
type RedisRateLimiterStore struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger *zerolog.Logger
	now    func() time.Time
}

func NewRedisRateLimiterStore(client *redis.Client, limit int, window time.Duration, logger *zerolog.Logger) *RedisRateLimiterStore {
	return &RedisRateLimiterStore{
		client: client,
		limit:  limit,
		window: window,
		logger: logger,
		now:    time.Now,
	}
}

// Allow counts a request for identifier. Redis failures let the request through.
func (s *RedisRateLimiterStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	windowStart := s.now().Truncate(s.window).Unix()
	key := fmt.Sprintf("%s%s:%d", rateLimitKeyPrefix, identifier, windowStart)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.window*2)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Error().Err(err).Str("identifier", identifier).Msg("rate limit store unavailable")
		return true, nil
	}

	return incr.Val() <= int64(s.limit), nil
}

package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for the Redis-backed rate limiter.
type RateLimitConfig struct {
	// Requests is the number of requests allowed per window.
	Requests int

	// Window is the length of the fixed window.
	Window time.Duration

	// KeyPrefix namespaces the Redis counter keys, e.g. "ratelimit:ratings".
	KeyPrefix string
}

// RateLimit returns middleware that applies a fixed-window rate limit per
// client IP using Redis INCR with an expiring key. If Redis is unavailable the
// request is allowed through; throttling is protection, not a gate.
func RateLimit(rdb *redis.Client, cfg RateLimitConfig, l *slog.Logger) func(http.Handler) http.Handler {
	if cfg.Requests <= 0 {
		cfg.Requests = 60
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "ratelimit"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			window := time.Now().Unix() / int64(cfg.Window.Seconds())
			key := fmt.Sprintf("%s:%s:%d", cfg.KeyPrefix, host, window)

			pipe := rdb.TxPipeline()
			incr := pipe.Incr(r.Context(), key)
			pipe.Expire(r.Context(), key, cfg.Window)
			if _, err := pipe.Exec(r.Context()); err != nil {
				l.WarnContext(r.Context(), "rate limiter unavailable, allowing request",
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}

			count := incr.Val()
			remaining := int64(cfg.Requests) - count
			if remaining < 0 {
				remaining = 0
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(cfg.Requests) {
				l.WarnContext(r.Context(), "rate limit exceeded",
					slog.String("ip", host),
					slog.String("path", r.URL.Path),
					slog.Int64("count", count),
				)
				w.Header().Set("Retry-After", strconv.Itoa(int(cfg.Window.Seconds())))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]string{
						"code":    "RATE_LIMITED",
						"message": "too many requests, slow down",
					},
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	fiberredis "github.com/gofiber/storage/redis/v3"
	"github.com/redis/go-redis/v9"

	"github.com/Alijeyrad/triage_backend/config"
)

const (
	defaultLimitMax        = 60
	defaultLimitExpiration = 30 * time.Second
)

// NewLimiter rate limits per client IP with a sliding window. Counters live in
// Redis when rdb is set so several replicas share them, else in memory.
func NewLimiter(cfg config.RateLimit, rdb *redis.Client) fiber.Handler {
	max := cfg.Max
	if max <= 0 {
		max = defaultLimitMax
	}
	exp := time.Duration(cfg.ExpirationSeconds) * time.Second
	if exp <= 0 {
		exp = defaultLimitExpiration
	}

	lc := limiter.Config{
		// sliding window
		Max:               max,
		Expiration:        exp,
		LimiterMiddleware: limiter.SlidingWindow{},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"ok": false, "error": "Too many requests"})
		},
	}
	if rdb != nil {
		lc.Storage = fiberredis.NewFromConnection(rdb)
	}
	return limiter.New(lc)
}

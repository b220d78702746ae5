package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	bucket    map[string]*limiterEntry
	rate      rate.Limit
	burstSize int
	mutex     *sync.Mutex
	lastSweep time.Time
}

func newRateLimiter(reqRate rate.Limit, burstSize int) *rateLimiter {
	return &rateLimiter{
		bucket:    make(map[string]*limiterEntry),
		rate:      reqRate,
		burstSize: burstSize,
		mutex:     &sync.Mutex{},
	}
}

// GetLimiterFrom returns the limiter for key, dropping limiters that have
// been idle for longer than limiterIdleTTL.
func (r *rateLimiter) GetLimiterFrom(key string, now time.Time) *rate.Limiter {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if now.Sub(r.lastSweep) > limiterIdleTTL {
		for k, e := range r.bucket {
			if now.Sub(e.lastSeen) > limiterIdleTTL {
				delete(r.bucket, k)
			}
		}
		r.lastSweep = now
	}

	e, exist := r.bucket[key]
	if !exist {
		e = &limiterEntry{limiter: rate.NewLimiter(r.rate, r.burstSize)}
		r.bucket[key] = e
	}
	e.lastSeen = now

	return e.limiter
}

func (m *middleware) NewRateLimiter(ctx *fiber.Ctx) error {
	clientIP := ctx.IP()
	limiter := m.rateLimitter.GetLimiterFrom(clientIP, time.Now())

	if !limiter.Allow() {
		m.log.Warnf("too many requests for IP %s", clientIP)
		return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "Too many requests",
			"code":  "TOO_MANY_REQUESTS",
		})
	}

	return ctx.Next()
}

// NewUploadRateLimiter limits document uploads per authenticated user. It
// must run after the token middleware.
func (m *middleware) NewUploadRateLimiter(ctx *fiber.Ctx) error {
	key := ctx.IP()
	if user, err := currentUser(ctx); err == nil {
		key = user.ID
	}

	if !m.uploadLimitter.GetLimiterFrom(key, time.Now()).Allow() {
		m.log.WithField("key", key).Warn("too many document uploads")
		return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "Too many document uploads",
			"code":  "TOO_MANY_REQUESTS",
		})
	}

	return ctx.Next()
}

package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/frbox-labs/frbox/internal/domain"
)

// RateLimiterConfig holds configuration for rate limiting
type RateLimiterConfig struct {
	// Max requests admitted per sliding window
	Max int
	// Window duration
	Window time.Duration
	// KeyGenerator derives the client identifier from the request
	KeyGenerator func(c *fiber.Ctx) string
	// Now is the clock; overridable in tests
	Now func() time.Time
}

// DefaultRateLimiterConfig returns a per-client sliding-minute configuration
func DefaultRateLimiterConfig(max int) RateLimiterConfig {
	return RateLimiterConfig{
		Max:          max,
		Window:       time.Minute,
		KeyGenerator: ClientID,
		Now:          time.Now,
	}
}

// RateLimiter admits at most Max requests per client within the trailing
// Window. Check and record happen under one lock, so two concurrent requests
// can never both claim the last remaining slot.
type RateLimiter struct {
	config  RateLimiterConfig
	mu      sync.Mutex
	windows map[string][]time.Time
	done    chan struct{}
}

// NewRateLimiter creates a new sliding-window rate limiter
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Max <= 0 {
		config.Max = 60
	}
	if config.Window == 0 {
		config.Window = time.Minute
	}
	if config.KeyGenerator == nil {
		config.KeyGenerator = ClientID
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	rl := &RateLimiter{
		config:  config,
		windows: make(map[string][]time.Time),
		done:    make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// Stop shuts down the cleanup goroutine
func (rl *RateLimiter) Stop() {
	close(rl.done)
}

// Handler returns the Fiber middleware handler
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := rl.config.KeyGenerator(c)
		now := rl.config.Now()

		admitted, remaining := rl.admit(key, now)

		c.Set("X-RateLimit-Limit", strconv.Itoa(rl.config.Max))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Set("X-RateLimit-Reset", now.Add(rl.config.Window).Format(time.RFC3339))

		if !admitted {
			c.Set("Retry-After", strconv.Itoa(int(rl.config.Window.Seconds())))
			return domain.ErrRateLimited
		}

		return c.Next()
	}
}

// admit prunes expired timestamps for key and records the request if the
// window still has room. Rejected attempts are not recorded.
func (rl *RateLimiter) admit(key string, now time.Time) (bool, int) {
	cutoff := now.Add(-rl.config.Window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	window := rl.windows[key]

	kept := window[:0]
	for _, ts := range window {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= rl.config.Max {
		rl.windows[key] = kept
		return false, 0
	}

	kept = append(kept, now)
	rl.windows[key] = kept
	return true, rl.config.Max - len(kept)
}

// cleanup drops clients whose whole window has expired
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			cutoff := rl.config.Now().Add(-2 * rl.config.Window)

			rl.mu.Lock()
			for key, window := range rl.windows {
				if len(window) == 0 || window[len(window)-1].Before(cutoff) {
					delete(rl.windows, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

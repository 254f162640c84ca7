package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LocalLimiter is a per-process token bucket per (ip, route class). It is
// the fallback when Redis is not available, so limits are per instance.
type LocalLimiter struct {
	config   *Config
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewLocalLimiter(config *Config) *LocalLimiter {
	return &LocalLimiter{
		config:   config,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (l *LocalLimiter) IsAllowed(_ context.Context, clientIP string, limitType RateLimitType) (*Result, error) {
	limit := l.config.limitFor(limitType)
	reset := time.Now().Add(l.config.WindowDuration).Unix()
	if !l.config.Enabled || l.config.isWhitelisted(clientIP) || limit <= 0 {
		return &Result{Allowed: true, Limit: limit, Remaining: limit, ResetTime: reset}, nil
	}

	limiter := l.get(clientIP+":"+string(limitType), limit)
	allowed := limiter.Allow()
	remaining := int(limiter.Tokens())
	if remaining < 0 {
		remaining = 0
	}
	return &Result{Allowed: allowed, Limit: limit, Remaining: remaining, ResetTime: reset}, nil
}

func (l *LocalLimiter) get(key string, limit int) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[key]
	if !ok {
		every := l.config.WindowDuration / time.Duration(limit)
		limiter = rate.NewLimiter(rate.Every(every), limit)
		l.limiters[key] = limiter
	}
	return limiter
}

// Package ratelimit throttles requests per client and endpoint with token buckets.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// bucket refills continuously at rate tokens per second up to capacity.
type bucket struct {
	capacity float64
	rate     float64
	tokens   float64
	last     time.Time
	lastSeen time.Time
}

func (b *bucket) refill(now time.Time) {
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens = min(b.capacity, b.tokens+elapsed*b.rate)
	}
	b.last = now
}

// take consumes one token if available.
func (b *bucket) take(now time.Time) bool {
	b.refill(now)
	b.lastSeen = now
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// untilFull returns how long until the bucket is at capacity again.
func (b *bucket) untilFull() time.Duration {
	missing := b.capacity - b.tokens
	if missing <= 0 || b.rate <= 0 {
		return 0
	}
	return time.Duration(missing / b.rate * float64(time.Second))
}

// untilNext returns how long until one token is available.
func (b *bucket) untilNext() time.Duration {
	if b.tokens >= 1 || b.rate <= 0 {
		return 0
	}
	return time.Duration((1 - b.tokens) / b.rate * float64(time.Second))
}

// Info describes the limit that applied to a request. Limit is 0 for unlimited requests.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter tracks one bucket per client, method and path.
type Limiter struct {
	config  *Config
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

// NewLimiter creates a limiter. A nil config uses the built-in defaults.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = DefaultConfig()
	}
	return &Limiter{
		config:  config,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow reports whether a request from clientID to method+path may proceed.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Allowlist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blocklist[clientID] {
		return false, Info{}
	}

	rule := MatchEndpoint(path, method, l.config.EndpointConfigs)
	if rule == nil {
		rule = &EndpointConfig{Limit: l.config.DefaultLimit, Window: l.config.DefaultWindow}
	}
	if rule.Limit <= 0 || rule.Window <= 0 {
		return true, Info{Allowed: true}
	}

	// Prefix rules share one bucket across every path they cover.
	key := clientID + " " + method + " " + rule.key(path)
	now := l.now()

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		capacity := rule.Burst
		if capacity <= 0 {
			capacity = rule.Limit
		}
		b = &bucket{
			capacity: float64(capacity),
			rate:     float64(rule.Limit) / rule.Window.Seconds(),
			tokens:   float64(capacity),
			last:     now,
		}
		l.buckets[key] = b
	}
	allowed := b.take(now)
	info := Info{
		Allowed:   allowed,
		Limit:     rule.Limit,
		Remaining: int(b.tokens),
		ResetTime: now.Add(b.untilFull()),
	}
	if !allowed {
		info.RetryAfter = b.untilNext()
	}
	l.mu.Unlock()

	return allowed, info
}

// Run evicts idle buckets every CleanupInterval until ctx is done.
func (l *Limiter) Run(ctx context.Context) error {
	if l.config.CleanupInterval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			l.evictIdle(l.config.IdleTTL)
		}
	}
}

// evictIdle drops buckets not used within ttl. Returns the number removed.
func (l *Limiter) evictIdle(ttl time.Duration) int {
	cutoff := l.now().Add(-ttl)
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// size returns the number of live buckets.
func (l *Limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

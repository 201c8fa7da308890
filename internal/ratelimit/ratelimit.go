package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"log/slog"

	"github.com/jekabolt/grbpwr-waitlist/internal/auth/jwt"
	"github.com/jekabolt/grbpwr-waitlist/internal/middleware"
)

// ErrLimited is returned when a caller exhausted its window.
var ErrLimited = errors.New("too many requests, please try again later")

// Limiter is an in-memory fixed window counter per key.
type Limiter struct {
	mu       sync.Mutex
	counters map[string]*counter
	window   time.Duration
	max      int
	now      func() time.Time
}

type counter struct {
	count     int
	expiresAt time.Time
}

// NewLimiter creates a limiter allowing max hits per key per window.
func NewLimiter(window time.Duration, max int) *Limiter {
	return &Limiter{
		counters: make(map[string]*counter),
		window:   window,
		max:      max,
		now:      time.Now,
	}
}

// Allow checks if a request for the given key is allowed
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, exists := l.counters[key]

	if !exists || now.After(c.expiresAt) {
		l.counters[key] = &counter{
			count:     1,
			expiresAt: now.Add(l.window),
		}
		return true
	}

	if c.count >= l.max {
		return false
	}

	c.count++
	return true
}

// Remaining returns the number of hits left for key in the current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, exists := l.counters[key]
	if !exists || l.now().After(c.expiresAt) {
		return l.max
	}
	return max(l.max-c.count, 0)
}

func (l *Limiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for key, c := range l.counters {
		if now.After(c.expiresAt) {
			delete(l.counters, key)
		}
	}
}

// Config sets per minute limits of the admin API. Zero disables a limit.
type Config struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	BulkPerMinute     int `mapstructure:"bulk_per_minute"`
}

// Limits holds the request limiter keyed by client IP and the bulk
// limiter keyed by moderator.
type Limits struct {
	requests *Limiter
	bulk     *Limiter
}

// New builds the limiters of c. The expired counters are swept every
// minute until ctx is done.
func New(ctx context.Context, c Config) *Limits {
	ls := &Limits{}
	if c.RequestsPerMinute > 0 {
		ls.requests = NewLimiter(time.Minute, c.RequestsPerMinute)
	}
	if c.BulkPerMinute > 0 {
		ls.bulk = NewLimiter(time.Minute, c.BulkPerMinute)
	}
	go ls.cleanup(ctx)
	return ls
}

func (ls *Limits) cleanup(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, l := range []*Limiter{ls.requests, ls.bulk} {
				if l != nil {
					l.sweep()
				}
			}
		}
	}
}

// CheckRequest counts one API request from ip.
func (ls *Limits) CheckRequest(ip string) error {
	if ls.requests != nil && !ls.requests.Allow(ip) {
		return ErrLimited
	}
	return nil
}

// CheckBulk counts one bulk operation of actor.
func (ls *Limits) CheckBulk(actor string) error {
	if ls.bulk != nil && !ls.bulk.Allow(actor) {
		return ErrLimited
	}
	return nil
}

// Requests limits every request by client IP.
func (ls *Limits) Requests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := middleware.GetClientIP(r.Context())
		if err := ls.CheckRequest(ip); err != nil {
			slog.Default().WarnContext(r.Context(), "request rate limited", slog.String("client_ip", ip))
			http.Error(w, err.Error(), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Bulk limits bulk routes by the authenticated moderator.
func (ls *Limits) Bulk(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := jwt.ActorFromContext(r.Context())
		if err := ls.CheckBulk(actor); err != nil {
			slog.Default().WarnContext(r.Context(), "bulk operation rate limited", slog.String("actor", actor))
			http.Error(w, err.Error(), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

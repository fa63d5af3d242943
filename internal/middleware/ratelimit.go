package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/taskboard-pm/apiserver/internal/apierr"
)

const limiterIdleTTL = 5 * time.Minute

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	perSecond rate.Limit
	burst     int
	now       func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	limiter *rate.Limiter
	seen    time.Time
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		perSecond: rate.Limit(perSecond),
		burst:     burst,
		now:       time.Now,
		buckets:   make(map[string]*bucket),
	}
}

// Stage rejects requests beyond the configured rate with 429.
func (l *RateLimiter) Stage() Stage {
	return func(r *http.Request) (*http.Request, error) {
		if !l.allow(clientIP(r)) {
			return r, apierr.TooManyRequests("Too many requests, please try again later")
		}
		return r, nil
	}
}

func (l *RateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[ip]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.perSecond, l.burst)}
		l.buckets[ip] = b
	}
	b.seen = now
	return b.limiter.AllowN(now, 1)
}

// Sweep drops buckets idle for longer than limiterIdleTTL.
func (l *RateLimiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-limiterIdleTTL)
	for ip, b := range l.buckets {
		if b.seen.Before(cutoff) {
			delete(l.buckets, ip)
		}
	}
}

// Run sweeps idle buckets every minute until done is closed.
func (l *RateLimiter) Run(done <-chan struct{}) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// clientIP expects chi's RealIP middleware to have normalized RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		if r.RemoteAddr == "" {
			return "unknown"
		}
		return r.RemoteAddr
	}
	return host
}

package contentapi

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// loginLimiter rate-limits admin login attempts per client IP using a token
// bucket per key. Idle entries are pruned by a background janitor.
type loginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*loginEntry
	limit    rate.Limit
	burst    int
	done     chan struct{}
	stopOnce sync.Once
}

type loginEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLoginLimiter(rps float64, burst int) *loginLimiter {
	l := &loginLimiter{
		limiters: make(map[string]*loginEntry),
		limit:    rate.Limit(rps),
		burst:    burst,
		done:     make(chan struct{}),
	}
	go l.janitor()
	return l
}

// Allow reports whether another login attempt from ip may proceed now.
func (l *loginLimiter) Allow(ip string) bool {
	l.mu.Lock()
	e, ok := l.limiters[ip]
	if !ok {
		e = &loginEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = e
	}
	e.lastSeen = time.Now()
	l.mu.Unlock()
	return e.limiter.Allow()
}

// Stop shuts down the janitor goroutine.
func (l *loginLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

func (l *loginLimiter) janitor() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-30 * time.Minute)
			l.mu.Lock()
			for ip, e := range l.limiters {
				if e.lastSeen.Before(cutoff) {
					delete(l.limiters, ip)
				}
			}
			l.mu.Unlock()
		}
	}
}

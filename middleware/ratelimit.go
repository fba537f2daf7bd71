// middleware/ratelimit.go
package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dalemusser/userform/config"
	"github.com/dalemusser/userform/httputil"
	"golang.org/x/time/rate"
)

// idleTTL is how long a client's bucket survives without requests.
const idleTTL = 10 * time.Minute

// ClientLimiter keeps one token bucket per client IP.
type ClientLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients map[string]*client
	now     func() time.Time
	lastGC  time.Time
}

type client struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewClientLimiter allows perSecond requests per client with the given burst.
func NewClientLimiter(perSecond float64, burst int) *ClientLimiter {
	return &ClientLimiter{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		clients: map[string]*client{},
		now:     time.Now,
	}
}

// Allow consumes one token for key.
func (l *ClientLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastGC) > idleTTL {
		for k, c := range l.clients {
			if now.Sub(c.lastSeen) > idleTTL {
				delete(l.clients, k)
			}
		}
		l.lastGC = now
	}

	c, ok := l.clients[key]
	if !ok {
		c = &client{lim: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.lim.AllowN(now, 1)
}

// Len reports how many clients are tracked.
func (l *ClientLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Limit rejects a client over its budget with 429 and a Retry-After hint.
// Run it after chi's RealIP so RemoteAddr is the client address.
func (l *ClientLimiter) Limit(next http.Handler) http.Handler {
	retry := "1"
	if l.limit > 0 {
		if s := int(1/float64(l.limit) + 0.999); s > 1 {
			retry = strconv.Itoa(s)
		}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", retry)
			httputil.JSONError(w, http.StatusTooManyRequests, "rate_limited", "too many submissions, try again shortly")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimitFromConfig limits submissions per client from submit_rate_limit
// and submit_rate_burst, or does nothing when the limit is 0.
func RateLimitFromConfig(cfg *config.CoreConfig) func(next http.Handler) http.Handler {
	if cfg == nil || cfg.SubmitRateLimit <= 0 {
		return passthrough
	}
	return NewClientLimiter(cfg.SubmitRateLimit, cfg.SubmitRateBurst).Limit
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

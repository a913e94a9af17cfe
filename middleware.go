package shadowprobe

import (
	"net"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// clientLimiters holds one token bucket per client address. Pruned
// wholesale when it grows past maxClients; per-key TTL bookkeeping is
// not worth it for a service this small.
type clientLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

const maxClients = 4096

func (cl *clientLimiters) get(key string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if lim, ok := cl.limiters[key]; ok {
		return lim
	}
	if len(cl.limiters) >= maxClients {
		cl.limiters = make(map[string]*rate.Limiter)
	}
	lim := rate.NewLimiter(cl.rps, cl.burst)
	cl.limiters[key] = lim
	return lim
}

// clientKey extracts the caller's address for rate-limit bucketing.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

// RateLimitMiddleware gates inbound requests per client address. Each
// probe fans out into many upstream calls, so inbound admission is the
// one place load can be shed. rps <= 0 disables the middleware.
func RateLimitMiddleware(rps float64, burst int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	cl := &clientLimiters{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cl.get(clientKey(r)).Allow() {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"context"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleLimiterTTL is how long a client's limiter is kept after its last request.
const idleLimiterTTL = 10 * time.Minute

// RateLimiter throttles requests per client IP with a token bucket.
type RateLimiter struct {
	limit rate.Limit
	burst int
	log   *slog.Logger
	now   func() time.Time

	mu        sync.Mutex
	clients   map[string]*clientLimiter
	lastSweep time.Time
}

type clientLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows each client r requests per second with bursts of burst.
func NewRateLimiter(r float64, burst int, log *slog.Logger) *RateLimiter {
	return &RateLimiter{
		limit:   rate.Limit(r),
		burst:   burst,
		log:     log,
		now:     time.Now,
		clients: make(map[string]*clientLimiter),
	}
}

// Handler is the middleware. Rejected requests get 429 with a Retry-After header.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		lim := rl.limiterFor(ip)
		if !lim.Allow() {
			wait := lim.Reserve()
			delay := wait.Delay()
			wait.Cancel()
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			rl.log.WarnContext(r.Context(), "rate limited", "remote_ip", ip, "path", r.URL.Path)
			writeError(w, r, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > idleLimiterTTL {
		for k, c := range rl.clients {
			if now.Sub(c.lastSeen) > idleLimiterTTL {
				delete(rl.clients, k)
			}
		}
		rl.lastSweep = now
	}

	c, ok := rl.clients[ip]
	if !ok {
		c = &clientLimiter{lim: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = now
	return c.lim
}

type peerAddrKey struct{}

// RememberPeer records the socket peer address of the connection. It must run
// before chi's RealIP, which overwrites RemoteAddr with client-supplied
// forwarding headers. The rate limiter keys on the recorded peer so rotating
// X-Forwarded-For values cannot mint fresh buckets.
func RememberPeer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), peerAddrKey{}, r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIP returns the host of the socket peer recorded by RememberPeer,
// falling back to RemoteAddr when RememberPeer is not installed.
func clientIP(r *http.Request) string {
	addr := r.RemoteAddr
	if peer, ok := r.Context().Value(peerAddrKey{}).(string); ok {
		addr = peer
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

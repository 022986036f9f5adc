// Package middleware holds the HTTP middleware shared by every route.
package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/shopadmin/pkg/response"
)

// window counts requests from one client in a fixed window.
type window struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

func (w *window) allow(limit int, size time.Duration, now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if now.After(w.resetAt) {
		w.count = 0
		w.resetAt = now.Add(size)
	}
	w.count++
	return w.count <= limit
}

func (w *window) expired(now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return now.After(w.resetAt)
}

// Limiter caps requests per client IP.
type Limiter struct {
	limit int
	size  time.Duration

	mu      sync.Mutex
	clients map[string]*window
}

// NewLimiter allows limit requests per size window. A limit <= 0 disables it.
func NewLimiter(limit int, size time.Duration) *Limiter {
	return &Limiter{limit: limit, size: size, clients: make(map[string]*window)}
}

// Sweep evicts expired windows every interval until ctx is done.
func (l *Limiter) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.mu.Lock()
			for ip, w := range l.clients {
				if w.expired(now) {
					delete(l.clients, ip)
				}
			}
			l.mu.Unlock()
		}
	}
}

func (l *Limiter) window(ip string) *window {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.clients[ip]
	if !ok {
		w = &window{}
		l.clients[ip] = w
	}
	return w
}

// Middleware answers 429 once a client exceeds its budget.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	if l.limit <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.window(clientIP(r)).allow(l.limit, l.size, time.Now()) {
			response.Error(w, http.StatusTooManyRequests, "Too Many Requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP prefers the first X-Forwarded-For hop, then RemoteAddr without port.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

package handlers

import (
	"context"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Lina3386/financeflow/internal/services"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// callerClaims достает личность вызывающего из контекста запроса
func callerClaims(r *http.Request) *services.Claims {
	claims, _ := r.Context().Value(claimsContextKey).(*services.Claims)
	return claims
}

// authenticate проверяет bearer-токен и кладет claims в контекст
func (h *Handler) authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Authorization header missing or malformed")
			return
		}

		claims, err := h.auth.VerifyToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next(w, r.WithContext(ctx))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// logRequests пишет строку на каждый запрос с request id
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		requestID := uuid.NewString()
		start := time.Now()

		next.ServeHTTP(rec, r)

		log.Printf("📨 %s %s %s %d %s", requestID[:8], r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

const (
	rateLimitWindow   = 15 * time.Minute
	rateLimitRequests = 5
)

// ipRateLimiter - ограничитель на IP для reset-эндпоинтов:
// 5 запросов за 15 минут
type ipRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiterEntry
}

type ipLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPRateLimiter() *ipRateLimiter {
	return &ipRateLimiter{
		limiters: make(map[string]*ipLimiterEntry),
	}
}

func (l *ipRateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	// Попутно выбрасываем давно не появлявшиеся IP
	for key, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > 2*rateLimitWindow {
			delete(l.limiters, key)
		}
	}

	entry, ok := l.limiters[ip]
	if !ok {
		entry = &ipLimiterEntry{
			limiter: rate.NewLimiter(rate.Every(rateLimitWindow/rateLimitRequests), rateLimitRequests),
		}
		l.limiters[ip] = entry
	}
	entry.lastSeen = now

	return entry.limiter.Allow()
}

func (l *ipRateLimiter) middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !l.allow(ip) {
			writeError(w, http.StatusTooManyRequests,
				"Too many password reset attempts from this IP, please try again after 15 minutes")
			return
		}

		next(w, r)
	}
}

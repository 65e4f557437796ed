package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"familycoach/internal/logger"
	"familycoach/internal/metrics"
	"familycoach/internal/models"
	"familycoach/internal/security"
	"familycoach/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const CallerContextKey ContextKey = "caller"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	verifier *security.TokenVerifier
	limiter  *security.RateLimiter
	log      *logger.Logger
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(verifier *security.TokenVerifier, limiter *security.RateLimiter, log *logger.Logger) *Middleware {
	if log == nil {
		log = logger.NewNop()
	}
	return &Middleware{verifier: verifier, limiter: limiter, log: log}
}

// RequireAuth is middleware that requires a valid bearer token
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := security.BearerToken(r)
		if err != nil {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: ErrUnauthorized, Kind: service.KindAuthorization})
			return
		}

		userID, err := m.verifier.Verify(token)
		if err != nil {
			m.log.Debug("Rejected bearer token", "error", err, "path", r.URL.Path)
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: ErrUnauthorized, Kind: service.KindAuthorization})
			return
		}

		ctx := context.WithValue(r.Context(), CallerContextKey, models.Caller{UserID: userID})
		next(w, r.WithContext(ctx))
	}
}

// RateLimit limits requests per client IP
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := security.GetClientIP(r)
		if !m.limiter.Allow(ip) {
			m.log.Warn("Rate limit exceeded", "ip", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			respondJSON(w, http.StatusTooManyRequests, errorResponse{Error: ErrRateLimited, Kind: "rate_limited"})
			return
		}
		next(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Logging middleware logs HTTP requests and records their latency
func (m *Middleware) Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Observe(elapsed.Seconds())
		m.log.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", elapsed,
		)
	})
}

// Recover turns a panicking handler into a 500
func (m *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				m.log.Error("Handler panic", "path", r.URL.Path, "panic", p)
				respondJSON(w, http.StatusInternalServerError, errorResponse{Error: ErrInternalServerError, Kind: service.KindInternal})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// GetCallerFromContext retrieves the authenticated caller
func GetCallerFromContext(ctx context.Context) models.Caller {
	caller, _ := ctx.Value(CallerContextKey).(models.Caller)
	return caller
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"familycoach/internal/metrics"
)

// Pinger reports whether the store is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewRouter registers every API route
func NewRouter(m *Middleware, sessions *SessionHandler, analytics *AnalyticsHandler, db Pinger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", healthz(db))
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("POST /api/sessions", m.RequireAuth(sessions.CreateSession))
	mux.HandleFunc("GET /api/sessions/summary", m.RequireAuth(analytics.SessionSummary))
	mux.HandleFunc("GET /api/sessions/{id}", m.RequireAuth(sessions.GetSession))
	mux.HandleFunc("GET /api/sessions/{id}/prompt", m.RateLimit(m.RequireAuth(sessions.GetPrompt)))
	mux.HandleFunc("POST /api/sessions/{id}/reflect", m.RateLimit(m.RequireAuth(sessions.Reflect)))
	mux.HandleFunc("POST /api/sessions/{id}/complete", m.RequireAuth(sessions.CompleteSession))
	mux.HandleFunc("POST /api/sessions/{id}/abandon", m.RequireAuth(sessions.AbandonSession))
	mux.HandleFunc("GET /api/sessions/{id}/actions", m.RequireAuth(sessions.ListActions))
	mux.HandleFunc("POST /api/actions/{id}/complete", m.RequireAuth(sessions.CompleteAction))

	mux.HandleFunc("GET /api/patterns/events", m.RequireAuth(analytics.PatternEvents))
	mux.HandleFunc("POST /api/patterns/events", m.RequireAuth(analytics.RecordPatternEvent))
	mux.HandleFunc("GET /api/gamification", m.RequireAuth(analytics.Gamification))

	return m.Recover(m.Logging(mux))
}

func healthz(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

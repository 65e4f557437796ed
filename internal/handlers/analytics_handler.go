package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"familycoach/internal/logger"
	"familycoach/internal/models"
	"familycoach/internal/service"
	"familycoach/internal/validation"
)

// AnalyticsHandler handles the parent dashboard and gamification endpoints
type AnalyticsHandler struct {
	analytics    *service.AnalyticsService
	gamification *service.GamificationService
	log          *logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analytics *service.AnalyticsService, gamification *service.GamificationService, log *logger.Logger) *AnalyticsHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &AnalyticsHandler{analytics: analytics, gamification: gamification, log: log.With("handler", "analytics")}
}

type recordPatternEventRequest struct {
	SessionID  string         `json:"sessionId"`
	Pattern    models.Pattern `json:"pattern"`
	Confidence int            `json:"confidence"`
}

// PatternEvents returns pattern history and analytics for a family
func (h *AnalyticsHandler) PatternEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	familyID, childID, timeframe := q.Get("familyId"), q.Get("childId"), q.Get("timeframe")
	if err := errors.Join(
		validation.ValidateID("familyId", familyID),
		validation.ValidateOptionalID("childId", childID),
		validation.ValidateTimeframe(timeframe),
	); err != nil {
		respondWithError(w, h.log, "", err)
		return
	}

	history, err := h.analytics.PatternEvents(r.Context(), GetCallerFromContext(r.Context()), familyID, childID, models.Timeframe(timeframe))
	if err != nil {
		respondWithError(w, h.log, "Failed to load pattern events", err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// RecordPatternEvent lets a parent log a pattern by hand
func (h *AnalyticsHandler) RecordPatternEvent(w http.ResponseWriter, r *http.Request) {
	var req recordPatternEventRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		respondWithError(w, h.log, "", err)
		return
	}
	if err := validation.ValidateID("sessionId", req.SessionID); err != nil {
		respondWithError(w, h.log, "", err)
		return
	}

	event, err := h.analytics.RecordPatternEvent(r.Context(), GetCallerFromContext(r.Context()), req.SessionID, req.Pattern, req.Confidence)
	if err != nil {
		respondWithError(w, h.log, "Failed to record pattern event", err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "event": event})
}

// SessionSummary returns recent sessions with progress and trends
func (h *AnalyticsHandler) SessionSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	familyID, childID := q.Get("familyId"), q.Get("childId")
	if err := errors.Join(
		validation.ValidateID("familyId", familyID),
		validation.ValidateOptionalID("childId", childID),
	); err != nil {
		respondWithError(w, h.log, "", err)
		return
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondWithError(w, h.log, "", validation.ValidationError{Field: "limit", Message: "must be a positive integer"})
			return
		}
		limit = n
	}

	overview, err := h.analytics.SessionSummary(r.Context(), GetCallerFromContext(r.Context()), familyID, childID, limit)
	if err != nil {
		respondWithError(w, h.log, "Failed to load session summary", err)
		return
	}

	respondJSON(w, http.StatusOK, overview)
}

// Gamification returns the caller's points, streak and badges
func (h *AnalyticsHandler) Gamification(w http.ResponseWriter, r *http.Request) {
	state, err := h.gamification.Get(r.Context(), GetCallerFromContext(r.Context()).UserID)
	if err != nil {
		respondWithError(w, h.log, "Failed to load gamification", err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

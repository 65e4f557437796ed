package handlers

import (
	"errors"
	"net/http"

	"familycoach/internal/logger"
	"familycoach/internal/models"
	"familycoach/internal/service"
	"familycoach/internal/validation"
)

// SessionHandler handles coaching session HTTP requests
type SessionHandler struct {
	sessions *service.SessionService
	actions  *service.ActionService
	log      *logger.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *service.SessionService, actions *service.ActionService, log *logger.Logger) *SessionHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &SessionHandler{sessions: sessions, actions: actions, log: log.With("handler", "session")}
}

type createSessionRequest struct {
	FamilyID string `json:"familyId"`
	ChildID  string `json:"childId"`
}

type createSessionResponse struct {
	SessionID string                  `json:"sessionId"`
	Session   *models.CoachingSession `json:"session"`
}

type reflectRequest struct {
	ChildResponse string `json:"childResponse"`
}

type reflectResponse struct {
	models.CoachingAnalysis
	Actions []models.OfflineAction `json:"actions"`
}

type endSessionRequest struct {
	Summary string `json:"summary"`
}

// CreateSession starts a session for a child
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		respondWithError(w, h.log, "", err)
		return
	}
	if err := errors.Join(
		validation.ValidateID("familyId", req.FamilyID),
		validation.ValidateID("childId", req.ChildID),
	); err != nil {
		respondWithError(w, h.log, "", err)
		return
	}

	session, err := h.sessions.Create(r.Context(), GetCallerFromContext(r.Context()), req.FamilyID, req.ChildID)
	if err != nil {
		respondWithError(w, h.log, "Failed to create session", err)
		return
	}

	respondJSON(w, http.StatusCreated, createSessionResponse{SessionID: session.ID, Session: session})
}

// GetSession returns one session
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	session, err := h.sessions.Get(r.Context(), GetCallerFromContext(r.Context()), sessionID)
	if err != nil {
		respondWithError(w, h.log, "Failed to get session", err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

// GetPrompt returns the next reflection question
func (h *SessionHandler) GetPrompt(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	prompt, err := h.sessions.NextPrompt(r.Context(), GetCallerFromContext(r.Context()), sessionID)
	if err != nil {
		respondWithError(w, h.log, "Failed to generate prompt", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"prompt": prompt})
}

// Reflect analyzes a reflection and attaches its offline actions to the
// checklist. The analysis is returned even if the session ends before the
// actions land.
func (h *SessionHandler) Reflect(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req reflectRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		respondWithError(w, h.log, "", err)
		return
	}
	if err := validation.ValidateChildResponse(req.ChildResponse); err != nil {
		respondWithError(w, h.log, "", err)
		return
	}

	caller := GetCallerFromContext(r.Context())
	analysis, err := h.sessions.SubmitReflection(r.Context(), caller, sessionID, req.ChildResponse)
	if err != nil {
		respondWithError(w, h.log, "Failed to submit reflection", err)
		return
	}

	actions, err := h.actions.Attach(r.Context(), caller, sessionID, analysis.OfflineActions)
	if err != nil {
		h.log.Warn("Failed to attach offline actions", "session_id", sessionID, "error", err)
		actions = []models.OfflineAction{}
	}

	respondJSON(w, http.StatusOK, reflectResponse{CoachingAnalysis: analysis, Actions: actions})
}

// CompleteSession ends a session as completed
func (h *SessionHandler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req endSessionRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		respondWithError(w, h.log, "", err)
		return
	}
	if err := validation.ValidateSummary(req.Summary); err != nil {
		respondWithError(w, h.log, "", err)
		return
	}

	session, err := h.sessions.Complete(r.Context(), GetCallerFromContext(r.Context()), sessionID, req.Summary)
	if err != nil {
		respondWithError(w, h.log, "Failed to complete session", err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

// AbandonSession ends a session as abandoned
func (h *SessionHandler) AbandonSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	session, err := h.sessions.Abandon(r.Context(), GetCallerFromContext(r.Context()), sessionID)
	if err != nil {
		respondWithError(w, h.log, "Failed to abandon session", err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

// ListActions returns the offline action checklist of a session
func (h *SessionHandler) ListActions(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	actions, err := h.actions.List(r.Context(), GetCallerFromContext(r.Context()), sessionID)
	if err != nil {
		respondWithError(w, h.log, "Failed to list offline actions", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"actions": actions})
}

// CompleteAction ticks off one offline action
func (h *SessionHandler) CompleteAction(w http.ResponseWriter, r *http.Request) {
	actionID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	action, err := h.actions.Complete(r.Context(), GetCallerFromContext(r.Context()), actionID)
	if err != nil {
		respondWithError(w, h.log, "Failed to complete offline action", err)
		return
	}

	respondJSON(w, http.StatusOK, action)
}

func (h *SessionHandler) pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := r.PathValue(name)
	if err := validation.ValidateID(name, id); err != nil {
		respondWithError(w, h.log, "", err)
		return "", false
	}
	return id, true
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"familycoach/internal/coaching"
	"familycoach/internal/database"
	"familycoach/internal/models"
	"familycoach/internal/repository"
	"familycoach/internal/security"
	"familycoach/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type server struct {
	t        *testing.T
	handler  http.Handler
	verifier *security.TokenVerifier
	family   *models.Family
	child    *models.ChildProfile
}

const (
	parentID = "parent-1"
	kidID    = "kid-user"
)

func newServer(t *testing.T, perMinute int) *server {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "coach.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()
	_, err = db.RunMigrations(ctx)
	require.NoError(t, err)

	families := repository.NewFamilyRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	patternRepo := repository.NewPatternRepository(db)
	actionRepo := repository.NewActionRepository(db)

	gamification := service.NewGamificationService(repository.NewGamificationRepository(db), nil)
	sessions := service.NewSessionService(sessionRepo, families, patternRepo,
		coaching.NewAnalyzer(nil, nil), coaching.NewPromptGenerator(nil, nil), nil, nil)
	actions := service.NewActionService(sessionRepo, families, actionRepo, gamification, nil)
	analytics := service.NewAnalyticsService(sessionRepo, families, patternRepo, actionRepo, nil)

	verifier, err := security.NewTokenVerifier("test-secret")
	require.NoError(t, err)
	m := NewMiddleware(verifier, security.NewRateLimiter(perMinute), nil)

	s := &server{
		t:        t,
		handler:  NewRouter(m, NewSessionHandler(sessions, actions, nil), NewAnalyticsHandler(analytics, gamification, nil), db),
		verifier: verifier,
	}

	s.family, err = families.CreateFamily(ctx, "Okafor")
	require.NoError(t, err)
	_, err = families.AddFamilyMember(ctx, s.family.ID, parentID, models.RoleParent, "")
	require.NoError(t, err)
	s.child, err = families.CreateChild(ctx, s.family.ID, kidID, "Ada", models.AgeRange12to14)
	require.NoError(t, err)
	return s
}

func (s *server) do(method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "192.0.2.1:1234"
	if userID != "" {
		token, err := s.verifier.Issue(userID, time.Hour)
		require.NoError(s.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *server) createSession() string {
	s.t.Helper()
	rec := s.do("POST", "/api/sessions", parentID, map[string]string{"familyId": s.family.ID, "childId": s.child.ID})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp createSessionResponse
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(s.t, resp.SessionID)
	assert.Equal(s.t, models.SessionActive, resp.Session.Status)
	return resp.SessionID
}

func TestSessionFlow(t *testing.T) {
	s := newServer(t, 100)
	id := s.createSession()

	rec := s.do("GET", "/api/sessions/"+id+"/prompt", kidID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var prompt map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prompt))
	assert.Equal(t, coaching.StaticPrompt(models.AgeRange12to14), prompt["prompt"])

	rec = s.do("POST", "/api/sessions/"+id+"/reflect", kidID, map[string]string{"childResponse": "I'll do it tomorrow, I promise"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var reflected reflectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reflected))
	require.NotNil(t, reflected.DetectedPattern)
	assert.Equal(t, models.PatternAvoidanceLoop, *reflected.DetectedPattern)
	assert.Equal(t, 0.8, reflected.PatternConfidence)
	assert.Len(t, reflected.OfflineActions, 3)
	require.Len(t, reflected.Actions, 3)

	rec = s.do("POST", "/api/actions/"+reflected.Actions[0].ID+"/complete", kidID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do("GET", "/api/gamification", kidID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var state models.GamificationState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, 10, state.Gamification.Points)

	rec = s.do("POST", "/api/sessions/"+id+"/complete", kidID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var done models.CoachingSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &done))
	assert.Equal(t, models.SessionCompleted, done.Status)
	assert.Equal(t, "Session completed", done.Summary)

	rec = s.do("POST", "/api/sessions/"+id+"/complete", parentID, map[string]string{"summary": "again"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, service.KindInvalidState, decodeError(t, rec).Kind)

	rec = s.do("POST", "/api/sessions/"+id+"/reflect", kidID, map[string]string{"childResponse": "more"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do("GET", "/api/sessions/"+id+"/actions", parentID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Actions []models.OfflineAction `json:"actions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed.Actions, 3)
}

func TestDashboardEndpoints(t *testing.T) {
	s := newServer(t, 100)
	id := s.createSession()

	rec := s.do("POST", "/api/sessions/"+id+"/reflect", kidID, map[string]string{"childResponse": "It's never perfect"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do("POST", "/api/patterns/events", parentID, map[string]interface{}{
		"sessionId": id, "pattern": "avoidance_loop", "confidence": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do("GET", "/api/patterns/events?familyId="+s.family.ID+"&timeframe=week", parentID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var history models.PatternHistory
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Len(t, history.Events, 2)
	assert.Equal(t, 2, history.Analytics.TotalEvents)
	assert.Equal(t, 50, history.Analytics.PatternBreakdown[models.PatternPerfectionParalysis].Percentage)

	rec = s.do("GET", "/api/sessions/summary?familyId="+s.family.ID+"&limit=5", parentID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var overview models.SessionOverview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &overview))
	assert.Equal(t, 1, overview.Trends.TotalSessions)

	rec = s.do("GET", "/api/patterns/events?familyId="+s.family.ID+"&timeframe=year", parentID, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do("GET", "/api/sessions/summary?familyId="+s.family.ID, kidID, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequestErrors(t *testing.T) {
	s := newServer(t, 100)
	id := s.createSession()

	tests := []struct {
		name   string
		method string
		path   string
		user   string
		body   interface{}
		status int
		kind   string
	}{
		{"missing token", "GET", "/api/sessions/" + id, "", nil, http.StatusUnauthorized, service.KindAuthorization},
		{"stranger", "GET", "/api/sessions/" + id, "someone-else", nil, http.StatusForbidden, service.KindAuthorization},
		{"bad id", "GET", "/api/sessions/not-a-uuid", parentID, nil, http.StatusBadRequest, service.KindValidation},
		{"unknown session", "GET", "/api/sessions/0b1e5a4e-6c1a-4a53-9c1e-1d2f3a4b5c6d", parentID, nil, http.StatusNotFound, service.KindNotFound},
		{"blank reflection", "POST", "/api/sessions/" + id + "/reflect", kidID, map[string]string{"childResponse": "  "}, http.StatusBadRequest, service.KindValidation},
		{"child creates session", "POST", "/api/sessions", kidID, map[string]string{"familyId": s.family.ID, "childId": s.child.ID}, http.StatusForbidden, service.KindAuthorization},
		{"bad confidence", "POST", "/api/patterns/events", parentID, map[string]interface{}{"sessionId": id, "pattern": "avoidance_loop", "confidence": 9}, http.StatusBadRequest, service.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(tt.method, tt.path, tt.user, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.kind, decodeError(t, rec).Kind)
		})
	}
}

func TestReflectIsRateLimited(t *testing.T) {
	s := newServer(t, 1)
	id := s.createSession()

	rec := s.do("POST", "/api/sessions/"+id+"/reflect", kidID, map[string]string{"childResponse": "fine"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do("POST", "/api/sessions/"+id+"/reflect", kidID, map[string]string{"childResponse": "fine"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestHealthz(t *testing.T) {
	s := newServer(t, 1)
	rec := s.do("GET", "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do("GET", "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

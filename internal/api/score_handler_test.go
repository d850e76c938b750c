package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajharbinger/score-api/internal/database"
	apperrors "github.com/ajharbinger/score-api/internal/errors"
	"github.com/ajharbinger/score-api/internal/health"
	"github.com/ajharbinger/score-api/internal/logger"
	"github.com/ajharbinger/score-api/internal/middleware"
	"github.com/ajharbinger/score-api/internal/models"
)

// mockScoreService keeps scores in memory and orders them the way the store does
type mockScoreService struct {
	mu          sync.Mutex
	scores      []models.Score
	nextID      int64
	shouldError bool
}

func (m *mockScoreService) Submit(ctx context.Context, value int) (*models.Score, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldError {
		return nil, stderrors.New("mock error")
	}
	m.nextID++
	score := models.Score{ID: m.nextID, Score: value}
	m.scores = append(m.scores, score)
	return &score, nil
}

func (m *mockScoreService) Top10(ctx context.Context) ([]models.Score, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldError {
		return nil, stderrors.New("mock error")
	}
	out := append([]models.Score{}, m.scores...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > models.TopScoresLimit {
		out = out[:models.TopScoresLimit]
	}
	return out, nil
}

func setupScoreRouter() (*gin.Engine, *mockScoreService, *bytes.Buffer) {
	gin.SetMode(gin.TestMode)

	var logs bytes.Buffer
	svc := &mockScoreService{}
	router := gin.New()
	router.Use(middleware.LoggingMiddleware(logger.New(logger.Options{Output: &logs})))
	RegisterScoreRoutes(router, NewScoreHandler(svc))
	return router, svc, &logs
}

func postScore(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/scores", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func getScores(t *testing.T, router http.Handler) []models.Score {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/scores", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var scores []models.Score
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &scores))
	return scores
}

func values(scores []models.Score) []int {
	out := make([]int, len(scores))
	for i, s := range scores {
		out[i] = s.Score
	}
	return out
}

func TestScoreHandler_SubmitScore(t *testing.T) {
	router, _, _ := setupScoreRouter()

	resp := postScore(router, `{"score": 42}`)
	require.Equal(t, http.StatusOK, resp.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, float64(42), body["score"])
	assert.Contains(t, body, "id")
	assert.Len(t, body, 2, "response should only carry id and score")
}

func TestScoreHandler_SubmitZeroScore(t *testing.T) {
	router, _, _ := setupScoreRouter()

	resp := postScore(router, `{"score": 0}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"id": 1, "score": 0}`, resp.Body.String())
}

func TestScoreHandler_SubmitScoreInvalidBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing score field", body: `{}`},
		{name: "null score", body: `{"score": null}`},
		{name: "string score", body: `{"score": "high"}`},
		{name: "fractional score", body: `{"score": 42.5}`},
		{name: "malformed json", body: `{"score":`},
		{name: "empty body", body: ``},
		{name: "trailing data", body: `{"score": 42} trailing`},
		{name: "second object", body: `{"score": 42}{"score": 43}`},
		{name: "above integer range", body: `{"score": 2147483648}`},
		{name: "below integer range", body: `{"score": -2147483649}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc, logs := setupScoreRouter()

			resp := postScore(router, tt.body)

			assert.Equal(t, http.StatusInternalServerError, resp.Code)
			assert.Equal(t, "Error saving score", resp.Body.String())
			assert.True(t, strings.HasPrefix(resp.Header().Get("Content-Type"), "text/plain"))
			assert.Empty(t, svc.scores)
			assert.Contains(t, logs.String(), "INVALID_INPUT")
		})
	}
}

func TestScoreHandler_SubmitWholeNumberForms(t *testing.T) {
	tests := []struct {
		body string
		want int
	}{
		{body: `{"score": 42.0}`, want: 42},
		{body: `{"score": 1e2}`, want: 100},
		{body: `{"score": -7}`, want: -7},
		{body: `{"score": 2147483647}`, want: 2147483647},
		{body: "{\"score\": 5}\n", want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			router, _, _ := setupScoreRouter()

			resp := postScore(router, tt.body)
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

			var score models.Score
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &score))
			assert.Equal(t, tt.want, score.Score)
		})
	}
}

func TestScoreHandler_SubmitScoreStoreFailure(t *testing.T) {
	router, svc, logs := setupScoreRouter()
	svc.shouldError = true

	resp := postScore(router, `{"score": 42}`)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "Error saving score", resp.Body.String())
	assert.Contains(t, logs.String(), "mock error")
}

func TestScoreHandler_FailureLoggedOnceWithRequestID(t *testing.T) {
	router, svc, logs := setupScoreRouter()
	svc.shouldError = true

	resp := postScore(router, `{"score": 42}`)
	require.Equal(t, http.StatusInternalServerError, resp.Code)

	out := logs.String()
	assert.Equal(t, 1, strings.Count(out, "level=ERROR"), out)
	assert.Contains(t, out, "request_id="+resp.Header().Get(middleware.RequestIDHeader))
	assert.Contains(t, out, "mock error")

	logs.Reset()
	resp = postScore(router, `{"score": 42.5}`)
	require.Equal(t, http.StatusInternalServerError, resp.Code)

	out = logs.String()
	assert.Equal(t, 1, strings.Count(out, "level=ERROR"), out)
	assert.Contains(t, out, "code=INVALID_INPUT")
	assert.Contains(t, out, "operation=SubmitScore")
}

func TestScoreHandler_GetTopScoresOrdering(t *testing.T) {
	router, _, _ := setupScoreRouter()

	for _, body := range []string{`{"score": 10}`, `{"score": 50}`, `{"score": 30}`} {
		require.Equal(t, http.StatusOK, postScore(router, body).Code)
	}

	assert.Equal(t, []int{50, 30, 10}, values(getScores(t, router)))
}

func TestScoreHandler_GetTopScoresLimit(t *testing.T) {
	router, _, _ := setupScoreRouter()

	assert.Empty(t, getScores(t, router))

	for i := 1; i <= 3; i++ {
		postScore(router, fmt.Sprintf(`{"score": %d}`, i))
	}
	assert.Len(t, getScores(t, router), 3)

	for i := 0; i < 12; i++ {
		body, _ := json.Marshal(map[string]int{"score": 100 + i})
		postScore(router, string(body))
	}

	top := getScores(t, router)
	require.Len(t, top, 10)
	assert.Equal(t, 111, top[0].Score)
	assert.Equal(t, 102, top[9].Score)
}

func TestScoreHandler_RepeatedSubmissionsAreDistinct(t *testing.T) {
	router, _, _ := setupScoreRouter()

	first := postScore(router, `{"score": 7}`)
	second := postScore(router, `{"score": 7}`)

	var a, b models.Score
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, getScores(t, router), 2)
}

func TestScoreHandler_GetTopScoresEmptyIsArray(t *testing.T) {
	router, _, _ := setupScoreRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/scores", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())
}

func TestScoreHandler_GetTopScoresStoreFailure(t *testing.T) {
	router, svc, _ := setupScoreRouter()
	svc.shouldError = true

	req := httptest.NewRequest(http.MethodGet, "/api/scores", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "Error fetching scores", resp.Body.String())
}

type fakeHealthChecker struct {
	err error
}

func (f fakeHealthChecker) HealthCheckContext(ctx context.Context) error { return f.err }

func (f fakeHealthChecker) GetStats() database.PoolStats {
	return database.PoolStats{MaxOpenConnections: 25, OpenConnections: 1, Idle: 1}
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantState  string
	}{
		{name: "database reachable", wantStatus: http.StatusOK, wantState: "ok"},
		{name: "database down", err: stderrors.New("down"), wantStatus: http.StatusServiceUnavailable, wantState: "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			RegisterHealthRoutes(router, NewHealthHandler(fakeHealthChecker{err: tt.err}, health.NewMonitor()))

			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, resp.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
			assert.Equal(t, tt.wantState, body["status"])
			assert.NotContains(t, resp.Body.String(), "down", "errors are not exposed to callers")
		})
	}
}

func TestHealthHandler_DegradedStore(t *testing.T) {
	gin.SetMode(gin.TestMode)

	monitor := health.NewMonitor()
	for i := 0; i < 5; i++ {
		monitor.RecordFailure("Submit", stderrors.New("connection reset by peer"))
	}

	router := gin.New()
	RegisterHealthRoutes(router, NewHealthHandler(fakeHealthChecker{}, monitor))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Status string        `json:"status"`
		Store  health.Status `json:"store"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, int64(5), body.Store.ConsecutiveFailures)
	assert.NotContains(t, resp.Body.String(), "connection reset", "raw store errors are not exposed")
}

func TestSetupRoutesRequiresDatabase(t *testing.T) {
	gin.SetMode(gin.TestMode)

	err := SetupRoutes(gin.New(), nil, logger.New(logger.Options{Output: &bytes.Buffer{}}))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInternalError, apperrors.CodeOf(err))
	assert.Equal(t, "SetupRoutes", apperrors.OperationOf(err))
}

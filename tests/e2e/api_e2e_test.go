package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/liftlog/internal/db"
	"github.com/liftlog/internal/metrics"
	"github.com/liftlog/internal/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type e2eSuite struct {
	handler http.Handler
	public  httpClient
	member  httpClient
	baseURL string
	user    *db.User
}

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type localClient struct {
	handler http.Handler
	jar     http.CookieJar
}

func newLocalClient(handler http.Handler, withJar bool) *localClient {
	var jar http.CookieJar
	if withJar {
		if j, err := cookiejar.New(nil); err == nil {
			jar = j
		}
	}
	return &localClient{handler: handler, jar: jar}
}

func (c *localClient) Do(req *http.Request) (*http.Response, error) {
	if c.jar != nil {
		for _, cookie := range c.jar.Cookies(req.URL) {
			req.AddCookie(cookie)
		}
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	resp := w.Result()
	if c.jar != nil {
		c.jar.SetCookies(req.URL, resp.Cookies())
	}
	return resp, nil
}

func TestE2E_WorkoutFlow(t *testing.T) {
	suite := newE2ESuite(t)

	t.Run("requires login", suite.testRequiresLogin)
	suite.login(t)
	t.Run("workout flow", suite.testWorkoutFlow)
	t.Run("metrics", suite.testMetrics)
	t.Run("logout", suite.testLogout)
}

func newE2ESuite(t *testing.T) *e2eSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open("file:e2e?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	if err := gdb.AutoMigrate(db.Models()...); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	user, err := db.EnsureUser(gdb, "lifter", "e2e-secret")
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	m, reg := metrics.NewTestManagerAndRegistry()
	engine := router.SetupRouter(gdb, router.Options{
		SessionSecret: "test-session-secret",
		Metrics:       m,
		Gatherer:      reg,
	})

	return &e2eSuite{
		handler: engine,
		public:  newLocalClient(engine, false),
		member:  newLocalClient(engine, true),
		baseURL: "http://example.test",
		user:    user,
	}
}

func (s *e2eSuite) request(t *testing.T, client httpClient, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, s.baseURL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 && resp.Header.Get("Content-Type") != "" && bytes.HasPrefix(raw, []byte("{")) {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

func (s *e2eSuite) login(t *testing.T) {
	t.Helper()
	status, body := s.request(t, s.member, http.MethodPost, "/api/login", map[string]string{
		"username": "lifter",
		"password": "e2e-secret",
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, float64(s.user.ID), body["id"])
}

func (s *e2eSuite) testRequiresLogin(t *testing.T) {
	status, _ := s.request(t, s.public, http.MethodGet, "/api/training-status", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.request(t, s.public, http.MethodPost, "/api/login", map[string]string{
		"username": "lifter",
		"password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := s.request(t, s.public, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pong", body["message"])
}

func (s *e2eSuite) testWorkoutFlow(t *testing.T) {
	status, body := s.request(t, s.member, http.MethodPost, "/api/templates", map[string]any{
		"name": "Squat", "category": "legs", "defaultWeight": 60, "defaultIncrement": 5,
	})
	require.Equal(t, http.StatusCreated, status)
	templateID := body["template"].(map[string]any)["id"].(float64)

	status, body = s.request(t, s.member, http.MethodPost, "/api/plans", map[string]any{
		"name": "Full body", "days": []string{"A", "B"},
	})
	require.Equal(t, http.StatusCreated, status)
	days := body["plan"].(map[string]any)["days"].([]any)
	require.Len(t, days, 2)
	dayA := days[0].(map[string]any)["id"].(float64)
	dayB := days[1].(map[string]any)["id"].(float64)

	status, body = s.request(t, s.member, http.MethodPost, "/api/exercises", map[string]any{
		"trainingDayId": dayA, "templateId": templateID,
	})
	require.Equal(t, http.StatusCreated, status)
	squat := body["exercise"].(map[string]any)
	squatID := squat["id"].(float64)
	assert.Equal(t, 60.0, squat["weight"])

	status, _ = s.request(t, s.member, http.MethodPost, "/api/exercises", map[string]any{
		"trainingDayId": dayB, "name": "Deadlift", "weight": 80,
	})
	require.Equal(t, http.StatusCreated, status)

	status, body = s.request(t, s.member, http.MethodGet, "/api/training-status", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "A", body["suggestedDay"].(map[string]any)["name"])

	status, body = s.request(t, s.member, http.MethodPost, "/api/workout-logs", map[string]any{
		"exerciseId": squatID, "weight": 60, "setsCompleted": 3, "totalSets": 3, "repsAchieved": true,
	})
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, true, body["suggestIncrease"])
	assert.Equal(t, 5.0, body["increment"])

	status, body = s.request(t, s.member, http.MethodPost, fmt.Sprintf("/api/exercises/%d/increment", int(squatID)), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 65.0, body["exercise"].(map[string]any)["weight"])

	status, body = s.request(t, s.member, http.MethodGet, fmt.Sprintf("/api/exercises/%d/history", int(squatID)), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["history"].([]any), 2)

	status, body = s.request(t, s.member, http.MethodGet, "/api/training-status", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "B", body["suggestedDay"].(map[string]any)["name"])

	status, body = s.request(t, s.member, http.MethodGet, "/api/analytics?period=this_month", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 3.0, body["totalSets"])
	assert.Equal(t, 1.0, body["totalTrainingDays"])
	groups := body["items"].([]any)
	require.Len(t, groups, 2)
	assert.Equal(t, "legs", groups[0].(map[string]any)["category"])

	status, body = s.request(t, s.member, http.MethodGet, fmt.Sprintf("/api/analytics/templates/%d?period=all", int(templateID)), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 65.0, body["currentWeight"])
	assert.Equal(t, 60.0, body["oldWeight"])
	assert.Equal(t, 8.3, body["percentChange"])
	assert.Equal(t, true, body["enoughData"])

	status, _ = s.request(t, s.member, http.MethodDelete, fmt.Sprintf("/api/templates/%d", int(templateID)), nil)
	require.Equal(t, http.StatusNoContent, status)

	status, body = s.request(t, s.member, http.MethodGet, "/api/plans", nil)
	require.Equal(t, http.StatusOK, status)
	plan := body["plans"].([]any)[0].(map[string]any)
	exercise := plan["days"].([]any)[0].(map[string]any)["exercises"].([]any)[0].(map[string]any)
	assert.Nil(t, exercise["templateId"])
	assert.Equal(t, 65.0, exercise["weight"])

	status, _ = s.request(t, s.member, http.MethodDelete, fmt.Sprintf("/api/plans/%d", int(plan["id"].(float64))), nil)
	require.Equal(t, http.StatusNoContent, status)

	status, _ = s.request(t, s.member, http.MethodGet, fmt.Sprintf("/api/exercises/%d/history", int(squatID)), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func (s *e2eSuite) testMetrics(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, s.baseURL+"/metrics", nil)
	require.NoError(t, err)
	resp, err := s.public.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "liftlog_test_weight_changes")
	assert.Contains(t, string(raw), "liftlog_test_workout_logs")
}

func (s *e2eSuite) testLogout(t *testing.T) {
	status, _ := s.request(t, s.member, http.MethodPost, "/api/logout", nil)
	require.Equal(t, http.StatusNoContent, status)

	status, _ = s.request(t, s.member, http.MethodGet, "/api/plans", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTD-web/ems-backend-sub025/internal/auth"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/config"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
	"github.com/GTD-web/ems-backend-sub025/internal/testutil"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type client struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func (c *client) do(method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

// expect issues a request and asserts its status, returning the data payload.
func (c *client) expect(status int, method, path string, body any) json.RawMessage {
	c.t.Helper()
	rec, env := c.do(method, path, body)
	require.Equal(c.t, status, rec.Code, "%s %s: %s", method, path, rec.Body.String())
	return env.Data
}

func (c *client) expectError(status int, code, method, path string, body any) {
	c.t.Helper()
	rec, env := c.do(method, path, body)
	require.Equal(c.t, status, rec.Code, "%s %s: %s", method, path, rec.Body.String())
	require.NotNil(c.t, env.Error)
	assert.Equal(c.t, code, env.Error.Code)
}

func field(t *testing.T, data json.RawMessage, name string) any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m[name]
}

func newTestApp(t *testing.T, mutate func(*config.Config)) (*App, *db.DB) {
	t.Helper()
	database := testutil.NewTestDB(t)
	cfg := config.Default()
	cfg.DatabaseURL = "sqlite::memory:"
	if mutate != nil {
		mutate(&cfg)
	}
	return NewWithDB(cfg, database, slog.New(slog.NewTextHandler(io.Discard, nil))), database
}

func TestOpsEndpoints(t *testing.T) {
	app, _ := newTestApp(t, nil)
	c := &client{t: t, handler: app.Router}

	rec, _ := c.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec, _ = c.do(http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	c.expect(http.StatusOK, http.MethodGet, "/api/v1/periods", nil)
	rec, _ = c.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/api/v1/periods"`)
}

func TestMetricsDisabled(t *testing.T) {
	app, _ := newTestApp(t, func(cfg *config.Config) { cfg.MetricsEnabled = false })
	assert.Nil(t, app.Metrics)
	rec, _ := (&client{t: t, handler: app.Router}).do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestErrorMapping(t *testing.T) {
	app, _ := newTestApp(t, nil)
	c := &client{t: t, handler: app.Router}

	c.expectError(http.StatusBadRequest, "VALIDATION_FAILED", http.MethodGet, "/api/v1/periods/not-a-uuid", nil)
	c.expectError(http.StatusNotFound, "PERIOD_NOT_FOUND", http.MethodGet, "/api/v1/periods/"+uuid.NewString(), nil)
	c.expectError(http.StatusNotFound, "route_not_found", http.MethodGet, "/api/v1/nothing-here", nil)
	c.expectError(http.StatusBadRequest, "INVALID_PAYLOAD", http.MethodPost, "/api/v1/periods", map[string]any{"unknown": true})
	c.expectError(http.StatusBadRequest, "VALIDATION_FAILED", http.MethodPost, "/api/v1/periods", map[string]any{
		"name": "H1", "startDate": "2025-13-45", "endDate": "2025-06-30",
	})
	c.expectError(http.StatusBadRequest, "VALIDATION_FAILED", http.MethodPut, "/api/v1/evaluation-lines/tertiary", map[string]any{
		"periodId": uuid.NewString(), "employeeId": uuid.NewString(), "wbsItemId": uuid.NewString(), "evaluatorId": uuid.NewString(),
	})
}

func TestBodyLimitApplies(t *testing.T) {
	app, _ := newTestApp(t, func(cfg *config.Config) { cfg.MaxBodyBytes = 1024 })
	c := &client{t: t, handler: app.Router}
	c.expectError(http.StatusRequestEntityTooLarge, "payload_too_large", http.MethodPost, "/api/v1/periods", map[string]any{
		"name": strings.Repeat("x", 4096),
	})
}

func TestActorFromToken(t *testing.T) {
	const secret = "test-secret"
	app, _ := newTestApp(t, func(cfg *config.Config) { cfg.JWTSecret = secret })
	c := &client{t: t, handler: app.Router}

	c.expectError(http.StatusUnauthorized, "unauthorized", http.MethodGet, "/api/v1/periods", nil)

	rec, _ := c.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "ops endpoints stay open")

	actor := uuid.NewString()
	token, err := auth.GenerateToken(secret, actor, "HR Admin", time.Hour)
	require.NoError(t, err)
	c.token = token

	data := c.expect(http.StatusCreated, http.MethodPost, "/api/v1/periods", map[string]any{
		"name": "2025 H1", "startDate": "2025-01-01", "endDate": "2025-06-30",
	})
	assert.Equal(t, actor, field(t, data, "createdBy"))
}

func TestEvaluationJourney(t *testing.T) {
	app, database := newTestApp(t, nil)
	c := &client{t: t, handler: app.Router}
	q := database.DB

	employee := testutil.InsertEmployee(t, q, "Lee Evaluatee")
	evaluator := testutil.InsertEmployee(t, q, "Park Evaluator")
	project := testutil.InsertProject(t, q, "Platform")
	wbs := testutil.InsertWbsItem(t, q, project, "Build API")

	data := c.expect(http.StatusCreated, http.MethodPost, "/api/v1/periods", map[string]any{
		"name": "2025 H1", "startDate": "2025-01-01", "endDate": "2025-06-30", "maxSelfEvaluationRate": 100,
	})
	periodID := field(t, data, "id").(string)
	assert.Equal(t, "waiting", field(t, data, "status"))

	data = c.expect(http.StatusOK, http.MethodPost, "/api/v1/periods/"+periodID+"/start", nil)
	assert.Equal(t, "in-progress", field(t, data, "status"))

	c.expect(http.StatusCreated, http.MethodPost, "/api/v1/periods/"+periodID+"/targets", map[string]any{"employeeId": employee})
	c.expectError(http.StatusConflict, "TARGET_ALREADY_REGISTERED", http.MethodPost, "/api/v1/periods/"+periodID+"/targets", map[string]any{"employeeId": employee})

	c.expect(http.StatusCreated, http.MethodPost, "/api/v1/assignments/projects", map[string]any{
		"periodId": periodID, "employeeId": employee, "projectId": project,
	})
	data = c.expect(http.StatusCreated, http.MethodPost, "/api/v1/assignments/wbs", map[string]any{
		"periodId": periodID, "employeeId": employee, "projectId": project, "wbsItemId": wbs,
	})
	var assigned struct {
		Mappings []map[string]any `json:"mappings"`
	}
	require.NoError(t, json.Unmarshal(data, &assigned))
	assert.Len(t, assigned.Mappings, 2)

	data = c.expect(http.StatusOK, http.MethodGet, "/api/v1/periods/"+periodID+"/employees/"+employee+"/assignments", nil)
	var lists struct {
		Projects []map[string]any `json:"projects"`
		Wbs      []map[string]any `json:"wbs"`
	}
	require.NoError(t, json.Unmarshal(data, &lists))
	assert.Len(t, lists.Projects, 1)
	assert.Len(t, lists.Wbs, 1)

	c.expect(http.StatusOK, http.MethodPut, "/api/v1/evaluation-lines/primary", map[string]any{
		"periodId": periodID, "employeeId": employee, "wbsItemId": wbs, "evaluatorId": evaluator,
	})
	data = c.expect(http.StatusOK, http.MethodGet, "/api/v1/evaluation-lines?evaluatorId="+evaluator, nil)
	var byEvaluator []map[string]any
	require.NoError(t, json.Unmarshal(data, &byEvaluator))
	assert.Len(t, byEvaluator, 1)

	c.expect(http.StatusCreated, http.MethodPost, "/api/v1/criteria", map[string]any{"wbsItemId": wbs, "criteria": "Ship v1"})

	data = c.expect(http.StatusOK, http.MethodPut, "/api/v1/self-evaluations", map[string]any{
		"periodId": periodID, "employeeId": employee, "wbsItemId": wbs,
		"selfEvaluationContent": "Delivered the API", "selfEvaluationScore": 90,
	})
	selfID := field(t, data, "id").(string)
	c.expectError(http.StatusBadRequest, "VALIDATION_FAILED", http.MethodPut, "/api/v1/self-evaluations", map[string]any{
		"periodId": periodID, "employeeId": employee, "wbsItemId": wbs, "selfEvaluationScore": 101,
	})

	c.expect(http.StatusOK, http.MethodPost, "/api/v1/self-evaluations/"+selfID+"/submit-to-evaluator", nil)
	c.expectError(http.StatusConflict, "ALREADY_SUBMITTED_TO_EVALUATOR", http.MethodPost, "/api/v1/self-evaluations/"+selfID+"/submit-to-evaluator", nil)

	data = c.expect(http.StatusOK, http.MethodPut, "/api/v1/downward-evaluations/primary", map[string]any{
		"periodId": periodID, "evaluateeId": employee, "wbsId": wbs, "evaluatorId": evaluator,
		"downwardEvaluationContent": "Solid work", "downwardEvaluationScore": 80,
	})
	downwardID := field(t, data, "id").(string)
	c.expectError(http.StatusForbidden, "EVALUATOR_MISMATCH", http.MethodPost, "/api/v1/downward-evaluations/"+downwardID+"/submit",
		map[string]any{"evaluatorId": employee})
	data = c.expect(http.StatusOK, http.MethodPost, "/api/v1/downward-evaluations/"+downwardID+"/submit", map[string]any{"evaluatorId": evaluator})
	assert.Equal(t, true, field(t, data, "isCompleted"))

	data = c.expect(http.StatusOK, http.MethodGet, "/api/v1/periods/"+periodID+"/employees/"+employee+"/status", nil)
	var status struct {
		IsEvaluationTarget bool `json:"isEvaluationTarget"`
		EvaluationLine     struct {
			HasPrimaryEvaluator bool `json:"hasPrimaryEvaluator"`
		} `json:"evaluationLine"`
		WbsCriteria struct {
			Status string `json:"status"`
		} `json:"wbsCriteria"`
		Summary struct {
			SelfToEvaluator struct {
				Completed int `json:"completedCount"`
				Total     int `json:"totalCount"`
			} `json:"selfEvaluationToEvaluator"`
			DownwardPrimary struct {
				Completed int `json:"completedCount"`
			} `json:"primaryDownwardEvaluation"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(data, &status))
	assert.True(t, status.IsEvaluationTarget)
	assert.True(t, status.EvaluationLine.HasPrimaryEvaluator)
	assert.Equal(t, "complete", status.WbsCriteria.Status)
	assert.Equal(t, 1, status.Summary.SelfToEvaluator.Completed)
	assert.Equal(t, 1, status.Summary.SelfToEvaluator.Total)
	assert.Equal(t, 1, status.Summary.DownwardPrimary.Completed)

	c.expect(http.StatusOK, http.MethodGet, "/api/v1/periods/"+periodID+"/employees/"+employee+"/assigned-data", nil)
	data = c.expect(http.StatusOK, http.MethodGet, "/api/v1/periods/"+periodID+"/statuses", nil)
	var statuses []map[string]any
	require.NoError(t, json.Unmarshal(data, &statuses))
	assert.Len(t, statuses, 1)

	rec, _ := c.do(http.MethodGet, "/api/v1/periods/"+periodID+"/employees/"+employee+"/report.pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	c.expect(http.StatusOK, http.MethodPost, "/api/v1/periods/"+periodID+"/complete", nil)
	c.expectError(http.StatusUnprocessableEntity, "PERIOD_COMPLETED", http.MethodPut, "/api/v1/self-evaluations", map[string]any{
		"periodId": periodID, "employeeId": employee, "wbsItemId": wbs, "selfEvaluationScore": 50,
	})
}

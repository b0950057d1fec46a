package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/apperr"
	"github.com/GTD-web/ems-backend-sub025/internal/requestctx"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func TestErrorMapsDomainKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apperr.NotFound("PERIOD_NOT_FOUND", "period not found", "periodId", "p1"), http.StatusNotFound, "PERIOD_NOT_FOUND"},
		{apperr.Conflict("WBS_ALREADY_ASSIGNED", "dup"), http.StatusConflict, "WBS_ALREADY_ASSIGNED"},
		{apperr.Validation("VALIDATION_FAILED", "bad"), http.StatusBadRequest, "VALIDATION_FAILED"},
		{apperr.Forbidden("EVALUATOR_NOT_ASSIGNED", "no"), http.StatusForbidden, "EVALUATOR_NOT_ASSIGNED"},
		{apperr.DomainPolicy("PERIOD_COMPLETED", "closed"), http.StatusUnprocessableEntity, "PERIOD_COMPLETED"},
		{fmt.Errorf("wrapped: %w", apperr.NotFound("TARGET_NOT_FOUND", "gone")), http.StatusNotFound, "TARGET_NOT_FOUND"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(requestctx.WithRequestID(req.Context(), "req-1"))
			rec := httptest.NewRecorder()

			Error(rec, req, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.code, rec.Header().Get(ErrorCodeHeader))
			env := decode(t, rec)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.code, env.Error.Code)
			assert.Equal(t, "req-1", env.RequestID)
		})
	}
}

func TestErrorCarriesContextAsDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, httptest.NewRequest(http.MethodGet, "/", nil), apperr.NotFound("PERIOD_NOT_FOUND", "period not found", "periodId", "p1"))
	env := decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "p1", env.Error.Details["periodId"])
}

func TestErrorInternalHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: password authentication failed"))
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestErrorPayloadTooLarge(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, httptest.NewRequest(http.MethodPost, "/", nil), &http.MaxBytesError{Limit: 10})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestSuccessAndCreated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	Success(rec, req, map[string]string{"id": "x"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	env := decode(t, rec)
	assert.True(t, env.Success)
	assert.Empty(t, rec.Header().Get(ErrorCodeHeader))

	rec = httptest.NewRecorder()
	Created(rec, req, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

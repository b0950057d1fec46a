package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/apperr"
	"github.com/GTD-web/ems-backend-sub025/internal/requestctx"
)

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"2025 H1"}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "2025 H1", dst.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nope":1}`))
	err := DecodeJSON(req, &dst)
	assert.True(t, apperr.IsValidation(err), "unknown field")

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	err = DecodeJSON(req, &dst)
	assert.True(t, apperr.IsValidation(err), "empty body")

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	err = DecodeJSON(req, &dst)
	assert.True(t, apperr.IsValidation(err), "truncated body")
}

func TestDecodeJSONPassesThroughBodyLimit(t *testing.T) {
	var dst map[string]any
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a long enough value"}`))
	req.Body = http.MaxBytesReader(rec, req.Body, 4)
	err := DecodeJSON(req, &dst)
	var tooLarge *http.MaxBytesError
	assert.ErrorAs(t, err, &tooLarge)
}

func TestPathParam(t *testing.T) {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", " abc ")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	assert.Equal(t, "abc", PathParam(req, "id"))
	assert.Empty(t, PathParam(req, "missing"))
}

func TestQueryBool(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?includeExcluded=true&bad=maybe", nil)
	v, err := QueryBool(req, "includeExcluded")
	require.NoError(t, err)
	assert.True(t, v)

	v, err = QueryBool(req, "absent")
	require.NoError(t, err)
	assert.False(t, v)

	_, err = QueryBool(req, "bad")
	assert.True(t, apperr.IsValidation(err))
}

func TestDates(t *testing.T) {
	d, err := RequiredDate("startDate", "2025-01-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), d)

	_, err = RequiredDate("startDate", "")
	assert.True(t, apperr.IsValidation(err))
	_, err = RequiredDate("startDate", "31/01/2025")
	assert.True(t, apperr.IsValidation(err))

	none, err := OptionalDate("requestDeadline", nil)
	require.NoError(t, err)
	assert.Nil(t, none)

	raw := "2025-03-01T09:00:00Z"
	some, err := OptionalDate("requestDeadline", &raw)
	require.NoError(t, err)
	require.NotNil(t, some)
	assert.Equal(t, 2025, some.Year())
}

func TestActor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, requestctx.SystemActor, Actor(req))
	req = req.WithContext(requestctx.WithActor(req.Context(), "a1"))
	assert.Equal(t, "a1", Actor(req))
}

func TestNonNil(t *testing.T) {
	var none []string
	assert.NotNil(t, NonNil(none))
	assert.Len(t, NonNil(none), 0)
	assert.Equal(t, []string{"a"}, NonNil([]string{"a"}))
}

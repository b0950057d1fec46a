package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/apperr"
	"github.com/GTD-web/ems-backend-sub025/internal/requestctx"
)

// DecodeJSON reads the request body into dst. Unknown fields are rejected.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return apperr.Validation("INVALID_PAYLOAD", "request body is required")
		}
		return apperr.Validation("INVALID_PAYLOAD", "invalid request payload", "reason", err.Error())
	}
	return nil
}

// PathParam returns a trimmed chi URL parameter.
func PathParam(r *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(r, name))
}

func Query(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}

// QueryBool parses an optional boolean query parameter.
func QueryBool(r *http.Request, name string) (bool, error) {
	raw := Query(r, name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperr.Validation("VALIDATION_FAILED", name+" must be a boolean", name, raw)
	}
	return v, nil
}

// RequiredDate parses field as a date and reports a validation error when it
// is missing or malformed.
func RequiredDate(field, raw string) (time.Time, error) {
	parsed, ok := parseDate(strings.TrimSpace(raw))
	if !ok {
		return time.Time{}, apperr.Validation("VALIDATION_FAILED", field+" must be a valid date in YYYY-MM-DD format", "field", field)
	}
	return parsed, nil
}

// OptionalDate is RequiredDate for fields that may be omitted.
func OptionalDate(field string, raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := RequiredDate(field, *raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// parseDate accepts a calendar date or a full RFC3339 timestamp.
func parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if parsed, err := time.Parse(time.DateOnly, value); err == nil {
		return parsed, true
	}
	parsed, err := time.Parse(time.RFC3339, value)
	return parsed, err == nil
}

func Actor(r *http.Request) string {
	return requestctx.ActorOrSystem(r.Context())
}

// NonNil keeps empty lists rendering as [] rather than null.
func NonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

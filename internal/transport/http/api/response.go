package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/apperr"
	"github.com/GTD-web/ems-backend-sub025/internal/requestctx"
)

// ErrorCodeHeader carries the failure code so middleware can observe it
// without parsing the body.
const ErrorCodeHeader = "X-Error-Code"

type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type Envelope struct {
	Success   bool       `json:"success"`
	Data      any        `json:"data,omitempty"`
	Error     *ErrorBody `json:"error,omitempty"`
	RequestID string     `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	if payload.Error != nil {
		w.Header().Set(ErrorCodeHeader, payload.Error.Code)
	}
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func Success(w http.ResponseWriter, r *http.Request, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestctx.GetRequestID(r.Context())})
}

func Created(w http.ResponseWriter, r *http.Request, data any) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data, RequestID: requestctx.GetRequestID(r.Context())})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func Fail(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	FailWithDetails(w, r, status, code, message, nil)
}

func FailWithDetails(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]any) {
	WriteJSON(w, status, Envelope{
		Success:   false,
		Error:     &ErrorBody{Code: code, Message: message, Details: details},
		RequestID: requestctx.GetRequestID(r.Context()),
	})
}

// Error renders err. Domain errors keep their status, code and context;
// anything else is logged and reported as an opaque 500.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	if appErr, ok := apperr.As(err); ok {
		FailWithDetails(w, r, appErr.Status(), appErr.Code, appErr.Message, appErr.Context)
		return
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		Fail(w, r, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
		return
	}
	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "requestId", requestctx.GetRequestID(r.Context()), "err", err)
	Fail(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
}

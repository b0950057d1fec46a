// Package apperr defines the error taxonomy shared by every evaluation domain
// service. Each error carries a machine readable code, the HTTP status the
// transport maps it to and the offending identifiers for diagnostics.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindValidation   Kind = "validation"
	KindForbidden    Kind = "forbidden"
	KindDomainPolicy Kind = "domain_policy"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Context map[string]any
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Status returns the HTTP status the boundary should answer with.
func (e *Error) Status() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindValidation:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindDomainPolicy:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// With returns a copy of e with key set in its context payload.
func (e *Error) With(key string, value any) *Error {
	ctx := make(map[string]any, len(e.Context)+1)
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	out := *e
	out.Context = ctx
	return &out
}

// Wrap attaches an underlying cause.
func (e *Error) Wrap(cause error) *Error {
	out := *e
	out.Cause = cause
	return &out
}

func newError(kind Kind, code, message string, kv []any) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Context: pairs(kv)}
}

func NotFound(code, message string, kv ...any) *Error {
	return newError(KindNotFound, code, message, kv)
}

func Conflict(code, message string, kv ...any) *Error {
	return newError(KindConflict, code, message, kv)
}

func Validation(code, message string, kv ...any) *Error {
	return newError(KindValidation, code, message, kv)
}

func Forbidden(code, message string, kv ...any) *Error {
	return newError(KindForbidden, code, message, kv)
}

func DomainPolicy(code, message string, kv ...any) *Error {
	return newError(KindDomainPolicy, code, message, kv)
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}

func IsNotFound(err error) bool     { return IsKind(err, KindNotFound) }
func IsConflict(err error) bool     { return IsKind(err, KindConflict) }
func IsValidation(err error) bool   { return IsKind(err, KindValidation) }
func IsForbidden(err error) bool    { return IsKind(err, KindForbidden) }
func IsDomainPolicy(err error) bool { return IsKind(err, KindDomainPolicy) }

// pairs turns alternating key/value arguments into a context map, the same
// shape slog takes.
func pairs(kv []any) map[string]any {
	if len(kv) == 0 {
		return nil
	}
	out := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		out[key] = kv[i+1]
	}
	return out
}

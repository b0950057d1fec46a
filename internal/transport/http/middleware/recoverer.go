package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/GTD-web/ems-backend-sub025/internal/requestctx"
	"github.com/GTD-web/ems-backend-sub025/internal/transport/http/api"
)

func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				slog.Error("panic recovered",
					"panic", rec,
					"path", r.URL.Path,
					"requestId", requestctx.GetRequestID(r.Context()),
					"stack", string(debug.Stack()),
				)
				api.Fail(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

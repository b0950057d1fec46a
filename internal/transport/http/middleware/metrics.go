package middleware

import (
	"net/http"
	"time"

	"github.com/GTD-web/ems-backend-sub025/internal/platform/metrics"
	"github.com/GTD-web/ems-backend-sub025/internal/transport/http/api"
)

func Metrics(collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if collector == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := record(w)
			next.ServeHTTP(recorder, r)
			collector.Record(r.Method, routePattern(r), recorder.status, time.Since(start))
			if code := recorder.Header().Get(api.ErrorCodeHeader); code != "" {
				collector.RecordFailure(code)
			}
		})
	}
}

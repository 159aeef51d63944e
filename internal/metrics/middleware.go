package metrics

import (
	"net/http"
	"strconv"
)

// HTTPMetricsMiddleware counts requests to a route by response status
func HTTPMetricsMiddleware(collector *Collector, route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)
			collector.httpRequests.WithLabelValues(route, strconv.Itoa(wrapped.statusCode)).Inc()
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

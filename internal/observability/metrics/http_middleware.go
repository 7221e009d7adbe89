package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HTTPMetricsMiddleware instruments requests with Prometheus metrics.
// Paths are normalized to their route shape so hash-bearing URLs do not
// explode label cardinality.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(ww, r)
		dur := time.Since(start)
		ObserveHTTPRequest(r.Method, normalizePath(r.URL.Path), strconv.Itoa(ww.status), dur)
	})
}

func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/api/horoscopes") {
		return path
	}
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	// parts: api horoscopes {hash} [charts {division} | dashas current]
	if len(parts) >= 3 && parts[2] != "generate" {
		parts[2] = ":birthHash"
	}
	if len(parts) >= 5 && parts[3] == "charts" {
		parts[4] = ":division"
	}
	return "/" + strings.Join(parts, "/")
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

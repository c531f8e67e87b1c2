package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"dojohub/internal/adapters/http/perf"
)

// DefaultSlowRequestMs is the default threshold for slow request warnings.
const DefaultSlowRequestMs = 200

// RequestIDHeader carries the per-process request number back to the client.
const RequestIDHeader = "X-Request-Id"

var requestIDCounter uint64

// literalSegments are fixed third path segments that must not be folded into ":id".
var literalSegments = map[string]bool{
	"import":              true,
	"logo":                true,
	"premium-staff-price": true,
	"pix-key":             true,
	"phone":               true,
	"payments":            true,
	"perf":                true,
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader captures the status code and delegates to the underlying ResponseWriter.
func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// routeLabel folds entity ids out of API paths so /api/students/s1 and
// /api/students/s2 are reported as one route.
func routeLabel(method, path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 3 && parts[0] == "api" && !literalSegments[parts[2]] {
		parts[2] = ":id"
	}
	return method + " /" + strings.Join(parts, "/")
}

// Timing returns middleware that logs API request duration and tags each
// response with a request id. Paths outside /api/ (static assets) pass
// through untouched. Requests at or above slowMs log at WARN, the rest at
// DEBUG. A non-positive slowMs uses DefaultSlowRequestMs.
func Timing(collector *perf.Collector, slowMs int) func(http.Handler) http.Handler {
	if slowMs <= 0 {
		slowMs = DefaultSlowRequestMs
	}
	threshold := float64(slowMs)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			reqID := atomic.AddUint64(&requestIDCounter, 1)
			w.Header().Set(RequestIDHeader, strconv.FormatUint(reqID, 10))
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			route := routeLabel(r.Method, r.URL.Path)

			defer func() {
				durationMs := float64(time.Since(start).Microseconds()) / 1000.0
				level := slog.LevelDebug
				event := "request"
				if durationMs >= threshold {
					level = slog.LevelWarn
					event = "slow_request"
				}
				slog.Log(r.Context(), level, event,
					"request_id", reqID,
					"route", route,
					"path", r.URL.Path,
					"status", sw.status,
					"duration_ms", durationMs,
				)
				collector.Record(perf.Entry{
					Kind:       perf.KindRequest,
					Path:       route,
					StatusCode: sw.status,
					Failed:     sw.status >= http.StatusInternalServerError,
					DurationMs: durationMs,
					Timestamp:  start,
				})
			}()

			next.ServeHTTP(sw, r)
		})
	}
}

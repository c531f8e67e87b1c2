package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dojohub/internal/adapters/http/perf"
)

func serveTimed(collector *perf.Collector, method, path string, h http.HandlerFunc) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	Timing(collector, 0)(h).ServeHTTP(rr, httptest.NewRequest(method, path, nil))
	return rr
}

func recordedPaths(c *perf.Collector) map[string]perf.PathStat {
	out := map[string]perf.PathStat{}
	for _, p := range c.Report(time.Now().Add(-time.Minute), 100).Requests.Slowest {
		out[p.Path] = p
	}
	return out
}

// TestRouteLabel verifies ids are folded and fixed sub-routes are kept.
func TestRouteLabel(t *testing.T) {
	tests := []struct {
		method, path, want string
	}{
		{"GET", "/api/students", "GET /api/students"},
		{"PATCH", "/api/students/s-123", "PATCH /api/students/:id"},
		{"DELETE", "/api/posts/9f1c/", "DELETE /api/posts/:id"},
		{"POST", "/api/students/import", "POST /api/students/import"},
		{"PUT", "/api/settings/pix-key", "PUT /api/settings/pix-key"},
		{"GET", "/api/me/payments", "GET /api/me/payments"},
		{"GET", "/api/admin/perf", "GET /api/admin/perf"},
	}
	for _, tt := range tests {
		if got := routeLabel(tt.method, tt.path); got != tt.want {
			t.Errorf("routeLabel(%s %s) = %q, want %q", tt.method, tt.path, got, tt.want)
		}
	}
}

// TestTiming_GroupsByRoute verifies requests for different ids share one entry.
func TestTiming_GroupsByRoute(t *testing.T) {
	collector := perf.NewCollector(100)
	ok := func(w http.ResponseWriter, r *http.Request) {}
	serveTimed(collector, "GET", "/api/students/s1", ok)
	serveTimed(collector, "GET", "/api/students/s2", ok)

	got := recordedPaths(collector)
	if got["GET /api/students/:id"].Count != 2 {
		t.Errorf("recorded paths = %v, want two hits on GET /api/students/:id", got)
	}
}

// TestTiming_SkipsNonAPI verifies static assets are neither timed nor tagged.
func TestTiming_SkipsNonAPI(t *testing.T) {
	collector := perf.NewCollector(100)
	rr := serveTimed(collector, "GET", "/index.html", func(w http.ResponseWriter, r *http.Request) {})

	if collector.TotalRecorded() != 0 {
		t.Errorf("TotalRecorded = %d, want 0", collector.TotalRecorded())
	}
	if rr.Header().Get(RequestIDHeader) != "" {
		t.Error("static responses should not carry a request id")
	}
}

// TestTiming_RequestIDHeader verifies each API response carries a distinct id.
func TestTiming_RequestIDHeader(t *testing.T) {
	ok := func(w http.ResponseWriter, r *http.Request) {}
	first := serveTimed(nil, "GET", "/api/state", ok).Header().Get(RequestIDHeader)
	second := serveTimed(nil, "GET", "/api/state", ok).Header().Get(RequestIDHeader)
	if first == "" || second == "" || first == second {
		t.Errorf("request ids = %q, %q; want two distinct values", first, second)
	}
}

// TestTiming_CapturesStatus verifies explicit and implicit status codes.
func TestTiming_CapturesStatus(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    int
	}{
		{"explicit", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) }, http.StatusNotFound},
		{"implicit", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) }, http.StatusOK},
		{"created", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusCreated) }, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector := perf.NewCollector(10)
			rr := serveTimed(collector, "POST", "/api/tasks", tt.handler)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
			if got := recordedPaths(collector)["POST /api/tasks"]; got.Count != 1 || got.MaxMs < 0 {
				t.Errorf("entry = %+v, want one non-negative timing", got)
			}
		})
	}
}

// TestTiming_NilCollector verifies the middleware works without a collector.
func TestTiming_NilCollector(t *testing.T) {
	rr := serveTimed(nil, "GET", "/api/state", func(w http.ResponseWriter, r *http.Request) {})
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

// TestTiming_ThresholdDefault verifies non-positive thresholds fall back.
func TestTiming_ThresholdDefault(t *testing.T) {
	collector := perf.NewCollector(10)
	for _, ms := range []int{-5, 0, 1} {
		handler := Timing(collector, ms)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/state", nil))
	}
	if collector.TotalRecorded() != 3 {
		t.Errorf("TotalRecorded = %d, want 3", collector.TotalRecorded())
	}
}

// TestTiming_HandlerPanic verifies timing is still recorded when the handler
// panics. Recovery happens in Recover, outside Timing.
func TestTiming_HandlerPanic(t *testing.T) {
	collector := perf.NewCollector(100)
	handler := Timing(collector, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic to propagate, got nil")
		}
		if collector.TotalRecorded() != 1 {
			t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
		}
	}()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/dashboard", nil))
}

// BenchmarkTiming measures per-request overhead.
func BenchmarkTiming(b *testing.B) {
	collector := perf.NewCollector(perf.DefaultRingSize)
	handler := Timing(collector, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest("GET", "/api/students/s1", nil)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}

// BenchmarkTiming_Parallel checks collector contention under concurrent requests.
func BenchmarkTiming_Parallel(b *testing.B) {
	collector := perf.NewCollector(perf.DefaultRingSize)
	handler := Timing(collector, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/state", nil))
		}
	})
}

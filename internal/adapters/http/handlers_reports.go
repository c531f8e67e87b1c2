package web

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"dojohub/internal/adapters/http/middleware"
	"dojohub/internal/application/projections"
	"dojohub/internal/domain/snapshot"
)

// handleDashboard handles GET /api/dashboard
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.GetIdentityFromContext(r.Context())
	result, err := projections.QueryGetDashboard(r.Context(), projections.GetDashboardQuery{
		Viewer: viewer,
		Now:    timeNow(),
	}, projections.GetDashboardDeps{Source: consoleOf(r)})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleExport handles GET /api/export: the whole state in the durable record format.
func handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := snapshot.Encode(consoleOf(r).Snapshot())
	if err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="dojohub-`+timeNow().Format("2006-01-02")+`.json"`)
	_, _ = w.Write(data)
}

// handleImport handles POST /api/import: replaces the whole state with a
// record in the durable format, such as a browser export.
func handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		badRequest(w, "could not read body")
		return
	}
	s, err := snapshot.Decode(data, timeNow())
	if err != nil {
		writeError(w, err)
		return
	}
	if err := consoleOf(r).Replace(r.Context(), s); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"students":    len(s.Students),
		"instructors": len(s.Instructors),
		"payments":    len(s.Payments),
		"posts":       len(s.Posts),
		"products":    len(s.Products),
		"tasks":       len(s.Tasks),
	})
}

// handleAdminPerf handles GET /api/admin/perf?since=1h&top=10
func handleAdminPerf(w http.ResponseWriter, r *http.Request) {
	if perfCollector == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "performance collection disabled"})
		return
	}
	window := time.Hour
	if v := r.URL.Query().Get("since"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			badRequest(w, "since must be a positive duration such as 15m or 2h")
			return
		}
		window = d
	}
	top := 10
	if v := r.URL.Query().Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			badRequest(w, "top must be a positive integer")
			return
		}
		top = n
	}
	writeJSON(w, http.StatusOK, perfCollector.Report(timeNow().Add(-window), top))
}

package web

import (
	"net/http"

	"dojohub/internal/adapters/http/middleware"
	"dojohub/internal/domain/identity"
)

// registerRoutes binds every /api endpoint. Area checks mirror the console
// navigation; writes to people, catalog and settings are admin-only.
func registerRoutes(mux *http.ServeMux) {
	area := func(a string, h http.HandlerFunc) http.Handler {
		return middleware.RequireArea(a)(h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAdmin(h)
	}
	authed := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(h)
	}

	// Session
	mux.HandleFunc("POST /api/login", handleLogin)
	mux.HandleFunc("POST /api/logout", handleLogout)
	mux.HandleFunc("GET /api/session", handleSession)
	mux.HandleFunc("GET /api/csrf", handleCSRFToken)
	mux.HandleFunc("GET /api/logo", handleLogo)
	mux.Handle("GET /api/state", authed(handleState))
	mux.Handle("GET /api/me/payments", authed(handleMyPayments))

	// Students
	mux.Handle("GET /api/students", area(identity.AreaStudents, handleStudentList))
	mux.Handle("GET /api/students/{id}", area(identity.AreaStudents, handleStudentGet))
	mux.Handle("POST /api/students", admin(handleStudentEnroll))
	mux.Handle("PATCH /api/students/{id}", area(identity.AreaStudents, handleStudentUpdate))
	mux.Handle("DELETE /api/students/{id}", admin(handleStudentDelete))
	mux.Handle("POST /api/students/import", admin(handleStudentImport))

	// Instructors
	mux.Handle("GET /api/instructors", area(identity.AreaInstructors, handleInstructorList))
	mux.Handle("POST /api/instructors", area(identity.AreaInstructors, handleInstructorCreate))
	mux.Handle("PATCH /api/instructors/{id}", authed(handleInstructorUpdate))
	mux.Handle("DELETE /api/instructors/{id}", area(identity.AreaInstructors, handleInstructorDelete))

	// Finance
	mux.Handle("GET /api/payments", area(identity.AreaFinance, handlePaymentLedger))
	mux.Handle("POST /api/payments", area(identity.AreaFinance, handlePaymentCreate))
	mux.Handle("PATCH /api/payments/{id}", area(identity.AreaFinance, handlePaymentUpdate))
	mux.Handle("DELETE /api/payments/{id}", area(identity.AreaFinance, handlePaymentDelete))

	// Store
	mux.Handle("GET /api/products", area(identity.AreaStore, handleProductList))
	mux.Handle("POST /api/products", admin(handleProductCreate))
	mux.Handle("PATCH /api/products/{id}", admin(handleProductUpdate))
	mux.Handle("DELETE /api/products/{id}", admin(handleProductDelete))

	// Operations
	mux.Handle("GET /api/tasks", area(identity.AreaTasks, handleTaskList))
	mux.Handle("POST /api/tasks", area(identity.AreaTasks, handleTaskCreate))
	mux.Handle("PATCH /api/tasks/{id}", area(identity.AreaTasks, handleTaskUpdate))
	mux.Handle("DELETE /api/tasks/{id}", area(identity.AreaTasks, handleTaskDelete))

	// Community
	mux.Handle("GET /api/posts", area(identity.AreaCommunity, handlePostList))
	mux.Handle("POST /api/posts", area(identity.AreaCommunity, handlePostCreate))
	mux.Handle("DELETE /api/posts/{id}", area(identity.AreaCommunity, handlePostDelete))

	// Plan and settings
	mux.Handle("GET /api/subscription", authed(handleSubscriptionGet))
	mux.Handle("PUT /api/subscription", admin(handleSubscriptionSet))
	mux.Handle("GET /api/settings", authed(handleSettingsGet))
	mux.Handle("PUT /api/settings/logo", admin(handleSettingsLogo))
	mux.Handle("PUT /api/settings/premium-staff-price", admin(handleSettingsPremiumPrice))
	mux.Handle("PUT /api/settings/pix-key", admin(handleSettingsPixKey))
	mux.Handle("PUT /api/settings/phone", admin(handleSettingsPhone))

	// Reports and maintenance
	mux.Handle("GET /api/dashboard", area(identity.AreaDashboard, handleDashboard))
	mux.Handle("GET /api/export", admin(handleExport))
	mux.Handle("POST /api/import", admin(handleImport))
	mux.Handle("GET /api/admin/perf", admin(handleAdminPerf))
}

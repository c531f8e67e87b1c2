package web

import (
	"net/http"

	"github.com/gorilla/csrf"

	"dojohub/internal/adapters/http/middleware"
	"dojohub/internal/application/orchestrators"
	"dojohub/internal/application/session"
	"dojohub/internal/domain/identity"
	"dojohub/internal/domain/instructor"
	"dojohub/internal/domain/payment"
	"dojohub/internal/domain/post"
	"dojohub/internal/domain/product"
	"dojohub/internal/domain/settings"
	"dojohub/internal/domain/student"
	"dojohub/internal/domain/subscription"
	"dojohub/internal/domain/task"
)

type loginRequest struct {
	Profile    string `json:"profile"`
	Lookup     string `json:"lookup"`
	Passphrase string `json:"passphrase"`
}

type sessionResponse struct {
	Authenticated bool               `json:"authenticated"`
	Identity      *identity.Identity `json:"identity,omitempty"`
	Logo          *string            `json:"logo"`
	Areas         []string           `json:"areas"`
}

func sessionView(gate *session.Gate) sessionResponse {
	resp := sessionResponse{Logo: gate.DisplayLogo(), Areas: []string{}}
	if id, ok := gate.Identity(); ok {
		resp.Authenticated = true
		resp.Identity = &id
		for _, a := range identity.AccessRules() {
			if id.Can(a.Area) {
				resp.Areas = append(resp.Areas, a.Area)
			}
		}
	}
	return resp
}

// handleLogin handles POST /api/login. Each login gets its own gate.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := strictDecode(w, r, &req); err != nil {
		badRequest(w, "invalid JSON")
		return
	}

	gate := newGate()
	_, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Profile:    req.Profile,
		Lookup:     req.Lookup,
		Passphrase: req.Passphrase,
	}, orchestrators.LoginDeps{
		Gate:                gate,
		AdminPassphraseHash: adminPassphraseHash,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := sessions.Create(gate)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	writeJSON(w, http.StatusOK, sessionView(gate))
}

// handleLogout handles POST /api/logout. The console state is not touched.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleSession handles GET /api/session.
func handleSession(w http.ResponseWriter, r *http.Request) {
	gate, ok := middleware.GetGateFromContext(r.Context())
	if !ok {
		gate = newGate()
	}
	writeJSON(w, http.StatusOK, sessionView(gate))
}

// handleCSRFToken handles GET /api/csrf, for clients posting non-JSON bodies.
func handleCSRFToken(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"token": csrf.Token(r)})
}

// handleLogo handles GET /api/logo: the logo the current viewer should see.
func handleLogo(w http.ResponseWriter, r *http.Request) {
	gate, ok := middleware.GetGateFromContext(r.Context())
	if !ok {
		gate = newGate()
	}
	writeJSON(w, http.StatusOK, map[string]*string{"logo": gate.DisplayLogo()})
}

// stateResponse is the read view of the academy. Each people or ledger
// collection is only included when the viewer may open its area; the pix key
// and phone stay so students know where to pay.
type stateResponse struct {
	Students     []student.Student         `json:"students,omitempty"`
	Instructors  []instructor.Instructor   `json:"instructors,omitempty"`
	Tasks        []task.AdminTask          `json:"tasks,omitempty"`
	Payments     []payment.Payment         `json:"payments,omitempty"`
	Posts        []post.Post               `json:"posts"`
	Products     []product.Product         `json:"products"`
	Subscription subscription.Subscription `json:"subscription"`
	Settings     settings.Settings         `json:"settings"`
}

// handleState handles GET /api/state.
func handleState(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.GetIdentityFromContext(r.Context())
	s := consoleOf(r).Snapshot()
	resp := stateResponse{
		Posts:        s.Posts,
		Products:     s.Products,
		Subscription: s.Subscription,
		Settings:     s.Settings,
	}
	if id.Can(identity.AreaStudents) {
		resp.Students = s.Students
	}
	if id.Can(identity.AreaInstructors) {
		resp.Instructors = s.Instructors
	}
	if id.Can(identity.AreaTasks) {
		resp.Tasks = s.Tasks
	}
	if id.Can(identity.AreaFinance) {
		resp.Payments = s.Payments
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleMyPayments handles GET /api/me/payments: a student's or instructor's own charges.
func handleMyPayments(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.GetIdentityFromContext(r.Context())
	var kind payment.PayerKind
	switch {
	case id.IsStudent():
		kind = payment.PayerStudent
	case id.IsStaff():
		kind = payment.PayerInstructor
	default:
		writeJSON(w, http.StatusForbidden, errorBody{Error: "the administrator has no payments"})
		return
	}
	writeJSON(w, http.StatusOK, consoleOf(r).PaymentsFor(kind, id.ProfileID))
}

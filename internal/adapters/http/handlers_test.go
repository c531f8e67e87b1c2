package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dojohub/internal/adapters/http/middleware"
	"dojohub/internal/adapters/http/perf"
	snapshotStore "dojohub/internal/adapters/storage/snapshot"
	"dojohub/internal/adapters/storage/kv"
	"dojohub/internal/application/console"
	"dojohub/internal/application/orchestrators"
	"dojohub/internal/application/projections"
	"dojohub/internal/application/session"
	"dojohub/internal/domain/identity"
	"dojohub/internal/domain/instructor"
	"dojohub/internal/domain/payment"
	"dojohub/internal/domain/snapshot"
	"dojohub/internal/domain/student"
	"dojohub/internal/domain/subscription"
)

const testPassphrase = "oss-sensei"

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

// newTestServer builds the full handler chain over a demo academy.
func newTestServer(t *testing.T) (http.Handler, *console.Console) {
	t.Helper()
	RateLimitPerSecond = 10000
	timeNow = fixedNow

	ctx := context.Background()
	c, err := console.Open(ctx, snapshotStore.NewAdapter(kv.NewMemoryStore()), fixedNow)
	if err != nil {
		t.Fatalf("console.Open: %v", err)
	}
	if _, err := orchestrators.ExecuteSeedDemo(ctx, orchestrators.SeedDemoDeps{Console: c, Now: fixedNow}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	hash, err := orchestrators.HashAdminPassphrase(testPassphrase)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h := NewMux(Options{
		CSRFKey:             bytes.Repeat([]byte{7}, 32),
		SlowRequestMs:       1000,
		AdminPassphraseHash: hash,
	}, c, perf.NewCollector(100))
	return h, c
}

func do(t *testing.T, h http.Handler, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func login(t *testing.T, h http.Handler, profile, lookup, passphrase string) *http.Cookie {
	t.Helper()
	rr := do(t, h, "POST", "/api/login", loginRequest{Profile: profile, Lookup: lookup, Passphrase: passphrase}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("login %s/%s: status %d body %s", profile, lookup, rr.Code, rr.Body.String())
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	t.Fatal("login set no session cookie")
	return nil
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T: %v (body %s)", v, err, rr.Body.String())
	}
	return v
}

// TestLogin_AdminSessionLogout verifies the full session lifecycle.
func TestLogin_AdminSessionLogout(t *testing.T) {
	h, _ := newTestServer(t)

	rr := do(t, h, "POST", "/api/login", loginRequest{Profile: orchestrators.ProfileAdmin, Passphrase: "wrong"}, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("wrong passphrase status = %d, want 401", rr.Code)
	}

	cookie := login(t, h, orchestrators.ProfileAdmin, "", testPassphrase)
	sess := decode[sessionResponse](t, do(t, h, "GET", "/api/session", nil, cookie))
	if !sess.Authenticated || sess.Identity.Role != identity.RoleAdmin {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if !strings.Contains(strings.Join(sess.Areas, ","), identity.AreaFinance) {
		t.Errorf("admin areas %v missing finance", sess.Areas)
	}

	if rr := do(t, h, "POST", "/api/logout", nil, cookie); rr.Code != http.StatusNoContent {
		t.Errorf("logout status = %d, want 204", rr.Code)
	}
	sess = decode[sessionResponse](t, do(t, h, "GET", "/api/session", nil, cookie))
	if sess.Authenticated {
		t.Error("expected session closed after logout")
	}
	if rr := do(t, h, "GET", "/api/state", nil, cookie); rr.Code != http.StatusUnauthorized {
		t.Errorf("state after logout status = %d, want 401", rr.Code)
	}
}

// TestLogin_UnknownProfile verifies a bad profile kind is a 400.
func TestLogin_UnknownProfile(t *testing.T) {
	h, _ := newTestServer(t)
	rr := do(t, h, "POST", "/api/login", loginRequest{Profile: "guest"}, nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

// TestAreaAccess verifies each role reaches only its areas.
func TestAreaAccess(t *testing.T) {
	h, _ := newTestServer(t)
	cookies := map[string]*http.Cookie{
		"admin":   login(t, h, orchestrators.ProfileAdmin, "", testPassphrase),
		"staff":   login(t, h, orchestrators.ProfileStaff, "RAFAEL@demo.dojo", ""),
		"student": login(t, h, orchestrators.ProfileStudent, "demo-s1", ""),
	}
	tests := []struct {
		who  string
		path string
		want int
	}{
		{"", "/api/students", http.StatusUnauthorized},
		{"admin", "/api/payments", http.StatusOK},
		{"staff", "/api/payments", http.StatusForbidden},
		{"staff", "/api/students", http.StatusOK},
		{"staff", "/api/dashboard", http.StatusOK},
		{"student", "/api/students", http.StatusForbidden},
		{"student", "/api/products", http.StatusOK},
		{"student", "/api/posts", http.StatusOK},
		{"student", "/api/tasks", http.StatusForbidden},
		{"staff", "/api/admin/perf", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.who, tt.path), func(t *testing.T) {
			rr := do(t, h, "GET", tt.path, nil, cookies[tt.who])
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

// TestState_HidesLedgerFromStudents verifies payments are only in the admin view.
func TestState_HidesLedgerFromStudents(t *testing.T) {
	h, _ := newTestServer(t)
	admin := decode[stateResponse](t, do(t, h, "GET", "/api/state", nil, login(t, h, orchestrators.ProfileAdmin, "", testPassphrase)))
	if len(admin.Payments) != 3 {
		t.Errorf("admin sees %d payments, want 3", len(admin.Payments))
	}
	stu := decode[stateResponse](t, do(t, h, "GET", "/api/state", nil, login(t, h, orchestrators.ProfileStudent, "demo-s2", "")))
	if len(stu.Payments) != 0 {
		t.Errorf("student sees %d payments, want 0", len(stu.Payments))
	}
	if stu.Settings.AdminPixKey == "" {
		t.Error("student should still see where to pay")
	}
}

// TestState_FiltersCollectionsByArea verifies each role only receives the
// collections of the areas it may open.
func TestState_FiltersCollectionsByArea(t *testing.T) {
	h, _ := newTestServer(t)
	tests := []struct {
		name                                string
		profile, lookup, pass               string
		students, instructors, tasks, posts bool
	}{
		{"admin", orchestrators.ProfileAdmin, "", testPassphrase, true, true, true, true},
		{"staff", orchestrators.ProfileStaff, "demo-i2", "", true, false, false, true},
		{"student", orchestrators.ProfileStudent, "demo-s2", "", false, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, "GET", "/api/state", nil, login(t, h, tt.profile, tt.lookup, tt.pass))
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d", rr.Code)
			}
			raw := rr.Body.String()
			got := decode[stateResponse](t, rr)
			if (len(got.Students) > 0) != tt.students {
				t.Errorf("students = %d, want present=%v", len(got.Students), tt.students)
			}
			if (len(got.Instructors) > 0) != tt.instructors {
				t.Errorf("instructors = %d, want present=%v", len(got.Instructors), tt.instructors)
			}
			if (len(got.Tasks) > 0) != tt.tasks {
				t.Errorf("tasks = %d, want present=%v", len(got.Tasks), tt.tasks)
			}
			if (len(got.Posts) > 0) != tt.posts {
				t.Errorf("posts = %d, want present=%v", len(got.Posts), tt.posts)
			}
			if !tt.instructors && strings.Contains(raw, "compensation") {
				t.Errorf("instructor compensation leaked: %s", raw)
			}
		})
	}
}

// TestMyPayments verifies each payer sees only their own charges.
func TestMyPayments(t *testing.T) {
	h, _ := newTestServer(t)
	got := decode[[]payment.Payment](t, do(t, h, "GET", "/api/me/payments", nil, login(t, h, orchestrators.ProfileStudent, "demo-s2", "")))
	if len(got) != 1 || got[0].ID != "demo-p2" {
		t.Errorf("unexpected payments: %+v", got)
	}
	rr := do(t, h, "GET", "/api/me/payments", nil, login(t, h, orchestrators.ProfileAdmin, "", testPassphrase))
	if rr.Code != http.StatusForbidden {
		t.Errorf("admin status = %d, want 403", rr.Code)
	}
}

// TestStudentLifecycle verifies enroll, charge and cascading delete over HTTP.
func TestStudentLifecycle(t *testing.T) {
	h, c := newTestServer(t)
	admin := login(t, h, orchestrators.ProfileAdmin, "", testPassphrase)

	rr := do(t, h, "POST", "/api/students", map[string]any{"name": "Diego", "email": "diego@dojo.com"}, admin)
	if rr.Code != http.StatusCreated {
		t.Fatalf("enroll status = %d body %s", rr.Code, rr.Body.String())
	}
	created := decode[student.Student](t, rr)
	if created.ID == "" || created.Status != student.StatusActive || created.Belt != student.BeltWhite {
		t.Errorf("unexpected enrolled student: %+v", created)
	}

	rr = do(t, h, "POST", "/api/payments", map[string]any{"payerId": created.ID, "amount": 150}, admin)
	if rr.Code != http.StatusCreated {
		t.Fatalf("payment status = %d body %s", rr.Code, rr.Body.String())
	}
	pay := decode[payment.Payment](t, rr)
	if pay.PayerKind != payment.PayerStudent || pay.Status != payment.StatusPending {
		t.Errorf("unexpected payment: %+v", pay)
	}

	rr = do(t, h, "PATCH", "/api/students/"+created.ID, map[string]any{"belt": student.BeltBlue}, admin)
	if rr.Code != http.StatusOK || decode[student.Student](t, rr).Belt != student.BeltBlue {
		t.Errorf("update status = %d body %s", rr.Code, rr.Body.String())
	}

	if rr := do(t, h, "DELETE", "/api/students/"+created.ID, nil, admin); rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rr.Code)
	}
	for _, p := range c.Payments() {
		if p.PayerID == created.ID {
			t.Errorf("payment %s survived its payer", p.ID)
		}
	}

	ledger := decode[projections.GetPaymentLedgerResult](t, do(t, h, "GET", "/api/payments?payerId="+created.ID+"&payerKind=student", nil, admin))
	if len(ledger.Entries) != 0 {
		t.Errorf("ledger still lists %d entries for deleted student", len(ledger.Entries))
	}
}

// TestEnroll_LimitReached verifies the plan limit answers 409.
func TestEnroll_LimitReached(t *testing.T) {
	h, _ := newTestServer(t)
	admin := login(t, h, orchestrators.ProfileAdmin, "", testPassphrase)
	rr := do(t, h, "PUT", "/api/subscription", subscription.Subscription{Plan: "Faixa Branca", StudentLimit: 2}, admin)
	if rr.Code != http.StatusOK {
		t.Fatalf("subscription status = %d body %s", rr.Code, rr.Body.String())
	}
	rr = do(t, h, "POST", "/api/students", map[string]any{"name": "Excedente"}, admin)
	if rr.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rr.Code)
	}
	rr = do(t, h, "PATCH", "/api/students/demo-s3", map[string]any{"status": student.StatusActive}, admin)
	if rr.Code != http.StatusConflict {
		t.Errorf("reactivation status = %d, want 409", rr.Code)
	}
}

// TestErrors_StatusMapping verifies not-found and validation failures over HTTP.
func TestErrors_StatusMapping(t *testing.T) {
	h, _ := newTestServer(t)
	admin := login(t, h, orchestrators.ProfileAdmin, "", testPassphrase)
	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"patch missing task", "PATCH", "/api/tasks/nope", map[string]any{"title": "x"}, http.StatusNotFound},
		{"delete missing student", "DELETE", "/api/students/nope", nil, http.StatusNotFound},
		{"get missing student", "GET", "/api/students/nope", nil, http.StatusNotFound},
		{"empty product name", "POST", "/api/products", map[string]any{"name": "", "price": 10}, http.StatusBadRequest},
		{"unknown payer", "POST", "/api/payments", map[string]any{"payerId": "ghost", "amount": 10}, http.StatusBadRequest},
		{"unknown field", "POST", "/api/tasks", map[string]any{"title": "x", "colour": "red"}, http.StatusBadRequest},
		{"duplicate id", "POST", "/api/products", map[string]any{"id": "demo-pr1", "name": "Dup", "price": 1}, http.StatusBadRequest},
		{"negative premium price", "PUT", "/api/settings/premium-staff-price", map[string]any{"price": -1}, http.StatusBadRequest},
		{"bad task status", "PATCH", "/api/tasks/demo-t1", map[string]any{"status": "later"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, tt.method, tt.path, tt.body, admin)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

// TestPosts_MarkdownAndModeration verifies rendering, authorship and deletion rights.
func TestPosts_MarkdownAndModeration(t *testing.T) {
	h, _ := newTestServer(t)
	ana := login(t, h, orchestrators.ProfileStudent, "demo-s1", "")
	bruno := login(t, h, orchestrators.ProfileStudent, "demo-s2", "")
	admin := login(t, h, orchestrators.ProfileAdmin, "", testPassphrase)

	rr := do(t, h, "POST", "/api/posts", postRequest{Content: "Treino **pesado** hoje <script>x</script>"}, ana)
	if rr.Code != http.StatusCreated {
		t.Fatalf("post status = %d body %s", rr.Code, rr.Body.String())
	}
	created := decode[postView](t, rr)
	if created.AuthorID != "demo-s1" || created.Role != identity.RoleStudent {
		t.Errorf("author not copied from viewer: %+v", created.Post)
	}
	if !strings.Contains(string(created.HTML), "<strong>pesado</strong>") {
		t.Errorf("markdown not rendered: %s", created.HTML)
	}
	if strings.Contains(string(created.HTML), "<script>") {
		t.Errorf("raw HTML leaked: %s", created.HTML)
	}

	feed := decode[[]postView](t, do(t, h, "GET", "/api/posts", nil, bruno))
	if len(feed) == 0 || feed[0].ID != created.ID {
		t.Fatalf("new post is not first in feed")
	}

	if rr := do(t, h, "DELETE", "/api/posts/"+created.ID, nil, bruno); rr.Code != http.StatusForbidden {
		t.Errorf("other student delete status = %d, want 403", rr.Code)
	}
	if rr := do(t, h, "DELETE", "/api/posts/"+created.ID, nil, admin); rr.Code != http.StatusNoContent {
		t.Errorf("admin delete status = %d, want 204", rr.Code)
	}
}

// TestInstructorSelfEdit verifies staff may brand their own profile only.
func TestInstructorSelfEdit(t *testing.T) {
	h, _ := newTestServer(t)
	rafael := login(t, h, orchestrators.ProfileStaff, "demo-i1", "")
	logo := "data:image/png;base64,AAAA"

	if rr := do(t, h, "PATCH", "/api/instructors/demo-i1", map[string]any{"academyLogo": logo}, rafael); rr.Code != http.StatusOK {
		t.Fatalf("own logo status = %d body %s", rr.Code, rr.Body.String())
	}
	sess := decode[sessionResponse](t, do(t, h, "GET", "/api/session", nil, rafael))
	if sess.Logo == nil || *sess.Logo != logo {
		t.Errorf("session logo = %v, want own branding", sess.Logo)
	}

	if rr := do(t, h, "PATCH", "/api/instructors/demo-i1", map[string]any{"premium": false}, rafael); rr.Code != http.StatusForbidden {
		t.Errorf("own premium flag status = %d, want 403", rr.Code)
	}
	if rr := do(t, h, "PATCH", "/api/instructors/demo-i2", map[string]any{"phone": "1"}, rafael); rr.Code != http.StatusForbidden {
		t.Errorf("other profile status = %d, want 403", rr.Code)
	}
}

// TestSettings verifies the admin setters and the public logo endpoint.
func TestSettings(t *testing.T) {
	h, c := newTestServer(t)
	admin := login(t, h, orchestrators.ProfileAdmin, "", testPassphrase)
	logo := "data:image/png;base64,BBBB"

	steps := []struct {
		path string
		body any
	}{
		{"/api/settings/logo", map[string]any{"logo": logo}},
		{"/api/settings/premium-staff-price", map[string]any{"price": 45.5}},
		{"/api/settings/pix-key", map[string]any{"value": "pix@dojo.com"}},
		{"/api/settings/phone", map[string]any{"value": "5511999999999"}},
	}
	for _, s := range steps {
		if rr := do(t, h, "PUT", s.path, s.body, admin); rr.Code != http.StatusOK {
			t.Fatalf("%s status = %d body %s", s.path, rr.Code, rr.Body.String())
		}
	}
	got := c.Settings()
	if got.AcademyLogo == nil || *got.AcademyLogo != logo || got.PremiumStaffPrice != 45.5 ||
		got.AdminPixKey != "pix@dojo.com" || got.AdminPhone != "5511999999999" {
		t.Errorf("unexpected settings: %+v", got)
	}

	anon := decode[map[string]*string](t, do(t, h, "GET", "/api/logo", nil, nil))
	if anon["logo"] == nil || *anon["logo"] != logo {
		t.Errorf("anonymous logo = %v, want academy logo", anon["logo"])
	}
}

// TestExportImport verifies the record round-trips through the API.
func TestExportImport(t *testing.T) {
	h, c := newTestServer(t)
	admin := login(t, h, orchestrators.ProfileAdmin, "", testPassphrase)
	before := c.Snapshot()

	rr := do(t, h, "GET", "/api/export", nil, admin)
	if rr.Code != http.StatusOK {
		t.Fatalf("export status = %d", rr.Code)
	}
	exported := rr.Body.Bytes()

	if rr := do(t, h, "DELETE", "/api/students/demo-s1", nil, admin); rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rr.Code)
	}

	req := httptest.NewRequest("POST", "/api/import", bytes.NewReader(exported))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(admin)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("import status = %d body %s", rr.Code, rr.Body.String())
	}
	if len(c.Students()) != len(before.Students) || len(c.Payments()) != len(before.Payments) {
		t.Errorf("import did not restore state: %d students %d payments", len(c.Students()), len(c.Payments()))
	}

	req = httptest.NewRequest("POST", "/api/import", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(admin)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("malformed import status = %d, want 400", rr.Code)
	}
}

// TestStudentImport_CSV verifies the CSV import handler, dry run first.
func TestStudentImport_CSV(t *testing.T) {
	_, c := newTestServer(t)
	gate := session.NewGate(c)
	if _, err := orchestrators.ExecuteLogin(context.Background(), orchestrators.LoginInput{
		Profile: orchestrators.ProfileAdmin, Passphrase: testPassphrase,
	}, orchestrators.LoginDeps{Gate: gate, AdminPassphraseHash: adminPassphraseHash}); err != nil {
		t.Fatalf("admin login: %v", err)
	}
	csv := "NAME,EMAIL,BELT\nEduardo,edu@dojo.com,Azul\n"

	run := func(query string) orchestrators.ImportStudentsResult {
		req := httptest.NewRequest("POST", "/api/students/import"+query, strings.NewReader(csv))
		req.Header.Set("Content-Type", "text/csv")
		req = req.WithContext(middleware.ContextWithGate(req.Context(), gate))
		rr := httptest.NewRecorder()
		middleware.RequireAdmin(http.HandlerFunc(handleStudentImport)).ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("import status = %d body %s", rr.Code, rr.Body.String())
		}
		return decode[orchestrators.ImportStudentsResult](t, rr)
	}

	before := len(c.Students())
	if res := run("?dryRun=true"); !res.DryRun || res.Created != 1 {
		t.Errorf("unexpected dry run result: %+v", res)
	}
	if len(c.Students()) != before {
		t.Fatal("dry run wrote students")
	}
	if res := run(""); res.Created != 1 {
		t.Errorf("unexpected import result: %+v", res)
	}
	if len(c.Students()) != before+1 {
		t.Errorf("students = %d, want %d", len(c.Students()), before+1)
	}
}

// TestAdminPerf verifies request timings are exposed to the administrator.
func TestAdminPerf(t *testing.T) {
	h, _ := newTestServer(t)
	admin := login(t, h, orchestrators.ProfileAdmin, "", testPassphrase)
	do(t, h, "GET", "/api/dashboard", nil, admin)

	rr := do(t, h, "GET", "/api/admin/perf?since=87600h&top=5", nil, admin)
	if rr.Code != http.StatusOK {
		t.Fatalf("perf status = %d", rr.Code)
	}
	report := decode[perf.Report](t, rr)
	if report.Requests.Count < 2 {
		t.Errorf("requests = %d, want at least 2", report.Requests.Count)
	}
	if rr := do(t, h, "GET", "/api/admin/perf?since=soon", nil, admin); rr.Code != http.StatusBadRequest {
		t.Errorf("bad since status = %d, want 400", rr.Code)
	}
}

// TestStatusFor verifies the error to status mapping.
func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{console.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", console.ErrDuplicateID), http.StatusBadRequest},
		{student.ErrInvalidBelt, http.StatusBadRequest},
		{instructor.ErrEmptyRole, http.StatusBadRequest},
		{snapshot.ErrMalformedRecord, http.StatusBadRequest},
		{session.ErrUnauthenticated, http.StatusUnauthorized},
		{orchestrators.ErrInvalidCredentials, http.StatusUnauthorized},
		{session.ErrForbidden, http.StatusForbidden},
		{subscription.ErrStudentLimitReached, http.StatusConflict},
		{fmt.Errorf("%w: %w", console.ErrPersist, errors.New("disk full")), 0},
		{errors.New("boom"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestLoadCSRFKey verifies key parsing and the production requirement.
func TestLoadCSRFKey(t *testing.T) {
	valid := strings.Repeat("ab", 32)
	tests := []struct {
		name       string
		hex        string
		production bool
		wantErr    error
	}{
		{"valid", valid, true, nil},
		{"random in dev", "", false, nil},
		{"required in production", "", true, ErrCSRFKeyRequired},
		{"short", "abcd", false, ErrCSRFKeyFormat},
		{"not hex", strings.Repeat("zz", 32), false, ErrCSRFKeyFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := LoadCSRFKey(tt.hex, tt.production)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err == nil && len(key) != 32 {
				t.Errorf("key length = %d, want 32", len(key))
			}
		})
	}
}

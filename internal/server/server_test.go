package server

import (
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/encryptcookie"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/rs/zerolog"

	"smartcare/internal/alerts"
	"smartcare/internal/config"
	"smartcare/internal/events"
	"smartcare/internal/metrics"
	"smartcare/internal/middleware"
	"smartcare/internal/queue"
	"smartcare/internal/sessionid"
	"smartcare/internal/triage"
	"smartcare/internal/upstream"
)

// TestEncryptCookieSessionRoundTrip verifies that the encryptcookie +
// session middleware stack keeps the patient session token stable when a
// client replays encrypted session cookies across multiple requests.
func TestEncryptCookieSessionRoundTrip(t *testing.T) {
	secret := "test-secret-that-is-long-enough-for-production"
	encryptionKey := deriveEncryptionKey(secret)

	app := fiber.New()

	// Mirror the production middleware order:
	// 1. encryptcookie  2. session  3. patient session  4. route handler
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: encryptionKey,
	}))

	sessionMiddleware, _ := session.NewWithStore(session.Config{
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
	app.Use(sessionMiddleware)
	app.Use(middleware.PatientSession(sessionid.NewProvider()))

	app.Get("/token", func(c fiber.Ctx) error {
		return c.SendString(middleware.PatientToken(c))
	})

	// --- Request 1: establish a session ---
	req, _ := http.NewRequest("GET", "/token", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request 1 failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 {
		t.Fatalf("request 1: expected 200, got %d: %s", resp.StatusCode, body)
	}
	first := string(body)
	if !strings.HasPrefix(first, "PAT-") {
		t.Fatalf("request 1: token %q lacks PAT- prefix", first)
	}

	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("request 1: no cookies returned")
	}

	// --- Requests 2 and 3: replay cookies (triggers encryptcookie decryption) ---
	for i := 2; i <= 3; i++ {
		req, _ := http.NewRequest("GET", "/token", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request %d failed (possible encryptcookie panic): %v", i, err)
		}
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != 200 {
			t.Fatalf("request %d: expected 200, got %d: %s", i, resp.StatusCode, body)
		}
		if string(body) != first {
			t.Errorf("request %d: token = %q, want %q", i, body, first)
		}
		if next := resp.Cookies(); len(next) > 0 {
			cookies = next
		}
	}
}

// fakeHMS is an upstream HMS stand-in.
type fakeHMS struct {
	*httptest.Server
	doctorCookies chan string
	updates       chan url.Values
}

func newFakeHMS(t *testing.T) *fakeHMS {
	t.Helper()
	f := &fakeHMS{
		doctorCookies: make(chan string, 10),
		updates:       make(chan url.Values, 10),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/emergency-cases/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"cases": [
			{"id": 1, "token": "SC-0001", "name": "Asha", "symptom": "pain", "priority": "Critical", "status": "Waiting"},
			{"id": 2, "token": "SC-0002", "name": "Ravi", "symptom": "burn", "priority": "High", "status": "In Progress"}
		]}`)
	})
	mux.HandleFunc("/api/doctor-cases/", func(w http.ResponseWriter, r *http.Request) {
		f.doctorCookies <- r.Header.Get("Cookie")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"cases": [
			{"id": 7, "token": "SC-0007", "name": "Meera", "symptom": "fever", "priority": "Medium", "status": "Doctor Assigned", "mode": "home"}
		]}`)
	})
	mux.HandleFunc("/api/hospitals/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"hospitals": [
			{"id": 1, "name": "Apollo Hospital", "address": "Greams Road", "phone": "044-1111", "load": "High", "available_beds": 3, "total_beds": 40},
			{"id": 2, "name": "City General", "address": "Anna Salai", "phone": "044-2222", "load": "Low", "available_beds": 12, "total_beds": 60}
		]}`)
	})
	mux.HandleFunc("/doctor/case/7/update/", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		f.updates <- r.PostForm
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

type testEnv struct {
	app      *fiber.App
	hms      *fakeHMS
	snapshot *queue.Snapshot
}

func newTestEnv(t *testing.T, overrides ...func(*config.Config)) *testEnv {
	t.Helper()
	hms := newFakeHMS(t)

	cfg := &config.Config{
		Env:                "development",
		BaseURL:            "http://localhost:3000",
		SessionSecret:      "test-secret-that-is-long-enough-for-production",
		SessionIdleTimeout: 30 * time.Minute,
		QueuePollInterval:  30 * time.Second,
		AlertDismissAfter:  time.Hour,
		SiteTitle:          "Smart Care HMS",
		SiteFooter:         "Smart Care HMS - Emergency & Home Care",
	}
	for _, o := range overrides {
		o(cfg)
	}

	catalog, err := config.DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	table, err := catalog.TriageTable()
	if err != nil {
		t.Fatalf("TriageTable: %v", err)
	}
	steps := catalog.InstructionCatalog()

	m := metrics.New(nil, zerolog.Nop())
	client := upstream.New(hms.URL, 2*time.Second, zerolog.Nop(), upstream.WithFailureHook(m.RecordUpstreamFailure))
	board := alerts.NewBoard(cfg.AlertDismissAfter, alerts.WithObserver(func(a alerts.Alert) {
		m.RecordAlert(string(a.Kind))
	}))

	d := events.NewDispatcher()
	events.Bind(d, events.Deps{
		Triage:       table,
		Instructions: steps,
		Catalog:      catalog,
		Alerts:       board,
		Hospitals:    client,
		OnClassify: func(symptom string, c triage.Classification) {
			m.RecordTriage(symptom, string(c.Label))
		},
	})

	snapshot := &queue.Snapshot{}
	srv := New(cfg, zerolog.Nop(), WithViewsDir("../../views"), WithStaticDir("../../static"))
	srv.RegisterRoutes(Deps{
		Catalog:      catalog,
		Triage:       table,
		Instructions: steps,
		Events:       d,
		Alerts:       board,
		Snapshot:     snapshot,
		Upstream:     client,
		Sessions:     sessionid.NewProvider(),
		Metrics:      m.Handler(),
	})

	return &testEnv{app: srv.App, hms: hms, snapshot: snapshot}
}

type request struct {
	method  string
	target  string
	form    url.Values
	htmx    bool
	header  map[string]string
	cookies []*http.Cookie
}

func (e *testEnv) do(t *testing.T, r request) (*http.Response, string) {
	t.Helper()
	var body io.Reader
	if r.form != nil {
		body = strings.NewReader(r.form.Encode())
	}
	req := httptest.NewRequest(r.method, r.target, body)
	if r.form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if r.htmx {
		req.Header.Set("HX-Request", "true")
	}
	for k, v := range r.header {
		req.Header.Set(k, v)
	}
	for _, c := range r.cookies {
		req.AddCookie(c)
	}

	resp, err := e.app.Test(req, fiber.TestConfig{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("%s %s: %v", r.method, r.target, err)
	}
	b, _ := io.ReadAll(resp.Body)
	return resp, string(b)
}

func TestPages(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		target string
		want   []string
	}{
		{"/", []string{`id="bookingForm"`, `id="careMode"`, `id="helpStatus"`, `data-feature="pre-alert"`, `data-feature="home-care"`}},
		{"/home-care/", []string{`id="bookingForm"`, `<option value="home" selected>`}},
		{"/patient/", []string{`id="instructionList"`, `hx-get="/instructions/burn"`, "Chest Pain / Breathing Difficulty"}},
		{"/emergency-queue/", []string{`id="queueTable"`, `hx-trigger="every 30000ms"`, "SC-0001", "Waiting: 1"}},
		{"/hospitals/", []string{`id="hospitalSearch"`, "Apollo Hospital", "City General"}},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			resp, body := env.do(t, request{method: "GET", target: tt.target})
			if resp.StatusCode != 200 {
				t.Fatalf("status = %d: %s", resp.StatusCode, body)
			}
			if !strings.Contains(body, "<title>") {
				t.Error("page not wrapped in layout")
			}
			for _, w := range tt.want {
				if !strings.Contains(body, w) {
					t.Errorf("body missing %q", w)
				}
			}
		})
	}
}

func TestBooking(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		careMode string
		want     []string
	}{
		{"home", []string{`class="alert alert-success mt-4"`, "<strong>Help is on the way!</strong> A doctor has been assigned."}},
		{"hospital", []string{`class="alert alert-info mt-4"`, "<strong>Hospital Assistance Confirmed</strong><br>Please proceed to the emergency ward."}},
	}

	for _, tt := range tests {
		t.Run(tt.careMode, func(t *testing.T) {
			resp, body := env.do(t, request{
				method: "POST", target: "/booking", htmx: true,
				form: url.Values{"careMode": {tt.careMode}, "name": {"Asha"}},
			})
			if resp.StatusCode != 200 {
				t.Fatalf("status = %d: %s", resp.StatusCode, body)
			}
			if strings.Contains(body, "<title>") {
				t.Error("fragment rendered with layout")
			}
			for _, w := range tt.want {
				if !strings.Contains(body, w) {
					t.Errorf("body %q missing %q", body, w)
				}
			}
		})
	}
}

func TestFeatureRedirects(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, request{method: "POST", target: "/features/home-care", htmx: true})
	if got := resp.Header.Get("HX-Redirect"); got != "/home-care/" {
		t.Errorf("HX-Redirect = %q, want /home-care/", got)
	}

	resp, _ = env.do(t, request{method: "POST", target: "/features/instructions"})
	if resp.StatusCode/100 != 3 || resp.Header.Get("Location") != "/patient/#instructions" {
		t.Errorf("non-htmx redirect = %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	resp, _ = env.do(t, request{method: "POST", target: "/features/teleport", htmx: true})
	if resp.StatusCode != fiber.StatusNoContent {
		t.Errorf("unknown feature status = %d, want 204", resp.StatusCode)
	}
}

var alertIDPattern = regexp.MustCompile(`id="alert-([0-9a-f-]{36})"`)

func TestFeatureAlertLifecycle(t *testing.T) {
	env := newTestEnv(t)
	const msg = "Doctors are notified before patient arrival."

	resp, body := env.do(t, request{method: "POST", target: "/features/pre-alert", htmx: true})
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, msg) || !strings.Contains(body, "alert alert-info alert-dismissible fade show position-fixed") {
		t.Fatalf("alert fragment = %q", body)
	}
	if !strings.Contains(body, `data-dismiss-after="3600000"`) {
		t.Errorf("alert fragment lacks dismiss delay: %q", body)
	}
	m := alertIDPattern.FindStringSubmatch(body)
	if m == nil {
		t.Fatalf("no alert id in %q", body)
	}
	cookies := resp.Cookies()

	// A second click stacks another alert.
	_, _ = env.do(t, request{method: "POST", target: "/features/pre-alert", htmx: true, cookies: cookies})
	_, body = env.do(t, request{method: "GET", target: "/alerts", cookies: cookies})
	if n := strings.Count(body, msg); n != 2 {
		t.Fatalf("active alerts show message %d times, want 2", n)
	}

	// Another session sees none of them.
	_, body = env.do(t, request{method: "GET", target: "/alerts"})
	if strings.Contains(body, msg) {
		t.Error("alerts leaked into another session")
	}

	resp, _ = env.do(t, request{method: "DELETE", target: "/alerts/" + m[1], cookies: cookies})
	if resp.StatusCode != 200 {
		t.Fatalf("dismiss status = %d", resp.StatusCode)
	}
	_, body = env.do(t, request{method: "GET", target: "/alerts", cookies: cookies})
	if n := strings.Count(body, msg); n != 1 {
		t.Errorf("after dismiss message shown %d times, want 1", n)
	}

	resp, _ = env.do(t, request{method: "DELETE", target: "/alerts/not-a-uuid", cookies: cookies})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", resp.StatusCode)
	}
}

var dismissAfterPattern = regexp.MustCompile(`data-dismiss-after="(\d+)"`)

func TestAlertsRerenderWithTimeLeft(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.Config) {
		cfg.AlertDismissAfter = 2 * time.Second
	})

	resp, body := env.do(t, request{method: "POST", target: "/features/pre-alert", htmx: true})
	if !strings.Contains(body, `data-dismiss-after="2000"`) {
		t.Fatalf("fresh alert fragment = %q, want full 2000ms delay", body)
	}
	cookies := resp.Cookies()

	time.Sleep(500 * time.Millisecond)

	_, body = env.do(t, request{method: "GET", target: "/alerts", cookies: cookies})
	m := dismissAfterPattern.FindStringSubmatch(body)
	if m == nil {
		t.Fatalf("no dismiss delay in %q", body)
	}
	left, err := strconv.Atoi(m[1])
	if err != nil {
		t.Fatalf("parse %q: %v", m[1], err)
	}
	if left <= 0 || left > 1500 {
		t.Errorf("re-rendered data-dismiss-after = %d, want in (0, 1500]", left)
	}
}

func TestInstructions(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, request{method: "GET", target: "/instructions/burn", htmx: true})
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	for _, step := range []string{"Cool burn with running water", "Do not apply ointments", "Cover with clean cloth"} {
		if !strings.Contains(body, "<li class=\"list-group-item\">"+step+"</li>") {
			t.Errorf("missing step %q in %q", step, body)
		}
	}

	resp, body = env.do(t, request{method: "GET", target: "/instructions/routine", htmx: true})
	if resp.StatusCode != fiber.StatusNoContent || body != "" {
		t.Errorf("routine = %d %q, want empty 204", resp.StatusCode, body)
	}
}

func TestQueuePageSubSecondPoll(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.Config) {
		cfg.QueuePollInterval = 500 * time.Millisecond
	})

	_, body := env.do(t, request{method: "GET", target: "/emergency-queue/"})
	if !strings.Contains(body, `hx-trigger="every 500ms"`) {
		t.Errorf("queue page poll trigger missing 500ms: %q", body)
	}
	if strings.Contains(body, "every 0") {
		t.Error("queue page polls with no interval")
	}
}

func TestQueueRows(t *testing.T) {
	env := newTestEnv(t)

	// Before the poller runs, rows are fetched live.
	_, body := env.do(t, request{method: "GET", target: "/emergency-queue/rows", htmx: true})
	if !strings.Contains(body, `<tr class="table-danger"><td>1</td><td>SC-0001</td>`) {
		t.Errorf("live rows = %q", body)
	}
	if !strings.Contains(body, `<tr class="table-warning"><td>2</td><td>SC-0002</td>`) {
		t.Errorf("live rows = %q", body)
	}

	env.snapshot.Replace([]queue.CaseRecord{{Token: "SC-0099", Priority: "Low", Status: "Waiting"}}, time.Now())

	_, body = env.do(t, request{method: "GET", target: "/emergency-queue/rows", htmx: true})
	if !strings.Contains(body, `<tr class="table-success"><td>1</td><td>SC-0099</td>`) || strings.Contains(body, "SC-0001") {
		t.Errorf("snapshot rows = %q", body)
	}

	_, body = env.do(t, request{method: "GET", target: "/emergency-queue/rows?live=1", htmx: true})
	if !strings.Contains(body, "SC-0001") || strings.Contains(body, "SC-0099") {
		t.Errorf("live=1 rows = %q", body)
	}

	env.snapshot.Replace(nil, time.Now())
	_, body = env.do(t, request{method: "GET", target: "/emergency-queue/rows", htmx: true})
	if strings.Contains(body, "<tr") {
		t.Errorf("empty snapshot rendered rows: %q", body)
	}
}

func TestHospitalSearch(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		query   string
		visible string
	}{
		{"", `data-visible="2"`},
		{"APOLLO", `data-visible="1"`},
		{"anna salai", `data-visible="1"`},
		{"emergency load: low", `data-visible="1"`},
		{"beds: 3 / 40", `data-visible="1"`},
		{"nowhere", `data-visible="0"`},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			_, body := env.do(t, request{method: "GET", target: "/hospitals/?q=" + url.QueryEscape(tt.query), htmx: true})
			if strings.Contains(body, "<title>") {
				t.Error("htmx search rendered with layout")
			}
			if !strings.Contains(body, tt.visible) {
				t.Errorf("body missing %s: %q", tt.visible, body)
			}
			// Hidden cards stay in the DOM.
			if n := strings.Count(body, "hospital-card"); n != 2 {
				t.Errorf("rendered %d cards, want 2", n)
			}
		})
	}
}

func TestDoctorDashboard(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, request{
		method: "GET", target: "/doctor/dashboard/",
		header: map[string]string{"Cookie": "sessionid=doc-session; csrftoken=tok123"},
	})
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	for _, w := range []string{"SC-0007", `action="/doctor/case/7/update/"`, `value="tok123"`, `<option value="Doctor Assigned" selected>`} {
		if !strings.Contains(body, w) {
			t.Errorf("dashboard missing %q", w)
		}
	}

	select {
	case cookie := <-env.hms.doctorCookies:
		if !strings.Contains(cookie, "sessionid=doc-session") {
			t.Errorf("upstream cookie = %q", cookie)
		}
	default:
		t.Error("upstream doctor cases not requested")
	}
}

func TestDoctorUpdateCase(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, request{
		method: "POST", target: "/doctor/case/7/update/",
		form: url.Values{"status": {"Completed"}, "csrfmiddlewaretoken": {"tok123"}},
	})
	if resp.StatusCode/100 != 3 || resp.Header.Get("Location") != "/doctor/dashboard/" {
		t.Errorf("update = %d %q, want redirect to dashboard", resp.StatusCode, resp.Header.Get("Location"))
	}

	select {
	case form := <-env.hms.updates:
		if form.Get("status") != "Completed" || form.Get("csrfmiddlewaretoken") != "tok123" {
			t.Errorf("upstream form = %v", form)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("status not forwarded upstream")
	}

	tests := []struct {
		name   string
		target string
		status string
	}{
		{"bad id", "/doctor/case/abc/update/", "Completed"},
		{"unknown status", "/doctor/case/7/update/", "Teleported"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := env.do(t, request{method: "POST", target: tt.target, form: url.Values{"status": {tt.status}}})
			if resp.StatusCode != fiber.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestSessionLifecycle(t *testing.T) {
	env := newTestEnv(t)

	token := func(cookies []*http.Cookie) (string, []*http.Cookie) {
		resp, body := env.do(t, request{method: "GET", target: "/api/session", cookies: cookies})
		var payload struct {
			Data struct {
				Token string `json:"token"`
			} `json:"data"`
		}
		if err := json.Unmarshal([]byte(body), &payload); err != nil {
			t.Fatalf("invalid JSON %q: %v", body, err)
		}
		return payload.Data.Token, resp.Cookies()
	}

	first, cookies := token(nil)
	if !strings.HasPrefix(first, "PAT-") {
		t.Fatalf("token = %q", first)
	}
	if again, _ := token(cookies); again != first {
		t.Errorf("same session token changed: %q -> %q", first, again)
	}

	time.Sleep(2 * time.Millisecond)
	resp, _ := env.do(t, request{method: "POST", target: "/session/end", htmx: true, cookies: cookies})
	if resp.Header.Get("HX-Redirect") != "/" {
		t.Errorf("end session HX-Redirect = %q", resp.Header.Get("HX-Redirect"))
	}

	if next, _ := token(cookies); next == first {
		t.Errorf("token survived session end: %q", next)
	}
}

func TestTriageAPIAndMetrics(t *testing.T) {
	env := newTestEnv(t)

	_, body := env.do(t, request{method: "GET", target: "/api/triage/trauma"})
	if !strings.Contains(body, `"data":{"symptom":"trauma","priority":"High","score":2}`) {
		t.Errorf("triage body = %s", body)
	}

	resp, body := env.do(t, request{method: "GET", target: "/api/nothing-here"})
	if resp.StatusCode != 404 || !strings.Contains(body, `"status":"error"`) {
		t.Errorf("api 404 = %d %s", resp.StatusCode, body)
	}

	resp, body = env.do(t, request{method: "GET", target: "/metrics"})
	if resp.StatusCode != 200 {
		t.Fatalf("metrics status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, `smartcare_triage_requests_total{priority="High"} 1`) {
		t.Errorf("metrics missing triage counter")
	}
}

func TestProbes(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, request{method: "GET", target: "/healthz"})
	if resp.StatusCode != 200 {
		t.Errorf("healthz = %d", resp.StatusCode)
	}
	resp, _ = env.do(t, request{method: "GET", target: "/readyz"})
	if resp.StatusCode != 200 {
		t.Errorf("readyz = %d", resp.StatusCode)
	}

	env.hms.Close()
	resp, body := env.do(t, request{method: "GET", target: "/readyz"})
	if resp.StatusCode != fiber.StatusServiceUnavailable || !strings.Contains(body, "upstream unavailable") {
		t.Errorf("readyz with upstream down = %d %s", resp.StatusCode, body)
	}
}

func TestUpstreamDownDegradesToEmpty(t *testing.T) {
	env := newTestEnv(t)
	env.hms.Close()

	resp, body := env.do(t, request{method: "GET", target: "/hospitals/?q=apollo", htmx: true})
	if resp.StatusCode != 200 || !strings.Contains(body, `data-visible="0"`) || !strings.Contains(body, "No hospitals available.") {
		t.Errorf("hospitals with upstream down = %d %q", resp.StatusCode, body)
	}

	resp, body = env.do(t, request{method: "GET", target: "/emergency-queue/rows", htmx: true})
	if resp.StatusCode != 200 || strings.Contains(body, "<tr") {
		t.Errorf("queue with upstream down = %d %q", resp.StatusCode, body)
	}

	_, body = env.do(t, request{method: "GET", target: "/metrics"})
	if !strings.Contains(body, `smartcare_upstream_fetch_failures_total{endpoint="/api/hospitals/"} 1`) {
		t.Errorf("upstream failure not counted")
	}
}

func TestNotFoundPage(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, request{method: "GET", target: "/no-such-page"})
	if resp.StatusCode != 404 {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if !strings.Contains(body, "Back to home") {
		t.Errorf("error page not rendered: %q", body)
	}
}

func TestApplyTLSSettings(t *testing.T) {
	src, err := buildTLSConfig(&config.Config{})
	if err != nil {
		t.Fatalf("buildTLSConfig: %v", err)
	}
	src.ClientAuth = tls.RequireAndVerifyClientCert

	cert := tls.Certificate{Certificate: [][]byte{{0x01}}}
	dst := &tls.Config{Certificates: []tls.Certificate{cert}}
	applyTLSSettings(dst, src)

	if dst.MinVersion != tls.VersionTLS12 {
		t.Errorf("MinVersion = %x, want TLS 1.2", dst.MinVersion)
	}
	if dst.ClientAuth != tls.RequireAndVerifyClientCert {
		t.Errorf("ClientAuth = %v", dst.ClientAuth)
	}
	if len(dst.Certificates) != 1 {
		t.Errorf("listener certificates dropped: %d left", len(dst.Certificates))
	}
}

func TestBuildTLSConfig_BadCAFile(t *testing.T) {
	if _, err := buildTLSConfig(&config.Config{TLSCAFile: "/nonexistent/ca.pem"}); err == nil {
		t.Error("expected error for missing CA file")
	}
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/orderdesk/request-dashboard/internal/biz/domain"
	"github.com/orderdesk/request-dashboard/internal/biz/usecase"
)

// MockRequestRepo implements repo.RequestRepo for testing
type MockRequestRepo struct {
	records []domain.Record
	err     error
	calls   int
}

func (m *MockRequestRepo) FetchAll(ctx context.Context, collection string) ([]domain.Record, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

func (m *MockRequestRepo) Close() error { return nil }

func testRecords() []domain.Record {
	return []domain.Record{
		{ID: "req-1", Fields: map[string]any{
			domain.FieldCustomerName: "Zoë Adams",
			domain.FieldPhone:        "+1 (555) 123-4567",
			domain.FieldCourier:      "DHL",
			domain.FieldProductName:  []any{"Lamp", "Desk"},
			domain.FieldQuantity:     float64(2),
		}},
		{ID: "req-2", Fields: map[string]any{
			domain.FieldCustomerName: "bob Brown",
			domain.FieldPhone:        "+44 20 7946 0018",
		}},
		{ID: "req-3", Fields: map[string]any{
			domain.FieldCustomerName: "Alice Chen",
			domain.FieldPhone:        "555-0199",
			domain.FieldCourier:      "FedEx",
		}},
	}
}

func newTestMux(t *testing.T, repo *MockRequestRepo) *http.ServeMux {
	t.Helper()
	mux, _ := newTestServer(t, repo)
	return mux
}

func newTestServer(t *testing.T, repo *MockRequestRepo) (*http.ServeMux, *usecase.SessionUsecase) {
	t.Helper()
	sessionUC := usecase.NewSessionUsecase(repo, nil, usecase.SessionOptions{
		Collection: "user_request",
		Session:    domain.SessionConfig{IdleTimeout: time.Hour, ResetHour: -1},
	}, nil)
	formatter := usecase.NewFormatter(time.UTC, "", "")
	tableUC := usecase.NewTableUsecase(usecase.DefaultTableConfig(), usecase.NewSorter(language.English), formatter)
	composer := usecase.NewComposer(usecase.DefaultComposeConfig, formatter)

	mux := http.NewServeMux()
	NewServer(NewSessions(sessionUC), tableUC, composer, nil).Register(mux)
	return mux, sessionUC
}

func get(mux http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) usecase.View {
	t.Helper()
	var view usecase.View
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	return view
}

func rowIDs(view usecase.View) []string {
	out := make([]string, 0, len(view.Rows))
	for _, r := range view.Rows {
		out = append(out, r.ID)
	}
	return out
}

func TestHandleListRequests(t *testing.T) {
	mux := newTestMux(t, &MockRequestRepo{records: testRecords()})

	w := get(mux, "/api/requests")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	view := decodeView(t, w)
	if len(view.Columns) != 9 {
		t.Errorf("Expected 9 columns, got %d", len(view.Columns))
	}
	if got := strings.Join(rowIDs(view), ","); got != "req-1,req-2,req-3" {
		t.Errorf("Expected source order, got %s", got)
	}
	if view.Total != 3 {
		t.Errorf("Expected total 3, got %d", view.Total)
	}
}

func TestHandleListRequests_QuerySortMode(t *testing.T) {
	mux := newTestMux(t, &MockRequestRepo{records: testRecords()})

	tests := []struct {
		path    string
		want    string
		columns int
	}{
		{"/api/requests?q=555", "req-1,req-3", 9},
		{"/api/requests?sort=Customer-Name", "req-3,req-2,req-1", 9},
		{"/api/requests?sort=Customer-Name&dir=desc", "req-1,req-2,req-3", 9},
		{"/api/requests?sort=Courier", "req-1,req-3,req-2", 9},
		{"/api/requests?sort=Courier&dir=desc", "req-3,req-1,req-2", 9},
		{"/api/requests?sort=Quantity&dir=desc", "req-1,req-2,req-3", 9},
		{"/api/requests?mode=full", "req-1,req-2,req-3", 12},
		{"/api/requests?q=nobody", "", 9},
	}

	for _, tt := range tests {
		w := get(mux, tt.path)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", tt.path, w.Code)
		}
		view := decodeView(t, w)
		if got := strings.Join(rowIDs(view), ","); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.path, tt.want, got)
		}
		if len(view.Columns) != tt.columns {
			t.Errorf("%s: expected %d columns, got %d", tt.path, tt.columns, len(view.Columns))
		}
	}
}

func TestHandleListRequests_BadParams(t *testing.T) {
	mux := newTestMux(t, &MockRequestRepo{records: testRecords()})

	for _, path := range []string{
		"/api/requests?mode=wide",
		"/api/requests?sort=Shoe-Size",
		"/api/requests?sort=Courier&dir=up",
	} {
		if w := get(mux, path); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", path, w.Code)
		}
	}
}

func TestHandleListRequests_FetchFailure(t *testing.T) {
	mux := newTestMux(t, &MockRequestRepo{err: errors.New("permission denied")})

	w := get(mux, "/api/requests")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("Expected status 502, got %d", w.Code)
	}

	var result map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if result["error"] != "failed to load requests" {
		t.Errorf("Unexpected error message: %q", result["error"])
	}

	if w := get(mux, "/api/requests/req-1"); w.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502 for a row lookup, got %d", w.Code)
	}
}

func TestSessionCookie_ReusesBatch(t *testing.T) {
	repo := &MockRequestRepo{records: testRecords()}
	mux := newTestMux(t, repo)

	// A stale cookie gets a fresh session of its own
	w := get(mux, "/api/requests", &http.Cookie{Name: SessionCookie, Value: "stale"})
	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookie {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("Expected session cookie")
	}

	get(mux, "/api/requests?q=bob", cookie)
	get(mux, "/api/requests/req-2", cookie)
	if repo.calls != 1 {
		t.Errorf("Expected one fetch per session, got %d", repo.calls)
	}
}

func TestCookielessCalls_ShareSession(t *testing.T) {
	repo := &MockRequestRepo{records: testRecords()}
	mux, sessionUC := newTestServer(t, repo)

	for i := 0; i < 3; i++ {
		w := get(mux, "/api/requests")
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		for _, c := range w.Result().Cookies() {
			if c.Name == SessionCookie {
				t.Error("Expected no session cookie for the shared session")
			}
		}
	}
	get(mux, "/api/requests/req-1")

	if repo.calls != 1 {
		t.Errorf("Expected one fetch for cookie-less callers, got %d", repo.calls)
	}
	if n := sessionUC.Count(); n != 1 {
		t.Errorf("Expected 1 live session, got %d", n)
	}
}

func TestCookielessCalls_RefetchAfterFailure(t *testing.T) {
	repo := &MockRequestRepo{err: errors.New("unavailable")}
	mux := newTestMux(t, repo)

	if w := get(mux, "/api/requests"); w.Code != http.StatusBadGateway {
		t.Fatalf("Expected status 502, got %d", w.Code)
	}

	repo.err = nil
	repo.records = testRecords()

	w := get(mux, "/api/requests")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 after recovery, got %d", w.Code)
	}
	if got := len(decodeView(t, w).Rows); got != 3 {
		t.Errorf("Expected 3 rows, got %d", got)
	}
}

func TestHandleGetRequest(t *testing.T) {
	mux := newTestMux(t, &MockRequestRepo{records: testRecords()})

	w := get(mux, "/api/requests/req-1")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var row usecase.ViewRow
	if err := json.Unmarshal(w.Body.Bytes(), &row); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if row.ID != "req-1" {
		t.Errorf("Expected req-1, got %s", row.ID)
	}
	if len(row.Cells) != 12 {
		t.Fatalf("Expected 12 cells, got %d", len(row.Cells))
	}
	if row.Cells[0].Text != "Zoë Adams" {
		t.Errorf("Expected customer name, got %q", row.Cells[0].Text)
	}

	w = get(mux, "/api/requests/missing")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestHandleWhatsAppAndQR(t *testing.T) {
	mux := newTestMux(t, &MockRequestRepo{records: testRecords()})

	var result map[string]string

	w := get(mux, "/api/requests/req-1/whatsapp")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	json.Unmarshal(w.Body.Bytes(), &result)
	if !strings.HasPrefix(result["url"], "https://wa.me/15551234567?text=Hello%20Zo%C3%AB%20Adams") {
		t.Errorf("Unexpected WhatsApp link: %s", result["url"])
	}

	w = get(mux, "/api/requests/req-3/qr")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	json.Unmarshal(w.Body.Bytes(), &result)
	if !strings.HasPrefix(result["url"], "https://api.qrserver.com/v1/create-qr-code/?data=") {
		t.Errorf("Unexpected QR link: %s", result["url"])
	}
	if !strings.Contains(result["url"], "size=150x150") {
		t.Errorf("Expected QR size in %s", result["url"])
	}
}

func TestHealth(t *testing.T) {
	mux := newTestMux(t, &MockRequestRepo{})

	w := get(mux, "/health")
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Errorf("Unexpected health response: %d %q", w.Code, w.Body.String())
	}
}

func TestInitialTheme(t *testing.T) {
	s := &Sessions{now: func() time.Time { return time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC) }}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := s.InitialTheme(req); got != domain.ThemeDark {
		t.Errorf("Expected dark theme at 20:00, got %s", got)
	}

	req.AddCookie(&http.Cookie{Name: ThemeCookie, Value: "light"})
	if got := s.InitialTheme(req); got != domain.ThemeLight {
		t.Errorf("Expected remembered light theme, got %s", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: ThemeCookie, Value: "purple"})
	if got := s.InitialTheme(req); got != domain.ThemeDark {
		t.Errorf("Expected invalid cookie to fall back to hour, got %s", got)
	}
}

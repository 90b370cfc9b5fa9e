package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dd0wney/flowattack/pkg/logging"
)

func ok(w http.ResponseWriter, _ *http.Request) {
	w.Write([]byte("ok"))
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rec.Header().Get(RequestIDHeader) != seen {
		t.Errorf("generated id %q, header %q", seen, rec.Header().Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123<script>")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "abc-123script" {
		t.Errorf("sanitized id = %q", seen)
	}

	req.Header.Set(RequestIDHeader, strings.Repeat("a", 100))
	h.ServeHTTP(httptest.NewRecorder(), req)
	if len(seen) != maxRequestIDLength {
		t.Errorf("id length = %d", len(seen))
	}
}

func TestPanicRecovery(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewJSONLogger(&buf, logging.InfoLevel)
	h := PanicRecovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "boom") {
		t.Error("panic value leaked to the client")
	}
	if !strings.Contains(buf.String(), "boom") {
		t.Error("panic was not logged")
	}
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewJSONLogger(&buf, logging.InfoLevel)
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nodes/N9", nil))
	out := buf.String()
	if !strings.Contains(out, `"request rejected"`) || !strings.Contains(out, "/nodes/N9") {
		t.Errorf("log = %s", out)
	}
}

func TestBodySizeLimit(t *testing.T) {
	h := BodySizeLimit(4)(http.HandlerFunc(ok))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("too long")))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"http://ui.local"}
	h := CORS(cfg)(http.HandlerFunc(ok))

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantAllow  string
	}{
		{"allowed preflight", http.MethodOptions, "http://ui.local", http.StatusNoContent, "http://ui.local"},
		{"denied preflight", http.MethodOptions, "http://evil.local", http.StatusForbidden, ""},
		{"allowed get", http.MethodGet, "http://ui.local", http.StatusOK, "http://ui.local"},
		{"no origin", http.MethodGet, "", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/graph", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Errorf("allow origin = %q, want %q", got, tt.wantAllow)
			}
		})
	}
}

type recorder struct {
	mu       sync.Mutex
	paths    []string
	statuses []string
	inFlight int
}

func (r *recorder) RecordHTTPRequest(_, path, status string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
	r.statuses = append(r.statuses, status)
}
func (r *recorder) IncHTTPRequestsInFlight() { r.inFlight++ }
func (r *recorder) DecHTTPRequestsInFlight() { r.inFlight-- }

func TestMetrics(t *testing.T) {
	rec := &recorder{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /nodes/{id}", ok)
	h := Metrics(rec)(mux)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nodes/N4", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	if len(rec.paths) != 2 || rec.statuses[0] != "200" || rec.statuses[1] != "404" {
		t.Fatalf("recorded %v %v", rec.paths, rec.statuses)
	}
	if rec.paths[0] != "GET /nodes/{id}" || rec.paths[1] != "unmatched" {
		t.Errorf("paths = %v", rec.paths)
	}
	if rec.inFlight != 0 {
		t.Errorf("in-flight gauge = %d after requests", rec.inFlight)
	}
}

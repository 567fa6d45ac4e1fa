package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	gosolve "github.com/njchilds90/gosolve"
)

func testHandler(t *testing.T) http.Handler {
	t.Helper()
	return newHandler(defaultConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestServer_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	testHandler(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["status"] != "ok" {
		t.Errorf("unexpected body %s (%v)", rec.Body.String(), err)
	}
}

func TestServer_ToolSolve(t *testing.T) {
	body := `{"tool":"solve","params":{"lhs":{"type":"pow","left":{"type":"var","name":"x"},"right":{"type":"const","value":2}},"rhs":{"type":"const","value":-9},"target":"x"}}`
	rec := httptest.NewRecorder()
	testHandler(t).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tool", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp gosolve.ToolResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	out := resp.Result.(map[string]interface{})
	if out["outcome"] != "domain_violation" || out["reason"] != gosolve.ReasonEvenRootOfNegative {
		t.Errorf("unexpected result %v", out)
	}
}

func TestServer_ToolRejects(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   string
		code   int
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"bad json", http.MethodPost, `{"tool":`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, `{"tool":"solve","extra":1}`, http.StatusBadRequest},
		{"trailing data", http.MethodPost, `{"tool":"solve"} {}`, http.StatusBadRequest},
		{"too large", http.MethodPost, `{"tool":"` + strings.Repeat("a", 2<<20) + `"}`, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			testHandler(t).ServeHTTP(rec, httptest.NewRequest(tc.method, "/tool", strings.NewReader(tc.body)))
			if rec.Code != tc.code {
				t.Errorf("want %d, got %d: %s", tc.code, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestServer_RequestID(t *testing.T) {
	h := testHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if _, err := uuid.Parse(rec.Header().Get(requestIDHeader)); err != nil {
		t.Errorf("want generated request id, got %q", rec.Header().Get(requestIDHeader))
	}

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, id)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); got != id {
		t.Errorf("want echoed id %s, got %s", id, got)
	}
}

func TestServer_SchemaGzip(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/schema", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	testHandler(t).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Errorf("want gzip encoded schema, got headers %v", rec.Header())
	}
}

func TestServer_SchemaPlain(t *testing.T) {
	cfg := defaultConfig()
	cfg.Gzip = false
	rec := httptest.NewRecorder()
	newHandler(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schema", nil))
	if !strings.Contains(rec.Body.String(), `"solve"`) {
		t.Errorf("schema should list the solve tool: %s", rec.Body.String())
	}
}

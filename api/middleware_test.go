package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"opsassist-dashboard/api/handlers"
	"opsassist-dashboard/config"
	"opsassist-dashboard/core/dashboard"
	"opsassist-dashboard/core/utils"
)

func newMiddlewareServer(t *testing.T) *Server {
	t.Helper()
	sessions, err := dashboard.NewManager(nil, dashboard.ManagerOptions{}, nil)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return &Server{cfg: &config.AppConfig{}, sessions: sessions}
}

func TestWithSessionIssuesCookieOnce(t *testing.T) {
	s := newMiddlewareServer(t)
	var seen string
	handler := s.withSession(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := handlers.SessionFromContext(r.Context())
		if !ok {
			t.Fatalf("session missing from context")
		}
		seen = sess.ID
		w.WriteHeader(http.StatusNoContent)
	})

	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest(http.MethodGet, "/api/incidents", nil))
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != sessionCookie || cookies[0].Value != seen || !cookies[0].HttpOnly {
		t.Fatalf("unexpected cookies: %+v", cookies)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/incidents", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: seen})
	rr = httptest.NewRecorder()
	first := seen
	handler(rr, req)
	if len(rr.Result().Cookies()) != 0 {
		t.Fatalf("cookie re-issued for a known session")
	}
	if seen != first {
		t.Fatalf("expected same session, got %s", seen)
	}
}

func TestWithSessionReplacesUnknownCookie(t *testing.T) {
	s := newMiddlewareServer(t)
	handler := s.withSession(func(w http.ResponseWriter, r *http.Request) {})
	req := httptest.NewRequest(http.MethodGet, "/api/incidents", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "6ba7b810-9dad-11d1-80b4-00c04fd430c8"})
	rr := httptest.NewRecorder()
	handler(rr, req)
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value == "6ba7b810-9dad-11d1-80b4-00c04fd430c8" {
		t.Fatalf("expected a fresh session cookie, got %+v", cookies)
	}
}

func TestRecoverMiddlewareReturnsJSONError(t *testing.T) {
	var buf bytes.Buffer
	s := &Server{logger: utils.NewLoggerWithOptions(utils.LoggerOptions{Output: &buf})}
	handler := s.recoverMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/incidents", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"code":"internal"`) {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
	if !strings.Contains(buf.String(), "PANIC GET /api/incidents") {
		t.Fatalf("panic not logged: %s", buf.String())
	}
}

func TestSecurityHeaders(t *testing.T) {
	s := &Server{}
	handler := s.securityHeadersMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" || rr.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("missing security headers: %v", rr.Header())
	}
}

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

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lzjever/microsvc/internal/auth"
	"github.com/lzjever/microsvc/internal/config"
	"github.com/lzjever/microsvc/internal/core"
	"github.com/lzjever/microsvc/internal/store"
)

func testSettings() config.Settings {
	return config.Settings{
		AppName:                  "orders",
		Debug:                    true,
		APIV1Prefix:              "/api/v1",
		SecretKey:                "s3cret",
		Algorithm:                "HS256",
		AccessTokenExpireMinutes: 30,
		AllowedOriginsList:       "http://localhost:3000, http://localhost:8000",
		DatabaseURL:              "postgres://localhost/app",
		RedisURL:                 "redis://localhost:6379",
		ShutdownTimeout:          time.Second,
	}
}

type stubChecker struct {
	results []store.Result
	err     error
}

func (s stubChecker) Check(context.Context) ([]store.Result, error) { return s.results, s.err }

func newTestHandler(t *testing.T, checker ReadinessChecker) (http.Handler, *auth.Issuer) {
	t.Helper()
	s := testSettings()
	iss, err := auth.NewIssuer(s.SecretKey, s.Algorithm, s.AccessTokenTTL())
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	app := NewApp(s, zap.NewNop())
	NewAPI(s, checker, iss, zap.NewNop()).Register(app)
	return app.Handler(), iss
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthHandler(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	req := httptest.NewRequest("GET", "/health", strings.NewReader("ignored body"))
	req.Header.Set("X-Anything", "ignored")
	w := do(h, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "{\"status\":\"healthy\",\"service\":\"orders\"}\n" {
		t.Errorf("unexpected body %s", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}
}

func TestRootHandler(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	w := do(h, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	var resp RootResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %s", err)
	}
	want := RootResponse{Message: "FastAPI Microservice Template", Version: "1.0.0", Docs: "/docs"}
	if resp != want {
		t.Errorf("expected %+v, got %+v", want, resp)
	}
}

func TestDocsPages(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	for path, marker := range map[string]string{"/docs": "swagger-ui", "/redoc": "redoc"} {
		w := do(h, httptest.NewRequest("GET", path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected status 200, got %d", path, w.Code)
		}
		body := w.Body.String()
		if !strings.Contains(body, marker) || !strings.Contains(body, "orders") {
			t.Errorf("%s: unexpected body %s", path, body)
		}
		if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
			t.Errorf("%s: expected html, got %s", path, w.Header().Get("Content-Type"))
		}
	}
}

func TestOpenAPIHandler(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	w := do(h, httptest.NewRequest("GET", "/openapi.json", nil))

	var doc OpenAPIDocument
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("failed to parse response: %s", err)
	}
	if doc.Info.Title != "orders" || doc.Info.Version != "1.0.0" {
		t.Errorf("unexpected info %+v", doc.Info)
	}
	for _, p := range []string{"/health", "/", "/readyz", "/api/v1/whoami"} {
		if _, ok := doc.Paths[p]; !ok {
			t.Errorf("missing path %s", p)
		}
	}
	ready := doc.Paths["/readyz"]["get"].Responses["503"].Content["application/json"].Schema
	props, _ := ready["properties"].(map[string]any)
	if _, ok := props["checks"]; !ok {
		t.Errorf("readyz schema lacks checks: %v", ready)
	}
}

func TestOpenAPIHandler_NoAuth(t *testing.T) {
	s := testSettings()
	app := NewApp(s, zap.NewNop())
	NewAPI(s, nil, nil, zap.NewNop()).Register(app)

	w := do(app.Handler(), httptest.NewRequest("GET", "/openapi.json", nil))
	var doc OpenAPIDocument
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("failed to parse response: %s", err)
	}
	if _, ok := doc.Paths["/api/v1/whoami"]; ok {
		t.Error("whoami listed although it is not registered")
	}
	if doc.Components != nil {
		t.Errorf("unexpected components %v", doc.Components)
	}

	w = do(app.Handler(), httptest.NewRequest("GET", "/api/v1/whoami", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestReadyHandler(t *testing.T) {
	up := stubChecker{results: []store.Result{{Name: "postgres"}, {Name: "redis"}}}
	h, _ := newTestHandler(t, up)
	w := do(h, httptest.NewRequest("GET", "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	boom := errors.New("connection refused")
	down := stubChecker{
		results: []store.Result{{Name: "postgres"}, {Name: "redis", Error: boom}},
		err:     boom,
	}
	h, _ = newTestHandler(t, down)
	w = do(h, httptest.NewRequest("GET", "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}
	var resp ReadyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %s", err)
	}
	if resp.Checks["postgres"] != "ok" || resp.Checks["redis"] != "connection refused" {
		t.Errorf("unexpected checks %v", resp.Checks)
	}
	if resp.Code != core.ErrUnavailable {
		t.Errorf("expected code SVC_UNAVAILABLE, got %q", resp.Code)
	}
}

func TestWhoAmI(t *testing.T) {
	h, iss := newTestHandler(t, nil)

	w := do(h, httptest.NewRequest("GET", "/api/v1/whoami", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}

	tok, exp, err := iss.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	req := httptest.NewRequest("GET", "/api/v1/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = do(h, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp WhoAmIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %s", err)
	}
	if resp.Subject != "alice" || !resp.ExpiresAt.Equal(exp) {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestCORSPolicy(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := do(h, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("expected allowed origin, got %q", got)
	}

	req = httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "http://attacker.test")
	w = do(h, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no CORS grant, got %q", got)
	}

	req = httptest.NewRequest("OPTIONS", "/api/v1/whoami", nil)
	req.Header.Set("Origin", "http://localhost:8000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w = do(h, req)
	if w.Code >= 300 {
		t.Errorf("expected preflight to succeed, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("expected credentials allowed, got %q", got)
	}
}

func TestNotFound(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	w := do(h, httptest.NewRequest("GET", "/nope", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %s", err)
	}
	if resp.Code != string(core.ErrNotFound) {
		t.Errorf("expected code %s, got %s", core.ErrNotFound, resp.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	w := do(h, httptest.NewRequest("GET", "/health", nil))
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID on response")
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, core.NewAppError(core.ErrUnavailable, "test error"))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %s", err)
	}
	if resp.Code != "SVC_UNAVAILABLE" {
		t.Errorf("expected code SVC_UNAVAILABLE, got %s", resp.Code)
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusOK, map[string]string{"key": "value"})

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %s", err)
	}
	if resp["key"] != "value" {
		t.Errorf("expected key=value, got %v", resp)
	}
}

func TestLifecycleHooksLog(t *testing.T) {
	obs, logs := observer.New(zap.InfoLevel)
	log := zap.New(obs)
	s := testSettings()
	app := NewApp(s, log)
	NewAPI(s, nil, nil, log).Register(app)

	if err := app.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if logs.FilterMessage("Starting orders...").Len() != 1 {
		t.Error("expected startup log line")
	}
	if err := app.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if logs.FilterMessage("Shutting down orders...").Len() != 1 {
		t.Error("expected shutdown log line")
	}
}

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildRouter_RequiresServices(t *testing.T) {
	if _, err := buildRouter(logDiscard(), nil, Deps{}); err == nil {
		t.Fatalf("expected error for missing services")
	}
}

func TestHealthAndReady(t *testing.T) {
	router := newTestRouter(t, testDeps())
	if rec := doRequest(router, http.MethodGet, "/healthz", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := doRequest(router, http.MethodGet, "/readyz", "", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without ready check, got %d", rec.Code)
	}
}

func TestReadyHandler_ReportsStoreFailure(t *testing.T) {
	for _, tc := range []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{errors.New("connection refused"), http.StatusServiceUnavailable},
	} {
		router, err := buildRouter(logDiscard(), func(context.Context) error { return tc.err }, testDeps())
		if err != nil {
			t.Fatalf("build router: %v", err)
		}
		if rec := doRequest(router, http.MethodGet, "/readyz", "", ""); rec.Code != tc.want {
			t.Fatalf("expected %d, got %d", tc.want, rec.Code)
		}
	}
}

func TestAuthMiddleware(t *testing.T) {
	router := newTestRouter(t, testDeps())

	rec := doRequest(router, http.MethodGet, "/api/orders/u-1", "", "")
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), `"message"`) {
		t.Fatalf("expected 401 with message, got %d body=%s", rec.Code, rec.Body.String())
	}
	if rec := doRequest(router, http.MethodGet, "/api/orders/u-1", "forged", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", rec.Code)
	}
	if rec := doRequest(router, http.MethodGet, "/api/orders", "user-token", ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", rec.Code)
	}
	if rec := doRequest(router, http.MethodGet, "/api/orders", "admin-token", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rec.Code)
	}
}

func TestCORS_DevelopmentAllowsAnyOrigin(t *testing.T) {
	router := newTestRouter(t, testDeps())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected allow-origin %q", got)
	}
}

func TestCORS_ProductionRestrictsOrigin(t *testing.T) {
	deps := testDeps()
	deps.Production = true
	deps.CORSOrigin = "https://shop.example.com"
	router := newTestRouter(t, deps)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected foreign origin rejected, got %d", rec.Code)
	}
}

func TestStaticUploads(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "receipts", "o-1"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "receipts", "o-1", "receipt.html"), []byte("ORDER RECEIPT"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	deps := testDeps()
	deps.UploadsDir = dir
	router := newTestRouter(t, deps)

	rec := doRequest(router, http.MethodGet, "/uploads/receipts/o-1/receipt.html", "", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ORDER RECEIPT" {
		t.Fatalf("unexpected static response %d %q", rec.Code, rec.Body.String())
	}
}

func TestMapErrorToStatus_Default(t *testing.T) {
	if got := mapErrorToStatus(errors.New("boom")); got != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", got)
	}
}

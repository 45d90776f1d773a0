package router_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pandeptwidyaop/tool-catalog/internal/config"
	"github.com/pandeptwidyaop/tool-catalog/internal/database"
	"github.com/pandeptwidyaop/tool-catalog/internal/router"
	"github.com/pandeptwidyaop/tool-catalog/internal/services"
)

func setupRouter(t *testing.T, prefix string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.New(database.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := &config.Config{
		Server:  config.ServerConfig{PathPrefix: prefix},
		Catalog: config.CatalogConfig{MaxImportBytes: 1024},
	}
	return router.New(cfg, services.NewCatalogService(db), services.NewTransferService(db))
}

func TestRouter_PathPrefix(t *testing.T) {
	r := setupRouter(t, "/tools")

	tests := []struct {
		path     string
		expected int
	}{
		{"/tools/", http.StatusOK},
		{"/tools/composer", http.StatusOK},
		{"/tools/library", http.StatusOK},
		{"/tools/manage", http.StatusOK},
		{"/tools/import", http.StatusOK},
		{"/tools/export", http.StatusOK},
		{"/tools/api/tools", http.StatusOK},
		{"/tools/api/version", http.StatusOK},
		{"/tools/static/app.css", http.StatusOK},
		{"/composer", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("GET", tt.path, nil))
			if w.Code != tt.expected {
				t.Errorf("expected status %d, got %d", tt.expected, w.Code)
			}
		})
	}
}

func TestRouter_RootRedirectsToPrefix(t *testing.T) {
	r := setupRouter(t, "/tools")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", w.Code)
	}
	if w.Header().Get("Location") != "/tools/" {
		t.Errorf("expected redirect to /tools/, got %s", w.Header().Get("Location"))
	}
}

func TestRouter_PrefixedLinks(t *testing.T) {
	r := setupRouter(t, "/tools")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/tools/manage", nil))

	body := w.Body.String()
	if !strings.Contains(body, `href="/tools/static/app.css"`) {
		t.Error("expected static links under the prefix")
	}
	if !strings.Contains(body, `action="/tools/manage"`) {
		t.Error("expected form actions under the prefix")
	}
}

func TestRouter_ImportBodyLimit(t *testing.T) {
	r := setupRouter(t, "")

	req := httptest.NewRequest("POST", "/import", strings.NewReader("payload="+strings.Repeat("x", 4096)))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected status 413, got %d", w.Code)
	}
}

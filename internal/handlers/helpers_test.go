package handlers_test

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pandeptwidyaop/tool-catalog/internal/config"
	"github.com/pandeptwidyaop/tool-catalog/internal/database"
	"github.com/pandeptwidyaop/tool-catalog/internal/middleware"
	"github.com/pandeptwidyaop/tool-catalog/internal/router"
	"github.com/pandeptwidyaop/tool-catalog/internal/services"
)

type testApp struct {
	router   *gin.Engine
	db       *database.DB
	catalog  *services.CatalogService
	transfer *services.TransferService
	csrf     string
}

func setupTestApp(t *testing.T) *testApp {
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
		Catalog: config.CatalogConfig{MaxImportBytes: 1 << 20},
	}

	token, err := middleware.GenerateCSRFToken()
	if err != nil {
		t.Fatalf("failed to generate csrf token: %v", err)
	}

	catalog := services.NewCatalogService(db)
	transfer := services.NewTransferService(db)
	return &testApp{
		router:   router.New(cfg, catalog, transfer),
		db:       db,
		catalog:  catalog,
		transfer: transfer,
		csrf:     token,
	}
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	return serve(a, newGetRequest(path))
}

// post submits a form the way the browser would, with a valid CSRF pair.
func (a *testApp) post(path string, form url.Values) *httptest.ResponseRecorder {
	form.Set(middleware.CSRFFormField, a.csrf)
	req := newFormRequest(path, form)
	req.AddCookie(&http.Cookie{Name: middleware.CSRFTokenCookie, Value: a.csrf})
	return serve(a, req)
}

func (a *testApp) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	if err := a.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}

// flashes decodes the messages queued by a response.
func flashes(t *testing.T, w *httptest.ResponseRecorder) []middleware.Flash {
	t.Helper()
	var raw string
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.FlashCookie {
			raw = cookie.Value
		}
	}
	if raw == "" {
		return nil
	}
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		t.Fatalf("failed to decode flash cookie: %v", err)
	}
	var out []middleware.Flash
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("failed to unmarshal flash cookie: %v", err)
	}
	return out
}

func expectFlash(t *testing.T, w *httptest.ResponseRecorder, level, text string) {
	t.Helper()
	got := flashes(t, w)
	if len(got) == 0 {
		t.Fatalf("expected flash %q, got none", text)
	}
	first := got[0]
	if first.Level != level || first.Text != text {
		t.Errorf("expected flash [%s] %q, got [%s] %q", level, text, first.Level, first.Text)
	}
}

func expectRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", w.Code)
	}
	if got := w.Header().Get("Location"); got != location {
		t.Errorf("expected redirect to %s, got %s", location, got)
	}
}

func newGetRequest(path string) *http.Request {
	return httptest.NewRequest("GET", path, nil)
}

func newFormRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func serve(app *testApp, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	return w
}

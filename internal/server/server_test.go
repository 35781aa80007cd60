package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/woozymasta/hlds-exporter/internal/models"
	"github.com/woozymasta/hlds-exporter/internal/storage"
)

func TestHandleHealth(t *testing.T) {
	srv := New(http.NotFoundHandler(), nil)

	rec := httptest.NewRecorder()
	srv.Run().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("/healthz status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Fatalf("/healthz body = %q", rec.Body.String())
	}
}

func TestHandleServersWithoutStore(t *testing.T) {
	srv := New(http.NotFoundHandler(), nil)

	rec := httptest.NewRecorder()
	srv.Run().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/servers", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("/api/servers status = %d, want 404 with persistence disabled", rec.Code)
	}
}

func TestHandleServers(t *testing.T) {
	store, err := storage.New(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("storage.New() err = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	store.ObserveUp("10.0.0.1:27015", true)
	store.ObserveInfo("10.0.0.1:27015", "Test Server", "Counter-Strike", "1.1.2.7")

	srv := New(http.NotFoundHandler(), store)

	rec := httptest.NewRecorder()
	srv.Run().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/servers", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("/api/servers status = %d, want 200", rec.Code)
	}

	var servers []models.ServerStatus
	if err := json.NewDecoder(rec.Body).Decode(&servers); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if len(servers) != 1 || servers[0].ServerName != "Test Server" || !servers[0].Up {
		t.Fatalf("servers = %+v", servers)
	}
}

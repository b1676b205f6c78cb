package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/fluxlc/fluxlc/internal/catalog"
	"github.com/fluxlc/fluxlc/internal/config"
	"github.com/fluxlc/fluxlc/internal/logging"
	"github.com/fluxlc/fluxlc/internal/models"
	"github.com/fluxlc/fluxlc/internal/store"
)

const m104File = "J123959.9-113722_407_lc.txt"

// catalogApp wires handlers against a fake archive. Only M104 carries a file.
func catalogApp(t *testing.T) *fiber.App {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/file_dbs/", func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimSuffix(filepath.Base(r.URL.Path), ".csv") == "M104" {
			fmt.Fprintln(w, m104File)
			return
		}
		fmt.Fprint(w, "")
	})
	mux.HandleFunc("/lightcurves1/M104/textfiles/"+m104File, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "1 0.0 1.6 3.2 5 2.2 100.0 1.0 1.54 0.69")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.Data.RawDir = t.TempDir()
	cfg.Data.CacheDir = t.TempDir()
	cfg.Data.IndexDir = t.TempDir()

	st, err := store.New(cfg.Data.CacheDir)
	if err != nil {
		t.Fatalf("store.New failed: %v", err)
	}
	client, err := catalog.New(cfg.Data.IndexDir,
		catalog.WithIndexURL(srv.URL+"/file_dbs"),
		catalog.WithDataURL(srv.URL+"/lightcurves%d"),
		catalog.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("catalog.New failed: %v", err)
	}

	h := New(logging.NewDevelopment(), cfg, st, client)

	app := fiber.New()
	app.Post("/v1/catalog/sync", h.SyncCatalog)
	app.Get("/v1/catalog/galaxies", h.ListGalaxies)
	app.Get("/v1/catalog/galaxies/:galaxy/files", h.GalaxyFiles)
	app.Get("/v1/catalog/search", h.SearchCatalog)
	app.Post("/v1/catalog/download", h.DownloadFiles)
	return app
}

func syncCatalog(t *testing.T, app *fiber.App) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("POST", "/v1/catalog/sync", nil), -1)
	if err != nil {
		t.Fatalf("Sync request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected status %d, got %d", fiber.StatusOK, resp.StatusCode)
	}
}

func TestHandler_SyncCatalog(t *testing.T) {
	app := catalogApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/v1/catalog/sync", nil), -1)
	if err != nil {
		t.Fatalf("Sync request failed: %v", err)
	}
	var sync models.SyncResponse
	decodeBody(t, resp.Body, &sync)
	if sync.Fetched != len(catalog.DefaultGalaxies()) {
		t.Errorf("Expected %d indexes fetched, got %d", len(catalog.DefaultGalaxies()), sync.Fetched)
	}
}

func TestHandler_ListGalaxies(t *testing.T) {
	app := catalogApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/catalog/galaxies", nil))
	if err != nil {
		t.Fatalf("Galaxies request failed: %v", err)
	}
	var galaxies models.GalaxyListResponse
	decodeBody(t, resp.Body, &galaxies)
	if galaxies.Count != len(catalog.DefaultGalaxies()) {
		t.Errorf("Expected %d galaxies, got %d", len(catalog.DefaultGalaxies()), galaxies.Count)
	}
}

func TestHandler_GalaxyFiles(t *testing.T) {
	app := catalogApp(t)

	// Unsynced index maps to a conflict.
	resp, err := app.Test(httptest.NewRequest("GET", "/v1/catalog/galaxies/M104/files", nil))
	if err != nil {
		t.Fatalf("Files request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusConflict {
		t.Errorf("Expected status %d before sync, got %d", fiber.StatusConflict, resp.StatusCode)
	}

	syncCatalog(t, app)

	resp, err = app.Test(httptest.NewRequest("GET", "/v1/catalog/galaxies/M104/files", nil))
	if err != nil {
		t.Fatalf("Files request failed: %v", err)
	}
	var files models.GalaxyFilesResponse
	decodeBody(t, resp.Body, &files)
	if files.Count != 1 || files.Files[0] != m104File {
		t.Errorf("Expected [%s], got %v", m104File, files.Files)
	}

	// Unknown galaxy.
	resp, err = app.Test(httptest.NewRequest("GET", "/v1/catalog/galaxies/M999/files", nil))
	if err != nil {
		t.Fatalf("Files request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected status %d, got %d", fiber.StatusNotFound, resp.StatusCode)
	}
}

func TestHandler_SearchCatalog(t *testing.T) {
	app := catalogApp(t)
	syncCatalog(t, app)

	resp, err := app.Test(httptest.NewRequest(
		"GET", "/v1/catalog/search?coordinates=12+39+59.9+-11+37+22", nil), -1)
	if err != nil {
		t.Fatalf("Search request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected status %d, got %d", fiber.StatusOK, resp.StatusCode)
	}
	var search models.SearchResponse
	decodeBody(t, resp.Body, &search)
	if search.Count != 1 || search.Matches[0] != m104File {
		t.Errorf("Expected [%s], got %v", m104File, search.Matches)
	}

	// Missing and malformed coordinates are both bad requests.
	for _, target := range []string{"/v1/catalog/search", "/v1/catalog/search?coordinates=nope"} {
		resp, err = app.Test(httptest.NewRequest("GET", target, nil))
		if err != nil {
			t.Fatalf("Search request failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("Expected status %d for %s, got %d", fiber.StatusBadRequest, target, resp.StatusCode)
		}
	}
}

func TestHandler_DownloadFiles(t *testing.T) {
	app := catalogApp(t)
	syncCatalog(t, app)

	body, _ := json.Marshal(models.DownloadRequest{Files: []string{m104File, "bogus_lc.txt"}})
	req := httptest.NewRequest("POST", "/v1/catalog/download", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Download request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("Expected status %d, got %d", fiber.StatusCreated, resp.StatusCode)
	}

	var result catalog.DownloadResult
	decodeBody(t, resp.Body, &result)
	if len(result.Downloaded) != 1 || result.Downloaded[0] != m104File {
		t.Errorf("Expected [%s] downloaded, got %v", m104File, result.Downloaded)
	}
	if len(result.Failed) != 1 {
		t.Errorf("Expected 1 failure, got %v", result.Failed)
	}

	// Empty batches are rejected.
	body, _ = json.Marshal(models.DownloadRequest{})
	req = httptest.NewRequest("POST", "/v1/catalog/download", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Download request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", fiber.StatusBadRequest, resp.StatusCode)
	}
}

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/charlesng35/geocurator/internal/app"
)

func testConfig(t *testing.T, seed string) *app.Config {
	t.Helper()

	cfg := &app.Config{}
	cfg.Database.Driver = "sqlite"
	cfg.Database.Path = ":memory:"
	cfg.Monitoring.Prometheus.Enabled = true
	if seed != "" {
		path := filepath.Join(t.TempDir(), "datasets.json")
		require.NoError(t, os.WriteFile(path, []byte(seed), 0o600))
		cfg.Datasets.SeedFile = path
	}
	_, err := app.ApplyRuntimeDefaults(cfg)
	require.NoError(t, err)
	return cfg
}

func TestBootstrapRuntimeImportsSeed(t *testing.T) {
	cfg := testConfig(t, `[{"id": "GSE42", "title": "Seeded", "pubmed_ids": [7]}]`)

	stack, err := bootstrapRuntime(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { stack.Shutdown(context.Background(), zap.NewNop()) })

	w := httptest.NewRecorder()
	stack.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/datasets/GSE42", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	stack.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report struct {
		Checks []struct {
			Component string `json:"component"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.Equal(t, "database", report.Checks[0].Component)
}

func TestBootstrapRuntimeFailsOnMissingSeed(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Datasets.SeedFile = filepath.Join(t.TempDir(), "missing.json")

	_, err := bootstrapRuntime(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
	require.Contains(t, err.Error(), "open dataset seed")
}

func TestBootstrapRuntimeRejectsBadSchedule(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Session.CleanupSchedule = "every so often"

	_, err := bootstrapRuntime(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
}

func TestLoadApplicationConfig(t *testing.T) {
	_, err := loadApplicationConfig(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server:\n  port: 9191\n"), 0o600))

	cfg, err := loadApplicationConfig(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	require.Equal(t, 9191, cfg.Server.Port)
	require.Equal(t, 2*time.Hour, cfg.Session.IdleTimeout)
}

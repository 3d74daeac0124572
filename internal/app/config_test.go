package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, DefaultSessionCookie, cfg.Session.CookieName)
	require.Equal(t, 2*time.Hour, cfg.Session.IdleTimeout)
	require.Equal(t, DefaultUploadMaxBytes, cfg.Upload.MaxBytes)
	require.True(t, cfg.Eutils.Enabled)
	require.Equal(t, DefaultEutilsBaseURL, cfg.Eutils.BaseURL)
	require.Equal(t, 15*time.Second, cfg.Eutils.Timeout)
	require.Equal(t, "/metrics", cfg.Monitoring.Prometheus.Endpoint)
}

func TestLoadConfigFromFile(t *testing.T) {
	cfg, err := LoadConfig("testdata")
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "console", cfg.Server.LogFormat)
	require.Equal(t, 30, cfg.Server.RateLimit)
	require.Equal(t, "curation", cfg.Session.CookieName)
	require.True(t, cfg.Session.CookieSecure)
	require.Equal(t, 45*time.Minute, cfg.Session.IdleTimeout)
	require.Equal(t, "@every 5m", cfg.Session.CleanupSchedule)
	require.EqualValues(t, 4096, cfg.Upload.MaxBytes)
	require.False(t, cfg.Eutils.Enabled)
	require.Equal(t, 3*time.Second, cfg.Eutils.Timeout)
	require.Equal(t, "./data/datasets.json", cfg.Datasets.SeedFile)
	require.Equal(t, "@daily", cfg.Datasets.ReloadSchedule)

	db := cfg.Database.DatabaseSettings()
	require.Equal(t, "postgres", db.Driver)
	require.Equal(t, "db.example.com", db.Host)
	require.Equal(t, 5433, db.Port)
	require.Equal(t, "geo", db.Name)
	require.Equal(t, "curator", db.User)

	client := cfg.Eutils.ClientConfig()
	require.Equal(t, "http://eutils.local/entrez/eutils", client.BaseURL)
	require.Equal(t, "key-123", client.APIKey)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("GEOCURATOR_SERVER_PORT", "7000")
	t.Setenv("GEOCURATOR_EUTILS_ENABLED", "false")
	t.Setenv("GEOCURATOR_EUTILS_API_KEY", "env-key")
	t.Setenv("GEOCURATOR_DATABASE_POSTGRES_HOST", "pg.internal")
	t.Setenv("GEOCURATOR_DATABASE_POSTGRES_PORT", "6543")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, 7000, cfg.Server.Port)
	require.False(t, cfg.Eutils.Enabled)
	require.Equal(t, "env-key", cfg.Eutils.APIKey)
	require.Equal(t, "pg.internal", cfg.Database.Postgres.Host)
	require.Equal(t, 6543, cfg.Database.Postgres.Port)
}

func TestApplyRuntimeDefaults(t *testing.T) {
	_, err := ApplyRuntimeDefaults(nil)
	require.Error(t, err)

	cfg := &Config{Upload: UploadConfig{MaxBytes: 10}}
	filled, err := ApplyRuntimeDefaults(cfg)
	require.NoError(t, err)

	require.Equal(t, DefaultSessionCookie, cfg.Session.CookieName)
	require.Equal(t, defaultIdleTimeout, cfg.Session.IdleTimeout)
	require.Equal(t, defaultCleanupSchedule, cfg.Session.CleanupSchedule)
	require.EqualValues(t, 10, cfg.Upload.MaxBytes)
	require.True(t, filled["session.cookie_name"])
	require.False(t, filled["upload.max_bytes"])
	require.True(t, filled["eutils.base_url"])
}

func TestDatabaseSettingsSQLite(t *testing.T) {
	settings := DatabaseConfig{Driver: "SQLite", Path: "x.db", Postgres: DBAuthConfig{Host: "ignored"}}.DatabaseSettings()
	require.Equal(t, "sqlite", settings.Driver)
	require.Equal(t, "x.db", settings.Path)
	require.Empty(t, settings.Host)
}

package app

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultSessionCookie names the cookie carrying the curation session id.
	DefaultSessionCookie = "geocurator_session"
	// DefaultUploadMaxBytes caps identifier files at 1 MiB.
	DefaultUploadMaxBytes int64 = 1 << 20
	// DefaultEutilsBaseURL is the public NCBI E-utilities endpoint.
	DefaultEutilsBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

	defaultIdleTimeout     = 2 * time.Hour
	defaultCleanupSchedule = "@every 10m"
	defaultEutilsTimeout   = 15 * time.Second
)

// ApplyRuntimeDefaults fills values that are unusable when left zero, which happens when
// the config is built in code or an environment override blanks a key. It returns the
// keys it filled so callers can log them.
func ApplyRuntimeDefaults(cfg *Config) (map[string]bool, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	filled := make(map[string]bool)

	if strings.TrimSpace(cfg.Session.CookieName) == "" {
		cfg.Session.CookieName = DefaultSessionCookie
		filled["session.cookie_name"] = true
	}
	if cfg.Session.IdleTimeout <= 0 {
		cfg.Session.IdleTimeout = defaultIdleTimeout
		filled["session.idle_timeout"] = true
	}
	if strings.TrimSpace(cfg.Session.CleanupSchedule) == "" {
		cfg.Session.CleanupSchedule = defaultCleanupSchedule
		filled["session.cleanup_schedule"] = true
	}
	if cfg.Upload.MaxBytes <= 0 {
		cfg.Upload.MaxBytes = DefaultUploadMaxBytes
		filled["upload.max_bytes"] = true
	}
	if strings.TrimSpace(cfg.Eutils.BaseURL) == "" {
		cfg.Eutils.BaseURL = DefaultEutilsBaseURL
		filled["eutils.base_url"] = true
	}
	if cfg.Eutils.Timeout <= 0 {
		cfg.Eutils.Timeout = defaultEutilsTimeout
		filled["eutils.timeout"] = true
	}

	return filled, nil
}

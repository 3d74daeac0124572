package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/geocurator/internal/api"
	"github.com/charlesng35/geocurator/internal/app"
	sharedtestutil "github.com/charlesng35/geocurator/internal/database/testutil"
	"github.com/charlesng35/geocurator/internal/datasets"
	"github.com/charlesng35/geocurator/internal/realtime"
	"github.com/charlesng35/geocurator/internal/submission"
	"github.com/charlesng35/geocurator/internal/workspace"
	"github.com/charlesng35/geocurator/pkg/response"
)

// SeedDatasets is loaded into every Env database.
const SeedDatasets = `[
  {"id": "GSE100", "title": "Liver atlas", "summary": "Single-cell liver",
   "platforms": ["GPL1", "GPL2"], "contact_name": "Ada", "contact_email": "ada@example.org",
   "supplementary_files": ["ftp://example.org/GSE100_RAW.tar"], "supplementary_filenames": ["GSE100_RAW.tar"],
   "pubmed_ids": [30530648]},
  {"id": "GSE200", "title": "Kidney injury", "summary": "Time course", "platforms": ["GPL3"],
   "pubmed_ids": [31820734]}
]`

// Env is a fully wired API instance backed by an in-memory database for handler tests.
// Requests carry the session cookie issued by the first response.
type Env struct {
	T        *testing.T
	DB       *gorm.DB
	Config   *app.Config
	Router   *gin.Engine
	Registry *workspace.Registry
	Hub      *realtime.Hub
	session  *http.Cookie
}

// Option adjusts the Env before the router is built.
type Option func(*app.Config)

// WithUploadLimit sets upload.max_bytes.
func WithUploadLimit(n int64) Option {
	return func(cfg *app.Config) { cfg.Upload.MaxBytes = n }
}

// NewEnv provisions a fresh handler test environment with the dataset seed applied.
// Submissions resolve through stored citations.
func NewEnv(t *testing.T, opts ...Option) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db := sharedtestutil.MustOpenTestDB(t, sharedtestutil.WithAutoMigrate())
	store, err := datasets.NewService(db)
	require.NoError(t, err)
	_, err = store.Import(context.Background(), strings.NewReader(SeedDatasets))
	require.NoError(t, err)

	submitter, err := submission.NewService(store, nil)
	require.NoError(t, err)

	cfg := &app.Config{}
	cfg.Server.RateLimit = 0
	cfg.Session.IdleTimeout = time.Hour
	cfg.Monitoring.Prometheus = app.PrometheusConfig{Enabled: true, Endpoint: "/metrics"}
	for _, opt := range opts {
		opt(cfg)
	}
	_, err = app.ApplyRuntimeDefaults(cfg)
	require.NoError(t, err)

	hub := realtime.NewHub()
	registry := workspace.NewRegistry(hub, workspace.RegistryConfig{IdleTimeout: cfg.Session.IdleTimeout})

	router, err := api.NewRouter(cfg, api.Dependencies{
		Datasets:   store,
		Submission: submitter,
		Registry:   registry,
		Hub:        hub,
	})
	require.NoError(t, err)

	return &Env{
		T:        t,
		DB:       db,
		Config:   cfg,
		Router:   router,
		Registry: registry,
		Hub:      hub,
	}
}

// APIResponse represents the canonical API envelope returned by handlers.
type APIResponse struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorInfo `json:"error"`
	Meta    *response.Meta      `json:"meta"`
}

// DecodeResponse parses the standard API response object from a recorder.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// DecodeInto unmarshals the data payload into the provided destination.
func DecodeInto[T any](t *testing.T, raw json.RawMessage, dest *T) {
	t.Helper()
	if dest == nil {
		t.Fatal("destination must not be nil")
	}
	require.NoError(t, json.Unmarshal(raw, dest))
}

// Request executes a JSON request against the router within the Env's session.
func (e *Env) Request(method, path string, body any) *httptest.ResponseRecorder {
	e.T.Helper()

	buf := bytes.NewBuffer(nil)
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.T, err)
		buf = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(e.T, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.do(req)
}

// Form posts url-encoded form values.
func (e *Env) Form(path string, values map[string]string) *httptest.ResponseRecorder {
	e.T.Helper()

	form := url.Values{}
	for k, v := range values {
		form.Set(k, v)
	}
	req, err := http.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	require.NoError(e.T, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req)
}

// Upload posts content as the multipart "file" field.
func (e *Env) Upload(path, filename, content string) *httptest.ResponseRecorder {
	e.T.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(e.T, err)
	_, err = part.Write([]byte(content))
	require.NoError(e.T, err)
	require.NoError(e.T, writer.Close())

	req, err := http.NewRequest(http.MethodPost, path, body)
	require.NoError(e.T, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return e.do(req)
}

// SessionID returns the id of the session cookie captured so far.
func (e *Env) SessionID() string {
	if e.session == nil {
		return ""
	}
	return e.session.Value
}

func (e *Env) do(req *http.Request) *httptest.ResponseRecorder {
	if e.session != nil {
		req.AddCookie(e.session)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name == e.Config.Session.CookieName {
			e.session = &http.Cookie{Name: c.Name, Value: c.Value}
		}
	}
	return w
}

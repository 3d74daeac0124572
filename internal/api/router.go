package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/charlesng35/geocurator/internal/app"
	"github.com/charlesng35/geocurator/internal/datasets"
	"github.com/charlesng35/geocurator/internal/handlers"
	"github.com/charlesng35/geocurator/internal/middleware"
	"github.com/charlesng35/geocurator/internal/monitoring"
	"github.com/charlesng35/geocurator/internal/realtime"
	"github.com/charlesng35/geocurator/internal/submission"
	"github.com/charlesng35/geocurator/internal/workspace"
)

// Dependencies are the services the router wires into handlers.
type Dependencies struct {
	Datasets   *datasets.Service
	Submission *submission.Service
	Registry   *workspace.Registry
	Hub        *realtime.Hub
	Health     *monitoring.HealthManager
	RateStore  middleware.RateStore
}

// NewRouter builds the Gin engine, wires middleware and registers the routes.
func NewRouter(cfg *app.Config, deps Dependencies) (*gin.Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}
	if deps.Datasets == nil {
		return nil, fmt.Errorf("dataset service must be provided")
	}
	if deps.Registry == nil {
		return nil, fmt.Errorf("session registry must be provided")
	}

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RateLimit(deps.RateStore, cfg.Server.RateLimit, time.Minute))
	r.NoRoute(middleware.NotFoundHandler)

	registerHealthRoutes(r, handlers.NewHealthHandler(deps.Health))
	registerMetricsRoute(r, cfg.Monitoring.Prometheus)

	session := middleware.Session(deps.Registry, middleware.SessionCookie{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.CookieSecure,
		MaxAge: cfg.Session.IdleTimeout,
	})

	registerDatasetRoutes(r.Group("/api/datasets"), handlers.NewDatasetHandler(deps.Datasets))
	registerWorksetRoutes(r.Group("/api/workset", session),
		handlers.NewWorksetHandler(deps.Hub, deps.Submission, cfg.Upload.MaxBytes))
	r.POST("/submit", handlers.NewSubmitHandler(deps.Submission).Submit)

	return r, nil
}

func registerHealthRoutes(r *gin.Engine, handler *handlers.HealthHandler) {
	for _, group := range []gin.IRouter{r, r.Group("/api")} {
		group.GET("/health", handler.Health)
		group.GET("/health/live", handler.Live)
		group.GET("/health/ready", handler.Ready)
	}
}

func registerMetricsRoute(r *gin.Engine, cfg app.PrometheusConfig) {
	if !cfg.Enabled {
		return
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = "/metrics"
	}
	r.GET(endpoint, gin.WrapH(promhttp.Handler()))
}

func registerDatasetRoutes(group *gin.RouterGroup, handler *handlers.DatasetHandler) {
	group.GET("", handler.List)
	group.GET("/:id", handler.Get)
	group.GET("/:id/detail", handler.Detail)
	group.GET("/:id/downloads", handler.Downloads)
}

func registerWorksetRoutes(group *gin.RouterGroup, handler *handlers.WorksetHandler) {
	group.GET("", handler.List)
	group.POST("/ids", handler.Add)
	group.POST("/upload", handler.Upload)
	group.DELETE("/ids/:id", handler.Remove)
	group.DELETE("/ids", handler.Clear)
	group.POST("/encode", handler.Encode)
	group.POST("/submit", handler.Submit)
	group.GET("/events", handler.Events)
}

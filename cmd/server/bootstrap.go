package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/geocurator/internal/api"
	"github.com/charlesng35/geocurator/internal/app"
	"github.com/charlesng35/geocurator/internal/app/maintenance"
	"github.com/charlesng35/geocurator/internal/database"
	"github.com/charlesng35/geocurator/internal/datasets"
	"github.com/charlesng35/geocurator/internal/eutils"
	"github.com/charlesng35/geocurator/internal/middleware"
	"github.com/charlesng35/geocurator/internal/monitoring"
	"github.com/charlesng35/geocurator/internal/monitoring/checks"
	"github.com/charlesng35/geocurator/internal/realtime"
	"github.com/charlesng35/geocurator/internal/submission"
	"github.com/charlesng35/geocurator/internal/workspace"
	"github.com/charlesng35/geocurator/pkg/logger"
)

// runtimeStack bundles long-lived services used by the HTTP server.
type runtimeStack struct {
	DB        *gorm.DB
	Datasets  *datasets.Service
	Hub       *realtime.Hub
	Registry  *workspace.Registry
	RateStore *middleware.MemoryRateStore
	Cleaner   *maintenance.Cleaner
	Router    *gin.Engine
}

// bootstrapRuntime opens the database, imports the dataset seed, starts the sweeper
// and builds the HTTP router.
func bootstrapRuntime(ctx context.Context, cfg *app.Config, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error
	success := false

	defer func() {
		if !success {
			stack.Shutdown(context.Background(), log)
		}
	}()

	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack.DB, err = initialiseDatabase(cfg)
	if err != nil {
		return nil, err
	}

	stack.Datasets, err = datasets.NewService(stack.DB)
	if err != nil {
		return nil, fmt.Errorf("initialise dataset service: %w", err)
	}

	reload := seedReloader(stack.Datasets, cfg.Datasets.SeedFile)
	if reload != nil {
		count, err := reload(ctx)
		if err != nil {
			return nil, err
		}
		log.Info("dataset seed imported", zap.Int("count", count), zap.String("file", cfg.Datasets.SeedFile))
	}

	var linker submission.Linker
	if cfg.Eutils.Enabled {
		client, err := eutils.NewClient(cfg.Eutils.ClientConfig(), nil)
		if err != nil {
			return nil, fmt.Errorf("initialise eutils client: %w", err)
		}
		linker = client
	} else {
		log.Info("eutils disabled; submissions resolve through stored citations")
	}

	submitter, err := submission.NewService(stack.Datasets, linker)
	if err != nil {
		return nil, fmt.Errorf("initialise submission service: %w", err)
	}

	stack.Hub = realtime.NewHub()
	stack.Registry = workspace.NewRegistry(stack.Hub, workspace.RegistryConfig{
		IdleTimeout: cfg.Session.IdleTimeout,
		OnExpire:    stack.Hub.Disconnect,
	})
	stack.RateStore = middleware.NewMemoryRateStore()

	stack.Cleaner = maintenance.NewCleaner(stack.Registry, stack.RateStore,
		maintenance.WithSweepSchedule(cfg.Session.CleanupSchedule),
		maintenance.WithSeedReload(cfg.Datasets.ReloadSchedule, reload),
	)
	if err := stack.Cleaner.Start(); err != nil {
		return nil, fmt.Errorf("start maintenance jobs: %w", err)
	}

	health := monitoring.NewHealthManager()
	health.RegisterLiveness(checks.Sweeper(stack.Cleaner, 2*cfg.Session.IdleTimeout, nil))
	health.RegisterReadiness(checks.Database(stack.DB, 2*time.Second))

	stack.Router, err = api.NewRouter(cfg, api.Dependencies{
		Datasets:   stack.Datasets,
		Submission: submitter,
		Registry:   stack.Registry,
		Hub:        stack.Hub,
		Health:     health,
		RateStore:  stack.RateStore,
	})
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	success = true
	return stack, nil
}

// Shutdown stops background jobs and releases resources.
func (s *runtimeStack) Shutdown(ctx context.Context, log *zap.Logger) {
	if s == nil {
		return
	}

	if s.Cleaner != nil {
		<-s.Cleaner.Stop().Done()
		if err := s.Cleaner.RunOnce(ctx); err != nil {
			log.Warn("maintenance shutdown run failed", zap.Error(err))
		}
	}

	if s.DB != nil {
		if err := database.Close(s.DB); err != nil {
			log.Warn("failed to close database", zap.Error(err))
		}
	}
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database.DatabaseSettings()
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("auto-migrate database: %w", err)
	}

	logger.WithModule("database").Info("database connected", zap.String("driver", dbCfg.Driver))
	return db, nil
}

// seedReloader returns nil when no seed file is configured.
func seedReloader(svc *datasets.Service, path string) maintenance.ReloadFunc {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	return func(ctx context.Context) (int, error) {
		file, err := os.Open(path)
		if err != nil {
			return 0, fmt.Errorf("open dataset seed: %w", err)
		}
		defer file.Close()

		count, err := svc.Import(ctx, file)
		if err != nil {
			return 0, fmt.Errorf("import dataset seed %s: %w", path, err)
		}
		return count, nil
	}
}

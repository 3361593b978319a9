// Package bootstrap wires configuration into repositories, services, handlers
// and the HTTP router.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"jobprep-backend/internal/account"
	"jobprep-backend/internal/analyses"
	"jobprep-backend/internal/applies"
	"jobprep-backend/internal/documents"
	"jobprep-backend/internal/improvedresumes"
	"jobprep-backend/internal/shared/cache"
	"jobprep-backend/internal/shared/config"
	"jobprep-backend/internal/shared/server"
	"jobprep-backend/internal/shared/storage/db"
	"jobprep-backend/internal/shared/storage/object"
	localstore "jobprep-backend/internal/shared/storage/object/local"
	s3store "jobprep-backend/internal/shared/storage/object/s3"
	"jobprep-backend/internal/shared/telemetry"
	"jobprep-backend/internal/usage"
	"jobprep-backend/resume/analyzer"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Cache  cache.AnalysisCache

	DocumentsService *documents.Service
	UsageService     *usage.Service
	AnalysesService  *analyses.Service
	ApplyService     *applies.Service
	AccountService   *account.Service

	closers []func() error
}

// Build prepares dependencies and the router. Dev-like environments fall back
// to in-memory repositories and cache when Postgres or Redis is unavailable.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	app := &App{Config: cfg}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if sqlDB != nil {
		app.DB = sqlDB
		app.closers = append(app.closers, sqlDB.Close)
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Store = store

	analysisCache, err := buildCache(ctx, cfg)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Cache = analysisCache
	if c, ok := analysisCache.(*cache.Redis); ok {
		app.closers = append(app.closers, c.Close)
	}

	buildServices(app)
	return app, nil
}

// Close releases the database and cache connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, errors.New("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			_ = sqlDB.Close()
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.database_unavailable", map[string]any{"error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		store, err := s3store.New(ctx, s3store.Config{
			Region:   cfg.AWSRegion,
			Bucket:   cfg.S3Bucket,
			Prefix:   cfg.S3Prefix,
			KMSKeyID: cfg.SSEKMSKeyID,
			Endpoint: cfg.S3Endpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("init s3 store: %w", err)
		}
		return store, nil
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildCache(ctx context.Context, cfg config.Config) (cache.AnalysisCache, error) {
	if cfg.CacheTTL <= 0 {
		return cache.Noop{}, nil
	}
	if cfg.RedisURL == "" {
		if !isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.cache_in_process", map[string]any{"max_entries": cache.DefaultMaxEntries})
		}
		return cache.NewMemory(cfg.CacheTTL), nil
	}
	rc, err := cache.NewRedisFromURL(cfg.RedisURL, cfg.CacheTTL)
	if err == nil {
		err = rc.Ping(ctx)
		if err != nil {
			_ = rc.Close()
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.redis_unavailable", map[string]any{"error": err})
			return cache.NewMemory(cfg.CacheTTL), nil
		}
		return nil, err
	}
	return rc, nil
}

func buildServices(app *App) {
	var (
		docRepo      documents.DocumentsRepo
		analysisRepo analyses.Repo
		improvedRepo improvedresumes.Repo
		usageSvc     *usage.Service
		accountSvc   = &account.Service{DB: app.DB}
	)
	policy := usage.WeeklyPolicy(app.Config.UsageWeekly)
	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		analysisRepo = &analyses.PGRepo{DB: app.DB}
		improvedRepo = &improvedresumes.PGRepo{DB: app.DB}
		usageSvc = usage.NewPostgresService(usage.NewPGStore(app.DB, policy))
	} else {
		memDocs := documents.NewMemoryRepo()
		memAnalyses := analyses.NewMemoryRepo()
		memImproved := improvedresumes.NewMemoryRepo()
		docRepo, analysisRepo, improvedRepo = memDocs, memAnalyses, memImproved
		accountSvc.Documents, accountSvc.Analyses, accountSvc.ImprovedResumes = memDocs, memAnalyses, memImproved
		usageSvc = usage.NewService(policy)
	}

	app.DocumentsService = &documents.Service{Store: app.Store, Repo: docRepo}
	app.UsageService = usageSvc
	app.AnalysesService = &analyses.Service{
		Repo:  analysisRepo,
		Usage: usageSvc,
		Docs:  app.DocumentsService,
		Cache: app.Cache,
		Analyzer: analyzer.New(analyzer.Options{
			MaxKeywords: app.Config.MaxKeywords,
			Enhance:     app.Config.Enhance,
		}),
	}
	app.AccountService = accountSvc
	app.ApplyService = &applies.Service{
		Analyses: app.AnalysesService,
		Repo:     improvedRepo,
		Store:    app.Store,
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		DocumentHandler: documents.NewHandler(app.DocumentsService),
		AnalysisHandler: analyses.NewHandler(app.AnalysesService),
		ApplyHandler:    applies.NewHandler(app.ApplyService),
		UsageHandler:    usage.NewHandler(usageSvc),
		AccountHandler:  account.NewHandler(accountSvc),
	})
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

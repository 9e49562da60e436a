// Package app wires repositories and services from configuration.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/batch-timetable/internal/repository"
	"github.com/noah-isme/batch-timetable/internal/scheduler"
	"github.com/noah-isme/batch-timetable/internal/service"
	"github.com/noah-isme/batch-timetable/pkg/cache"
	"github.com/noah-isme/batch-timetable/pkg/config"
	"github.com/noah-isme/batch-timetable/pkg/database"
)

const cacheKeyPrefix = "timetable:"

// App holds the long-lived dependencies of a process.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *sqlx.DB
	Redis  *redis.Client

	Snapshots *repository.SnapshotRepository
	Timetable *repository.TimetableRepository
	CacheRepo *repository.CacheRepository

	Metrics    *service.MetricsService
	Cache      *service.CacheService
	Auth       *service.AuthService
	Scheduling *service.SchedulingService
	Timetables *service.TimetableService
	Exports    *service.ExportService
}

// New connects to Postgres (and Redis when caching is enabled) and builds every service.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, timetable cache disabled", zap.Error(err))
			redisClient = nil
		}
	}

	return Build(cfg, logger, db, redisClient), nil
}

// Build assembles services over already opened connections. redisClient may be nil.
func Build(cfg *config.Config, logger *zap.Logger, db *sqlx.DB, redisClient *redis.Client) *App {
	validate := validator.New()
	gate := scheduler.NewGate()

	a := &App{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Redis:     redisClient,
		Snapshots: repository.NewSnapshotRepository(db),
		Timetable: repository.NewTimetableRepository(db),
		CacheRepo: repository.NewCacheRepository(redisClient, cacheKeyPrefix, logger.Named("cache")),
		Metrics:   service.NewMetricsService(),
	}

	a.Cache = service.NewCacheService(a.CacheRepo, a.Metrics, cfg.Cache.TimetableTTL, logger.Named("cache"), cfg.Cache.Enabled && redisClient != nil)
	a.Auth = service.NewAuthService(logger.Named("auth"), service.AuthConfig{AccessTokenSecret: cfg.JWT.Secret})
	a.Scheduling = service.NewSchedulingService(
		a.Snapshots, a.Timetable, db, gate, a.Cache, a.Metrics, validate, logger.Named("scheduler"),
		service.SchedulingConfig{
			RunTTL:      cfg.Scheduler.RunTTL,
			RunTimeout:  cfg.Scheduler.RunTimeout,
			QueueBuffer: cfg.Scheduler.QueueBuffer,
			Seed:        cfg.Scheduler.Seed,
		},
	)
	a.Timetables = service.NewTimetableService(a.Timetable, a.Snapshots, db, gate, a.Cache, validate, logger.Named("timetable"), cfg.Cache.TimetableTTL)
	a.Exports = service.NewExportService(a.Scheduling, logger.Named("export"))
	return a
}

// Close releases connections.
func (a *App) Close() error {
	var errs []error
	if a.CacheRepo != nil {
		errs = append(errs, a.CacheRepo.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

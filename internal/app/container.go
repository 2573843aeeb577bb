package app

import (
	"context"
	"fmt"
	"time"

	"job-tracker/internal/config"
	"job-tracker/internal/database"
	"job-tracker/internal/database/migration"
	dbpostgres "job-tracker/internal/database/postgres"
	"job-tracker/internal/database/seeder"
	"job-tracker/internal/delivery/http/handler"
	"job-tracker/internal/delivery/http/middleware"
	v1 "job-tracker/internal/delivery/http/routes/v1"
	"job-tracker/internal/infrastructure/cache"
	"job-tracker/internal/infrastructure/company"
	"job-tracker/internal/infrastructure/persistence/postgres"
	"job-tracker/internal/pkg/jwt"
	"job-tracker/internal/repository"
	"job-tracker/internal/scheduler"
	"job-tracker/internal/usecase"
	"job-tracker/internal/ws"

	"go.uber.org/zap"
)

// Container owns every long-lived dependency of the server.
type Container struct {
	Config config.Config
	Log    *zap.Logger
	DB     database.DB
	Redis  *cache.Redis
	Cache  usecase.Cache
	Hub    *ws.Hub
	Cron   *scheduler.Scheduler

	AuthMw   *middleware.AuthMiddleware
	Handlers v1.Handlers
}

func NewContainer(ctx context.Context, cfg config.Config, log *zap.Logger) (*Container, error) {
	if log == nil {
		log = zap.NewNop()
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	c := &Container{Config: cfg, Log: log, DB: db}

	if cfg.Database.MigrateOnStart {
		if err := (migration.Runner{Log: log}).Run(ctx, db.SQLDB()); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	if cfg.Database.SeedOnStart {
		if err := (seeder.Runner{Seeders: seeder.Defaults(), Log: log}).Run(ctx, db); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	c.Cache = c.newCache(ctx)

	registry, err := company.Load(cfg.Companies.File, log)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("load companies: %w", err)
	}

	jwtSvc := jwt.NewHMACService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenTTL)

	users := postgres.NewUserRepository(db)
	tokens := repository.NewPostgresRefreshTokenRepository(db)
	jobs := repository.NewPostgresJobRepository(db)
	saved := repository.NewPostgresSavedJobRepository(db)
	applied := repository.NewPostgresAppliedJobRepository(db)
	prefs := repository.NewPostgresPreferenceRepository(db)

	c.Hub = ws.NewHub(log)

	overlay := usecase.NewOverlayResolver(saved, applied, prefs)
	authUC := usecase.NewAuthUsecase(users, tokens, jwtSvc, cfg.JWT.RefreshTokenTTL, log)
	userUC := usecase.NewUserUsecase(users, log)
	jobsUC := usecase.NewJobsUsecase(jobs, prefs, overlay, log)
	trackingUC := usecase.NewTrackingUsecase(jobs, saved, applied, overlay, c.Cache, c.Hub, log)
	statsUC := usecase.NewStatsUsecase(jobs, saved, applied, c.Cache, cfg.App.StatsQueryTimeout, log)
	prefsUC := usecase.NewPreferencesUsecase(prefs, prefs, registry, c.Cache, log)

	if cfg.Scheduler.Enabled {
		c.Cron = scheduler.New(cfg.Scheduler.TokenPurgeCronSpec, tokens, log)
	}

	var redisPinger handler.Pinger
	if c.Redis != nil {
		redisPinger = c.Redis
	}

	c.AuthMw = middleware.NewAuthMiddleware(authUC)
	c.Handlers = v1.Handlers{
		Health:      handler.NewHealthHandler(db, redisPinger),
		Auth:        handler.NewAuthHandler(authUC),
		User:        handler.NewUserHandler(userUC),
		Jobs:        handler.NewJobsHandler(jobsUC),
		Tracking:    handler.NewTrackingHandler(trackingUC),
		Stats:       handler.NewStatsHandler(statsUC),
		Preferences: handler.NewPreferencesHandler(prefsUC),
		WS:          ws.NewHandler(c.Hub, authUC, log),
	}
	return c, nil
}

// newCache prefers Redis when enabled and reachable, otherwise the bounded
// in-process LRU.
func (c *Container) newCache(ctx context.Context) usecase.Cache {
	cfg := c.Config
	if cfg.Redis.Enabled {
		r, err := cache.NewRedis(ctx, cfg.Redis, cfg.Cache.TTL, c.Log)
		if err == nil {
			c.Redis = r
			c.Log.Info("cache backend", zap.String("backend", "redis"), zap.String("addr", cfg.Redis.Addr))
			return r
		}
		c.Log.Warn("redis unreachable, using in-memory cache", zap.Error(err))
	}
	c.Log.Info("cache backend", zap.String("backend", "memory"), zap.Int("max_entries", cfg.Cache.MaxEntries))
	return cache.NewMemory(cfg.Cache.MaxEntries, cfg.Cache.TTL)
}

// Start launches the background workers.
func (c *Container) Start(ctx context.Context) error {
	go c.Hub.Run()
	if c.Cron != nil {
		if err := c.Cron.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cron != nil {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		c.Cron.Stop(stopCtx)
		cancel()
	}
	c.Hub.Stop()
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Log.Warn("close redis", zap.Error(err))
		}
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}

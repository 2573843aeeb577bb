package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Companies CompaniesConfig
	Scheduler SchedulerConfig
}

type AppConfig struct {
	AppName           string        `envconfig:"APP_NAME" default:"job-tracker"`
	Environment       string        `envconfig:"APP_ENV" default:"development"`
	HTTPPort          string        `envconfig:"HTTP_PORT" default:"8080"`
	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	StatsQueryTimeout time.Duration `envconfig:"STATS_QUERY_TIMEOUT" default:"5s"`
}

type DatabaseConfig struct {
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBName     string `envconfig:"DB_NAME" required:"true"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBSSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`

	ConnectTimeout        time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"5s"`
	PoolMaxConns          int32         `envconfig:"DB_POOL_MAX_CONNS" default:"10"`
	PoolMinConns          int32         `envconfig:"DB_POOL_MIN_CONNS" default:"1"`
	PoolMaxConnLifetime   time.Duration `envconfig:"DB_POOL_MAX_CONN_LIFETIME" default:"1h"`
	PoolMaxConnIdleTime   time.Duration `envconfig:"DB_POOL_MAX_CONN_IDLE_TIME" default:"15m"`
	PoolHealthCheckPeriod time.Duration `envconfig:"DB_POOL_HEALTH_CHECK_PERIOD" default:"1m"`

	MigrateOnStart bool `envconfig:"DB_MIGRATE_ON_START" default:"true"`
	// SeedOnStart loads sample jobs; meant for local development only.
	SeedOnStart bool `envconfig:"DB_SEED_ON_START" default:"false"`
}

type JWTConfig struct {
	Secret          string        `envconfig:"JWT_SECRET" required:"true"`
	Issuer          string        `envconfig:"JWT_ISSUER" default:"job-tracker"`
	AccessTokenTTL  time.Duration `envconfig:"JWT_ACCESS_TOKEN_TTL" default:"15m"`
	RefreshTokenTTL time.Duration `envconfig:"JWT_REFRESH_TOKEN_TTL" default:"168h"`
}

type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// CacheConfig bounds the in-memory backend; the TTL applies to both backends.
type CacheConfig struct {
	TTL        time.Duration `envconfig:"CACHE_TTL" default:"10m"`
	MaxEntries int           `envconfig:"CACHE_MAX_ENTRIES" default:"1000"`
}

type CompaniesConfig struct {
	File string `envconfig:"COMPANIES_FILE" default:"companies.json"`
}

type SchedulerConfig struct {
	Enabled            bool   `envconfig:"SCHEDULER_ENABLED" default:"true"`
	TokenPurgeCronSpec string `envconfig:"TOKEN_PURGE_CRON" default:"@every 1h"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be one of: development, staging, production, test)", c.App.Environment)
	}
	if strings.TrimSpace(c.App.HTTPPort) == "" {
		return fmt.Errorf("HTTP_PORT must not be empty")
	}
	if c.App.StatsQueryTimeout <= 0 {
		return fmt.Errorf("STATS_QUERY_TIMEOUT must be positive")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if c.JWT.AccessTokenTTL <= 0 || c.JWT.RefreshTokenTTL <= 0 {
		return fmt.Errorf("JWT token TTLs must be positive")
	}
	if c.Database.PoolMinConns > c.Database.PoolMaxConns {
		return fmt.Errorf("DB_POOL_MIN_CONNS (%d) cannot exceed DB_POOL_MAX_CONNS (%d)",
			c.Database.PoolMinConns, c.Database.PoolMaxConns)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if c.Cache.MaxEntries < 1 {
		return fmt.Errorf("CACHE_MAX_ENTRIES must be at least 1")
	}
	return nil
}

func (c Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (c Config) ServerAddr() string {
	return ":" + strings.TrimSpace(c.App.HTTPPort)
}

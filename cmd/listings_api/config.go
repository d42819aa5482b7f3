package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/letspunt/adpage/internal/objectstore"
	"github.com/letspunt/adpage/internal/storage/pg"
	"github.com/letspunt/adpage/pkg/config/env"
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type ListingsApiConfig struct {
	Pg pg.PoolConfig

	JwtSecret string
	JwtTTL    time.Duration

	RedisURL      string
	StatsCacheTTL time.Duration

	S3 objectstore.Config

	ExpirySweepSpec  string
	SearchConfigPath string
}

func (as *AppConfig) Load() (*ListingsApiConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/listings_api/.env")
	if err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	cfg := &ListingsApiConfig{
		Pg: pg.PoolConfig{
			ConnStr:     os.Getenv("PG_CONNECTION_STRING"),
			MaxConns:    int32(intOr("PG_MAX_CONNS", 0)),
			MaxConnIdle: env.DurationOr("PG_MAX_CONN_IDLE", 0),
		},
		JwtSecret:     os.Getenv("JWT_SECRET"),
		JwtTTL:        env.DurationOr("JWT_TTL", time.Hour),
		RedisURL:      os.Getenv("REDIS_URL"),
		StatsCacheTTL: env.DurationOr("STATS_CACHE_TTL", time.Minute),
		S3: objectstore.Config{
			Bucket:        os.Getenv("S3_BUCKET"),
			Region:        env.StringOr("S3_REGION", "us-east-1"),
			Endpoint:      os.Getenv("S3_ENDPOINT"),
			AccessKey:     os.Getenv("S3_ACCESS_KEY"),
			SecretKey:     os.Getenv("S3_SECRET_KEY"),
			PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
		},
		ExpirySweepSpec:  env.StringOr("EXPIRY_SWEEP_SPEC", "@every 1h"),
		SearchConfigPath: env.StringOr("SEARCH_CONFIG_PATH", "config/search.yaml"),
	}

	if cfg.Pg.ConnStr == "" {
		slog.Error("PostgreSQL connection string is not set")
		return nil, fmt.Errorf("PG_CONNECTION_STRING is not set")
	}
	if cfg.JwtSecret == "" {
		slog.Error("JWT secret is not set")
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	return cfg, nil
}

func intOr(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func parseLogLevel(raw string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo
	}
	return level
}

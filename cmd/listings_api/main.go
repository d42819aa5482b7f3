// Package main Adpage Listings API
// @title Adpage Listings API
// @version 1.0
// @description Classifieds backend with ranked listing search, dynamic filters, comments and user accounts
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @contact.email support@adpage.io
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	_ "github.com/letspunt/adpage/docs"
	"github.com/letspunt/adpage/internal/api/router"
	"github.com/letspunt/adpage/internal/api/server"
	"github.com/letspunt/adpage/internal/auth"
	"github.com/letspunt/adpage/internal/objectstore"
	"github.com/letspunt/adpage/internal/scheduler"
	"github.com/letspunt/adpage/internal/search"
	"github.com/letspunt/adpage/internal/storage/cache"
	"github.com/letspunt/adpage/internal/storage/pg"
	pkgserver "github.com/letspunt/adpage/pkg/server"
	"github.com/redis/go-redis/v9"
)

func main() {
	slog.SetLogLoggerLevel(parseLogLevel(os.Getenv("LOG_LEVEL")))

	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	searchCfg, err := search.LoadConfig(cfg.SearchConfigPath)
	if err != nil {
		slog.Error("Failed to load search configuration", "path", cfg.SearchConfigPath, "error", err)
		os.Exit(1)
	}

	pool, err := pg.NewConnectionPool(context.Background(), cfg.Pg)
	if err != nil {
		slog.Error("Failed to create pg connection pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	health := pkgserver.CompositeHealthChecker{pg.NewHealthChecker(pool)}

	s := server.New(sCfg, health).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupOpenApi("/swagger/*")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "Adpage Listings API is running")
	})

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = cache.NewRedisClient(s.Context(), cfg.RedisURL)
		if err != nil {
			slog.Error("Failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		slog.Info("Listing stats cache enabled", "ttl", cfg.StatsCacheTTL)
	} else {
		slog.Info("Listing stats cache disabled")
	}

	tokens, err := auth.NewTokenManager(cfg.JwtSecret, cfg.JwtTTL)
	if err != nil {
		slog.Error("Failed to create token manager", "error", err)
		os.Exit(1)
	}
	requireAuth := auth.RequireToken(tokens)
	requireAdmin := auth.RequireAdmin()

	listings := pg.NewListingStore(pool)
	comments := pg.NewCommentStore(pool)
	users := pg.NewUserStore(pool)
	stats := cache.NewListingStats(rdb, listings, cfg.StatsCacheTTL)
	resolver := search.NewResolver(pg.NewRawExecutor(pool), searchCfg)

	router.NewSearchRouter(s.Echo, resolver, searchCfg.MaxPageSize).Bind()
	router.NewPostsRouter(s.Echo, listings, stats, requireAuth).Bind()
	router.NewCommentsRouter(s.Echo, comments, requireAuth, requireAdmin).Bind()
	router.NewUsersRouter(s.Echo, users, requireAuth, requireAdmin).Bind()
	router.NewAuthRouter(s.Echo, users, tokens).Bind()

	if cfg.S3.Enabled() {
		store, err := objectstore.NewS3Store(cfg.S3)
		if err != nil {
			slog.Error("Failed to create s3 store", "error", err)
			os.Exit(1)
		}
		router.NewUploadRouter(s.Echo, store, users, requireAuth).Bind()
		slog.Info("Image uploads enabled", "bucket", cfg.S3.Bucket)
	} else {
		slog.Info("Image uploads disabled")
	}

	sweeper := scheduler.New(cfg.ExpirySweepSpec, listings, stats)
	if err := sweeper.Start(s.Context()); err != nil {
		slog.Error("Failed to start expiry scheduler", "spec", cfg.ExpirySweepSpec, "error", err)
		os.Exit(1)
	}

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
		sweeper.Stop()
	}()

	if err := s.Start(); err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}

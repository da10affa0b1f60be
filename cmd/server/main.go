package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kthrnbeh/ISweep-backend/internal/analyzer"
	"github.com/kthrnbeh/ISweep-backend/internal/app"
	"github.com/kthrnbeh/ISweep-backend/internal/broadcast"
	"github.com/kthrnbeh/ISweep-backend/internal/config"
	"github.com/kthrnbeh/ISweep-backend/internal/database"
	"github.com/kthrnbeh/ISweep-backend/internal/logging"
	"github.com/kthrnbeh/ISweep-backend/internal/profanity"
	"github.com/kthrnbeh/ISweep-backend/internal/redis"
	"github.com/kthrnbeh/ISweep-backend/internal/server"
)

func runGracefulShutdown(srv *server.Server, hub *broadcast.Hub) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		hub.Stop()

		close(done)
	}()

	return done
}

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	// Wide enough for the connect retry schedule plus migrations.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.ConnectWithRetry(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.RunMigrationsWithLock(ctx, db); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return db
}

func setupRedis(ctx context.Context, cfg *config.Config) *goredis.Client {
	client, err := redis.NewClientWithRetry(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func setupEngine() *analyzer.Engine {
	matcher, err := analyzer.NewMatcher(profanity.NewWordList())
	if err != nil {
		slog.Error("Failed to compile category patterns", "error", err)
		os.Exit(1)
	}
	return analyzer.NewEngine(matcher)
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	pool := setupDB(cfg)
	defer pool.Close()

	redisClient := setupRedis(context.Background(), cfg)
	defer func() { _ = redisClient.Close() }()

	userRepo := database.NewUserRepo(pool)
	prefRepo := redis.NewPreferenceCache(redisClient, database.NewPreferenceRepo(pool), cfg.RedisCacheTTL)

	// In-process preference cache in front of the Redis-backed repository
	prefCache := analyzer.NewPrefCache(cfg.PrefCacheTTL, clock)
	stopEviction := prefCache.StartEvictionTimer(cfg.PrefCacheEvictionInterval)
	defer stopEviction()

	engine := setupEngine()

	hub := broadcast.NewHub(clock, cfg.MaxFeedConnections)

	appSvc := app.NewService(userRepo, prefRepo, prefCache, engine, hub, clock)

	healthChecks := []server.HealthCheck{
		{Name: "postgres", Check: pool.Ping},
		{Name: "redis", Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
	}

	srv := server.NewServer(cfg, appSvc, hub, healthChecks)

	done := runGracefulShutdown(srv, hub)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}

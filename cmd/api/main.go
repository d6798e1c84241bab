package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/user/manifest-service/internal/adapter/manifestapi"
	"github.com/user/manifest-service/internal/adapter/memory"
	"github.com/user/manifest-service/internal/adapter/postgres"
	redis_adapter "github.com/user/manifest-service/internal/adapter/redis"
	"github.com/user/manifest-service/internal/config"
	"github.com/user/manifest-service/internal/delivery/http/handler"
	"github.com/user/manifest-service/internal/delivery/http/router"
	"github.com/user/manifest-service/internal/generator"
	"github.com/user/manifest-service/internal/monitoring"
	"github.com/user/manifest-service/internal/repository"
	"github.com/user/manifest-service/internal/usecase"
	"github.com/user/manifest-service/pkg/logger"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	// --- Logger ---
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	// --- Metrics ---
	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)

	ctx := context.Background()
	checks := map[string]handler.Pinger{}

	// --- Session store ---
	var sessions repository.SessionRepository
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("unable to connect to redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		sessions = redis_adapter.NewSessionRepo(rdb)
		checks["redis"] = sessions
		log.Info("redis session store ready", zap.String("addr", cfg.RedisAddr))
	default:
		sessions = memory.NewSessionRepo()
		log.Info("in-memory session store ready")
	}

	// --- Request log (optional) ---
	var requestLog repository.RequestLogRepository
	if cfg.PostgresURL != "" {
		dbpool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatal("unable to connect to database", zap.Error(err))
		}
		defer dbpool.Close()

		pgLog := postgres.NewRequestLogRepo(dbpool)
		if err := pgLog.EnsureSchema(ctx); err != nil {
			log.Fatal("unable to prepare request log schema", zap.Error(err))
		}
		requestLog = pgLog
		checks["postgres"] = pgLog
		log.Info("postgres request log ready")
	}

	// --- Use Cases ---
	gen := generator.New(manifestapi.NewClient(cfg.APIURL, &http.Client{}))
	sessionManager := usecase.NewSessionManager(sessions, requestLog, gen, metrics, log, cfg.SessionTTL())

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(sessionManager, checks, log)
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router.New(apiHandler, metrics, prometheus.DefaultGatherer, log),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 70 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("could not start server", zap.Error(err))
		}
	}()
	log.Info("server started", zap.String("port", cfg.ServerPort), zap.String("api_url", cfg.APIURL))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exiting")
}

// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"goal-coach/internal/coach"
	"goal-coach/internal/common/auth"
	"goal-coach/internal/common/config"
	"goal-coach/internal/common/database"
	"goal-coach/internal/common/logger"
	"goal-coach/internal/common/observability"
	"goal-coach/internal/common/ratelimit"
	"goal-coach/internal/common/telemetry"
	"goal-coach/internal/genai"
	"goal-coach/internal/server"
	"goal-coach/internal/store"
)

type coachLoggerAdapter struct {
	logger.Logger
}

func (a *coachLoggerAdapter) With(fields map[string]interface{}) coach.Logger {
	return &coachLoggerAdapter{a.Logger.With(fields)}
}

type genaiLoggerAdapter struct {
	logger.Logger
}

func (a *genaiLoggerAdapter) With(fields map[string]interface{}) genai.Logger {
	return &genaiLoggerAdapter{a.Logger.With(fields)}
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting goal coach server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("address", cfg.Server.Address),
	)

	obs := observability.New("goal-coach")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis (rate limiting) ---
	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		var redisClient *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		zapLog.Info("Redis connected successfully")

		limiter = ratelimit.New(
			redisClient.Client,
			cfg.RateLimit.Limit,
			time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
			log,
		)
	}

	// --- Telemetry sinks ---
	sinks := []telemetry.Sink{telemetry.NewWriterSink(os.Stdout)}
	if cfg.Telemetry.ESEnabled {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 10, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")

		sinks = append(sinks, telemetry.NewElasticsearchSink(esClient.Client, cfg.Telemetry.ESIndex, log))
	}

	recorder := telemetry.NewRecorder(
		cfg.Coach.InputCostPer1M,
		cfg.Coach.OutputCostPer1M,
		log,
		sinks...,
	)

	// --- Coach pipeline ---
	model := genai.NewClient(cfg.GenAI, &genaiLoggerAdapter{log})
	goalCoach := coach.New(coach.Config{
		ConfidenceThreshold: cfg.Coach.ConfidenceThreshold,
		InvokeTimeout:       config.GetDuration(cfg.Coach.InvokeTimeout),
	}, model, recorder, &coachLoggerAdapter{log})

	// --- HTTP server ---
	tokens := auth.NewTokenManager(
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.AccessTokenTTLMinutes)*time.Minute,
	)

	router := server.NewRouter(server.Deps{
		Coach:   goalCoach,
		Users:   store.NewUserStore(pg.DB),
		Goals:   store.NewGoalStore(pg.DB),
		Tokens:  tokens,
		Limiter: limiter,
		Obs:     obs,
		Logger:  log,
		CORS:    cfg.Server,
	})

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("server shutdown failed", zap.Error(err))
	}
	zapLog.Info("Server stopped")
}

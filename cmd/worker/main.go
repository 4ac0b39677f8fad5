package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/collabhub/hub/pkg/config"
	"github.com/collabhub/hub/pkg/database"
	"github.com/collabhub/hub/pkg/logger"

	"github.com/collabhub/hub/internal/queue/tasks"
	"github.com/collabhub/hub/internal/repository"
	"github.com/collabhub/hub/internal/webhooks"
)

func main() {
	cfg := config.MustLoad()
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("redis connection failed", zap.Error(err))
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		},
		asynq.Config{
			Concurrency: cfg.AsynqConcurrency,
			Queues: map[string]int{
				"webhooks": 1,
			},
		},
	)

	ctx := context.Background()
	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.L().Fatal("failed to open database", zap.Error(err))
	}

	auditRepo := repository.NewAuditRepository(db)
	webhookRepo := repository.NewWebhookRepository(db)
	deliverer := webhooks.NewDeliverer(webhookRepo, cfg.WebhookTimeout)

	handler := tasks.NewDeliverTaskHandler(auditRepo, deliverer)

	mux := asynq.NewServeMux()
	mux.HandleFunc(webhooks.TaskTypeDeliver, handler.HandleDeliver)

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("asynq worker starting", zap.Int("concurrency", cfg.AsynqConcurrency))
		if err := srv.Run(mux); err != nil {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.L().Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.L().Error("worker stopped with error", zap.Error(err))
	}

	// Allow in-flight deliveries to finish gracefully.
	srv.Shutdown()
}

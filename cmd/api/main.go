package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/collabhub/hub/internal/api"
	"github.com/collabhub/hub/internal/api/handlers"
	"github.com/collabhub/hub/internal/audit"
	"github.com/collabhub/hub/internal/authz"
	"github.com/collabhub/hub/internal/repository"
	"github.com/collabhub/hub/internal/services"
	"github.com/collabhub/hub/internal/webhooks"
	"github.com/collabhub/hub/pkg/config"
	"github.com/collabhub/hub/pkg/database"
	"github.com/collabhub/hub/pkg/logger"
)

func main() {
	cfg := config.MustLoad()

	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("starting collab hub api",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
	)

	ctx := context.Background()
	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	log.Info("database connected")

	jwtSecret := []byte(cfg.JWTSecret)
	if len(jwtSecret) == 0 {
		log.Warn("JWT_SECRET not set, using default (INSECURE for production)")
		jwtSecret = []byte("change-me-in-production-please")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	threadRepo := repository.NewThreadRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	tagRepo := repository.NewTagRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	webhookRepo := repository.NewWebhookRepository(db)

	// Authorization engine
	engine := authz.NewEngine(membershipRepo, repository.NewScopeLookup(db))

	// Webhook dispatch: inline by default, offloaded to the worker when
	// WEBHOOK_ASYNC is set.
	var dispatcher webhooks.Dispatcher
	var asynqClient *asynq.Client
	if cfg.WebhookAsync {
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer asynqClient.Close()
		dispatcher = webhooks.NewEnqueuer(asynqClient)
		log.Info("webhook delivery offloaded to worker queue")
	} else {
		dispatcher = webhooks.NewDeliverer(webhookRepo, cfg.WebhookTimeout)
	}
	recorder := audit.NewRecorder(auditRepo, dispatcher)

	// Services
	authSvc := services.NewAuthService(userRepo, jwtSecret)
	projectSvc := services.NewProjectService(db, projectRepo, engine, recorder)
	membershipSvc := services.NewMembershipService(projectRepo, membershipRepo, userRepo, engine, recorder)
	taskSvc := services.NewTaskService(taskRepo, projectRepo, tagRepo, engine, recorder)
	assignmentSvc := services.NewAssignmentService(assignmentRepo, taskRepo, userRepo, engine, recorder)
	threadSvc := services.NewThreadService(threadRepo, projectRepo, taskRepo, engine, recorder)
	messageSvc := services.NewMessageService(messageRepo, threadRepo, userRepo, engine, recorder)
	tagSvc := services.NewTagService(tagRepo)
	webhookSvc := services.NewWebhookService(webhookRepo)
	auditSvc := services.NewAuditService(auditRepo, audit.NewResolver(db))
	userSvc := services.NewUserService(userRepo)

	router := api.NewRouter(api.Dependencies{
		HMACSecret:         jwtSecret,
		Users:              userRepo,
		AuthHandler:        handlers.NewAuthHandler(authSvc),
		ProjectsHandler:    handlers.NewProjectsHandler(projectSvc),
		MembershipsHandler: handlers.NewMembershipsHandler(membershipSvc),
		TasksHandler:       handlers.NewTasksHandler(taskSvc),
		AssignmentsHandler: handlers.NewAssignmentsHandler(assignmentSvc),
		ThreadsHandler:     handlers.NewThreadsHandler(threadSvc),
		MessagesHandler:    handlers.NewMessagesHandler(messageSvc),
		TagsHandler:        handlers.NewTagsHandler(tagSvc),
		WebhooksHandler:    handlers.NewWebhooksHandler(webhookSvc),
		AuditHandler:       handlers.NewAuditHandler(auditSvc),
		UsersHandler:       handlers.NewUsersHandler(userSvc),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}
}

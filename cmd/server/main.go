package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"dealer-console/internal/cache"
	"dealer-console/internal/config"
	api "dealer-console/internal/controllers/http"
	"dealer-console/internal/infra"
	mmysql "dealer-console/internal/infra/mysql"
	"dealer-console/internal/infra/rabbitmq"
	"dealer-console/internal/observability"
	mysqlrepo "dealer-console/internal/repository/mysql"
	"dealer-console/internal/services"
	"dealer-console/internal/session"
	"dealer-console/internal/sse"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics()

	db, err := mmysql.Open(cfg.MySQLDSN())
	if err != nil {
		logger.Fatal("db: connect", zap.Error(err))
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	notificationRepo := mysqlrepo.NewNotificationRepository(db)
	commandRepo := mysqlrepo.NewCommandRepository(db)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		DB:           cfg.RedisDB,
		PoolSize:     50,
		MinIdleConns: 5,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, serving without cache", zap.Error(err))
	}
	c := cache.New(redisClient, logger)

	orderClient := infra.NewOrderClient(cfg.SalesServiceURL, cfg.UpstreamTimeout, metrics)
	itemClient := infra.NewOrderItemClient(cfg.SalesServiceURL, cfg.UpstreamTimeout, metrics)
	trackingClient := infra.NewTrackingClient(cfg.SalesServiceURL, cfg.UpstreamTimeout, metrics)
	contractClient := infra.NewContractClient(cfg.SalesServiceURL, cfg.UpstreamTimeout, metrics)
	userClient := infra.NewUserClient(cfg.UserServiceURL, cfg.UpstreamTimeout, metrics)
	refs := cache.NewReferenceClient(
		infra.NewReferenceClient(cfg.SalesServiceURL, cfg.DealerServiceURL, cfg.UpstreamTimeout, metrics),
		c, cfg.ReferenceCacheTTL,
	)

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.EventExchange, logger)
	if err != nil {
		logger.Fatal("failed to init publisher", zap.Error(err))
	}
	defer publisher.Close()

	commands := services.NewCommandService(commandRepo, logger)
	workflow := services.NewOrderWorkflowService(services.OrderWorkflowDeps{
		Orders:    orderClient,
		Items:     itemClient,
		Tracking:  trackingClient,
		Contracts: contractClient,
		Refs:      refs,
		Commands:  commands,
		Publisher: publisher,
		Cache:     c,
		QueryTTL:  cfg.QueryCacheTTL,
		Logger:    logger,
	})
	bulk := services.NewUserBulkService(userClient, commands, publisher, cfg.BulkConcurrency, logger)

	hub := sse.NewHub(logger)
	inbox := services.NewNotificationService(notificationRepo, c, hub, metrics, logger)

	consumer, err := rabbitmq.NewConsumer(cfg.RabbitMQURL, cfg.NotificationExchange, cfg.NotificationQueue, cfg.NotificationBinding, logger)
	if err != nil {
		logger.Fatal("failed to init consumer", zap.Error(err))
	}
	defer consumer.Close()
	go func() {
		if err := consumer.Run(ctx, inbox.HandlePush); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("push consumer stopped", zap.Error(err))
			stop()
		}
	}()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := api.NewHandler(workflow, bulk, inbox, hub, session.NewParser(cfg.JWTSecret), logger)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(handler, metrics, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting dealer console", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server run", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

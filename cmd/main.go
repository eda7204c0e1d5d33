package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	paymentcmd "github.com/eaglebank/payment-service/internal/command"
	"github.com/eaglebank/payment-service/internal/config"
	"github.com/eaglebank/payment-service/internal/handler"
	paymentqry "github.com/eaglebank/payment-service/internal/query"
	"github.com/eaglebank/payment-service/internal/repository"
	"github.com/eaglebank/payment-service/internal/service"
	"github.com/eaglebank/payment-service/shared/events"
	"github.com/eaglebank/payment-service/shared/logging"
	"github.com/eaglebank/payment-service/shared/middleware"
	"github.com/eaglebank/payment-service/shared/models"
	redisClient "github.com/eaglebank/payment-service/shared/redis"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(logging.Config{
		Environment: logging.Environment(cfg.Environment),
		Level:       cfg.LogLevel,
		Service:     "payment-service",
	})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database connection (account store)
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	if err := repository.Migrate(db, cfg.MigrationsPath); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Redis connection (account cache + event streaming)
	redis, err := redisClient.NewClient(ctx, redisClient.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redis.Close()

	// --- CQRS wiring ---
	publisher := events.NewPublisher(redis.Client, logger)

	writeRepo := repository.NewAccountWriteRepository(db)
	accountRepo := repository.NewCachedAccountRepository(writeRepo, redis.Client, cfg.AccountCacheTTL, logger)

	// Balance updates read Postgres; the cache serves queries only.
	accountSvc := service.NewAccountService(accountRepo.WriteThrough())
	paymentProcessor := service.NewPaymentProcessor(accountSvc, service.CommissionAccount{
		Agreement: models.Agreement{ID: cfg.CommissionAgreementID},
		Type:      cfg.CommissionAccountType,
	})

	commandSvc := paymentcmd.NewPaymentCommandService(accountSvc, paymentProcessor, publisher, logger)
	querySvc := paymentqry.NewAccountQueryService(accountRepo, accountSvc)

	paymentHandler := handler.NewPaymentHandler(commandSvc, querySvc)

	// Setup router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.LoggingMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1", middleware.AuthMiddleware([]byte(cfg.JWTSecret)))
	{
		v1.POST("/accounts", paymentHandler.CreateAccount)
		v1.GET("/accounts/:accountId", paymentHandler.GetAccount)
		v1.POST("/accounts/:accountId/charge", paymentHandler.ChargeAccount)
		v1.GET("/agreements/:agreementId/accounts", paymentHandler.ListAgreementAccounts)
		v1.POST("/transfers", paymentHandler.TransferBetweenAccounts)
		v1.POST("/payments", paymentHandler.MakePayment)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Payment service starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/redis/go-redis/v9"

	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/adapter/handler"
	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/adapter/middleware"
	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/adapter/storage"
	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/core/config"
	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/core/ledger"
	"github.com/Muhadev/lendsqr-wallet-service-sub000/internal/core/worker"
)

func main() {
	cfg := config.LoadConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	dbPool, err := storage.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	// Closed manually on shutdown, after the server drains.
	slog.Info("connected to postgres")

	// Repos, store, engine
	accountRepo := storage.NewAccountRepository(dbPool)
	transactionRepo := storage.NewTransactionRepository(dbPool)
	webhookRepo := storage.NewWebhookRepository(dbPool)
	store := storage.NewStore(dbPool, accountRepo, transactionRepo, webhookRepo)
	engine := ledger.NewEngine(store, cfg.Ledger, logger)

	accountHandler := &handler.AccountHandler{Repo: accountRepo}
	transactionHandler := &handler.TransactionHandler{Engine: engine, Transactions: transactionRepo}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	api := app.Group("/v1")

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		api.Use(middleware.RateLimit(redis.NewClient(opts), 60, time.Minute))
	} else {
		slog.Warn("REDIS_URL not set, rate limiting disabled")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("Server is running!")
	})

	// Public
	api.Post("/accounts", accountHandler.CreateAccount)
	api.Post("/accounts/:id/keys", accountHandler.GenerateKey)
	api.Patch("/accounts/:id/status", accountHandler.UpdateStatus)

	// Protected
	private := api.Use(middleware.Protected(dbPool))
	private.Post("/fund", middleware.Idempotency(dbPool), transactionHandler.Fund)
	private.Post("/withdraw", middleware.Idempotency(dbPool), transactionHandler.Withdraw)
	private.Post("/transfer", middleware.Idempotency(dbPool), transactionHandler.Transfer)
	private.Get("/account", accountHandler.GetAccount)
	private.Get("/accounts/resolve/:number", accountHandler.ResolveAccountNumber)
	private.Get("/account/transactions", transactionHandler.GetHistory)
	private.Get("/account/transactions/:reference", transactionHandler.GetByReference)
	private.Get("/account/summary", transactionHandler.GetSummary)

	// Background webhook delivery
	workerCtx, stopWorker := context.WithCancel(context.Background())
	worker.NewDispatcher(webhookRepo, cfg.WebhookURL, cfg.WebhookSecret, logger).Start(workerCtx)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "env", cfg.Env, "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	<-stop
	slog.Info("shutting down server...")

	stopWorker()

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	dbPool.Close()
	slog.Info("database connection closed")

	slog.Info("server exited")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"portfolio-backend/internal/config"
	"portfolio-backend/internal/database"
	"portfolio-backend/internal/handlers"
	"portfolio-backend/internal/llm"
	"portfolio-backend/internal/logging"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/repository"
	"portfolio-backend/internal/router"
	"portfolio-backend/internal/services"
	"portfolio-backend/internal/worker"
)

type chatStore interface {
	worker.InteractionStore
	services.InteractionRecorder
	services.HistoryLoader
}

func main() {
	// ──── Step 1: Load Configuration ────
	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, "info", "text").Error("configuration invalid", slog.Any("error", err))
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	logger.Info("starting portfolio backend", slog.String("config", cfg.String()))

	for _, name := range cfg.SkippedProviders {
		logger.Warn("provider skipped: api key variable not set", slog.String("provider", name))
	}

	// ──── Step 2: Open the Interaction Store ────
	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		logger.Error("store initialization failed", slog.String("driver", cfg.StoreDriver), slog.Any("error", err))
		os.Exit(1)
	}
	defer closeStore()
	logger.Info("store ready", slog.String("driver", cfg.StoreDriver))

	// ──── Step 3: Persistence Mode ────
	var (
		recorder   services.InteractionRecorder = store
		workerPool *worker.Pool
	)
	if cfg.PersistMode == "queue" {
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.Error("redis connection failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer redisClient.Close()

		recorder = services.NewQueuedRecorder(redisClient)
		workerPool = worker.NewPool(redisClient, store, cfg.WorkerCount, logger)
		workerPool.Start()
	}

	// ──── Step 4: Provider Chain ────
	registry := cfg.Registry()
	if registry.Len() == 0 {
		logger.Warn("no AI providers configured, replies will be canned")
	} else {
		logger.Info("providers registered", slog.Any("order", registry.Names()))
	}

	gemini := llm.NewGeminiCaller(logger)
	defer gemini.Close()

	transports := llm.Transports{
		llm.KindOpenAI: llm.NewHTTPCaller(nil, cfg.ProviderTimeout, logger),
		llm.KindGemini: gemini,
	}
	executor := llm.NewExecutor(transports, llm.DefaultRetryPolicy(), logger)
	controller := llm.NewController(registry, executor, llm.NewCannedResponder(cfg.CannedReplies), llm.Options{
		Persona:     cfg.Persona,
		MaxTokens:   cfg.MaxTokens,
		Temperature: float32(cfg.Temperature),
	}, logger)

	chatService := services.NewChatService(controller, recorder, store, services.ChatOptions{
		ContextBlock:   cfg.ContextBlock,
		HistoryLimit:   cfg.HistoryLimit,
		RequestTimeout: cfg.RequestTimeout,
	}, logger)

	// ──── Step 5: HTTP Server ────
	opts := router.Options{FrontendURL: cfg.FrontendURL}
	if cfg.ChatRatePerMinute > 0 {
		limiter := middleware.NewRateLimiter(cfg.ChatRatePerMinute, time.Minute)
		defer limiter.Stop()
		opts.ChatLimiter = limiter
	}
	if !cfg.IsProduction() {
		opts.DebugHandler = handlers.NewDebugHandler(registry, cfg.Env)
	}

	r := router.New(handlers.NewChatHandler(chatService, logger), opts)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown failed", slog.Any("error", err))
		}
		if workerPool != nil {
			workerPool.Stop()
		}
	}()

	logger.Info("portfolio backend ready", slog.String("api", fmt.Sprintf("http://localhost:%s/api/v1", cfg.Port)))

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
	<-shutdownDone
}

func openStore(cfg *config.Config, logger *slog.Logger) (chatStore, func(), error) {
	switch cfg.StoreDriver {
	case "postgres":
		pool, err := database.NewPostgresPool(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(pool, logger); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("database migration failed: %w", err)
		}
		return repository.NewChatInteractionRepo(pool), pool.Close, nil

	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewSQLiteChatRepo(db), func() { _ = db.Close() }, nil

	default:
		return repository.NewMemoryChatRepo(), func() {}, nil
	}
}

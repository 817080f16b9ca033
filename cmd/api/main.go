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

	"go.uber.org/zap"

	"recipe-book/internal/api"
	recipeHandler "recipe-book/internal/api/handlers/recipe"
	"recipe-book/internal/core/cache"
	"recipe-book/internal/core/catalog"
	"recipe-book/internal/core/codec"
	"recipe-book/internal/core/queue"
	"recipe-book/internal/core/recipe"
	"recipe-book/internal/infrastructure/config"
	"recipe-book/internal/infrastructure/fetch"
	"recipe-book/internal/infrastructure/store"
	"recipe-book/internal/pkg/common"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogDir); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("store_driver", cfg.Store.Driver),
		zap.String("redis_password", config.MaskSecret(cfg.Store.RedisPassword)),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("fetch_enabled", cfg.Fetch.Enabled),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	st, err := store.Open(startCtx, cfg.Store)
	if err != nil {
		common.LogFatal("Failed to open recipe store", zap.Error(err))
	}

	book := recipe.NewService(
		catalog.New(),
		st,
		cache.NewManager(cfg.Cache),
		queue.NewManager(cfg.Queue, codec.Decode),
	)
	defer func() {
		if err := book.Close(); err != nil {
			common.LogError("Failed to close recipe book", zap.Error(err))
		}
	}()

	result, err := book.Load(startCtx)
	if err != nil {
		common.LogFatal("Failed to load recipes", zap.Error(err))
	}
	if len(result.Failures) > 0 {
		common.LogWarn("Some stored recipes were skipped", zap.Error(result.Err()))
	}

	// 關閉遠端匯入時傳入 nil，匯入網址的請求回應 503
	var fetcher recipeHandler.Fetcher
	if cfg.Fetch.Enabled {
		fetcher = fetch.NewClient(cfg.Fetch)
	}

	router, cleanup, err := api.SetupRouter(cfg, book, fetcher)
	if err != nil {
		common.LogFatal("Failed to setup router", zap.Error(err))
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.Int("recipes", result.Loaded),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return
	}

	common.LogInfo("Server exited")
}

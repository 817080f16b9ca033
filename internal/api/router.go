package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-book/internal/api/handlers/health"
	recipeHandler "recipe-book/internal/api/handlers/recipe"
	"recipe-book/internal/api/middleware"
	recipeService "recipe-book/internal/core/recipe"
	"recipe-book/internal/infrastructure/config"
	"recipe-book/internal/pkg/common"
)

// SetupRouter 設置路由；回傳的 cleanup 需在關閉伺服器後呼叫
func SetupRouter(cfg *config.Config, book recipeService.Book, fetcher recipeHandler.Fetcher) (*gin.Engine, func(), error) {
	if cfg == nil || book == nil {
		return nil, nil, errors.New("router requires config and recipe book")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID)))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.Server.MaxBodyBytes > 0 {
		router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	}

	timeout := cfg.Server.RequestTimeout
	router.Use(func(c *gin.Context) {
		if timeout > 0 {
			ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
			defer cancel()
			c.Request = c.Request.WithContext(ctx)
		}
		c.Set(health.ConfigKey, cfg)
		c.Set(health.BookKey, book)
		c.Next()
	})

	router.NoRoute(NotFound)

	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	dedup := middleware.NewDeduplicator(cfg.DedupWindow)
	h := recipeHandler.NewHandler(book, fetcher)

	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	{
		recipes := api.Group("/recipes")
		recipes.GET("", h.HandleList)
		recipes.GET("/:index", h.HandleGetByIndex)
		recipes.GET("/:index/export", h.HandleExport)
		recipes.GET("/by-name/:name", h.HandleGetByName)
		recipes.DELETE("/:index", h.HandleDelete)
		recipes.POST("/filter", h.HandleFilter)
		recipes.POST("/pick", h.HandlePick)

		// 新增類請求去重
		recipes.POST("", dedup.Handler(), h.HandleCreate)
		recipes.POST("/import", dedup.Handler(), h.HandleImport)
		recipes.POST("/import-url", dedup.Handler(), h.HandleImportURL)

		tags := api.Group("/tags")
		tags.GET("", h.HandleSuggest)
		tags.POST("", h.HandleRegisterTag)

		api.POST("/shopping-list", h.HandleShoppingList)
	}

	common.LogInfo("Router setup completed",
		zap.String("store", cfg.Store.Driver),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("request_timeout", timeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
		zap.Bool("url_import", fetcher != nil),
	)

	return router, dedup.Close, nil
}

// NotFound 未知路由的統一響應
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, common.ErrorResponse{
		Code:    common.ErrCodeNotFound,
		Message: "route not found",
	})
}

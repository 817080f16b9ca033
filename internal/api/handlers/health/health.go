package health

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	recipeService "recipe-book/internal/core/recipe"
	"recipe-book/internal/infrastructure/config"
	"recipe-book/internal/pkg/common"
)

// Context 中的鍵
const (
	ConfigKey = "config"
	BookKey   = "book"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string              `json:"status"`
	Timestamp time.Time           `json:"timestamp"`
	Version   string              `json:"version"`
	Store     string              `json:"store"`
	Runtime   map[string]any      `json:"runtime"`
	Book      recipeService.Stats `json:"book"`
}

func fromContext(c *gin.Context) (*config.Config, recipeService.Book, bool) {
	cfg, ok := c.MustGet(ConfigKey).(*config.Config)
	if !ok {
		common.LogError("Invalid configuration type in context")
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Code:    common.ErrCodeInternalError,
			Message: "configuration not found",
		})
		return nil, nil, false
	}
	book, ok := c.MustGet(BookKey).(recipeService.Book)
	if !ok {
		common.LogError("Recipe book not found in context")
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Code:    common.ErrCodeInternalError,
			Message: "recipe book not found",
		})
		return nil, nil, false
	}
	return cfg, book, true
}

// HealthCheck 健康檢查處理器
func HealthCheck(c *gin.Context) {
	cfg, book, ok := fromContext(c)
	if !ok {
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   cfg.App.Version,
		Store:     cfg.Store.Driver,
		Runtime: map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Book: book.GetStats(),
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查：佇列未滿才接受匯入
func ReadinessCheck(c *gin.Context) {
	_, book, ok := fromContext(c)
	if !ok {
		return
	}
	stats := book.GetStats()
	if stats.Queue != nil && stats.Queue.MaxQueueSize > 0 && stats.Queue.QueueLength >= stats.Queue.MaxQueueSize {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "busy",
			"queue":  stats.Queue,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"recipes": stats.Recipes,
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

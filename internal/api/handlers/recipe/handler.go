package recipe

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-book/internal/core/codec"
	"recipe-book/internal/core/model"
	recipeService "recipe-book/internal/core/recipe"
	"recipe-book/internal/pkg/common"
)

// Fetcher 遠端文件下載
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Handler 食譜簿處理程序
type Handler struct {
	book    recipeService.Book
	fetcher Fetcher
}

// NewHandler 創建新的處理程序；fetcher 為 nil 時停用網址匯入
func NewHandler(book recipeService.Book, fetcher Fetcher) *Handler {
	return &Handler{book: book, fetcher: fetcher}
}

// indexParam 解析路徑中的索引
func indexParam(c *gin.Context) (int, bool) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil || i < 0 {
		respondError(c, common.ErrInvalidRequest.Wrap(errors.New("index must be a non-negative integer")))
		return 0, false
	}
	return i, true
}

// respondError 將錯誤轉為統一的錯誤響應
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var (
		pe *codec.ParseError
		ce *common.CustomError
	)
	switch {
	case errors.As(err, &pe):
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeParseError,
			Message: err.Error(),
			Details: gin.H{
				"token":  pe.Token,
				"line":   pe.Line,
				"column": pe.Column,
				"reason": pe.Reason,
			},
		})
	case errors.Is(err, model.ErrUnknownUnit), common.IsValidationError(err):
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeValidation,
			Message: err.Error(),
		})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, common.ErrorResponse{
			Code:    "REQUEST_TIMEOUT",
			Message: "request timeout",
		})
	case errors.As(err, &ce):
		var details any
		if ce.Err != nil && ce.Status < http.StatusInternalServerError {
			details = ce.Err.Error()
		}
		if ce.Status >= http.StatusInternalServerError {
			common.LogError("Request failed",
				zap.String("request_id", requestid.Get(c)),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
		}
		c.JSON(ce.Status, ce.Response(details))
	default:
		common.LogError("Unhandled error",
			zap.String("request_id", requestid.Get(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, common.ErrInternalError.Response(nil))
	}
}

// bindError JSON 解析失敗
func bindError(c *gin.Context, err error) {
	respondError(c, common.ErrInvalidRequest.Wrap(err))
}

package recipe

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-book/internal/pkg/common"
)

// HandleList 依加入順序列出食譜名稱
func (h *Handler) HandleList(c *gin.Context) {
	names := h.book.Names()
	c.JSON(http.StatusOK, gin.H{"names": names, "count": len(names)})
}

// HandleGetByIndex 以索引取得食譜
func (h *Handler) HandleGetByIndex(c *gin.Context) {
	i, ok := indexParam(c)
	if !ok {
		return
	}
	r, found := h.book.ByIndex(i)
	if !found {
		respondError(c, common.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, toView(r))
}

// HandleGetByName 以名稱取得食譜
func (h *Handler) HandleGetByName(c *gin.Context) {
	r, found := h.book.ByName(c.Param("name"))
	if !found {
		respondError(c, common.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, toView(r))
}

// HandleCreate 以 JSON 表單建立食譜
func (h *Handler) HandleCreate(c *gin.Context) {
	var form common.RecipeForm
	if err := common.DecodeJSONStrict(c.Request.Body, &form); err != nil {
		bindError(c, err)
		return
	}
	r, err := h.book.Create(c.Request.Context(), form)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toView(r))
}

// HandleImport 匯入純文字文件
func (h *Handler) HandleImport(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		bindError(c, err)
		return
	}
	h.importText(c, string(body), "body")
}

// HandleImportURL 下載並匯入文件
func (h *Handler) HandleImportURL(c *gin.Context) {
	if h.fetcher == nil {
		respondError(c, common.ErrServiceUnavailable.Wrap(errors.New("url import disabled")))
		return
	}
	var req common.ImportURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	text, err := h.fetcher.Fetch(c.Request.Context(), req.URL)
	if err != nil {
		respondError(c, err)
		return
	}
	h.importText(c, text, "url")
}

func (h *Handler) importText(c *gin.Context, text, source string) {
	r, err := h.book.Import(c.Request.Context(), text)
	if err != nil {
		common.LogInfo("Import rejected",
			zap.String("request_id", requestid.Get(c)),
			zap.String("source", source),
			zap.Error(err),
		)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toView(r))
}

// HandleExport 以文件格式輸出
func (h *Handler) HandleExport(c *gin.Context) {
	i, ok := indexParam(c)
	if !ok {
		return
	}
	r, found := h.book.ByIndex(i)
	if !found {
		respondError(c, common.ErrNotFound)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(h.book.Encode(r)))
}

// HandleDelete 以索引刪除
func (h *Handler) HandleDelete(c *gin.Context) {
	i, ok := indexParam(c)
	if !ok {
		return
	}
	r, err := h.book.RemoveAt(c.Request.Context(), i)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": r.Name})
}

func bindFilter(c *gin.Context) (common.FilterRequest, bool) {
	var req common.FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return req, false
	}
	if req.Serves < 0 || req.MaxTotalMinutes < 0 {
		respondError(c, common.NewValidationError("serves and max_total_minutes must not be negative"))
		return req, false
	}
	return req, true
}

// HandleFilter 條件篩選
func (h *Handler) HandleFilter(c *gin.Context) {
	req, ok := bindFilter(c)
	if !ok {
		return
	}
	recipes := h.book.Filter(req.Serves, time.Duration(req.MaxTotalMinutes)*time.Minute, req.Tags)
	c.JSON(http.StatusOK, gin.H{"recipes": toViews(recipes), "count": len(recipes)})
}

// HandlePick 從符合條件的食譜中隨機挑選
func (h *Handler) HandlePick(c *gin.Context) {
	req, ok := bindFilter(c)
	if !ok {
		return
	}
	name, found := h.book.PickOne(req.Serves, time.Duration(req.MaxTotalMinutes)*time.Minute, req.Tags)
	if !found {
		respondError(c, common.ErrNotFound.Wrap(errors.New("no recipe matches")))
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name})
}

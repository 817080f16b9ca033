package recipe

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recipe-book/internal/pkg/common"
)

// HandleSuggest 標籤自動完成；未帶 prefix 時回傳全部標籤
func (h *Handler) HandleSuggest(c *gin.Context) {
	prefix := c.Query("prefix")
	c.JSON(http.StatusOK, gin.H{
		"prefix":      common.NormalizeTag(prefix),
		"suggestions": h.book.Suggest(prefix),
	})
}

// HandleRegisterTag 登記標籤
func (h *Handler) HandleRegisterTag(c *gin.Context) {
	var req common.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	tag := common.NormalizeTag(req.Tag)
	if tag == "" {
		respondError(c, common.NewFieldError("tag", "must not be empty"))
		return
	}
	status := http.StatusOK
	created := h.book.RegisterTag(tag)
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"tag": tag, "created": created})
}

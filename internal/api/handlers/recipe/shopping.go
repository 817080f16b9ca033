package recipe

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recipe-book/internal/pkg/common"
)

// HandleShoppingList 彙總多份食譜的食材
func (h *Handler) HandleShoppingList(c *gin.Context) {
	var req common.ShoppingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	list, err := h.book.ShoppingList(req.Names)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items": shoppingEntries(list),
		"lines": list.Lines(),
	})
}

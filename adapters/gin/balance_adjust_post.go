package themegin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/open-rails/themekit/entitlements"
)

func HandleBalancePOST(store *entitlements.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Delta *int `json:"delta"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, "invalid_body")
			return
		}
		if body.Delta == nil {
			badRequest(c, "missing_delta")
			return
		}
		balance, err := store.AdjustBalance(c.Request.Context(), *body.Delta)
		if err != nil {
			reject(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "balance": balance})
	}
}

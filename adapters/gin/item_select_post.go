package themegin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/open-rails/themekit/entitlements"
)

func HandleSelectPOST(store *entitlements.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			ItemID string `json:"item_id"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, "invalid_body")
			return
		}
		id := strings.TrimSpace(body.ItemID)
		if id == "" {
			badRequest(c, "missing_item_id")
			return
		}
		if err := store.SelectItem(c.Request.Context(), id); err != nil {
			reject(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "active_item_id": id})
	}
}

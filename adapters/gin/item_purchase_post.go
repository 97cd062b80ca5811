package themegin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/open-rails/themekit/entitlements"
)

func HandlePurchasePOST(store *entitlements.Store) gin.HandlerFunc {
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
		rc, err := store.PurchaseItem(c.Request.Context(), id)
		if err != nil {
			reject(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"ok":         true,
			"receipt_id": rc.ID.String(),
			"item_id":    rc.ItemID,
			"price":      rc.Price,
			"balance":    rc.Balance,
		})
	}
}

package themegin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/open-rails/themekit/entitlements"
)

func HandleWardrobeGET(store *entitlements.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, store.Snapshot())
	}
}

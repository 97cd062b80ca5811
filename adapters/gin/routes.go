// Package themegin exposes the entitlement store over HTTP for the
// presentation layer. Rejections come back as reason-coded JSON, never as
// faults: the UI renders "insufficient balance" inline, it does not crash.
package themegin

import (
	"github.com/gin-gonic/gin"

	"github.com/open-rails/themekit/entitlements"
)

// Mount registers the wardrobe routes on r.
func Mount(r gin.IRouter, store *entitlements.Store) {
	r.GET("/wardrobe", HandleWardrobeGET(store))
	r.POST("/wardrobe/select", HandleSelectPOST(store))
	r.POST("/wardrobe/purchase", HandlePurchasePOST(store))
	r.POST("/wardrobe/balance", HandleBalancePOST(store))
}

package themegin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/open-rails/themekit/entitlements"
)

func badRequest(c *gin.Context, code string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": code})
}

// reject renders a store rejection with the matching status. The codes are
// stable API surface; clients key UI strings off them.
func reject(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, entitlements.ErrUnknownItem):
		status = http.StatusNotFound
	case errors.Is(err, entitlements.ErrNotOwned):
		status = http.StatusForbidden
	case errors.Is(err, entitlements.ErrAlreadyOwned):
		status = http.StatusConflict
	case errors.Is(err, entitlements.ErrInsufficientBalance):
		status = http.StatusPaymentRequired
	case errors.Is(err, entitlements.ErrClosed):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": entitlements.ReasonCode(err)})
}

// admin_only.go
package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"order-view-service/internal/service"
)

func IsAdmin(c *gin.Context) bool {
	return slices.Contains(c.GetStringSlice(KeyUserPermissions), service.PermissionAdmin)
}

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin privileges required"})
			return
		}
		c.Next()
	}
}

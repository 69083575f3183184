package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gharinto/internal/domain"
	"gharinto/internal/pkg/response"
)

// RequirePermission gates a route on the permission table for the caller's role.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		if !domain.RoleHasPermission(domain.UserRole(role), permission) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminOnly requires the admin role outright, permissions aside.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != string(domain.RoleAdmin) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: admin only")
			c.Abort()
			return
		}
		c.Next()
	}
}

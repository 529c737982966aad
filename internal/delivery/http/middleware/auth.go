package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	utils "github.com/codedpool/ReWear-Odoo/pkg"
)

// AuthRequired validates the Bearer token and stores the verified identity
// in the request context under "user_id" and "is_admin".
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid authorization header"})
			return
		}

		claims, err := utils.ValidateToken(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("user_id", userID)
		c.Set("is_admin", claims.IsAdmin)
		c.Next()
	}
}

// AuthOptional parses a Bearer token when one is present but lets anonymous
// requests through. Used on public reads that show owners more than
// strangers.
func AuthOptional(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			if claims, err := utils.ValidateToken(secret, strings.TrimPrefix(header, "Bearer ")); err == nil {
				if userID, err := uuid.Parse(claims.UserID); err == nil {
					c.Set("user_id", userID)
					c.Set("is_admin", claims.IsAdmin)
				}
			}
		}
		c.Next()
	}
}

// AdminRequired must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, ok := c.Get("is_admin")
		if !ok || !isAdmin.(bool) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

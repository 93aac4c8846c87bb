package middleware

import (
	"net/http"

	"carental/models"

	"github.com/gin-gonic/gin"
)

// AdminOnlyMiddleware gates account-management routes behind the admin role.
// It must run after JWTAuthManagerMiddleware, which sets managerRole.
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("managerRole")
		str, _ := role.(string)
		if models.ManagerRole(str) != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Administrator access required",
				"code":  0,
			})
			return
		}
		c.Next()
	}
}

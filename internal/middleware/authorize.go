package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Enforcer is the slice of the rbac service this middleware needs.
type Enforcer interface {
	Enforce(role, resource, action string) (bool, error)
}

// Authorize checks the authenticated role against the casbin policy
// for a resource/action pair.
func Authorize(enforcer Enforcer, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get("role")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			c.Abort()
			return
		}

		allowed, err := enforcer.Enforce(role.(string), resource, action)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"error":    "forbidden",
				"message":  "You do not have permission to access this resource",
				"required": resource + ":" + action,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

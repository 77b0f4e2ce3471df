package auth

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// RequireSelf only lets the request through when the path parameter param
// names the authenticated user. It must be used AFTER Middleware.
func RequireSelf(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		target, err := strconv.ParseUint(c.Param(param), 10, 32)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}
		if uint(target) != userID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You can only act on your own behalf"})
			return
		}
		c.Next()
	}
}

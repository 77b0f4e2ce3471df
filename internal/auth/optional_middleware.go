package auth

import (
	"socialise/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// OptionalMiddleware sets the userID if a valid token is present, but lets
// anonymous requests through.
func OptionalMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := tokenFrom(c); token != "" {
			if userID, err := jwt.ParseToken(token, secret); err == nil {
				c.Set(UserIDKey, userID)
			}
		}
		c.Next()
	}
}

package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cosmosecure/web/domain"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(tokenSvc domain.TokenService, sessionRepo domain.SessionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authorization header required"})
			c.Abort()
			return
		}

		tokenParts := strings.SplitN(authHeader, " ", 2)
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := tokenSvc.Validate(tokenParts[1])
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrTokenExpired):
				c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token expired"})
			default:
				c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token"})
			}
			c.Abort()
			return
		}

		// A token is only good while its backing session is alive, so
		// logout takes effect immediately.
		session, err := sessionRepo.FindByID(c.Request.Context(), claims.SessionID)
		if err != nil || session == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Session invalid or expired"})
			c.Abort()
			return
		}
		if session.UserID != claims.UserID {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Session invalid or expired"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("session_id", claims.SessionID)
		c.Next()
	}
}

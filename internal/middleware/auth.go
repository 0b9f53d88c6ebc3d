package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-chat/internal/database"
	"github.com/pushp314/devconnect-chat/internal/models"
	"github.com/pushp314/devconnect-chat/pkg/errors"
	"github.com/pushp314/devconnect-chat/pkg/utils"
)

// Authenticate validates a bearer token and checks that the user still exists.
// Realtime transports call it directly with the token from the query string.
func Authenticate(tokenString string) (uint, error) {
	if tokenString == "" {
		return 0, errors.Unauthorized("Authorization token required")
	}
	claims, err := utils.ValidateToken(tokenString)
	if err != nil {
		return 0, errors.Unauthorized("Invalid or expired token")
	}

	var user models.User
	if err := database.DB.Select("id").First(&user, "id = ?", claims.UserID).Error; err != nil {
		return 0, errors.Unauthorized("User not found")
	}
	return user.ID, nil
}

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		userID, err := Authenticate(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		// Handlers read the caller from here
		c.Set("userId", userID)
		c.Next()
	}
}

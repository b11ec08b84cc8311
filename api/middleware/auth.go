package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"tattoola/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const UserIDKey = "user_id"

var userService = services.NewUserService()

// AuthMiddleware проверяет Authorization: Bearer <token>.
// Если trustUserHeader, принимается и заголовок X-User-ID (внутренние вызовы, тесты)
func AuthMiddleware(trustUserHeader bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if trustUserHeader {
			if header := c.GetHeader("X-User-ID"); header != "" {
				userID, err := uuid.Parse(header)
				if err != nil {
					c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid X-User-ID format"})
					return
				}
				c.Set(UserIDKey, userID)
				c.Next()
				return
			}
		}

		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		userID, err := userService.CheckToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// AdminMiddleware пускает только с заголовком X-Admin-Token
func AdminMiddleware(adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader("X-Admin-Token")
		if adminToken == "" || subtle.ConstantTimeCompare([]byte(got), []byte(adminToken)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	// браузерный WebSocket не умеет ставить заголовки
	return c.Query("token")
}

package middleware

import (
	"net/http"
	"strings"
	"time"

	"volunteer-connect/internal/service"

	"github.com/gin-gonic/gin"
)

// Context keys set by JWTAuth.
const (
	KeyAccountID = "account_id"
	KeyEmail     = "email"
	KeyUserType  = "user_type"
)

func JWTAuth(tokens *service.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		raw := auth[7:]
		claims, err := tokens.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(KeyAccountID, claims.AccountID)
		c.Set(KeyEmail, claims.Email)
		c.Set(KeyUserType, claims.UserType)

		// renew when less than a day is left
		if claims.ExpiresAt != nil && time.Until(claims.ExpiresAt.Time) < 24*time.Hour {
			if fresh, err := tokens.Renew(claims); err == nil {
				c.Header("X-New-Token", fresh)
			}
		}

		c.Next()
	}
}

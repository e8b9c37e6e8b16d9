package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/ecovilla/exchange-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			c.Abort()
			return
		}

		claims := jwt.MapClaims{}
		parsedToken, err := jwt.ParseWithClaims(bearerToken[1], claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !parsedToken.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		userID, _ := claims["user_id"].(string)
		tenantID, _ := claims["tenant_id"].(string)
		if userID == "" || tenantID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}
		isAdmin, _ := claims["is_tenant_admin"].(bool)

		c.Set(string(utils.UserContextKey), &utils.UserClaims{
			UserID:        userID,
			TenantID:      tenantID,
			IsTenantAdmin: isAdmin,
		})

		c.Next()
	}
}

// AdminRequired guards the moderation routes. It assumes AuthMiddleware ran
// first.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := utils.GetUser(c)
		if user == nil || !user.IsTenantAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Tenant admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

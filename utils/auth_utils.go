package utils

import (
	"github.com/gin-gonic/gin"
)

type UserClaims struct {
	UserID        string `json:"user_id"`
	TenantID      string `json:"tenant_id"`
	IsTenantAdmin bool   `json:"is_tenant_admin"`
}

type contextKey string

const UserContextKey contextKey = "user"

func GetUser(c *gin.Context) *UserClaims {
	user, exists := c.Get(string(UserContextKey))
	if !exists {
		return nil
	}
	if userClaims, ok := user.(*UserClaims); ok {
		return userClaims
	}
	return nil
}

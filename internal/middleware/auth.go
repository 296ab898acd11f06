package middleware

import (
	"net/http"
	"strings"

	"Tabletop_Community/internal/pkg"
	"Tabletop_Community/internal/repository/redis"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey = "user_id"
	ContextRoleKey   = "role"
)

// AuthMiddleware 写操作的身份网关：解析 token 并比对 redis 会话，注入 user_id 与 role
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := resolveCaller(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "unauthenticated"})
			c.Abort()
			return
		}

		userRep := &redis.UserRepository{}

		// redis 校验是否是当前会话的 token
		originToken, err := userRep.GetUserToken(claims.UserID)
		if err != nil || originToken != bearerToken(c) {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "account has been logged in elsewhere"})
			c.Abort()
			return
		}

		// 校验通过后续期
		if err = userRep.ExtendUserToken(claims.UserID); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextRoleKey, claims.Role)
		c.Next()
	}
}

// OptionalAuthMiddleware 公开读接口用：带了有效 token 就注入身份，没带不拦截
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := resolveCaller(c); ok {
			c.Set(ContextUserIDKey, claims.UserID)
			c.Set(ContextRoleKey, claims.Role)
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func resolveCaller(c *gin.Context) (*pkg.Claims, bool) {
	tokenStr := bearerToken(c)
	if tokenStr == "" {
		return nil, false
	}
	claims, err := pkg.ParseAccess(tokenStr)
	if err != nil {
		return nil, false
	}
	return claims, true
}

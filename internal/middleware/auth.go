package middleware

import (
	"net/http"
	"strings"

	"Lin_BookClub/internal/pkg"
	"Lin_BookClub/internal/repository/redis"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey = "user_id"
	ContextRoleKey   = "user_role"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"kind": pkg.KindUnauthenticated, "msg": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"kind": pkg.KindUnauthenticated, "msg": "invalid authorization format"})
			c.Abort()
			return
		}

		tokenStr := parts[1]
		sessions := &redis.SessionRepository{}

		claims, err := pkg.ParseAccess(tokenStr)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"kind": pkg.KindUnauthenticated, "msg": "invalid or expired token"})
			c.Abort()
			return
		}

		// redis校验是否是当前会话的token
		originToken, err := sessions.Get(c.Request.Context(), claims.UserID)
		if err != nil || originToken != tokenStr {
			c.JSON(http.StatusUnauthorized, gin.H{"kind": pkg.KindUnauthenticated, "msg": "account has been logged in elsewhere"})
			c.Abort()
			return
		}

		// 校验通过后顺延过期时间
		if err = sessions.Touch(c.Request.Context(), claims.UserID); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"kind": pkg.KindInternal, "msg": err.Error()})
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextRoleKey, claims.Role)
		c.Next()
	}
}

// UserID 从上下文取当前用户
func UserID(c *gin.Context) uint64 {
	if v, ok := c.Get(ContextUserIDKey); ok {
		if id, ok2 := v.(uint64); ok2 {
			return id
		}
	}
	return 0
}

// Role 从上下文取当前角色
func Role(c *gin.Context) pkg.Role {
	if v, ok := c.Get(ContextRoleKey); ok {
		if r, ok2 := v.(int); ok2 {
			return pkg.Role(r)
		}
	}
	return pkg.RoleMember
}

package middleware

import (
	"strings"
	"youth_hub_backend/internal/model"
	"youth_hub_backend/internal/service"
	"youth_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const (
	contextUserKey  = "user"
	contextTokenKey = "token"
)

// BearerToken 从请求中提取不透明令牌
func BearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return c.Query("token")
}

// AuthMiddleware 校验令牌并把当前用户放入上下文；
// 未知/过期令牌统一返回 401，不区分原因
func AuthMiddleware(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := BearerToken(c)
		if tok == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		user, ok := auth.ValidateToken(tok)
		if !ok {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(contextUserKey, user)
		c.Set(contextTokenKey, tok)
		c.Next()
	}
}

// CurrentUser 取出 AuthMiddleware 写入的用户
func CurrentUser(c *gin.Context) *model.User {
	v, exists := c.Get(contextUserKey)
	if !exists {
		return nil
	}
	user, ok := v.(*model.User)
	if !ok {
		return nil
	}
	return user
}

func CurrentToken(c *gin.Context) string {
	return c.GetString(contextTokenKey)
}

// RoleMiddleware 管理员放行一切，其余按白名单
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		hasRole := false
		for _, role := range roles {
			if user.Role == model.Admin || user.Role == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

type UserActivityRepo interface {
	UpdateLastSeen(userID string) error
}

// ActivityMiddleware 异步刷新用户活跃时间，不阻塞主流程
func ActivityMiddleware(repo UserActivityRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := CurrentUser(c); user != nil {
			go repo.UpdateLastSeen(user.ID)
		}
		c.Next()
	}
}

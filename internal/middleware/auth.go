package middleware

import (
	"context"
	"net/http"
	"quiz_iq_backend/internal/model"
	"quiz_iq_backend/internal/util"
	"quiz_iq_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionResolver 由 AuthService 实现
type SessionResolver interface {
	ResolveUser(ctx context.Context, token string) (*model.User, error)
	ResolveAdmin(ctx context.Context, token string) (*model.Admin, error)
}

// SessionMiddleware 从 Cookie 中解析用户/管理员会话并写入上下文，不做拦截
func SessionMiddleware(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if token, err := c.Cookie(util.UserTokenCookie); err == nil && token != "" {
			user, err := resolver.ResolveUser(ctx, token)
			if err != nil {
				logger.Log.Debug("User session rejected", zap.Error(err))
			} else {
				c.Set(util.CtxUserID, user.ID)
				c.Set(util.CtxUser, user)
			}
		}

		if token, err := c.Cookie(util.AdminTokenCookie); err == nil && token != "" {
			admin, err := resolver.ResolveAdmin(ctx, token)
			if err != nil {
				logger.Log.Debug("Admin session rejected", zap.Error(err))
			} else {
				c.Set(util.CtxAdminID, admin.ID)
				c.Set(util.CtxAdmin, admin)
			}
		}

		c.Next()
	}
}

func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if util.GetUserIDFromContext(c) == "" {
			util.Error(c, http.StatusUnauthorized, "Not authenticated")
			c.Abort()
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if util.GetAdminIDFromContext(c) == "" {
			util.Error(c, http.StatusUnauthorized, "Admin authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

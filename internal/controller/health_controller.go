package controller

import (
	"context"
	"net/http"
	"quiz_iq_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const healthPingTimeout = 2 * time.Second

type componentCheck struct {
	name string
	ping func(ctx context.Context) error
}

type HealthController struct {
	checks []componentCheck
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	checks := []componentCheck{{
		name: "database",
		ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}}
	if rdb != nil {
		checks = append(checks, componentCheck{
			name: "redis",
			ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}
	return &HealthController{checks: checks}
}

// @Summary 健康检查
// @Description 检查数据库和 Redis 状态，任一不可用返回 503（会话依赖 Redis）
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	components := gin.H{}
	healthy := true
	for _, check := range c.checks {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthPingTimeout)
		err := check.ping(pingCtx)
		cancel()
		if err != nil {
			healthy = false
			components[check.name] = "down"
			continue
		}
		components[check.name] = "up"
	}

	status, message, overall := http.StatusOK, "success", "ok"
	if !healthy {
		status, message, overall = http.StatusServiceUnavailable, "Service unavailable", "degraded"
	}
	ctx.JSON(status, util.Response{
		Code:    status,
		Message: message,
		Data: gin.H{
			"status":     overall,
			"components": components,
		},
	})
}

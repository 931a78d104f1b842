package controller

import (
	"class_tracker/internal/service"
	"class_tracker/internal/util"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	componentUp       = "up"
	componentDown     = "down"
	componentDisabled = "disabled"
)

type HealthController struct {
	DB      *gorm.DB
	AI      *service.AIService
	Storage *service.StorageService
	// Redis 仅在会话存储选择 redis 时设置
	Redis *redis.Client
}

func NewHealthController(db *gorm.DB, ai *service.AIService, storage *service.StorageService, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, AI: ai, Storage: storage, Redis: rdb}
}

// @Summary 健康检查
// @Description 数据库、会话存储、AI 评分和音频存储的状态；数据库或 Redis 不可用时返回 503
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	components := gin.H{}
	healthy := true

	components["database"] = componentUp
	sqlDB, err := c.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(pingCtx)
	}
	if err != nil {
		components["database"] = componentDown
		healthy = false
	}

	if c.Redis != nil {
		components["sessions"] = gin.H{"store": "redis", "status": componentUp}
		if err := c.Redis.Ping(pingCtx).Err(); err != nil {
			components["sessions"] = gin.H{"store": "redis", "status": componentDown}
			healthy = false
		}
	} else {
		components["sessions"] = gin.H{"store": "database", "status": components["database"]}
	}

	// 未配置 API Key 时听写走本地算法，作文批改不可用
	if c.AI != nil && c.AI.Enabled() {
		components["ai"] = componentUp
	} else {
		components["ai"] = componentDisabled
	}

	if c.Storage != nil {
		components["storage"] = c.Storage.Kind
	}

	if !healthy {
		ctx.JSON(http.StatusServiceUnavailable, util.Response{
			Code:    http.StatusServiceUnavailable,
			Message: "Service unavailable",
			Data:    gin.H{"status": "degraded", "components": components},
		})
		return
	}

	util.Success(ctx, gin.H{
		"status":     "ok",
		"components": components,
	})
}

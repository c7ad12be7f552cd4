package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/error/response"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/infrastructure/database"
)

// HealthCheckController 健康检查控制器
type HealthCheckController struct {
	Pool *database.ConnectionPool
}

// NewHealthCheckController 创建健康检查控制器实例
func NewHealthCheckController(pool *database.ConnectionPool) *HealthCheckController {
	return &HealthCheckController{Pool: pool}
}

// Ping 健康检查端点
func (h *HealthCheckController) Ping(c *gin.Context) {
	response.Success(c, gin.H{
		"status":  "healthy",
		"message": "pong",
	})
}

// Health 数据库健康检查端点
func (h *HealthCheckController) Health(c *gin.Context) {
	status := "healthy"
	dbStatus := "up"
	if h.Pool != nil {
		if err := h.Pool.HealthCheck(); err != nil {
			status = "degraded"
			dbStatus = "down"
		}
	}

	response.Success(c, gin.H{
		"status":   status,
		"database": dbStatus,
	})
}

package controllers

import (
	"strconv"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/services"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/services/container"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/error/code"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceAuditController 定义安全审计控制器接口
type InterfaceAuditController interface {
	GetAuditLog()
}

// AuditController 处理安全审计相关的请求
type AuditController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAuditController 创建一个新的安全审计控制器
func NewAuditController(ctx *gin.Context, container *container.ServiceContainer) *AuditController {
	return &AuditController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleAuditFunc 返回一个处理审计请求的Gin处理函数
func HandleAuditFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAuditController(ctx, container)

		switch method {
		case "getAuditLog":
			controller.GetAuditLog()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// GetAuditLog 获取安全审计日志
// @Summary      获取审计日志
// @Description  分页获取安全审计记录，按时间倒序，仅管理员可见
// @Tags         Audit
// @Produce      json
// @Param        page query int false "页码，默认为1" example:"1"
// @Param        page_size query int false "每页条数，默认为20" example:"20"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  ErrorResponse
// @Router       /audit [get]
// @Security     BearerAuth
func (c *AuditController) GetAuditLog() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	auditService := c.Container.GetService("audit").(services.InterfaceAuditService)
	entries, total, err := auditService.GetAuditLog(page, pageSize)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询审计日志失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        entries,
	})
}

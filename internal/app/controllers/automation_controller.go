package controllers

import (
	"crypto/subtle"
	"strconv"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/services"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/services/container"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/error/code"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/error/response"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

// InterfaceAutomationController 定义自动化控制器接口
type InterfaceAutomationController interface {
	GetWorkflows()
	UpdateWorkflow()
	GetExecutions()
	TriggerSweep()
}

// AutomationController 处理SLA自动化相关的请求
type AutomationController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAutomationController 创建一个新的自动化控制器
func NewAutomationController(ctx *gin.Context, container *container.ServiceContainer) *AutomationController {
	return &AutomationController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleAutomationFunc 返回一个处理自动化请求的Gin处理函数
func HandleAutomationFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAutomationController(ctx, container)

		switch method {
		case "getWorkflows":
			controller.GetWorkflows()
		case "updateWorkflow":
			controller.UpdateWorkflow()
		case "getExecutions":
			controller.GetExecutions()
		case "triggerSweep":
			controller.TriggerSweep()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// GetWorkflows 获取自动化流程列表
// @Summary      获取自动化流程
// @Description  获取全部自动化流程配置
// @Tags         Automation
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /automation/workflows [get]
// @Security     BearerAuth
func (c *AutomationController) GetWorkflows() {
	automationService := c.Container.GetService("automation").(services.InterfaceAutomationService)
	workflows, err := automationService.GetWorkflows()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询自动化流程失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, workflows)
}

// UpdateWorkflowRequest 表示更新自动化流程的请求体
type UpdateWorkflowRequest struct {
	Enabled       *bool `json:"enabled" example:"true"`
	ThresholdMins *int  `json:"threshold_mins" example:"30"`
}

// UpdateWorkflow 更新自动化流程配置
// @Summary      更新自动化流程
// @Description  启用/禁用自动化流程或调整其逾期阈值
// @Tags         Automation
// @Accept       json
// @Produce      json
// @Param        id path string true "流程ID"
// @Param        request body UpdateWorkflowRequest true "流程参数"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /automation/workflows/{id} [put]
// @Security     BearerAuth
func (c *AutomationController) UpdateWorkflow() {
	id := c.Ctx.Param("id")

	var req UpdateWorkflowRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Enabled != nil {
		updates["enabled"] = *req.Enabled
	}
	if req.ThresholdMins != nil {
		if *req.ThresholdMins < 1 {
			response.ParamError(c.Ctx, "逾期阈值必须大于0")
			return
		}
		updates["threshold_mins"] = *req.ThresholdMins
	}
	if len(updates) == 0 {
		response.ParamError(c.Ctx, "没有可更新的字段")
		return
	}

	automationService := c.Container.GetService("automation").(services.InterfaceAutomationService)
	workflow, err := automationService.UpdateWorkflow(id, updates)
	if err != nil {
		if err.Error() == "自动化流程不存在" {
			response.Fail(c.Ctx, code.ErrWorkflowNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "更新自动化流程失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, workflow)
}

// GetExecutions 获取自动化执行记录
// @Summary      获取执行记录
// @Description  分页获取自动化流程的历史执行记录
// @Tags         Automation
// @Produce      json
// @Param        page query int false "页码，默认为1" example:"1"
// @Param        page_size query int false "每页条数，默认为10" example:"10"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /automation/executions [get]
// @Security     BearerAuth
func (c *AutomationController) GetExecutions() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "10"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	automationService := c.Container.GetService("automation").(services.InterfaceAutomationService)
	executions, total, err := automationService.GetExecutions(page, pageSize)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询执行记录失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        executions,
	})
}

// TriggerSweepRequest 表示手动触发SLA扫描的请求体
type TriggerSweepRequest struct {
	ThresholdMins int `json:"threshold_mins" example:"30"`
}

// TriggerSweep 手动触发逾期线索改派扫描。
// 该接口面向外部调度器，使用共享密钥而不是JWT鉴权
// @Summary      触发SLA扫描
// @Description  立即执行一次逾期线索改派，需携带X-Sweep-Secret头
// @Tags         Automation
// @Accept       json
// @Produce      json
// @Param        X-Sweep-Secret header string true "扫描触发密钥"
// @Param        request body TriggerSweepRequest false "扫描参数"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  ErrorResponse
// @Router       /automation/sweep [post]
func (c *AutomationController) TriggerSweep() {
	cfg := c.Container.GetService("config").(*config.Config)
	secret := c.Ctx.GetHeader("X-Sweep-Secret")
	if cfg.SLASweepSecret == "" ||
		subtle.ConstantTimeCompare([]byte(secret), []byte(cfg.SLASweepSecret)) != 1 {
		response.Fail(c.Ctx, code.ErrSweepSecretInvalid, nil)
		return
	}

	var req TriggerSweepRequest
	_ = c.Ctx.ShouldBindJSON(&req)

	automationService := c.Container.GetService("automation").(services.InterfaceAutomationService)
	execution, err := automationService.ReassignOverdueLeads(req.ThresholdMins, models.ExecutionTriggerManual)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "执行SLA扫描失败: "+err.Error(), nil)
		return
	}
	if execution == nil {
		response.Success(c.Ctx, gin.H{"skipped": true, "reason": "workflow disabled"})
		return
	}

	response.Success(c.Ctx, execution)
}

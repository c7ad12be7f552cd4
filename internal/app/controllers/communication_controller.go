package controllers

import (
	"strconv"
	"time"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/services"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/services/container"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/error/code"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceCommunicationController 定义沟通记录控制器接口
type InterfaceCommunicationController interface {
	LogCallOutcome()
	GetLeadCommunications()
}

// CommunicationController 处理沟通记录相关的请求
type CommunicationController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewCommunicationController 创建一个新的沟通记录控制器
func NewCommunicationController(ctx *gin.Context, container *container.ServiceContainer) *CommunicationController {
	return &CommunicationController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleCommunicationFunc 返回一个处理沟通记录请求的Gin处理函数
func HandleCommunicationFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewCommunicationController(ctx, container)

		switch method {
		case "logCallOutcome":
			controller.LogCallOutcome()
		case "getLeadCommunications":
			controller.GetLeadCommunications()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// LogCallOutcomeRequest 表示记录通话结果的请求体
type LogCallOutcomeRequest struct {
	Outcome    string `json:"outcome" binding:"required" example:"answered"` // 可选值: answered, no_answer, busy, callback, voicemail, interested, not_interested
	Notes      string `json:"notes" example:"Asked for a viewing next week"`
	CallbackAt string `json:"callback_at" example:"2025-01-16T14:00:00Z"`
}

// LogCallOutcome 记录通话结果
// @Summary      记录通话结果
// @Description  为线索记录一次通话结果，刷新最近联系时间，约定回拨时自动创建follow_up日程
// @Tags         Communication
// @Accept       json
// @Produce      json
// @Param        id path string true "线索ID"
// @Param        request body LogCallOutcomeRequest true "通话结果参数"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /leads/{id}/calls [post]
// @Security     BearerAuth
func (c *CommunicationController) LogCallOutcome() {
	leadID := c.Ctx.Param("id")

	var req LogCallOutcomeRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	var callbackAt *time.Time
	if req.CallbackAt != "" {
		t, err := time.Parse(time.RFC3339, req.CallbackAt)
		if err != nil {
			response.ParamError(c.Ctx, "无效的回拨时间")
			return
		}
		callbackAt = &t
	}

	agentID := ""
	if v, exists := c.Ctx.Get("userID"); exists {
		agentID, _ = v.(string)
	}

	commService := c.Container.GetService("communication").(services.InterfaceCommunicationService)
	comm, err := commService.LogCallOutcome(leadID, agentID, req.Outcome, req.Notes, callbackAt)
	if err != nil {
		if err.Error() == "线索不存在" {
			response.Fail(c.Ctx, code.ErrLeadNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "记录通话结果失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, comm)
}

// GetLeadCommunications 获取线索的沟通记录
// @Summary      获取线索沟通记录
// @Description  分页获取线索的全部沟通记录
// @Tags         Communication
// @Produce      json
// @Param        id path string true "线索ID"
// @Param        page query int false "页码，默认为1" example:"1"
// @Param        page_size query int false "每页条数，默认为10" example:"10"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /leads/{id}/communications [get]
// @Security     BearerAuth
func (c *CommunicationController) GetLeadCommunications() {
	leadID := c.Ctx.Param("id")
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "10"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	commService := c.Container.GetService("communication").(services.InterfaceCommunicationService)
	comms, total, err := commService.GetLeadCommunications(leadID, page, pageSize)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询沟通记录失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        comms,
	})
}

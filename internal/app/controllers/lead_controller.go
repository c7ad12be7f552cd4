package controllers

import (
	"strconv"
	"time"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/services"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/services/container"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/error/code"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/error/response"
	"github.com/Vfxchu/Real-estate-Crm-sub005/pkg/logger"

	"github.com/gin-gonic/gin"
)

// InterfaceLeadController 定义线索控制器接口
type InterfaceLeadController interface {
	GetLeads()
	GetLead()
	CreateLead()
	UpdateLead()
	DeleteLead()
	UpdateLeadStatus()
	AssignLead()
	ConvertLead()
	GetLeadStatistics()
}

// LeadController 处理线索相关的请求
type LeadController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewLeadController 创建一个新的线索控制器
func NewLeadController(ctx *gin.Context, container *container.ServiceContainer) *LeadController {
	return &LeadController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleLeadFunc 返回一个处理线索请求的Gin处理函数
func HandleLeadFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewLeadController(ctx, container)

		switch method {
		case "getLeads":
			controller.GetLeads()
		case "getLead":
			controller.GetLead()
		case "createLead":
			controller.CreateLead()
		case "updateLead":
			controller.UpdateLead()
		case "deleteLead":
			controller.DeleteLead()
		case "updateLeadStatus":
			controller.UpdateLeadStatus()
		case "assignLead":
			controller.AssignLead()
		case "convertLead":
			controller.ConvertLead()
		case "getLeadStatistics":
			controller.GetLeadStatistics()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// actorID 从上下文提取当前用户ID
func (c *LeadController) actorID() string {
	if v, exists := c.Ctx.Get("userID"); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// GetLeads 获取线索列表
// @Summary      获取线索列表
// @Description  获取所有线索，支持分页、状态过滤和搜索
// @Tags         Lead
// @Produce      json
// @Param        page query int false "页码，默认为1" example:"1"
// @Param        page_size query int false "每页条数，默认为10" example:"10"
// @Param        status query string false "状态过滤" example:"new"
// @Param        search query string false "搜索关键词(姓名、邮箱、电话)" example:"jane"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /leads [get]
// @Security     BearerAuth
func (c *LeadController) GetLeads() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "10"))
	status := c.Ctx.Query("status")
	search := c.Ctx.Query("search")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	leadService := c.Container.GetService("lead").(services.InterfaceLeadService)
	leads, total, err := leadService.GetAllLeads(page, pageSize, status, search)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询线索列表失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        leads,
	})
}

// GetLead 获取单个线索详情
// @Summary      获取线索详情
// @Description  根据ID获取特定线索的详细信息
// @Tags         Lead
// @Produce      json
// @Param        id path string true "线索ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /leads/{id} [get]
// @Security     BearerAuth
func (c *LeadController) GetLead() {
	id := c.Ctx.Param("id")

	leadService := c.Container.GetService("lead").(services.InterfaceLeadService)
	lead, err := leadService.GetLeadByID(id)
	if err != nil {
		if err.Error() == "线索不存在" {
			response.Fail(c.Ctx, code.ErrLeadNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询线索失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, lead)
}

// CreateLeadRequest 表示创建线索的请求体
type CreateLeadRequest struct {
	Name     string `json:"name" binding:"required" example:"Jane Doe"`
	Email    string `json:"email" example:"jane@example.com"`
	Phone    string `json:"phone" example:"971501234567"`
	Status   string `json:"status" example:"new"`
	Priority string `json:"priority" example:"medium"` // 可选值: low, medium, high
	Source   string `json:"source" example:"website"`
	Location string `json:"location" example:"Dubai Marina"`
	Budget   string `json:"budget" example:"1.5M-2M"`
	Notes    string `json:"notes" example:"Looking for a 2BR apartment"`
	AgentID  string `json:"agent_id" example:"6c1f7cbb-9a2f-4a57-b1d2-0e1f6f1a0c11"`
}

// CreateLead 创建新线索
// @Summary      创建线索
// @Description  创建一条新的销售线索
// @Tags         Lead
// @Accept       json
// @Produce      json
// @Param        request body CreateLeadRequest true "线索信息"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /leads [post]
// @Security     BearerAuth
func (c *LeadController) CreateLead() {
	var req CreateLeadRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	lead := &models.Lead{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Status:   req.Status,
		Priority: req.Priority,
		Source:   req.Source,
		Location: req.Location,
		Budget:   req.Budget,
		Notes:    req.Notes,
	}
	if req.AgentID != "" {
		lead.AgentID = &req.AgentID
	}

	leadService := c.Container.GetService("lead").(services.InterfaceLeadService)
	if err := leadService.CreateLead(lead); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "创建线索失败: "+err.Error(), nil)
		return
	}

	c.invalidateStatistics()
	response.Success(c.Ctx, lead)
}

// UpdateLeadRequest 表示更新线索的请求体
type UpdateLeadRequest struct {
	Name     string `json:"name" example:"Jane Doe"`
	Email    string `json:"email" example:"jane@example.com"`
	Phone    string `json:"phone" example:"971501234567"`
	Priority string `json:"priority" example:"high"`
	Source   string `json:"source" example:"referral"`
	Location string `json:"location" example:"Downtown"`
	Budget   string `json:"budget" example:"2M-3M"`
	Notes    string `json:"notes" example:"Prefers sea view"`
}

// UpdateLead 更新线索信息
// @Summary      更新线索
// @Description  更新现有线索的基础信息，状态变更走独立接口
// @Tags         Lead
// @Accept       json
// @Produce      json
// @Param        id path string true "线索ID"
// @Param        request body UpdateLeadRequest true "更新的线索信息"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /leads/{id} [put]
// @Security     BearerAuth
func (c *LeadController) UpdateLead() {
	id := c.Ctx.Param("id")

	var req UpdateLeadRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Priority != "" {
		updates["priority"] = models.ValidLeadPriority(req.Priority)
	}
	if req.Source != "" {
		updates["source"] = req.Source
	}
	if req.Location != "" {
		updates["location"] = req.Location
	}
	if req.Budget != "" {
		updates["budget"] = req.Budget
	}
	if req.Notes != "" {
		updates["notes"] = req.Notes
	}

	leadService := c.Container.GetService("lead").(services.InterfaceLeadService)
	lead, err := leadService.UpdateLead(id, updates)
	if err != nil {
		if err.Error() == "线索不存在" {
			response.Fail(c.Ctx, code.ErrLeadNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "更新线索失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, lead)
}

// DeleteLead 删除线索
// @Summary      删除线索
// @Description  删除指定ID的线索
// @Tags         Lead
// @Produce      json
// @Param        id path string true "线索ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /leads/{id} [delete]
// @Security     BearerAuth
func (c *LeadController) DeleteLead() {
	id := c.Ctx.Param("id")

	leadService := c.Container.GetService("lead").(services.InterfaceLeadService)
	if err := leadService.DeleteLead(id); err != nil {
		if err.Error() == "线索不存在" {
			response.Fail(c.Ctx, code.ErrLeadNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "删除线索失败: "+err.Error(), nil)
		return
	}

	c.invalidateStatistics()
	response.Success(c.Ctx, nil)
}

// UpdateLeadStatusRequest 表示更新线索状态的请求体
type UpdateLeadStatusRequest struct {
	Status string `json:"status" binding:"required" example:"qualified"` // 可选值: new, contacted, qualified, negotiation, won, lost
	Reason string `json:"reason" example:"Completed viewing, ready to make offer"`
}

// UpdateLeadStatus 更新线索状态
// @Summary      更新线索状态
// @Description  更新线索状态并追加一条状态变更记录
// @Tags         Lead
// @Accept       json
// @Produce      json
// @Param        id path string true "线索ID"
// @Param        request body UpdateLeadStatusRequest true "状态变更参数"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /leads/{id}/status [put]
// @Security     BearerAuth
func (c *LeadController) UpdateLeadStatus() {
	id := c.Ctx.Param("id")

	var req UpdateLeadStatusRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	if !models.ValidLeadStatus(req.Status) {
		response.ParamError(c.Ctx, "无效的线索状态")
		return
	}

	leadService := c.Container.GetService("lead").(services.InterfaceLeadService)
	lead, err := leadService.UpdateLeadStatus(id, req.Status, req.Reason, c.actorID())
	if err != nil {
		if err.Error() == "线索不存在" {
			response.Fail(c.Ctx, code.ErrLeadNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "更新线索状态失败: "+err.Error(), nil)
		return
	}

	c.invalidateStatistics()
	response.Success(c.Ctx, lead)
}

// AssignLeadRequest 表示分配线索的请求体
type AssignLeadRequest struct {
	AgentID string `json:"agent_id" binding:"required" example:"6c1f7cbb-9a2f-4a57-b1d2-0e1f6f1a0c11"`
}

// AssignLead 分配线索给经纪人
// @Summary      分配线索
// @Description  将线索分配给指定经纪人，并通知该经纪人
// @Tags         Lead
// @Accept       json
// @Produce      json
// @Param        id path string true "线索ID"
// @Param        request body AssignLeadRequest true "分配参数"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /leads/{id}/assign [put]
// @Security     BearerAuth
func (c *LeadController) AssignLead() {
	id := c.Ctx.Param("id")

	var req AssignLeadRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	leadService := c.Container.GetService("lead").(services.InterfaceLeadService)
	lead, err := leadService.AssignLead(id, req.AgentID, c.actorID())
	if err != nil {
		switch err.Error() {
		case "线索不存在":
			response.Fail(c.Ctx, code.ErrLeadNotFound, nil)
		case "用户不存在":
			response.Fail(c.Ctx, code.ErrUserNotFound, nil)
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, "分配线索失败: "+err.Error(), nil)
		}
		return
	}

	// 通知新经纪人
	notificationService := c.Container.GetService("notification").(services.InterfaceNotificationService)
	if _, err := notificationService.Notify(req.AgentID,
		"Lead assigned to you",
		"Lead "+lead.Name+" was assigned to you",
		models.NotificationKindLeadAssigned); err != nil {
		logger.Warning("线索分配通知推送失败: %v", err)
	}

	response.Success(c.Ctx, lead)
}

// ConvertLead 将线索转化为联系人
// @Summary      转化线索
// @Description  将线索转化为规范联系人，邮箱或电话匹配既有联系人时回指既有记录
// @Tags         Lead
// @Produce      json
// @Param        id path string true "线索ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /leads/{id}/convert [post]
// @Security     BearerAuth
func (c *LeadController) ConvertLead() {
	id := c.Ctx.Param("id")

	leadService := c.Container.GetService("lead").(services.InterfaceLeadService)
	contact, err := leadService.ConvertLeadToContact(id, c.actorID())
	if err != nil {
		switch err.Error() {
		case "线索不存在":
			response.Fail(c.Ctx, code.ErrLeadNotFound, nil)
		case "线索已转化为联系人":
			response.Fail(c.Ctx, code.ErrLeadAlreadyConverted, nil)
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, "转化线索失败: "+err.Error(), nil)
		}
		return
	}

	response.Success(c.Ctx, contact)
}

// GetLeadStatistics 获取线索统计
// @Summary      获取线索统计
// @Description  按状态统计线索数量，结果短暂缓存
// @Tags         Lead
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /leads/statistics [get]
// @Security     BearerAuth
func (c *LeadController) GetLeadStatistics() {
	redisService := c.Container.GetService("redis").(services.InterfaceRedisService)
	if stats, err := redisService.GetLeadStatistics(); err == nil && stats != nil {
		response.Success(c.Ctx, stats)
		return
	}

	leadService := c.Container.GetService("lead").(services.InterfaceLeadService)
	stats, err := leadService.GetLeadStatistics()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询线索统计失败: "+err.Error(), nil)
		return
	}

	if err := redisService.CacheLeadStatistics(stats, 2*time.Minute); err != nil {
		logger.Warning("缓存线索统计失败: %v", err)
	}

	response.Success(c.Ctx, stats)
}

// invalidateStatistics 失效线索统计缓存
func (c *LeadController) invalidateStatistics() {
	redisService := c.Container.GetService("redis").(services.InterfaceRedisService)
	if err := redisService.InvalidateLeadStatistics(); err != nil {
		logger.Warning("失效线索统计缓存失败: %v", err)
	}
}

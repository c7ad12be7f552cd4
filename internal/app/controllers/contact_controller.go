package controllers

import (
	"strconv"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/services"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/services/container"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/error/code"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceContactController 定义联系人控制器接口
type InterfaceContactController interface {
	GetContacts()
	GetContact()
	CreateContact()
	UpdateContact()
	DeleteContact()
	SetManualStatus()
	SetAutoMode()
	RecomputeStatus()
	GetAliases()
	LinkProperty()
	UnlinkProperty()
	GetContactProperties()
	GetTimeline()
}

// ContactController 处理联系人相关的请求
type ContactController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewContactController 创建一个新的联系人控制器
func NewContactController(ctx *gin.Context, container *container.ServiceContainer) *ContactController {
	return &ContactController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleContactFunc 返回一个处理联系人请求的Gin处理函数
func HandleContactFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewContactController(ctx, container)

		switch method {
		case "getContacts":
			controller.GetContacts()
		case "getContact":
			controller.GetContact()
		case "createContact":
			controller.CreateContact()
		case "updateContact":
			controller.UpdateContact()
		case "deleteContact":
			controller.DeleteContact()
		case "setManualStatus":
			controller.SetManualStatus()
		case "setAutoMode":
			controller.SetAutoMode()
		case "recomputeStatus":
			controller.RecomputeStatus()
		case "getAliases":
			controller.GetAliases()
		case "linkProperty":
			controller.LinkProperty()
		case "unlinkProperty":
			controller.UnlinkProperty()
		case "getContactProperties":
			controller.GetContactProperties()
		case "getTimeline":
			controller.GetTimeline()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// actorID 从上下文提取当前用户ID
func (c *ContactController) actorID() string {
	if v, exists := c.Ctx.Get("userID"); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// GetContacts 获取联系人列表
// @Summary      获取联系人列表
// @Description  获取所有联系人，支持分页和搜索
// @Tags         Contact
// @Produce      json
// @Param        page query int false "页码，默认为1" example:"1"
// @Param        page_size query int false "每页条数，默认为10" example:"10"
// @Param        search query string false "搜索关键词(姓名、邮箱、电话)" example:"jane"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /contacts [get]
// @Security     BearerAuth
func (c *ContactController) GetContacts() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "10"))
	search := c.Ctx.Query("search")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	contactService := c.Container.GetService("contact").(services.InterfaceContactService)
	contacts, total, err := contactService.GetAllContacts(page, pageSize, search)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询联系人列表失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        contacts,
	})
}

// GetContact 获取单个联系人详情
// @Summary      获取联系人详情
// @Description  根据ID获取特定联系人的详细信息
// @Tags         Contact
// @Produce      json
// @Param        id path string true "联系人ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /contacts/{id} [get]
// @Security     BearerAuth
func (c *ContactController) GetContact() {
	id := c.Ctx.Param("id")

	contactService := c.Container.GetService("contact").(services.InterfaceContactService)
	contact, err := contactService.GetContactByID(id)
	if err != nil {
		if err.Error() == "联系人不存在" {
			response.Fail(c.Ctx, code.ErrContactNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询联系人失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, contact)
}

// CreateContactRequest 表示创建联系人的请求体
type CreateContactRequest struct {
	Name    string `json:"name" binding:"required" example:"Jane Doe"`
	Email   string `json:"email" example:"jane@example.com"`
	Phone   string `json:"phone" example:"971501234567"`
	Notes   string `json:"notes" example:"Repeat buyer"`
	AgentID string `json:"agent_id" example:"6c1f7cbb-9a2f-4a57-b1d2-0e1f6f1a0c11"`
}

// CreateContact 创建新联系人
// @Summary      创建联系人
// @Description  创建一个新的规范联系人，初始为自动状态模式
// @Tags         Contact
// @Accept       json
// @Produce      json
// @Param        request body CreateContactRequest true "联系人信息"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /contacts [post]
// @Security     BearerAuth
func (c *ContactController) CreateContact() {
	var req CreateContactRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	contact := &models.Contact{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Notes: req.Notes,
	}
	if req.AgentID != "" {
		contact.AgentID = &req.AgentID
	}

	contactService := c.Container.GetService("contact").(services.InterfaceContactService)
	if err := contactService.CreateContact(contact); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "创建联系人失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, contact)
}

// UpdateContactRequest 表示更新联系人的请求体
type UpdateContactRequest struct {
	Name  string `json:"name" example:"Jane Doe"`
	Email string `json:"email" example:"jane@example.com"`
	Phone string `json:"phone" example:"971501234567"`
	Notes string `json:"notes" example:"Prefers email contact"`
}

// UpdateContact 更新联系人信息
// @Summary      更新联系人
// @Description  更新联系人的基础信息，状态变更走独立接口
// @Tags         Contact
// @Accept       json
// @Produce      json
// @Param        id path string true "联系人ID"
// @Param        request body UpdateContactRequest true "更新的联系人信息"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /contacts/{id} [put]
// @Security     BearerAuth
func (c *ContactController) UpdateContact() {
	id := c.Ctx.Param("id")

	var req UpdateContactRequest
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
	if req.Notes != "" {
		updates["notes"] = req.Notes
	}

	contactService := c.Container.GetService("contact").(services.InterfaceContactService)
	contact, err := contactService.UpdateContact(id, updates)
	if err != nil {
		if err.Error() == "联系人不存在" {
			response.Fail(c.Ctx, code.ErrContactNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "更新联系人失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, contact)
}

// DeleteContact 删除联系人
// @Summary      删除联系人
// @Description  删除指定ID的联系人
// @Tags         Contact
// @Produce      json
// @Param        id path string true "联系人ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /contacts/{id} [delete]
// @Security     BearerAuth
func (c *ContactController) DeleteContact() {
	id := c.Ctx.Param("id")

	contactService := c.Container.GetService("contact").(services.InterfaceContactService)
	if err := contactService.DeleteContact(id); err != nil {
		if err.Error() == "联系人不存在" {
			response.Fail(c.Ctx, code.ErrContactNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "删除联系人失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, nil)
}

// SetManualStatusRequest 表示手动设置联系人状态的请求体
type SetManualStatusRequest struct {
	Status string `json:"status" binding:"required" example:"past"` // 可选值: active, past
}

// SetManualStatus 手动锁定联系人状态
// @Summary      手动设置联系人状态
// @Description  将联系人切换到手动模式并锁定指定状态，自动重算不再覆盖
// @Tags         Contact
// @Accept       json
// @Produce      json
// @Param        id path string true "联系人ID"
// @Param        request body SetManualStatusRequest true "状态参数"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /contacts/{id}/status [put]
// @Security     BearerAuth
func (c *ContactController) SetManualStatus() {
	id := c.Ctx.Param("id")

	var req SetManualStatusRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	if !models.ValidContactStatus(req.Status) {
		response.Fail(c.Ctx, code.ErrContactStatusInvalid, nil)
		return
	}

	contactService := c.Container.GetService("contact").(services.InterfaceContactService)
	contact, err := contactService.SetManualStatus(id, req.Status, c.actorID())
	if err != nil {
		if err.Error() == "联系人不存在" {
			response.Fail(c.Ctx, code.ErrContactNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "设置联系人状态失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, contact)
}

// SetAutoMode 恢复联系人自动状态模式
// @Summary      恢复自动状态模式
// @Description  将联系人切换回自动模式并立即触发一次状态重算
// @Tags         Contact
// @Produce      json
// @Param        id path string true "联系人ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /contacts/{id}/status/auto [put]
// @Security     BearerAuth
func (c *ContactController) SetAutoMode() {
	id := c.Ctx.Param("id")

	contactService := c.Container.GetService("contact").(services.InterfaceContactService)
	contact, err := contactService.SetAutoMode(id, c.actorID())
	if err != nil {
		if err.Error() == "联系人不存在" {
			response.Fail(c.Ctx, code.ErrContactNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "恢复自动模式失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, contact)
}

// RecomputeStatus 触发联系人状态重算
// @Summary      重算联系人状态
// @Description  根据近期互动重算自动模式联系人的状态，手动模式联系人不受影响
// @Tags         Contact
// @Produce      json
// @Param        id path string true "联系人ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /contacts/{id}/status/recompute [post]
// @Security     BearerAuth
func (c *ContactController) RecomputeStatus() {
	id := c.Ctx.Param("id")

	contactService := c.Container.GetService("contact").(services.InterfaceContactService)
	status, err := contactService.RecomputeContactStatus(id, "manual recompute")
	if err != nil {
		if err.Error() == "联系人不存在" {
			response.Fail(c.Ctx, code.ErrContactNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "重算联系人状态失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"contact_id":       id,
		"status_effective": status,
	})
}

// GetAliases 获取联系人的身份别名集合
// @Summary      获取联系人别名
// @Description  返回联系人经两跳解析后的全部关联ID集合
// @Tags         Contact
// @Produce      json
// @Param        id path string true "联系人ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /contacts/{id}/aliases [get]
// @Security     BearerAuth
func (c *ContactController) GetAliases() {
	id := c.Ctx.Param("id")

	contactService := c.Container.GetService("contact").(services.InterfaceContactService)
	aliases, err := contactService.ResolveContactIDs(id)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "解析联系人别名失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"contact_id": id,
		"aliases":    aliases,
	})
}

// LinkPropertyRequest 表示联系人房源关联的请求体
type LinkPropertyRequest struct {
	PropertyID string `json:"property_id" binding:"required" example:"9f3a2d40-7c1e-4b8a-a3f1-2b6c9d0e8f12"`
	Role       string `json:"role" binding:"required" example:"buyer_interest"` // 可选值: owner, buyer_interest, tenant, investor
}

// LinkProperty 关联联系人与房源
// @Summary      关联房源
// @Description  以指定角色关联联系人与房源，重复关联幂等返回既有记录
// @Tags         Contact
// @Accept       json
// @Produce      json
// @Param        id path string true "联系人ID"
// @Param        request body LinkPropertyRequest true "关联参数"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /contacts/{id}/properties [post]
// @Security     BearerAuth
func (c *ContactController) LinkProperty() {
	id := c.Ctx.Param("id")

	var req LinkPropertyRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	contactService := c.Container.GetService("contact").(services.InterfaceContactService)
	link, err := contactService.LinkContactToProperty(id, req.PropertyID, req.Role)
	if err != nil {
		switch err.Error() {
		case "联系人房源关联角色无效":
			response.Fail(c.Ctx, code.ErrContactLinkRoleInvalid, nil)
		case "房源不存在":
			response.Fail(c.Ctx, code.ErrPropertyNotFound, nil)
		case "联系人不存在":
			response.Fail(c.Ctx, code.ErrContactNotFound, nil)
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, "关联房源失败: "+err.Error(), nil)
		}
		return
	}

	response.Success(c.Ctx, link)
}

// UnlinkProperty 解除联系人与房源的关联
// @Summary      解除房源关联
// @Description  解除联系人与房源在指定角色下的关联
// @Tags         Contact
// @Produce      json
// @Param        id path string true "联系人ID"
// @Param        property_id path string true "房源ID"
// @Param        role query string true "关联角色" example:"buyer_interest"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /contacts/{id}/properties/{property_id} [delete]
// @Security     BearerAuth
func (c *ContactController) UnlinkProperty() {
	id := c.Ctx.Param("id")
	propertyID := c.Ctx.Param("property_id")
	role := c.Ctx.Query("role")

	contactService := c.Container.GetService("contact").(services.InterfaceContactService)
	if err := contactService.UnlinkContactFromProperty(id, propertyID, role); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "解除房源关联失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, nil)
}

// GetContactProperties 获取联系人的房源关联列表
// @Summary      获取联系人房源
// @Description  获取联系人（含其别名）的全部房源关联
// @Tags         Contact
// @Produce      json
// @Param        id path string true "联系人ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /contacts/{id}/properties [get]
// @Security     BearerAuth
func (c *ContactController) GetContactProperties() {
	id := c.Ctx.Param("id")

	contactService := c.Container.GetService("contact").(services.InterfaceContactService)
	links, err := contactService.GetContactProperties(id)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询联系人房源失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, links)
}

// GetTimeline 获取联系人时间线
// @Summary      获取联系人时间线
// @Description  合并五个来源的历史记录，按时间戳倒序返回完整时间线
// @Tags         Contact
// @Produce      json
// @Param        id path string true "联系人ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /contacts/{id}/timeline [get]
// @Security     BearerAuth
func (c *ContactController) GetTimeline() {
	id := c.Ctx.Param("id")

	timelineService := c.Container.GetService("timeline").(services.InterfaceTimelineService)
	items, err := timelineService.GetContactTimeline(id)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询联系人时间线失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"contact_id": id,
		"total":      len(items),
		"items":      items,
	})
}

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

// InterfacePropertyController 定义房源控制器接口
type InterfacePropertyController interface {
	GetProperties()
	GetProperty()
	CreateProperty()
	UpdateProperty()
	DeleteProperty()
	UpdatePropertyStatus()
	GetPropertyContacts()
}

// PropertyController 处理房源相关的请求
type PropertyController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewPropertyController 创建一个新的房源控制器
func NewPropertyController(ctx *gin.Context, container *container.ServiceContainer) *PropertyController {
	return &PropertyController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandlePropertyFunc 返回一个处理房源请求的Gin处理函数
func HandlePropertyFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewPropertyController(ctx, container)

		switch method {
		case "getProperties":
			controller.GetProperties()
		case "getProperty":
			controller.GetProperty()
		case "createProperty":
			controller.CreateProperty()
		case "updateProperty":
			controller.UpdateProperty()
		case "deleteProperty":
			controller.DeleteProperty()
		case "updatePropertyStatus":
			controller.UpdatePropertyStatus()
		case "getPropertyContacts":
			controller.GetPropertyContacts()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// GetProperties 获取房源列表
// @Summary      获取房源列表
// @Description  获取所有房源，支持分页、状态、城市过滤和搜索
// @Tags         Property
// @Produce      json
// @Param        page query int false "页码，默认为1" example:"1"
// @Param        page_size query int false "每页条数，默认为10" example:"10"
// @Param        status query string false "状态过滤" example:"available"
// @Param        city query string false "城市过滤" example:"Dubai"
// @Param        search query string false "搜索关键词(标题、地址)" example:"marina"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /properties [get]
// @Security     BearerAuth
func (c *PropertyController) GetProperties() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "10"))
	status := c.Ctx.Query("status")
	city := c.Ctx.Query("city")
	search := c.Ctx.Query("search")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	propertyService := c.Container.GetService("property").(services.InterfacePropertyService)
	properties, total, err := propertyService.GetAllProperties(page, pageSize, status, city, search)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询房源列表失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        properties,
	})
}

// GetProperty 获取单个房源详情
// @Summary      获取房源详情
// @Description  根据ID获取特定房源的详细信息
// @Tags         Property
// @Produce      json
// @Param        id path string true "房源ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /properties/{id} [get]
// @Security     BearerAuth
func (c *PropertyController) GetProperty() {
	id := c.Ctx.Param("id")

	propertyService := c.Container.GetService("property").(services.InterfacePropertyService)
	property, err := propertyService.GetPropertyByID(id)
	if err != nil {
		if err.Error() == "房源不存在" {
			response.Fail(c.Ctx, code.ErrPropertyNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询房源失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, property)
}

// CreatePropertyRequest 表示创建房源的请求体
type CreatePropertyRequest struct {
	Title       string  `json:"title" binding:"required" example:"2BR Apartment in Marina"`
	Address     string  `json:"address" example:"Marina Walk, Tower 3"`
	City        string  `json:"city" example:"Dubai"`
	Type        string  `json:"type" example:"residential"` // 可选值: residential, commercial, land
	Status      string  `json:"status" example:"available"`
	Price       float64 `json:"price" example:"1850000"`
	Bedrooms    int     `json:"bedrooms" example:"2"`
	Bathrooms   int     `json:"bathrooms" example:"2"`
	AreaSqft    float64 `json:"area_sqft" example:"1250"`
	Description string  `json:"description" example:"Sea view, fully furnished"`
	AgentID     string  `json:"agent_id" example:"6c1f7cbb-9a2f-4a57-b1d2-0e1f6f1a0c11"`
}

// CreateProperty 创建新房源
// @Summary      创建房源
// @Description  创建一个新的房源
// @Tags         Property
// @Accept       json
// @Produce      json
// @Param        request body CreatePropertyRequest true "房源信息"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /properties [post]
// @Security     BearerAuth
func (c *PropertyController) CreateProperty() {
	var req CreatePropertyRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	property := &models.Property{
		Title:       req.Title,
		Address:     req.Address,
		City:        req.City,
		Type:        req.Type,
		Status:      req.Status,
		Price:       req.Price,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		AreaSqft:    req.AreaSqft,
		Description: req.Description,
	}
	if req.AgentID != "" {
		property.AgentID = &req.AgentID
	}

	propertyService := c.Container.GetService("property").(services.InterfacePropertyService)
	if err := propertyService.CreateProperty(property); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "创建房源失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, property)
}

// UpdatePropertyRequest 表示更新房源的请求体
type UpdatePropertyRequest struct {
	Title       string  `json:"title" example:"2BR Apartment in Marina"`
	Address     string  `json:"address" example:"Marina Walk, Tower 3"`
	City        string  `json:"city" example:"Dubai"`
	Type        string  `json:"type" example:"residential"`
	Price       float64 `json:"price" example:"1900000"`
	Bedrooms    int     `json:"bedrooms" example:"2"`
	Bathrooms   int     `json:"bathrooms" example:"3"`
	AreaSqft    float64 `json:"area_sqft" example:"1250"`
	Description string  `json:"description" example:"Sea view, upgraded kitchen"`
}

// UpdateProperty 更新房源信息
// @Summary      更新房源
// @Description  更新房源的基础信息，状态变更走独立接口
// @Tags         Property
// @Accept       json
// @Produce      json
// @Param        id path string true "房源ID"
// @Param        request body UpdatePropertyRequest true "更新的房源信息"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /properties/{id} [put]
// @Security     BearerAuth
func (c *PropertyController) UpdateProperty() {
	id := c.Ctx.Param("id")

	var req UpdatePropertyRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	updates := make(map[string]interface{})
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if req.City != "" {
		updates["city"] = req.City
	}
	if req.Type != "" {
		updates["type"] = req.Type
	}
	if req.Price > 0 {
		updates["price"] = req.Price
	}
	if req.Bedrooms > 0 {
		updates["bedrooms"] = req.Bedrooms
	}
	if req.Bathrooms > 0 {
		updates["bathrooms"] = req.Bathrooms
	}
	if req.AreaSqft > 0 {
		updates["area_sqft"] = req.AreaSqft
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}

	propertyService := c.Container.GetService("property").(services.InterfacePropertyService)
	property, err := propertyService.UpdateProperty(id, updates)
	if err != nil {
		if err.Error() == "房源不存在" {
			response.Fail(c.Ctx, code.ErrPropertyNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "更新房源失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, property)
}

// DeleteProperty 删除房源
// @Summary      删除房源
// @Description  删除指定ID的房源及其联系人关联
// @Tags         Property
// @Produce      json
// @Param        id path string true "房源ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /properties/{id} [delete]
// @Security     BearerAuth
func (c *PropertyController) DeleteProperty() {
	id := c.Ctx.Param("id")

	propertyService := c.Container.GetService("property").(services.InterfacePropertyService)
	if err := propertyService.DeleteProperty(id); err != nil {
		if err.Error() == "房源不存在" {
			response.Fail(c.Ctx, code.ErrPropertyNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "删除房源失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, nil)
}

// UpdatePropertyStatusRequest 表示更新房源状态的请求体
type UpdatePropertyStatusRequest struct {
	Status string `json:"status" binding:"required" example:"sold"` // 可选值: available, pending, sold, off_market
	Reason string `json:"reason" example:"Offer accepted"`
}

// UpdatePropertyStatus 更新房源状态
// @Summary      更新房源状态
// @Description  更新房源状态并追加一条状态变更记录
// @Tags         Property
// @Accept       json
// @Produce      json
// @Param        id path string true "房源ID"
// @Param        request body UpdatePropertyStatusRequest true "状态变更参数"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /properties/{id}/status [put]
// @Security     BearerAuth
func (c *PropertyController) UpdatePropertyStatus() {
	id := c.Ctx.Param("id")

	var req UpdatePropertyStatusRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	if !models.ValidPropertyStatus(req.Status) {
		response.ParamError(c.Ctx, "无效的房源状态")
		return
	}

	actorID := ""
	if v, exists := c.Ctx.Get("userID"); exists {
		actorID, _ = v.(string)
	}

	propertyService := c.Container.GetService("property").(services.InterfacePropertyService)
	property, err := propertyService.UpdatePropertyStatus(id, req.Status, req.Reason, actorID)
	if err != nil {
		if err.Error() == "房源不存在" {
			response.Fail(c.Ctx, code.ErrPropertyNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "更新房源状态失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, property)
}

// GetPropertyContacts 获取房源的联系人关联
// @Summary      获取房源联系人
// @Description  获取与房源关联的全部联系人记录
// @Tags         Property
// @Produce      json
// @Param        id path string true "房源ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /properties/{id}/contacts [get]
// @Security     BearerAuth
func (c *PropertyController) GetPropertyContacts() {
	id := c.Ctx.Param("id")

	propertyService := c.Container.GetService("property").(services.InterfacePropertyService)
	links, err := propertyService.GetPropertyContacts(id)
	if err != nil {
		if err.Error() == "房源不存在" {
			response.Fail(c.Ctx, code.ErrPropertyNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询房源联系人失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, links)
}

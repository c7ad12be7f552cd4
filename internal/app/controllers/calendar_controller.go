package controllers

import (
	"strconv"
	"time"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/services"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/services/container"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/error/code"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceCalendarController 定义日程控制器接口
type InterfaceCalendarController interface {
	GetEvents()
	GetEvent()
	CreateEvent()
	UpdateEvent()
	DeleteEvent()
	UpdateEventStatus()
	GetUpcomingEvents()
}

// CalendarController 处理日程相关的请求
type CalendarController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewCalendarController 创建一个新的日程控制器
func NewCalendarController(ctx *gin.Context, container *container.ServiceContainer) *CalendarController {
	return &CalendarController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleCalendarFunc 返回一个处理日程请求的Gin处理函数
func HandleCalendarFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewCalendarController(ctx, container)

		switch method {
		case "getEvents":
			controller.GetEvents()
		case "getEvent":
			controller.GetEvent()
		case "createEvent":
			controller.CreateEvent()
		case "updateEvent":
			controller.UpdateEvent()
		case "deleteEvent":
			controller.DeleteEvent()
		case "updateEventStatus":
			controller.UpdateEventStatus()
		case "getUpcomingEvents":
			controller.GetUpcomingEvents()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// GetEvents 获取日程列表
// @Summary      获取日程列表
// @Description  获取日程事件，支持分页及经纪人、状态、时间区间过滤
// @Tags         Calendar
// @Produce      json
// @Param        page query int false "页码，默认为1" example:"1"
// @Param        page_size query int false "每页条数，默认为20" example:"20"
// @Param        agent_id query string false "经纪人过滤"
// @Param        status query string false "状态过滤" example:"scheduled"
// @Param        from query string false "开始时间(RFC3339)" example:"2025-01-01T00:00:00Z"
// @Param        to query string false "结束时间(RFC3339)" example:"2025-02-01T00:00:00Z"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /calendar/events [get]
// @Security     BearerAuth
func (c *CalendarController) GetEvents() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "20"))
	agentID := c.Ctx.Query("agent_id")
	status := c.Ctx.Query("status")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var from, to *time.Time
	if v := c.Ctx.Query("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			from = &t
		} else {
			response.ParamError(c.Ctx, "无效的开始时间")
			return
		}
	}
	if v := c.Ctx.Query("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			to = &t
		} else {
			response.ParamError(c.Ctx, "无效的结束时间")
			return
		}
	}

	calendarService := c.Container.GetService("calendar").(services.InterfaceCalendarService)
	events, total, err := calendarService.GetEvents(page, pageSize, agentID, status, from, to)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询日程列表失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        events,
	})
}

// GetEvent 获取单个日程详情
// @Summary      获取日程详情
// @Description  根据ID获取特定日程的详细信息
// @Tags         Calendar
// @Produce      json
// @Param        id path string true "日程ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /calendar/events/{id} [get]
// @Security     BearerAuth
func (c *CalendarController) GetEvent() {
	id := c.Ctx.Param("id")

	calendarService := c.Container.GetService("calendar").(services.InterfaceCalendarService)
	event, err := calendarService.GetEventByID(id)
	if err != nil {
		if err.Error() == "日程不存在" {
			response.Fail(c.Ctx, code.ErrEventNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询日程失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, event)
}

// CreateEventRequest 表示创建日程的请求体
type CreateEventRequest struct {
	Title       string `json:"title" binding:"required" example:"Viewing at Marina Tower"`
	Description string `json:"description" example:"Bring floor plans"`
	EventType   string `json:"event_type" binding:"required" example:"viewing"` // 可选值: viewing, meeting, call, follow_up
	StartAt     string `json:"start_at" binding:"required" example:"2025-01-15T10:00:00Z"`
	EndAt       string `json:"end_at" example:"2025-01-15T11:00:00Z"`
	AgentID     string `json:"agent_id" example:"6c1f7cbb-9a2f-4a57-b1d2-0e1f6f1a0c11"`
	LeadID      string `json:"lead_id" example:""`
	PropertyID  string `json:"property_id" example:""`
}

// CreateEvent 创建新日程
// @Summary      创建日程
// @Description  创建一个新的日程事件，可选关联线索和房源
// @Tags         Calendar
// @Accept       json
// @Produce      json
// @Param        request body CreateEventRequest true "日程信息"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /calendar/events [post]
// @Security     BearerAuth
func (c *CalendarController) CreateEvent() {
	var req CreateEventRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		response.Fail(c.Ctx, code.ErrEventTimeInvalid, nil)
		return
	}

	endAt := startAt.Add(time.Hour)
	if req.EndAt != "" {
		endAt, err = time.Parse(time.RFC3339, req.EndAt)
		if err != nil || endAt.Before(startAt) {
			response.Fail(c.Ctx, code.ErrEventTimeInvalid, nil)
			return
		}
	}

	agentID := req.AgentID
	if agentID == "" {
		if v, exists := c.Ctx.Get("userID"); exists {
			agentID, _ = v.(string)
		}
	}

	event := &models.CalendarEvent{
		Title:       req.Title,
		Description: req.Description,
		EventType:   req.EventType,
		StartAt:     startAt,
		EndAt:       endAt,
		AgentID:     agentID,
	}
	if req.LeadID != "" {
		event.LeadID = &req.LeadID
	}
	if req.PropertyID != "" {
		event.PropertyID = &req.PropertyID
	}

	calendarService := c.Container.GetService("calendar").(services.InterfaceCalendarService)
	if err := calendarService.CreateEvent(event); err != nil {
		if err.Error() == "日程类别无效" || err.Error() == "日程状态无效" {
			response.ParamError(c.Ctx, err.Error())
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "创建日程失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, event)
}

// UpdateEventRequest 表示更新日程的请求体
type UpdateEventRequest struct {
	Title       string `json:"title" example:"Viewing rescheduled"`
	Description string `json:"description" example:"Client requested afternoon slot"`
	StartAt     string `json:"start_at" example:"2025-01-15T15:00:00Z"`
	EndAt       string `json:"end_at" example:"2025-01-15T16:00:00Z"`
}

// UpdateEvent 更新日程信息
// @Summary      更新日程
// @Description  更新日程的基础信息，状态变更走独立接口
// @Tags         Calendar
// @Accept       json
// @Produce      json
// @Param        id path string true "日程ID"
// @Param        request body UpdateEventRequest true "更新的日程信息"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /calendar/events/{id} [put]
// @Security     BearerAuth
func (c *CalendarController) UpdateEvent() {
	id := c.Ctx.Param("id")

	var req UpdateEventRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	updates := make(map[string]interface{})
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.StartAt != "" {
		t, err := time.Parse(time.RFC3339, req.StartAt)
		if err != nil {
			response.Fail(c.Ctx, code.ErrEventTimeInvalid, nil)
			return
		}
		updates["start_at"] = t
	}
	if req.EndAt != "" {
		t, err := time.Parse(time.RFC3339, req.EndAt)
		if err != nil {
			response.Fail(c.Ctx, code.ErrEventTimeInvalid, nil)
			return
		}
		updates["end_at"] = t
	}

	calendarService := c.Container.GetService("calendar").(services.InterfaceCalendarService)
	event, err := calendarService.UpdateEvent(id, updates)
	if err != nil {
		if err.Error() == "日程不存在" {
			response.Fail(c.Ctx, code.ErrEventNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "更新日程失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, event)
}

// DeleteEvent 删除日程
// @Summary      删除日程
// @Description  删除指定ID的日程
// @Tags         Calendar
// @Produce      json
// @Param        id path string true "日程ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /calendar/events/{id} [delete]
// @Security     BearerAuth
func (c *CalendarController) DeleteEvent() {
	id := c.Ctx.Param("id")

	calendarService := c.Container.GetService("calendar").(services.InterfaceCalendarService)
	if err := calendarService.DeleteEvent(id); err != nil {
		if err.Error() == "日程不存在" {
			response.Fail(c.Ctx, code.ErrEventNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "删除日程失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, nil)
}

// UpdateEventStatusRequest 表示更新日程状态的请求体
type UpdateEventStatusRequest struct {
	Status string `json:"status" binding:"required" example:"completed"` // 可选值: scheduled, completed, cancelled, rescheduled
}

// UpdateEventStatus 更新日程状态
// @Summary      更新日程状态
// @Description  更新日程状态，任意合法状态可以改为任意合法状态
// @Tags         Calendar
// @Accept       json
// @Produce      json
// @Param        id path string true "日程ID"
// @Param        request body UpdateEventStatusRequest true "状态参数"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /calendar/events/{id}/status [put]
// @Security     BearerAuth
func (c *CalendarController) UpdateEventStatus() {
	id := c.Ctx.Param("id")

	var req UpdateEventStatusRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	calendarService := c.Container.GetService("calendar").(services.InterfaceCalendarService)
	event, err := calendarService.UpdateEventStatus(id, req.Status)
	if err != nil {
		switch err.Error() {
		case "日程不存在":
			response.Fail(c.Ctx, code.ErrEventNotFound, nil)
		case "日程状态无效":
			response.ParamError(c.Ctx, err.Error())
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, "更新日程状态失败: "+err.Error(), nil)
		}
		return
	}

	response.Success(c.Ctx, event)
}

// GetUpcomingEvents 获取即将到来的日程
// @Summary      获取即将到来的日程
// @Description  获取当前经纪人未来一段时间内的已排期日程
// @Tags         Calendar
// @Produce      json
// @Param        hours query int false "时间窗口（小时），默认24" example:"24"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /calendar/events/upcoming [get]
// @Security     BearerAuth
func (c *CalendarController) GetUpcomingEvents() {
	hours, _ := strconv.Atoi(c.Ctx.DefaultQuery("hours", "24"))
	if hours < 1 || hours > 24*30 {
		hours = 24
	}

	agentID := ""
	if v, exists := c.Ctx.Get("userID"); exists {
		agentID, _ = v.(string)
	}

	calendarService := c.Container.GetService("calendar").(services.InterfaceCalendarService)
	events, err := calendarService.GetUpcomingEvents(agentID, time.Duration(hours)*time.Hour)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询即将到来的日程失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, events)
}

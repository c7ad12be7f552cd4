package controllers

import (
	"strconv"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/services"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/services/container"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/error/code"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceNotificationController 定义通知控制器接口
type InterfaceNotificationController interface {
	GetNotifications()
	MarkAsRead()
	MarkAllAsRead()
	GetUnreadCount()
}

// NotificationController 处理通知相关的请求
type NotificationController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewNotificationController 创建一个新的通知控制器
func NewNotificationController(ctx *gin.Context, container *container.ServiceContainer) *NotificationController {
	return &NotificationController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleNotificationFunc 返回一个处理通知请求的Gin处理函数
func HandleNotificationFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewNotificationController(ctx, container)

		switch method {
		case "getNotifications":
			controller.GetNotifications()
		case "markAsRead":
			controller.MarkAsRead()
		case "markAllAsRead":
			controller.MarkAllAsRead()
		case "getUnreadCount":
			controller.GetUnreadCount()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// userID 从上下文提取当前用户ID
func (c *NotificationController) userID() string {
	if v, exists := c.Ctx.Get("userID"); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// GetNotifications 获取当前用户的通知列表
// @Summary      获取通知列表
// @Description  分页获取当前用户的站内通知
// @Tags         Notification
// @Produce      json
// @Param        page query int false "页码，默认为1" example:"1"
// @Param        page_size query int false "每页条数，默认为20" example:"20"
// @Param        unread_only query bool false "只看未读" example:"false"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /notifications [get]
// @Security     BearerAuth
func (c *NotificationController) GetNotifications() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "20"))
	unreadOnly := c.Ctx.DefaultQuery("unread_only", "false") == "true"

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	notificationService := c.Container.GetService("notification").(services.InterfaceNotificationService)
	notifications, total, err := notificationService.GetUserNotifications(c.userID(), page, pageSize, unreadOnly)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询通知列表失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        notifications,
	})
}

// MarkAsRead 标记通知为已读
// @Summary      标记通知已读
// @Description  将当前用户的一条通知标记为已读
// @Tags         Notification
// @Produce      json
// @Param        id path string true "通知ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /notifications/{id}/read [put]
// @Security     BearerAuth
func (c *NotificationController) MarkAsRead() {
	id := c.Ctx.Param("id")

	notificationService := c.Container.GetService("notification").(services.InterfaceNotificationService)
	if err := notificationService.MarkAsRead(c.userID(), id); err != nil {
		if err.Error() == "通知不存在" {
			response.NotFound(c.Ctx, "通知不存在")
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "标记通知已读失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, nil)
}

// MarkAllAsRead 标记全部通知为已读
// @Summary      全部标记已读
// @Description  将当前用户的全部未读通知标记为已读
// @Tags         Notification
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /notifications/read-all [put]
// @Security     BearerAuth
func (c *NotificationController) MarkAllAsRead() {
	notificationService := c.Container.GetService("notification").(services.InterfaceNotificationService)
	count, err := notificationService.MarkAllAsRead(c.userID())
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "标记全部已读失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{"marked": count})
}

// GetUnreadCount 获取未读通知数量
// @Summary      获取未读数量
// @Description  获取当前用户的未读通知数量，结果短暂缓存
// @Tags         Notification
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /notifications/unread-count [get]
// @Security     BearerAuth
func (c *NotificationController) GetUnreadCount() {
	notificationService := c.Container.GetService("notification").(services.InterfaceNotificationService)
	count, err := notificationService.GetUnreadCount(c.userID())
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询未读数量失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{"unread": count})
}

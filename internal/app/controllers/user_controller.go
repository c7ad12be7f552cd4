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

// InterfaceUserController 定义用户控制器接口
type InterfaceUserController interface {
	GetUsers()
	GetUser()
	CreateUser()
	UpdateUser()
	DeleteUser()
	GetAgents()
	ChangePassword()
}

// UserController 处理用户相关的请求
type UserController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewUserController 创建一个新的用户控制器
func NewUserController(ctx *gin.Context, container *container.ServiceContainer) *UserController {
	return &UserController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleUserFunc 返回一个处理用户请求的Gin处理函数
func HandleUserFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewUserController(ctx, container)

		switch method {
		case "getUsers":
			controller.GetUsers()
		case "getUser":
			controller.GetUser()
		case "createUser":
			controller.CreateUser()
		case "updateUser":
			controller.UpdateUser()
		case "deleteUser":
			controller.DeleteUser()
		case "getAgents":
			controller.GetAgents()
		case "changePassword":
			controller.ChangePassword()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// GetUsers 获取用户列表
// @Summary      获取用户列表
// @Description  获取所有用户的列表，支持分页和角色过滤
// @Tags         User
// @Produce      json
// @Param        page query int false "页码，默认为1" example:"1"
// @Param        page_size query int false "每页条数，默认为10" example:"10"
// @Param        role query string false "角色过滤(admin/agent)" example:"agent"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /users [get]
// @Security     BearerAuth
func (c *UserController) GetUsers() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "10"))
	role := c.Ctx.Query("role")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	users, total, err := userService.GetAllUsers(page, pageSize, role)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询用户列表失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        users,
	})
}

// GetUser 获取单个用户详情
// @Summary      获取用户详情
// @Description  根据ID获取特定用户的详细信息
// @Tags         User
// @Produce      json
// @Param        id path string true "用户ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
// @Security     BearerAuth
func (c *UserController) GetUser() {
	id := c.Ctx.Param("id")

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	user, err := userService.GetUserByID(id)
	if err != nil {
		if err.Error() == "用户不存在" {
			response.NotFound(c.Ctx, "用户不存在")
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询用户失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, user)
}

// CreateUserRequest 表示创建用户的请求体
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required" example:"Jane Agent"`
	Username string `json:"username" binding:"required" example:"jane"`
	Email    string `json:"email" example:"jane@example.com"`
	Phone    string `json:"phone" example:"13800001234"`
	Password string `json:"password" binding:"required" example:"Agent@123"`
	Role     string `json:"role" example:"agent"`    // 可选值: admin, agent
	Status   string `json:"status" example:"active"` // 可选值: active, inactive
}

// CreateUser 创建新用户
// @Summary      创建用户
// @Description  创建一个新的系统用户（管理员或经纪人）
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        request body CreateUserRequest true "用户信息"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users [post]
// @Security     BearerAuth
func (c *UserController) CreateUser() {
	var req CreateUserRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	user := &models.User{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     req.Role,
		Status:   req.Status,
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	if err := userService.CreateUser(user); err != nil {
		if err.Error() == "用户名已存在" {
			response.FailWithMessage(c.Ctx, code.ErrUserAlreadyExist, err.Error(), nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "创建用户失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, user)
}

// UpdateUserRequest 表示更新用户的请求体
type UpdateUserRequest struct {
	Name   string `json:"name" example:"Jane Agent"`
	Email  string `json:"email" example:"jane@example.com"`
	Phone  string `json:"phone" example:"13800005678"`
	Role   string `json:"role" example:"agent"`
	Status string `json:"status" example:"inactive"`
}

// UpdateUser 更新用户信息
// @Summary      更新用户
// @Description  更新现有用户的信息
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        id path string true "用户ID"
// @Param        request body UpdateUserRequest true "更新的用户信息"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [put]
// @Security     BearerAuth
func (c *UserController) UpdateUser() {
	id := c.Ctx.Param("id")

	var req UpdateUserRequest
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
	if req.Role != "" {
		updates["role"] = req.Role
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	user, err := userService.UpdateUser(id, updates)
	if err != nil {
		if err.Error() == "用户不存在" {
			response.NotFound(c.Ctx, "用户不存在")
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "更新用户失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, user)
}

// DeleteUser 删除用户
// @Summary      删除用户
// @Description  删除指定ID的用户
// @Tags         User
// @Produce      json
// @Param        id path string true "用户ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [delete]
// @Security     BearerAuth
func (c *UserController) DeleteUser() {
	id := c.Ctx.Param("id")

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	if err := userService.DeleteUser(id); err != nil {
		if err.Error() == "用户不存在" {
			response.NotFound(c.Ctx, "用户不存在")
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "删除用户失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, nil)
}

// GetAgents 获取活跃经纪人列表
// @Summary      获取经纪人列表
// @Description  获取全部活跃经纪人，用于线索分配等下拉选择
// @Tags         User
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /users/agents [get]
// @Security     BearerAuth
func (c *UserController) GetAgents() {
	userService := c.Container.GetService("user").(services.InterfaceUserService)
	agents, err := userService.GetActiveAgents()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询经纪人列表失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, agents)
}

// ChangePasswordRequest 表示修改密码的请求体
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required" example:"Agent@123"`
	NewPassword string `json:"new_password" binding:"required" example:"Agent@456"`
}

// ChangePassword 修改当前用户密码
// @Summary      修改密码
// @Description  验证旧密码后修改当前登录用户的密码
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        request body ChangePasswordRequest true "密码修改参数"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/password [put]
// @Security     BearerAuth
func (c *UserController) ChangePassword() {
	userID, _ := c.Ctx.Get("userID")
	id, ok := userID.(string)
	if !ok || id == "" {
		response.Unauthorized(c.Ctx)
		return
	}

	var req ChangePasswordRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	if err := userService.ChangePassword(id, req.OldPassword, req.NewPassword); err != nil {
		if err.Error() == "旧密码不正确" {
			response.FailWithMessage(c.Ctx, code.ErrUserPasswordIncorrect, err.Error(), nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "修改密码失败: "+err.Error(), nil)
		return
	}

	// 密码修改记录审计事件
	auditService := c.Container.GetService("audit").(services.InterfaceAuditService)
	auditService.LogSecurityEvent(id, "password_changed", "user", id, nil, nil)

	response.Success(c.Ctx, nil)
}

package controllers

import (
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/services"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/services/container"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/error/code"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceJWTController 定义认证控制器接口
type InterfaceJWTController interface {
	Login()
	GetCurrentUser()
}

// JWTController 处理身份验证请求
type JWTController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewJWTController 创建一个新的认证控制器
func NewJWTController(ctx *gin.Context, container *container.ServiceContainer) *JWTController {
	return &JWTController{
		Ctx:       ctx,
		Container: container,
	}
}

// LoginRequest 表示登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"agent@example.com"`
	Password string `json:"password" binding:"required" example:"Agent@123"`
}

// LoginResponse 表示登录响应
type LoginResponse struct {
	Code    int         `json:"code" example:"0"`
	Message string      `json:"message" example:"Login successful"`
	Data    interface{} `json:"data"`
}

// LoginData 表示登录成功后返回的数据
type LoginData struct {
	Token     string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	UserID    string `json:"user_id" example:"6c1f7cbb-9a2f-4a57-b1d2-0e1f6f1a0c11"`
	Role      string `json:"role" example:"agent"`
	Name      string `json:"name" example:"Jane Agent"`
	CreatedAt string `json:"created_at" example:"2023-01-01T00:00:00Z"`
}

// ErrorResponse 表示错误响应
type ErrorResponse struct {
	Code    int         `json:"code" example:"401"`
	Message string      `json:"message" example:"Invalid email or password"`
	Data    interface{} `json:"data"`
}

// HandleJWTFunc 返回一个处理JWT认证请求的Gin处理函数
func HandleJWTFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewJWTController(ctx, container)

		switch method {
		case "login":
			controller.Login()
		case "getCurrentUser":
			controller.GetCurrentUser()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// Login 处理用户登录
// @Summary      User Login
// @Description  Process user login and return JWT token with role-based permissions
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login request parameters"
// @Success      200  {object}  LoginResponse{data=LoginData}  "Success response with token"
// @Failure      400  {object}  ErrorResponse  "Bad request"
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /auth/login [post]
func (c *JWTController) Login() {
	var req LoginRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)

	result, err := jwtService.Login(req.Email, req.Password)
	if err != nil {
		response.Unauthorized(c.Ctx)
		return
	}

	// 登录成功后记录审计事件
	auditService := c.Container.GetService("audit").(services.InterfaceAuditService)
	auditService.LogSecurityEvent(result.UserID, "login", "user", result.UserID, nil, nil)

	response.Success(c.Ctx, gin.H{
		"token":      result.Token,
		"user_id":    result.UserID,
		"role":       result.Role,
		"name":       result.Name,
		"email":      result.Email,
		"created_at": result.CreatedAt,
	})
}

// GetCurrentUser 获取当前登录用户信息
// @Summary      获取当前用户
// @Description  根据令牌返回当前登录用户的信息
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/me [get]
// @Security     BearerAuth
func (c *JWTController) GetCurrentUser() {
	userID, _ := c.Ctx.Get("userID")
	id, ok := userID.(string)
	if !ok || id == "" {
		response.Unauthorized(c.Ctx)
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	user, err := userService.GetUserByID(id)
	if err != nil {
		response.NotFound(c.Ctx, "用户不存在")
		return
	}

	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)
	isAdmin, err := jwtService.IsAdmin(id)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询用户角色失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"id":       user.ID,
		"name":     user.Name,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
		"is_admin": isAdmin,
		"status":   user.Status,
	})
}

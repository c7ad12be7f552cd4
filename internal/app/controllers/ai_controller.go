package controllers

import (
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/services"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/services/container"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/error/code"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceAIController 定义AI助手控制器接口
type InterfaceAIController interface {
	Chat()
}

// AIController 处理AI助手相关的请求
type AIController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAIController 创建一个新的AI助手控制器
func NewAIController(ctx *gin.Context, container *container.ServiceContainer) *AIController {
	return &AIController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleAIFunc 返回一个处理AI助手请求的Gin处理函数
func HandleAIFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAIController(ctx, container)

		switch method {
		case "chat":
			controller.Chat()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// ChatRequest 表示AI对话的请求体
type ChatRequest struct {
	Messages []services.ChatMessage `json:"messages" binding:"required"`
}

// Chat AI助手对话
// @Summary      AI助手对话
// @Description  将对话消息转发到上游AI服务并返回回复
// @Tags         AI
// @Accept       json
// @Produce      json
// @Param        request body ChatRequest true "对话消息列表"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /ai/chat [post]
// @Security     BearerAuth
func (c *AIController) Chat() {
	var req ChatRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	aiService := c.Container.GetService("ai").(services.InterfaceAIService)
	reply, err := aiService.Chat(req.Messages)
	if err != nil {
		switch err.Error() {
		case "AI助手服务未配置":
			response.Fail(c.Ctx, code.ErrUpstreamNotConfigured, nil)
		case "对话内容不能为空":
			response.ParamError(c.Ctx, "对话内容不能为空")
		default:
			response.Fail(c.Ctx, code.ErrUpstreamFailed, gin.H{"detail": err.Error()})
		}
		return
	}

	response.Success(c.Ctx, gin.H{"reply": reply})
}

package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/infrastructure/config"

	"github.com/go-resty/resty/v2"
)

// InterfaceAIService 定义AI助手服务接口
type InterfaceAIService interface {
	Chat(messages []ChatMessage) (string, error)
}

// ChatMessage 聊天消息
type ChatMessage struct {
	Role    string `json:"role"` // system/user/assistant
	Content string `json:"content"`
}

// chatCompletionRequest 上游聊天补全请求
type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

// chatCompletionResponse 上游聊天补全响应
type chatCompletionResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// AIService 将CRM助手请求代理到上游聊天补全服务
type AIService struct {
	Config     *config.Config
	httpClient *resty.Client
}

// NewAIService 创建一个新的AI助手服务
func NewAIService(cfg *config.Config) InterfaceAIService {
	client := resty.New().
		SetBaseURL(cfg.AIProxyBaseURL).
		SetTimeout(60 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(cfg.AIProxyAPIKey)

	return &AIService{
		Config:     cfg,
		httpClient: client,
	}
}

// Chat 发送一轮对话并返回助手回复
func (s *AIService) Chat(messages []ChatMessage) (string, error) {
	if s.Config.AIProxyBaseURL == "" {
		return "", errors.New("AI助手服务未配置")
	}
	if len(messages) == 0 {
		return "", errors.New("对话内容不能为空")
	}

	request := chatCompletionRequest{
		Model:    s.Config.AIProxyModel,
		Messages: messages,
	}

	var response chatCompletionResponse
	resp, err := s.httpClient.R().
		SetBody(request).
		SetResult(&response).
		SetError(&response).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("failed to call chat completion API: %w", err)
	}
	if resp.IsError() {
		if response.Error != nil && response.Error.Message != "" {
			return "", fmt.Errorf("chat completion API error: %s", response.Error.Message)
		}
		return "", fmt.Errorf("chat completion API error: %s", resp.Status())
	}
	if len(response.Choices) == 0 {
		return "", errors.New("chat completion API returned no choices")
	}

	return response.Choices[0].Message.Content, nil
}

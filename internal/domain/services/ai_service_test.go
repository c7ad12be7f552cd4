package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatRequiresConfiguredUpstream(t *testing.T) {
	svc := NewAIService(newTestConfig())

	_, err := svc.Chat([]ChatMessage{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	assert.Equal(t, "AI助手服务未配置", err.Error())
}

func TestChatRejectsEmptyMessages(t *testing.T) {
	cfg := newTestConfig()
	cfg.AIProxyBaseURL = "http://localhost:1"
	svc := NewAIService(cfg)

	_, err := svc.Chat(nil)
	require.Error(t, err)
	assert.Equal(t, "对话内容不能为空", err.Error())
}

func TestChatProxiesToUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "crm-assistant", req.Model)
		require.Len(t, req.Messages, 1)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletionResponse{
			Choices: []struct {
				Message ChatMessage `json:"message"`
			}{
				{Message: ChatMessage{Role: "assistant", Content: "Here are your overdue leads."}},
			},
		})
	}))
	defer server.Close()

	cfg := &config.Config{
		AIProxyBaseURL: server.URL,
		AIProxyAPIKey:  "test-api-key",
		AIProxyModel:   "crm-assistant",
	}
	svc := NewAIService(cfg)

	reply, err := svc.Chat([]ChatMessage{{Role: "user", Content: "show overdue leads"}})
	require.NoError(t, err)
	assert.Equal(t, "Here are your overdue leads.", reply)
}

func TestChatSurfacesUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	cfg := &config.Config{AIProxyBaseURL: server.URL}
	svc := NewAIService(cfg)

	_, err := svc.Chat([]ChatMessage{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAliyunQwenChatModel_Validation(t *testing.T) {
	_, err := NewAliyunQwenChatModel("", "qwen-turbo", "")
	assert.Error(t, err, "空API密钥应报错")

	m, err := NewAliyunQwenChatModel("sk-test", "", "")
	require.NoError(t, err)
	assert.Equal(t, defaultQwenModelName, m.modelName)
	assert.Equal(t, openAICompatibleQwenAPIURL, m.apiURL)
}

func TestQwenGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "qwen-turbo", req.Model)
		require.Len(t, req.Messages, 2)

		content := "这是回答"
		resp := chatCompletionResponse{
			Choices: []chatChoice{{
				Message:      chatMessage{Role: "assistant", Content: &content},
				FinishReason: "stop",
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	m, err := NewAliyunQwenChatModel("sk-test", "qwen-turbo", server.URL)
	require.NoError(t, err)

	msg, err := m.Generate(context.Background(), []*schema.Message{
		schema.SystemMessage("system"),
		schema.UserMessage("user"),
	})
	require.NoError(t, err)
	assert.Equal(t, schema.Assistant, msg.Role)
	assert.Equal(t, "这是回答", msg.Content)
}

func TestQwenGenerate_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	m, err := NewAliyunQwenChatModel("sk-bad", "qwen-turbo", server.URL)
	require.NoError(t, err)

	_, err = m.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestQwenGenerate_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(chatCompletionResponse{})
	}))
	defer server.Close()

	m, err := NewAliyunQwenChatModel("sk-test", "qwen-turbo", server.URL)
	require.NoError(t, err)

	_, err = m.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	assert.Error(t, err)
}

func TestQwenStream_NotImplemented(t *testing.T) {
	m, err := NewAliyunQwenChatModel("sk-test", "qwen-turbo", "")
	require.NoError(t, err)

	_, err = m.Stream(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	assert.Error(t, err)
}

package parser

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-screener-go/internal/config"
)

func TestNewAliyunEmbedder_Validation(t *testing.T) {
	_, err := NewAliyunEmbedder("", config.EmbeddingConfig{})
	assert.Error(t, err, "空API密钥应报错")

	embedder, err := NewAliyunEmbedder("sk-test", config.EmbeddingConfig{Dimensions: 1024})
	require.NoError(t, err)
	assert.Equal(t, "text-embedding-v3", embedder.model, "模型缺省时使用默认值")
	assert.Equal(t, defaultEmbeddingEndpoint, embedder.baseURL)
	assert.Equal(t, 1024, embedder.GetDimensions())
}

func newFakeEmbeddingServer(t *testing.T, dims int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var count int
		switch input := req.Input.(type) {
		case string:
			count = 1
		case []interface{}:
			count = len(input)
		}

		resp := embeddingResponse{Object: "list"}
		for i := 0; i < count; i++ {
			resp.Data = append(resp.Data, struct {
				Object    string    `json:"object"`
				Embedding []float64 `json:"embedding"`
				Index     int       `json:"index"`
			}{Object: "embedding", Embedding: make([]float64, dims), Index: i})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestEmbedStrings(t *testing.T) {
	server := newFakeEmbeddingServer(t, 8)
	defer server.Close()

	embedder, err := NewAliyunEmbedder("sk-test", config.EmbeddingConfig{
		BaseURL:    server.URL,
		Dimensions: 8,
	})
	require.NoError(t, err)
	embedder.logger = log.New(io.Discard, "", 0)

	vectors, err := embedder.EmbedStrings(context.Background(), []string{"第一段", "第二段", "第三段"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	for _, v := range vectors {
		assert.Len(t, v, 8)
	}
}

func TestEmbedStrings_EmptyInput(t *testing.T) {
	embedder, err := NewAliyunEmbedder("sk-test", config.EmbeddingConfig{})
	require.NoError(t, err)

	vectors, err := embedder.EmbedStrings(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors, "空输入不应发起请求")
}

func TestEmbedStrings_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"invalid input","type":"invalid_request_error","code":"400"}`))
	}))
	defer server.Close()

	embedder, err := NewAliyunEmbedder("sk-test", config.EmbeddingConfig{BaseURL: server.URL})
	require.NoError(t, err)
	embedder.logger = log.New(io.Discard, "", 0)

	_, err = embedder.EmbedStrings(context.Background(), []string{"text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid input")
}

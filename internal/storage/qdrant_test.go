package storage_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-screener-go/internal/config"
	"resume-screener-go/internal/storage"
	"resume-screener-go/internal/types"
)

// collectionExistsHandler 模拟集合已存在的Qdrant响应
func collectionExistsHandler(collection string, size int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/collections/"+collection && r.Method == http.MethodGet {
			fmt.Fprintf(w, `{"result":{"config":{"params":{"vectors":{"size":%d,"distance":"Cosine"}}}}}`, size)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestNewQdrant_ExistingCollection(t *testing.T) {
	server := httptest.NewServer(collectionExistsHandler("test_collection", 1024))
	defer server.Close()

	cfg := &config.QdrantConfig{
		Endpoint:   server.URL,
		Collection: "test_collection",
		Dimension:  1024,
	}
	client, err := storage.NewQdrant(cfg,
		storage.WithDistanceMetric("Cosine"),
		storage.WithHTTPTimeout(5*time.Second))
	require.NoError(t, err)
	require.NotNil(t, client)
}

func TestNewQdrant_CreatesMissingCollection(t *testing.T) {
	var created bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/collections/new_collection":
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/new_collection":
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			vectors := body["vectors"].(map[string]interface{})
			assert.Equal(t, float64(512), vectors["size"])
			assert.Equal(t, "Cosine", vectors["distance"])
			created = true
			fmt.Fprint(w, `{"result":true,"status":"ok"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	cfg := &config.QdrantConfig{
		Endpoint:   server.URL,
		Collection: "new_collection",
		Dimension:  512,
	}
	_, err := storage.NewQdrant(cfg)
	require.NoError(t, err)
	assert.True(t, created, "缺失的集合应被自动创建")
}

func TestStoreChunkVectors(t *testing.T) {
	var gotPoints []map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/collections/chunks":
			fmt.Fprint(w, `{"result":{"config":{"params":{"vectors":{"size":4,"distance":"Cosine"}}}}}`)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/chunks/points":
			var body struct {
				Points []map[string]interface{} `json:"points"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			gotPoints = body.Points
			fmt.Fprint(w, `{"result":{"status":"completed"},"status":"ok"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	cfg := &config.QdrantConfig{Endpoint: server.URL, Collection: "chunks", Dimension: 4}
	client, err := storage.NewQdrant(cfg)
	require.NoError(t, err)

	chunks := []types.DocumentChunk{
		{ChunkID: 0, Content: "chunk zero", Metadata: types.ChunkMetadata{Filename: "a.pdf", Name: "张伟"}},
		{ChunkID: 1, Content: "chunk one", Metadata: types.ChunkMetadata{Filename: "a.pdf", Name: "张伟"}},
	}
	embeddings := [][]float64{{0.1, 0.2, 0.3, 0.4}, {0.5, 0.6, 0.7, 0.8}}

	ids, err := client.StoreChunkVectors(context.Background(), "sub-uuid-1", chunks, embeddings)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	require.Len(t, gotPoints, 2)

	// point ID是由提交UUID和分块序号确定性生成的UUIDv5
	expected := uuid.NewV5(storage.QdrantPointIDNamespace, "submission_uuid:sub-uuid-1_chunk_id:0").String()
	assert.Equal(t, expected, ids[0])
	assert.Equal(t, expected, gotPoints[0]["id"])

	payload := gotPoints[0]["payload"].(map[string]interface{})
	assert.Equal(t, "sub-uuid-1", payload["submission_uuid"])
	assert.Equal(t, "张伟", payload["name"])
	assert.Equal(t, "chunk zero", payload["content"])
}

func TestStoreChunkVectors_CountMismatch(t *testing.T) {
	server := httptest.NewServer(collectionExistsHandler("chunks", 4))
	defer server.Close()

	cfg := &config.QdrantConfig{Endpoint: server.URL, Collection: "chunks", Dimension: 4}
	client, err := storage.NewQdrant(cfg)
	require.NoError(t, err)

	_, err = client.StoreChunkVectors(context.Background(), "sub-uuid-1",
		[]types.DocumentChunk{{ChunkID: 0}},
		[][]float64{{0.1, 0.2, 0.3, 0.4}, {0.5, 0.6, 0.7, 0.8}})
	assert.Error(t, err, "chunks与embeddings数量不一致应报错")
}

func TestSearchSimilarChunks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/collections/chunks":
			fmt.Fprint(w, `{"result":{"config":{"params":{"vectors":{"size":4,"distance":"Cosine"}}}}}`)
		case r.Method == http.MethodPost && r.URL.Path == "/collections/chunks/points/search":
			fmt.Fprint(w, `{"result":[
				{"id":"p1","score":0.95,"payload":{"chunk_id":0,"content":"best match","filename":"a.pdf","name":"张伟","skills":"Go, MySQL","years_experience":5}},
				{"id":"p2","score":0.80,"payload":{"chunk_id":3,"content":"second","filename":"b.pdf"}}
			],"status":"ok","time":0.001}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	cfg := &config.QdrantConfig{Endpoint: server.URL, Collection: "chunks", Dimension: 4}
	client, err := storage.NewQdrant(cfg)
	require.NoError(t, err)

	scored, err := client.SearchSimilarChunks(context.Background(), []float64{0.1, 0.2, 0.3, 0.4}, 5, nil)
	require.NoError(t, err)
	require.Len(t, scored, 2)

	// 相似度分数换算为距离：distance = 1 - score
	assert.InDelta(t, 0.05, float64(scored[0].Distance), 1e-6)
	assert.InDelta(t, 0.20, float64(scored[1].Distance), 1e-6)

	first := scored[0].Chunk
	assert.Equal(t, 0, first.ChunkID)
	assert.Equal(t, "best match", first.Content)
	assert.Equal(t, "张伟", first.Metadata.Name)
	assert.Equal(t, "Go, MySQL", first.Metadata.Skills)
	assert.Equal(t, 5, first.Metadata.YearsExperience)

	second := scored[1].Chunk
	assert.Equal(t, "b.pdf", second.Metadata.Filename)
	assert.Empty(t, second.Metadata.Name, "缺失的payload字段保持零值")
}

func TestSearchSimilarChunks_DimensionMismatch(t *testing.T) {
	server := httptest.NewServer(collectionExistsHandler("chunks", 4))
	defer server.Close()

	cfg := &config.QdrantConfig{Endpoint: server.URL, Collection: "chunks", Dimension: 4}
	client, err := storage.NewQdrant(cfg)
	require.NoError(t, err)

	_, err = client.SearchSimilarChunks(context.Background(), []float64{0.1, 0.2}, 5, nil)
	assert.Error(t, err)
}

func TestDeletePointsBySubmissionUUID(t *testing.T) {
	var gotFilter map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/collections/chunks":
			fmt.Fprint(w, `{"result":{"config":{"params":{"vectors":{"size":4,"distance":"Cosine"}}}}}`)
		case r.Method == http.MethodPost && r.URL.Path == "/collections/chunks/points/delete":
			var body struct {
				Filter map[string]interface{} `json:"filter"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			gotFilter = body.Filter
			fmt.Fprint(w, `{"result":{"status":"completed"},"status":"ok"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	cfg := &config.QdrantConfig{Endpoint: server.URL, Collection: "chunks", Dimension: 4}
	client, err := storage.NewQdrant(cfg)
	require.NoError(t, err)

	require.NoError(t, client.DeletePointsBySubmissionUUID(context.Background(), "sub-uuid-9"))

	must := gotFilter["must"].([]interface{})
	require.Len(t, must, 1)
	cond := must[0].(map[string]interface{})
	assert.Equal(t, "submission_uuid", cond["key"])
}
